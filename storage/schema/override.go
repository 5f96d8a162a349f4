package schema

// SchemaOverride adjusts how a backend schema is presented. All fields are
// optional; a nil pointer leaves the catalog value untouched.
type SchemaOverride struct {
	Name            string
	Description     string
	Position        *int
	Hide            bool
	ForceReadOnly   *bool
	UsesIntegration bool
	Providers       map[string]*ProviderOverride
}

// ProviderOverride adjusts a single provider entry of a schema.
type ProviderOverride struct {
	Name     string
	Help     string
	Position *int
}

// OptionOverride adjusts a single option of a schema, optionally scoped to a
// provider.
type OptionOverride struct {
	FriendlyName string
	Help         *string
	Hide         *bool
	Advanced     *bool
	Position     *int
	Examples     []Example
}

// Overrides is the static, UI-maintained override table applied on top of the
// backend catalog. The two option maps are keyed schema prefix -> option name
// and schema prefix -> provider -> option name respectively; the provider
// scoped entry wins.
type Overrides struct {
	Schemas         map[string]*SchemaOverride
	Options         map[string]map[string]*OptionOverride
	ProviderOptions map[string]map[string]map[string]*OptionOverride

	// SchemaShortlist limits guided mode to a fixed set of prefixes.
	SchemaShortlist []string
	// ProviderShortlist limits guided-mode providers per schema prefix.
	ProviderShortlist map[string][]string
	// AccessModeSchemas enumerates schemas whose "provider" option is really
	// a small fixed list of access modes.
	AccessModeSchemas []string
	// IntegrationKind maps integration-gated schema prefixes to the kind of
	// connected service they require.
	IntegrationKind map[string]string

	SourcePathHints map[string]*SourceHint
}

func (o *Overrides) schema(prefix string) *SchemaOverride {
	if o == nil || o.Schemas == nil {
		return nil
	}
	return o.Schemas[prefix]
}

func (o *Overrides) option(prefix, name string) *OptionOverride {
	if o == nil || o.Options == nil {
		return nil
	}
	if byOption, ok := o.Options[prefix]; ok {
		return byOption[name]
	}
	return nil
}

func (o *Overrides) providerOption(prefix, provider, name string) *OptionOverride {
	if o == nil || o.ProviderOptions == nil || provider == "" {
		return nil
	}
	byProvider, ok := o.ProviderOptions[prefix]
	if !ok {
		return nil
	}
	byOption, ok := byProvider[provider]
	if !ok {
		return nil
	}
	return byOption[name]
}

func (o *Overrides) inSchemaShortlist(prefix string) bool {
	for _, candidate := range o.SchemaShortlist {
		if candidate == prefix {
			return true
		}
	}
	return false
}

func (o *Overrides) hasAccessMode(prefix string) bool {
	if o == nil {
		return false
	}
	for _, candidate := range o.AccessModeSchemas {
		if candidate == prefix {
			return true
		}
	}
	return false
}

// mergeSchema applies the override on a copy of the descriptor; the input is
// never mutated.
func mergeSchema(src *Descriptor, override *SchemaOverride) *Descriptor {
	ret := src.clone()
	if override == nil {
		return ret
	}
	if override.Name != "" {
		ret.Name = override.Name
	}
	if override.Description != "" {
		ret.Description = override.Description
	}
	if override.Position != nil {
		ret.Position = override.Position
	}
	if override.ForceReadOnly != nil {
		ret.ForceReadOnly = *override.ForceReadOnly
	}
	return ret
}

// mergeOption applies schema and provider scoped overrides on a copy of the
// option; the provider-scoped record wins field by field.
func mergeOption(src *Option, overrides ...*OptionOverride) *Option {
	ret := *src
	for _, override := range overrides {
		if override == nil {
			continue
		}
		if override.FriendlyName != "" {
			ret.FriendlyName = override.FriendlyName
		}
		if override.Help != nil {
			ret.Help = *override.Help
		}
		if override.Hide != nil {
			ret.Hide = FlagOff()
			if *override.Hide {
				ret.Hide = FlagOn()
			}
		}
		if override.Advanced != nil {
			ret.Advanced = *override.Advanced
		}
		if override.Position != nil {
			ret.Position = override.Position
		}
		if len(override.Examples) > 0 {
			ret.Examples = override.Examples
		}
	}
	return &ret
}
