package schema

import (
	"sort"

	text "github.com/viant/tagly/format/text"
)

// lastPosition sorts entries without a declared position after all
// positioned ones.
const lastPosition = int(^uint(0) >> 1)

// Resolver merges the backend catalog with the static override table and
// derives the schema, provider and option views shown by the guided
// workflow. All methods are pure: inputs are never mutated.
type Resolver struct {
	overrides *Overrides
}

// NewResolver builds a Resolver; a nil override table selects the built-in
// defaults.
func NewResolver(overrides *Overrides) *Resolver {
	if overrides == nil {
		overrides = DefaultOverrides()
	}
	return &Resolver{overrides: overrides}
}

// Overrides exposes the underlying table.
func (r *Resolver) Overrides() *Overrides { return r.overrides }

// Schemas returns the catalog with overrides applied, hidden schemas
// dropped and entries ordered by position. A schema hidden by override, or
// excluded by the shortlist, survives when it is the currently selected one
// so that editing an existing connector keeps working.
func (r *Resolver) Schemas(catalog []*Descriptor, shortList bool, currentSchema string) []*Descriptor {
	var ret []*Descriptor
	for _, element := range catalog {
		if shortList && !r.overrides.inSchemaShortlist(element.Prefix) && element.Prefix != currentSchema {
			continue
		}
		override := r.overrides.schema(element.Prefix)
		if override != nil && override.Hide && element.Prefix != currentSchema {
			continue
		}
		ret = append(ret, mergeSchema(element, override))
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return positionOf(ret[i].Position) < positionOf(ret[j].Position)
	})
	return ret
}

// Schema resolves a single schema by prefix with its override applied, or
// nil when the prefix is unknown.
func (r *Resolver) Schema(catalog []*Descriptor, targetSchema string) *Descriptor {
	if targetSchema == "" {
		return nil
	}
	for _, element := range catalog {
		if element.Prefix == targetSchema {
			return mergeSchema(element, r.overrides.schema(targetSchema))
		}
	}
	return nil
}

// Providers derives the provider list for a schema. The boolean result
// distinguishes "this schema has no provider selection" (false) from a
// resolvable, possibly empty, list (true). For access-mode schemas the
// providers are synthesized from the provider option's examples with
// capitalized display names and no position.
func (r *Resolver) Providers(catalog []*Descriptor, targetSchema string, shortList bool, currentProvider string) ([]*Provider, bool) {
	storage := r.Schema(catalog, targetSchema)
	if storage == nil {
		return nil, false
	}
	providerOption := storage.Option("provider")
	hasProviders := providerOption != nil && len(providerOption.Examples) > 0
	hasAccessMode := r.HasAccessMode(storage)
	if !hasProviders && !hasAccessMode {
		return nil, false
	}

	if hasAccessMode {
		ret := make([]*Provider, 0, len(providerOption.Examples))
		for _, example := range providerOption.Examples {
			friendly := example.FriendlyName
			if friendly == "" {
				friendly = capitalize(example.Value)
			}
			ret = append(ret, &Provider{Name: example.Value, Help: example.Help, FriendlyName: friendly})
		}
		return ret, true
	}

	var schemaOverride *SchemaOverride
	if override := r.overrides.schema(targetSchema); override != nil {
		schemaOverride = override
	}
	shortlist := r.overrides.ProviderShortlist[targetSchema]

	var ret []*Provider
	for _, example := range providerOption.Examples {
		if shortList && shortlist != nil && !contains(shortlist, example.Value) && example.Value != currentProvider {
			continue
		}
		entry := &Provider{Name: example.Value, Help: example.Help}
		if schemaOverride != nil && schemaOverride.Providers != nil {
			if override, ok := schemaOverride.Providers[example.Value]; ok {
				if override.Name != "" {
					entry.Name = override.Name
				}
				if override.Help != "" {
					entry.Help = override.Help
				}
				entry.Position = override.Position
			}
		}
		ret = append(ret, entry)
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return positionOf(ret[i].Position) < positionOf(ret[j].Position)
	})
	return ret, true
}

// HasProviderShortlist reports whether guided mode narrows the provider list
// for the given schema.
func (r *Resolver) HasProviderShortlist(targetSchema string) bool {
	if targetSchema == "" {
		return false
	}
	_, ok := r.overrides.ProviderShortlist[targetSchema]
	return ok
}

// HasAccessMode reports whether the schema's provider option is really a
// fixed list of access modes rather than true providers.
func (r *Resolver) HasAccessMode(storage *Descriptor) bool {
	if storage == nil {
		return false
	}
	providerOption := storage.Option("provider")
	if providerOption == nil || len(providerOption.Examples) == 0 {
		return false
	}
	return r.overrides.hasAccessMode(storage.Prefix)
}

// UsesIntegration reports whether the schema is gated on an external
// connected service and, when it is, which kind.
func (r *Resolver) UsesIntegration(targetSchema string) (string, bool) {
	override := r.overrides.schema(targetSchema)
	if override == nil || !override.UsesIntegration {
		return "", false
	}
	kind := r.overrides.IntegrationKind[targetSchema]
	return kind, true
}

func positionOf(position *int) int {
	if position == nil {
		return lastPosition
	}
	return *position
}

func contains(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}

func capitalize(value string) string {
	if value == "" {
		return value
	}
	caseFormat := text.DetectCaseFormat(value)
	return caseFormat.To(text.CaseFormatUpperCamel).Format(value)
}
