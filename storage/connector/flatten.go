package connector

import (
	"fmt"

	"github.com/viant/mcp-storagekit/storage/schema"
)

// Flatten turns a stored connector into the wizard's flat state. A nil
// input yields the canonical empty state. The configuration's "type" and
// "provider" entries move into the dedicated Schema/Provider fields; the
// remainder becomes the option map with sentinel strings lifted into tagged
// values.
func Flatten(existing *Connector) *Flat {
	if existing == nil {
		return EmptyFlat()
	}
	ret := &Flat{
		ConnectorID: existing.ID,
		Name:        existing.Metadata.Name,
		Namespace:   existing.Metadata.Namespace,
		Slug:        existing.Metadata.Slug,
		Visibility:  existing.Metadata.Visibility,
		Keywords:    append([]string(nil), existing.Metadata.Keywords...),
		MountPoint:  existing.Storage.TargetPath,
		SourcePath:  existing.Storage.SourcePath,
		ReadOnly:    existing.Storage.ReadOnly,
	}
	configuration := existing.Storage.Configuration
	if configuration == nil {
		return ret
	}
	ret.Options = make(map[string]Value, len(configuration))
	for key, raw := range configuration {
		switch key {
		case configTypeKey:
			ret.Schema, _ = raw.(string)
		case configProviderKey:
			ret.Provider, _ = raw.(string)
		default:
			ret.Options[key] = ValueFromWire(raw)
		}
	}
	return ret
}

// Unflatten rebuilds the nested definition submitted to the backing service.
// Only options with a defined, non-empty value are copied; values of
// sensitive fields are replaced by the submission sentinel so plaintext
// secrets never cross into the non-secret configuration map. Sensitive-field
// detection requires either a resolvable schema in the live catalog or an
// existing connector declaring its sensitive fields — when neither is
// available and options are present, submission is blocked with
// schema.ErrCatalogUnavailable rather than silently degrading.
func Unflatten(flat *Flat, schemata []*schema.Descriptor, existing *Connector) (*Definition, error) {
	visibility := VisibilityPrivate
	if flat.Visibility == VisibilityPublic {
		visibility = VisibilityPublic
	}
	sourcePath := flat.SourcePath
	if sourcePath == "" {
		sourcePath = "/"
	}
	ret := &Definition{
		Metadata: Metadata{
			Name:       flat.Name,
			Namespace:  flat.Namespace,
			Slug:       flat.Slug,
			Visibility: visibility,
			Keywords:   flat.Keywords,
		},
		Storage: StorageSpec{
			Configuration: map[string]interface{}{configTypeKey: flat.Schema},
			SourcePath:    sourcePath,
			TargetPath:    flat.MountPoint,
			ReadOnly:      flat.ReadOnly,
		},
	}
	if flat.Provider != "" {
		ret.Storage.Configuration[configProviderKey] = flat.Provider
	}
	if len(flat.Options) == 0 {
		return ret, nil
	}

	sensitive, err := sensitiveFieldSet(flat.Schema, schemata, existing)
	if err != nil {
		return nil, err
	}
	for name, value := range flat.Options {
		if value.IsEmpty() {
			continue
		}
		if sensitive[name] {
			ret.Storage.Configuration[name] = SensitiveFieldToken
			continue
		}
		wire, err := value.wire()
		if err != nil {
			return nil, fmt.Errorf("%w: option %q", err, name)
		}
		ret.Storage.Configuration[name] = wire
	}
	return ret, nil
}

// sensitiveFieldSet resolves which option names are secret, preferring the
// live catalog and falling back to the fields declared on the existing
// connector.
func sensitiveFieldSet(prefix string, schemata []*schema.Descriptor, existing *Connector) (map[string]bool, error) {
	for _, descriptor := range schemata {
		if descriptor.Prefix == prefix {
			ret := make(map[string]bool)
			for _, name := range FindSensitive(descriptor) {
				ret[name] = true
			}
			return ret, nil
		}
	}
	if existing != nil && existing.SensitiveFields != nil {
		ret := make(map[string]bool, len(existing.SensitiveFields))
		for _, field := range existing.SensitiveFields {
			ret[field.Name] = true
		}
		return ret, nil
	}
	return nil, fmt.Errorf("%w: cannot determine sensitive fields for schema %q", schema.ErrCatalogUnavailable, prefix)
}
