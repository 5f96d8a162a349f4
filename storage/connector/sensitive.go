package connector

import (
	"sort"

	"github.com/viant/mcp-storagekit/storage/schema"
)

// FindSensitive returns the names of options flagged password or sensitive
// in the schema descriptor.
func FindSensitive(descriptor *schema.Descriptor) []string {
	if descriptor == nil {
		return nil
	}
	var ret []string
	for _, option := range descriptor.Options {
		if option.IsPassword || option.Sensitive {
			ret = append(ret, option.Name)
		}
	}
	return ret
}

// ProvidedSensitiveFields returns the configuration keys whose value is the
// submission sentinel, i.e. the fields the caller intends to supply out of
// band. The result is sorted for determinism.
func ProvidedSensitiveFields(configuration map[string]interface{}) []string {
	var ret []string
	for key, value := range configuration {
		if value == SensitiveFieldToken {
			ret = append(ret, key)
		}
	}
	sort.Strings(ret)
	return ret
}

// CredentialField is a sensitive field declared by the backend, annotated
// with whether the current configuration actually depends on it.
type CredentialField struct {
	SensitiveField
	RequiredCredential bool `json:"requiredCredential"`
}

// CredentialFieldDefinitions maps every sensitive field declared for a
// stored connector to a CredentialField, marking RequiredCredential for the
// fields present in the configuration with the submission sentinel. This
// distinguishes optional secret fields from ones the configuration depends
// on. Returns nil when the connector declares no sensitive fields.
func CredentialFieldDefinitions(existing *Connector) []CredentialField {
	if existing == nil || existing.SensitiveFields == nil {
		return nil
	}
	provided := make(map[string]bool)
	for _, name := range ProvidedSensitiveFields(existing.Storage.Configuration) {
		provided[name] = true
	}
	ret := make([]CredentialField, 0, len(existing.SensitiveFields))
	for _, field := range existing.SensitiveFields {
		ret = append(ret, CredentialField{
			SensitiveField:     field,
			RequiredCredential: provided[field.Name],
		})
	}
	return ret
}
