// Package sequence walks a batch of connectors through credential collection
// one at a time, so each test-connection call depends on exactly one
// candidate configuration.
package sequence

import (
	"github.com/viant/mcp-storagekit/storage/connector"
)

// Config is one connector's entry in a credential sequence.
type Config struct {
	Connector       *connector.Connector
	Active          bool
	SaveCredentials bool
	Touched         bool

	SensitiveFieldDefinitions []connector.CredentialField
	SensitiveFieldValues      map[string]string
	SavedCredentialFields     []string
}

// NewConfig builds a sequence entry for a connector. Fields with an already
// saved credential are pre-filled with the display sentinel; the sequencer
// rejects that sentinel if resubmitted unchanged.
func NewConfig(conn *connector.Connector, savedFields []string) *Config {
	ret := &Config{
		Connector:                 conn,
		Active:                    true,
		SensitiveFieldDefinitions: connector.CredentialFieldDefinitions(conn),
		SensitiveFieldValues:      map[string]string{},
		SavedCredentialFields:     savedFields,
	}
	saved := map[string]bool{}
	for _, name := range savedFields {
		saved[name] = true
	}
	for _, field := range ret.SensitiveFieldDefinitions {
		if saved[field.Name] {
			ret.SensitiveFieldValues[field.Name] = connector.SavedSecretDisplayValue
		}
	}
	return ret
}

// NeedsCredentials reports whether this entry has at least one sensitive
// field the current configuration depends on.
func (c *Config) NeedsCredentials() bool {
	for _, field := range c.SensitiveFieldDefinitions {
		if field.RequiredCredential {
			return true
		}
	}
	return false
}

// RequiredFields lists the names of the credentials this entry must collect.
func (c *Config) RequiredFields() []string {
	var ret []string
	for _, field := range c.SensitiveFieldDefinitions {
		if field.RequiredCredential {
			ret = append(ret, field.Name)
		}
	}
	return ret
}

// ValidationParameters merges the collected sensitive values into the stored
// configuration, producing the map and source path a test-connection call
// consumes.
func (c *Config) ValidationParameters() (map[string]interface{}, string) {
	storage := c.Connector.Definition.Storage
	configuration := make(map[string]interface{}, len(storage.Configuration)+len(c.SensitiveFieldValues))
	for key, value := range storage.Configuration {
		configuration[key] = value
	}
	for name, value := range c.SensitiveFieldValues {
		if value == "" || value == connector.SavedSecretDisplayValue {
			continue
		}
		configuration[name] = value
	}
	return configuration, storage.SourcePath
}

// AfterSavingCredentials returns the entry's post-save shape: collected
// values are dropped and replaced by the display sentinel so plaintext never
// outlives the save, and the save-credentials and touched flags reset so the
// entry reads as settled.
func (c *Config) AfterSavingCredentials() *Config {
	ret := *c
	ret.SaveCredentials = false
	ret.Touched = false
	ret.SensitiveFieldValues = map[string]string{}
	ret.SavedCredentialFields = nil
	for _, field := range c.SensitiveFieldDefinitions {
		if field.RequiredCredential {
			ret.SavedCredentialFields = append(ret.SavedCredentialFields, field.Name)
			ret.SensitiveFieldValues[field.Name] = connector.SavedSecretDisplayValue
		}
	}
	return &ret
}

// Override is the per-session adjustment one sequence entry contributes to a
// mount: the stored configuration with session-scoped credential values
// merged in, or a skip marker for entries excluded from the session.
type Override struct {
	ConnectorID   string                 `json:"data_connector_id"`
	Skip          bool                   `json:"skip,omitempty"`
	Configuration map[string]interface{} `json:"configuration,omitempty"`
}

// OverridesFromConfig derives the session overrides for one entry. Entries
// that were neither skipped nor touched contribute nothing. Collected values
// replace their counterparts in the configuration copy; explicitly cleared
// fields drop out of it; display sentinels stand for a server-side saved
// credential and leave the stored value alone.
func OverridesFromConfig(c *Config) []Override {
	skipped := !c.Active
	if !skipped && !c.Touched {
		return nil
	}
	storage := c.Connector.Definition.Storage
	configuration := make(map[string]interface{}, len(storage.Configuration)+len(c.SensitiveFieldValues))
	for key, value := range storage.Configuration {
		configuration[key] = value
	}
	for name, value := range c.SensitiveFieldValues {
		switch value {
		case connector.SavedSecretDisplayValue:
		case "":
			delete(configuration, name)
		default:
			configuration[name] = value
		}
	}
	return []Override{{
		ConnectorID:   c.Connector.ID,
		Skip:          skipped,
		Configuration: configuration,
	}}
}
