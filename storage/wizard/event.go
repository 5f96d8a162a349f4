package wizard

import (
	"github.com/viant/mcp-storagekit/storage/connector"
	"github.com/viant/mcp-storagekit/storage/schema"
)

// Event is a sealed state-transition input. Every mutation of wizard state
// goes through Wizard.Apply with one of the variants below, so illegal field
// combinations are unrepresentable.
type Event interface{ isEvent() }

// SetSchemata installs the fetched schema catalog.
type SetSchemata struct {
	Schemata []*schema.Descriptor
}

// SelectSchema picks a storage schema. Provider, options, source path and any
// validation result are schema-scoped and get cleared on change.
type SelectSchema struct {
	Schema string
}

// SelectProvider picks a provider variant. Options, source path and any
// validation result are provider-scoped and get cleared on change.
type SelectProvider struct {
	Provider string
}

// SetOptions replaces the configured option values.
type SetOptions struct {
	Options map[string]connector.Value
}

// SetOption updates a single option value.
type SetOption struct {
	Name  string
	Value connector.Value
}

// SetDetails updates the mount metadata collected on the final step.
type SetDetails struct {
	Name       *string
	Visibility *string
	Keywords   []string
	SourcePath *string
	MountPoint *string
	ReadOnly   *bool
}

// SetAdvancedConfig replaces schema, provider and options from free-form
// configuration text edited on the advanced step.
type SetAdvancedConfig struct {
	Text string
}

// SetStep moves the stepper directly.
type SetStep struct {
	Step int
}

// ToggleAdvanced switches between guided and advanced mode.
type ToggleAdvanced struct {
	Enabled bool
}

// SetFlags updates display and persistence toggles.
type SetFlags struct {
	ShowAllSchemas   *bool
	ShowAllProviders *bool
	ShowAllOptions   *bool
	SaveCredentials  *bool
}

// SubmitStarted marks the submit operation in flight.
type SubmitStarted struct{}

// SubmitSettled records the submit outcome.
type SubmitSettled struct {
	Result *connector.Connector
	Err    error
}

// ValidationStarted marks a test-connection call in flight, tagged with the
// configuration fingerprint it was issued against.
type ValidationStarted struct {
	Fingerprint string
}

// ValidationSettled records a test-connection outcome. Stale settlements,
// whose fingerprint no longer matches current state, are discarded.
type ValidationSettled struct {
	Result ValidationResult
}

// CredentialSaveSettled records the credential save/delete outcome.
type CredentialSaveSettled struct {
	Err error
}

// ProjectLinkSettled records the project link outcome.
type ProjectLinkSettled struct {
	Err error
}

// ResetTransient clears operation statuses. After a confirmed success it
// performs a full reset; after a partial failure it preserves user input.
type ResetTransient struct{}

// Reset restores the initial empty state.
type Reset struct{}

func (SetSchemata) isEvent()           {}
func (SelectSchema) isEvent()          {}
func (SelectProvider) isEvent()        {}
func (SetOptions) isEvent()            {}
func (SetOption) isEvent()             {}
func (SetDetails) isEvent()            {}
func (SetAdvancedConfig) isEvent()     {}
func (SetStep) isEvent()               {}
func (ToggleAdvanced) isEvent()        {}
func (SetFlags) isEvent()              {}
func (SubmitStarted) isEvent()         {}
func (SubmitSettled) isEvent()         {}
func (ValidationStarted) isEvent()     {}
func (ValidationSettled) isEvent()     {}
func (CredentialSaveSettled) isEvent() {}
func (ProjectLinkSettled) isEvent()    {}
func (ResetTransient) isEvent()        {}
func (Reset) isEvent()                 {}
