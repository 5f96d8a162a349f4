package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/mcp-storagekit/storage/connector"
	"github.com/viant/mcp-storagekit/storage/schema"
)

var (
	// ErrSubmitInFlight rejects a submit while the previous one is pending.
	ErrSubmitInFlight = errors.New("submit already in flight")
	// ErrNotReady rejects a submit while required selections are missing.
	ErrNotReady = errors.New("configuration is not ready to submit")
)

// Wizard drives one connector configuration dialog. It owns its State
// exclusively; concurrent dialogs each construct their own Wizard.
type Wizard struct {
	resolver *schema.Resolver
	submit   connector.SubmitClient
	tester   connector.ConnectionTester
	secrets  connector.CredentialStore
	linker   connector.ProjectLinker

	existing *connector.Connector
	state    *State
}

// Option customizes a Wizard.
type Option func(*Wizard)

// WithTester installs the connection tester used by Validate.
func WithTester(tester connector.ConnectionTester) Option {
	return func(w *Wizard) { w.tester = tester }
}

// WithCredentialStore installs the store used to persist sensitive values.
func WithCredentialStore(store connector.CredentialStore) Option {
	return func(w *Wizard) { w.secrets = store }
}

// WithProjectLinker installs the project linker used after a create.
func WithProjectLinker(linker connector.ProjectLinker) Option {
	return func(w *Wizard) { w.linker = linker }
}

// WithExisting seeds the wizard from a stored connector, switching it into
// update mode.
func WithExisting(existing *connector.Connector) Option {
	return func(w *Wizard) {
		w.existing = existing
		w.state.Flat = connector.Flatten(existing)
	}
}

// New constructs a Wizard around the given resolver and submit client.
func New(resolver *schema.Resolver, submit connector.SubmitClient, options ...Option) *Wizard {
	if resolver == nil {
		resolver = schema.NewResolver(nil)
	}
	ret := &Wizard{
		resolver: resolver,
		submit:   submit,
		state:    NewState(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// State exposes the current state. Callers treat it as read-only and mutate
// through Apply.
func (w *Wizard) State() *State { return w.state }

// Mode reports whether a submit will create or update.
func (w *Wizard) Mode() connector.Mode {
	if w.existing != nil {
		return connector.ModeUpdate
	}
	return connector.ModeCreate
}

// Apply runs one state transition. Unknown events are rejected.
func (w *Wizard) Apply(event Event) error {
	s := w.state
	switch e := event.(type) {
	case SetSchemata:
		s.Schemata = e.Schemata
	case SelectSchema:
		if len(s.Schemata) == 0 {
			return schema.ErrCatalogUnavailable
		}
		if s.Flat.Schema == e.Schema {
			return nil
		}
		s.Flat.Schema = e.Schema
		s.Flat.Provider = ""
		s.Flat.Options = nil
		s.Flat.SourcePath = ""
		s.clearValidation()
	case SelectProvider:
		if s.Flat.Provider == e.Provider {
			return nil
		}
		s.Flat.Provider = e.Provider
		s.Flat.Options = nil
		s.Flat.SourcePath = ""
		s.clearValidation()
	case SetOptions:
		s.Flat.Options = e.Options
		s.clearValidation()
	case SetOption:
		if s.Flat.Options == nil {
			s.Flat.Options = map[string]connector.Value{}
		}
		if e.Value.IsEmpty() {
			delete(s.Flat.Options, e.Name)
		} else {
			s.Flat.Options[e.Name] = e.Value
		}
		s.clearValidation()
	case SetDetails:
		w.applyDetails(e)
	case SetAdvancedConfig:
		w.applyAdvancedConfig(e.Text)
	case SetStep:
		if e.Step < StepAdvanced || e.Step > TotalSteps {
			return fmt.Errorf("step %d out of range", e.Step)
		}
		s.Step = e.Step
		if e.Step > s.CompletedSteps {
			s.CompletedSteps = e.Step - 1
		}
	case ToggleAdvanced:
		w.toggleAdvanced(e.Enabled)
	case SetFlags:
		w.applyFlags(e)
	case SubmitStarted:
		if !s.SubmitStatus.Settled() {
			return ErrSubmitInFlight
		}
		s.SubmitStatus = StatusTrying
	case SubmitSettled:
		if e.Err != nil {
			s.SubmitStatus = StatusFailure
			return nil
		}
		s.SubmitStatus = StatusSuccess
		s.Success = true
		if e.Result != nil {
			s.ResultID = e.Result.ID
			s.ResultName = e.Result.Metadata.Name
		}
	case ValidationStarted:
		s.ValidationStatus = StatusTrying
		s.Validation = &ValidationResult{Fingerprint: e.Fingerprint}
	case ValidationSettled:
		if e.Result.Fingerprint != s.Fingerprint() {
			return nil
		}
		s.ValidationStatus = StatusSuccess
		if !e.Result.Success {
			s.ValidationStatus = StatusFailure
		}
		result := e.Result
		s.Validation = &result
	case CredentialSaveSettled:
		s.CredentialStatus = StatusSuccess
		if e.Err != nil {
			s.CredentialStatus = StatusFailure
		}
	case ProjectLinkSettled:
		s.LinkStatus = StatusSuccess
		if e.Err != nil {
			s.LinkStatus = StatusFailure
		}
	case ResetTransient:
		w.resetTransient()
	case Reset:
		w.state = NewState()
	default:
		return fmt.Errorf("unsupported event %T", event)
	}
	return nil
}

func (w *Wizard) applyDetails(e SetDetails) {
	flat := w.state.Flat
	if e.Name != nil {
		flat.Name = *e.Name
	}
	if e.Visibility != nil {
		flat.Visibility = *e.Visibility
	}
	if e.Keywords != nil {
		flat.Keywords = e.Keywords
	}
	if e.SourcePath != nil {
		flat.SourcePath = *e.SourcePath
		w.state.clearValidation()
	}
	if e.MountPoint != nil {
		flat.MountPoint = *e.MountPoint
	}
	if e.ReadOnly != nil {
		flat.ReadOnly = *e.ReadOnly
	}
}

// applyAdvancedConfig replaces the schema-scoped state wholesale from the
// parsed text. A section header supplies the connector name when none is set.
func (w *Wizard) applyAdvancedConfig(text string) {
	s := w.state
	name, configuration := connector.ParseAdvancedConfig(text)
	if name != "" && s.Flat.Name == "" {
		s.Flat.Name = name
	}
	s.Flat.Schema = ""
	s.Flat.Provider = ""
	s.Flat.Options = map[string]connector.Value{}
	for key, value := range configuration {
		switch key {
		case "type":
			s.Flat.Schema = value
		case "provider":
			s.Flat.Provider = value
		default:
			s.Flat.Options[key] = connector.ValueFromWire(value)
		}
	}
	s.clearValidation()
}

// AdvancedConfigText renders the current configuration as editable text.
func (w *Wizard) AdvancedConfigText() string {
	return connector.FormatAdvancedConfig(w.state.Flat)
}

func (w *Wizard) applyFlags(e SetFlags) {
	s := w.state
	if e.ShowAllSchemas != nil {
		s.ShowAllSchemas = *e.ShowAllSchemas
	}
	if e.ShowAllProviders != nil {
		s.ShowAllProviders = *e.ShowAllProviders
	}
	if e.ShowAllOptions != nil {
		s.ShowAllOptions = *e.ShowAllOptions
	}
	if e.SaveCredentials != nil {
		s.SaveCredentials = *e.SaveCredentials
	}
}

// toggleAdvanced switches input modes. Enabling snaps to step 0 unless the
// dialog already reached final review. Disabling re-evaluates readiness and
// lands on schema selection or the options step.
func (w *Wizard) toggleAdvanced(enabled bool) {
	s := w.state
	s.AdvancedMode = enabled
	if enabled {
		if s.Step != TotalSteps {
			s.Step = StepAdvanced
		}
		return
	}
	if w.guidedReady() {
		s.Step = StepOptions
		return
	}
	s.Step = StepSchema
}

// guidedReady reports whether the current schema and provider selections
// still resolve against the catalog.
func (w *Wizard) guidedReady() bool {
	s := w.state
	if s.Flat.Schema == "" {
		return false
	}
	descriptor := w.resolver.Schema(s.Schemata, s.Flat.Schema)
	if descriptor == nil {
		return false
	}
	providers, required := w.resolver.Providers(s.Schemata, s.Flat.Schema, !s.ShowAllProviders, s.Flat.Provider)
	if !required {
		return true
	}
	if s.Flat.Provider == "" {
		return false
	}
	for _, candidate := range providers {
		if candidate.Name == s.Flat.Provider {
			return true
		}
	}
	return false
}

// resetTransient clears operation statuses after the dialog closes. A
// confirmed success resets everything; a partial failure keeps typed input.
func (w *Wizard) resetTransient() {
	s := w.state
	if s.Success {
		w.state = NewState()
		w.existing = nil
		return
	}
	s.CredentialStatus = StatusIdle
	s.LinkStatus = StatusIdle
	s.SubmitStatus = StatusIdle
	s.clearValidation()
}

// Validate runs the test-connection operation against the current
// configuration. The settlement carries the fingerprint of the snapshot it
// validated so late responses to an already-changed configuration get
// dropped.
func (w *Wizard) Validate(ctx context.Context) error {
	if w.tester == nil {
		return fmt.Errorf("no connection tester configured")
	}
	s := w.state
	if !s.ValidationStatus.Settled() {
		return nil
	}
	fingerprint := s.Fingerprint()
	if err := w.Apply(ValidationStarted{Fingerprint: fingerprint}); err != nil {
		return err
	}
	configuration := map[string]interface{}{"type": s.Flat.Schema}
	if s.Flat.Provider != "" {
		configuration["provider"] = s.Flat.Provider
	}
	for name, value := range s.Flat.Options {
		// Secret markers carry no payload; only typed values reach the tester.
		if value.Kind() != connector.KindPlain || value.IsEmpty() {
			continue
		}
		configuration[name] = value.Text()
	}
	err := w.tester.Test(ctx, configuration, s.Flat.SourcePath)
	result := ValidationResult{Success: err == nil, Fingerprint: fingerprint}
	if err != nil {
		result.Error = err.Error()
	}
	if applyErr := w.Apply(ValidationSettled{Result: result}); applyErr != nil {
		return applyErr
	}
	return err
}

// Submit runs the create/update flow: unflatten, submit, then fold in the
// credential save and optional project link. Only one submission may be in
// flight per wizard.
func (w *Wizard) Submit(ctx context.Context, ifMatch string, projectID string) (*connector.Connector, error) {
	s := w.state
	if s.Flat.Schema == "" || s.Flat.Name == "" {
		return nil, ErrNotReady
	}
	if err := w.Apply(SubmitStarted{}); err != nil {
		return nil, err
	}
	definition, err := connector.Unflatten(s.Flat, s.Schemata, w.existing)
	if err != nil {
		_ = w.Apply(SubmitSettled{Err: err})
		return nil, err
	}
	stored, err := w.submit.Submit(ctx, definition, w.Mode(), ifMatch)
	if err != nil {
		_ = w.Apply(SubmitSettled{Err: err})
		return nil, err
	}
	if err := w.Apply(SubmitSettled{Result: stored}); err != nil {
		return stored, err
	}
	w.settleCredentials(ctx, stored)
	if projectID != "" && w.linker != nil {
		_ = w.Apply(ProjectLinkSettled{Err: w.linker.Link(ctx, stored.ID, projectID)})
	}
	return stored, nil
}

// settleCredentials persists or clears the sensitive values of the just
// stored connector, recording the outcome without failing the submission.
func (w *Wizard) settleCredentials(ctx context.Context, stored *connector.Connector) {
	if w.secrets == nil {
		return
	}
	s := w.state
	if !s.SaveCredentials {
		_ = w.Apply(CredentialSaveSettled{Err: w.secrets.Delete(ctx, stored.ID)})
		return
	}
	var values []connector.SecretValue
	for _, field := range stored.SensitiveFields {
		value, ok := s.Flat.Options[field.Name]
		if !ok || value.Kind() != connector.KindPlain || value.IsEmpty() {
			continue
		}
		values = append(values, connector.SecretValue{Name: field.Name, Value: value.Text()})
	}
	if len(values) == 0 {
		return
	}
	_ = w.Apply(CredentialSaveSettled{Err: w.secrets.Save(ctx, stored.ID, values)})
}
