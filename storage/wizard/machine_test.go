package wizard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/mcp-storagekit/auth"
	"github.com/viant/mcp-storagekit/policy"
	"github.com/viant/mcp-storagekit/storage/connector"
	"github.com/viant/mcp-storagekit/storage/schema"
	"github.com/viant/mcp-storagekit/storage/secret"
)

type stubTester struct {
	err   error
	calls int
	last  map[string]interface{}
}

func (t *stubTester) Test(_ context.Context, configuration map[string]interface{}, _ string) error {
	t.calls++
	t.last = configuration
	return t.err
}

type recordingStore struct {
	saved   map[string][]connector.SecretValue
	deleted []string
}

func (s *recordingStore) Save(_ context.Context, connectorID string, values []connector.SecretValue) error {
	if s.saved == nil {
		s.saved = map[string][]connector.SecretValue{}
	}
	s.saved[connectorID] = values
	return nil
}

func (s *recordingStore) Delete(_ context.Context, connectorID string) error {
	s.deleted = append(s.deleted, connectorID)
	return nil
}

func newTestWizard(t *testing.T, options ...Option) *Wizard {
	t.Helper()
	authService := auth.New(&policy.Policy{})
	manager := connector.NewManager(&connector.Config{}, authService, schema.NewStaticClient(), schema.NewResolver(nil), secret.New(""))
	wiz := New(schema.NewResolver(nil), manager, options...)
	catalog, err := schema.NewStaticClient().Catalog(context.Background())
	assert.Nil(t, err)
	assert.Nil(t, wiz.Apply(SetSchemata{Schemata: catalog}))
	return wiz
}

func TestWizardSelectSchemaClearsScopedState(t *testing.T) {
	wiz := newTestWizard(t)
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "s3"}))
	assert.Nil(t, wiz.Apply(SelectProvider{Provider: "AWS"}))
	assert.Nil(t, wiz.Apply(SetOptions{Options: map[string]connector.Value{"region": connector.Plain("eu-west-1")}}))
	assert.Nil(t, wiz.Apply(SetDetails{SourcePath: strPtr("bucket/data")}))
	wiz.State().Validation = &ValidationResult{Success: true}

	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "webdav"}))
	state := wiz.State()
	assert.EqualValues(t, "webdav", state.Flat.Schema)
	assert.Empty(t, state.Flat.Provider)
	assert.Empty(t, state.Flat.Options)
	assert.Empty(t, state.Flat.SourcePath)
	assert.Nil(t, state.Validation)
}

func TestWizardSelectProviderClearsProviderScope(t *testing.T) {
	wiz := newTestWizard(t)
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "s3"}))
	assert.Nil(t, wiz.Apply(SelectProvider{Provider: "AWS"}))
	assert.Nil(t, wiz.Apply(SetOptions{Options: map[string]connector.Value{"region": connector.Plain("eu-west-1")}}))

	assert.Nil(t, wiz.Apply(SelectProvider{Provider: "Minio"}))
	state := wiz.State()
	assert.EqualValues(t, "s3", state.Flat.Schema)
	assert.EqualValues(t, "Minio", state.Flat.Provider)
	assert.Empty(t, state.Flat.Options)

	// Re-selecting the same provider is a no-op.
	assert.Nil(t, wiz.Apply(SetOptions{Options: map[string]connector.Value{"endpoint": connector.Plain("https://minio.local")}}))
	assert.Nil(t, wiz.Apply(SelectProvider{Provider: "Minio"}))
	assert.NotEmpty(t, wiz.State().Flat.Options)
}

func TestWizardSelectSchemaRequiresCatalog(t *testing.T) {
	authService := auth.New(&policy.Policy{})
	manager := connector.NewManager(&connector.Config{}, authService, schema.NewStaticClient(), schema.NewResolver(nil), secret.New(""))
	wiz := New(schema.NewResolver(nil), manager)
	err := wiz.Apply(SelectSchema{Schema: "s3"})
	assert.True(t, errors.Is(err, schema.ErrCatalogUnavailable))
}

func TestWizardToggleAdvanced(t *testing.T) {
	wiz := newTestWizard(t)

	// Enabling snaps to the advanced step.
	assert.Nil(t, wiz.Apply(ToggleAdvanced{Enabled: true}))
	assert.EqualValues(t, StepAdvanced, wiz.State().Step)

	// Disabling with no schema lands on schema selection.
	assert.Nil(t, wiz.Apply(ToggleAdvanced{Enabled: false}))
	assert.EqualValues(t, StepSchema, wiz.State().Step)

	// A schema that needs a provider still lands on schema selection until
	// the provider resolves.
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "s3"}))
	assert.Nil(t, wiz.Apply(ToggleAdvanced{Enabled: true}))
	assert.Nil(t, wiz.Apply(ToggleAdvanced{Enabled: false}))
	assert.EqualValues(t, StepSchema, wiz.State().Step)

	assert.Nil(t, wiz.Apply(SelectProvider{Provider: "AWS"}))
	assert.Nil(t, wiz.Apply(ToggleAdvanced{Enabled: true}))
	assert.Nil(t, wiz.Apply(ToggleAdvanced{Enabled: false}))
	assert.EqualValues(t, StepOptions, wiz.State().Step)

	// Schemas without provider selection go straight to options.
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "webdav"}))
	assert.Nil(t, wiz.Apply(ToggleAdvanced{Enabled: true}))
	assert.Nil(t, wiz.Apply(ToggleAdvanced{Enabled: false}))
	assert.EqualValues(t, StepOptions, wiz.State().Step)

	// Toggling on at the review step keeps the step.
	assert.Nil(t, wiz.Apply(SetStep{Step: TotalSteps}))
	assert.Nil(t, wiz.Apply(ToggleAdvanced{Enabled: true}))
	assert.EqualValues(t, TotalSteps, wiz.State().Step)
}

func TestWizardAdvancedConfig(t *testing.T) {
	wiz := newTestWizard(t)
	assert.Nil(t, wiz.Apply(SetAdvancedConfig{Text: "[my store]\ntype = s3\nprovider = AWS\nregion = eu-west-1\nsecret_access_key = <sensitive>\n"}))
	state := wiz.State()
	assert.EqualValues(t, "my store", state.Flat.Name)
	assert.EqualValues(t, "s3", state.Flat.Schema)
	assert.EqualValues(t, "AWS", state.Flat.Provider)
	assert.EqualValues(t, "eu-west-1", state.Flat.Options["region"].Text())
	assert.EqualValues(t, connector.KindPendingSecret, state.Flat.Options["secret_access_key"].Kind())

	text := wiz.AdvancedConfigText()
	assert.Contains(t, text, "[my store]")
	assert.Contains(t, text, "type = s3")
	assert.Contains(t, text, "secret_access_key = <sensitive>")

	// Applying new text replaces the previous schema-scoped state.
	assert.Nil(t, wiz.Apply(SetAdvancedConfig{Text: "type = webdav\nurl = https://dav.example.org\n"}))
	state = wiz.State()
	assert.EqualValues(t, "webdav", state.Flat.Schema)
	assert.Empty(t, state.Flat.Provider)
	_, hasRegion := state.Flat.Options["region"]
	assert.False(t, hasRegion)
	assert.EqualValues(t, "my store", state.Flat.Name)
}

func TestWizardSetStepBounds(t *testing.T) {
	wiz := newTestWizard(t)
	assert.NotNil(t, wiz.Apply(SetStep{Step: TotalSteps + 1}))
	assert.NotNil(t, wiz.Apply(SetStep{Step: -1}))
	assert.Nil(t, wiz.Apply(SetStep{Step: StepOptions}))
}

func TestWizardStaleValidationDiscarded(t *testing.T) {
	tester := &stubTester{}
	wiz := newTestWizard(t, WithTester(tester))
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "webdav"}))
	assert.Nil(t, wiz.Apply(SetOptions{Options: map[string]connector.Value{"url": connector.Plain("https://dav.example.org")}}))

	stale := wiz.State().Fingerprint()

	// Configuration changes after the call was issued.
	assert.Nil(t, wiz.Apply(SetOption{Name: "url", Value: connector.Plain("https://other.example.org")}))
	assert.Nil(t, wiz.Apply(ValidationSettled{Result: ValidationResult{Success: true, Fingerprint: stale}}))
	assert.Nil(t, wiz.State().Validation)

	// A settlement for the current snapshot sticks.
	current := wiz.State().Fingerprint()
	assert.Nil(t, wiz.Apply(ValidationSettled{Result: ValidationResult{Success: true, Fingerprint: current}}))
	assert.NotNil(t, wiz.State().Validation)
	assert.True(t, wiz.State().Validation.Success)
	assert.EqualValues(t, StatusSuccess, wiz.State().ValidationStatus)
}

func TestWizardValidate(t *testing.T) {
	tester := &stubTester{err: fmt.Errorf("%w: unreachable", connector.ErrConnection)}
	wiz := newTestWizard(t, WithTester(tester))
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "webdav"}))
	assert.Nil(t, wiz.Apply(SetOptions{Options: map[string]connector.Value{"url": connector.Plain("https://dav.example.org")}}))

	err := wiz.Validate(context.Background())
	assert.True(t, errors.Is(err, connector.ErrConnection))
	assert.EqualValues(t, StatusFailure, wiz.State().ValidationStatus)
	assert.EqualValues(t, 1, tester.calls)

	// Retrying after failure is a fresh call.
	tester.err = nil
	assert.Nil(t, wiz.Validate(context.Background()))
	assert.EqualValues(t, StatusSuccess, wiz.State().ValidationStatus)
}

func TestWizardValidateOmitsSecretMarkers(t *testing.T) {
	tester := &stubTester{}
	wiz := newTestWizard(t, WithTester(tester))
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "webdav"}))
	assert.Nil(t, wiz.Apply(SetOptions{Options: map[string]connector.Value{
		"url":          connector.Plain("https://dav.example.org"),
		"pass":         connector.PendingSecret(),
		"bearer_token": connector.Redacted(),
	}}))

	assert.Nil(t, wiz.Validate(context.Background()))
	assert.EqualValues(t, "https://dav.example.org", tester.last["url"])
	_, hasPass := tester.last["pass"]
	assert.False(t, hasPass, "pending secrets never reach the tester")
	_, hasToken := tester.last["bearer_token"]
	assert.False(t, hasToken, "redacted values never reach the tester")
}

func TestWizardSubmit(t *testing.T) {
	store := &recordingStore{}
	wiz := newTestWizard(t, WithCredentialStore(store))
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "webdav"}))
	assert.Nil(t, wiz.Apply(SetOptions{Options: map[string]connector.Value{
		"url":  connector.Plain("https://dav.example.org"),
		"pass": connector.Plain("secret-token"),
	}}))
	assert.Nil(t, wiz.Apply(SetDetails{Name: strPtr("dav"), MountPoint: strPtr("external_storage/dav")}))
	wiz.State().Flat.Slug = "dav"
	wiz.State().Flat.Namespace = "default"
	assert.Nil(t, wiz.Apply(SetFlags{SaveCredentials: boolPtr(true)}))

	stored, err := wiz.Submit(context.Background(), "", "")
	assert.Nil(t, err)
	assert.NotNil(t, stored)
	state := wiz.State()
	assert.True(t, state.Success)
	assert.EqualValues(t, stored.ID, state.ResultID)
	assert.EqualValues(t, "dav", state.ResultName)
	assert.EqualValues(t, StatusSuccess, state.SubmitStatus)
	assert.EqualValues(t, []connector.SecretValue{{Name: "pass", Value: "secret-token"}}, store.saved[stored.ID])
	assert.EqualValues(t, StatusSuccess, state.CredentialStatus)
	assert.EqualValues(t, "<sensitive>", stored.Storage.Configuration["pass"])

	// A second submit of the same wizard conflicts on slug; status reflects it.
	wiz.State().SubmitStatus = StatusIdle
	wiz.State().Success = false
	_, err = wiz.Submit(context.Background(), "", "")
	assert.True(t, errors.Is(err, connector.ErrConflict))
	assert.EqualValues(t, StatusFailure, wiz.State().SubmitStatus)
}

func TestWizardSubmitPendingSecretsCarryNoPayload(t *testing.T) {
	store := &recordingStore{}
	wiz := newTestWizard(t, WithCredentialStore(store))
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "webdav"}))
	assert.Nil(t, wiz.Apply(SetOptions{Options: map[string]connector.Value{
		"url":  connector.Plain("https://dav.example.org"),
		"pass": connector.PendingSecret(),
	}}))
	assert.Nil(t, wiz.Apply(SetDetails{Name: strPtr("dav"), MountPoint: strPtr("external_storage/dav")}))
	wiz.State().Flat.Slug = "dav"
	wiz.State().Flat.Namespace = "default"
	assert.Nil(t, wiz.Apply(SetFlags{SaveCredentials: boolPtr(true)}))

	stored, err := wiz.Submit(context.Background(), "", "")
	assert.Nil(t, err)
	assert.Empty(t, store.saved[stored.ID])
	assert.EqualValues(t, StatusIdle, wiz.State().CredentialStatus)
	assert.EqualValues(t, "<sensitive>", stored.Storage.Configuration["pass"])
}

func TestWizardSubmitDeletesWhenNotSaving(t *testing.T) {
	store := &recordingStore{}
	wiz := newTestWizard(t, WithCredentialStore(store))
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "webdav"}))
	assert.Nil(t, wiz.Apply(SetOptions{Options: map[string]connector.Value{
		"url":  connector.Plain("https://dav.example.org"),
		"pass": connector.Plain("secret-token"),
	}}))
	assert.Nil(t, wiz.Apply(SetDetails{Name: strPtr("dav"), MountPoint: strPtr("external_storage/dav")}))
	wiz.State().Flat.Slug = "dav"
	wiz.State().Flat.Namespace = "default"
	assert.Nil(t, wiz.Apply(SetFlags{SaveCredentials: boolPtr(false)}))

	stored, err := wiz.Submit(context.Background(), "", "")
	assert.Nil(t, err)
	assert.Empty(t, store.saved)
	assert.EqualValues(t, []string{stored.ID}, store.deleted)
	assert.EqualValues(t, StatusSuccess, wiz.State().CredentialStatus)
}

func TestWizardSubmitGating(t *testing.T) {
	wiz := newTestWizard(t)
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "webdav"}))
	wiz.State().Flat.Name = "dav"
	wiz.State().SubmitStatus = StatusTrying
	_, err := wiz.Submit(context.Background(), "", "")
	assert.True(t, errors.Is(err, ErrSubmitInFlight))

	wiz.State().Flat.Name = ""
	wiz.State().SubmitStatus = StatusIdle
	_, err = wiz.Submit(context.Background(), "", "")
	assert.True(t, errors.Is(err, ErrNotReady))
}

func TestWizardResetTransient(t *testing.T) {
	wiz := newTestWizard(t)
	assert.Nil(t, wiz.Apply(SelectSchema{Schema: "webdav"}))
	assert.Nil(t, wiz.Apply(SetOptions{Options: map[string]connector.Value{"url": connector.Plain("https://dav.example.org")}}))
	wiz.State().SubmitStatus = StatusFailure
	wiz.State().CredentialStatus = StatusFailure

	// Partial failure keeps user input.
	assert.Nil(t, wiz.Apply(ResetTransient{}))
	state := wiz.State()
	assert.EqualValues(t, "webdav", state.Flat.Schema)
	assert.NotEmpty(t, state.Flat.Options)
	assert.EqualValues(t, StatusIdle, state.SubmitStatus)
	assert.EqualValues(t, StatusIdle, state.CredentialStatus)

	// Confirmed success resets everything.
	state.Success = true
	assert.Nil(t, wiz.Apply(ResetTransient{}))
	state = wiz.State()
	assert.False(t, state.Success)
	assert.Empty(t, state.Flat.Schema)
	assert.EqualValues(t, StepSchema, state.Step)
}

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
