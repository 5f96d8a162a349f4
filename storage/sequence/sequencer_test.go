package sequence

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/mcp-storagekit/storage/connector"
)

type stubTester struct {
	err   error
	calls int
}

func (t *stubTester) Test(_ context.Context, _ map[string]interface{}, _ string) error {
	t.calls++
	return t.err
}

type recordingStore struct {
	saved map[string][]connector.SecretValue
}

func (s *recordingStore) Save(_ context.Context, connectorID string, values []connector.SecretValue) error {
	if s.saved == nil {
		s.saved = map[string][]connector.SecretValue{}
	}
	s.saved[connectorID] = values
	return nil
}

func (s *recordingStore) Delete(_ context.Context, _ string) error { return nil }

// testConnector builds a stored connector whose configuration carries the
// submission sentinel for each name in provided.
func testConnector(id, slug string, sensitive, provided []string) *connector.Connector {
	configuration := map[string]interface{}{
		"type": "webdav",
		"url":  "https://dav.example.org/" + slug,
	}
	for _, name := range provided {
		configuration[name] = connector.SensitiveFieldToken
	}
	var fields []connector.SensitiveField
	for _, name := range sensitive {
		fields = append(fields, connector.SensitiveField{Name: name})
	}
	return &connector.Connector{
		ID:              id,
		SensitiveFields: fields,
		Definition: connector.Definition{
			Metadata: connector.Metadata{Name: slug, Slug: slug, Namespace: "default"},
			Storage: connector.StorageSpec{
				Configuration: configuration,
				SourcePath:    "/",
				TargetPath:    "external_storage/" + slug,
			},
		},
	}
}

func TestSequencerPartitionsPassthrough(t *testing.T) {
	tester := &stubTester{}
	var completed []*Config
	seq := NewSequencer(tester, nil, func(configs []*Config) { completed = configs })

	passthrough := NewConfig(testConnector("c1", "open", nil, nil), nil)
	credentialed := NewConfig(testConnector("c2", "locked", []string{"pass"}, []string{"pass"}), nil)
	assert.Nil(t, seq.Start([]*Config{passthrough, credentialed}))

	assert.False(t, seq.Done())
	assert.Equal(t, credentialed, seq.Active())
	assert.EqualValues(t, []*Config{credentialed}, seq.Steps())

	assert.Nil(t, seq.Continue(context.Background(), map[string]string{"pass": "secret"}))
	assert.True(t, seq.Done())
	assert.EqualValues(t, []*Config{passthrough, credentialed}, completed)
	assert.False(t, passthrough.Touched)
	assert.True(t, credentialed.Touched)
	assert.EqualValues(t, 1, tester.calls)
}

func TestSequencerCompletesImmediatelyWithNothingToCollect(t *testing.T) {
	var completed []*Config
	seq := NewSequencer(&stubTester{}, nil, func(configs []*Config) { completed = configs })
	first := NewConfig(testConnector("c1", "one", nil, nil), nil)
	second := NewConfig(testConnector("c2", "two", []string{"pass"}, nil), nil)
	assert.Nil(t, seq.Start([]*Config{first, second}))
	assert.True(t, seq.Done())
	assert.Nil(t, seq.Active())
	assert.EqualValues(t, 2, len(completed))
}

func TestSequencerContinueRejectsDisplaySentinel(t *testing.T) {
	tester := &stubTester{}
	seq := NewSequencer(tester, nil, nil)
	entry := NewConfig(testConnector("c1", "locked", []string{"pass"}, []string{"pass"}), nil)
	assert.Nil(t, seq.Start([]*Config{entry}))

	err := seq.Continue(context.Background(), map[string]string{"pass": connector.SavedSecretDisplayValue})
	assert.True(t, errors.Is(err, connector.ErrSentinelMisuse))
	assert.EqualValues(t, 0, tester.calls)
	assert.Equal(t, entry, seq.Active())
}

func TestSequencerContinueRequiresCredentials(t *testing.T) {
	tester := &stubTester{}
	seq := NewSequencer(tester, nil, nil)
	entry := NewConfig(testConnector("c1", "locked", []string{"user", "pass"}, []string{"user", "pass"}), nil)
	assert.Nil(t, seq.Start([]*Config{entry}))

	err := seq.Continue(context.Background(), map[string]string{"user": "alice"})
	assert.True(t, errors.Is(err, connector.ErrValidation))
	assert.EqualValues(t, 0, tester.calls)
}

func TestSequencerFailedTestDoesNotAdvance(t *testing.T) {
	tester := &stubTester{err: fmt.Errorf("%w: unreachable", connector.ErrConnection)}
	seq := NewSequencer(tester, nil, nil)
	entry := NewConfig(testConnector("c1", "locked", []string{"pass"}, []string{"pass"}), nil)
	assert.Nil(t, seq.Start([]*Config{entry}))

	err := seq.Continue(context.Background(), map[string]string{"pass": "secret"})
	assert.True(t, errors.Is(err, connector.ErrConnection))
	assert.False(t, seq.Done())
	assert.Equal(t, entry, seq.Active())

	// A corrected retry succeeds and completes the walk.
	tester.err = nil
	assert.Nil(t, seq.Continue(context.Background(), map[string]string{"pass": "secret"}))
	assert.True(t, seq.Done())
}

func TestSequencerSkip(t *testing.T) {
	var completed []*Config
	seq := NewSequencer(&stubTester{}, nil, func(configs []*Config) { completed = configs })
	entry := NewConfig(testConnector("c1", "locked", []string{"pass"}, []string{"pass"}), nil)
	assert.Nil(t, seq.Start([]*Config{entry}))

	assert.Nil(t, seq.Skip())
	assert.True(t, seq.Done())
	assert.False(t, entry.Active)
	assert.True(t, entry.Touched)
	assert.EqualValues(t, 1, len(completed))
	assert.NotNil(t, seq.Skip())

	overrides := seq.Overrides()
	if assert.EqualValues(t, 1, len(overrides)) {
		assert.True(t, overrides[0].Skip)
		assert.EqualValues(t, "c1", overrides[0].ConnectorID)
	}
}

func TestSequencerSelectStep(t *testing.T) {
	tester := &stubTester{}
	seq := NewSequencer(tester, nil, nil)
	first := NewConfig(testConnector("c1", "first", []string{"pass"}, []string{"pass"}), nil)
	second := NewConfig(testConnector("c2", "second", []string{"pass"}, []string{"pass"}), nil)
	assert.Nil(t, seq.Start([]*Config{first, second}))

	// Neither the active nor a future step is selectable.
	assert.NotNil(t, seq.SelectStep(0))
	assert.NotNil(t, seq.SelectStep(1))

	assert.Nil(t, seq.Continue(context.Background(), map[string]string{"pass": "secret"}))
	assert.EqualValues(t, 1, seq.Cursor())
	assert.Equal(t, second, seq.Active())

	assert.Nil(t, seq.SelectStep(0))
	assert.Equal(t, first, seq.Active())

	// Advancing from a revisited step lands on the next untouched entry.
	assert.Nil(t, seq.Continue(context.Background(), map[string]string{"pass": "rotated"}))
	assert.Equal(t, second, seq.Active())
	assert.Nil(t, seq.Continue(context.Background(), map[string]string{"pass": "secret"}))
	assert.True(t, seq.Done())
}

func TestSequencerSavesCredentials(t *testing.T) {
	store := &recordingStore{}
	seq := NewSequencer(&stubTester{}, store, nil)
	entry := NewConfig(testConnector("c1", "locked", []string{"pass"}, []string{"pass"}), nil)
	entry.SaveCredentials = true
	assert.Nil(t, seq.Start([]*Config{entry}))

	assert.Nil(t, seq.Continue(context.Background(), map[string]string{"pass": "secret"}))
	assert.EqualValues(t, []connector.SecretValue{{Name: "pass", Value: "secret"}}, store.saved["c1"])
	assert.EqualValues(t, map[string]string{"pass": connector.SavedSecretDisplayValue}, entry.SensitiveFieldValues)
	assert.EqualValues(t, []string{"pass"}, entry.SavedCredentialFields)
	assert.False(t, entry.SaveCredentials, "save request is consumed by the save")
}

func TestConfigAfterSavingCredentials(t *testing.T) {
	entry := NewConfig(testConnector("c1", "locked", []string{"pass"}, []string{"pass"}), nil)
	entry.SaveCredentials = true
	entry.Touched = true
	entry.SensitiveFieldValues["pass"] = "secret"

	saved := entry.AfterSavingCredentials()
	assert.False(t, saved.SaveCredentials)
	assert.False(t, saved.Touched)
	assert.EqualValues(t, connector.SavedSecretDisplayValue, saved.SensitiveFieldValues["pass"])
	assert.EqualValues(t, []string{"pass"}, saved.SavedCredentialFields)

	// The receiver is left alone.
	assert.True(t, entry.SaveCredentials)
	assert.EqualValues(t, "secret", entry.SensitiveFieldValues["pass"])
}

func TestOverridesFromConfig(t *testing.T) {
	untouched := NewConfig(testConnector("c1", "plain", nil, nil), nil)
	assert.Nil(t, OverridesFromConfig(untouched))

	touched := NewConfig(testConnector("c2", "locked", []string{"user", "pass"}, []string{"user", "pass"}), []string{"user"})
	touched.Touched = true
	touched.SensitiveFieldValues["pass"] = "secret"
	overrides := OverridesFromConfig(touched)
	if assert.EqualValues(t, 1, len(overrides)) {
		assert.EqualValues(t, "c2", overrides[0].ConnectorID)
		assert.False(t, overrides[0].Skip)
		assert.EqualValues(t, "secret", overrides[0].Configuration["pass"])
		// The stored sentinel stays put for the server-side saved credential.
		assert.EqualValues(t, connector.SensitiveFieldToken, overrides[0].Configuration["user"])
		assert.EqualValues(t, "https://dav.example.org/locked", overrides[0].Configuration["url"])
	}
	// The stored configuration is never mutated in place.
	assert.EqualValues(t, connector.SensitiveFieldToken, touched.Connector.Storage.Configuration["pass"])

	skipped := NewConfig(testConnector("c3", "skipped", []string{"pass"}, []string{"pass"}), nil)
	skipped.Active = false
	skipped.Touched = true
	skipped.SensitiveFieldValues["pass"] = ""
	overrides = OverridesFromConfig(skipped)
	if assert.EqualValues(t, 1, len(overrides)) {
		assert.True(t, overrides[0].Skip)
		_, hasPass := overrides[0].Configuration["pass"]
		assert.False(t, hasPass, "cleared fields drop out of the override")
	}
}

func TestNewConfigPrefillsSavedFields(t *testing.T) {
	entry := NewConfig(testConnector("c1", "locked", []string{"user", "pass"}, []string{"pass"}), []string{"pass"})
	assert.EqualValues(t, connector.SavedSecretDisplayValue, entry.SensitiveFieldValues["pass"])
	_, hasUser := entry.SensitiveFieldValues["user"]
	assert.False(t, hasUser)
	assert.True(t, entry.NeedsCredentials())
	assert.EqualValues(t, []string{"pass"}, entry.RequiredFields())
}

func TestConfigValidationParameters(t *testing.T) {
	entry := NewConfig(testConnector("c1", "locked", []string{"pass"}, []string{"pass"}), []string{"pass"})
	entry.SensitiveFieldValues["pass"] = "secret"
	configuration, sourcePath := entry.ValidationParameters()
	assert.EqualValues(t, "secret", configuration["pass"])
	assert.EqualValues(t, "/", sourcePath)

	// The unsubmitted display placeholder never leaks into the parameters.
	entry.SensitiveFieldValues["pass"] = connector.SavedSecretDisplayValue
	configuration, _ = entry.ValidationParameters()
	assert.EqualValues(t, connector.SensitiveFieldToken, configuration["pass"])
}
