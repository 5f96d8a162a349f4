package sequence

import (
	"context"
	"fmt"

	"github.com/viant/mcp-storagekit/storage/connector"
)

// CompletionFunc receives the full reassembled list once every credentialed
// entry has been walked: passthrough entries untouched plus the finalized
// credentialed ones, in the original order.
type CompletionFunc func(configs []*Config)

// Sequencer walks the entries that need credentials strictly one at a time.
// Entries without required credentials pass through untouched and never see
// a credential step.
type Sequencer struct {
	tester     connector.ConnectionTester
	secrets    connector.CredentialStore
	onComplete CompletionFunc

	all     []*Config
	queue   []int
	cursor  int
	started bool
	done    bool
}

// NewSequencer builds a Sequencer. The credential store may be nil when the
// caller only validates without persisting.
func NewSequencer(tester connector.ConnectionTester, secrets connector.CredentialStore, onComplete CompletionFunc) *Sequencer {
	return &Sequencer{
		tester:     tester,
		secrets:    secrets,
		onComplete: onComplete,
	}
}

// Start partitions the entries and positions the sequence on the first one
// needing credentials. A batch with nothing to collect completes
// immediately.
func (s *Sequencer) Start(configs []*Config) error {
	if s.started {
		return fmt.Errorf("sequence already started")
	}
	s.started = true
	s.all = configs
	for i, config := range configs {
		if config.NeedsCredentials() {
			s.queue = append(s.queue, i)
		}
	}
	if len(s.queue) == 0 {
		s.complete()
	}
	return nil
}

// Active returns the entry currently collecting credentials, nil when the
// sequence is complete or not started.
func (s *Sequencer) Active() *Config {
	if !s.started || s.done || s.cursor >= len(s.queue) {
		return nil
	}
	return s.all[s.queue[s.cursor]]
}

// Steps returns the credentialed entries in walk order, for breadcrumb
// display.
func (s *Sequencer) Steps() []*Config {
	ret := make([]*Config, 0, len(s.queue))
	for _, index := range s.queue {
		ret = append(ret, s.all[index])
	}
	return ret
}

// Cursor reports the position of the active step.
func (s *Sequencer) Cursor() int { return s.cursor }

// Done reports whether the sequence has completed.
func (s *Sequencer) Done() bool { return s.done }

// SelectStep navigates back to an already completed step. The active and
// future steps are not selectable.
func (s *Sequencer) SelectStep(index int) error {
	if s.done {
		return fmt.Errorf("sequence already completed")
	}
	if index < 0 || index >= s.cursor {
		return fmt.Errorf("step %d is not completed yet", index)
	}
	s.cursor = index
	return nil
}

// Skip marks the active entry inactive and advances without collecting
// credentials.
func (s *Sequencer) Skip() error {
	active := s.Active()
	if active == nil {
		return fmt.Errorf("no active step")
	}
	active.Active = false
	active.Touched = true
	s.advance()
	return nil
}

// Continue submits the collected values for the active entry: local sentinel
// validation first, then the test-connection call, and only on its success
// does the sequence advance. Credentials are persisted when the entry opted
// in and a store is configured.
func (s *Sequencer) Continue(ctx context.Context, values map[string]string) error {
	active := s.Active()
	if active == nil {
		return fmt.Errorf("no active step")
	}
	for name, value := range values {
		if value == connector.SavedSecretDisplayValue {
			return fmt.Errorf("%w: field %q resubmitted the saved-secret placeholder", connector.ErrSentinelMisuse, name)
		}
		active.SensitiveFieldValues[name] = value
	}
	for _, name := range active.RequiredFields() {
		value := active.SensitiveFieldValues[name]
		if value == "" || value == connector.SavedSecretDisplayValue {
			return fmt.Errorf("%w: credential %q is required", connector.ErrValidation, name)
		}
	}
	configuration, sourcePath := active.ValidationParameters()
	if err := s.tester.Test(ctx, configuration, sourcePath); err != nil {
		return err
	}
	if active.SaveCredentials && s.secrets != nil {
		var secretValues []connector.SecretValue
		for name, value := range active.SensitiveFieldValues {
			if value == "" || value == connector.SavedSecretDisplayValue {
				continue
			}
			secretValues = append(secretValues, connector.SecretValue{Name: name, Value: value})
		}
		if err := s.secrets.Save(ctx, active.Connector.ID, secretValues); err != nil {
			return err
		}
		*active = *active.AfterSavingCredentials()
	}
	active.Active = true
	active.Touched = true
	s.advance()
	return nil
}

// Overrides collects the session overrides the walked batch produced, in the
// original entry order.
func (s *Sequencer) Overrides() []Override {
	var ret []Override
	for _, config := range s.all {
		ret = append(ret, OverridesFromConfig(config)...)
	}
	return ret
}

func (s *Sequencer) advance() {
	s.cursor++
	for s.cursor < len(s.queue) && s.all[s.queue[s.cursor]].Touched {
		s.cursor++
	}
	if s.cursor >= len(s.queue) {
		s.complete()
	}
}

func (s *Sequencer) complete() {
	if s.done {
		return
	}
	s.done = true
	if s.onComplete != nil {
		s.onComplete(s.all)
	}
}
