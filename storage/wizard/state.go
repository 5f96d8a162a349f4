// Package wizard implements the guided connector configuration flow as an
// explicit state machine. Each open dialog owns one Wizard instance; state is
// never shared across instances.
package wizard

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/viant/mcp-storagekit/storage/connector"
	"github.com/viant/mcp-storagekit/storage/schema"
)

// TotalSteps is the final confirmation step index. Step 0 is reserved for
// advanced mode, where the stepper is hidden.
const TotalSteps = 3

const (
	StepAdvanced = 0
	StepSchema   = 1
	StepOptions  = 2
	StepReview   = 3
)

// Status tracks a single in-flight external operation.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusTrying  Status = "trying"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Settled reports whether another operation may start.
func (s Status) Settled() bool { return s != StatusTrying }

// ValidationResult captures the outcome of one test-connection call, tagged
// with the fingerprint of the configuration it validated. Settlements whose
// fingerprint no longer matches current state are discarded as stale.
type ValidationResult struct {
	Success     bool
	Error       string
	Fingerprint string
}

// State is the full wizard state for one open dialog.
type State struct {
	Step           int
	CompletedSteps int
	AdvancedMode   bool

	ShowAllSchemas   bool
	ShowAllProviders bool
	ShowAllOptions   bool
	SaveCredentials  bool

	Flat     *connector.Flat
	Schemata []*schema.Descriptor

	Validation       *ValidationResult
	ValidationStatus Status
	SubmitStatus     Status
	CredentialStatus Status
	LinkStatus       Status

	Success    bool
	ResultID   string
	ResultName string
}

// NewState returns the canonical initial state.
func NewState() *State {
	return &State{
		Step:             StepSchema,
		Flat:             connector.EmptyFlat(),
		ValidationStatus: StatusIdle,
		SubmitStatus:     StatusIdle,
		CredentialStatus: StatusIdle,
		LinkStatus:       StatusIdle,
	}
}

// Fingerprint derives a stable digest of the configuration fields a
// test-connection call depends on.
func (s *State) Fingerprint() string {
	h := fnv.New64a()
	flat := s.Flat
	if flat == nil {
		return fmt.Sprintf("%x", h.Sum64())
	}
	fmt.Fprintf(h, "schema=%s;provider=%s;source=%s;", flat.Schema, flat.Provider, flat.SourcePath)
	names := make([]string, 0, len(flat.Options))
	for name := range flat.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(h, "%s=%s;", name, flat.Options[name].Text())
	}
	return fmt.Sprintf("%x", h.Sum64())
}

// clearValidation drops any stored validation result. Invoked whenever the
// underlying configuration changes.
func (s *State) clearValidation() {
	s.Validation = nil
	s.ValidationStatus = StatusIdle
}
