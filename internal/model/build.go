package model

import "fmt"

// PhaseStatus represents the state of a build phase.
type PhaseStatus string

const (
	PhaseStatusPending   PhaseStatus = "pending"
	PhaseStatusActive    PhaseStatus = "active"
	PhaseStatusCompleted PhaseStatus = "completed"
	PhaseStatusFailed    PhaseStatus = "failed"
)

// Phase is a coarse-grained unit of a multi-phase build. The generation
// service decomposes each phase into steps at run time.
type Phase struct {
	Title       string
	Description string
	Status      PhaseStatus
	RetryCount  int
}

// BuildState is the persisted checkpoint of a build, attached to a project
// while one is active. Plan holds the step labels of the current phase only.
// A nil Phases slice means a flat build (single implicit phase, no phase-level
// retry).
type BuildState struct {
	Plan              []string
	CurrentStep       int
	LastCompletedStep int
	Error             string
	Phases            []Phase
	CurrentPhase      int
}

// NewBuildState returns a fresh build state, optionally decomposed into the
// given phases.
func NewBuildState(phases []Phase) *BuildState {
	return &BuildState{
		Plan:              []string{},
		CurrentStep:       0,
		LastCompletedStep: -1,
		Phases:            phases,
	}
}

// NewPhase returns a pending phase with an untouched retry budget.
func NewPhase(title, description string) Phase {
	return Phase{
		Title:       title,
		Description: description,
		Status:      PhaseStatusPending,
	}
}

// Validate validates the build state invariants.
func (b *BuildState) Validate() error {
	if b.Phases != nil && len(b.Phases) == 0 {
		return fmt.Errorf("phase list must not be empty when present: %w", ErrNotValid)
	}
	for i, p := range b.Phases {
		if p.Title == "" {
			return fmt.Errorf("phase %d title is required: %w", i, ErrNotValid)
		}
		if p.RetryCount < 0 {
			return fmt.Errorf("phase %d retry count must not be negative: %w", i, ErrNotValid)
		}
	}
	if b.LastCompletedStep < -1 {
		return fmt.Errorf("last completed step out of range: %w", ErrNotValid)
	}
	if b.LastCompletedStep > b.CurrentStep {
		return fmt.Errorf("last completed step ahead of current step: %w", ErrNotValid)
	}
	if b.Phases != nil && (b.CurrentPhase < 0 || b.CurrentPhase > len(b.Phases)) {
		return fmt.Errorf("current phase out of range: %w", ErrNotValid)
	}
	return nil
}

// ResetSteps clears the step plan for a fresh phase attempt.
func (b *BuildState) ResetSteps() {
	b.Plan = []string{}
	b.CurrentStep = 0
	b.LastCompletedStep = -1
	b.Error = ""
}

// Flat reports whether the build has no phase decomposition.
func (b *BuildState) Flat() bool {
	return b.Phases == nil
}
