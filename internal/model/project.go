package model

import (
	"fmt"
	"time"
)

// ProjectStatus represents the status of a project.
type ProjectStatus string

const (
	// ProjectStatusIdle indicates the project has no build running and accepts
	// new instructions.
	ProjectStatusIdle ProjectStatus = "idle"
	// ProjectStatusGenerating indicates a build is in progress.
	ProjectStatusGenerating ProjectStatus = "generating"
)

// Project is the aggregate root: the app being built, its transcript and the
// current build state. While a build is active the orchestration layer owns it
// exclusively; a single sequencer mutates it and persists after every change.
type Project struct {
	ID         string
	OwnerID    string
	OwnerEmail string
	Name       string
	Code       string
	Status     ProjectStatus
	Messages   []Message
	Build      *BuildState
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate validates the project.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}
	if p.Status != ProjectStatusIdle && p.Status != ProjectStatusGenerating {
		return fmt.Errorf("unknown project status %q: %w", p.Status, ErrNotValid)
	}
	if p.Build != nil {
		if err := p.Build.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AppendMessage appends a message to the transcript. Messages are append-only,
// prior entries are never mutated.
func (p *Project) AppendMessage(m Message) {
	p.Messages = append(p.Messages, m)
}

// LastMessage returns the most recent transcript message, or nil when the
// transcript is empty.
func (p *Project) LastMessage() *Message {
	if len(p.Messages) == 0 {
		return nil
	}
	return &p.Messages[len(p.Messages)-1]
}
