package events

import (
	"context"
	"time"
)

// Lifecycle event names emitted by the orchestration layer.
const (
	EventBuildStarted   = "build.started"
	EventPhaseStarted   = "build.phase_started"
	EventPhaseCompleted = "build.phase_completed"
	EventBuildFailed    = "build.failed"
	EventBuildCompleted = "build.completed"
)

// Event is a build lifecycle notification.
type Event struct {
	Name      string
	ProjectID string
	UserID    string
	UserEmail string
	Payload   map[string]any
	At        time.Time
}

// Level is the severity of an audit entry.
type Level string

const (
	LevelInfo     Level = "info"
	LevelError    Level = "error"
	LevelCritical Level = "critical"
)

// AuditEntry is an audit log record for recoverable and fatal build errors.
type AuditEntry struct {
	Level     Level
	Source    string
	Message   string
	ProjectID string
	At        time.Time
}

// Sink receives lifecycle events and audit entries. Implementations may fail;
// the relay swallows those failures.
type Sink interface {
	Emit(ctx context.Context, ev Event) error
	Audit(ctx context.Context, entry AuditEntry) error
}
