package model

import (
	"crypto/rand"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// MessageRole represents who authored a transcript message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

// MessageType discriminates transcript entries beyond their role.
type MessageType string

const (
	MessageTypeUserInput         MessageType = "user_input"
	MessageTypeAssistantResponse MessageType = "assistant_response"
	MessageTypeBuildPlan         MessageType = "build_plan"
	MessageTypeBuildPhase        MessageType = "build_phase"
	MessageTypeJobSummary        MessageType = "job_summary"
)

// JobStatus is the terminal status a job summary reports.
type JobStatus string

const (
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// BackendRequiredMessage is the sentinel content used by the generation
// service to signal, in-band, that the request needs a backend server. It is
// informational, not a failure.
const BackendRequiredMessage = "This feature requires a backend server"

// BuildMeta carries execution metadata attached to a job summary.
type BuildMeta struct {
	Elapsed    time.Duration
	CreditCost float64
}

// JobSummary summarizes a finished build job on the transcript.
type JobSummary struct {
	Title  string
	Plan   []string
	Status JobStatus
	Meta   *BuildMeta
}

// Message is an immutable transcript entry. The orchestration layer appends
// summary and error messages but never mutates prior ones.
type Message struct {
	ID        string
	Role      MessageRole
	Type      MessageType
	Content   string
	Images    []string
	Summary   *JobSummary
	CreatedAt time.Time
}

// NewMessage returns a transcript message with a fresh ULID and timestamp.
func NewMessage(role MessageRole, typ MessageType, content string) Message {
	return Message{
		ID:        ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
		Role:      role,
		Type:      typ,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

const summaryTitleMaxLen = 30

// SummaryTitle derives a job summary title from the originating user prompt,
// truncated to its first 30 characters.
func SummaryTitle(prompt string) string {
	if utf8.RuneCountInString(prompt) <= summaryTitleMaxLen {
		return prompt
	}
	runes := []rune(prompt)
	return string(runes[:summaryTitleMaxLen]) + "..."
}
