package natssink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/appdraft/appdraft/internal/events"
	"github.com/appdraft/appdraft/internal/log"
)

// SinkConfig is the configuration for the NATS event sink.
type SinkConfig struct {
	Conn *nats.Conn
	// SubjectPrefix is prepended to every published subject.
	SubjectPrefix string
	Logger        log.Logger
}

func (c *SinkConfig) defaults() error {
	if c.Conn == nil {
		return fmt.Errorf("nats connection is required")
	}
	if c.SubjectPrefix == "" {
		c.SubjectPrefix = "appdraft"
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "events.NATSSink"})
	return nil
}

// Sink publishes lifecycle events and audit entries as JSON on NATS subjects
// (`<prefix>.events.<name>` and `<prefix>.audit`).
type Sink struct {
	conn   *nats.Conn
	prefix string
	logger log.Logger
}

// NewSink creates a new NATS sink.
func NewSink(cfg SinkConfig) (*Sink, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Sink{
		conn:   cfg.Conn,
		prefix: cfg.SubjectPrefix,
		logger: cfg.Logger,
	}, nil
}

type eventPayload struct {
	Name      string         `json:"name"`
	ProjectID string         `json:"project_id"`
	UserID    string         `json:"user_id,omitempty"`
	UserEmail string         `json:"user_email,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	At        string         `json:"at"`
}

type auditPayload struct {
	Level     string `json:"level"`
	Source    string `json:"source"`
	Message   string `json:"message"`
	ProjectID string `json:"project_id"`
	At        string `json:"at"`
}

// Emit publishes a lifecycle event.
func (s *Sink) Emit(ctx context.Context, ev events.Event) error {
	data, err := json.Marshal(eventPayload{
		Name:      ev.Name,
		ProjectID: ev.ProjectID,
		UserID:    ev.UserID,
		UserEmail: ev.UserEmail,
		Payload:   ev.Payload,
		At:        ev.At.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	subject := fmt.Sprintf("%s.events.%s", s.prefix, ev.Name)
	if err := s.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	s.logger.Debugf("Published event on %s", subject)
	return nil
}

// Audit publishes an audit entry.
func (s *Sink) Audit(ctx context.Context, entry events.AuditEntry) error {
	data, err := json.Marshal(auditPayload{
		Level:     string(entry.Level),
		Source:    entry.Source,
		Message:   entry.Message,
		ProjectID: entry.ProjectID,
		At:        entry.At.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("could not marshal audit entry: %w", err)
	}

	subject := fmt.Sprintf("%s.audit", s.prefix)
	if err := s.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("could not publish audit entry: %w", err)
	}

	return nil
}
