package events

import (
	"context"
	"fmt"
	"time"

	"github.com/appdraft/appdraft/internal/log"
)

// RelayConfig is the configuration for the event relay.
type RelayConfig struct {
	// Sink receives the events. Defaults to a logger-backed sink.
	Sink   Sink
	Logger log.Logger
}

func (c *RelayConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "events.Relay"})
	if c.Sink == nil {
		c.Sink = NewLoggerSink(c.Logger)
	}
	return nil
}

// Relay mirrors build lifecycle transitions to an external notification sink.
// Delivery is best-effort: sink failures are logged and discarded, they never
// fail a build.
type Relay struct {
	sink   Sink
	logger log.Logger
	now    func() time.Time
}

// NewRelay creates a new event relay.
func NewRelay(cfg RelayConfig) (*Relay, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Relay{
		sink:   cfg.Sink,
		logger: cfg.Logger,
		now:    time.Now,
	}, nil
}

// Emit sends a lifecycle event to the sink, fire-and-forget.
func (r *Relay) Emit(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = r.now().UTC()
	}

	if err := r.sink.Emit(ctx, ev); err != nil {
		r.logger.Debugf("Could not emit event %s: %s", ev.Name, err)
	}
}

// Audit writes an audit log entry to the sink, fire-and-forget.
func (r *Relay) Audit(ctx context.Context, entry AuditEntry) {
	if entry.At.IsZero() {
		entry.At = r.now().UTC()
	}

	if err := r.sink.Audit(ctx, entry); err != nil {
		r.logger.Debugf("Could not write audit entry: %s", err)
	}
}
