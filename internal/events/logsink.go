package events

import (
	"context"

	"github.com/appdraft/appdraft/internal/log"
)

type loggerSink struct {
	logger log.Logger
}

// NewLoggerSink returns a sink that writes events and audit entries to the
// application logger. It is the default sink when no external one is wired.
func NewLoggerSink(logger log.Logger) Sink {
	if logger == nil {
		logger = log.Noop
	}
	return loggerSink{logger: logger}
}

func (s loggerSink) Emit(ctx context.Context, ev Event) error {
	s.logger.WithValues(log.Kv{"event": ev.Name, "project": ev.ProjectID}).Infof("Build event")
	return nil
}

func (s loggerSink) Audit(ctx context.Context, entry AuditEntry) error {
	logger := s.logger.WithValues(log.Kv{"source": entry.Source, "project": entry.ProjectID})
	switch entry.Level {
	case LevelError, LevelCritical:
		logger.Errorf("%s", entry.Message)
	default:
		logger.Infof("%s", entry.Message)
	}
	return nil
}
