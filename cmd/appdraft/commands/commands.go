package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/nats-io/nats.go"
	"k8s.io/client-go/util/homedir"

	"github.com/appdraft/appdraft/internal/events"
	"github.com/appdraft/appdraft/internal/events/natssink"
	"github.com/appdraft/appdraft/internal/log"
	"github.com/appdraft/appdraft/internal/storage"
	"github.com/appdraft/appdraft/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DBPath     string
	NATSURL    string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDBPath := filepath.Join(homedir.HomeDir(), ".appdraft", "appdraft.db")
	app.Flag("db-path", "Path to the SQLite database file.").Envar("APPDRAFT_DB_PATH").Default(defaultDBPath).StringVar(&c.DBPath)

	app.Flag("nats-url", "NATS server URL for build event notifications (optional).").Envar("APPDRAFT_NATS_URL").StringVar(&c.NATSURL)

	return c
}

// newRepository initializes the SQLite project repository.
func (c *RootCommand) newRepository(ctx context.Context) (storage.Repository, error) {
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.DBPath,
		Logger: c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}
	return repo, nil
}

// newRelay initializes the event relay, backed by NATS when a URL is
// configured and the logger otherwise. The returned close func releases the
// NATS connection.
func (c *RootCommand) newRelay() (*events.Relay, func(), error) {
	closeFn := func() {}

	var sink events.Sink
	if c.NATSURL != "" {
		conn, err := nats.Connect(c.NATSURL)
		if err != nil {
			return nil, closeFn, fmt.Errorf("could not connect to NATS: %w", err)
		}
		closeFn = conn.Close

		sink, err = natssink.NewSink(natssink.SinkConfig{
			Conn:   conn,
			Logger: c.Logger,
		})
		if err != nil {
			conn.Close()
			return nil, func() {}, fmt.Errorf("could not create NATS sink: %w", err)
		}
	}

	relay, err := events.NewRelay(events.RelayConfig{
		Sink:   sink,
		Logger: c.Logger,
	})
	if err != nil {
		closeFn()
		return nil, func() {}, fmt.Errorf("could not create event relay: %w", err)
	}

	return relay, closeFn, nil
}
