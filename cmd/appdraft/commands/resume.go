package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/appdraft/appdraft/internal/app/status"
	"github.com/appdraft/appdraft/internal/app/trigger"
	"github.com/appdraft/appdraft/internal/cancel"
	"github.com/appdraft/appdraft/internal/generation"
	"github.com/appdraft/appdraft/internal/generation/fake"
)

type ResumeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	nameOrID  string
	script    string
	stepDelay time.Duration
}

// NewResumeCommand returns the resume command.
func NewResumeCommand(rootCmd *RootCommand, app *kingpin.Application) *ResumeCommand {
	c := &ResumeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("resume", "Resume an interrupted build from its last checkpoint.")
	c.Cmd.Arg("name-or-id", "Project name or ID.").Required().StringVar(&c.nameOrID)
	c.Cmd.Flag("script", "YAML event script for the fake generator.").StringVar(&c.script)
	c.Cmd.Flag("step-delay", "Delay between fake generator events.").Default("200ms").DurationVar(&c.stepDelay)

	return c
}

func (c ResumeCommand) Name() string { return c.Cmd.FullCommand() }

func (c ResumeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}

	relay, closeRelay, err := c.rootCmd.newRelay()
	if err != nil {
		return err
	}
	defer closeRelay()

	statusSvc, err := status.NewService(status.ServiceConfig{Repository: repo, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create status service: %w", err)
	}
	project, err := statusSvc.Get(ctx, c.nameOrID)
	if err != nil {
		return fmt.Errorf("could not resolve project: %w", err)
	}

	var script []generation.Event
	if c.script != "" {
		script, err = fake.LoadScript(c.script)
		if err != nil {
			return fmt.Errorf("could not load script: %w", err)
		}
	}

	generator, err := fake.NewService(fake.ServiceConfig{
		Logger:    logger,
		Script:    script,
		StepDelay: c.stepDelay,
	})
	if err != nil {
		return fmt.Errorf("could not create generator: %w", err)
	}

	registry, err := cancel.NewRegistry(cancel.RegistryConfig{Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create cancellation registry: %w", err)
	}

	svc, err := trigger.NewService(trigger.ServiceConfig{
		Repository: repo,
		Generator:  generator,
		Registry:   registry,
		Events:     relay,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create trigger service: %w", err)
	}

	if err := svc.Resume(ctx, project.ID); err != nil {
		return fmt.Errorf("could not resume build: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Build resumed for project %s\n", project.Name)

	return waitForBuild(ctx, c.rootCmd, svc, repo, project.ID)
}
