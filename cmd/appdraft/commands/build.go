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

type BuildCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	nameOrID  string
	prompt    string
	images    []string
	script    string
	stepDelay time.Duration
	noPlan    bool
}

// NewBuildCommand returns the build command.
func NewBuildCommand(rootCmd *RootCommand, app *kingpin.Application) *BuildCommand {
	c := &BuildCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("build", "Run a build for a project from an instruction.")
	c.Cmd.Arg("name-or-id", "Project name or ID.").Required().StringVar(&c.nameOrID)
	c.Cmd.Arg("prompt", "Build instruction.").Required().StringVar(&c.prompt)
	c.Cmd.Flag("image", "Image attachment path or URL (repeatable).").StringsVar(&c.images)
	c.Cmd.Flag("script", "YAML event script for the fake generator.").StringVar(&c.script)
	c.Cmd.Flag("step-delay", "Delay between fake generator events.").Default("200ms").DurationVar(&c.stepDelay)
	c.Cmd.Flag("no-plan", "Skip phase planning and run a flat build.").BoolVar(&c.noPlan)

	return c
}

func (c BuildCommand) Name() string { return c.Cmd.FullCommand() }

func (c BuildCommand) Run(ctx context.Context) error {
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

	var planner generation.Planner
	if !c.noPlan {
		planner, err = fake.NewPlanner(fake.PlannerConfig{Logger: logger})
		if err != nil {
			return fmt.Errorf("could not create planner: %w", err)
		}
	}

	registry, err := cancel.NewRegistry(cancel.RegistryConfig{Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create cancellation registry: %w", err)
	}

	svc, err := trigger.NewService(trigger.ServiceConfig{
		Repository: repo,
		Generator:  generator,
		Planner:    planner,
		Registry:   registry,
		Events:     relay,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create trigger service: %w", err)
	}

	if err := svc.Trigger(ctx, trigger.Request{
		ProjectID:   project.ID,
		Instruction: c.prompt,
		Images:      c.images,
	}); err != nil {
		return fmt.Errorf("could not trigger build: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Build started for project %s\n", project.Name)

	return waitForBuild(ctx, c.rootCmd, svc, repo, project.ID)
}
