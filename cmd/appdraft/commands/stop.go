package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/appdraft/appdraft/internal/app/status"
	"github.com/appdraft/appdraft/internal/model"
)

type StopCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	nameOrID string
}

// NewStopCommand returns the stop command.
func NewStopCommand(rootCmd *RootCommand, app *kingpin.Application) *StopCommand {
	c := &StopCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("stop", "Mark a generating project as idle, keeping its build checkpoint.")
	c.Cmd.Arg("name-or-id", "Project name or ID.").Required().StringVar(&c.nameOrID)

	return c
}

func (c StopCommand) Name() string { return c.Cmd.FullCommand() }

func (c StopCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}

	statusSvc, err := status.NewService(status.ServiceConfig{Repository: repo, Logger: c.rootCmd.Logger})
	if err != nil {
		return fmt.Errorf("could not create status service: %w", err)
	}
	project, err := statusSvc.Get(ctx, c.nameOrID)
	if err != nil {
		return fmt.Errorf("could not resolve project: %w", err)
	}

	if project.Status != model.ProjectStatusGenerating {
		fmt.Fprintf(c.rootCmd.Stdout, "Project %s has no build in progress\n", project.Name)
		return nil
	}

	// The build checkpoint stays on the project so `resume` can pick it up.
	project.Status = model.ProjectStatusIdle
	project.UpdatedAt = time.Now().UTC()
	if err := repo.UpdateProject(ctx, *project); err != nil {
		return fmt.Errorf("could not update project: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Project %s marked idle, build checkpoint kept\n", project.Name)

	return nil
}
