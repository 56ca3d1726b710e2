package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/appdraft/appdraft/internal/app/status"
	"github.com/appdraft/appdraft/internal/model"
)

type StatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	nameOrID string
	showLog  bool
}

// NewStatusCommand returns the status command.
func NewStatusCommand(rootCmd *RootCommand, app *kingpin.Application) *StatusCommand {
	c := &StatusCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("status", "Get detailed status of a project and its build.")
	c.Cmd.Arg("name-or-id", "Project name or ID.").Required().StringVar(&c.nameOrID)
	c.Cmd.Flag("messages", "Show the project transcript.").BoolVar(&c.showLog)

	return c
}

func (c StatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c StatusCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}

	svc, err := status.NewService(status.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	project, err := svc.Get(ctx, c.nameOrID)
	if err != nil {
		return fmt.Errorf("could not get project status: %w", err)
	}

	out := c.rootCmd.Stdout
	fmt.Fprintf(out, "Project: %s\n", project.Name)
	fmt.Fprintf(out, "  ID:       %s\n", project.ID)
	fmt.Fprintf(out, "  Status:   %s\n", project.Status)
	fmt.Fprintf(out, "  Progress: %s\n", status.Progress(*project))
	fmt.Fprintf(out, "  Updated:  %s\n", project.UpdatedAt.Format("2006-01-02 15:04:05"))

	if b := project.Build; b != nil && !b.Flat() {
		fmt.Fprintf(out, "  Phases:\n")
		for i, phase := range b.Phases {
			retries := ""
			if phase.RetryCount > 0 {
				retries = fmt.Sprintf(" (retries: %d)", phase.RetryCount)
			}
			fmt.Fprintf(out, "    %d. [%s] %s%s\n", i+1, phase.Status, phase.Title, retries)
		}
	}

	if c.showLog {
		fmt.Fprintf(out, "  Messages:\n")
		for _, m := range project.Messages {
			content := m.Content
			if m.Type == model.MessageTypeJobSummary && m.Summary != nil {
				content = fmt.Sprintf("%s [%s]", m.Summary.Title, m.Summary.Status)
			}
			fmt.Fprintf(out, "    %s (%s): %s\n", m.Role, m.Type, content)
		}
	}

	return nil
}
