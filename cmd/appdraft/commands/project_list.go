package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"

	"github.com/appdraft/appdraft/internal/app/projectlist"
	"github.com/appdraft/appdraft/internal/app/status"
)

type ProjectListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewProjectListCommand returns the project list command.
func NewProjectListCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *ProjectListCommand {
	c := &ProjectListCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("list", "List projects.")

	return c
}

func (c ProjectListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ProjectListCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}

	svc, err := projectlist.NewService(projectlist.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	projects, err := svc.List(ctx)
	if err != nil {
		return fmt.Errorf("could not list projects: %w", err)
	}

	w := tabwriter.NewWriter(c.rootCmd.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID\tSTATUS\tPROGRESS\tUPDATED")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.ID, p.Status, status.Progress(p), p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return w.Flush()
}
