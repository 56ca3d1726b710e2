package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/appdraft/appdraft/internal/app/projectcreate"
)

type ProjectCreateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	name       string
	ownerID    string
	ownerEmail string
}

// NewProjectCreateCommand returns the project create command.
func NewProjectCreateCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *ProjectCreateCommand {
	c := &ProjectCreateCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("create", "Create a new project.")
	c.Cmd.Flag("name", "Name for the project.").Short('n').Required().StringVar(&c.name)
	c.Cmd.Flag("owner-id", "Owner user ID.").StringVar(&c.ownerID)
	c.Cmd.Flag("owner-email", "Owner email for build notifications.").StringVar(&c.ownerEmail)

	return c
}

func (c ProjectCreateCommand) Name() string { return c.Cmd.FullCommand() }

func (c ProjectCreateCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}

	svc, err := projectcreate.NewService(projectcreate.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	project, err := svc.Create(ctx, projectcreate.CreateOptions{
		Name:       c.name,
		OwnerID:    c.ownerID,
		OwnerEmail: c.ownerEmail,
	})
	if err != nil {
		return fmt.Errorf("could not create project: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Project created successfully!\n")
	fmt.Fprintf(c.rootCmd.Stdout, "  ID:     %s\n", project.ID)
	fmt.Fprintf(c.rootCmd.Stdout, "  Name:   %s\n", project.Name)
	fmt.Fprintf(c.rootCmd.Stdout, "  Status: %s\n", project.Status)

	return nil
}
