package commands

import (
	"context"
	"fmt"

	"github.com/appdraft/appdraft/internal/app/status"
	"github.com/appdraft/appdraft/internal/app/trigger"
	"github.com/appdraft/appdraft/internal/model"
	"github.com/appdraft/appdraft/internal/storage"
)

// waitForBuild blocks until the project's build finishes or the command
// context is cancelled, in which case the build is stopped and drained before
// returning. It prints the final project state.
func waitForBuild(ctx context.Context, rootCmd *RootCommand, svc *trigger.Service, repo storage.Repository, projectID string) error {
	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		rootCmd.Logger.Infof("Stopping build for project %s", projectID)
		svc.Stop(projectID)
		<-done
	}

	project, err := repo.GetProject(context.Background(), projectID)
	if err != nil {
		return fmt.Errorf("could not get project: %w", err)
	}

	fmt.Fprintf(rootCmd.Stdout, "Project %s: %s (%s)\n", project.Name, project.Status, status.Progress(*project))
	if project.Build != nil && project.Build.Error != "" {
		fmt.Fprintf(rootCmd.Stdout, "  Last error: %s\n", project.Build.Error)
	}
	if last := project.LastMessage(); last != nil && last.Role == model.MessageRoleAssistant {
		fmt.Fprintf(rootCmd.Stdout, "  %s\n", last.Content)
	}

	return nil
}
