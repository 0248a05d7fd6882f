package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"showrunner/internal/config"
	"showrunner/internal/notifications"
	"showrunner/internal/projects"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Record a project status transition",
		Long: "Record a project status transition. Valid statuses: " +
			statusList() + ".\nTransitions are advisory; no ordering is enforced.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := projects.ParseStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q (valid: %s)", args[1], statusList())
			}

			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				project, err := store.SetStatus(cmd.Context(), args[0], status)
				if err != nil {
					return err
				}
				if project.Status.IsTerminal() {
					fmt.Fprintf(cmd.OutOrStdout(), "Project %s is now %s (workflow finished)\n", project.ID, project.Status)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Project %s is now %s\n", project.ID, project.Status)
				}

				notifier := notifications.NewService(cfg)
				notifyCtx := cmd.Context()
				switch status {
				case projects.StatusProcessing:
					if err := notifier.NotifyPublishStarted(notifyCtx, project.Name); err != nil {
						ctx.ensureLogger().Warn("notification failed", "error", err)
					}
				case projects.StatusCompleted:
					if err := notifier.NotifyPublishCompleted(notifyCtx, project.Name); err != nil {
						ctx.ensureLogger().Warn("notification failed", "error", err)
					}
				case projects.StatusError:
					if err := notifier.NotifyPublishFailed(notifyCtx, project.Name, ""); err != nil {
						ctx.ensureLogger().Warn("notification failed", "error", err)
					}
				}
				return nil
			})
		},
	}
}

func statusList() string {
	all := projects.AllStatuses()
	parts := make([]string, len(all))
	for i, status := range all {
		parts[i] = string(status)
	}
	return strings.Join(parts, ", ")
}
