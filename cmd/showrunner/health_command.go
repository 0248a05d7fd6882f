package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"showrunner/internal/config"
	"showrunner/internal/projects"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Summarize project counts per lifecycle state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database path: %s\n", store.Path())
				fmt.Fprintf(out, "Total projects: %d\n", health.Total)

				open := health.Total
				for _, status := range projects.AllStatuses() {
					count := 0
					switch status {
					case projects.StatusInitial:
						count = health.Initial
					case projects.StatusHovering:
						count = health.Hovering
					case projects.StatusDropped:
						count = health.Dropped
					case projects.StatusProcessing:
						count = health.Processing
					case projects.StatusCompleted:
						count = health.Completed
					case projects.StatusError:
						count = health.Errored
					}
					if status.IsTerminal() {
						open -= count
					}
					fmt.Fprintf(out, "  %-10s %d\n", status, count)
				}
				fmt.Fprintf(out, "Still in flight: %d\n", open)
				return nil
			})
		},
	}
}
