package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"showrunner/internal/config"
	"showrunner/internal/projects"
	"showrunner/internal/titles"
)

func newTitlesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "titles <id>",
		Short: "Generate candidate episode titles and save them to the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				project, err := store.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if project == nil {
					return fmt.Errorf("no project with id %s", args[0])
				}

				client := titles.NewClient(cfg.Titles)
				if !client.Enabled() {
					return fmt.Errorf("title suggestions are disabled; set titles.api_key in the config")
				}

				suggestions, err := client.Suggest(cmd.Context(), project.Name)
				if err != nil {
					return err
				}

				if _, err := store.Save(cmd.Context(), projects.Update{
					ID:       project.ID,
					AITitles: &suggestions,
				}); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Saved %d title suggestions for %s:\n", len(suggestions), project.Name)
				for _, title := range suggestions {
					fmt.Fprintf(out, "  - %s\n", title)
				}
				return nil
			})
		},
	}
}
