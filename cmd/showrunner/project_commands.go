package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"showrunner/internal/config"
	"showrunner/internal/projects"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				if err := store.Sync(cmd.Context()); err != nil {
					return err
				}
				all := store.Projects()
				out := cmd.OutOrStdout()
				if len(all) == 0 {
					fmt.Fprintln(out, "No projects yet. Create one with `showrunner add`.")
					return nil
				}

				if !stdoutIsTerminal() {
					for _, p := range all {
						fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", p.ID, p.Status, p.UpdatedAt.Format(time.RFC3339), p.Name)
					}
					return nil
				}

				fmt.Fprintln(out, renderProjectTable(all))
				return nil
			})
		},
	}
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add [file]",
		Short: "Create a new project, optionally from an episode recording",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				var (
					project *projects.Project
					err     error
				)
				if len(args) == 1 {
					path, pathErr := config.ExpandPath(args[0])
					if pathErr != nil {
						return pathErr
					}
					project, err = store.AddFromFile(cmd.Context(), path)
				} else {
					project, err = store.Add(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", project.ID, project.Name)
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				project, err := store.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if project == nil {
					fmt.Fprintf(out, "No project with id %s\n", args[0])
					return nil
				}

				fmt.Fprintf(out, "ID:       %s\n", project.ID)
				fmt.Fprintf(out, "Name:     %s\n", project.Name)
				fmt.Fprintf(out, "Status:   %s\n", project.Status)
				fmt.Fprintf(out, "Created:  %s\n", project.CreatedAt.Local().Format(time.RFC1123))
				fmt.Fprintf(out, "Updated:  %s\n", project.UpdatedAt.Local().Format(time.RFC1123))
				if project.MP3Path != "" {
					fmt.Fprintf(out, "Audio:    %s\n", project.MP3Path)
				}
				if project.YouTubeURL != "" {
					fmt.Fprintf(out, "YouTube:  %s\n", project.YouTubeURL)
				}
				if project.PRURL != "" {
					fmt.Fprintf(out, "PR:       %s\n", project.PRURL)
				}
				if len(project.Chapters) > 0 {
					fmt.Fprintf(out, "Chapters: %d\n", len(project.Chapters))
					for _, ch := range project.Chapters {
						fmt.Fprintf(out, "  [%s - %s] %s\n",
							formatMillis(ch.StartMS), formatMillis(ch.EndMS), ch.Title)
					}
				}
				if len(project.AITitles) > 0 {
					fmt.Fprintln(out, "Suggested titles:")
					for _, title := range project.AITitles {
						fmt.Fprintf(out, "  - %s\n", title)
					}
				}
				if strings.TrimSpace(project.Notes) != "" {
					fmt.Fprintln(out, "\nNotes:")
					fmt.Fprintln(out, project.Notes)
				}
				return nil
			})
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				removed, err := store.Remove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "No project with id %s\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", args[0])
				return nil
			})
		},
	}
}

func formatMillis(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	d = d.Round(time.Second)
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
