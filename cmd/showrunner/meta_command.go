package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"showrunner/internal/config"
	"showrunner/internal/frontmatter"
	"showrunner/internal/projects"
)

func newMetaCommand(ctx *commandContext) *cobra.Command {
	metaCmd := &cobra.Command{
		Use:   "meta",
		Short: "Read and write a project's front-matter metadata",
	}

	metaCmd.AddCommand(&cobra.Command{
		Use:   "get <id> <key>",
		Short: "Read one front-matter key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				project, err := store.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if project == nil {
					return fmt.Errorf("no project with id %s", args[0])
				}
				value, ok, err := frontmatter.GetKey(project.FrontMatter, args[1])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no front-matter key %q on project %s", args[1], project.ID)
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	})

	metaCmd.AddCommand(&cobra.Command{
		Use:   "set <id> <key> <value>",
		Short: "Write one front-matter key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				project, err := store.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if project == nil {
					return fmt.Errorf("no project with id %s", args[0])
				}
				updated, err := frontmatter.SetKey(project.FrontMatter, args[1], args[2])
				if err != nil {
					return err
				}
				if _, err := store.Save(cmd.Context(), projects.Update{
					ID:          project.ID,
					FrontMatter: &updated,
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s on project %s\n", args[1], project.ID)
				return nil
			})
		},
	})

	return metaCmd
}
