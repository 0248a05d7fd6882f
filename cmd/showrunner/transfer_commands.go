package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"showrunner/internal/config"
	"showrunner/internal/projects"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export the project database to a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				target := ""
				if len(args) == 1 {
					expanded, err := config.ExpandPath(args[0])
					if err != nil {
						return err
					}
					target = expanded
				} else {
					dir := cfg.Paths.ExportDir
					if strings.TrimSpace(dir) == "" {
						dir = "."
					}
					target = filepath.Join(dir, projects.ExportFileName)
				}

				file, err := os.Create(target)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer file.Close()

				if err := store.ExportJSON(cmd.Context(), file); err != nil {
					// Export failures are reported, never silently dropped.
					return fmt.Errorf("export failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported database to %s\n", target)
				return nil
			})
		},
	}
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the project database with a JSON export",
		Long: "Replaces the entire database with the contents of a JSON export. The clear " +
			"and insert run in one transaction; a failure leaves the current data untouched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "This replaces every existing project. Continue? [y/N] ")
				var answer string
				_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
					return nil
				}
			}

			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				backup, err := store.BackupTo(cmd.Context(), filepath.Join(cfg.Paths.DataDir, "backups"))
				if err != nil {
					return fmt.Errorf("pre-import backup: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backed up current database to %s\n", backup)

				count, err := store.ImportJSON(cmd.Context(), data)
				if err != nil {
					if errors.Is(err, projects.ErrValidation) {
						return fmt.Errorf("import rejected: %w", err)
					}
					return fmt.Errorf("import failed, database unchanged: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d project(s)\n", count)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
