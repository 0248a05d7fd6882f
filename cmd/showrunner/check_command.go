package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"showrunner/internal/config"
	"showrunner/internal/linkcheck"
	"showrunner/internal/notifications"
	"showrunner/internal/projects"
)

var errBrokenLinks = fmt.Errorf("document contains broken links")

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var fromFile bool

	cmd := &cobra.Command{
		Use:   "check <id|file>",
		Short: "Validate every link in a project's show notes",
		Long: "Renders the show notes to HTML, extracts every absolute link, and probes " +
			"them concurrently. Exits non-zero when any link is broken.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *projects.Store) error {
				notes, label, err := resolveNotes(cmd, store, args[0], fromFile)
				if err != nil {
					return err
				}

				checker := linkcheck.NewChecker(cfg, linkcheck.NewCache(), ctx.ensureLogger())

				var (
					bar        *progressbar.ProgressBar
					totalLinks int
					showBar    = stdoutIsTerminal()
				)
				onProgress := func(p linkcheck.Progress) {
					totalLinks = p.Total
					if !showBar {
						return
					}
					if bar == nil {
						bar = progressbar.NewOptions(p.Total,
							progressbar.OptionSetDescription("checking links"),
							progressbar.OptionSetWriter(cmd.ErrOrStderr()),
							progressbar.OptionShowCount(),
						)
					}
					_ = bar.Set(p.Completed)
				}

				invalid, err := checker.CheckDocument(cmd.Context(), notes, onProgress)
				if err != nil {
					return err
				}
				if bar != nil {
					_ = bar.Finish()
					fmt.Fprintln(cmd.ErrOrStderr())
				}

				out := cmd.OutOrStdout()
				if len(invalid) == 0 {
					fmt.Fprintf(out, "All links valid in %s\n", label)
				} else {
					fmt.Fprintf(out, "%d broken link(s) in %s:\n", len(invalid), label)
					for _, result := range invalid {
						fmt.Fprintf(out, "  %s (%d %s)\n", result.URL, result.Status, result.StatusText)
					}
				}

				if !fromFile {
					if project := store.Active(); project != nil {
						notifier := notifications.NewService(cfg)
						if err := notifier.NotifyLinkCheckCompleted(cmd.Context(), project.Name, totalLinks, len(invalid)); err != nil {
							ctx.ensureLogger().Warn("notification failed", "error", err)
						}
					}
				}

				if len(invalid) > 0 {
					return errBrokenLinks
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&fromFile, "file", "f", false, "Treat the argument as a markdown file path instead of a project id")
	return cmd
}

func resolveNotes(cmd *cobra.Command, store *projects.Store, arg string, fromFile bool) (notes, label string, err error) {
	if fromFile {
		path, err := config.ExpandPath(arg)
		if err != nil {
			return "", "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("read markdown file: %w", err)
		}
		return string(data), path, nil
	}

	project, err := store.Load(cmd.Context(), arg)
	if err != nil {
		return "", "", err
	}
	if project == nil {
		return "", "", fmt.Errorf("no project with id %s", arg)
	}
	return project.Notes, project.Name, nil
}
