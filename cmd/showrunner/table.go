package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"showrunner/internal/projects"
	"showrunner/internal/textutil"
)

const listNameWidth = 40

// renderProjectTable formats the project listing for interactive terminals.
// Names are truncated to keep rows on one line; timestamps are local time.
func renderProjectTable(all []*projects.Project) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Name", "Status", "Updated"})

	for _, p := range all {
		tw.AppendRow(table.Row{
			p.ID,
			textutil.Truncate(p.Name, listNameWidth),
			string(p.Status),
			p.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
