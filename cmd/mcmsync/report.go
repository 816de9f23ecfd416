package main

import (
	"fmt"
	"strings"

	"github.com/axrtools/mcmsync"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

func renderReport(r *mcmsync.Report, ws *mcmsync.Workspace) string {
	blocks := make([]string, 0, 4)

	if len(r.Unrecognized) > 0 {
		lines := []string{titleStyle.Render("The following settings are not present in the options file:")}
		for _, s := range r.Unrecognized {
			lines = append(lines, "  "+s.String())
		}
		lines = append(lines, dimStyle.Render("This CAN mean that the game does not recognize these settings. If all settings are working, you can ignore this message."))
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	for _, w := range r.Warnings {
		blocks = append(blocks, warnStyle.Render("warning: "+w.Error()))
	}

	summary := []string{}
	if r.BackupPath != "" {
		summary = append(summary, "Backup written to "+r.BackupPath)
	}
	if ws.NoWrites {
		summary = append(summary, "Dry run, no files were written")
	}
	if r.Overrides != nil {
		summary = append(summary, fmt.Sprintf("%d user overrides found in %s", len(r.Overrides.Keys()), ws.SavedFile))
	}
	if len(summary) > 0 {
		blocks = append(blocks, okStyle.Render(strings.Join(summary, "\n")))
	}

	if len(blocks) == 0 {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...) + "\n"
}
