// Package report prints a run summary for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/threadmap/internal/generate"
)

// Palette.
const (
	Green   = "#A9DC76"
	Orange  = "#FC9867"
	Cyan    = "#78DCE8"
	Comment = "#727072"
	Magenta = "#FF6188"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Magenta))

	targetStyle = lipgloss.NewStyle().
			Bold(true).
			Width(9)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	statusStyles = map[string]lipgloss.Style{
		generate.StatusWritten:    lipgloss.NewStyle().Foreground(lipgloss.Color(Green)),
		generate.StatusSynced:     lipgloss.NewStyle().Foreground(lipgloss.Color(Green)),
		generate.StatusWouldWrite: lipgloss.NewStyle().Foreground(lipgloss.Color(Orange)),
		generate.StatusUnchanged:  lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan)),
		generate.StatusDisabled:   lipgloss.NewStyle().Foreground(lipgloss.Color(Comment)),
	}
)

// Render formats results as one line per target.
func Render(results []generate.Result, dryRun bool) string {
	var b strings.Builder

	title := "threadmap"
	if dryRun {
		title += " (dry run)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	for _, r := range results {
		status, ok := statusStyles[r.Status]
		if !ok {
			status = lipgloss.NewStyle()
		}
		line := targetStyle.Render(r.Target) + " " + status.Width(12).Render(r.Status)
		if r.Path != "" {
			line += " " + r.Path
		}
		if r.Detail != "" {
			line += " " + dimStyle.Render("("+r.Detail+")")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Print writes Render's output to w.
func Print(w io.Writer, results []generate.Result, dryRun bool) error {
	_, err := fmt.Fprint(w, Render(results, dryRun))
	return err
}
