// Package report renders a user's project overview for terminals and scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ganot/tasktrack/internal/domain/progress"
)

const (
	titleWidth  = 28
	statusWidth = 11
	countWidth  = 9
	barWidth    = 10
)

type styles struct {
	heading lipgloss.Style
	header  lipgloss.Style
	title   lipgloss.Style
	status  lipgloss.Style
	count   lipgloss.Style
	bar     lipgloss.Style
	rate    lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
		title:   r.NewStyle().Width(titleWidth).Foreground(lipgloss.Color("252")),
		status:  r.NewStyle().Width(statusWidth).Foreground(lipgloss.Color("214")),
		count:   r.NewStyle().Width(countWidth).Align(lipgloss.Right),
		bar:     r.NewStyle().Foreground(lipgloss.Color("42")),
		rate:    r.NewStyle().Width(5).Align(lipgloss.Right).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Text writes o as a styled table. Colors are dropped when w is not a terminal.
func Text(w io.Writer, o *progress.Overview) error {
	s := newStyles(lipgloss.NewRenderer(w))

	var b strings.Builder
	b.WriteString(s.heading.Render("Projects for "+o.UserID) + "\n\n")

	if len(o.Projects) == 0 {
		b.WriteString(s.muted.Render("No projects with tasks assigned.") + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		s.header.Width(titleWidth).Render("PROJECT"),
		s.header.Width(statusWidth).Render("STATUS"),
		s.header.Width(countWidth).Align(lipgloss.Right).Render("DONE"),
		"  ",
		s.header.Width(barWidth).Render("PROGRESS"),
		s.header.Width(5).Align(lipgloss.Right).Render("RATE"),
	) + "\n")

	for _, p := range o.Projects {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			s.title.Render(truncate(p.Title, titleWidth-1)),
			s.status.Render(string(p.Status)),
			s.count.Render(fmt.Sprintf("%d/%d", p.UserCompletedCount, p.UserTaskCount)),
			"  ",
			s.bar.Render(bar(p.CompletionRate)),
			s.rate.Render(fmt.Sprintf("%d%%", p.CompletionRate)),
		) + "\n")
	}

	sum := o.Summary
	b.WriteString("\n" + s.muted.Render(fmt.Sprintf(
		"%d projects, %d/%d tasks done, %d%% overall",
		sum.TotalProjects, sum.TotalCompleted, sum.TotalTasks, sum.OverallRate,
	)) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes o as indented JSON.
func JSON(w io.Writer, o *progress.Overview) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}

func bar(rate int) string {
	filled := rate * barWidth / 100
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > max {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
