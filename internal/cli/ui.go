package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"bookforge/internal/events"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// renderEvent formats one progress event as a terminal line.
func renderEvent(evt events.ProgressEvent) string {
	msg := evt.Message
	if evt.Chapter > 0 {
		msg = fmt.Sprintf("%s %s", dimStyle.Render(fmt.Sprintf("[ch %d]", evt.Chapter)), msg)
	}

	switch evt.Type {
	case events.EventSuccess:
		return successStyle.Render("✓") + " " + msg
	case events.EventWarn:
		return warnStyle.Render("!") + " " + msg
	case events.EventError:
		return errorStyle.Render("✗") + " " + msg
	default:
		return stepStyle.Render("•") + " " + msg
	}
}
