package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	moveStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"})
	keepStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"})
	dimStyle     = lipgloss.NewStyle().Faint(true)
	summaryStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"})
)

func printf(w io.Writer, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(w, style.Render(fmt.Sprintf(format, args...)))
}
