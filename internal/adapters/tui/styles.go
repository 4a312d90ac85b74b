package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rybuild/internal/ui/style"
)

var (
	colorAccent = style.Accent
	colorWhite  = lipgloss.Color("#FFFFFF")

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(style.Slate).
			MarginRight(1).
			PaddingRight(1)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	pendingStyle = lipgloss.NewStyle().
			Foreground(style.Slate)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(colorAccent).
			Foreground(colorWhite)
)
