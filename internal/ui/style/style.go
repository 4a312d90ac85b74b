// Package style provides the colors and icons shared by every build output writer.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rybuild/internal/core/domain"
)

// Palette.
var (
	Accent = lipgloss.Color("#3B82F6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Skip    = "-"
	Dot     = "●"
)

// Status returns the icon and color used to present a module status.
func Status(s domain.ModuleStatus) (string, lipgloss.Color) {
	switch s {
	case domain.ModuleStatusBuilt:
		return Check, Green
	case domain.ModuleStatusUpToDate:
		return Check, Slate
	case domain.ModuleStatusFailed:
		return Cross, Red
	case domain.ModuleStatusSkipped:
		return Skip, Yellow
	default:
		return Dot, Accent
	}
}
