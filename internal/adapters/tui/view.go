package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/ui/style"
)

// View renders the module list next to the output of the active module.
//
//nolint:gocritic // hugeParam ignored
func (m Model) View() string {
	if m.Viewport.Height == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.moduleList(),
		m.logPane(),
	)
}

//nolint:gocritic // hugeParam ignored
func (m Model) moduleList() string {
	var s strings.Builder

	done := 0
	for _, node := range m.Modules {
		if isTerminal(node.Status) {
			done++
		}
	}
	s.WriteString(titleStyle.Render(fmt.Sprintf("MODULES %d/%d", done, len(m.Modules))) + "\n\n")

	for _, node := range m.Modules {
		icon, color := style.Status(node.Status)
		if node.Status == domain.ModuleStatusPending {
			icon = "○"
		}

		line := icon + " " + node.Name
		if node.Status == domain.ModuleStatusCompiling && node.Total > 0 {
			line += fmt.Sprintf(" %d/%d", node.Done, node.Total)
		}
		if node.Name == m.Active {
			line = "> " + line
		} else {
			line = "  " + line
		}

		lineStyle := lipgloss.NewStyle().Foreground(color)
		if node.Status == domain.ModuleStatusPending {
			lineStyle = pendingStyle
		}
		s.WriteString(lineStyle.Render(line) + "\n")

		if node.Status == domain.ModuleStatusCompiling && node.Total > 0 {
			s.WriteString("  " + m.Progress.ViewAs(float64(node.Done)/float64(node.Total)) + "\n")
		}
	}

	return listStyle.Render(s.String())
}

//nolint:gocritic // hugeParam ignored
func (m Model) logPane() string {
	header := titleStyle.Render("OUTPUT (waiting...)")
	if node, ok := m.ModuleMap[m.Active]; ok {
		title := "OUTPUT: " + node.Name
		if node.FullRebuild {
			title += " (full rebuild)"
		}
		header = titleStyle.Render(title)
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			m.Viewport.View(),
		),
	)
}

func isTerminal(s domain.ModuleStatus) bool {
	switch s {
	case domain.ModuleStatusBuilt, domain.ModuleStatusUpToDate,
		domain.ModuleStatusFailed, domain.ModuleStatusSkipped:
		return true
	default:
		return false
	}
}
