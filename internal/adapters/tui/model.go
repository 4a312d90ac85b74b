// Package tui provides an interactive terminal view of a running build.
package tui

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/rybuild/internal/core/domain"
)

const (
	moduleListWidthRatio = 0.3
	logPaneBorderWidth   = 4
	headerHeight         = 3
)

// ModuleNode is one module in the module list.
type ModuleNode struct {
	Name        string
	Status      domain.ModuleStatus
	Done        int
	Total       int
	FullRebuild bool
	Logs        bytes.Buffer
}

// Model is the state of the interactive build view.
type Model struct {
	Modules    []*ModuleNode
	ModuleMap  map[string]*ModuleNode
	Viewport   viewport.Model
	Progress   progress.Model
	AutoScroll bool
	Active     string
	Width      int

	// Interrupted is set when the user asked to abort the build.
	Interrupted bool
}

// NewModel creates an empty model.
func NewModel() Model {
	return Model{
		ModuleMap:  make(map[string]*ModuleNode),
		Viewport:   viewport.New(0, 0),
		Progress:   progress.New(progress.WithSolidFill(string(colorAccent)), progress.WithoutPercentage()),
		AutoScroll: true,
	}
}

// Init initializes the model.
//
//nolint:gocritic // hugeParam ignored
func (m Model) Init() tea.Cmd {
	return nil
}

// Update applies a message to the model.
//
//nolint:cyclop,gocritic // hugeParam ignored
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Interrupted = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		m.AutoScroll = m.Viewport.AtBottom()
		return m, cmd

	case tea.WindowSizeMsg:
		listWidth := int(float64(msg.Width) * moduleListWidthRatio)
		m.Width = msg.Width
		m.Viewport.Width = msg.Width - listWidth - logPaneBorderWidth
		m.Viewport.Height = max(msg.Height-headerHeight, 0)
		m.Progress.Width = max(listWidth-logPaneBorderWidth, 0)

	case MsgPlan:
		m.Modules = make([]*ModuleNode, 0, len(msg.Modules))
		m.ModuleMap = make(map[string]*ModuleNode, len(msg.Modules))
		for _, name := range msg.Modules {
			node := &ModuleNode{Name: name, Status: domain.ModuleStatusPending}
			m.Modules = append(m.Modules, node)
			m.ModuleMap[name] = node
		}

	case MsgModuleStart:
		node := m.node(msg.Module)
		node.Status = domain.ModuleStatusCompiling
		node.Total = msg.Files
		node.FullRebuild = msg.FullRebuild
		m.focus(node)

	case MsgFileComplete:
		node := m.node(msg.Module)
		node.Done = msg.Index
		node.Total = msg.Total
		mark := ""
		if msg.Failed {
			mark = " [fail]"
		}
		_, _ = fmt.Fprintf(&node.Logs, "[%d of %d] %s%s\n", msg.Index, msg.Total, msg.File, mark)
		if out := bytes.TrimRight(msg.Output, "\r\n"); len(out) > 0 {
			node.Logs.Write(out)
			node.Logs.WriteByte('\n')
		}
		if node.Name == m.Active {
			m.refresh(node)
		}

	case MsgModuleComplete:
		node := m.node(msg.Module)
		node.Status = msg.Status
		if msg.Err != nil {
			_, _ = fmt.Fprintf(&node.Logs, "%v\n", msg.Err)
		}
		if msg.Status == domain.ModuleStatusFailed {
			m.focus(node)
		}
	}

	return m, nil
}

// Failed returns the failed modules in list order.
func (m Model) Failed() []*ModuleNode { //nolint:gocritic // hugeParam ignored
	var failed []*ModuleNode
	for _, node := range m.Modules {
		if node.Status == domain.ModuleStatusFailed {
			failed = append(failed, node)
		}
	}
	return failed
}

// node returns the named module, adding it when the plan did not list it.
func (m *Model) node(name string) *ModuleNode {
	if node, ok := m.ModuleMap[name]; ok {
		return node
	}
	node := &ModuleNode{Name: name, Status: domain.ModuleStatusPending}
	m.Modules = append(m.Modules, node)
	m.ModuleMap[name] = node
	return node
}

func (m *Model) focus(node *ModuleNode) {
	m.Active = node.Name
	m.refresh(node)
}

func (m *Model) refresh(node *ModuleNode) {
	m.Viewport.SetContent(node.Logs.String())
	if m.AutoScroll {
		m.Viewport.GotoBottom()
	}
}
