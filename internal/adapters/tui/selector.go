package tui

import (
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/rybuild/internal/adapters/detector"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
)

var _ ports.Renderer = (*Selector)(nil)

// Selector routes build progress either to the interactive view or to a line renderer.
// The choice is made per build by Select; the line renderer is used until then.
type Selector struct {
	lines ports.Renderer
	opts  []tea.ProgramOption

	mu     sync.Mutex
	active ports.Renderer
}

// NewSelector creates a Selector falling back to lines.
func NewSelector(lines ports.Renderer, opts ...tea.ProgramOption) *Selector {
	return &Selector{lines: lines, opts: opts, active: lines}
}

// Select picks the renderer for the next build. mode is one of auto, tui or linear;
// auto shows the interactive view on a terminal outside CI.
// interrupt is called when the user aborts the build from the interactive view.
func (s *Selector) Select(mode string, interrupt func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !detector.Interactive(detector.DetectEnvironment(), mode) {
		s.active = s.lines
		return
	}
	r := NewRenderer(NewModel(), os.Stderr, interrupt, s.opts...)
	r.Start()
	s.active = r
}

func (s *Selector) current() ports.Renderer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// OnPlan implements ports.Renderer.
func (s *Selector) OnPlan(modules []string) { s.current().OnPlan(modules) }

// OnModuleStart implements ports.Renderer.
func (s *Selector) OnModuleStart(module string, files int, fullRebuild bool) {
	s.current().OnModuleStart(module, files, fullRebuild)
}

// OnFileComplete implements ports.Renderer.
func (s *Selector) OnFileComplete(module, file string, index, total int, result domain.CommandResult, err error) {
	s.current().OnFileComplete(module, file, index, total, result, err)
}

// OnModuleComplete implements ports.Renderer.
func (s *Selector) OnModuleComplete(module string, status domain.ModuleStatus, err error) {
	s.current().OnModuleComplete(module, status, err)
}

// Stop stops the active renderer and falls back to the line renderer.
func (s *Selector) Stop() error {
	s.mu.Lock()
	active := s.active
	s.active = s.lines
	s.mu.Unlock()

	return active.Stop()
}
