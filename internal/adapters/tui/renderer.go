package tui

import (
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer runs the Bubble Tea build view as a ports.Renderer.
type Renderer struct {
	program   *tea.Program
	stderr    io.Writer
	interrupt func()

	done     chan struct{}
	stopOnce sync.Once
	final    Model
	err      error
}

// NewRenderer creates a renderer for the model. interrupt is called when the user
// presses ctrl+c and may be nil.
func NewRenderer(model Model, stderr io.Writer, interrupt func(), opts ...tea.ProgramOption) *Renderer {
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Renderer{
		program:   tea.NewProgram(model, opts...),
		stderr:    stderr,
		interrupt: interrupt,
		done:      make(chan struct{}),
		final:     model,
	}
}

// Start launches the program in a background goroutine.
func (r *Renderer) Start() {
	go func() {
		defer close(r.done)
		m, err := r.program.Run()
		r.err = err
		if final, ok := m.(Model); ok {
			r.final = final
		}
		if r.final.Interrupted && r.interrupt != nil {
			r.interrupt()
		}
	}()
}

// OnPlan forwards the build order to the view.
func (r *Renderer) OnPlan(modules []string) {
	r.program.Send(MsgPlan{Modules: modules})
}

// OnModuleStart forwards a module start to the view.
func (r *Renderer) OnModuleStart(module string, files int, fullRebuild bool) {
	r.program.Send(MsgModuleStart{Module: module, Files: files, FullRebuild: fullRebuild})
}

// OnFileComplete forwards a compiled file and its compiler output to the view.
func (r *Renderer) OnFileComplete(module, file string, index, total int, result domain.CommandResult, err error) {
	r.program.Send(MsgFileComplete{
		Module: module,
		File:   file,
		Index:  index,
		Total:  total,
		Output: result.Output,
		Failed: err != nil,
	})
}

// OnModuleComplete forwards a module's final status to the view.
func (r *Renderer) OnModuleComplete(module string, status domain.ModuleStatus, err error) {
	r.program.Send(MsgModuleComplete{Module: module, Status: status, Err: err})
}

// Stop quits the program, waits for the terminal to be restored and then prints
// the output of every failed module, which would otherwise be lost with the view.
func (r *Renderer) Stop() error {
	r.stopOnce.Do(func() {
		r.program.Quit()
		<-r.done

		for _, node := range r.final.Failed() {
			_, _ = fmt.Fprintf(r.stderr, "Module %s failed:\n%s", node.Name, node.Logs.String())
		}
	})
	return r.err
}
