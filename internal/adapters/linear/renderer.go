// Package linear provides a synchronous, line-oriented build progress renderer.
package linear

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/rybuild/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer.
// Progress goes to stdout; compiler diagnostics of failed files go to stderr.
// Each file's output is written whole under the lock so that workers never interleave.
type Renderer struct {
	stdout *termenv.Output
	stderr *termenv.Output

	mu sync.Mutex
}

// NewRenderer creates a new Renderer with the given color profile.
func NewRenderer(stdout, stderr io.Writer, profile termenv.Profile) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: termenv.NewOutput(stdout, termenv.WithProfile(profile)),
		stderr: termenv.NewOutput(stderr, termenv.WithProfile(profile)),
	}
}

// OnPlan prints the build order.
func (r *Renderer) OnPlan(modules []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stdout, "Planning to build %d module(s): %s\n", len(modules), strings.Join(modules, ", "))
}

// OnModuleStart prints the module header.
func (r *Renderer) OnModuleStart(module string, _ int, fullRebuild bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := "Building module " + module
	if fullRebuild {
		line += r.color(r.stdout, " (header changed, full rebuild)", style.Yellow).Faint().String()
	}
	_, _ = fmt.Fprintln(r.stdout, line)
}

// OnFileComplete prints the progress line and any buffered compiler output.
func (r *Renderer) OnFileComplete(_ string, file string, index, total int, result domain.CommandResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := fmt.Sprintf("\t[%d of %d] %s", index, total, file)
	if err != nil {
		line += " " + r.color(r.stdout, "[fail]", style.Red).String()
	}
	_, _ = fmt.Fprintln(r.stdout, line)

	out := bytes.TrimRight(result.Output, "\r\n")
	if len(out) == 0 {
		return
	}
	switch {
	case err != nil:
		_, _ = fmt.Fprintf(r.stderr, "%s\n", out)
	case result.HasDiagnostics():
		_, _ = fmt.Fprintf(r.stdout, "%s\n\n", out)
	}
}

// OnModuleComplete prints the module's final status.
func (r *Renderer) OnModuleComplete(module string, status domain.ModuleStatus, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	icon, color := style.Status(status)
	symbol := r.color(r.stdout, icon, color).String()

	switch status {
	case domain.ModuleStatusUpToDate:
		_, _ = fmt.Fprintf(r.stdout, "%s Module %s up to date.\n", symbol, module)
	case domain.ModuleStatusFailed:
		if err != nil {
			_, _ = fmt.Fprintf(r.stdout, "%s Module %s failed: %v\n", symbol, module, err)
			return
		}
		_, _ = fmt.Fprintf(r.stdout, "%s Module %s failed\n", symbol, module)
	case domain.ModuleStatusSkipped:
		_, _ = fmt.Fprintf(r.stdout, "%s Module %s skipped\n", symbol, module)
	default:
		_, _ = fmt.Fprintf(r.stdout, "%s Module %s %s\n", symbol, module, status)
	}
}

// Stop does nothing; output is written synchronously.
func (r *Renderer) Stop() error {
	return nil
}

func (r *Renderer) color(o *termenv.Output, s string, c lipgloss.Color) termenv.Style {
	return o.String(s).Foreground(o.Color(string(c)))
}
