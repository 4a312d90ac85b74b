// Package app implements the application layer for rybuild.
package app

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"go.trai.ch/rybuild/internal/adapters/telemetry"
	"go.trai.ch/rybuild/internal/adapters/watcher"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/rybuild/internal/ui/output"
	"go.trai.ch/rybuild/internal/ui/style"
)

// DefaultDebounce is the quiet period watch mode waits for before rebuilding.
const DefaultDebounce = 300 * time.Millisecond

// Builder runs builds and cleans build outputs.
type Builder interface {
	Build(ctx context.Context, root string, s *domain.BuildSettings) error
	Clean(root string, s *domain.BuildSettings) error
}

// LogSettings is implemented by loggers whose output can be reconfigured.
type LogSettings interface {
	SetJSON(enabled bool)
	SetVerbose(enabled bool)
}

// OutputSelector is implemented by renderers that choose their presentation per build.
type OutputSelector interface {
	Select(mode string, interrupt func())
}

// App represents the main application logic.
type App struct {
	builder   Builder
	watcher   ports.Watcher
	logger    ports.Logger
	renderer  ports.Renderer
	telemetry ports.Telemetry
	stdout    io.Writer
	debounce  time.Duration
}

// New creates a new App instance.
func New(
	b Builder,
	w ports.Watcher,
	log ports.Logger,
	renderer ports.Renderer,
	recorder ports.Telemetry,
) *App {
	return &App{
		builder:   b,
		watcher:   w,
		logger:    log,
		renderer:  renderer,
		telemetry: recorder,
		stdout:    os.Stdout,
		debounce:  DefaultDebounce,
	}
}

// WithOutput sets the writer the timing report is printed to.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithDebounce sets the quiet period of watch mode.
func (a *App) WithDebounce(d time.Duration) *App {
	a.debounce = d
	return a
}

// ConfigureLogging switches the logger to JSON output or debug verbosity.
func (a *App) ConfigureLogging(json, verbose bool) {
	if l, ok := a.logger.(LogSettings); ok {
		l.SetJSON(json)
		l.SetVerbose(verbose)
	}
}

// BuildOptions configuration for the Build, Rebuild and Watch methods.
type BuildOptions struct {
	Settings *domain.BuildSettings
	// Timings prints the duration of every build phase and module after the build.
	Timings bool
	// OutputMode is one of auto, tui or linear.
	OutputMode string
}

// Build builds every module below root.
func (a *App) Build(ctx context.Context, root string, opts BuildOptions) error {
	var timings *telemetry.TimingProcessor
	if opts.Timings {
		timings = telemetry.NewTimingProcessor()
		provider := telemetry.NewProvider(timings)
		defer func() { _ = provider.Shutdown(context.WithoutCancel(ctx)) }()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if sel, ok := a.renderer.(OutputSelector); ok {
		sel.Select(opts.OutputMode, cancel)
	}

	err := a.builder.Build(ctx, root, opts.Settings)
	if stopErr := a.renderer.Stop(); stopErr != nil {
		a.logger.Warn("progress view: " + stopErr.Error())
	}

	if timings != nil {
		a.printTimings(timings.Timings())
	}
	return err
}

// Clean removes the build outputs of the project below root.
func (a *App) Clean(_ context.Context, root string, s *domain.BuildSettings) error {
	return a.builder.Clean(root, s)
}

// Rebuild cleans and then builds.
func (a *App) Rebuild(ctx context.Context, root string, opts BuildOptions) error {
	if err := a.builder.Clean(root, opts.Settings); err != nil {
		return err
	}
	return a.Build(ctx, root, opts)
}

// Watch builds once and then rebuilds whenever files below root change, until ctx is done.
// Build failures are reported and do not stop watching.
func (a *App) Watch(ctx context.Context, root string, opts BuildOptions) error {
	if err := a.Build(ctx, root, opts); err != nil {
		a.logger.Error(err)
	}

	if err := a.watcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	trigger := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func(paths []string) {
		select {
		case trigger <- paths:
		default:
			// A rebuild is already pending and will see these changes.
		}
	})

	go func() {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	a.logger.Info("watching " + root + " for changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-trigger:
			a.logger.Info(fmt.Sprintf("%d file(s) changed, rebuilding", len(paths)))
			if err := a.Build(ctx, root, opts); err != nil {
				a.logger.Error(err)
			}
		}
	}
}

// Close flushes the progress recording.
func (a *App) Close() error {
	return a.telemetry.Close()
}

func (a *App) printTimings(timings []telemetry.Timing) {
	if len(timings) == 0 {
		return
	}
	slices.SortStableFunc(timings, func(x, y telemetry.Timing) int {
		return cmp.Compare(y.Duration, x.Duration)
	})

	out := output.New(a.stdout)
	_, _ = fmt.Fprintln(a.stdout, out.String("Timings").Foreground(out.Color(string(style.Accent))).Bold())
	for _, t := range timings {
		mark := " "
		if t.Failed {
			mark = style.Cross
		}
		_, _ = fmt.Fprintf(a.stdout, "%s %-32s %10s\n", mark, t.Name, t.Duration.Round(time.Millisecond))
	}
}
