// Package builder drives one build invocation from module discovery to linked artifacts.
package builder

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/rybuild/internal/engine/codegen"
	"go.trai.ch/rybuild/internal/engine/compiler"
	"go.trai.ch/rybuild/internal/engine/linker"
	"go.trai.ch/zerr"
)

// Plan is a discovered and validated module graph, ready to build.
type Plan struct {
	Graph    *domain.Graph
	Layout   domain.Layout
	Settings *domain.BuildSettings
	State    *domain.BuildState
	RunID    string
}

// Orchestrator sequences discovery, verification, code generation, compilation and linking.
type Orchestrator struct {
	loader    ports.ModuleLoader
	fs        ports.FileSystem
	store     ports.BuildInfoStore
	hasher    ports.Hasher
	renderer  ports.Renderer
	logger    ports.Logger
	tracer    ports.Tracer
	telemetry ports.Telemetry

	codegen  *codegen.Pipeline
	compiler *compiler.Orchestrator
	linker   *linker.Linker

	mu    sync.RWMutex
	phase domain.Phase
}

// New creates a new Orchestrator.
func New(
	loader ports.ModuleLoader,
	toolchain ports.Toolchain,
	generator ports.Generator,
	fs ports.FileSystem,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	renderer ports.Renderer,
	logger ports.Logger,
	tracer ports.Tracer,
	telemetry ports.Telemetry,
) *Orchestrator {
	return &Orchestrator{
		loader:    loader,
		fs:        fs,
		store:     store,
		hasher:    hasher,
		renderer:  renderer,
		logger:    logger,
		tracer:    tracer,
		telemetry: telemetry,
		codegen:   codegen.NewPipeline(generator, fs, logger),
		compiler:  compiler.New(toolchain, fs, renderer),
		linker:    linker.New(toolchain, fs, logger),
		phase:     domain.PhaseIdle,
	}
}

// State returns the current phase.
func (o *Orchestrator) State() domain.Phase {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.phase
}

// transition moves to next when the state machine allows it.
func (o *Orchestrator) transition(next domain.Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase == next || !o.phase.CanTransition(next) {
		return
	}
	o.logger.Debug("phase: " + string(o.phase) + " -> " + string(next))
	o.phase = next
}

// Prepare discovers the modules below root, merges engine modules when an engine root is
// configured, and validates the resulting graph.
func (o *Orchestrator) Prepare(ctx context.Context, root string, s *domain.BuildSettings) (_ *Plan, err error) {
	defer func() {
		if err != nil {
			o.transition(domain.PhaseFailed)
		}
	}()

	if err := s.CheckCompatibility(); err != nil {
		return nil, err
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRootNotFound.Error()), "root", root)
	}
	layout := domain.NewLayout(root, s)

	_, span := o.tracer.Start(ctx, "discover", ports.WithAttribute("root", root))
	defer span.End()

	o.transition(domain.PhaseDiscovering)
	engineDir := layout.EngineModulesDir(false)
	isEngine := engineDir != "" && filepath.Clean(engineDir) == root

	g, err := o.loader.Load(root, isEngine, layout)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var engine *domain.Graph
	if dir := layout.EngineModulesDir(s.Distribute); dir != "" && !isEngine {
		if engine, err = o.loader.Load(dir, true, layout); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	o.transition(domain.PhaseVerifying)
	if g.Len() == 0 {
		return nil, zerr.With(domain.ErrNoModules, "root", root)
	}
	if engine != nil {
		if err := g.Merge(engine); err != nil {
			return nil, err
		}
	}
	if err := g.CheckDependencies(); err != nil {
		return nil, err
	}

	o.transition(domain.PhaseCycleChecking)
	if cycle := g.CheckCircular(); cycle != nil {
		return nil, zerr.With(domain.ErrCycleDetected, "cycle", domain.FormatCycle(cycle))
	}

	span.SetAttribute("modules", g.Len())
	return &Plan{
		Graph:    g,
		Layout:   layout,
		Settings: s,
		State:    domain.NewBuildState(),
		RunID:    uuid.NewString(),
	}, nil
}

// Build runs a complete build of the modules below root.
func (o *Orchestrator) Build(ctx context.Context, root string, s *domain.BuildSettings) (err error) {
	ctx, span := o.tracer.Start(ctx, "build", ports.WithAttribute("root", root))
	defer func() {
		if err != nil {
			span.RecordError(err)
			o.transition(domain.PhaseFailed)
		} else {
			o.transition(domain.PhaseDone)
		}
		span.End()
	}()

	p, err := o.Prepare(ctx, root, s)
	if err != nil {
		return err
	}

	o.transition(domain.PhaseGeneratingCode)
	if err := o.generate(ctx, p); err != nil {
		return err
	}

	o.transition(domain.PhaseBuildingModules)
	if s.IsStandalone() {
		return o.BuildAllStandalone(ctx, p)
	}
	return o.BuildAllModular(ctx, p)
}

func (o *Orchestrator) generate(ctx context.Context, p *Plan) error {
	ctx, span := o.tracer.Start(ctx, "codegen")
	defer span.End()

	if err := o.codegen.Run(ctx, p.Graph, p.Graph.Names(), p.Settings); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// BuildAllModular builds every module into its own artifact. All modules are attempted;
// the error lists every module that did not build.
func (o *Orchestrator) BuildAllModular(ctx context.Context, p *Plan) error {
	order := p.Graph.TopologicalOrder(p.Graph.Names())
	o.renderer.OnPlan(order)
	o.tracer.EmitPlan(ctx, order)

	for _, name := range p.Graph.Names() {
		o.BuildModule(ctx, p, name)
	}

	if failed := p.State.Failed(); len(failed) > 0 {
		return domain.NewFailedModulesError(failed, nil)
	}

	for m := range p.Graph.Modules() {
		if err := o.copyExternBinaries(m, p.Layout.For(m).Binary, p.Settings); err != nil {
			return err
		}
	}
	return nil
}

// BuildModule builds name after its dependencies and reports whether it built.
// A module is built at most once per plan.
func (o *Orchestrator) BuildModule(ctx context.Context, p *Plan, name string) bool {
	if p.State.Visit(name) {
		return p.State.Get(name).BuiltSuccessfully
	}

	m, ok := p.Graph.Module(name)
	if !ok {
		err := zerr.With(domain.ErrModuleNotFound, "module", name)
		o.renderer.OnModuleComplete(name, domain.ModuleStatusFailed, err)
		return false
	}

	depsOK, relink := true, false
	for _, dep := range m.Dependencies {
		if !o.BuildModule(ctx, p, dep) {
			depsOK = false
			continue
		}
		if p.State.Get(dep).AttemptedBuild {
			relink = true
		}
	}
	if !depsOK {
		p.State.SetBuilt(name, false)
		o.renderer.OnModuleComplete(name, domain.ModuleStatusSkipped, nil)
		return false
	}

	ctx, span := o.tracer.Start(ctx, name, ports.WithAttribute("module", name))
	defer span.End()
	ctx, vertex := o.telemetry.Record(ctx, name)

	status, err := o.buildModule(ctx, p, m, relink)
	if err != nil {
		p.State.SetBuilt(name, false)
		span.RecordError(err)
		vertex.Complete(err)
		o.renderer.OnModuleComplete(name, domain.ModuleStatusFailed, err)
		return false
	}

	p.State.SetBuilt(name, true)
	span.SetAttribute("status", string(status))
	if status == domain.ModuleStatusUpToDate {
		vertex.Cached()
	}
	vertex.Complete(nil)
	o.renderer.OnModuleComplete(name, status, nil)
	return true
}

func (o *Orchestrator) buildModule(ctx context.Context, p *Plan, m *domain.Module, relink bool) (domain.ModuleStatus, error) {
	out := p.Layout.For(m)
	objectDir := p.Layout.ObjectDir(m)
	for _, dir := range []string{out.Binary, out.Libraries, objectDir} {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return domain.ModuleStatusFailed, zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", dir)
		}
	}

	fingerprint := o.hasher.Fingerprint(m, p.Settings)
	prev, err := o.store.Get(p.Layout.StatePath, m.Name)
	if err != nil {
		o.logger.Warn("ignoring build info of " + m.Name + ": " + err.Error())
	}
	changed := prev != nil && prev.Fingerprint != fingerprint

	res, err := o.compiler.CompileModule(ctx, compiler.Unit{
		Module:              m,
		ObjectDir:           objectDir,
		IncludeDirs:         p.Graph.IncludeDirs(m.Name),
		Full:                changed,
		PositionIndependent: !m.IsExecutable(p.Settings),
	}, p.Settings, p.State)
	if err != nil {
		return domain.ModuleStatusFailed, err
	}

	artifact := linker.ArtifactPath(m, p.Layout, p.Settings)
	_, exists, err := o.fs.ModTime(artifact)
	if err != nil {
		return domain.ModuleStatusFailed, err
	}

	status := domain.ModuleStatusUpToDate
	if res.LinkNeeded || relink || !exists {
		p.State.Update(m.Name, func(st *domain.ModuleState) { st.AttemptedBuild = true })
		if err := o.linker.LinkModule(ctx, p.Graph, m, p.Layout, p.Settings, p.State); err != nil {
			return domain.ModuleStatusFailed, err
		}
		status = domain.ModuleStatusBuilt
	}

	if status == domain.ModuleStatusBuilt || prev == nil || changed {
		err := o.store.Put(p.Layout.StatePath, domain.BuildInfo{
			Module:      m.Name,
			Artifact:    artifact,
			Fingerprint: fingerprint,
			RunID:       p.RunID,
			Timestamp:   time.Now(),
		})
		if err != nil {
			o.logger.Warn("failed to record build info of " + m.Name + ": " + err.Error())
		}
	}
	return status, nil
}

// BuildAllStandalone compiles every module into a temporary object root and links them
// into one executable. The first module that fails to compile aborts the build.
func (o *Orchestrator) BuildAllStandalone(ctx context.Context, p *Plan) error {
	dirs := p.Layout.StandaloneDirs()
	defer func() {
		if err := os.RemoveAll(dirs.Object); err != nil {
			o.logger.Warn("failed to remove " + dirs.Object + ": " + err.Error())
		}
	}()

	order := p.Graph.TopologicalOrder(p.Graph.Names())
	o.renderer.OnPlan(order)
	o.tracer.EmitPlan(ctx, order)

	for _, name := range order {
		m, _ := p.Graph.Module(name)
		p.State.Visit(name)

		mctx, span := o.tracer.Start(ctx, name, ports.WithAttribute("module", name))
		mctx, vertex := o.telemetry.Record(mctx, name)
		_, err := o.compiler.CompileModule(mctx, compiler.Unit{
			Module:      m,
			ObjectDir:   dirs.ModuleObjectDir(name),
			IncludeDirs: p.Graph.IncludeDirs(name),
			Full:        true,
		}, p.Settings, p.State)
		vertex.Complete(err)
		if err != nil {
			span.RecordError(err)
			span.End()
			o.renderer.OnModuleComplete(name, domain.ModuleStatusFailed, err)
			return domain.NewFailedModulesError([]string{name}, err)
		}
		span.End()
		p.State.SetBuilt(name, true)
		o.renderer.OnModuleComplete(name, domain.ModuleStatusBuilt, nil)
	}

	o.transition(domain.PhaseLinking)
	if err := os.MkdirAll(dirs.Binary, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", dirs.Binary)
	}

	ctx, span := o.tracer.Start(ctx, "link", ports.WithAttribute("artifact", p.Settings.StandaloneExecutable()))
	defer span.End()
	if err := o.linker.LinkStandalone(ctx, p.Graph, dirs.Object, dirs.Binary, p.Settings); err != nil {
		span.RecordError(err)
		return domain.NewFailedModulesError([]string{p.Settings.StandaloneExecutable()}, err)
	}

	for m := range p.Graph.Modules() {
		if err := o.copyExternBinaries(m, dirs.Binary, p.Settings); err != nil {
			return err
		}
	}
	return nil
}

// Clean removes the build outputs of the project below root.
// Every target is attempted; failures are joined.
func (o *Orchestrator) Clean(root string, s *domain.BuildSettings) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRootNotFound.Error()), "root", root)
	}
	layout := domain.NewLayout(root, s)

	var errs error
	for _, path := range layout.CleanTargets() {
		o.logger.Info("removing " + path)
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove"), "path", path))
		}
	}
	o.store.Reset(layout.StatePath)
	return errs
}

// copyExternBinaries copies the runtime binaries shipped by the externs of m into dir.
// Files already present are left alone.
func (o *Orchestrator) copyExternBinaries(m *domain.Module, dir string, s *domain.BuildSettings) error {
	for _, ext := range m.Extern {
		src := ext.BinaryDir(s)
		names, err := o.fs.ListFiles(src)
		if err != nil {
			return err
		}
		for _, name := range names {
			dst := filepath.Join(dir, name)
			_, exists, err := o.fs.ModTime(dst)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if err := copyFile(filepath.Join(src, name), dst); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to copy third-party binary"), "path", dst)
			}
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	//nolint:gosec // Paths come from the module graph
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return err
	}
	//nolint:gosec // Paths come from the module graph
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, domain.FilePerm|0o111)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
