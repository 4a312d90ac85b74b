// Package compiler compiles the stale translation units of a module on the worker pool.
package compiler

import (
	"context"
	"os"

	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/rybuild/internal/engine/scheduler"
	"go.trai.ch/rybuild/internal/engine/staleness"
	"go.trai.ch/zerr"
)

// Unit describes one module compilation.
type Unit struct {
	Module    *domain.Module
	ObjectDir string
	// IncludeDirs is the module's header search path.
	IncludeDirs []string
	// Full compiles every source regardless of timestamps.
	Full bool
	// PositionIndependent is set when the objects end up in a shared library.
	PositionIndependent bool
}

// Result summarizes a module compilation.
type Result struct {
	Compiled    int
	LinkNeeded  bool
	FullRebuild bool
}

// Orchestrator runs staleness analysis and compiles what it reports.
type Orchestrator struct {
	toolchain ports.Toolchain
	fs        ports.FileSystem
	renderer  ports.Renderer
	analyzer  *staleness.Analyzer
}

// New creates a new Orchestrator.
func New(toolchain ports.Toolchain, fs ports.FileSystem, renderer ports.Renderer) *Orchestrator {
	return &Orchestrator{
		toolchain: toolchain,
		fs:        fs,
		renderer:  renderer,
		analyzer:  staleness.NewAnalyzer(fs),
	}
}

// CompileModule compiles the out-of-date sources of u.Module into u.ObjectDir.
//
// A module with nothing to compile is marked built and needs no link. Otherwise every
// scheduled file is compiled, failures included, before the call returns; any failure
// marks the module failed and returns ErrCompileFailed.
func (o *Orchestrator) CompileModule(
	ctx context.Context,
	u Unit,
	s *domain.BuildSettings,
	state *domain.BuildState,
) (Result, error) {
	m := u.Module
	decision, err := o.analyzer.Decide(m, u.ObjectDir, s)
	if err != nil {
		state.SetBuilt(m.Name, false)
		return Result{}, err
	}
	if len(decision.Sources) == 0 {
		state.SetBuilt(m.Name, false)
		return Result{}, zerr.With(domain.ErrNoSources, "module", m.Name)
	}

	full := decision.HeaderChanged || u.Full
	files := decision.Files
	if full {
		files = decision.Sources
	}
	if len(files) == 0 {
		state.SetBuilt(m.Name, true)
		return Result{}, nil
	}

	state.Update(m.Name, func(st *domain.ModuleState) {
		st.AttemptedBuild = true
		st.NeededFullRebuild = full
	})

	if err := os.MkdirAll(u.ObjectDir, domain.DirPerm); err != nil {
		state.SetBuilt(m.Name, false)
		return Result{}, zerr.With(zerr.Wrap(err, "failed to create object directory"), "path", u.ObjectDir)
	}

	o.renderer.OnModuleStart(m.Name, len(files), full)

	vertex, hasVertex := ports.VertexFromContext(ctx)
	total := len(files)
	done, failed := 0, 0
	for res := range scheduler.Run(ctx, s.Workers(), files, func(ctx context.Context, file string) (domain.CommandResult, error) {
		return o.compile(ctx, u, s, file)
	}) {
		done++
		if res.Err != nil {
			failed++
		}
		if hasVertex && len(res.Value.Output) > 0 {
			_, _ = vertex.Stdout().Write(res.Value.Output)
		}
		o.renderer.OnFileComplete(m.Name, res.Task, done, total, res.Value, res.Err)
	}

	result := Result{Compiled: done - failed, LinkNeeded: true, FullRebuild: full}

	if done < total {
		state.SetBuilt(m.Name, false)
		return result, zerr.With(zerr.Wrap(domain.ErrCompileFailed, "compilation interrupted"), "module", m.Name)
	}
	if failed > 0 {
		state.SetBuilt(m.Name, false)
		err := zerr.With(domain.ErrCompileFailed, "module", m.Name)
		return result, zerr.With(err, "failed_files", failed)
	}
	return result, nil
}

func (o *Orchestrator) compile(ctx context.Context, u Unit, s *domain.BuildSettings, file string) (domain.CommandResult, error) {
	object := staleness.ObjectPath(file, u.ObjectDir, s.ObjectExtension())
	res, err := o.toolchain.Compile(ctx, domain.CompileRequest{
		Settings:            s,
		Source:              file,
		Object:              object,
		IncludeDirs:         u.IncludeDirs,
		Defines:             u.Module.CompileDefines(),
		PositionIndependent: u.PositionIndependent,
	})
	if err != nil {
		return res, err
	}

	_, exists, err := o.fs.ModTime(object)
	if err != nil {
		return res, err
	}
	if !exists {
		return res, zerr.With(domain.ErrMissingObjects, "object", object)
	}
	return res, nil
}
