// Package codegen regenerates reflection headers before compilation.
//
// Every generated header is produced transactionally: the generator writes a temporary
// file next to the target, which is committed by an atomic rename once all generator
// runs have finished, or removed when its run failed. A committed header is never left
// half written.
package codegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/rybuild/internal/engine/scheduler"
	"go.trai.ch/rybuild/internal/engine/staleness"
	"go.trai.ch/zerr"
)

// GeneratedExt is the suffix of per-header generated files.
const GeneratedExt = ".gen.h"

// Stub is written for a header that has never been generated so its include target exists.
const Stub = "#pragma once\n"

// stubTime is the mtime given to stubs. It keeps a stub older than its header until a
// generator run replaces it.
var stubTime = time.Unix(0, 0)

// Pipeline runs the reflection generator over every out-of-date header.
type Pipeline struct {
	generator ports.Generator
	fs        ports.FileSystem
	logger    ports.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(generator ports.Generator, fs ports.FileSystem, logger ports.Logger) *Pipeline {
	return &Pipeline{generator: generator, fs: fs, logger: logger}
}

type job struct {
	module *domain.Module
	header string
	source string
	target string
	tmp    string

	includeDirs []string
}

// Run generates headers for the named modules of g.
//
// Base module headers and stubs are written first. Generator runs then execute on the
// worker pool, and only after every run has finished are results committed or rolled back.
// A failed header does not prevent the others from committing; the returned error names
// every header that failed.
func (p *Pipeline) Run(ctx context.Context, g *domain.Graph, names []string, s *domain.BuildSettings) error {
	var jobs []*job
	for _, name := range names {
		m, ok := g.Module(name)
		if !ok {
			return zerr.With(domain.ErrModuleNotFound, "module", name)
		}
		modJobs, err := p.prepare(g, m)
		if err != nil {
			return err
		}
		jobs = append(jobs, modJobs...)
	}

	if s.Generator == "" || len(jobs) == 0 {
		return nil
	}

	runID := uuid.NewString()
	for _, j := range jobs {
		j.tmp = filepath.Join(filepath.Dir(j.target), "."+filepath.Base(j.target)+"."+runID+".tmp")
	}

	results := make(map[*job]error, len(jobs))
	for res := range scheduler.Run(ctx, s.Workers(), jobs, func(ctx context.Context, j *job) (struct{}, error) {
		return struct{}{}, p.generate(ctx, j, s)
	}) {
		results[res.Task] = res.Err
	}

	var failed []string
	for _, j := range jobs {
		err, ran := results[j]
		if !ran {
			err = zerr.With(zerr.Wrap(domain.ErrCodeGenFailed, "generator not run"), "header", j.header)
		}
		if err == nil {
			err = commit(j)
		}
		if err != nil {
			rollback(j)
			p.logger.Error(err)
			failed = append(failed, j.header)
		}
	}

	if len(failed) > 0 {
		return zerr.With(domain.ErrCodeGenFailed, "headers", strings.Join(failed, ", "))
	}
	return nil
}

// prepare writes the base module header and stubs, and returns the generator jobs
// of the module's out-of-date headers.
func (p *Pipeline) prepare(g *domain.Graph, m *domain.Module) ([]*job, error) {
	dir := m.GeneratedDir()
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create generated directory"), "path", dir)
	}
	if err := writeIfChanged(m.GeneratedModuleHeader(), ModuleHeader(m)); err != nil {
		return nil, err
	}

	files, err := p.fs.ModuleFiles(m)
	if err != nil {
		return nil, err
	}

	var jobs []*job
	for _, header := range files.Headers {
		stem := staleness.Stem(header)
		target := filepath.Join(dir, stem+GeneratedExt)

		outdated, exists, err := p.outdated(header, target)
		if err != nil {
			return nil, err
		}
		if !outdated {
			continue
		}
		if !exists {
			if err := writeStub(target); err != nil {
				return nil, err
			}
		}

		source := header
		if idx := slices.IndexFunc(files.Sources, func(src string) bool {
			return staleness.Stem(src) == stem
		}); idx >= 0 {
			source = files.Sources[idx]
		}

		jobs = append(jobs, &job{
			module:      m,
			header:      header,
			source:      source,
			target:      target,
			includeDirs: g.IncludeDirs(m.Name),
		})
	}
	return jobs, nil
}

// outdated reports whether target must be regenerated from header, and whether it exists.
func (p *Pipeline) outdated(header, target string) (outdated, exists bool, err error) {
	genTime, exists, err := p.fs.ModTime(target)
	if err != nil {
		return false, false, err
	}
	if !exists {
		return true, false, nil
	}
	headerTime, ok, err := p.fs.ModTime(header)
	if err != nil {
		return false, true, err
	}
	return !ok || !genTime.After(headerTime), true, nil
}

func (p *Pipeline) generate(ctx context.Context, j *job, s *domain.BuildSettings) error {
	res, err := p.generator.Generate(ctx, domain.GenerateRequest{
		Program:     s.Generator,
		Source:      j.source,
		Header:      filepath.Base(j.header),
		Output:      j.tmp,
		IncludeDirs: j.includeDirs,
		Defines:     j.module.GenerateDefines(),
	})
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrCodeGenFailed.Error()), "header", j.header)
		if out := strings.TrimSpace(string(res.Output)); out != "" {
			err = zerr.With(err, "output", out)
		}
		return err
	}
	if _, statErr := os.Stat(j.tmp); statErr != nil {
		return zerr.With(zerr.Wrap(domain.ErrCodeGenFailed, "generator produced no output"), "header", j.header)
	}
	return nil
}

// commit prefixes the generated output with the module header include and renames it
// over the target.
func commit(j *job) error {
	body, err := os.ReadFile(j.tmp)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read generator output"), "path", j.tmp)
	}
	prefix := fmt.Sprintf("#include %q\n", j.module.GeneratedModuleHeaderName())

	f, err := os.OpenFile(j.tmp, os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open generator output"), "path", j.tmp)
	}
	if err := writeSync(f, append([]byte(prefix), body...)); err != nil {
		return zerr.With(err, "path", j.tmp)
	}
	if err := os.Rename(j.tmp, j.target); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to commit generated header"), "path", j.target)
	}
	return nil
}

// writeStub writes Stub to target, back-dated so the header stays out of date.
func writeStub(target string) error {
	if err := writeFileAtomic(target, []byte(Stub)); err != nil {
		return err
	}
	if err := os.Chtimes(target, stubTime, stubTime); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to set stub times"), "path", target)
	}
	return nil
}

func rollback(j *job) {
	if j.tmp == "" {
		return
	}
	_ = os.Remove(j.tmp)
}

// writeIfChanged atomically replaces path with data unless it already holds data.
func writeIfChanged(path string, data []byte) error {
	current, err := os.ReadFile(path)
	if err == nil && bytes.Equal(current, data) {
		return nil
	}
	if err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to read generated header"), "path", path)
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temp file"), "path", path)
	}
	tmp := f.Name()
	if err := writeSync(f, data); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(err, "path", path)
	}
	if err := os.Chmod(tmp, domain.FilePerm); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, "failed to set permissions"), "path", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, "failed to rename temp file"), "path", path)
	}
	return nil
}

// writeSync writes data, flushes it to stable storage and closes f.
func writeSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return zerr.Wrap(err, "failed to write file")
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return zerr.Wrap(err, "failed to sync file")
	}
	if err := f.Close(); err != nil {
		return zerr.Wrap(err, "failed to close file")
	}
	return nil
}
