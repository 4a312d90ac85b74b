// Package staleness decides which translation units of a module must be recompiled.
package staleness

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
)

// Decision is the outcome of a staleness pass over one module.
type Decision struct {
	// Files are the sources to compile, sorted.
	Files []string
	// HeaderChanged is set when a header is newer than an object it may be included by.
	// Every source of the module is scheduled in that case.
	HeaderChanged bool
	// Sources are all sources of the module, sorted.
	Sources []string
}

// Empty reports whether nothing needs to compile.
func (d Decision) Empty() bool {
	return len(d.Files) == 0
}

// Analyzer compares file and object timestamps.
type Analyzer struct {
	fs ports.FileSystem
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(fs ports.FileSystem) *Analyzer {
	return &Analyzer{fs: fs}
}

// ObjectPath returns the object file a source or header maps to.
func ObjectPath(file, objectDir, objectExt string) string {
	return filepath.Join(objectDir, Stem(file)+objectExt)
}

// Stem returns the file name without directory and extension.
func Stem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Decide lists the sources of m whose objects under objectDir are missing or out of date.
//
// A header with no object of its own cannot be attributed to a single translation unit.
// Such headers are compared against the earliest object of the module instead, which
// can schedule a full rebuild more often than strictly needed but never misses one.
func (a *Analyzer) Decide(m *domain.Module, objectDir string, s *domain.BuildSettings) (Decision, error) {
	files, err := a.fs.ModuleFiles(m)
	if err != nil {
		return Decision{}, err
	}
	ext := s.ObjectExtension()

	var (
		stale    []string
		deferred []string
		earliest time.Time
		anyObj   bool
		changed  bool
	)

	// objectTime returns the mtime of the object for file, tracking the earliest one.
	objectTime := func(file string) (time.Time, bool) {
		t, ok, statErr := a.fs.ModTime(ObjectPath(file, objectDir, ext))
		if statErr != nil || !ok {
			return time.Time{}, false
		}
		if !anyObj || t.Before(earliest) {
			earliest = t
			anyObj = true
		}
		return t, true
	}

	// newer reports whether file is at least as new as ref. Unreadable files count as newer.
	newer := func(file string, ref time.Time) bool {
		t, ok, statErr := a.fs.ModTime(file)
		if statErr != nil || !ok {
			return true
		}
		return !t.Before(ref)
	}

	for _, src := range files.Sources {
		obj, ok := objectTime(src)
		if !ok || newer(src, obj) {
			stale = append(stale, src)
		}
	}

	for _, hdr := range files.Headers {
		obj, ok := objectTime(hdr)
		if !ok {
			deferred = append(deferred, hdr)
			continue
		}
		if newer(hdr, obj) {
			changed = true
		}
	}

	if !changed && anyObj {
		for _, hdr := range deferred {
			t, ok, statErr := a.fs.ModTime(hdr)
			if statErr != nil || !ok || t.After(earliest) {
				changed = true
				break
			}
		}
	}

	d := Decision{
		HeaderChanged: changed,
		Sources:       slices.Clone(files.Sources),
	}
	slices.Sort(d.Sources)
	if changed {
		d.Files = slices.Clone(d.Sources)
	} else {
		d.Files = stale
		slices.Sort(d.Files)
	}
	return d, nil
}
