package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints module configuration and file contents.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint hashes the parts of a module's configuration that change its objects
// without touching any source file.
func (h *Hasher) Fingerprint(m *domain.Module, s *domain.BuildSettings) string {
	d := xxhash.New()

	field := func(values ...string) {
		for _, v := range values {
			_, _ = d.WriteString(v)
			_, _ = d.Write([]byte{0})
		}
		// Section separator.
		_, _ = d.Write([]byte{1})
	}

	field(m.Name, string(m.Type))
	field(m.Dependencies...)
	field(m.Macros...)
	field(m.IncludePaths...)
	field(m.LibraryPaths...)
	field(m.Libraries...)
	for _, e := range m.Extern {
		field(e.Name, e.Root)
	}

	field(
		string(s.Config),
		string(s.Type),
		string(s.Toolset),
		string(s.Target.OS),
		string(s.Target.Arch),
		fmt.Sprint(s.Distribute),
	)

	return fmt.Sprintf("%016x", d.Sum64())
}
