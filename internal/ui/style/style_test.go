package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/rybuild/internal/ui/style"
)

func TestStatus(t *testing.T) {
	icon, color := style.Status(domain.ModuleStatusFailed)
	assert.Equal(t, style.Cross, icon)
	assert.Equal(t, style.Red, color)

	icon, _ = style.Status(domain.ModuleStatusUpToDate)
	assert.Equal(t, style.Check, icon)

	icon, _ = style.Status(domain.ModuleStatusCompiling)
	assert.Equal(t, style.Dot, icon)
}
