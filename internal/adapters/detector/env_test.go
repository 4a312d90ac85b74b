package detector_test

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/rybuild/internal/adapters/detector"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		isTTY    bool
		ci       string
		expected detector.OutputMode
	}{
		{"CI=true forces CI mode", true, "true", detector.ModeCI},
		{"CI=1 forces CI mode", false, "1", detector.ModeCI},
		{"CI=false on a terminal is colored", true, "false", detector.ModeColor},
		{"terminal without CI is colored", true, "", detector.ModeColor},
		{"pipe without CI is plain", false, "", detector.ModePlain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.Detect(tt.isTTY, tt.ci))
		})
	}
}

func TestDetectEnvironment_CI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, detector.ModeCI, detector.DetectEnvironment())
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.OutputMode
		userFlag     string
		expected     detector.OutputMode
	}{
		{"auto respects auto-detection", detector.ModeColor, "auto", detector.ModeColor},
		{"empty flag respects auto-detection", detector.ModePlain, "", detector.ModePlain},
		{"always overrides auto-detection", detector.ModePlain, "always", detector.ModeColor},
		{"ci overrides auto-detection", detector.ModeColor, "ci", detector.ModeCI},
		{"never overrides auto-detection", detector.ModeColor, "never", detector.ModePlain},
		{"invalid flag respects auto-detection", detector.ModeCI, "sometimes", detector.ModeCI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.ResolveMode(tt.autoDetected, tt.userFlag))
		})
	}
}

func TestProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.Ascii, detector.Profile(detector.ModePlain))
	assert.Equal(t, termenv.ANSI, detector.Profile(detector.ModeCI))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, detector.Profile(detector.ModeCI))
	assert.Equal(t, termenv.Ascii, detector.Profile(detector.ModeColor))
}

func TestInteractive(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.OutputMode
		userFlag     string
		expected     bool
	}{
		{"terminal is interactive", detector.ModeColor, "auto", true},
		{"CI is not interactive", detector.ModeCI, "", false},
		{"pipe is not interactive", detector.ModePlain, "auto", false},
		{"tui forces the view", detector.ModePlain, "tui", true},
		{"linear disables the view", detector.ModeColor, "linear", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.Interactive(tt.autoDetected, tt.userFlag))
		})
	}
}
