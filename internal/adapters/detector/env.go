// Package detector provides environment detection for output mode and color selection.
package detector

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
	"go.trai.ch/rybuild/internal/ui/output"
)

// OutputMode represents how build output is presented.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeColor writes colored output for an interactive terminal.
	ModeColor
	// ModeCI writes basic ANSI colors suitable for CI logs.
	ModeCI
	// ModePlain writes no escape sequences.
	ModePlain
)

// DetectEnvironment returns the recommended output mode based on the environment.
// It checks if stdout is a TTY and if CI environment variables are set.
func DetectEnvironment() OutputMode {
	return detect(term.IsTerminal(int(os.Stdout.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) OutputMode {
	if ci == "true" || ci == "1" {
		return ModeCI
	}
	if !isTTY {
		return ModePlain
	}
	return ModeColor
}

// ResolveMode applies the user's --color flag to auto-detection.
// userFlag should be one of: "auto", "always", "ci", "never", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "always":
		return ModeColor
	case "ci":
		return ModeCI
	case "never":
		return ModePlain
	default:
		return autoDetected
	}
}

// Interactive reports whether the interactive build view is used.
// userFlag should be one of: "auto", "tui", "linear", or empty.
func Interactive(autoDetected OutputMode, userFlag string) bool {
	switch userFlag {
	case "tui":
		return true
	case "linear":
		return false
	default:
		return autoDetected == ModeColor
	}
}

// Profile returns the termenv color profile for a mode.
func Profile(mode OutputMode) termenv.Profile {
	switch mode {
	case ModeColor:
		return output.ColorProfile()
	case ModeCI:
		return output.ColorProfileANSI()
	case ModePlain:
		return termenv.Ascii
	default:
		return Profile(DetectEnvironment())
	}
}
