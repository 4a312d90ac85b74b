// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rybuild/internal/adapters/cas"
	_ "go.trai.ch/rybuild/internal/adapters/config"
	_ "go.trai.ch/rybuild/internal/adapters/fs"
	_ "go.trai.ch/rybuild/internal/adapters/gcc"
	_ "go.trai.ch/rybuild/internal/adapters/generator"
	_ "go.trai.ch/rybuild/internal/adapters/linear"
	_ "go.trai.ch/rybuild/internal/adapters/logger"
	_ "go.trai.ch/rybuild/internal/adapters/shell"
	_ "go.trai.ch/rybuild/internal/adapters/telemetry"
	_ "go.trai.ch/rybuild/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/rybuild/internal/adapters/tui"
	_ "go.trai.ch/rybuild/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/rybuild/internal/app"
	_ "go.trai.ch/rybuild/internal/engine/builder"
)
