package builder

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rybuild/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rybuild/internal/adapters/config"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rybuild/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rybuild/internal/adapters/gcc"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rybuild/internal/adapters/generator"          //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rybuild/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rybuild/internal/adapters/telemetry"          //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rybuild/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rybuild/internal/adapters/tui"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rybuild/internal/core/ports"
)

// NodeID is the unique identifier for the build orchestrator Graft node.
const NodeID graft.ID = "engine.builder"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			gcc.NodeID,
			generator.NodeID,
			fs.ScannerNodeID,
			cas.NodeID,
			fs.HasherNodeID,
			tui.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			progrock.NodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (*Orchestrator, error) {
	loader, err := graft.Dep[ports.ModuleLoader](ctx)
	if err != nil {
		return nil, err
	}

	toolchain, err := graft.Dep[ports.Toolchain](ctx)
	if err != nil {
		return nil, err
	}

	gen, err := graft.Dep[ports.Generator](ctx)
	if err != nil {
		return nil, err
	}

	files, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.BuildInfoStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, toolchain, gen, files, store, hasher, renderer, log, tracer, recorder), nil
}
