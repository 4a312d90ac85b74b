package linear

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/rybuild/internal/adapters/detector"
)

// ColorEnv overrides color detection: auto, always, ci or never.
const ColorEnv = "RYBUILD_COLOR"

// NodeID is the unique identifier for the line renderer Graft node.
const NodeID graft.ID = "adapter.renderer.linear"

func init() {
	graft.Register(graft.Node[*Renderer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Renderer, error) {
			mode := detector.ResolveMode(detector.DetectEnvironment(), os.Getenv(ColorEnv))
			return NewRenderer(nil, nil, detector.Profile(mode)), nil
		},
	})
}
