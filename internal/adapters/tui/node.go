package tui

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rybuild/internal/adapters/linear" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/rybuild/internal/core/ports"
)

// NodeID is the unique identifier for the renderer Graft node.
const NodeID graft.ID = "adapter.renderer"

func init() {
	graft.Register(graft.Node[ports.Renderer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{linear.NodeID},
		Run: func(ctx context.Context) (ports.Renderer, error) {
			lines, err := graft.Dep[*linear.Renderer](ctx)
			if err != nil {
				return nil, err
			}
			return NewSelector(lines), nil
		},
	})
}
