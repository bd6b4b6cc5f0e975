package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rtcdeps/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rtcdeps/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rtcdeps/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rtcdeps/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rtcdeps/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.VerifierNodeID,
			cas.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.RecordStore](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(verifier, store, tracer, log), nil
		},
	})
}
