package system

import (
	"time"

	"github.com/bgres/server/internal/core/event"
	coresys "github.com/bgres/server/internal/core/system"
	"github.com/bgres/server/internal/world"
	"go.uber.org/zap"
)

// CleanupSystem unregisters vessels marked for eviction during the tick.
// Phase 5 (Cleanup).
type CleanupSystem struct {
	world *world.State
	bus   *event.Bus
	log   *zap.Logger
}

func NewCleanupSystem(ws *world.State, bus *event.Bus, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: ws, bus: bus, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	for _, v := range s.world.FlushEvictions() {
		s.log.Info("vessel evicted",
			zap.String("vessel", v.ID().String()),
			zap.String("name", v.Name()))
		if s.bus != nil {
			event.Emit(s.bus, event.VesselEvicted{Vessel: v.ID(), Name: v.Name()})
		}
	}
}
