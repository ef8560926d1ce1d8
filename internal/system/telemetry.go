package system

import (
	"time"

	coresys "github.com/bgres/server/internal/core/system"
	"github.com/bgres/server/internal/core/warp"
	"github.com/bgres/server/internal/telemetry"
	"github.com/bgres/server/internal/world"
	"go.uber.org/zap"
)

// TelemetrySystem samples pool totals and dispatch counts every N ticks.
// Phase 3 (Output).
type TelemetrySystem struct {
	world      *world.State
	clock      *warp.Clock
	background *BackgroundSystem
	out        *telemetry.Writer
	log        *zap.Logger
	tickCount  int
	interval   int
}

func NewTelemetrySystem(ws *world.State, clock *warp.Clock, bg *BackgroundSystem, out *telemetry.Writer, log *zap.Logger, intervalTicks int) *TelemetrySystem {
	return &TelemetrySystem{
		world:      ws,
		clock:      clock,
		background: bg,
		out:        out,
		log:        log,
		interval:   intervalTicks,
	}
}

func (s *TelemetrySystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *TelemetrySystem) Update(_ time.Duration) {
	if s.out == nil {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Sample()
}

// Sample writes one set of rows immediately.
func (s *TelemetrySystem) Sample() {
	tick, ut := s.clock.Tick(), s.clock.Now()

	pools := telemetry.CollectPools(s.world, tick, ut, s.clock.RateIndex())
	if err := s.out.WritePools(pools); err != nil {
		s.log.Error("telemetry write failed", zap.Error(err))
		return
	}
	if s.background == nil {
		return
	}
	st := s.background.LastStats()
	if err := s.out.WriteDispatch(telemetry.DispatchRecord{
		Tick:     tick,
		UT:       ut,
		Vessels:  st.Vessels,
		Skipped:  st.Skipped,
		Handlers: st.Handlers,
		Denied:   st.Denied,
		Faults:   st.Faults,
	}); err != nil {
		s.log.Error("telemetry write failed", zap.Error(err))
	}
}
