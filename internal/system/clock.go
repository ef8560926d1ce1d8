package system

import (
	"time"

	coresys "github.com/bgres/server/internal/core/system"
	"github.com/bgres/server/internal/core/warp"
	"go.uber.org/zap"
)

// WarpSchedule stands in for the host scheduler's time-warp control.
type WarpSchedule interface {
	RateIndexAt(tick uint64) (int, bool)
}

// ClockSystem advances universal time by one tick. Phase 0 (Clock).
type ClockSystem struct {
	clock    *warp.Clock
	schedule WarpSchedule
	log      *zap.Logger
}

func NewClockSystem(clock *warp.Clock, schedule WarpSchedule, log *zap.Logger) *ClockSystem {
	return &ClockSystem{clock: clock, schedule: schedule, log: log}
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhaseClock }

// Update applies any warp step scheduled for this tick, then advances.
// Step ticks count from zero, so a step at tick 0 applies to the first tick.
func (s *ClockSystem) Update(_ time.Duration) {
	if s.schedule != nil {
		if idx, ok := s.schedule.RateIndexAt(s.clock.Tick()); ok && idx != s.clock.RateIndex() {
			s.clock.SetRateIndex(idx)
			s.log.Info("time warp changed",
				zap.Uint64("tick", s.clock.Tick()),
				zap.Int("rate_index", s.clock.RateIndex()),
				zap.Float64("rate", s.clock.Rate()),
				zap.Bool("buffering", s.clock.Buffering()))
		}
	}
	s.clock.Advance()
}
