package system

import (
	"fmt"
	"time"

	"github.com/bgres/server/internal/core/event"
	coresys "github.com/bgres/server/internal/core/system"
	"github.com/bgres/server/internal/handler"
	"github.com/bgres/server/internal/resource"
	"github.com/bgres/server/internal/world"
	"go.uber.org/zap"
)

// DispatchStats counts what one dispatch pass did.
type DispatchStats struct {
	Vessels  int // vessels whose handlers ran
	Skipped  int // empty or loaded vessels
	Handlers int // handlers that ran to completion
	Denied   int // handlers blocked by the policy gate
	Faults   int // handlers that panicked
}

// BackgroundSystem runs every unloaded vessel's handlers once per tick.
// Phase 2 (Dispatch).
type BackgroundSystem struct {
	world  *world.State
	clock  handler.Clock
	bus    *event.Bus
	policy handler.Policy
	log    *zap.Logger
	last   DispatchStats
}

func NewBackgroundSystem(ws *world.State, clock handler.Clock, bus *event.Bus, policy handler.Policy, log *zap.Logger) *BackgroundSystem {
	return &BackgroundSystem{world: ws, clock: clock, bus: bus, policy: policy, log: log}
}

func (s *BackgroundSystem) Phase() coresys.Phase { return coresys.PhaseDispatch }

func (s *BackgroundSystem) Update(_ time.Duration) {
	s.last = s.Dispatch()
}

// Policy returns the switches read by the next dispatch.
func (s *BackgroundSystem) Policy() handler.Policy { return s.policy }

// SetPolicy replaces the global switches; takes effect on the next dispatch.
func (s *BackgroundSystem) SetPolicy(p handler.Policy) { s.policy = p }

// LastStats returns the result of the most recent Update.
func (s *BackgroundSystem) LastStats() DispatchStats { return s.last }

// Dispatch performs one pass over all registered vessels.
func (s *BackgroundSystem) Dispatch() DispatchStats {
	var st DispatchStats
	if !s.policy.Enabled {
		return st
	}
	policy := s.policy
	now := s.clock.Now()

	s.world.AllVessels(func(v *world.Vessel) {
		if v.HandlerCount() == 0 {
			st.Skipped++
			return
		}
		if v.Loaded() {
			// Loaded vessels belong to the host simulation.
			v.ClearOverflow()
			st.Skipped++
			return
		}

		v.EachPool(func(p *resource.Pool) { p.RefreshOverflow() })

		for _, h := range v.Handlers() {
			if !policy.Allows(h.Class()) {
				st.Denied++
				continue
			}
			if err := s.safeProcess(v, h, now); err != nil {
				st.Faults++
				continue
			}
			st.Handlers++
		}
		v.MarkRefreshed(now)
		st.Vessels++
	})
	return st
}

// safeProcess runs one handler with panic recovery so a single bad handler
// cannot stop the rest of the pass.
func (s *BackgroundSystem) safeProcess(v *world.Vessel, h handler.Handler, now float64) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("handler panic recovered",
				zap.String("vessel", v.ID().String()),
				zap.Uint32("part", uint32(h.Part())),
				zap.String("kind", h.Kind().String()),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler %s on part %d panicked: %v", h.Kind(), h.Part(), rec)
			if s.bus != nil {
				event.Emit(s.bus, event.HandlerFault{
					Vessel: v.ID(),
					Part:   h.Part(),
					Kind:   h.Kind().String(),
					Reason: fmt.Sprint(rec),
					UT:     now,
				})
			}
		}
	}()
	h.Process()
	return nil
}
