package system

import (
	"fmt"
	"time"
)

const phaseCount = int(PhaseCleanup) + 1

// Runner executes systems phase by phase each tick. Systems sharing a
// phase run in registration order.
type Runner struct {
	phases [phaseCount][]System
	ticks  uint64
}

func NewRunner() *Runner {
	return &Runner{}
}

// Register adds a system to its phase. It panics on a phase outside the
// tick order, which is a wiring bug.
func (r *Runner) Register(s System) {
	p := s.Phase()
	if p < PhaseClock || int(p) >= phaseCount {
		panic(fmt.Sprintf("system: register %T with unknown phase %d", s, int(p)))
	}
	r.phases[p] = append(r.phases[p], s)
}

// Tick runs one full pass: Clock, Events, Dispatch, Output, Persist, Cleanup.
func (r *Runner) Tick(dt time.Duration) {
	for _, systems := range r.phases {
		for _, s := range systems {
			s.Update(dt)
		}
	}
	r.ticks++
}

// Ticks returns how many passes have completed.
func (r *Runner) Ticks() uint64 { return r.ticks }

// Len returns the number of registered systems.
func (r *Runner) Len() int {
	n := 0
	for _, systems := range r.phases {
		n += len(systems)
	}
	return n
}
