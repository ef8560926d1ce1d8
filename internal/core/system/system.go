package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseClock    Phase = iota // 0: advance universal time and warp rate
	PhaseEvents                // 1: deliver last tick's events
	PhaseDispatch              // 2: background handlers
	PhaseOutput                // 3: telemetry
	PhasePersist               // 4: cache snapshots + journal flush
	PhaseCleanup               // 5: deferred vessel eviction
)

func (p Phase) String() string {
	switch p {
	case PhaseClock:
		return "clock"
	case PhaseEvents:
		return "events"
	case PhaseDispatch:
		return "dispatch"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
