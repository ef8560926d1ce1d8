package system

import (
	"context"
	"time"

	coresys "github.com/bgres/server/internal/core/system"
	"github.com/bgres/server/internal/world"
	"go.uber.org/zap"
)

// VesselSaver stores vessel cache snapshots. persist.VesselRepo implements it.
type VesselSaver interface {
	SaveVessels(ctx context.Context, snaps []world.VesselSnapshot) error
}

// JournalFlusher writes queued journal entries. persist.JournalRepo
// implements it.
type JournalFlusher interface {
	Flush(ctx context.Context) (int, error)
}

// PersistenceSystem periodically saves every vessel cache and flushes the
// event journal. Phase 4 (Persist).
type PersistenceSystem struct {
	world     *world.State
	vessels   VesselSaver
	journal   JournalFlusher
	log       *zap.Logger
	tickCount int
	interval  int // save every N ticks
}

func NewPersistenceSystem(ws *world.State, vessels VesselSaver, journal JournalFlusher, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		world:    ws,
		vessels:  vessels,
		journal:  journal,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Flush saves immediately. Called on graceful shutdown.
func (s *PersistenceSystem) Flush() {
	if s.vessels != nil {
		snaps := s.world.Snapshot()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.vessels.SaveVessels(ctx, snaps)
		cancel()
		if err != nil {
			s.log.Error("vessel cache save failed", zap.Int("vessels", len(snaps)), zap.Error(err))
		} else if len(snaps) > 0 {
			s.log.Debug("vessel caches saved", zap.Int("vessels", len(snaps)))
		}
	}

	if s.journal != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		n, err := s.journal.Flush(ctx)
		cancel()
		if err != nil {
			s.log.Error("event journal flush failed", zap.Error(err))
			return
		}
		if n > 0 {
			s.log.Debug("event journal flushed", zap.Int("entries", n))
		}
	}
}
