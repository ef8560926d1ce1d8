package persist

import (
	"context"
	"fmt"

	"github.com/bgres/server/internal/core/event"
	"github.com/bgres/server/internal/core/ids"
)

// Journal entry kinds.
const (
	JournalShortfall      = "shortfall"
	JournalHandlerFault   = "handler_fault"
	JournalFreezerLow     = "freezer_power_low"
	JournalFreezerCrit    = "freezer_critical"
	JournalVesselEvicted  = "vessel_evicted"
	maxPendingJournalRows = 10000
)

// JournalEntry is one row of the background event journal.
type JournalEntry struct {
	Kind     string
	Vessel   ids.VesselID
	Part     ids.PartID
	Resource string
	Amount   float64
	Detail   string
	UT       float64
}

type JournalRepo struct {
	db      *DB
	pending []JournalEntry
	dropped int
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// Subscribe records every background event published on bus until the next
// Flush.
func (r *JournalRepo) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(e event.ResourceShortfall) { r.Record(ShortfallEntry(e)) })
	event.Subscribe(bus, func(e event.HandlerFault) { r.Record(FaultEntry(e)) })
	event.Subscribe(bus, func(e event.FreezerPowerLow) { r.Record(FreezerLowEntry(e)) })
	event.Subscribe(bus, func(e event.FreezerCritical) { r.Record(FreezerCriticalEntry(e)) })
	event.Subscribe(bus, func(e event.VesselEvicted) { r.Record(EvictedEntry(e)) })
}

// Record queues one entry. When the queue is full the oldest entry is dropped.
func (r *JournalRepo) Record(e JournalEntry) {
	if len(r.pending) >= maxPendingJournalRows {
		copy(r.pending, r.pending[1:])
		r.pending = r.pending[:len(r.pending)-1]
		r.dropped++
	}
	r.pending = append(r.pending, e)
}

// Pending returns the number of queued entries.
func (r *JournalRepo) Pending() int { return len(r.pending) }

// Dropped returns how many entries were discarded because the queue was full.
func (r *JournalRepo) Dropped() int { return r.dropped }

// Flush writes queued entries in a single transaction. On failure the queue
// is kept for the next attempt.
func (r *JournalRepo) Flush(ctx context.Context) (int, error) {
	if len(r.pending) == 0 {
		return 0, nil
	}
	if err := r.Write(ctx, r.pending); err != nil {
		return 0, err
	}
	n := len(r.pending)
	r.pending = r.pending[:0]
	return n, nil
}

// Write atomically inserts a batch of journal entries.
func (r *JournalRepo) Write(ctx context.Context, entries []JournalEntry) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO event_journal (kind, vessel_id, part_id, resource, amount, detail, ut)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.Kind, e.Vessel.UUID(), int64(e.Part), e.Resource, e.Amount, e.Detail, e.UT,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func ShortfallEntry(e event.ResourceShortfall) JournalEntry {
	return JournalEntry{
		Kind:     JournalShortfall,
		Vessel:   e.Vessel,
		Part:     e.Part,
		Resource: e.Resource,
		Amount:   e.Requested - e.Received,
		Detail:   fmt.Sprintf("%s requested %.6g received %.6g", e.Kind, e.Requested, e.Received),
		UT:       e.UT,
	}
}

func FaultEntry(e event.HandlerFault) JournalEntry {
	return JournalEntry{
		Kind:   JournalHandlerFault,
		Vessel: e.Vessel,
		Part:   e.Part,
		Detail: e.Kind + ": " + e.Reason,
		UT:     e.UT,
	}
}

func FreezerLowEntry(e event.FreezerPowerLow) JournalEntry {
	return JournalEntry{
		Kind:   JournalFreezerLow,
		Vessel: e.Vessel,
		Part:   e.Part,
		Amount: float64(e.Crew),
		UT:     e.UT,
	}
}

func FreezerCriticalEntry(e event.FreezerCritical) JournalEntry {
	return JournalEntry{
		Kind:   JournalFreezerCrit,
		Vessel: e.Vessel,
		Part:   e.Part,
		Amount: float64(e.Crew),
		Detail: fmt.Sprintf("outage %.1fs", e.Outage),
		UT:     e.UT,
	}
}

// EvictedEntry has no UT; eviction happens outside simulation time.
func EvictedEntry(e event.VesselEvicted) JournalEntry {
	return JournalEntry{
		Kind:   JournalVesselEvicted,
		Vessel: e.Vessel,
		Detail: e.Name,
	}
}
