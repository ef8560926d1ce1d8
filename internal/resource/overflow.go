package resource

import "math"

// OverflowWindowTicks is how many tick widths of credit survive a refresh.
const OverflowWindowTicks = 4

// usable reports whether amount is a positive finite request.
func usable(amount float64) bool { return amount > 0 && !math.IsInf(amount, 1) }

type overflowEntry struct {
	at     float64
	amount float64
}

// OverflowBuffer holds pushed resource that had nowhere to go while time
// was compressed. Entries are kept oldest first.
type OverflowBuffer struct {
	entries   []overflowEntry
	total     float64
	threshold int
}

// NewOverflowBuffer creates a buffer that only holds credit while the rate
// index is above threshold.
func NewOverflowBuffer(threshold int) *OverflowBuffer {
	return &OverflowBuffer{threshold: threshold}
}

func (b *OverflowBuffer) Total() float64 { return b.total }
func (b *OverflowBuffer) Len() int       { return len(b.entries) }

// Add appends credit stamped with now.
func (b *OverflowBuffer) Add(amount, now float64) {
	if !usable(amount) {
		return
	}
	b.entries = append(b.entries, overflowEntry{at: now, amount: amount})
	b.total += amount
}

// Take drains up to amount, oldest entries first, and returns what it got.
func (b *OverflowBuffer) Take(amount float64) float64 {
	if !usable(amount) || len(b.entries) == 0 {
		return 0
	}
	taken := 0.0
	used := 0
	for used < len(b.entries) && amount > 0 {
		e := &b.entries[used]
		if e.amount <= amount {
			taken += e.amount
			amount -= e.amount
			used++
			continue
		}
		e.amount -= amount
		taken += amount
		amount = 0
	}
	b.entries = b.entries[:copy(b.entries, b.entries[used:])]
	b.total -= taken
	if len(b.entries) == 0 || b.total < 0 {
		b.total = b.sum()
	}
	return taken
}

// Refresh settles the ledger for this tick. Below or at the threshold all
// credit is dropped; above it only entries older than the window expire.
func (b *OverflowBuffer) Refresh(now float64, rateIndex int, tickWidth float64) {
	if rateIndex <= b.threshold {
		b.Clear()
		return
	}
	cutoff := now - OverflowWindowTicks*tickWidth
	kept := b.entries[:0]
	for _, e := range b.entries {
		if e.at >= cutoff {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(b.entries) {
		return
	}
	b.entries = kept
	b.total = b.sum()
}

// Clear drops every entry.
func (b *OverflowBuffer) Clear() {
	b.entries = b.entries[:0]
	b.total = 0
}

func (b *OverflowBuffer) sum() float64 {
	s := 0.0
	for _, e := range b.entries {
		s += e.amount
	}
	return s
}
