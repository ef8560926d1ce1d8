package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bgres/server/internal/resource"
	"github.com/bgres/server/internal/world"
	"github.com/gocarina/gocsv"
)

// PoolRecord is one pool of one background vessel at a sample tick.
type PoolRecord struct {
	Tick      uint64  `csv:"tick"`
	UT        float64 `csv:"ut"`
	RateIndex int     `csv:"rate_index"`
	Vessel    string  `csv:"vessel"`
	Name      string  `csv:"name"`
	Resource  string  `csv:"resource"`
	Amount    float64 `csv:"amount"`
	Capacity  float64 `csv:"capacity"`
	Overflow  float64 `csv:"overflow"`
}

// DispatchRecord summarises one background dispatch pass.
type DispatchRecord struct {
	Tick     uint64  `csv:"tick"`
	UT       float64 `csv:"ut"`
	Vessels  int     `csv:"vessels"`
	Skipped  int     `csv:"skipped"`
	Handlers int     `csv:"handlers"`
	Denied   int     `csv:"denied"`
	Faults   int     `csv:"faults"`
}

// Writer appends telemetry rows as CSV. A nil *Writer discards everything.
type Writer struct {
	pools    io.Writer
	dispatch io.Writer
	closers  []io.Closer

	poolHeaderWritten     bool
	dispatchHeaderWritten bool
}

// NewWriter writes to the given sinks. Either may be nil to skip that file.
func NewWriter(pools, dispatch io.Writer) *Writer {
	return &Writer{pools: pools, dispatch: dispatch}
}

// NewFileWriter creates pools.csv and dispatch.csv under dir.
// Returns nil if dir is empty (output disabled).
func NewFileWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}

	pf, err := os.Create(filepath.Join(dir, "pools.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating pools.csv: %w", err)
	}
	df, err := os.Create(filepath.Join(dir, "dispatch.csv"))
	if err != nil {
		pf.Close()
		return nil, fmt.Errorf("creating dispatch.csv: %w", err)
	}

	w := NewWriter(pf, df)
	w.closers = []io.Closer{pf, df}
	return w, nil
}

func (w *Writer) WritePools(records []PoolRecord) error {
	if w == nil || w.pools == nil || len(records) == 0 {
		return nil
	}
	if !w.poolHeaderWritten {
		if err := gocsv.Marshal(records, w.pools); err != nil {
			return fmt.Errorf("writing pools: %w", err)
		}
		w.poolHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.pools); err != nil {
		return fmt.Errorf("writing pools: %w", err)
	}
	return nil
}

func (w *Writer) WriteDispatch(rec DispatchRecord) error {
	if w == nil || w.dispatch == nil {
		return nil
	}
	records := []DispatchRecord{rec}
	if !w.dispatchHeaderWritten {
		if err := gocsv.Marshal(records, w.dispatch); err != nil {
			return fmt.Errorf("writing dispatch: %w", err)
		}
		w.dispatchHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.dispatch); err != nil {
		return fmt.Errorf("writing dispatch: %w", err)
	}
	return nil
}

// Close closes files opened by NewFileWriter.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	w.closers = nil
	return first
}

// CollectPools samples every unloaded vessel in registration order.
func CollectPools(state *world.State, tick uint64, ut float64, rateIndex int) []PoolRecord {
	var out []PoolRecord
	state.AllVessels(func(v *world.Vessel) {
		if v.Loaded() {
			return
		}
		vid := v.ID().String()
		v.EachPool(func(p *resource.Pool) {
			out = append(out, PoolRecord{
				Tick:      tick,
				UT:        ut,
				RateIndex: rateIndex,
				Vessel:    vid,
				Name:      v.Name(),
				Resource:  p.Resource(),
				Amount:    p.Amount(),
				Capacity:  p.Capacity(),
				Overflow:  p.Overflow().Total(),
			})
		})
	})
	return out
}
