package warp

import "fmt"

// DefaultRates mirrors the host's time-acceleration ladder.
var DefaultRates = []float64{1, 5, 10, 50, 100, 1000, 10000, 100000}

// Clock is the ambient simulation time as seen by the background engine.
// The host scheduler advances it once per logical tick.
// Accessed only from the tick loop goroutine.
type Clock struct {
	rates      []float64
	threshold  int
	fixedDelta float64

	rateIndex int
	now       float64 // universal time, seconds
	delta     float64 // simulated seconds covered by the last tick
	tick      uint64
}

// New creates a clock. fixedDelta is the simulated length of one tick at 1x.
func New(rates []float64, threshold int, fixedDelta float64) (*Clock, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("warp: empty rate ladder")
	}
	if threshold < 0 || threshold >= len(rates) {
		return nil, fmt.Errorf("warp: threshold index %d outside ladder of %d", threshold, len(rates))
	}
	if fixedDelta <= 0 {
		return nil, fmt.Errorf("warp: fixed delta must be positive, got %v", fixedDelta)
	}
	r := make([]float64, len(rates))
	copy(r, rates)
	return &Clock{rates: r, threshold: threshold, fixedDelta: fixedDelta}, nil
}

// Advance moves universal time forward by one tick at the current rate.
func (c *Clock) Advance() {
	c.delta = c.fixedDelta * c.rates[c.rateIndex]
	c.now += c.delta
	c.tick++
}

// SetRateIndex selects a rung of the ladder, clamped to the valid range.
func (c *Clock) SetRateIndex(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(c.rates) {
		i = len(c.rates) - 1
	}
	c.rateIndex = i
}

// SetNow rewinds or fast-forwards universal time (save load).
func (c *Clock) SetNow(ut float64) { c.now = ut }

func (c *Clock) Now() float64   { return c.now }
func (c *Clock) Delta() float64 { return c.delta }
func (c *Clock) RateIndex() int { return c.rateIndex }
func (c *Clock) Threshold() int { return c.threshold }
func (c *Clock) Rate() float64  { return c.rates[c.rateIndex] }
func (c *Clock) Tick() uint64   { return c.tick }

// Buffering reports whether time is compressed enough for overflow credit.
func (c *Clock) Buffering() bool { return c.rateIndex > c.threshold }
