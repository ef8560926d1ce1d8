package data

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Curve is a piecewise linear float curve (altitude → power multiplier,
// temperature → efficiency). Outside the key range it holds the end value.
type Curve struct {
	pl       interp.PiecewiseLinear
	constant float64
	single   bool
}

// NewCurve fits keys given as (x, y) pairs. Keys may arrive unsorted but x
// values must be distinct.
func NewCurve(keys [][2]float64) (*Curve, error) {
	switch len(keys) {
	case 0:
		return nil, fmt.Errorf("curve needs at least one key")
	case 1:
		return &Curve{constant: keys[0][1], single: true}, nil
	}
	sorted := make([][2]float64, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i][0] < sorted[j][0] })

	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, k := range sorted {
		if i > 0 && k[0] <= xs[i-1] {
			return nil, fmt.Errorf("curve key x=%g repeated", k[0])
		}
		xs[i], ys[i] = k[0], k[1]
	}
	c := &Curve{}
	if err := c.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fit curve: %w", err)
	}
	return c, nil
}

// Evaluate returns the curve value at x. A nil curve is the neutral 1.
func (c *Curve) Evaluate(x float64) float64 {
	if c == nil {
		return 1
	}
	if c.single {
		return c.constant
	}
	return c.pl.Predict(x)
}
