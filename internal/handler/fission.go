package handler

import "fmt"

// FissionGenerator pushes its saved generation rate as ElectricCharge.
type FissionGenerator struct {
	base
	enabled bool
	rate    float64
}

func newFissionGenerator(env *Env, owner Owner, part PartInfo, m Module) (*FissionGenerator, error) {
	enabled, err := m.Bool("isEnabled", false)
	if err != nil {
		return nil, err
	}
	rate, err := m.Float("CurrentGeneration", 0)
	if err != nil {
		return nil, err
	}
	if rate < 0 {
		return nil, fmt.Errorf("%s.CurrentGeneration=%g: %w", m.Name, rate, ErrBadParameter)
	}
	return &FissionGenerator{
		base:    base{env: env, owner: owner, part: part},
		enabled: enabled,
		rate:    rate,
	}, nil
}

func (f *FissionGenerator) Kind() Kind   { return KindFissionGenerator }
func (f *FissionGenerator) Class() Class { return Producer }

func (f *FissionGenerator) Process() {
	if !f.enabled || f.rate == 0 {
		return
	}
	f.owner.Push(ElectricCharge, f.rate*f.env.Clock.Delta())
}
