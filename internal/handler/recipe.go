package handler

import "github.com/bgres/server/internal/data"

// IntakeAir is never stored; an oxygen atmosphere supplies it.
const IntakeAir = "IntakeAir"

// runRecipe takes every input for one tick or none of them, then pushes the
// outputs. Returns false when an input was missing.
func runRecipe(b *base, kind Kind, inputs, outputs []data.ResourceRate) bool {
	dt := b.env.Clock.Delta()
	for _, in := range inputs {
		if in.Name == IntakeAir {
			if !b.env.illumination(b.owner).OxygenAtmosphere {
				return false
			}
			continue
		}
		need := in.Rate * dt
		if have := b.owner.Available(in.Name); have+1e-9 < need {
			b.env.shortfall(b.owner, b.part, kind, in.Name, need, have)
			return false
		}
	}
	for _, in := range inputs {
		if in.Name == IntakeAir {
			continue
		}
		b.env.take(b.owner, b.part, kind, in.Name, in.Rate*dt)
	}
	for _, out := range outputs {
		b.owner.Push(out.Name, out.Rate*dt)
	}
	return true
}
