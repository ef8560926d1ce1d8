package handler

import (
	"fmt"

	"github.com/bgres/server/internal/core/event"
	"github.com/bgres/server/internal/data"
)

const (
	defaultDeathRoll   = 240.0 // seconds
	freezerGrantFactor = 0.99
)

// Freezer keeps frozen crew alive on ElectricCharge. Demand accrues per
// second of universal time since power was last delivered.
type Freezer struct {
	base
	crew            int
	chargePerMinute float64
	deathRoll       float64

	lastPower    float64
	deathCounter float64
	warned       bool
	outOfPower   bool
}

func newFreezer(env *Env, owner Owner, part PartInfo, def *data.PartDef, m Module) (*Freezer, error) {
	chargePerMinute, deathRoll := 0.0, defaultDeathRoll
	if def != nil && def.Freezer != nil {
		chargePerMinute = def.Freezer.ChargePerMinute
		if def.Freezer.DeathRoll > 0 {
			deathRoll = def.Freezer.DeathRoll
		}
	}
	crew, err := m.Int("numFrozenCrew", 0)
	if err != nil {
		return nil, err
	}
	if crew < 0 {
		return nil, fmt.Errorf("%s.numFrozenCrew=%d: %w", m.Name, crew, ErrBadParameter)
	}
	now := env.Clock.Now()
	last, err := m.Float("timeLastElectricity", now)
	if err != nil {
		return nil, err
	}
	f := &Freezer{
		base:            base{env: env, owner: owner, part: part},
		crew:            crew,
		chargePerMinute: chargePerMinute,
		deathRoll:       deathRoll,
		lastPower:       last,
		deathCounter:    last,
	}
	if f.chargePerMinute, err = m.Float("ChargeRequired", f.chargePerMinute); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Freezer) Kind() Kind   { return KindFreezer }
func (f *Freezer) Class() Class { return Consumer }

func (f *Freezer) OutOfPower() bool { return f.outOfPower }

func (f *Freezer) Process() {
	if f.crew == 0 || f.chargePerMinute <= 0 {
		return
	}
	now := f.env.Clock.Now()
	period := now - f.lastPower
	if period < 1 {
		return
	}
	need := f.chargePerMinute / 60 * period * float64(f.crew)
	got := f.env.take(f.owner, f.part, KindFreezer, ElectricCharge, need)
	if got >= need*freezerGrantFactor {
		f.lastPower = now
		f.deathCounter = now
		f.warned = false
		f.outOfPower = false
		return
	}

	if !f.warned {
		f.warned = true
		f.deathCounter = now
		if f.env.Bus != nil {
			event.Emit(f.env.Bus, event.FreezerPowerLow{
				Vessel: f.owner.ID(), Part: f.part.ID, Crew: f.crew, UT: now,
			})
		}
	}
	f.outOfPower = true
	if now-f.deathCounter > f.deathRoll {
		f.deathCounter = now
		if f.env.Bus != nil {
			event.Emit(f.env.Bus, event.FreezerCritical{
				Vessel: f.owner.ID(), Part: f.part.ID, Crew: f.crew, Outage: now - f.lastPower, UT: now,
			})
		}
	}
}
