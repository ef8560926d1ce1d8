package handler

import (
	"fmt"
	"math"

	"github.com/bgres/server/internal/data"
	"github.com/bgres/server/internal/scripting"
)

const deployExtended = "EXTENDED"

// SolarPanel pushes ElectricCharge while its vessel is in sunlight.
type SolarPanel struct {
	base
	chargeRate     float64
	efficiencyMult float64
	extended       bool
	def            *data.SolarDef
}

func newSolarPanel(env *Env, owner Owner, part PartInfo, def *data.PartDef, m Module) (*SolarPanel, error) {
	sp := &SolarPanel{base: base{env: env, owner: owner, part: part}, def: &data.SolarDef{}}
	if def != nil && def.Solar != nil {
		sp.def = def.Solar
	}
	var err error
	if sp.chargeRate, err = m.Float("chargeRate", sp.def.ChargeRate); err != nil {
		return nil, err
	}
	if sp.efficiencyMult, err = m.Float("efficiencyMult", 1); err != nil {
		return nil, err
	}
	if sp.chargeRate < 0 {
		return nil, fmt.Errorf("%s.chargeRate=%g: %w", m.Name, sp.chargeRate, ErrBadParameter)
	}
	sp.extended = m.Text("deployState", "RETRACTED") == deployExtended
	return sp, nil
}

func (sp *SolarPanel) Kind() Kind   { return KindSolarPanel }
func (sp *SolarPanel) Class() Class { return Producer }

// Output is the charge produced this tick.
func (sp *SolarPanel) Output() float64 {
	if !sp.extended || sp.chargeRate == 0 {
		return 0
	}
	sky := sp.env.illumination(sp.owner)
	orientation := math.Max(sky.Orientation, 0)
	if sp.def.SunTracking {
		orientation = 1
	}
	multiplier := sky.Flux
	if sp.def.UsesCurve {
		multiplier = sp.def.PowerCurve.Evaluate(sky.SunAltitude)
	}
	ctx := scripting.SolarContext{
		ChargeRate:  sp.chargeRate * sp.efficiencyMult,
		Orientation: orientation,
		TempFactor:  sp.def.TempCurve.Evaluate(sp.part.Temperature),
		Multiplier:  multiplier,
		InSunlight:  sky.InSunlight,
		Delta:       sp.env.Clock.Delta(),
		UT:          sp.env.Clock.Now(),
	}
	if sp.env.Lua != nil {
		if out, ok := sp.env.Lua.CalcSolarOutput(ctx); ok {
			return math.Max(out, 0)
		}
	}
	if !ctx.InSunlight {
		return 0
	}
	return math.Max(ctx.ChargeRate*ctx.Orientation*ctx.TempFactor*ctx.Multiplier, 0) * ctx.Delta
}

func (sp *SolarPanel) Process() {
	if out := sp.Output(); out > 0 {
		sp.owner.Push(ElectricCharge, out)
	}
}
