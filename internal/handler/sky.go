package handler

import "github.com/bgres/server/internal/core/ids"

// Illumination is what the external orbit model reports for a vessel.
type Illumination struct {
	InSunlight       bool
	Flux             float64 // fraction of home solar flux
	Orientation      float64 // cosine of panel-to-sun angle, may be negative
	SunAltitude      float64 // metres above the sun's surface
	OxygenAtmosphere bool    // inside an atmosphere with oxygen and static pressure
}

// Sky answers illumination queries. Orbit geometry lives outside this service.
type Sky interface {
	Illumination(vessel ids.VesselID) Illumination
}

// StaticSky is a fixed per-vessel illumination table. Unknown vessels are dark.
type StaticSky map[ids.VesselID]Illumination

func (s StaticSky) Illumination(vessel ids.VesselID) Illumination { return s[vessel] }
