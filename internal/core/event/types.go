package event

import "github.com/bgres/server/internal/core/ids"

// ResourceShortfall is raised when a take or push returns less than asked.
// Shortfalls are normal outcomes, not errors.
type ResourceShortfall struct {
	Vessel    ids.VesselID
	Part      ids.PartID
	Kind      string
	Resource  string
	Requested float64
	Received  float64
	UT        float64
}

// HandlerFault is raised when a handler panics during dispatch.
type HandlerFault struct {
	Vessel ids.VesselID
	Part   ids.PartID
	Kind   string
	Reason string
	UT     float64
}

// FreezerPowerLow fires once per outage of a cryogenic freezer.
type FreezerPowerLow struct {
	Vessel ids.VesselID
	Part   ids.PartID
	Crew   int
	UT     float64
}

// FreezerCritical fires every dispatch once an outage outlasts the death roll.
type FreezerCritical struct {
	Vessel ids.VesselID
	Part   ids.PartID
	Crew   int
	Outage float64
	UT     float64
}

type VesselEvicted struct {
	Vessel ids.VesselID
	Name   string
}
