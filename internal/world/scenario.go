package world

import (
	"github.com/bgres/server/internal/core/ids"
	"github.com/bgres/server/internal/data"
	"github.com/bgres/server/internal/handler"
	"github.com/bgres/server/internal/resource"
)

// Universe is a loaded scenario: the host-side vessels in file order plus
// their illumination.
type Universe struct {
	Vessels   []*ProtoVessel
	Directory ProtoDirectory
	Sky       handler.StaticSky
}

// NewUniverse materialises every scenario vessel into proto vessels whose
// containers live in cs.
func NewUniverse(sc *data.Scenario, cs *resource.ContainerStore) *Universe {
	u := &Universe{
		Directory: make(ProtoDirectory, len(sc.Vessels)),
		Sky:       make(handler.StaticSky, len(sc.Vessels)),
	}
	for _, ve := range sc.Vessels {
		pv := &ProtoVessel{ID: ve.VesselID, Name: ve.Name, IsLoaded: ve.Loaded}
		for _, pe := range ve.Parts {
			part := ProtoPart{ID: ids.PartID(pe.ID), Name: pe.Name, Temperature: pe.Temperature}
			for _, r := range pe.Resources {
				part.Containers = append(part.Containers, cs.Create(r.Name, r.Amount, r.Capacity, part.ID))
			}
			for _, m := range pe.Modules {
				part.Modules = append(part.Modules, handler.Module{Name: m.Name, Values: m.Values})
			}
			pv.Parts = append(pv.Parts, part)
		}
		u.Vessels = append(u.Vessels, pv)
		u.Directory[pv.ID] = pv
		u.Sky[pv.ID] = handler.Illumination{
			InSunlight:       ve.Sky.InSunlight,
			Flux:             ve.Sky.Flux,
			Orientation:      ve.Sky.Orientation,
			SunAltitude:      ve.Sky.SunAltitude,
			OxygenAtmosphere: ve.Sky.OxygenAtmosphere,
		}
	}
	return u
}

// RegisterAll registers every vessel of the universe with s.
func (u *Universe) RegisterAll(s *State) int {
	for _, pv := range u.Vessels {
		s.RegisterVessel(pv.ID, pv.Name, pv, pv.Bindings())
	}
	return len(u.Vessels)
}
