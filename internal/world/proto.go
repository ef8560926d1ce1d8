package world

import (
	"github.com/bgres/server/internal/core/ids"
	"github.com/bgres/server/internal/handler"
	"github.com/bgres/server/internal/resource"
)

// ContainerSource is the host's live view of one vessel's containers.
type ContainerSource interface {
	// LiveContainers lists container handles in discovery order.
	LiveContainers() []resource.ContainerID
	Loaded() bool
}

// NamedSource is a ContainerSource that knows its vessel's display name.
type NamedSource interface {
	VesselName() string
}

// ModuleBinding pairs a saved module with the part that carries it.
type ModuleBinding struct {
	Part   handler.PartInfo
	Module handler.Module
}

// ProtoPart is the saved state of one part of an unloaded vessel.
type ProtoPart struct {
	ID          ids.PartID
	Name        string
	Temperature float64
	Containers  []resource.ContainerID
	Modules     []handler.Module
}

// ProtoVessel is the saved state of a vessel, the host-side representation
// the cache is built from.
type ProtoVessel struct {
	ID       ids.VesselID
	Name     string
	IsLoaded bool
	Parts    []ProtoPart
}

func (v *ProtoVessel) Loaded() bool      { return v.IsLoaded }
func (v *ProtoVessel) VesselName() string { return v.Name }

func (v *ProtoVessel) LiveContainers() []resource.ContainerID {
	var out []resource.ContainerID
	for i := range v.Parts {
		out = append(out, v.Parts[i].Containers...)
	}
	return out
}

// Bindings lists every module snapshot with its part, in part order.
func (v *ProtoVessel) Bindings() []ModuleBinding {
	var out []ModuleBinding
	for i := range v.Parts {
		p := &v.Parts[i]
		info := handler.PartInfo{ID: p.ID, Name: p.Name, Temperature: p.Temperature}
		for _, m := range p.Modules {
			out = append(out, ModuleBinding{Part: info, Module: m})
		}
	}
	return out
}

// RemovePart drops a part and destroys its containers in the store. The
// owning cache must be refreshed afterwards.
func (v *ProtoVessel) RemovePart(id ids.PartID, containers *resource.ContainerStore) bool {
	for i := range v.Parts {
		if v.Parts[i].ID != id {
			continue
		}
		for _, h := range v.Parts[i].Containers {
			containers.Destroy(h)
		}
		v.Parts = append(v.Parts[:i], v.Parts[i+1:]...)
		return true
	}
	return false
}

// Directory resolves vessels the cache has not registered yet.
type Directory interface {
	Lookup(id ids.VesselID) (ContainerSource, bool)
}

// ProtoDirectory is a Directory over a fixed set of proto vessels.
type ProtoDirectory map[ids.VesselID]*ProtoVessel

func (d ProtoDirectory) Lookup(id ids.VesselID) (ContainerSource, bool) {
	v, ok := d[id]
	if !ok {
		return nil, false
	}
	return v, true
}
