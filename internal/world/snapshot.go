package world

import (
	"github.com/bgres/server/internal/core/ids"
	"github.com/bgres/server/internal/resource"
	"go.uber.org/zap"
)

// ContainerSnapshot is one contributing container of a cached resource.
type ContainerSnapshot struct {
	Part     ids.PartID
	Amount   float64
	Capacity float64
}

// ResourceSnapshot is the saved view of one pool. Overflow credit is never
// saved.
type ResourceSnapshot struct {
	Resource   string
	Amount     float64
	Capacity   float64
	Containers []ContainerSnapshot
}

// VesselSnapshot is the saved view of one vessel cache.
type VesselSnapshot struct {
	ID              ids.VesselID
	Name            string
	TimeLastRefresh float64
	Resources       []ResourceSnapshot
}

// Snapshot captures every vessel cache in registration order.
func (s *State) Snapshot() []VesselSnapshot {
	out := make([]VesselSnapshot, 0, len(s.order))
	for _, v := range s.order {
		out = append(out, v.snapshot())
	}
	return out
}

func (v *Vessel) snapshot() VesselSnapshot {
	vs := VesselSnapshot{
		ID:              v.id,
		Name:            v.name,
		TimeLastRefresh: v.lastRefresh,
		Resources:       make([]ResourceSnapshot, 0, len(v.order)),
	}
	v.EachPool(func(p *resource.Pool) {
		rs := ResourceSnapshot{
			Resource: p.Resource(),
			Amount:   p.Amount(),
			Capacity: p.Capacity(),
		}
		for _, h := range p.Members() {
			c, ok := v.containers.Get(h)
			if !ok {
				continue
			}
			rs.Containers = append(rs.Containers, ContainerSnapshot{
				Part:     c.Part,
				Amount:   c.Amount,
				Capacity: c.Capacity,
			})
		}
		vs.Resources = append(vs.Resources, rs)
	})
	return vs
}

// Restore writes saved container amounts back into registered vessels and
// sets their last refresh time. Containers are matched by resource and part;
// unmatched entries and unknown vessels are skipped. Overflow starts empty.
// Returns the number of vessels restored.
func (s *State) Restore(snaps []VesselSnapshot) int {
	n := 0
	for _, vs := range snaps {
		v := s.vessels[vs.ID]
		if v == nil {
			s.log.Debug("restore skipped unknown vessel", zap.String("vessel", vs.ID.String()))
			continue
		}
		for _, rs := range vs.Resources {
			p := v.Pool(rs.Resource)
			if p == nil {
				continue
			}
			members := p.Members()
			used := make(map[resource.ContainerID]bool, len(members))
			for _, cs := range rs.Containers {
				for _, h := range members {
					c, ok := v.containers.Get(h)
					if !ok || used[h] || c.Part != cs.Part {
						continue
					}
					used[h] = true
					v.containers.SetAmount(h, cs.Amount)
					break
				}
			}
			p.Recount()
			p.Overflow().Clear()
		}
		v.lastRefresh = vs.TimeLastRefresh
		n++
	}
	return n
}
