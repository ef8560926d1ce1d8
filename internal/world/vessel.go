package world

import (
	"github.com/bgres/server/internal/core/ids"
	"github.com/bgres/server/internal/handler"
	"github.com/bgres/server/internal/resource"
	"go.uber.org/zap"
)

// Vessel is the cache of one unloaded vessel: a pool per resource and the
// handlers attached to its parts.
type Vessel struct {
	id   ids.VesselID
	name string
	src  ContainerSource

	containers *resource.ContainerStore
	clock      resource.Ambient

	pools    map[string]*resource.Pool
	order    []string // resource names in discovery order
	handlers []handler.Handler

	lastRefresh float64
	lazy        bool // built by a totals query, not yet registered with handlers
	log         *zap.Logger
}

func newVessel(id ids.VesselID, name string, src ContainerSource, containers *resource.ContainerStore, clock resource.Ambient, log *zap.Logger) *Vessel {
	return &Vessel{
		id:         id,
		name:       name,
		src:        src,
		containers: containers,
		clock:      clock,
		pools:      make(map[string]*resource.Pool),
		log:        log,
	}
}

func (v *Vessel) ID() ids.VesselID { return v.id }
func (v *Vessel) Name() string     { return v.name }
func (v *Vessel) Loaded() bool     { return v.src.Loaded() }

// Rebuild regroups the live containers into one pool per resource. Pools
// that survive keep their overflow credit; pools whose resource vanished
// are cleared and dropped.
func (v *Vessel) Rebuild() {
	groups := make(map[string][]resource.ContainerID)
	order := make([]string, 0, len(v.order))
	for _, h := range v.src.LiveContainers() {
		c, ok := v.containers.Get(h)
		if !ok {
			continue
		}
		if _, seen := groups[c.Resource]; !seen {
			order = append(order, c.Resource)
		}
		groups[c.Resource] = append(groups[c.Resource], h)
	}

	for _, name := range order {
		if p, ok := v.pools[name]; ok {
			p.Reset(groups[name])
			continue
		}
		v.pools[name] = resource.NewPool(name, v.containers, v.clock, groups[name])
	}
	for name, p := range v.pools {
		if _, ok := groups[name]; ok {
			continue
		}
		if credit := p.Overflow().Total(); credit > 0 {
			v.log.Debug("resource left vessel, dropping overflow",
				zap.String("vessel", v.id.String()),
				zap.String("resource", name),
				zap.Float64("credit", credit))
		}
		p.Overflow().Clear()
		delete(v.pools, name)
	}
	v.order = order
}

// Pool returns the pool for a resource, or nil if the vessel has none.
func (v *Vessel) Pool(name string) *resource.Pool {
	return v.pools[name]
}

func (v *Vessel) Take(name string, amount float64) float64 {
	if p := v.pools[name]; p != nil {
		return p.Take(amount)
	}
	return 0
}

func (v *Vessel) Push(name string, amount float64) float64 {
	if p := v.pools[name]; p != nil {
		return p.Push(amount)
	}
	return 0
}

func (v *Vessel) Available(name string) float64 {
	if p := v.pools[name]; p != nil {
		return p.Available()
	}
	return 0
}

// Totals returns the amount a take could draw and the container capacity.
// Unknown resources read as zero.
func (v *Vessel) Totals(name string) (amount, capacity float64) {
	p := v.pools[name]
	if p == nil {
		return 0, 0
	}
	return p.Available(), p.Capacity()
}

// EachPool iterates pools in discovery order.
func (v *Vessel) EachPool(fn func(*resource.Pool)) {
	for _, name := range v.order {
		fn(v.pools[name])
	}
}

func (v *Vessel) PoolCount() int { return len(v.order) }

// Handlers returns the handlers in registration order.
func (v *Vessel) Handlers() []handler.Handler { return v.handlers }

func (v *Vessel) HandlerCount() int       { return len(v.handlers) }
func (v *Vessel) LastRefresh() float64    { return v.lastRefresh }
func (v *Vessel) MarkRefreshed(t float64) { v.lastRefresh = t }

// ClearOverflow drops all overflow credit, used when the vessel goes active.
func (v *Vessel) ClearOverflow() {
	for _, p := range v.pools {
		p.Overflow().Clear()
	}
}
