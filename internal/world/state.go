package world

import (
	"errors"

	"github.com/bgres/server/internal/core/ids"
	"github.com/bgres/server/internal/handler"
	"github.com/bgres/server/internal/resource"
	"go.uber.org/zap"
)

// HandlerBuilder constructs a handler for one saved module.
// handler.Builder implements it.
type HandlerBuilder interface {
	Build(owner handler.Owner, part handler.PartInfo, module handler.Module) (handler.Handler, error)
}

// State tracks every vessel cache of one simulation session.
// Single-goroutine access only (tick loop).
type State struct {
	containers *resource.ContainerStore
	clock      resource.Ambient
	builder    HandlerBuilder
	directory  Directory

	vessels map[ids.VesselID]*Vessel
	order   []*Vessel // registration order, for dispatch
	evict   []ids.VesselID

	log *zap.Logger
}

// NewState creates an empty registry. builder may be nil, in which case
// vessels are registered without handlers.
func NewState(containers *resource.ContainerStore, clock resource.Ambient, builder HandlerBuilder, log *zap.Logger) *State {
	return &State{
		containers: containers,
		clock:      clock,
		builder:    builder,
		vessels:    make(map[ids.VesselID]*Vessel),
		log:        log,
	}
}

// SetDirectory installs the lookup used to lazily cache unknown vessels.
func (s *State) SetDirectory(d Directory) { s.directory = d }

func (s *State) Containers() *resource.ContainerStore { return s.containers }

// RegisterVessel creates a vessel cache, aggregates its containers and
// builds its handlers. A module that fails to build is logged and skipped;
// the rest of the vessel still registers. Registering a known id returns
// the existing cache, except that a cache built lazily by a query is
// promoted: it takes the name, source and handlers given here.
func (s *State) RegisterVessel(id ids.VesselID, name string, src ContainerSource, bindings []ModuleBinding) *Vessel {
	if v, ok := s.vessels[id]; ok {
		if v.lazy {
			s.promote(v, name, src, bindings)
		}
		return v
	}
	v := newVessel(id, name, src, s.containers, s.clock, s.log)
	v.Rebuild()
	v.lastRefresh = s.clock.Now()
	s.buildHandlers(v, bindings)

	s.vessels[id] = v
	s.order = append(s.order, v)
	s.log.Debug("vessel registered",
		zap.String("vessel", id.String()),
		zap.String("name", name),
		zap.Int("pools", v.PoolCount()),
		zap.Int("handlers", v.HandlerCount()))
	return v
}

// promote turns a query-built cache into a registered one. Pools are
// reconciled against the new source, so overflow credit survives.
func (s *State) promote(v *Vessel, name string, src ContainerSource, bindings []ModuleBinding) {
	v.lazy = false
	if name != "" {
		v.name = name
	}
	if src != nil {
		v.src = src
		v.Rebuild()
	}
	s.buildHandlers(v, bindings)
	s.log.Debug("lazy vessel cache registered",
		zap.String("vessel", v.id.String()),
		zap.String("name", v.name),
		zap.Int("handlers", v.HandlerCount()))
}

func (s *State) buildHandlers(v *Vessel, bindings []ModuleBinding) {
	if s.builder == nil {
		return
	}
	for _, b := range bindings {
		h, err := s.builder.Build(v, b.Part, b.Module)
		if errors.Is(err, handler.ErrNotHandled) {
			continue
		}
		if err != nil {
			s.log.Warn("handler construction failed",
				zap.String("vessel", v.id.String()),
				zap.String("module", b.Module.Name),
				zap.Uint32("part", uint32(b.Part.ID)),
				zap.Error(err))
			continue
		}
		v.handlers = append(v.handlers, h)
	}
}

// UnregisterVessel evicts a vessel cache and returns it, or nil if unknown.
// Its overflow credit is discarded.
func (s *State) UnregisterVessel(id ids.VesselID) *Vessel {
	v, ok := s.vessels[id]
	if !ok {
		return nil
	}
	delete(s.vessels, id)
	for i, o := range s.order {
		if o == v {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	v.ClearOverflow()
	return v
}

// RefreshVesselCache re-runs container aggregation, keeping unexpired
// overflow credit. Returns false for unknown vessels.
func (s *State) RefreshVesselCache(id ids.VesselID) bool {
	v, ok := s.vessels[id]
	if !ok {
		return false
	}
	v.Rebuild()
	return true
}

// Vessel returns a vessel cache by id, or nil.
func (s *State) Vessel(id ids.VesselID) *Vessel {
	return s.vessels[id]
}

// AllVessels iterates caches in registration order.
func (s *State) AllVessels(fn func(*Vessel)) {
	for _, v := range s.order {
		fn(v)
	}
}

// Count returns the number of registered vessels.
func (s *State) Count() int {
	return len(s.order)
}

// GetResourceTotals answers (amount, capacity) for one resource of one
// vessel. An unknown vessel is cached on demand through the directory;
// anything still unknown reads as zero.
func (s *State) GetResourceTotals(id ids.VesselID, name string) (amount, capacity float64) {
	v := s.vessels[id]
	if v == nil {
		if s.directory == nil {
			return 0, 0
		}
		src, ok := s.directory.Lookup(id)
		if !ok {
			return 0, 0
		}
		name := ""
		if n, ok := src.(NamedSource); ok {
			name = n.VesselName()
		}
		v = s.RegisterVessel(id, name, src, nil)
		v.lazy = true
	}
	return v.Totals(name)
}

// MarkForEviction queues a vessel for removal at the end of the tick.
func (s *State) MarkForEviction(id ids.VesselID) {
	s.evict = append(s.evict, id)
}

// FlushEvictions unregisters every queued vessel and returns the removed
// caches.
func (s *State) FlushEvictions() []*Vessel {
	if len(s.evict) == 0 {
		return nil
	}
	var removed []*Vessel
	for _, id := range s.evict {
		if v := s.UnregisterVessel(id); v != nil {
			removed = append(removed, v)
		}
	}
	s.evict = s.evict[:0]
	return removed
}
