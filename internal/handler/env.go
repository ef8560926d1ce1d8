package handler

import (
	"github.com/bgres/server/internal/core/event"
	"github.com/bgres/server/internal/data"
	"github.com/bgres/server/internal/scripting"
	"go.uber.org/zap"
)

// Clock is the time source handlers read. warp.Clock implements it.
type Clock interface {
	Now() float64
	Delta() float64
}

type Options struct {
	IncludeGenericConverters bool
}

// Env bundles the collaborators every handler kind may use. Bus, Lua, Sky
// and Catalog are optional.
type Env struct {
	Clock   Clock
	Bus     *event.Bus
	Lua     *scripting.Engine
	Catalog *data.PartCatalog
	Sky     Sky
	Options Options
	Log     *zap.Logger
}

func (e *Env) illumination(owner Owner) Illumination {
	if e.Sky == nil {
		return Illumination{}
	}
	return e.Sky.Illumination(owner.ID())
}

// take draws from the owner and reports a shortfall on the bus.
func (e *Env) take(owner Owner, part PartInfo, kind Kind, resource string, amount float64) float64 {
	got := owner.Take(resource, amount)
	if got+1e-9 < amount {
		e.shortfall(owner, part, kind, resource, amount, got)
	}
	return got
}

func (e *Env) shortfall(owner Owner, part PartInfo, kind Kind, resource string, requested, received float64) {
	if e.Bus == nil {
		return
	}
	event.Emit(e.Bus, event.ResourceShortfall{
		Vessel:    owner.ID(),
		Part:      part.ID,
		Kind:      kind.String(),
		Resource:  resource,
		Requested: requested,
		Received:  received,
		UT:        e.Clock.Now(),
	})
}
