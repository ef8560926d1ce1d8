package system

import (
	"testing"

	"github.com/bgres/server/internal/core/event"
	"github.com/bgres/server/internal/core/ids"
	"github.com/bgres/server/internal/core/warp"
	"github.com/bgres/server/internal/handler"
	"github.com/bgres/server/internal/resource"
	"github.com/bgres/server/internal/world"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ec = handler.ElectricCharge

// scripted is a handler whose behavior is supplied by the test.
type scripted struct {
	name  string
	class handler.Class
	part  ids.PartID
	owner handler.Owner
	calls *[]string
	fn    func(handler.Owner)
}

func (h *scripted) Process() {
	*h.calls = append(*h.calls, h.name)
	if h.fn != nil {
		h.fn(h.owner)
	}
}
func (h *scripted) Kind() handler.Kind   { return handler.KindGenerator }
func (h *scripted) Class() handler.Class { return h.class }
func (h *scripted) Part() ids.PartID     { return h.part }

type scriptBuilder struct {
	calls *[]string
	class map[string]handler.Class
	do    map[string]func(handler.Owner)
}

func (b *scriptBuilder) Build(owner handler.Owner, part handler.PartInfo, m handler.Module) (handler.Handler, error) {
	c, ok := b.class[m.Name]
	if !ok {
		return nil, handler.ErrNotHandled
	}
	return &scripted{name: m.Name, class: c, part: part.ID, owner: owner, calls: b.calls, fn: b.do[m.Name]}, nil
}

type fixture struct {
	clock   *warp.Clock
	cs      *resource.ContainerStore
	bus     *event.Bus
	state   *world.State
	builder *scriptBuilder
	calls   []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock, err := warp.New(warp.DefaultRates, 3, 1)
	require.NoError(t, err)
	f := &fixture{clock: clock, cs: resource.NewContainerStore(), bus: event.NewBus()}
	f.builder = &scriptBuilder{
		calls: &f.calls,
		class: make(map[string]handler.Class),
		do:    make(map[string]func(handler.Owner)),
	}
	f.state = world.NewState(f.cs, clock, f.builder, zap.NewNop())
	return f
}

// define declares a module name the builder accepts.
func (f *fixture) define(name string, class handler.Class, fn func(handler.Owner)) {
	f.builder.class[name] = class
	if fn != nil {
		f.builder.do[name] = fn
	}
}

// vessel registers a vessel holding one ElectricCharge container and the
// given modules on its only part.
func (f *fixture) vessel(name string, loaded bool, amount, capacity float64, modules ...string) *world.Vessel {
	pv := &world.ProtoVessel{ID: ids.NewVesselID(), Name: name, IsLoaded: loaded}
	part := world.ProtoPart{ID: 1, Name: "core"}
	part.Containers = []resource.ContainerID{f.cs.Create(ec, amount, capacity, part.ID)}
	for _, m := range modules {
		part.Modules = append(part.Modules, handler.Module{Name: m})
	}
	pv.Parts = []world.ProtoPart{part}
	return f.state.RegisterVessel(pv.ID, pv.Name, pv, pv.Bindings())
}

func (f *fixture) dispatcher(p handler.Policy) *BackgroundSystem {
	return NewBackgroundSystem(f.state, f.clock, f.bus, p, zap.NewNop())
}

var allOn = handler.Policy{Enabled: true, Produce: true, Consume: true}
