package world

import (
	"errors"
	"testing"

	"github.com/bgres/server/internal/core/ids"
	"github.com/bgres/server/internal/core/warp"
	"github.com/bgres/server/internal/handler"
	"github.com/bgres/server/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubHandler struct {
	part  ids.PartID
	calls int
}

func (h *stubHandler) Process()             { h.calls++ }
func (h *stubHandler) Kind() handler.Kind   { return handler.KindGenerator }
func (h *stubHandler) Class() handler.Class { return handler.Producer }
func (h *stubHandler) Part() ids.PartID     { return h.part }

// stubBuilder builds "ok" modules, rejects "bad" and ignores everything else.
type stubBuilder struct{}

func (stubBuilder) Build(owner handler.Owner, part handler.PartInfo, m handler.Module) (handler.Handler, error) {
	switch m.Name {
	case "ok":
		return &stubHandler{part: part.ID}, nil
	case "bad":
		return nil, errors.New("malformed")
	}
	return nil, handler.ErrNotHandled
}

type fixture struct {
	clock *warp.Clock
	cs    *resource.ContainerStore
	state *State
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock, err := warp.New(warp.DefaultRates, 3, 1)
	require.NoError(t, err)
	cs := resource.NewContainerStore()
	return &fixture{clock: clock, cs: cs, state: NewState(cs, clock, stubBuilder{}, zap.NewNop())}
}

// vessel builds a proto vessel with one part per resource triple
// (name, amount, capacity) and the given modules on its first part.
func (f *fixture) vessel(name string, res [][3]any, modules ...string) *ProtoVessel {
	v := &ProtoVessel{ID: ids.NewVesselID(), Name: name}
	for i, r := range res {
		part := ProtoPart{ID: ids.PartID(i + 1), Name: "part"}
		part.Containers = append(part.Containers,
			f.cs.Create(r[0].(string), r[1].(float64), r[2].(float64), part.ID))
		v.Parts = append(v.Parts, part)
	}
	if len(v.Parts) == 0 {
		v.Parts = append(v.Parts, ProtoPart{ID: 1})
	}
	for _, m := range modules {
		v.Parts[0].Modules = append(v.Parts[0].Modules, handler.Module{Name: m})
	}
	return v
}

func (f *fixture) register(v *ProtoVessel) *Vessel {
	return f.state.RegisterVessel(v.ID, v.Name, v, v.Bindings())
}

func TestRegisterAggregatesByResource(t *testing.T) {
	f := newFixture(t)
	pv := f.vessel("relay", [][3]any{
		{"ElectricCharge", 10.0, 50.0},
		{"LiquidFuel", 100.0, 200.0},
		{"ElectricCharge", 5.0, 20.0},
	})
	v := f.register(pv)

	require.Equal(t, 2, v.PoolCount())
	var names []string
	v.EachPool(func(p *resource.Pool) { names = append(names, p.Resource()) })
	assert.Equal(t, []string{"ElectricCharge", "LiquidFuel"}, names)

	ec := v.Pool("ElectricCharge")
	assert.Equal(t, 15.0, ec.Amount())
	assert.Equal(t, 70.0, ec.Capacity())
	assert.Equal(t, 2, ec.Len())

	amount, capacity := f.state.GetResourceTotals(pv.ID, "LiquidFuel")
	assert.Equal(t, 100.0, amount)
	assert.Equal(t, 200.0, capacity)

	amount, capacity = f.state.GetResourceTotals(pv.ID, "Ore")
	assert.Zero(t, amount)
	assert.Zero(t, capacity)
	assert.Nil(t, v.Pool("Ore"))
	assert.Equal(t, 0.0, v.Take("Ore", 1))
	assert.Equal(t, 0.0, v.Push("Ore", 1))
}

func TestRegisterBuildsHandlers(t *testing.T) {
	f := newFixture(t)
	pv := f.vessel("relay", [][3]any{{"ElectricCharge", 1.0, 1.0}}, "ok", "bad", "ModuleScienceExperiment", "ok")
	v := f.register(pv)

	require.Equal(t, 2, v.HandlerCount(), "failed and unhandled modules are skipped")
	assert.Equal(t, 1, f.state.Count())

	again := f.state.RegisterVessel(pv.ID, "dup", pv, pv.Bindings())
	assert.Same(t, v, again)
	assert.Equal(t, 1, f.state.Count())
	assert.Equal(t, "relay", again.Name())
}

func TestRegisterWithoutBuilder(t *testing.T) {
	f := newFixture(t)
	f.state = NewState(f.cs, f.clock, nil, zap.NewNop())
	pv := f.vessel("relay", [][3]any{{"ElectricCharge", 1.0, 1.0}}, "ok")
	v := f.register(pv)
	assert.Equal(t, 0, v.HandlerCount())
}

func TestRefreshKeepsOverflowCredit(t *testing.T) {
	f := newFixture(t)
	pv := f.vessel("miner", [][3]any{
		{"ElectricCharge", 10.0, 10.0},
		{"Ore", 1.0, 10.0},
	})
	v := f.register(pv)

	f.clock.SetRateIndex(6)
	require.True(t, f.clock.Buffering())
	assert.Equal(t, 4.0, v.Push("ElectricCharge", 4))
	assert.Equal(t, 4.0, v.Pool("ElectricCharge").Overflow().Total())

	// Host adds a battery and drops the ore tank.
	battery := f.cs.Create("ElectricCharge", 0, 30, 9)
	pv.Parts = append(pv.Parts, ProtoPart{ID: 9, Containers: []resource.ContainerID{battery}})
	oreOverflow := v.Pool("Ore")
	require.NotNil(t, oreOverflow)
	require.Equal(t, 20.0, v.Push("Ore", 20))
	require.True(t, pv.RemovePart(2, f.cs))

	require.True(t, f.state.RefreshVesselCache(pv.ID))
	ec := v.Pool("ElectricCharge")
	assert.Equal(t, 4.0, ec.Overflow().Total(), "refresh is an update, not a reset")
	assert.Equal(t, 40.0, ec.Capacity())
	assert.Nil(t, v.Pool("Ore"))
	assert.Equal(t, 0.0, oreOverflow.Overflow().Total(), "vanished pool has its credit cleared")

	amount, _ := f.state.GetResourceTotals(pv.ID, "ElectricCharge")
	assert.Equal(t, 14.0, amount, "buffering folds overflow into totals")
	f.clock.SetRateIndex(0)
	amount, _ = f.state.GetResourceTotals(pv.ID, "ElectricCharge")
	assert.Equal(t, 10.0, amount)

	assert.False(t, f.state.RefreshVesselCache(ids.NewVesselID()))
}

func TestGetResourceTotalsLazyBuild(t *testing.T) {
	f := newFixture(t)
	pv := f.vessel("debris", [][3]any{{"Oxygen", 3.0, 9.0}})

	amount, capacity := f.state.GetResourceTotals(pv.ID, "Oxygen")
	assert.Zero(t, amount)
	assert.Zero(t, capacity)
	assert.Equal(t, 0, f.state.Count())

	f.state.SetDirectory(ProtoDirectory{pv.ID: pv})
	amount, capacity = f.state.GetResourceTotals(pv.ID, "Oxygen")
	assert.Equal(t, 3.0, amount)
	assert.Equal(t, 9.0, capacity)
	require.Equal(t, 1, f.state.Count())
	assert.Equal(t, 0, f.state.Vessel(pv.ID).HandlerCount())

	amount, _ = f.state.GetResourceTotals(ids.NewVesselID(), "Oxygen")
	assert.Zero(t, amount)
}

func TestRegisterAfterLazyQueryBuildsHandlers(t *testing.T) {
	f := newFixture(t)
	pv := f.vessel("tug", [][3]any{{"ElectricCharge", 4.0, 8.0}}, "ok", "ok")
	f.state.SetDirectory(ProtoDirectory{pv.ID: pv})

	amount, _ := f.state.GetResourceTotals(pv.ID, "ElectricCharge")
	require.Equal(t, 4.0, amount)
	lazy := f.state.Vessel(pv.ID)
	require.NotNil(t, lazy)
	assert.Equal(t, "tug", lazy.Name())
	assert.Equal(t, 0, lazy.HandlerCount())

	v := f.register(pv)
	assert.Same(t, lazy, v)
	assert.Equal(t, 2, v.HandlerCount())
	assert.Equal(t, 1, f.state.Count())

	assert.Same(t, v, f.register(pv))
	assert.Equal(t, 2, v.HandlerCount(), "a registered cache is not rebuilt twice")
}

func TestUnregisterAndEviction(t *testing.T) {
	f := newFixture(t)
	a := f.register(f.vessel("a", nil, "ok"))
	b := f.register(f.vessel("b", nil, "ok"))
	c := f.register(f.vessel("c", nil, "ok"))

	assert.Same(t, b, f.state.UnregisterVessel(b.ID()))
	assert.Nil(t, f.state.UnregisterVessel(b.ID()))

	var order []string
	f.state.AllVessels(func(v *Vessel) { order = append(order, v.Name()) })
	assert.Equal(t, []string{"a", "c"}, order)

	f.state.MarkForEviction(a.ID())
	f.state.MarkForEviction(ids.NewVesselID())
	assert.Equal(t, 2, f.state.Count(), "eviction is deferred")
	removed := f.state.FlushEvictions()
	require.Len(t, removed, 1)
	assert.Same(t, a, removed[0])
	assert.Nil(t, f.state.Vessel(a.ID()))
	assert.Same(t, c, f.state.Vessel(c.ID()))
	assert.Nil(t, f.state.FlushEvictions())
}

func TestSnapshotRestore(t *testing.T) {
	f := newFixture(t)
	pv := f.vessel("station", [][3]any{
		{"ElectricCharge", 10.0, 50.0},
		{"ElectricCharge", 20.0, 50.0},
		{"Oxygen", 5.0, 10.0},
	})
	v := f.register(pv)
	v.MarkRefreshed(1234)

	snaps := f.state.Snapshot()
	require.Len(t, snaps, 1)
	require.Len(t, snaps[0].Resources, 2)
	ec := snaps[0].Resources[0]
	assert.Equal(t, "ElectricCharge", ec.Resource)
	assert.Equal(t, 30.0, ec.Amount)
	assert.Equal(t, 100.0, ec.Capacity)
	assert.Equal(t, []ContainerSnapshot{{Part: 1, Amount: 10, Capacity: 50}, {Part: 2, Amount: 20, Capacity: 50}}, ec.Containers)

	// Simulate play after the save, then load it back.
	f.clock.SetRateIndex(7)
	v.Take("ElectricCharge", 25)
	v.Push("Oxygen", 50)
	v.MarkRefreshed(9999)

	unknown := VesselSnapshot{ID: ids.NewVesselID()}
	assert.Equal(t, 1, f.state.Restore(append(snaps, unknown)))

	assert.Equal(t, 1234.0, v.LastRefresh())
	assert.Equal(t, 30.0, v.Pool("ElectricCharge").Amount())
	assert.Equal(t, 5.0, v.Pool("Oxygen").Amount())
	assert.Equal(t, 0.0, v.Pool("Oxygen").Overflow().Total(), "overflow is transient")
	c, ok := f.cs.Get(pv.Parts[1].Containers[0])
	require.True(t, ok)
	assert.Equal(t, 20.0, c.Amount)
}
