package handler

import (
	"testing"

	"github.com/bgres/server/internal/core/event"
	"github.com/bgres/server/internal/core/ids"
	"github.com/bgres/server/internal/data"
	"github.com/bgres/server/internal/resource"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	now       float64
	delta     float64
	rateIndex int
	threshold int
}

func (c *fakeClock) Now() float64   { return c.now }
func (c *fakeClock) Delta() float64 { return c.delta }
func (c *fakeClock) RateIndex() int { return c.rateIndex }
func (c *fakeClock) Threshold() int { return c.threshold }

// poolOwner is a vessel made of one container per resource.
type poolOwner struct {
	id    ids.VesselID
	store *resource.ContainerStore
	clock *fakeClock
	pools map[string]*resource.Pool
}

func newPoolOwner(clock *fakeClock) *poolOwner {
	return &poolOwner{
		id:    ids.NewVesselID(),
		store: resource.NewContainerStore(),
		clock: clock,
		pools: make(map[string]*resource.Pool),
	}
}

func (o *poolOwner) add(name string, amount, capacity float64) *poolOwner {
	h := o.store.Create(name, amount, capacity, 1)
	o.pools[name] = resource.NewPool(name, o.store, o.clock, []resource.ContainerID{h})
	return o
}

func (o *poolOwner) amount(name string) float64 {
	if p := o.pools[name]; p != nil {
		return p.Amount()
	}
	return 0
}

func (o *poolOwner) ID() ids.VesselID { return o.id }

func (o *poolOwner) Take(name string, amount float64) float64 {
	if p := o.pools[name]; p != nil {
		return p.Take(amount)
	}
	return 0
}

func (o *poolOwner) Push(name string, amount float64) float64 {
	if p := o.pools[name]; p != nil {
		return p.Push(amount)
	}
	return 0
}

func (o *poolOwner) Available(name string) float64 {
	if p := o.pools[name]; p != nil {
		return p.Available()
	}
	return 0
}

const testCatalog = `
parts:
  - name: solarPanels4
    solar:
      charge_rate: 2
      temp_curve: [[0, 1], [1000, 0.5]]
  - name: trackingPanel
    solar:
      charge_rate: 2
      sun_tracking: true
      uses_curve: true
      power_curve: [[0, 4], [1000, 1]]
  - name: rtg
    generator:
      outputs: [{name: ElectricCharge, rate: 0.75}]
  - name: fuelCell
    generator:
      inputs: [{name: LiquidFuel, rate: 0.5}, {name: Oxidizer, rate: 0.5}]
      outputs: [{name: ElectricCharge, rate: 2}]
  - name: jetGen
    converters:
      - name: Air Breather
        inputs: [{name: IntakeAir, rate: 1}, {name: LiquidFuel, rate: 0.1}]
        outputs: [{name: ElectricCharge, rate: 3}]
  - name: isru
    converters:
      - name: Lf+Ox
        inputs: [{name: Ore, rate: 1}]
        outputs: [{name: LiquidFuel, rate: 0.45}, {name: Oxidizer, rate: 0.55}]
      - name: Monoprop
        inputs: [{name: Ore, rate: 0.5}, {name: ElectricCharge, rate: 1}]
        outputs: [{name: MonoPropellant, rate: 0.5}, {name: ElectricCharge, rate: 0.1}]
  - name: cryoPod
    freezer:
      charge_per_minute: 6
      death_roll: 100
`

type testRig struct {
	clock *fakeClock
	bus   *event.Bus
	env   *Env
	sky   StaticSky
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	cat, err := data.ParsePartCatalog([]byte(testCatalog))
	require.NoError(t, err)
	clock := &fakeClock{now: 1000, delta: 10, threshold: 3}
	bus := event.NewBus()
	sky := StaticSky{}
	return &testRig{
		clock: clock,
		bus:   bus,
		sky:   sky,
		env: &Env{
			Clock:   clock,
			Bus:     bus,
			Catalog: cat,
			Sky:     sky,
			Log:     zap.NewNop(),
		},
	}
}

func (r *testRig) build(t *testing.T, owner Owner, partName, module string, values map[string]string) Handler {
	t.Helper()
	h, err := NewBuilder(r.env).Build(owner, PartInfo{ID: 7, Name: partName, Temperature: 0}, Module{Name: module, Values: values})
	require.NoError(t, err)
	return h
}

// drain delivers emitted events to collect.
func drain[T any](bus *event.Bus) []T {
	var out []T
	event.Subscribe(bus, func(ev T) { out = append(out, ev) })
	bus.SwapBuffers()
	bus.DispatchAll()
	return out
}
