package world

import (
	"testing"

	"github.com/bgres/server/internal/core/ids"
	"github.com/bgres/server/internal/data"
	"github.com/bgres/server/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const universeYAML = `
start_ut: 100
vessels:
  - id: 0b5e7d4c-1111-4222-8333-444455556666
    name: Relay
    sky: {in_sunlight: true, flux: 0.8, orientation: 0.5}
    parts:
      - id: 10
        name: batteryBank
        resources:
          - {name: ElectricCharge, amount: 20, capacity: 100}
      - id: 11
        name: solarPanels4
        modules:
          - name: ModuleDeployableSolarPanel
            values: {deployState: "EXTENDED"}
  - id: 0b5e7d4c-1111-4222-8333-444455556667
    name: Lander
    loaded: true
`

func TestNewUniverse(t *testing.T) {
	sc, err := data.ParseScenario([]byte(universeYAML))
	require.NoError(t, err)
	cs := resource.NewContainerStore()

	u := NewUniverse(sc, cs)
	require.Len(t, u.Vessels, 2)
	assert.Equal(t, 1, cs.Len())

	relay := u.Vessels[0]
	assert.Equal(t, "Relay", relay.Name)
	require.Len(t, relay.Parts, 2)
	assert.Equal(t, ids.PartID(11), relay.Parts[1].ID)
	require.Len(t, relay.Bindings(), 1)
	assert.Equal(t, "EXTENDED", relay.Bindings()[0].Module.Values["deployState"])
	assert.True(t, u.Sky[relay.ID].InSunlight)
	assert.Equal(t, 0.8, u.Sky[relay.ID].Flux)
	assert.True(t, u.Vessels[1].Loaded())

	src, ok := u.Directory.Lookup(relay.ID)
	require.True(t, ok)
	assert.Len(t, src.LiveContainers(), 1)
}

func TestUniverseRegisterAll(t *testing.T) {
	f := newFixture(t)
	sc, err := data.ParseScenario([]byte(universeYAML))
	require.NoError(t, err)
	u := NewUniverse(sc, f.cs)

	assert.Equal(t, 2, u.RegisterAll(f.state))
	amount, capacity := f.state.GetResourceTotals(u.Vessels[0].ID, "ElectricCharge")
	assert.Equal(t, 20.0, amount)
	assert.Equal(t, 100.0, capacity)
}
