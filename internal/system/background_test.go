package system

import (
	"testing"

	"github.com/bgres/server/internal/core/event"
	"github.com/bgres/server/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchPolicyGate(t *testing.T) {
	tests := []struct {
		name   string
		policy handler.Policy
		want   []string
		denied int
	}{
		{"all on", allOn, []string{"prod", "cons", "both"}, 0},
		{"master off", handler.Policy{Produce: true, Consume: true}, nil, 0},
		{"no produce", handler.Policy{Enabled: true, Consume: true}, []string{"cons"}, 2},
		{"no consume", handler.Policy{Enabled: true, Produce: true}, []string{"prod"}, 2},
		{"neither", handler.Policy{Enabled: true}, nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.define("prod", handler.Producer, nil)
			f.define("cons", handler.Consumer, nil)
			f.define("both", handler.Both, nil)
			f.vessel("relay", false, 0, 10, "prod", "cons", "both")

			st := f.dispatcher(tt.policy).Dispatch()
			assert.Equal(t, tt.want, f.calls)
			assert.Equal(t, tt.denied, st.Denied)
			assert.Equal(t, len(tt.want), st.Handlers)
		})
	}
}

func TestDispatchIsolatesPanics(t *testing.T) {
	f := newFixture(t)
	f.define("first", handler.Producer, nil)
	f.define("boom", handler.Producer, func(handler.Owner) { panic("bad curve") })
	f.define("last", handler.Producer, nil)
	f.define("other", handler.Consumer, nil)
	a := f.vessel("a", false, 0, 10, "first", "boom", "last")
	f.vessel("b", false, 0, 10, "other")

	var faults []event.HandlerFault
	event.Subscribe(f.bus, func(e event.HandlerFault) { faults = append(faults, e) })

	bg := f.dispatcher(allOn)
	bg.Update(0)
	st := bg.LastStats()

	assert.Equal(t, []string{"first", "boom", "last", "other"}, f.calls)
	assert.Equal(t, 1, st.Faults)
	assert.Equal(t, 3, st.Handlers)
	assert.Equal(t, 2, st.Vessels)

	f.bus.SwapBuffers()
	f.bus.DispatchAll()
	require.Len(t, faults, 1)
	assert.Equal(t, a.ID(), faults[0].Vessel)
	assert.Equal(t, "bad curve", faults[0].Reason)
}

func TestDispatchSkipsEmptyAndLoaded(t *testing.T) {
	f := newFixture(t)
	f.define("gen", handler.Producer, nil)
	f.clock.SetRateIndex(5)
	f.clock.Advance()

	f.vessel("empty", false, 0, 10)
	loaded := f.vessel("active", true, 10, 10, "gen")
	require.Equal(t, 5.0, loaded.Push(ec, 5))
	require.Greater(t, loaded.Pool(ec).Overflow().Total(), 0.0)

	st := f.dispatcher(allOn).Dispatch()

	assert.Empty(t, f.calls)
	assert.Equal(t, 2, st.Skipped)
	assert.Equal(t, 0, st.Vessels)
	assert.Equal(t, 0.0, loaded.Pool(ec).Overflow().Total())
	assert.Equal(t, 2, f.state.Count(), "skipped vessels stay registered")
}

func TestDispatchRefreshesBeforeHandlers(t *testing.T) {
	f := newFixture(t)
	var seen float64
	f.define("observe", handler.Consumer, func(o handler.Owner) { seen = o.Available(ec) })

	f.clock.SetRateIndex(5)
	f.clock.Advance()
	v := f.vessel("relay", false, 10, 10, "observe")
	require.Equal(t, 5.0, v.Push(ec, 5))
	require.Equal(t, 15.0, v.Available(ec))

	// Older than the four-tick window by the time dispatch runs.
	for i := 0; i < 5; i++ {
		f.clock.Advance()
	}
	f.dispatcher(allOn).Dispatch()

	assert.Equal(t, 10.0, seen)
	assert.Equal(t, f.clock.Now(), v.LastRefresh())
}

func TestDispatchHandlersSeeEarlierMutations(t *testing.T) {
	f := newFixture(t)
	var seen float64
	f.define("fill", handler.Producer, func(o handler.Owner) { o.Push(ec, 4) })
	f.define("drain", handler.Consumer, func(o handler.Owner) { o.Take(ec, 1) })
	f.define("read", handler.Consumer, func(o handler.Owner) { seen = o.Available(ec) })
	f.vessel("relay", false, 2, 10, "fill", "drain", "read")

	f.dispatcher(allOn).Dispatch()
	assert.Equal(t, 5.0, seen)
}

func TestSetPolicyAppliesNextDispatch(t *testing.T) {
	f := newFixture(t)
	f.define("gen", handler.Producer, nil)
	f.vessel("relay", false, 0, 10, "gen")

	bg := f.dispatcher(allOn)
	bg.SetPolicy(handler.Policy{})
	assert.False(t, bg.Policy().Enabled)
	assert.Equal(t, DispatchStats{}, bg.Dispatch())
	assert.Empty(t, f.calls)
}
