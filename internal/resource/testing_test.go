package resource

import "github.com/bgres/server/internal/core/ids"

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

func realtime() *fakeClock   { return &fakeClock{delta: 0.02, rateIndex: 0, threshold: 3} }
func compressed() *fakeClock { return &fakeClock{delta: 20, rateIndex: 5, threshold: 3} }

func newTestPool(clock Ambient, caps ...[2]float64) (*Pool, *ContainerStore, []ContainerID) {
	cs := NewContainerStore()
	handles := make([]ContainerID, 0, len(caps))
	for i, c := range caps {
		handles = append(handles, cs.Create("ElectricCharge", c[0], c[1], ids.PartID(100+i)))
	}
	return NewPool("ElectricCharge", cs, clock, handles), cs, handles
}
