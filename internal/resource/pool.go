package resource

// Ambient is the slice of simulation time a pool needs. warp.Clock
// implements it.
type Ambient interface {
	Now() float64
	Delta() float64
	RateIndex() int
	Threshold() int
}

func buffering(a Ambient) bool { return a.RateIndex() > a.Threshold() }

// Pool aggregates every container of one resource on one vessel.
//
// The aggregate amount is the sum of member container amounts only. Overflow
// credit is tracked by the buffer and counted as available solely while
// time is compressed past the threshold.
type Pool struct {
	resource   string
	containers *ContainerStore
	clock      Ambient
	members    []ContainerID
	amount     float64
	capacity   float64
	overflow   *OverflowBuffer
}

// NewPool builds a pool over members, in the given order.
func NewPool(resource string, containers *ContainerStore, clock Ambient, members []ContainerID) *Pool {
	p := &Pool{
		resource:   resource,
		containers: containers,
		clock:      clock,
		overflow:   NewOverflowBuffer(clock.Threshold()),
	}
	p.Reset(members)
	return p
}

// Reset replaces the membership and recounts aggregates. Overflow credit is
// left untouched.
func (p *Pool) Reset(members []ContainerID) {
	p.members = append(p.members[:0], members...)
	p.Recount()
}

// Recount recomputes the aggregates from live members.
func (p *Pool) Recount() {
	p.amount, p.capacity = 0, 0
	for _, id := range p.members {
		c, ok := p.containers.Get(id)
		if !ok {
			continue
		}
		p.amount += c.Amount
		p.capacity += c.Capacity
	}
}

func (p *Pool) Resource() string          { return p.resource }
func (p *Pool) Amount() float64           { return p.amount }
func (p *Pool) Capacity() float64         { return p.capacity }
func (p *Pool) Overflow() *OverflowBuffer { return p.overflow }
func (p *Pool) Len() int                  { return len(p.members) }

// Spare is the free container capacity across the pool.
func (p *Pool) Spare() float64 {
	s := p.capacity - p.amount
	if s < 0 {
		return 0
	}
	return s
}

// Members returns a copy of the member handles in distribution order.
func (p *Pool) Members() []ContainerID {
	out := make([]ContainerID, len(p.members))
	copy(out, p.members)
	return out
}

// Available is what a Take could draw right now.
func (p *Pool) Available() float64 {
	if buffering(p.clock) {
		return p.amount + p.overflow.Total()
	}
	return p.amount
}

// RefreshOverflow expires or settles overflow credit for the current tick.
func (p *Pool) RefreshOverflow() {
	p.overflow.Refresh(p.clock.Now(), p.clock.RateIndex(), p.clock.Delta())
}

// Take draws up to amount out of the pool and returns what was received.
// A shortfall is reported only through the return value. Non-positive,
// NaN and infinite requests return 0 and change nothing.
func (p *Pool) Take(amount float64) float64 {
	if !usable(amount) {
		return 0
	}
	remaining := amount
	if buffering(p.clock) && p.overflow.Total() > 0 {
		remaining -= p.overflow.Take(remaining)
	}
	for _, id := range p.members {
		if remaining <= 0 {
			break
		}
		c, ok := p.containers.Get(id)
		if !ok || c.Amount <= 0 {
			continue
		}
		if c.Amount <= remaining {
			got := c.Amount
			c.Amount = 0
			p.amount -= got
			remaining -= got
			continue
		}
		c.Amount -= remaining
		p.amount -= remaining
		remaining = 0
	}
	if p.amount < 0 {
		p.amount = 0
	}
	if remaining <= 0 {
		return amount
	}
	return amount - remaining
}

// Push offers amount to the pool and returns what was accepted. Surplus
// beyond container capacity becomes overflow credit while time is compressed
// and is discarded otherwise.
func (p *Pool) Push(amount float64) float64 {
	if !usable(amount) {
		return 0
	}
	remaining := amount
	for _, id := range p.members {
		if remaining <= 0 {
			break
		}
		c, ok := p.containers.Get(id)
		if !ok {
			continue
		}
		spare := c.Capacity - c.Amount
		if spare <= 0 {
			continue
		}
		if remaining >= spare {
			c.Amount = c.Capacity
			p.amount += spare
			remaining -= spare
			continue
		}
		c.Amount += remaining
		if c.Amount > c.Capacity {
			c.Amount = c.Capacity
		}
		p.amount += remaining
		remaining = 0
	}
	if p.amount > p.capacity {
		p.amount = p.capacity
	}
	if remaining > 0 && buffering(p.clock) {
		p.overflow.Add(remaining, p.clock.Now())
		remaining = 0
	}
	if remaining <= 0 {
		return amount
	}
	return amount - remaining
}
