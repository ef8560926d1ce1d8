package resource

import (
	"github.com/bgres/server/internal/core/ids"
	"github.com/bgres/server/internal/core/store"
)

// ContainerID is a generational handle into a ContainerStore. Pools keep
// handles, never pointers, so a part removed by the host cannot be written
// through a stale reference.
type ContainerID = store.Handle

// Container is one part's store of one resource.
type Container struct {
	Resource string
	Amount   float64
	Capacity float64
	Part     ids.PartID
}

// Spare returns the free capacity, never negative.
func (c *Container) Spare() float64 {
	s := c.Capacity - c.Amount
	if s < 0 {
		return 0
	}
	return s
}

// ContainerStore owns every container the host has declared.
type ContainerStore struct {
	alloc *store.Allocator
	data  *store.Store[Container]
}

func NewContainerStore() *ContainerStore {
	return &ContainerStore{
		alloc: store.NewAllocator(),
		data:  store.New[Container](),
	}
}

// Create declares a container. Amount is clamped into [0, capacity].
func (s *ContainerStore) Create(resource string, amount, capacity float64, part ids.PartID) ContainerID {
	if !(capacity > 0) {
		capacity = 0
	}
	id := s.alloc.Create()
	s.data.Set(id, &Container{
		Resource: resource,
		Amount:   clamp(amount, 0, capacity),
		Capacity: capacity,
		Part:     part,
	})
	return id
}

// Get returns the live container for id.
func (s *ContainerStore) Get(id ContainerID) (*Container, bool) {
	if !s.alloc.Alive(id) {
		return nil, false
	}
	return s.data.Get(id)
}

func (s *ContainerStore) Alive(id ContainerID) bool { return s.alloc.Alive(id) }
func (s *ContainerStore) Len() int                  { return s.data.Len() }

// Destroy retires a container when the host removes its part.
func (s *ContainerStore) Destroy(id ContainerID) bool {
	if !s.alloc.Destroy(id) {
		return false
	}
	s.data.Remove(id)
	return true
}

// SetAmount overwrites the stored amount (host edits, save restore).
func (s *ContainerStore) SetAmount(id ContainerID, amount float64) bool {
	c, ok := s.Get(id)
	if !ok {
		return false
	}
	c.Amount = clamp(amount, 0, c.Capacity)
	return true
}

func clamp(v, lo, hi float64) float64 {
	if !(v > lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
