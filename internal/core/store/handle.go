package store

// Handle encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy to invalidate stale refs.
type Handle uint64

func NewHandle(index uint32, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }

// Allocator hands out generational handles with a free list.
type Allocator struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewAllocator() *Allocator {
	return &Allocator{
		generations: make([]uint32, 0, 256),
		freeList:    make([]uint32, 0, 64),
	}
}

func (a *Allocator) Create() Handle {
	if len(a.freeList) > 0 {
		idx := a.freeList[len(a.freeList)-1]
		a.freeList = a.freeList[:len(a.freeList)-1]
		return NewHandle(idx, a.generations[idx])
	}
	idx := a.nextIndex
	a.nextIndex++
	if int(idx) >= len(a.generations) {
		a.generations = append(a.generations, 0)
	}
	return NewHandle(idx, a.generations[idx])
}

func (a *Allocator) Alive(h Handle) bool {
	idx := h.Index()
	if idx >= a.nextIndex {
		return false
	}
	return a.generations[idx] == h.Generation()
}

// Destroy retires h. Destroying a stale handle is a no-op.
func (a *Allocator) Destroy(h Handle) bool {
	if !a.Alive(h) {
		return false
	}
	idx := h.Index()
	a.generations[idx]++
	a.freeList = append(a.freeList, idx)
	return true
}
