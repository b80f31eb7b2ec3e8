package core

import (
	"fmt"
	"sync"
)

// HandleAllocator hands out 32-bit handles and recycles released ones.
// Handle 0 is never issued; it means "empty" wherever a handle is stored.
type HandleAllocator struct {
	mu     sync.Mutex
	owners []interface{}
	free   []uint32
}

func NewHandleAllocator(capacity int) *HandleAllocator {
	if capacity < 1 {
		capacity = 1
	}
	owners := make([]interface{}, 1, capacity+1)
	return &HandleAllocator{owners: owners}
}

// Acquire returns a handle bound to owner. Released slots are taken first.
func (h *HandleAllocator) Acquire(owner interface{}) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.free); n > 0 {
		id := h.free[n-1]
		h.free = h.free[:n-1]
		h.owners[id] = owner
		return id
	}

	// No free slot, push a new one.
	h.owners = append(h.owners, owner)
	return uint32(len(h.owners) - 1)
}

// Owner returns whatever was bound to id, or nil.
func (h *HandleAllocator) Owner(id uint32) interface{} {
	h.mu.Lock()
	defer h.mu.Unlock()

	if id == 0 || int(id) >= len(h.owners) {
		return nil
	}
	return h.owners[id]
}

// Release makes id available again.
func (h *HandleAllocator) Release(id uint32) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	length := uint32(len(h.owners))
	if id == 0 || id >= length {
		return fmt.Errorf("handle '%d' out of range (max=%d). Nothing was done", id, length)
	}
	if h.owners[id] == nil {
		return fmt.Errorf("handle '%d' already released. Nothing was done", id)
	}

	h.owners[id] = nil
	h.free = append(h.free, id)
	return nil
}

// Len is the number of live handles.
func (h *HandleAllocator) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.owners) - 1 - len(h.free)
}

// Each calls fn for every live handle in ascending order. fn must not call
// back into the allocator.
func (h *HandleAllocator) Each(fn func(id uint32, owner interface{})) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id := 1; id < len(h.owners); id++ {
		if h.owners[id] != nil {
			fn(uint32(id), h.owners[id])
		}
	}
}
