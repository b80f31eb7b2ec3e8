package containers

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

var ErrArenaExhausted = errors.New("arena exhausted")

// ArenaBacking selects where the arena bytes live.
type ArenaBacking string

const (
	// Plain Go heap slice.
	ArenaBackingHeap ArenaBacking = "heap"
	// Anonymous shared mapping.
	ArenaBackingMmap ArenaBacking = "mmap"
	// Mapping of a file on disk, so another process can map the same layout.
	ArenaBackingFile ArenaBacking = "file"
)

type ArenaConfig struct {
	Capacity uint32
	Backing  ArenaBacking
	// Path is only used by ArenaBackingFile.
	Path string
}

// Arena is a fixed-capacity byte region carved into 4-byte aligned blocks.
// Freed blocks are kept in per-size free lists and handed out again to
// requests of the same size. Blocks are zero on Alloc.
type Arena struct {
	mu       sync.Mutex
	data     []byte
	mapped   mmap.MMap
	file     *os.File
	cursor   uint32
	inUse    uint32
	free     map[uint32][]uint32
	capacity uint32
	backing  ArenaBacking
}

func NewArena(config ArenaConfig) (*Arena, error) {
	a := &Arena{
		free:     make(map[uint32][]uint32),
		capacity: config.Capacity,
		backing:  config.Backing,
	}
	if a.backing == "" {
		a.backing = ArenaBackingHeap
	}
	if config.Capacity == 0 {
		return nil, fmt.Errorf("arena capacity must be greater than zero")
	}

	switch config.Backing {
	case "", ArenaBackingHeap:
		a.data = make([]byte, config.Capacity)
	case ArenaBackingMmap:
		m, err := mmap.MapRegion(nil, int(config.Capacity), mmap.RDWR, mmap.ANON, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to map anonymous arena: %w", err)
		}
		a.mapped = m
		a.data = m
	case ArenaBackingFile:
		f, err := os.OpenFile(config.Path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			return nil, err
		}
		if err := f.Truncate(int64(config.Capacity)); err != nil {
			f.Close()
			return nil, err
		}
		m, err := mmap.MapRegion(f, int(config.Capacity), mmap.RDWR, 0, 0)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to map arena file %s: %w", config.Path, err)
		}
		// A reused file may hold a previous run's layout.
		clear(m)
		a.file = f
		a.mapped = m
		a.data = m
	default:
		return nil, fmt.Errorf("unknown arena backing %q", config.Backing)
	}
	return a, nil
}

func alignWord(size uint32) uint32 {
	return (size + 3) &^ 3
}

// Alloc reserves a zeroed block of size bytes and returns its offset.
func (a *Arena) Alloc(size uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	size = alignWord(size)
	if size == 0 {
		return a.cursor, nil
	}

	if list := a.free[size]; len(list) > 0 {
		ptr := list[len(list)-1]
		a.free[size] = list[:len(list)-1]
		clear(a.data[ptr : ptr+size])
		a.inUse += size
		return ptr, nil
	}

	if uint64(a.cursor)+uint64(size) > uint64(a.capacity) {
		return 0, fmt.Errorf("%w: need %d bytes, %d left", ErrArenaExhausted, size, a.capacity-a.cursor)
	}
	ptr := a.cursor
	a.cursor += size
	a.inUse += size
	return ptr, nil
}

// Free zeroes the block and makes it available to Alloc calls of the same size.
func (a *Arena) Free(ptr, size uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	size = alignWord(size)
	if size == 0 {
		return
	}
	clear(a.data[ptr : ptr+size])
	a.free[size] = append(a.free[size], ptr)
	a.inUse -= size
}

// Region returns the block at ptr as a slice aliasing the arena.
func (a *Arena) Region(ptr, size uint32) []byte {
	end := ptr + size
	return a.data[ptr:end:end]
}

// Bytes returns the whole arena.
func (a *Arena) Bytes() []byte {
	return a.data
}

// Used is the high-water mark of the arena, the only part worth copying.
func (a *Arena) Used() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cursor
}

// InUse is the number of bytes held by live blocks.
func (a *Arena) InUse() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

func (a *Arena) Capacity() uint32 {
	return a.capacity
}

func (a *Arena) Backing() ArenaBacking {
	return a.backing
}

func (a *Arena) Close() error {
	var err error
	if a.mapped != nil {
		err = a.mapped.Unmap()
		a.mapped = nil
	}
	if a.file != nil {
		if cerr := a.file.Close(); err == nil {
			err = cerr
		}
		a.file = nil
	}
	a.data = nil
	return err
}
