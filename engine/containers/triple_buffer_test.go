package containers

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripleBufferHandOff(t *testing.T) {
	tb := NewTripleBuffer(4)

	_, changed := tb.Read()
	assert.False(t, changed, "nothing published yet")

	copy(tb.WriteBuffer(), []byte{1, 2, 3, 4})
	tb.Swap()

	snap, changed := tb.Read()
	require.True(t, changed)
	assert.Equal(t, []byte{1, 2, 3, 4}, snap)

	// No new swap: same snapshot, not changed.
	again, changed := tb.Read()
	assert.False(t, changed)
	assert.Equal(t, snap, again)

	// Two swaps before a read: the reader only sees the newest.
	copy(tb.WriteBuffer(), []byte{5, 5, 5, 5})
	tb.Swap()
	copy(tb.WriteBuffer(), []byte{6, 6, 6, 6})
	tb.Swap()
	snap, changed = tb.Read()
	require.True(t, changed)
	assert.Equal(t, []byte{6, 6, 6, 6}, snap)
}

func TestTripleBufferWriterNeverTouchesReaderSlot(t *testing.T) {
	tb := NewTripleBuffer(8)
	copy(tb.WriteBuffer(), []byte{9, 9, 9, 9, 9, 9, 9, 9})
	tb.Swap()
	held, _ := tb.Read()

	for i := 0; i < 10; i++ {
		w := tb.WriteBuffer()
		for j := range w {
			w[j] = byte(i)
		}
		tb.Swap()
	}
	assert.Equal(t, []byte{9, 9, 9, 9, 9, 9, 9, 9}, held)
}

// A reader must never observe a torn snapshot or a write issued after it
// took its snapshot, even while the writer keeps going.
func TestTripleBufferSnapshotIsolation(t *testing.T) {
	const size = 4096
	tb := NewTripleBuffer(size)

	var stop atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for v := byte(1); !stop.Load(); v++ {
			w := tb.WriteBuffer()
			for i := range w {
				w[i] = v
			}
			tb.Swap()
		}
	}()

	for n := 0; n < 2000; n++ {
		snap, _ := tb.Read()
		first := snap[0]
		for i := 1; i < size; i++ {
			if snap[i] != first {
				stop.Store(true)
				wg.Wait()
				t.Fatalf("torn snapshot: byte %d is %d, byte 0 is %d", i, snap[i], first)
			}
		}
	}
	stop.Store(true)
	wg.Wait()
}
