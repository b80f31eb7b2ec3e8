package containers

import "sync/atomic"

// State word layout:
//
//	bits 0-1  slot owned by the writer
//	bits 2-3  slot last published (ready)
//	bits 4-5  slot owned by the reader
//	bit  6    ready slot holds data the reader has not taken yet
const (
	tbWriteShift = 0
	tbReadyShift = 2
	tbReadShift  = 4
	tbSlotMask   = 0x3
	tbFresh      = 1 << 6
)

// TripleBuffer lets exactly one writer and one reader exchange fixed-size
// byte snapshots without locks. The writer fills WriteBuffer and calls Swap;
// the reader calls Read and keeps using the returned slice until its next
// Read. A slot held by the reader is never handed to the writer.
type TripleBuffer struct {
	buffers [3][]byte
	state   atomic.Uint32
	size    int
}

func NewTripleBuffer(size int) *TripleBuffer {
	tb := &TripleBuffer{size: size}
	for i := range tb.buffers {
		tb.buffers[i] = make([]byte, size)
	}
	tb.state.Store(0<<tbWriteShift | 1<<tbReadyShift | 2<<tbReadShift)
	return tb
}

func (tb *TripleBuffer) Size() int {
	return tb.size
}

// WriteBuffer is the slot the writer may fill. Writer side only.
func (tb *TripleBuffer) WriteBuffer() []byte {
	s := tb.state.Load()
	return tb.buffers[(s>>tbWriteShift)&tbSlotMask]
}

// Swap publishes the write slot and hands the previously ready slot back
// to the writer. Writer side only.
func (tb *TripleBuffer) Swap() {
	for {
		old := tb.state.Load()
		write := (old >> tbWriteShift) & tbSlotMask
		ready := (old >> tbReadyShift) & tbSlotMask
		read := (old >> tbReadShift) & tbSlotMask
		next := ready<<tbWriteShift | write<<tbReadyShift | read<<tbReadShift | tbFresh
		if tb.state.CompareAndSwap(old, next) {
			return
		}
	}
}

// Read returns the newest published snapshot and whether it changed since
// the previous Read. Reader side only.
func (tb *TripleBuffer) Read() ([]byte, bool) {
	for {
		old := tb.state.Load()
		read := (old >> tbReadShift) & tbSlotMask
		if old&tbFresh == 0 {
			return tb.buffers[read], false
		}
		write := (old >> tbWriteShift) & tbSlotMask
		ready := (old >> tbReadyShift) & tbSlotMask
		next := write<<tbWriteShift | read<<tbReadyShift | ready<<tbReadShift
		if tb.state.CompareAndSwap(old, next) {
			return tb.buffers[ready], true
		}
	}
}
