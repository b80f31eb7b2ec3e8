package resource

import (
	"encoding/binary"
	gomath "math"
)

// Stores are little-endian runs of 32-bit elements inside a resource buffer.

type element interface {
	uint32 | float32
}

func loadWord(store []byte, i uint32) uint32 {
	return binary.LittleEndian.Uint32(store[i*4:])
}

func storeWord(store []byte, i uint32, v uint32) {
	binary.LittleEndian.PutUint32(store[i*4:], v)
}

func loadElems[T element](store []byte, dst []T) {
	for i := range dst {
		w := binary.LittleEndian.Uint32(store[i*4:])
		switch p := any(&dst[i]).(type) {
		case *uint32:
			*p = w
		case *float32:
			*p = gomath.Float32frombits(w)
		}
	}
}

func storeElems[T element](store []byte, src []T) {
	for i := range src {
		var w uint32
		switch v := any(src[i]).(type) {
		case uint32:
			w = v
		case float32:
			w = gomath.Float32bits(v)
		}
		binary.LittleEndian.PutUint32(store[i*4:], w)
	}
}

func loadFloats(store []byte, n uint32) []float32 {
	out := make([]float32, n)
	loadElems(store, out)
	return out
}

func storeWords(store []byte, words []uint32) {
	storeElems(store, words)
}

func isZero(store []byte) bool {
	for _, b := range store {
		if b != 0 {
			return false
		}
	}
	return true
}
