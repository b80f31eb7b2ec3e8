package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueue(t *testing.T) {
	t.Run("FIFO order", func(t *testing.T) {
		q := NewRingQueue[int](4)
		for i := 0; i < 3; i++ {
			q.Enqueue(i)
		}
		for i := 0; i < 3; i++ {
			v, err := q.Dequeue()
			require.NoError(t, err)
			assert.Equal(t, i, v)
		}
		assert.True(t, q.IsEmpty())
	})

	t.Run("Grows when full", func(t *testing.T) {
		q := NewRingQueue[int](2)
		q.Enqueue(1)
		q.Enqueue(2)
		v, _ := q.Dequeue()
		assert.Equal(t, 1, v)
		q.Enqueue(3)
		q.Enqueue(4) // wraps, then grows
		q.Enqueue(5)
		assert.Equal(t, 4, q.Len())
		for _, want := range []int{2, 3, 4, 5} {
			got, err := q.Dequeue()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Empty errors", func(t *testing.T) {
		q := NewRingQueue[string](1)
		_, err := q.Dequeue()
		assert.ErrorIs(t, err, ErrQueueEmpty)
		_, err = q.Peek()
		assert.ErrorIs(t, err, ErrQueueEmpty)
	})

	t.Run("Peek does not remove", func(t *testing.T) {
		q := NewRingQueue[string](1)
		q.Enqueue("a")
		v, err := q.Peek()
		require.NoError(t, err)
		assert.Equal(t, "a", v)
		assert.Equal(t, 1, q.Len())
	})
}
