package systems

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/animares/engine/core"
)

func TestNewJobSystem(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)

	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemCallbacks(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	require.NoError(t, err)

	var ok, failed, done atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		fail := i%4 == 0
		require.NoError(t, js.Submit(JobTask{
			Name: "test",
			Run: func(ctx context.Context) error {
				if fail {
					return errors.New("boom")
				}
				return nil
			},
			OnComplete: func() { ok.Add(1) },
			OnFailure:  func(err error) { failed.Add(1) },
			OnCompletionCallback: func() {
				done.Add(1)
				wg.Done()
			},
		}))
	}
	wg.Wait()

	assert.Equal(t, int32(15), ok.Load())
	assert.Equal(t, int32(5), failed.Load())
	assert.Equal(t, int32(20), done.Load())

	require.NoError(t, js.Shutdown())
	assert.ErrorIs(t, js.Submit(JobTask{}), core.ErrShutdown)
	require.NoError(t, js.Shutdown(), "second shutdown")
}
