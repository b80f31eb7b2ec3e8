package systems

import (
	"context"
	"fmt"
	"sync"

	"github.com/spaghettifunk/animares/engine/core"
)

// JobTask is a unit of work for the job system. Run is required; the
// callbacks run on the worker goroutine right after it.
type JobTask struct {
	Name                 string
	Run                  func(ctx context.Context) error
	OnComplete           func()
	OnFailure            func(err error)
	OnCompletionCallback func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.RWMutex
	closed     bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	js.start()

	core.LogDebug("Job system started with %d workers", numWorkers)
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job JobTask) {
	var err error
	if job.Run != nil {
		err = job.Run(js.ctx)
	}
	if err != nil {
		core.LogError("job %s failed: %s", job.Name, err.Error())
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
	} else if job.OnComplete != nil {
		job.OnComplete()
	}

	if job.OnCompletionCallback != nil {
		job.OnCompletionCallback()
	}
}

// Shutdown stops accepting work, cancels the context handed to running
// jobs and waits for the workers to drain the queue.
func (js *JobSystem) Shutdown() error {
	js.cancel()
	js.mu.Lock()
	if !js.closed {
		js.closed = true
		close(js.jobQueue)
	}
	js.mu.Unlock()
	js.wg.Wait()
	return nil
}

// Submit queues jt for execution. It blocks while the queue is full.
func (js *JobSystem) Submit(jt JobTask) error {
	js.mu.RLock()
	defer js.mu.RUnlock()
	if js.closed {
		return core.ErrShutdown
	}
	js.jobQueue <- jt
	return nil
}
