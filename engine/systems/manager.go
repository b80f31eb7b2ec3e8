package systems

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spaghettifunk/animares/engine/core"
)

type SystemManagerConfig struct {
	Remote       RemoteResourceSystemConfig
	JobWorkers   int
	JobQueueSize int
	// Registerer receives the resource metrics; nil keeps them unexported.
	Registerer prometheus.Registerer
}

// SystemManager owns the resource systems of one engine instance and the
// plumbing shared between them.
type SystemManager struct {
	sessionID    uuid.UUID
	events       *core.EventBus
	metrics      *Metrics
	jobSystem    *JobSystem
	remoteSystem *RemoteResourceSystem
	localSystem  *LocalResourceSystem

	mu         sync.Mutex
	handleMaps map[string]*HandleMap
}

func NewSystemManager(config SystemManagerConfig, events *core.EventBus) (*SystemManager, error) {
	if events == nil {
		events = core.NewEventBus()
	}
	if config.JobWorkers == 0 {
		config.JobWorkers = 1
	}

	sessionID := uuid.New()
	metrics := NewMetrics(config.Registerer, sessionID.String())

	js, err := NewJobSystem(config.JobWorkers, config.JobQueueSize)
	if err != nil {
		return nil, err
	}
	rs, err := NewRemoteResourceSystem(config.Remote, events, metrics)
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}
	ls := NewLocalResourceSystem(rs.Primary(), js, events, metrics)

	return &SystemManager{
		sessionID:    sessionID,
		events:       events,
		metrics:      metrics,
		jobSystem:    js,
		remoteSystem: rs,
		localSystem:  ls,
		handleMaps:   make(map[string]*HandleMap),
	}, nil
}

func (sm *SystemManager) SessionID() uuid.UUID {
	return sm.sessionID
}

func (sm *SystemManager) Events() *core.EventBus {
	return sm.events
}

func (sm *SystemManager) Metrics() *Metrics {
	return sm.metrics
}

func (sm *SystemManager) Jobs() *JobSystem {
	return sm.jobSystem
}

func (sm *SystemManager) Remote() *RemoteResourceSystem {
	return sm.remoteSystem
}

func (sm *SystemManager) Local() *LocalResourceSystem {
	return sm.localSystem
}

// HandleMap returns the map named name, creating it on first use. Bindings
// are dropped automatically when their resource is released.
func (sm *SystemManager) HandleMap(name string) *HandleMap {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if m, ok := sm.handleMaps[name]; ok {
		return m
	}
	m := NewHandleMap(name)
	m.Watch(sm.events)
	sm.handleMaps[name] = m
	return m
}

// Shutdown stops the job workers first so no load finishes after the local
// system has disposed its resources.
func (sm *SystemManager) Shutdown(ctx context.Context) error {
	var errs []error
	if err := sm.jobSystem.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if err := sm.localSystem.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := sm.remoteSystem.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
