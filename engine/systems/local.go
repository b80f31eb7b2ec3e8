package systems

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/engine/resource"
)

type localState uint8

const (
	localLoading localState = iota
	localLoaded
	localFailed
)

type localRegistration struct {
	def  *resource.ResourceDefinition
	ctor resource.LocalConstructor
}

type localEntry struct {
	res     resource.LocalResource
	state   localState
	removed bool
}

type loadResult struct {
	entry *localEntry
	err   error
}

// LocalResourceSystem is the reader-side manager. It owns no resource
// memory: reads go to the newest snapshot taken from its subscription, and
// local instances follow the lifecycle messages published with it.
//
// Everything except the load jobs runs on the goroutine calling Update.
type LocalResourceSystem struct {
	sub     *Subscription
	jobs    *JobSystem
	events  *core.EventBus
	metrics *Metrics

	registry map[resource.ResourceType]localRegistration
	entries  map[resource.ResourceID]*localEntry
	strings  map[uint32]string
	buffers  map[uint32][]byte
	snapshot []byte
	seq      uint64
	loaded   int

	mu   sync.Mutex
	done []loadResult
}

// NewLocalResourceSystem reads from sub. A nil job system makes Load run
// synchronously inside Update.
func NewLocalResourceSystem(sub *Subscription, jobs *JobSystem, events *core.EventBus, metrics *Metrics) *LocalResourceSystem {
	if metrics == nil {
		metrics = NewMetrics(nil, "local")
	}
	return &LocalResourceSystem{
		sub:      sub,
		jobs:     jobs,
		events:   events,
		metrics:  metrics,
		registry: make(map[resource.ResourceType]localRegistration),
		entries:  make(map[resource.ResourceID]*localEntry),
		strings:  make(map[uint32]string),
		buffers:  make(map[uint32][]byte),
	}
}

// Register sets the constructor used for resources of def's type. A nil
// ctor builds plain views.
func (s *LocalResourceSystem) Register(def *resource.ResourceDefinition, ctor resource.LocalConstructor) error {
	if !def.Compiled() {
		return fmt.Errorf("%s: %w", def.Name(), resource.ErrDefinitionNotCompiled)
	}
	if prev, ok := s.registry[def.ResourceType()]; ok {
		return fmt.Errorf("resource type %d already registered by %s", def.ResourceType(), prev.def.Name())
	}
	if ctor == nil {
		ctor = func(view *resource.LocalView) resource.LocalResource { return view }
	}
	s.registry[def.ResourceType()] = localRegistration{def: def, ctor: ctor}
	return nil
}

// Update takes the newest snapshot, applies the lifecycle messages that
// belong to it and collects finished loads. It reports whether a new
// snapshot was taken.
func (s *LocalResourceSystem) Update(ctx context.Context) bool {
	snap, fresh := s.sub.TripleBuffer.Read()
	if fresh {
		s.seq = binary.LittleEndian.Uint64(snap)
		s.snapshot = snap[SnapshotHeaderSize:]
		n := s.sub.Messages.Drain(s.seq, func(m Message) {
			s.apply(ctx, m)
		})
		s.metrics.Messages.Add(float64(n))
	}
	s.collect(ctx)
	return fresh
}

func (s *LocalResourceSystem) apply(ctx context.Context, m Message) {
	switch m.Kind {
	case MessageStringSet:
		s.strings[m.Handle] = m.Text
	case MessageStringReleased:
		delete(s.strings, m.Handle)
	case MessageBufferSet:
		s.buffers[m.Handle] = m.Data
	case MessageBufferReleased:
		delete(s.buffers, m.Handle)
	case MessageResourceCreated:
		s.create(m)
	case MessageResourceDisposed:
		e := s.entries[m.ResourceID]
		if e == nil {
			return
		}
		delete(s.entries, m.ResourceID)
		e.removed = true
		if e.state == localLoaded {
			s.unload(ctx, e)
		}
	default:
		core.LogWarn("Local resource system: unknown message kind %d", m.Kind)
	}
}

func (s *LocalResourceSystem) create(m Message) {
	reg, ok := s.registry[m.ResourceType]
	if !ok {
		core.LogWarn("No local constructor for resource type %d, resource %d ignored", m.ResourceType, m.ResourceID)
		return
	}

	view := resource.NewLocalView(s, reg.def, m.ResourceID, m.Ptr)
	res := reg.ctor(view)
	if res == nil {
		res = view
	}
	e := &localEntry{res: res, state: localLoading}
	s.entries[m.ResourceID] = e

	if s.jobs == nil {
		s.finish(e, res.Load(context.Background()))
		return
	}
	err := s.jobs.Submit(JobTask{
		Name:       fmt.Sprintf("load %s#%d", reg.def.Name(), m.ResourceID),
		Run:        res.Load,
		OnComplete: func() { s.finish(e, nil) },
		OnFailure:  func(err error) { s.finish(e, err) },
	})
	if err != nil {
		s.finish(e, err)
	}
}

func (s *LocalResourceSystem) finish(e *localEntry, err error) {
	s.mu.Lock()
	s.done = append(s.done, loadResult{entry: e, err: err})
	s.mu.Unlock()
}

func (s *LocalResourceSystem) collect(ctx context.Context) {
	s.mu.Lock()
	done := s.done
	s.done = nil
	s.mu.Unlock()

	for _, r := range done {
		e := r.entry
		id, typ := e.res.ResourceID(), e.res.ResourceType()
		if r.err != nil {
			e.state = localFailed
			s.metrics.LocalFailures.Inc()
			core.LogError("Failed to load local resource %d: %s", id, r.err.Error())
			s.fire(core.EventContext{Code: core.EventResourceLoadFailed, ResourceID: uint32(id), ResourceType: uint32(typ), Err: r.err})
			continue
		}
		if e.removed {
			// removed while loading
			e.res.Dispose(ctx)
			continue
		}
		e.state = localLoaded
		s.loaded++
		s.metrics.LocalLoaded.Set(float64(s.loaded))
		s.fire(core.EventContext{Code: core.EventResourceLoaded, ResourceID: uint32(id), ResourceType: uint32(typ)})
	}
}

func (s *LocalResourceSystem) unload(ctx context.Context, e *localEntry) {
	e.res.Dispose(ctx)
	s.loaded--
	s.metrics.LocalLoaded.Set(float64(s.loaded))
	s.fire(core.EventContext{
		Code:         core.EventResourceUnloaded,
		ResourceID:   uint32(e.res.ResourceID()),
		ResourceType: uint32(e.res.ResourceType()),
	})
}

func (s *LocalResourceSystem) fire(ctx core.EventContext) {
	if s.events != nil {
		s.events.Fire(ctx, s)
	}
}

// Snapshot is the arena as of the last Update, without the header.
func (s *LocalResourceSystem) Snapshot() []byte {
	return s.snapshot
}

// GetResource returns the loaded local resource for id, or nil while it is
// unknown, loading, failed or removed.
func (s *LocalResourceSystem) GetResource(id resource.ResourceID) resource.LocalResource {
	e := s.entries[id]
	if e == nil || e.state != localLoaded {
		return nil
	}
	return e.res
}

func (s *LocalResourceSystem) GetString(handle uint32) string {
	return s.strings[handle]
}

func (s *LocalResourceSystem) GetArrayBuffer(handle uint32) []byte {
	return s.buffers[handle]
}

// Seq is the commit sequence of the snapshot in use.
func (s *LocalResourceSystem) Seq() uint64 {
	return s.seq
}

// Loaded is the number of loaded local resources.
func (s *LocalResourceSystem) Loaded() int {
	return s.loaded
}

// Shutdown disposes every loaded resource.
func (s *LocalResourceSystem) Shutdown(ctx context.Context) error {
	s.collect(ctx)
	for id, e := range s.entries {
		if e.state == localLoaded {
			s.unload(ctx, e)
		}
		delete(s.entries, id)
	}
	core.LogInfo("Local resource system shut down at snapshot %d.", s.seq)
	return nil
}
