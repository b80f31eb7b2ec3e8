package systems

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/spaghettifunk/animares/engine/containers"
	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/engine/resource"
)

// SnapshotHeaderSize is the number of bytes in front of the arena copy in
// every published snapshot. It holds the commit sequence, little-endian.
const SnapshotHeaderSize = 8

var ErrResourceLimit = errors.New("resource limit reached")

type RemoteResourceSystemConfig struct {
	Arena containers.ArenaConfig
	// MaxResources caps the live resource count, 0 means no cap.
	MaxResources uint32
	// QueueSize is the initial capacity of each message channel.
	QueueSize int
}

// Subscription is one reader's end of the system: snapshots arrive through
// the triple buffer and lifecycle messages through the channel.
type Subscription struct {
	TripleBuffer *containers.TripleBuffer
	Messages     *MessageChannel

	// messages queued before the subscription existed are already folded
	// into its replay
	skip int
}

type resourceRecord struct {
	resource   *resource.RemoteResource
	refCount   int32
	structRefs int32
	disposed   bool
	released   bool
	// owners whose backRef properties point here, one entry per slot
	backRefs []resource.ResourceID
}

// RemoteResourceSystem is the writer-side resource manager. Resources live
// in one arena that Commit copies into every subscriber's triple buffer.
type RemoteResourceSystem struct {
	mu sync.Mutex

	id        uuid.UUID
	config    RemoteResourceSystemConfig
	arena     *containers.Arena
	primary   *Subscription
	subs      []*Subscription
	resources map[resource.ResourceID]*resourceRecord
	lastID    resource.ResourceID
	strings   *core.HandleAllocator
	buffers   *core.HandleAllocator
	pending   []Message
	seq       uint64
	backRefs  int
	disposing int

	events  *core.EventBus
	metrics *Metrics
	fired   []core.EventContext
}

func NewRemoteResourceSystem(config RemoteResourceSystemConfig, events *core.EventBus, metrics *Metrics) (*RemoteResourceSystem, error) {
	arena, err := containers.NewArena(config.Arena)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote resource system: %w", err)
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 64
	}

	id := uuid.New()
	if metrics == nil {
		metrics = NewMetrics(nil, id.String())
	}

	s := &RemoteResourceSystem{
		id:        id,
		config:    config,
		arena:     arena,
		resources: make(map[resource.ResourceID]*resourceRecord),
		strings:   core.NewHandleAllocator(64),
		buffers:   core.NewHandleAllocator(16),
		events:    events,
		metrics:   metrics,
	}
	s.primary = s.newSubscription()
	s.subs = []*Subscription{s.primary}

	core.LogInfo("Remote resource system %s initialized with a %s %s arena.",
		id, humanize.IBytes(uint64(arena.Capacity())), arena.Backing())
	return s, nil
}

func (s *RemoteResourceSystem) newSubscription() *Subscription {
	return &Subscription{
		TripleBuffer: containers.NewTripleBuffer(SnapshotHeaderSize + int(s.arena.Capacity())),
		Messages:     NewMessageChannel(s.config.QueueSize),
	}
}

// unlock releases the mutex and fires the events collected while holding it,
// so listeners may call back into the system.
func (s *RemoteResourceSystem) unlock() {
	fired := s.fired
	s.fired = nil
	s.mu.Unlock()

	if s.events == nil {
		return
	}
	for _, ctx := range fired {
		s.events.Fire(ctx, s)
	}
}

func (s *RemoteResourceSystem) ID() uuid.UUID {
	return s.id
}

// Primary is the subscription created with the system.
func (s *RemoteResourceSystem) Primary() *Subscription {
	return s.primary
}

// Subscribe adds a reader. The first snapshot it sees is preceded by
// messages recreating every live string, buffer and resource.
func (s *RemoteResourceSystem) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.unlock()

	sub := s.newSubscription()
	sub.skip = len(s.pending)

	next := s.seq + 1
	var replay []Message
	s.strings.Each(func(h uint32, owner interface{}) {
		replay = append(replay, Message{Seq: next, Kind: MessageStringSet, Handle: h, Text: owner.(string)})
	})
	s.buffers.Each(func(h uint32, owner interface{}) {
		replay = append(replay, Message{Seq: next, Kind: MessageBufferSet, Handle: h, Data: owner.([]byte)})
	})
	ids := make([]resource.ResourceID, 0, len(s.resources))
	for id := range s.resources {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		r := s.resources[id].resource
		replay = append(replay, Message{Seq: next, Kind: MessageResourceCreated, ResourceID: id, ResourceType: r.ResourceType(), Ptr: r.Ptr()})
	}
	sub.Messages.Send(replay...)

	s.subs = append(s.subs, sub)
	core.LogDebug("Remote resource system %s: new subscriber, replayed %d messages", s.id, len(replay))
	return sub
}

func (s *RemoteResourceSystem) enqueue(m Message) {
	s.pending = append(s.pending, m)
}

func (s *RemoteResourceSystem) fire(code core.EventCode, id resource.ResourceID, t resource.ResourceType) {
	s.fired = append(s.fired, core.EventContext{Code: code, ResourceID: uint32(id), ResourceType: uint32(t)})
}

func (s *RemoteResourceSystem) AllocateResource(def *resource.ResourceDefinition) (resource.ResourceData, error) {
	s.mu.Lock()
	defer s.unlock()

	if s.config.MaxResources > 0 && uint32(len(s.resources)) >= s.config.MaxResources {
		return resource.ResourceData{}, fmt.Errorf("%w: %d", ErrResourceLimit, s.config.MaxResources)
	}
	ptr, err := s.arena.Alloc(def.ByteLength())
	if err != nil {
		return resource.ResourceData{}, err
	}
	s.metrics.ArenaBytesInUse.Set(float64(s.arena.InUse()))

	return resource.ResourceData{
		Ptr:          ptr,
		Buffer:       s.arena.Bytes(),
		TripleBuffer: s.primary.TripleBuffer,
	}, nil
}

func (s *RemoteResourceSystem) CreateResource(r *resource.RemoteResource) resource.ResourceID {
	s.mu.Lock()
	defer s.unlock()

	s.lastID++
	id := s.lastID
	s.resources[id] = &resourceRecord{resource: r}

	for i, p := range r.Definition().Props() {
		if p.Type == resource.PropRef && p.BackRef {
			if target := word(r.Store(i), 0); target != 0 {
				s.addBackRef(resource.ResourceID(target), id)
			}
		}
	}

	s.enqueue(Message{Kind: MessageResourceCreated, ResourceID: id, ResourceType: r.ResourceType(), Ptr: r.Ptr()})
	s.fire(core.EventResourceCreated, id, r.ResourceType())
	s.metrics.Created.Inc()
	s.metrics.LiveResources.Set(float64(len(s.resources)))
	return id
}

func (s *RemoteResourceSystem) DisposeResource(id resource.ResourceID) bool {
	s.mu.Lock()
	defer s.unlock()

	rec := s.resources[id]
	if rec == nil || rec.disposed {
		return false
	}
	rec.disposed = true
	s.disposing++

	r := rec.resource
	for i, p := range r.Definition().Props() {
		if p.Type == resource.PropRef && p.BackRef {
			if target := word(r.Store(i), 0); target != 0 {
				s.removeBackRef(resource.ResourceID(target), id)
			}
		}
	}
	prev := r.PrevRefs()
	r.SetPrevRefs(nil)
	for _, ref := range prev {
		s.dropStructRef(ref)
	}

	s.maybeRelease(id, rec)
	s.metrics.PendingDisposal.Set(float64(s.disposing))
	return true
}

func (s *RemoteResourceSystem) AddRef(id resource.ResourceID) {
	s.mu.Lock()
	defer s.unlock()

	rec := s.resources[id]
	if rec == nil {
		core.LogWarn("AddRef on unknown resource %d", id)
		return
	}
	rec.refCount++
}

func (s *RemoteResourceSystem) RemoveRef(id resource.ResourceID) {
	s.mu.Lock()
	defer s.unlock()

	rec := s.resources[id]
	if rec == nil {
		return
	}
	if rec.refCount == 0 {
		core.LogWarn("RemoveRef on resource %d without a matching AddRef", id)
		return
	}
	rec.refCount--
	s.maybeRelease(id, rec)
	s.metrics.PendingDisposal.Set(float64(s.disposing))
}

func (s *RemoteResourceSystem) dropStructRef(id resource.ResourceID) {
	rec := s.resources[id]
	if rec == nil {
		return
	}
	rec.structRefs--
	s.maybeRelease(id, rec)
}

func (s *RemoteResourceSystem) maybeRelease(id resource.ResourceID, rec *resourceRecord) {
	if rec.released || !rec.disposed || rec.refCount > 0 || rec.structRefs > 0 {
		return
	}
	s.release(id, rec)
}

func (s *RemoteResourceSystem) release(id resource.ResourceID, rec *resourceRecord) {
	rec.released = true
	r := rec.resource
	def := r.Definition()

	for i, p := range def.Props() {
		switch p.Type {
		case resource.PropString:
			s.releaseString(r.Store(i))
		case resource.PropArrayBuffer:
			s.releaseBuffer(r.Store(i))
		}
	}

	s.backRefs -= len(rec.backRefs)
	s.arena.Free(r.Ptr(), def.ByteLength())
	delete(s.resources, id)
	s.disposing--

	s.enqueue(Message{Kind: MessageResourceDisposed, ResourceID: id, ResourceType: r.ResourceType(), Ptr: r.Ptr()})
	s.fire(core.EventResourceDisposed, id, r.ResourceType())
	s.metrics.Disposed.Inc()
	s.metrics.LiveResources.Set(float64(len(s.resources)))
	s.metrics.ArenaBytesInUse.Set(float64(s.arena.InUse()))
	s.metrics.BackRefs.Set(float64(s.backRefs))
	core.LogDebug("Released %s (%s)", r, humanize.IBytes(uint64(def.ByteLength())))
}

func (s *RemoteResourceSystem) addBackRef(target, owner resource.ResourceID) {
	rec := s.resources[target]
	if rec == nil {
		return
	}
	rec.backRefs = append(rec.backRefs, owner)
	s.backRefs++
	s.metrics.BackRefs.Set(float64(s.backRefs))
}

// removeBackRef drops a single occurrence of owner.
func (s *RemoteResourceSystem) removeBackRef(target, owner resource.ResourceID) {
	rec := s.resources[target]
	if rec == nil {
		return
	}
	if i := slices.Index(rec.backRefs, owner); i >= 0 {
		rec.backRefs = slices.Delete(rec.backRefs, i, i+1)
		s.backRefs--
		s.metrics.BackRefs.Set(float64(s.backRefs))
	}
}

// lookup resolves id to a resource that has not been released yet.
func (s *RemoteResourceSystem) lookup(id uint32) *resource.RemoteResource {
	if id == 0 {
		return nil
	}
	if rec := s.resources[resource.ResourceID(id)]; rec != nil {
		return rec.resource
	}
	return nil
}

// liveID is the id to store for value; released resources store as empty.
func (s *RemoteResourceSystem) liveID(value *resource.RemoteResource) uint32 {
	if value == nil {
		return 0
	}
	if s.resources[value.ResourceID()] == nil {
		core.LogWarn("Reference to released resource %s stored as empty", value)
		return 0
	}
	return uint32(value.ResourceID())
}

func (s *RemoteResourceSystem) GetRef(store []byte) *resource.RemoteResource {
	s.mu.Lock()
	defer s.unlock()
	return s.lookup(word(store, 0))
}

func (s *RemoteResourceSystem) SetRef(owner *resource.RemoteResource, value *resource.RemoteResource, store []byte, backRef bool) {
	s.mu.Lock()
	defer s.unlock()

	old := word(store, 0)
	next := s.liveID(value)
	if old == next {
		return
	}

	ownerID := owner.ResourceID()
	rec := s.resources[ownerID]
	track := backRef && rec != nil && !rec.disposed
	if track && old != 0 {
		s.removeBackRef(resource.ResourceID(old), ownerID)
	}
	putWord(store, 0, next)
	if track && next != 0 {
		s.addBackRef(resource.ResourceID(next), ownerID)
	}
}

func (s *RemoteResourceSystem) GetRefArrayItem(index int, store []byte) *resource.RemoteResource {
	s.mu.Lock()
	defer s.unlock()

	if index < 0 || (index+1)*4 > len(store) {
		return nil
	}
	return s.lookup(word(store, index))
}

func (s *RemoteResourceSystem) SetRefArrayItem(index int, value *resource.RemoteResource, store []byte) {
	s.mu.Lock()
	defer s.unlock()

	if index < 0 || (index+1)*4 > len(store) {
		core.LogWarn("Reference slot %d out of range (size=%d). Nothing was done", index, len(store)/4)
		return
	}
	putWord(store, index, s.liveID(value))
}

func (s *RemoteResourceSystem) BackRefs(id resource.ResourceID) []*resource.RemoteResource {
	s.mu.Lock()
	defer s.unlock()

	rec := s.resources[id]
	if rec == nil {
		return nil
	}
	out := make([]*resource.RemoteResource, 0, len(rec.backRefs))
	for _, owner := range rec.backRefs {
		if r := s.lookup(uint32(owner)); r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (s *RemoteResourceSystem) GetString(store []byte) string {
	v, _ := s.strings.Owner(word(store, 0)).(string)
	return v
}

func (s *RemoteResourceSystem) SetString(value string, store []byte) {
	s.mu.Lock()
	defer s.unlock()

	s.releaseString(store)
	if value == "" {
		return
	}
	h := s.strings.Acquire(value)
	putWord(store, 0, h)
	s.enqueue(Message{Kind: MessageStringSet, Handle: h, Text: value})
	s.metrics.Strings.Set(float64(s.strings.Len()))
}

func (s *RemoteResourceSystem) releaseString(store []byte) {
	h := word(store, 0)
	if h == 0 {
		return
	}
	putWord(store, 0, 0)
	if err := s.strings.Release(h); err != nil {
		core.LogWarn("string %s", err.Error())
		return
	}
	s.enqueue(Message{Kind: MessageStringReleased, Handle: h})
	s.metrics.Strings.Set(float64(s.strings.Len()))
}

// GetArrayBuffer returns the shared bytes behind the store. Callers must not
// modify them; use SetArrayBuffer to replace the contents.
func (s *RemoteResourceSystem) GetArrayBuffer(store []byte) []byte {
	data, _ := s.buffers.Owner(word(store, 0)).([]byte)
	return data
}

func (s *RemoteResourceSystem) SetArrayBuffer(value []byte, store []byte) {
	s.mu.Lock()
	defer s.unlock()

	s.releaseBuffer(store)
	if value == nil {
		return
	}
	data := bytes.Clone(value)
	h := s.buffers.Acquire(data)
	putWord(store, 0, h)
	putWord(store, 1, uint32(len(data)))
	s.enqueue(Message{Kind: MessageBufferSet, Handle: h, Data: data})
	s.metrics.Buffers.Set(float64(s.buffers.Len()))
}

func (s *RemoteResourceSystem) releaseBuffer(store []byte) {
	h := word(store, 0)
	if h == 0 {
		return
	}
	putWord(store, 0, 0)
	putWord(store, 1, 0)
	if err := s.buffers.Release(h); err != nil {
		core.LogWarn("array buffer %s", err.Error())
		return
	}
	s.enqueue(Message{Kind: MessageBufferReleased, Handle: h})
	s.metrics.Buffers.Set(float64(s.buffers.Len()))
}

// Commit publishes the current state of the arena. It recounts structural
// references, releases disposals that are no longer referenced, then hands
// every subscriber the pending messages and a fresh snapshot. It returns the
// sequence number of the snapshot.
func (s *RemoteResourceSystem) Commit() uint64 {
	s.mu.Lock()
	defer s.unlock()

	for _, rec := range s.resources {
		if rec.disposed {
			continue
		}
		s.recount(rec.resource)
	}

	s.seq++
	for i := range s.pending {
		s.pending[i].Seq = s.seq
	}
	used := s.arena.Used()
	for _, sub := range s.subs {
		sub.Messages.Send(s.pending[min(sub.skip, len(s.pending)):]...)
		sub.skip = 0

		buf := sub.TripleBuffer.WriteBuffer()
		binary.LittleEndian.PutUint64(buf, s.seq)
		copy(buf[SnapshotHeaderSize:], s.arena.Bytes()[:used])
		sub.TripleBuffer.Swap()
	}
	s.pending = s.pending[:0]

	s.metrics.Commits.Inc()
	s.metrics.PendingDisposal.Set(float64(s.disposing))
	return s.seq
}

// recount diffs the references r holds now against the last commit.
func (s *RemoteResourceSystem) recount(r *resource.RemoteResource) {
	prev := r.PrevRefs()
	cur := r.RefIDs()
	if len(prev) == 0 && len(cur) == 0 {
		return
	}

	live := cur[:0]
	for _, id := range cur {
		if s.resources[id] != nil {
			live = append(live, id)
		}
	}

	delta := make(map[resource.ResourceID]int, len(prev)+len(live))
	for _, id := range prev {
		delta[id]--
	}
	for _, id := range live {
		delta[id]++
	}
	r.SetPrevRefs(live)

	for id, n := range delta {
		for ; n > 0; n-- {
			s.resources[id].structRefs++
		}
		for ; n < 0; n++ {
			s.dropStructRef(id)
		}
	}
}

// Seq is the sequence number of the last commit.
func (s *RemoteResourceSystem) Seq() uint64 {
	s.mu.Lock()
	defer s.unlock()
	return s.seq
}

// Len is the number of resources not yet released, pending disposals included.
func (s *RemoteResourceSystem) Len() int {
	s.mu.Lock()
	defer s.unlock()
	return len(s.resources)
}

// Counts reports the manual and structural reference counts of id.
func (s *RemoteResourceSystem) Counts(id resource.ResourceID) (refCount, structRefs int32, ok bool) {
	s.mu.Lock()
	defer s.unlock()

	rec := s.resources[id]
	if rec == nil {
		return 0, 0, false
	}
	return rec.refCount, rec.structRefs, true
}

// Disposed reports whether id was disposed but is still held by references.
func (s *RemoteResourceSystem) Disposed(id resource.ResourceID) bool {
	s.mu.Lock()
	defer s.unlock()

	rec := s.resources[id]
	return rec != nil && rec.disposed
}

func (s *RemoteResourceSystem) ArenaInUse() uint32 {
	return s.arena.InUse()
}

func (s *RemoteResourceSystem) Shutdown() error {
	s.mu.Lock()
	defer s.unlock()

	core.LogInfo("Remote resource system %s shutting down with %d live resources.", s.id, len(s.resources))
	return s.arena.Close()
}

func word(store []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(store[i*4:])
}

func putWord(store []byte, i int, v uint32) {
	binary.LittleEndian.PutUint32(store[i*4:], v)
}
