package systems

import (
	"sync"

	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/engine/resource"
)

// ExternalHandle identifies an object owned by another engine, such as a
// physics body or an audio voice.
type ExternalHandle uint64

// ContactPair is an event reported by an external engine about two of its
// objects, e.g. a collision starting or stopping.
type ContactPair struct {
	A, B    ExternalHandle
	Started bool
}

// HandleMap maps external handles to the resources that own them.
type HandleMap struct {
	mu   sync.RWMutex
	name string
	ids  map[ExternalHandle]resource.ResourceID
	byID map[resource.ResourceID]ExternalHandle
}

func NewHandleMap(name string) *HandleMap {
	return &HandleMap{
		name: name,
		ids:  make(map[ExternalHandle]resource.ResourceID),
		byID: make(map[resource.ResourceID]ExternalHandle),
	}
}

// Bind associates h with id, replacing whatever either was bound to.
func (m *HandleMap) Bind(h ExternalHandle, id resource.ResourceID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.ids[h]; ok {
		delete(m.byID, old)
	}
	if old, ok := m.byID[id]; ok {
		delete(m.ids, old)
	}
	m.ids[h] = id
	m.byID[id] = h
}

func (m *HandleMap) Unbind(h ExternalHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.ids[h]; ok {
		delete(m.byID, id)
		delete(m.ids, h)
	}
}

func (m *HandleMap) UnbindResource(id resource.ResourceID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.byID[id]; ok {
		delete(m.ids, h)
		delete(m.byID, id)
	}
}

func (m *HandleMap) Lookup(h ExternalHandle) (resource.ResourceID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.ids[h]
	return id, ok
}

func (m *HandleMap) Handle(id resource.ResourceID) (ExternalHandle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.byID[id]
	return h, ok
}

func (m *HandleMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// DrainContacts resolves every pair and hands the resource ids to fn. An
// unregistered handle is logged and passed on as resource.InvalidID. It
// returns the number of unresolved handles.
func (m *HandleMap) DrainContacts(pairs []ContactPair, fn func(a, b resource.ResourceID, started bool)) int {
	missing := 0
	resolve := func(h ExternalHandle) resource.ResourceID {
		id, ok := m.Lookup(h)
		if !ok {
			missing++
			core.LogWarn("%s: no resource registered for handle %d", m.name, h)
		}
		return id
	}
	for _, p := range pairs {
		a := resolve(p.A)
		b := resolve(p.B)
		fn(a, b, p.Started)
	}
	return missing
}

// Watch drops bindings of resources as their manager releases them.
func (m *HandleMap) Watch(events *core.EventBus) bool {
	return events.Register(core.EventResourceDisposed, m, func(ctx core.EventContext, sender, listener interface{}) bool {
		m.UnbindResource(resource.ResourceID(ctx.ResourceID))
		return false
	})
}
