package resource

import (
	"slices"
)

// fakeManager is a minimal in-memory RemoteResourceManager that records
// how it is called.
type fakeManager struct {
	buf     []byte
	cursor  uint32
	lastID  ResourceID
	prefill []byte

	resources map[ResourceID]*RemoteResource
	disposed  map[ResourceID]bool
	refCounts map[ResourceID]int
	backRefs  map[ResourceID][]ResourceID
	strings   map[uint32]string
	buffers   map[uint32][]byte
	handle    uint32

	allocs       int
	creates      int
	lastBackFlag bool
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		buf:       make([]byte, 4096),
		resources: make(map[ResourceID]*RemoteResource),
		disposed:  make(map[ResourceID]bool),
		refCounts: make(map[ResourceID]int),
		backRefs:  make(map[ResourceID][]ResourceID),
		strings:   make(map[uint32]string),
		buffers:   make(map[uint32][]byte),
	}
}

func (m *fakeManager) AllocateResource(def *ResourceDefinition) (ResourceData, error) {
	m.allocs++
	ptr := m.cursor
	m.cursor += def.ByteLength()
	copy(m.buf[ptr:m.cursor], m.prefill)
	return ResourceData{Ptr: ptr, Buffer: m.buf}, nil
}

func (m *fakeManager) CreateResource(r *RemoteResource) ResourceID {
	m.creates++
	m.lastID++
	m.resources[m.lastID] = r
	for i, p := range r.def.props {
		if p.Type == PropRef && p.BackRef {
			if target := ResourceID(loadWord(r.stores[i], 0)); target != 0 {
				m.backRefs[target] = append(m.backRefs[target], m.lastID)
			}
		}
	}
	return m.lastID
}

func (m *fakeManager) DisposeResource(id ResourceID) bool {
	if m.resources[id] == nil || m.disposed[id] {
		return false
	}
	m.disposed[id] = true
	if m.refCounts[id] == 0 {
		delete(m.resources, id)
	}
	return true
}

func (m *fakeManager) AddRef(id ResourceID) {
	m.refCounts[id]++
}

func (m *fakeManager) RemoveRef(id ResourceID) {
	m.refCounts[id]--
	if m.refCounts[id] == 0 && m.disposed[id] {
		delete(m.resources, id)
	}
}

func (m *fakeManager) GetRef(store []byte) *RemoteResource {
	return m.resources[ResourceID(loadWord(store, 0))]
}

func (m *fakeManager) SetRef(owner *RemoteResource, value *RemoteResource, store []byte, backRef bool) {
	m.lastBackFlag = backRef
	old := ResourceID(loadWord(store, 0))
	var next ResourceID
	if value != nil {
		next = value.resourceID
	}
	if backRef && old != 0 {
		list := m.backRefs[old]
		if i := slices.Index(list, owner.resourceID); i >= 0 {
			m.backRefs[old] = slices.Delete(list, i, i+1)
		}
	}
	storeWord(store, 0, uint32(next))
	if backRef && next != 0 {
		m.backRefs[next] = append(m.backRefs[next], owner.resourceID)
	}
}

func (m *fakeManager) GetRefArrayItem(index int, store []byte) *RemoteResource {
	return m.resources[ResourceID(loadWord(store, uint32(index)))]
}

func (m *fakeManager) SetRefArrayItem(index int, value *RemoteResource, store []byte) {
	var id uint32
	if value != nil {
		id = uint32(value.resourceID)
	}
	storeWord(store, uint32(index), id)
}

func (m *fakeManager) BackRefs(id ResourceID) []*RemoteResource {
	var out []*RemoteResource
	for _, owner := range m.backRefs[id] {
		out = append(out, m.resources[owner])
	}
	return out
}

func (m *fakeManager) GetString(store []byte) string {
	return m.strings[loadWord(store, 0)]
}

func (m *fakeManager) SetString(value string, store []byte) {
	delete(m.strings, loadWord(store, 0))
	m.handle++
	m.strings[m.handle] = value
	storeWord(store, 0, m.handle)
}

func (m *fakeManager) GetArrayBuffer(store []byte) []byte {
	return m.buffers[loadWord(store, 0)]
}

func (m *fakeManager) SetArrayBuffer(value []byte, store []byte) {
	delete(m.buffers, loadWord(store, 0))
	m.handle++
	m.buffers[m.handle] = value
	storeWord(store, 0, m.handle)
	storeWord(store, 1, uint32(len(value)))
}

// fakeLocal serves a copy of a fakeManager's buffer as the snapshot.
type fakeLocal struct {
	snapshot []byte
	loaded   map[ResourceID]LocalResource
	strings  map[uint32]string
	buffers  map[uint32][]byte
}

func newFakeLocal(m *fakeManager) *fakeLocal {
	return &fakeLocal{
		snapshot: slices.Clone(m.buf),
		loaded:   make(map[ResourceID]LocalResource),
		strings:  m.strings,
		buffers:  m.buffers,
	}
}

func (l *fakeLocal) Snapshot() []byte {
	return l.snapshot
}

func (l *fakeLocal) GetResource(id ResourceID) LocalResource {
	if r, ok := l.loaded[id]; ok {
		return r
	}
	return nil
}

func (l *fakeLocal) GetString(handle uint32) string {
	return l.strings[handle]
}

func (l *fakeLocal) GetArrayBuffer(handle uint32) []byte {
	return l.buffers[handle]
}
