package resource

import (
	"fmt"

	"github.com/spaghettifunk/animares/engine/containers"
)

// RemoteResource is the writer-side live object. Its region belongs to the
// manager; the resource only keeps views into it.
type RemoteResource struct {
	def          *ResourceDefinition
	manager      RemoteResourceManager
	resourceID   ResourceID
	ptr          uint32
	byteView     []byte
	stores       [][]byte
	tripleBuffer *containers.TripleBuffer
	prevRefs     []ResourceID
	initialized  bool
	binding      interface{}
}

// NewRemoteResource builds a resource of type def and registers it with m.
// Every initial value is validated before the manager is touched, so a
// failed construction leaves nothing allocated or registered.
func NewRemoteResource(m RemoteResourceManager, def *ResourceDefinition, props Props) (*RemoteResource, error) {
	if !def.compiled {
		return nil, fmt.Errorf("%s: %w", def.name, ErrDefinitionNotCompiled)
	}

	initial := make([]initialValue, len(def.props))
	for name, v := range props {
		i := def.PropIndex(name)
		if i < 0 {
			return nil, &PropertyError{Resource: def.name, Property: name, Err: ErrUnknownProperty}
		}
		if v == nil {
			continue
		}
		val, err := normalizeInitial(&def.props[i], v)
		if err != nil {
			return nil, &PropertyError{Resource: def.name, Property: name, Err: ErrInvalidPropertyValue, Detail: err.Error()}
		}
		initial[i] = val
	}
	for i := range def.props {
		if def.props[i].Required && !initial[i].set {
			return nil, &PropertyError{Resource: def.name, Property: def.props[i].Name, Err: ErrMissingRequiredProperty}
		}
	}

	data, err := m.AllocateResource(def)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate %s: %w", def.name, err)
	}

	r := &RemoteResource{
		def:          def,
		manager:      m,
		ptr:          data.Ptr,
		tripleBuffer: data.TripleBuffer,
		stores:       make([][]byte, len(def.props)),
	}
	end := data.Ptr + def.byteLength
	r.byteView = data.Buffer[data.Ptr:end:end]

	for i := range def.props {
		prop := &def.props[i]
		end := prop.ByteOffset + prop.ByteLength()
		store := r.byteView[prop.ByteOffset:end:end]
		r.stores[i] = store

		val := initial[i]
		if !val.set {
			if prop.Default != nil && prop.Type.HasPlainDefault() && isZero(store[:4]) {
				storeWords(store, prop.Default)
			}
			continue
		}

		switch prop.Type {
		case PropString:
			if val.str != "" {
				m.SetString(val.str, store)
			}
		case PropArrayBuffer:
			m.SetArrayBuffer(val.buffer, store)
		case PropRef:
			// The manager links back-references once the id exists.
			storeWord(store, 0, uint32(val.ref.resourceID))
		case PropRefArray:
			for k, ref := range val.refs {
				storeWord(store, uint32(k), uint32(ref.resourceID))
			}
		case PropRefMap:
			for k, ref := range val.refMap {
				storeWord(store, uint32(k), uint32(ref.resourceID))
			}
		default:
			storeWords(store, val.words)
		}
	}

	r.resourceID = m.CreateResource(r)
	r.initialized = true
	return r, nil
}

// Remote lets *RemoteResource be used wherever a handle is expected.
func (r *RemoteResource) Remote() *RemoteResource {
	return r
}

func (r *RemoteResource) ResourceID() ResourceID {
	return r.resourceID
}

func (r *RemoteResource) ResourceType() ResourceType {
	return r.def.resourceType
}

func (r *RemoteResource) Definition() *ResourceDefinition {
	return r.def
}

func (r *RemoteResource) Manager() RemoteResourceManager {
	return r.manager
}

// Ptr is the offset of the region inside the shared buffer.
func (r *RemoteResource) Ptr() uint32 {
	return r.ptr
}

func (r *RemoteResource) TripleBuffer() *containers.TripleBuffer {
	return r.tripleBuffer
}

// Initialized is true once the manager has registered the resource.
func (r *RemoteResource) Initialized() bool {
	return r.initialized
}

// ByteView is the whole region of the resource.
func (r *RemoteResource) ByteView() []byte {
	return r.byteView
}

// Store is the region of property i.
func (r *RemoteResource) Store(i int) []byte {
	return r.stores[i]
}

// PrevRefs are the ids this resource referenced at the last synchronization.
// Maintained by the manager.
func (r *RemoteResource) PrevRefs() []ResourceID {
	return r.prevRefs
}

func (r *RemoteResource) SetPrevRefs(ids []ResourceID) {
	r.prevRefs = ids
}

// RefIDs collects the non-empty ids currently stored in ref-family properties.
func (r *RemoteResource) RefIDs() []ResourceID {
	var ids []ResourceID
	for i := range r.def.props {
		if !r.def.props[i].Type.IsRef() {
			continue
		}
		store := r.stores[i]
		for k := uint32(0); k < r.def.props[i].Size; k++ {
			if id := loadWord(store, k); id != 0 {
				ids = append(ids, ResourceID(id))
			}
		}
	}
	return ids
}

// Bind attaches the typed wrapper built around r so lookups return the same value.
func (r *RemoteResource) Bind(v interface{}) {
	r.binding = v
}

func (r *RemoteResource) Binding() interface{} {
	return r.binding
}

func (r *RemoteResource) AddRef() {
	r.manager.AddRef(r.resourceID)
}

func (r *RemoteResource) RemoveRef() {
	r.manager.RemoveRef(r.resourceID)
}

// Dispose asks the manager to remove the resource and reports whether it was live.
func (r *RemoteResource) Dispose() bool {
	return r.manager.DisposeResource(r.resourceID)
}

// BackRefs lists the resources whose backRef properties point at r.
func (r *RemoteResource) BackRefs() []*RemoteResource {
	return r.manager.BackRefs(r.resourceID)
}

func (r *RemoteResource) String() string {
	return fmt.Sprintf("%s#%d", r.def.name, r.resourceID)
}
