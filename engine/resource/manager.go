package resource

import (
	"context"

	"github.com/spaghettifunk/animares/engine/containers"
)

// ResourceData is what a manager hands a new remote resource: the offset of
// its region inside Buffer and the channel that publishes Buffer to readers.
type ResourceData struct {
	Ptr          uint32
	Buffer       []byte
	TripleBuffer *containers.TripleBuffer
}

// RemoteResourceManager is everything a remote resource needs from the
// runtime that owns it. Stores passed in are slices of the caller's region
// at the property's offset.
type RemoteResourceManager interface {
	// AllocateResource reserves a zeroed region of def.ByteLength() bytes.
	AllocateResource(def *ResourceDefinition) (ResourceData, error)
	// CreateResource registers a fully built resource and returns its id.
	CreateResource(r *RemoteResource) ResourceID
	// DisposeResource reports whether a live resource was removed. Disposing
	// an unknown or already disposed id returns false.
	DisposeResource(id ResourceID) bool

	AddRef(id ResourceID)
	RemoveRef(id ResourceID)

	GetRef(store []byte) *RemoteResource
	// SetRef writes value into store. With backRef set it also moves owner
	// from the previous target's back-references to value's.
	SetRef(owner *RemoteResource, value *RemoteResource, store []byte, backRef bool)
	GetRefArrayItem(index int, store []byte) *RemoteResource
	SetRefArrayItem(index int, value *RemoteResource, store []byte)
	// BackRefs lists the resources whose backRef properties point at id.
	BackRefs(id ResourceID) []*RemoteResource

	GetString(store []byte) string
	SetString(value string, store []byte)
	GetArrayBuffer(store []byte) []byte
	SetArrayBuffer(value []byte, store []byte)
}

// LocalResource is the reader-side reconstruction of a remote resource.
type LocalResource interface {
	ResourceID() ResourceID
	ResourceType() ResourceType
	// Load runs off the reader loop after the creation is observed.
	Load(ctx context.Context) error
	// Dispose runs on the reader loop once the removal is observed.
	Dispose(ctx context.Context)
}

// LocalResourceManager resolves what a local view cannot read by itself.
type LocalResourceManager interface {
	// Snapshot is the arena contents as of the last synchronization.
	Snapshot() []byte
	// GetResource returns the loaded local resource for id, or nil.
	GetResource(id ResourceID) LocalResource
	GetString(handle uint32) string
	GetArrayBuffer(handle uint32) []byte
}

// LocalConstructor builds the local resource for a newly observed id. It runs
// on the reader loop and may read through view. Load runs later on a worker
// and must not read the view, the snapshot may have moved on by then.
type LocalConstructor func(view *LocalView) LocalResource

// LocalRegistry binds resource types to their local constructors.
type LocalRegistry interface {
	Register(def *ResourceDefinition, ctor LocalConstructor) error
}
