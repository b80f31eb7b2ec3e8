package resource

import (
	"context"
	"fmt"
	gomath "math"

	"github.com/spaghettifunk/animares/engine/math"
)

// LocalView is the read-only accessor surface of a resource on the reader
// side. Every read goes to the snapshot its manager currently holds, so
// values change only when the manager synchronizes.
//
// LocalView satisfies LocalResource with a no-op Load and Dispose; types
// that need loading embed it and override both.
type LocalView struct {
	manager    LocalResourceManager
	def        *ResourceDefinition
	resourceID ResourceID
	ptr        uint32
}

func NewLocalView(m LocalResourceManager, def *ResourceDefinition, id ResourceID, ptr uint32) *LocalView {
	return &LocalView{
		manager:    m,
		def:        def,
		resourceID: id,
		ptr:        ptr,
	}
}

func (v *LocalView) ResourceID() ResourceID {
	return v.resourceID
}

func (v *LocalView) ResourceType() ResourceType {
	return v.def.resourceType
}

func (v *LocalView) Definition() *ResourceDefinition {
	return v.def
}

func (v *LocalView) Manager() LocalResourceManager {
	return v.manager
}

func (v *LocalView) Load(ctx context.Context) error {
	return nil
}

func (v *LocalView) Dispose(ctx context.Context) {}

func (v *LocalView) store(i int) []byte {
	prop := &v.def.props[i]
	snap := v.manager.Snapshot()
	start := v.ptr + prop.ByteOffset
	end := start + prop.ByteLength()
	if int(end) > len(snap) {
		return make([]byte, prop.ByteLength())
	}
	return snap[start:end:end]
}

func (v *LocalView) Bool(i int) bool {
	return loadWord(v.store(i), 0) != 0
}

func (v *LocalView) U32(i int) uint32 {
	return loadWord(v.store(i), 0)
}

func (v *LocalView) F32(i int) float32 {
	return gomath.Float32frombits(loadWord(v.store(i), 0))
}

func (v *LocalView) Floats(i int) []float32 {
	return loadFloats(v.store(i), v.def.props[i].Size)
}

func (v *LocalView) Vec2(i int) math.Vec2 {
	return math.Vec2FromElements(v.Floats(i))
}

func (v *LocalView) Vec3(i int) math.Vec3 {
	return math.Vec3FromElements(v.Floats(i))
}

func (v *LocalView) Vec4(i int) math.Vec4 {
	return math.Vec4FromElements(v.Floats(i))
}

func (v *LocalView) Quat(i int) math.Quaternion {
	return math.QuatFromElements(v.Floats(i))
}

func (v *LocalView) Mat4(i int) math.Mat4 {
	return math.Mat4FromElements(v.Floats(i))
}

func (v *LocalView) Text(i int) string {
	return v.manager.GetString(loadWord(v.store(i), 0))
}

func (v *LocalView) ArrayBuffer(i int) []byte {
	return v.manager.GetArrayBuffer(loadWord(v.store(i), 0))
}

func (v *LocalView) Ref(i int) LocalResource {
	id := loadWord(v.store(i), 0)
	if id == 0 {
		return nil
	}
	return v.manager.GetResource(ResourceID(id))
}

// RefArray stops at the first empty slot and skips resources not loaded.
func (v *LocalView) RefArray(i int) []LocalResource {
	store := v.store(i)
	size := v.def.props[i].Size
	out := make([]LocalResource, 0, size)
	for k := uint32(0); k < size; k++ {
		id := loadWord(store, k)
		if id == 0 {
			break
		}
		if res := v.manager.GetResource(ResourceID(id)); res != nil {
			out = append(out, res)
		}
	}
	return out
}

// RefMap returns one entry per slot, nil where empty or not loaded.
func (v *LocalView) RefMap(i int) []LocalResource {
	store := v.store(i)
	size := v.def.props[i].Size
	out := make([]LocalResource, size)
	for k := uint32(0); k < size; k++ {
		if id := loadWord(store, k); id != 0 {
			out[k] = v.manager.GetResource(ResourceID(id))
		}
	}
	return out
}

func (v *LocalView) String() string {
	return fmt.Sprintf("%s#%d(local)", v.def.name, v.resourceID)
}
