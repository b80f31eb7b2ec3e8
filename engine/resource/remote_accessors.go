package resource

import (
	gomath "math"

	"github.com/spaghettifunk/animares/engine/math"
)

// Raw accessors addressed by property index. Generated types call these
// and only expose setters for mutable properties; nothing here checks
// mutability or the property type.

func (r *RemoteResource) Bool(i int) bool {
	return loadWord(r.stores[i], 0) != 0
}

func (r *RemoteResource) SetBool(i int, v bool) {
	var w uint32
	if v {
		w = 1
	}
	storeWord(r.stores[i], 0, w)
}

// U32 also reads bitmask and enum properties.
func (r *RemoteResource) U32(i int) uint32 {
	return loadWord(r.stores[i], 0)
}

func (r *RemoteResource) SetU32(i int, v uint32) {
	storeWord(r.stores[i], 0, v)
}

func (r *RemoteResource) F32(i int) float32 {
	return gomath.Float32frombits(loadWord(r.stores[i], 0))
}

func (r *RemoteResource) SetF32(i int, v float32) {
	storeWord(r.stores[i], 0, gomath.Float32bits(v))
}

// Floats copies every element of a vector property.
func (r *RemoteResource) Floats(i int) []float32 {
	return loadFloats(r.stores[i], r.def.props[i].Size)
}

func (r *RemoteResource) Vec2(i int) math.Vec2 {
	return math.Vec2FromElements(r.Floats(i))
}

func (r *RemoteResource) SetVec2(i int, v math.Vec2) {
	storeElems(r.stores[i], v.Elements())
}

// Vec3 also reads rgb properties.
func (r *RemoteResource) Vec3(i int) math.Vec3 {
	return math.Vec3FromElements(r.Floats(i))
}

func (r *RemoteResource) SetVec3(i int, v math.Vec3) {
	storeElems(r.stores[i], v.Elements())
}

// Vec4 also reads rgba properties.
func (r *RemoteResource) Vec4(i int) math.Vec4 {
	return math.Vec4FromElements(r.Floats(i))
}

func (r *RemoteResource) SetVec4(i int, v math.Vec4) {
	storeElems(r.stores[i], v.Elements())
}

func (r *RemoteResource) Quat(i int) math.Quaternion {
	return math.QuatFromElements(r.Floats(i))
}

func (r *RemoteResource) SetQuat(i int, v math.Quaternion) {
	storeElems(r.stores[i], v.Elements())
}

func (r *RemoteResource) Mat4(i int) math.Mat4 {
	return math.Mat4FromElements(r.Floats(i))
}

func (r *RemoteResource) SetMat4(i int, v math.Mat4) {
	storeElems(r.stores[i], v.Elements())
}

// Text reads a string property through the manager's intern table.
func (r *RemoteResource) Text(i int) string {
	return r.manager.GetString(r.stores[i])
}

func (r *RemoteResource) SetText(i int, v string) {
	r.manager.SetString(v, r.stores[i])
}

func (r *RemoteResource) ArrayBuffer(i int) []byte {
	return r.manager.GetArrayBuffer(r.stores[i])
}

func (r *RemoteResource) SetArrayBuffer(i int, v []byte) {
	r.manager.SetArrayBuffer(v, r.stores[i])
}

// Ref returns nil when the slot is empty or the target is gone.
func (r *RemoteResource) Ref(i int) *RemoteResource {
	return r.manager.GetRef(r.stores[i])
}

func (r *RemoteResource) SetRef(i int, v *RemoteResource) {
	r.manager.SetRef(r, v, r.stores[i], r.def.props[i].BackRef)
}

// RefArray reads slots from 0 up to the first empty one. Slots holding ids
// of resources that are gone are skipped.
func (r *RemoteResource) RefArray(i int) []*RemoteResource {
	store := r.stores[i]
	size := int(r.def.props[i].Size)
	out := make([]*RemoteResource, 0, size)
	for k := 0; k < size; k++ {
		if loadWord(store, uint32(k)) == 0 {
			break
		}
		if res := r.manager.GetRefArrayItem(k, store); res != nil {
			out = append(out, res)
		}
	}
	return out
}

// SetRefArray writes v from slot 0 and clears the slots after it.
func (r *RemoteResource) SetRefArray(i int, v []*RemoteResource) {
	store := r.stores[i]
	size := int(r.def.props[i].Size)
	for k := 0; k < size; k++ {
		var item *RemoteResource
		if k < len(v) {
			item = v[k]
		}
		r.manager.SetRefArrayItem(k, item, store)
	}
}

func (r *RemoteResource) SetRefArrayItem(i int, index int, v *RemoteResource) {
	r.manager.SetRefArrayItem(index, v, r.stores[i])
}

// RefMap returns one entry per slot; empty or dead slots are nil.
func (r *RemoteResource) RefMap(i int) []*RemoteResource {
	store := r.stores[i]
	size := int(r.def.props[i].Size)
	out := make([]*RemoteResource, size)
	for k := 0; k < size; k++ {
		if loadWord(store, uint32(k)) != 0 {
			out[k] = r.manager.GetRefArrayItem(k, store)
		}
	}
	return out
}

func (r *RemoteResource) SetRefMapItem(i int, key int, v *RemoteResource) {
	r.manager.SetRefArrayItem(key, v, r.stores[i])
}
