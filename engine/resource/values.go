package resource

import (
	"fmt"
	gomath "math"
	"slices"

	"github.com/spaghettifunk/animares/engine/math"
)

// Props are initial values keyed by property name.
type Props map[string]interface{}

// RemoteResourceHandle is anything that can stand in for a remote resource
// in a ref-typed property: *RemoteResource itself and every generated type.
// Remote must return nil when called on a nil receiver.
type RemoteResourceHandle interface {
	Remote() *RemoteResource
}

func toUint32(v interface{}) (uint32, bool) {
	switch n := v.(type) {
	case uint32:
		return n, true
	case uint:
		return uint32(n), n <= gomath.MaxUint32
	case uint8:
		return uint32(n), true
	case uint16:
		return uint32(n), true
	case uint64:
		return uint32(n), n <= gomath.MaxUint32
	case int:
		return uint32(n), n >= 0 && int64(n) <= gomath.MaxUint32
	case int32:
		return uint32(n), n >= 0
	case int64:
		return uint32(n), n >= 0 && n <= gomath.MaxUint32
	}
	return 0, false
}

func toFloat32(v interface{}) (float32, bool) {
	switch n := v.(type) {
	case float32:
		return n, true
	case float64:
		return float32(n), true
	case int:
		return float32(n), true
	}
	return 0, false
}

func toFloats(p *PropDef, v interface{}) ([]float32, bool) {
	var out []float32
	switch x := v.(type) {
	case []float32:
		out = x
	case math.Vec2:
		out = x.Elements()
	case math.Vec3:
		out = x.Elements()
	case math.Vec4:
		out = x.Elements()
	case math.Quaternion:
		out = x.Elements()
	case math.Mat4:
		out = x.Elements()
	default:
		return nil, false
	}
	return out, uint32(len(out)) == p.Size
}

func checkRange(p *PropDef, v float64) error {
	if p.Min == nil && p.Max == nil {
		return nil
	}
	lo, hi := gomath.Inf(-1), gomath.Inf(1)
	if p.Min != nil {
		lo = *p.Min
	}
	if p.Max != nil {
		hi = *p.Max
	}
	if !math.InRange(v, lo, hi) {
		return fmt.Errorf("%v outside [%v, %v]", v, lo, hi)
	}
	return nil
}

// encodeWords turns a value for a plain (non-ref, non-interned) property
// into the words written to its store.
func encodeWords(p *PropDef, v interface{}) ([]uint32, error) {
	switch p.Type {
	case PropBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("want bool, got %T", v)
		}
		if b {
			return []uint32{1}, nil
		}
		return []uint32{0}, nil
	case PropU32, PropBitmask, PropEnum:
		n, ok := toUint32(v)
		if !ok {
			return nil, fmt.Errorf("want uint32, got %T(%v)", v, v)
		}
		if p.Type == PropEnum && len(p.EnumValues) > 0 && !slices.Contains(p.EnumValues, n) {
			return nil, fmt.Errorf("%d is not one of %v", n, p.EnumValues)
		}
		if err := checkRange(p, float64(n)); err != nil {
			return nil, err
		}
		return []uint32{n}, nil
	case PropF32:
		f, ok := toFloat32(v)
		if !ok {
			return nil, fmt.Errorf("want float32, got %T", v)
		}
		if err := checkRange(p, float64(f)); err != nil {
			return nil, err
		}
		return []uint32{gomath.Float32bits(f)}, nil
	case PropVec2, PropVec3, PropRGB, PropRGBA, PropQuat, PropMat4:
		floats, ok := toFloats(p, v)
		if !ok {
			return nil, fmt.Errorf("want %d floats for %s, got %T", p.Size, p.Type, v)
		}
		words := make([]uint32, len(floats))
		for i, f := range floats {
			words[i] = gomath.Float32bits(f)
		}
		return words, nil
	}
	return nil, fmt.Errorf("%s properties have no plain encoding", p.Type)
}

// handleID resolves a ref value to a live id; nil handles resolve to 0.
func handleID(v interface{}) (*RemoteResource, bool) {
	h, ok := v.(RemoteResourceHandle)
	if !ok {
		return nil, false
	}
	return h.Remote(), true
}

func checkTarget(p *PropDef, r *RemoteResource) error {
	if r == nil {
		return fmt.Errorf("nil resource")
	}
	if r.resourceID == InvalidID {
		return fmt.Errorf("resource %s is not registered", r.def.name)
	}
	if p.ResourceDef != nil && r.def != p.ResourceDef {
		return fmt.Errorf("want %s, got %s", p.ResourceDef.name, r.def.name)
	}
	return nil
}

func toRefList(v interface{}) ([]*RemoteResource, bool) {
	switch list := v.(type) {
	case []*RemoteResource:
		return list, true
	case []RemoteResourceHandle:
		out := make([]*RemoteResource, len(list))
		for i, h := range list {
			if h != nil {
				out[i] = h.Remote()
			}
		}
		return out, true
	}
	return nil, false
}

func toRefMap(v interface{}) (map[int]*RemoteResource, bool) {
	switch m := v.(type) {
	case map[int]*RemoteResource:
		return m, true
	case map[int]RemoteResourceHandle:
		out := make(map[int]*RemoteResource, len(m))
		for k, h := range m {
			if h != nil {
				out[k] = h.Remote()
			}
		}
		return out, true
	}
	return nil, false
}

// initialValue is a validated, normalized initial value.
type initialValue struct {
	set    bool
	words  []uint32
	str    string
	buffer []byte
	ref    *RemoteResource
	refs   []*RemoteResource
	refMap map[int]*RemoteResource
}

func normalizeInitial(p *PropDef, v interface{}) (initialValue, error) {
	out := initialValue{set: true}
	switch p.Type {
	case PropString:
		s, ok := v.(string)
		if !ok {
			return out, fmt.Errorf("want string, got %T", v)
		}
		out.str = s
	case PropArrayBuffer:
		b, ok := v.([]byte)
		if !ok {
			return out, fmt.Errorf("want []byte, got %T", v)
		}
		out.buffer = b
	case PropRef, PropSelfRef:
		r, ok := handleID(v)
		if !ok {
			return out, fmt.Errorf("want a remote resource, got %T", v)
		}
		if r == nil {
			out.set = false
			return out, nil
		}
		if err := checkTarget(p, r); err != nil {
			return out, err
		}
		out.ref = r
	case PropRefArray:
		list, ok := toRefList(v)
		if !ok {
			return out, fmt.Errorf("want a list of remote resources, got %T", v)
		}
		if uint32(len(list)) > p.Size {
			return out, fmt.Errorf("%d items do not fit in %d slots", len(list), p.Size)
		}
		for _, r := range list {
			if err := checkTarget(p, r); err != nil {
				return out, err
			}
		}
		out.refs = list
	case PropRefMap:
		m, ok := toRefMap(v)
		if !ok {
			return out, fmt.Errorf("want map[int] of remote resources, got %T", v)
		}
		for k, r := range m {
			if k < 0 || uint32(k) >= p.Size {
				return out, fmt.Errorf("key %d outside %d slots", k, p.Size)
			}
			if err := checkTarget(p, r); err != nil {
				return out, err
			}
		}
		out.refMap = m
	default:
		words, err := encodeWords(p, v)
		if err != nil {
			return out, err
		}
		out.words = words
	}
	return out, nil
}
