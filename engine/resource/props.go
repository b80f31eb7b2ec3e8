package resource

import "fmt"

// PropDef describes one field of a resource. Factories below build it with
// ByteOffset unset; Compile assigns Name and ByteOffset.
type PropDef struct {
	Name             string
	Type             PropType
	Size             uint32
	ElementByteWidth uint32
	Mutable          bool
	MutableScript    bool
	Script           bool
	Required         bool
	BackRef          bool
	// Default holds raw element words. Nil means no default.
	Default []uint32
	// EnumValues is the domain of an enum property.
	EnumValues []uint32
	Min        *float64
	Max        *float64
	// ResourceDef is the target of ref-family properties.
	ResourceDef *ResourceDefinition
	ByteOffset  uint32

	mutableScriptSet bool
	defaultSet       bool
	defaultValue     interface{}
	// err records an invalid option; Compile reports it.
	err error
}

// ByteLength is the number of bytes the property occupies.
func (p *PropDef) ByteLength() uint32 {
	return p.Size * p.ElementByteWidth
}

type PropOption func(*PropDef)

// Mutable controls whether a setter is generated for the property.
func Mutable(mutable bool) PropOption {
	return func(p *PropDef) {
		p.Mutable = mutable
	}
}

// MutableScript controls whether embedded scripts may write the property.
// Defaults to the value of Mutable.
func MutableScript(mutable bool) PropOption {
	return func(p *PropDef) {
		p.MutableScript = mutable
		p.mutableScriptSet = true
	}
}

func Required() PropOption {
	return func(p *PropDef) {
		p.Required = true
	}
}

// Script exposes the property to embedded scripts.
func Script() PropOption {
	return func(p *PropDef) {
		p.Script = true
	}
}

// BackRef makes a ref register its owner in the target's back-references.
func BackRef() PropOption {
	return func(p *PropDef) {
		p.BackRef = true
	}
}

// Default sets the construction default. The value is encoded with the same
// rules as initial values, so Default(uint32(100)) for u32,
// Default(math.NewVec3One()) for vec3 and so on.
func Default(value interface{}) PropOption {
	return func(p *PropDef) {
		p.defaultValue = value
		p.defaultSet = true
	}
}

// Range bounds u32/f32 initial values, checked at construction.
func Range(min, max float64) PropOption {
	return func(p *PropDef) {
		p.Min = &min
		p.Max = &max
	}
}

func newProp(t PropType, size uint32, def interface{}, opts []PropOption) PropDef {
	p := PropDef{
		Type:             t,
		Size:             size,
		ElementByteWidth: ElementByteWidth,
		Mutable:          true,
		defaultValue:     def,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if !p.mutableScriptSet {
		p.MutableScript = p.Mutable
	}
	if p.defaultValue == nil {
		return p
	}
	if !p.defaultSet {
		// The implicit zero is not an initial value, so Range does not apply.
		unbounded := p
		unbounded.Min, unbounded.Max = nil, nil
		p.Default, _ = encodeWords(&unbounded, p.defaultValue)
		return p
	}
	words, err := encodeWords(&p, p.defaultValue)
	if err != nil {
		p.err = fmt.Errorf("invalid default for %s property: %w", t, err)
		return p
	}
	p.Default = words
	return p
}

func Bool(opts ...PropOption) PropDef {
	return newProp(PropBool, 1, false, opts)
}

func U32(opts ...PropOption) PropDef {
	return newProp(PropU32, 1, uint32(0), opts)
}

func F32(opts ...PropOption) PropDef {
	return newProp(PropF32, 1, float32(0), opts)
}

func Vec2(opts ...PropOption) PropDef {
	return newProp(PropVec2, 2, make([]float32, 2), opts)
}

func Vec3(opts ...PropOption) PropDef {
	return newProp(PropVec3, 3, make([]float32, 3), opts)
}

func RGB(opts ...PropOption) PropDef {
	return newProp(PropRGB, 3, make([]float32, 3), opts)
}

func RGBA(opts ...PropOption) PropDef {
	return newProp(PropRGBA, 4, make([]float32, 4), opts)
}

func Quat(opts ...PropOption) PropDef {
	return newProp(PropQuat, 4, []float32{0, 0, 0, 1}, opts)
}

func Mat4(opts ...PropOption) PropDef {
	return newProp(PropMat4, 16, []float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}, opts)
}

// Bitmask has no default unless one is given.
func Bitmask(opts ...PropOption) PropDef {
	return newProp(PropBitmask, 1, nil, opts)
}

// Enum takes the set of valid values. It has no default unless one is given.
func Enum(values []uint32, opts ...PropOption) PropDef {
	return newProp(PropEnum, 1, nil, append([]PropOption{func(p *PropDef) {
		p.EnumValues = append([]uint32(nil), values...)
	}}, opts...))
}

func String(opts ...PropOption) PropDef {
	return newProp(PropString, 1, nil, opts)
}

// ArrayBuffer stores an intern handle and the payload length. It is
// immutable and required.
func ArrayBuffer(opts ...PropOption) PropDef {
	return newProp(PropArrayBuffer, 2, nil, append([]PropOption{Mutable(false), Required()}, opts...))
}

func Ref(def *ResourceDefinition, opts ...PropOption) PropDef {
	p := newProp(PropRef, 1, nil, opts)
	p.ResourceDef = def
	return p
}

func RefArray(def *ResourceDefinition, size uint32, opts ...PropOption) PropDef {
	p := newProp(PropRefArray, size, nil, opts)
	p.ResourceDef = def
	return p
}

func RefMap(def *ResourceDefinition, size uint32, opts ...PropOption) PropDef {
	p := newProp(PropRefMap, size, nil, opts)
	p.ResourceDef = def
	return p
}

// SelfRef points at the definition that declares it. It is resolved by Compile.
func SelfRef(opts ...PropOption) PropDef {
	return newProp(PropSelfRef, 1, nil, opts)
}
