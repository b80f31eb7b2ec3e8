package resource

import "fmt"

// ResourceID addresses a live resource. 0 is never assigned and is what an
// empty ref slot holds.
type ResourceID uint32

const InvalidID ResourceID = 0

// ResourceType is the numeric tag distinguishing resource kinds.
type ResourceType uint32

// PropType is the kind of a schema property.
type PropType uint8

const (
	PropBool PropType = iota
	PropU32
	PropF32
	PropVec2
	PropVec3
	PropRGB
	PropRGBA
	PropQuat
	PropMat4
	PropBitmask
	PropEnum
	PropString
	PropArrayBuffer
	PropRef
	PropRefArray
	PropRefMap
	// PropSelfRef only exists before compilation; Compile turns it into PropRef.
	PropSelfRef
)

// ElementByteWidth is the width of every element in a resource buffer.
const ElementByteWidth uint32 = 4

var propTypeNames = [...]string{
	PropBool:        "bool",
	PropU32:         "u32",
	PropF32:         "f32",
	PropVec2:        "vec2",
	PropVec3:        "vec3",
	PropRGB:         "rgb",
	PropRGBA:        "rgba",
	PropQuat:        "quat",
	PropMat4:        "mat4",
	PropBitmask:     "bitmask",
	PropEnum:        "enum",
	PropString:      "string",
	PropArrayBuffer: "arrayBuffer",
	PropRef:         "ref",
	PropRefArray:    "refArray",
	PropRefMap:      "refMap",
	PropSelfRef:     "selfRef",
}

func (t PropType) String() string {
	if int(t) < len(propTypeNames) {
		return propTypeNames[t]
	}
	return fmt.Sprintf("PropType(%d)", t)
}

// ParsePropType is the inverse of PropType.String.
func ParsePropType(name string) (PropType, error) {
	for i, n := range propTypeNames {
		if n == name {
			return PropType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown property type %q", name)
}

// IsRef reports whether the property stores resource ids.
func (t PropType) IsRef() bool {
	return t == PropRef || t == PropRefArray || t == PropRefMap || t == PropSelfRef
}

// IsFloat reports whether elements are IEEE-754 binary32.
func (t PropType) IsFloat() bool {
	switch t {
	case PropF32, PropVec2, PropVec3, PropRGB, PropRGBA, PropQuat, PropMat4:
		return true
	}
	return false
}

// HasPlainDefault reports whether a default value is written straight into
// the buffer at construction.
func (t PropType) HasPlainDefault() bool {
	return !t.IsRef() && t != PropString && t != PropArrayBuffer
}
