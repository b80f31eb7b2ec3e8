package codegen

import (
	"fmt"
	gomath "math"
	"strconv"
	"strings"
	"unicode"

	"github.com/spaghettifunk/animares/engine/resource"
)

// reserved are the method names promoted from the embedded resource types.
var reserved = map[string]bool{}

func init() {
	for _, name := range []string{
		"Remote", "ResourceID", "ResourceType", "Definition", "Manager", "Ptr",
		"TripleBuffer", "Initialized", "ByteView", "Store", "PrevRefs", "SetPrevRefs",
		"RefIDs", "Bind", "Binding", "AddRef", "RemoveRef", "Dispose", "BackRefs",
		"String", "Load", "Bool", "SetBool", "U32", "SetU32", "F32", "SetF32",
		"Floats", "Vec2", "SetVec2", "Vec3", "SetVec3", "Vec4", "SetVec4",
		"Quat", "SetQuat", "Mat4", "SetMat4", "Text", "SetText", "ArrayBuffer",
		"SetArrayBuffer", "Ref", "SetRef", "RefArray", "SetRefArray", "SetRefArrayItem",
		"RefMap", "SetRefMapItem", "RemoteResource", "LocalView",
	} {
		reserved[name] = true
	}
}

// goName turns a schema name such as "max_speed" or "maxSpeed" into an
// exported Go identifier.
func goName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "R" + out
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// defaultValue converts a decoded schema default into the Go value the
// property factories accept.
func defaultValue(pt resource.PropType, raw interface{}) (interface{}, error) {
	switch pt {
	case resource.PropBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("default for %s must be a boolean, got %v", pt, raw)
		}
		return b, nil
	case resource.PropU32, resource.PropBitmask, resource.PropEnum:
		f, ok := toFloat(raw)
		if !ok || f < 0 || f > gomath.MaxUint32 || f != gomath.Trunc(f) {
			return nil, fmt.Errorf("default for %s must be an unsigned 32-bit integer, got %v", pt, raw)
		}
		return uint32(f), nil
	case resource.PropF32:
		f, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("default for %s must be a number, got %v", pt, raw)
		}
		return float32(f), nil
	case resource.PropVec2, resource.PropVec3, resource.PropRGB, resource.PropRGBA, resource.PropQuat, resource.PropMat4:
		list, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("default for %s must be a list of numbers, got %v", pt, raw)
		}
		want := map[resource.PropType]int{
			resource.PropVec2: 2, resource.PropVec3: 3, resource.PropRGB: 3,
			resource.PropRGBA: 4, resource.PropQuat: 4, resource.PropMat4: 16,
		}[pt]
		if len(list) != want {
			return nil, fmt.Errorf("default for %s needs %d numbers, got %d", pt, want, len(list))
		}
		out := make([]float32, len(list))
		for i, x := range list {
			f, ok := toFloat(x)
			if !ok {
				return nil, fmt.Errorf("default for %s: element %d is not a number", pt, i)
			}
			out[i] = float32(f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s properties take no default", pt)
}

// goLiteral prints a value produced by defaultValue as Go source.
func goLiteral(v interface{}) string {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case uint32:
		return fmt.Sprintf("uint32(%d)", x)
	case float32:
		return fmt.Sprintf("float32(%s)", strconv.FormatFloat(float64(x), 'g', -1, 32))
	case []float32:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
		}
		return "[]float32{" + strings.Join(parts, ", ") + "}"
	}
	panic(fmt.Sprintf("no literal for %T", v))
}

func floatLiteral(f float64) string {
	switch {
	case gomath.IsInf(f, -1):
		return "gomath.Inf(-1)"
	case gomath.IsInf(f, 1):
		return "gomath.Inf(1)"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

var factoryNames = map[resource.PropType]string{
	resource.PropBool:        "Bool",
	resource.PropU32:         "U32",
	resource.PropF32:         "F32",
	resource.PropVec2:        "Vec2",
	resource.PropVec3:        "Vec3",
	resource.PropRGB:         "RGB",
	resource.PropRGBA:        "RGBA",
	resource.PropQuat:        "Quat",
	resource.PropMat4:        "Mat4",
	resource.PropBitmask:     "Bitmask",
	resource.PropEnum:        "Enum",
	resource.PropString:      "String",
	resource.PropArrayBuffer: "ArrayBuffer",
	resource.PropRef:         "Ref",
	resource.PropRefArray:    "RefArray",
	resource.PropRefMap:      "RefMap",
	resource.PropSelfRef:     "SelfRef",
}

// plainKinds maps value properties to the Go type and raw accessor used for them.
var plainKinds = map[resource.PropType][2]string{
	resource.PropBool:    {"bool", "Bool"},
	resource.PropU32:     {"uint32", "U32"},
	resource.PropF32:     {"float32", "F32"},
	resource.PropVec2:    {"math.Vec2", "Vec2"},
	resource.PropVec3:    {"math.Vec3", "Vec3"},
	resource.PropRGB:     {"math.Vec3", "Vec3"},
	resource.PropRGBA:    {"math.Vec4", "Vec4"},
	resource.PropQuat:    {"math.Quaternion", "Quat"},
	resource.PropMat4:    {"math.Mat4", "Mat4"},
	resource.PropBitmask: {"uint32", "U32"},
	resource.PropEnum:    {"uint32", "U32"},
}

type fileModel struct {
	Package    string
	Source     string
	UsesMath   bool
	UsesGoMath bool
	Resources  []*resourceModel
}

type resourceModel struct {
	Name   string
	GoName string
	Type   uint32
	Props  []*propModel
}

func (r *resourceModel) Local() string {
	return r.GoName + "Local"
}

// LocalMarker names the unexported method that lets override types embedding
// the generated local view resolve back to it.
func (r *resourceModel) LocalMarker() string {
	return strings.ToLower(r.GoName[:1]) + r.GoName[1:] + "Local"
}

func (r *resourceModel) Receiver() string {
	return strings.ToLower(r.GoName[:1])
}

type propModel struct {
	Name    string
	Field   string
	Index   string
	Kind    string
	GoType  string
	Access  string
	Target  string
	Factory string
	Mutable bool
}

func buildModel(f *SchemaFile, source string) (*fileModel, error) {
	m := &fileModel{Package: f.Package, Source: source}
	for _, r := range f.Resources {
		rm := &resourceModel{Name: r.Name, GoName: goName(r.Name), Type: r.Type}
		for i := range r.Props {
			pm, err := buildProp(f, rm, &r.Props[i])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", r.Name, r.Props[i].Name, err)
			}
			if strings.HasPrefix(pm.GoType, "math.") {
				m.UsesMath = true
			}
			if strings.Contains(pm.Factory, "gomath.") {
				m.UsesGoMath = true
			}
			rm.Props = append(rm.Props, pm)
		}
		m.Resources = append(m.Resources, rm)
	}
	return m, nil
}

func buildProp(f *SchemaFile, r *resourceModel, p *PropSchema) (*propModel, error) {
	pt := p.propType()
	field := goName(p.Name)
	pm := &propModel{
		Name:    p.Name,
		Field:   field,
		Index:   lowerFirst(r.GoName) + "Prop" + field,
		Mutable: pt != resource.PropArrayBuffer,
	}
	if p.Mutable != nil {
		pm.Mutable = *p.Mutable
	}

	switch pt {
	case resource.PropString:
		pm.Kind, pm.GoType = "string", "string"
	case resource.PropArrayBuffer:
		pm.Kind, pm.GoType = "buffer", "[]byte"
	case resource.PropRef, resource.PropSelfRef:
		pm.Kind, pm.Target = "ref", r.GoName
		if pt == resource.PropRef {
			pm.Target = goName(p.Target)
		}
	case resource.PropRefArray:
		pm.Kind, pm.Target = "refArray", goName(p.Target)
	case resource.PropRefMap:
		pm.Kind, pm.Target = "refMap", goName(p.Target)
	default:
		k := plainKinds[pt]
		pm.Kind, pm.GoType, pm.Access = "plain", k[0], k[1]
	}

	factory, err := factoryExpr(f, pt, p)
	if err != nil {
		return nil, err
	}
	pm.Factory = factory
	return pm, nil
}

// factoryExpr is the Go expression building the property descriptor.
func factoryExpr(f *SchemaFile, pt resource.PropType, p *PropSchema) (string, error) {
	var args []string
	switch pt {
	case resource.PropRef:
		args = append(args, goName(p.Target)+"Def")
	case resource.PropRefArray, resource.PropRefMap:
		args = append(args, goName(p.Target)+"Def", strconv.FormatUint(uint64(p.Size), 10))
	case resource.PropEnum:
		values := make([]string, len(p.Values))
		for i, v := range p.Values {
			values[i] = strconv.FormatUint(uint64(v), 10)
		}
		args = append(args, "[]uint32{"+strings.Join(values, ", ")+"}")
	}

	if p.Mutable != nil {
		args = append(args, fmt.Sprintf("resource.Mutable(%t)", *p.Mutable))
	}
	if p.MutableScript != nil {
		args = append(args, fmt.Sprintf("resource.MutableScript(%t)", *p.MutableScript))
	}
	if p.Required {
		args = append(args, "resource.Required()")
	}
	if p.Script {
		args = append(args, "resource.Script()")
	}
	if p.BackRef {
		args = append(args, "resource.BackRef()")
	}
	if p.Min != nil || p.Max != nil {
		lo, hi := p.bounds()
		args = append(args, fmt.Sprintf("resource.Range(%s, %s)", floatLiteral(lo), floatLiteral(hi)))
	}
	if p.Default != nil {
		v, err := defaultValue(pt, p.Default)
		if err != nil {
			return "", err
		}
		args = append(args, fmt.Sprintf("resource.Default(%s)", goLiteral(v)))
	}
	return fmt.Sprintf("resource.%s(%s)", factoryNames[pt], strings.Join(args, ", ")), nil
}

// generatedNames are the package-level identifiers emitted for a resource.
func generatedNames(name string) []string {
	return []string{
		name, name + "Type", name + "Def", name + "Props", name + "Local",
		"New" + name, name + "From", "New" + name + "Local", name + "LocalFrom",
	}
}
