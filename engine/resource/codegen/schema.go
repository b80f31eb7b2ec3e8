package codegen

import (
	"bytes"
	"errors"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/animares/engine/resource"
)

var ErrInvalidSchemaFile = errors.New("invalid schema file")

// Format is the encoding of a schema file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported schema file extension %q", filepath.Ext(path))
}

// SchemaFile describes a set of resource definitions that are generated
// into one Go file.
type SchemaFile struct {
	Package   string           `toml:"package" yaml:"package" validate:"required"`
	Resources []ResourceSchema `toml:"resource" yaml:"resources" validate:"required,min=1,dive"`
}

type ResourceSchema struct {
	Name  string       `toml:"name" yaml:"name" validate:"required"`
	Type  uint32       `toml:"type" yaml:"type" validate:"required"`
	Props []PropSchema `toml:"prop" yaml:"props" validate:"dive"`
}

// PropSchema mirrors the property factories of the resource package.
// Target names another resource of the same file for ref, refArray and
// refMap properties.
type PropSchema struct {
	Name          string      `toml:"name" yaml:"name" validate:"required"`
	Type          string      `toml:"type" yaml:"type" validate:"required,oneof=bool u32 f32 vec2 vec3 rgb rgba quat mat4 bitmask enum string arrayBuffer ref refArray refMap selfRef"`
	Target        string      `toml:"target" yaml:"target"`
	Size          uint32      `toml:"size" yaml:"size"`
	Mutable       *bool       `toml:"mutable" yaml:"mutable"`
	MutableScript *bool       `toml:"mutableScript" yaml:"mutableScript"`
	Required      bool        `toml:"required" yaml:"required"`
	Script        bool        `toml:"script" yaml:"script"`
	BackRef       bool        `toml:"backRef" yaml:"backRef"`
	Default       interface{} `toml:"default" yaml:"default"`
	Values        []uint32    `toml:"values" yaml:"values"`
	Min           *float64    `toml:"min" yaml:"min"`
	Max           *float64    `toml:"max" yaml:"max"`
}

var validate = validator.New()

// ParseFile reads and checks the schema file at path.
func ParseFile(path string) (*SchemaFile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a schema file. Unknown keys are rejected.
func Parse(data []byte, format Format) (*SchemaFile, error) {
	var f SchemaFile
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to parse schema TOML: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown schema format %q", format)
	}

	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchemaFile, err)
	}
	if err := f.check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchemaFile, err)
	}
	return &f, nil
}

func (f *SchemaFile) resource(name string) *ResourceSchema {
	for i := range f.Resources {
		if f.Resources[i].Name == name {
			return &f.Resources[i]
		}
	}
	return nil
}

// check covers what struct tags cannot express.
func (f *SchemaFile) check() error {
	names := map[string]bool{}
	goNames := map[string]string{"RegisterLocal": "", "Definitions": ""}
	types := map[uint32]string{}

	for _, r := range f.Resources {
		if names[r.Name] {
			return fmt.Errorf("resource %s declared twice", r.Name)
		}
		names[r.Name] = true
		for _, id := range generatedNames(goName(r.Name)) {
			if other, ok := goNames[id]; ok {
				return fmt.Errorf("resource %s generates %s, already used by %q", r.Name, id, other)
			}
			goNames[id] = r.Name
		}
		if other, ok := types[r.Type]; ok {
			return fmt.Errorf("resources %s and %s share type %d", other, r.Name, r.Type)
		}
		types[r.Type] = r.Name
	}

	for _, r := range f.Resources {
		fields := map[string]bool{}
		for _, p := range r.Props {
			field := goName(p.Name)
			if fields[field] {
				return fmt.Errorf("%s.%s: Go name %s used twice", r.Name, p.Name, field)
			}
			fields[field] = true
			for _, m := range []string{field, "Set" + field, "Set" + field + "At"} {
				if reserved[m] {
					return fmt.Errorf("%s.%s: %s collides with a resource method", r.Name, p.Name, m)
				}
			}

			switch p.Type {
			case "ref", "refArray", "refMap":
				if p.Target == "" {
					return fmt.Errorf("%s.%s: %s needs a target", r.Name, p.Name, p.Type)
				}
				if f.resource(p.Target) == nil {
					return fmt.Errorf("%s.%s: unknown target %s", r.Name, p.Name, p.Target)
				}
			default:
				if p.Target != "" {
					return fmt.Errorf("%s.%s: %s takes no target", r.Name, p.Name, p.Type)
				}
			}
			if (p.Type == "refArray" || p.Type == "refMap") && p.Size == 0 {
				return fmt.Errorf("%s.%s: %s needs a size", r.Name, p.Name, p.Type)
			}
			if p.BackRef && p.Type != "ref" && p.Type != "selfRef" {
				return fmt.Errorf("%s.%s: backRef only applies to single refs", r.Name, p.Name)
			}
			if len(p.Values) > 0 && p.Type != "enum" {
				return fmt.Errorf("%s.%s: values only apply to enums", r.Name, p.Name)
			}
			if (p.Min != nil || p.Max != nil) && p.Type != "u32" && p.Type != "f32" {
				return fmt.Errorf("%s.%s: min and max only apply to u32 and f32", r.Name, p.Name)
			}
		}
	}
	return nil
}

// Definitions compiles every resource of the file, so schema files can be
// used at runtime without generating code. Definitions are declared before
// any is compiled, so refs may point forward or form cycles.
func (f *SchemaFile) Definitions() ([]*resource.ResourceDefinition, error) {
	defs := make(map[string]*resource.ResourceDefinition, len(f.Resources))
	out := make([]*resource.ResourceDefinition, 0, len(f.Resources))
	for _, r := range f.Resources {
		d := resource.Declare(r.Name, resource.ResourceType(r.Type))
		defs[r.Name] = d
		out = append(out, d)
	}

	for _, r := range f.Resources {
		schema := make(resource.Schema, 0, len(r.Props))
		for i := range r.Props {
			p := &r.Props[i]
			prop, err := p.propDef(defs)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %w", ErrInvalidSchemaFile, r.Name, p.Name, err)
			}
			schema = append(schema, resource.Field(p.Name, prop))
		}
		if err := defs[r.Name].Compile(schema); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchemaFile, err)
		}
	}
	return out, nil
}

func (p *PropSchema) propType() resource.PropType {
	pt, err := resource.ParsePropType(p.Type)
	if err != nil {
		// Parse validated the name.
		panic(err)
	}
	return pt
}

func (p *PropSchema) options() ([]resource.PropOption, error) {
	var opts []resource.PropOption
	if p.Mutable != nil {
		opts = append(opts, resource.Mutable(*p.Mutable))
	}
	if p.MutableScript != nil {
		opts = append(opts, resource.MutableScript(*p.MutableScript))
	}
	if p.Required {
		opts = append(opts, resource.Required())
	}
	if p.Script {
		opts = append(opts, resource.Script())
	}
	if p.BackRef {
		opts = append(opts, resource.BackRef())
	}
	if p.Min != nil || p.Max != nil {
		lo, hi := p.bounds()
		opts = append(opts, resource.Range(lo, hi))
	}
	if p.Default != nil {
		v, err := defaultValue(p.propType(), p.Default)
		if err != nil {
			return nil, err
		}
		if len(p.Values) > 0 {
			if n, ok := v.(uint32); ok && !slices.Contains(p.Values, n) {
				return nil, fmt.Errorf("default %d is not one of %v", n, p.Values)
			}
		}
		opts = append(opts, resource.Default(v))
	}
	return opts, nil
}

func (p *PropSchema) bounds() (float64, float64) {
	lo, hi := gomath.Inf(-1), gomath.Inf(1)
	if p.Min != nil {
		lo = *p.Min
	}
	if p.Max != nil {
		hi = *p.Max
	}
	return lo, hi
}

func (p *PropSchema) propDef(defs map[string]*resource.ResourceDefinition) (resource.PropDef, error) {
	opts, err := p.options()
	if err != nil {
		return resource.PropDef{}, err
	}

	switch pt := p.propType(); pt {
	case resource.PropBool:
		return resource.Bool(opts...), nil
	case resource.PropU32:
		return resource.U32(opts...), nil
	case resource.PropF32:
		return resource.F32(opts...), nil
	case resource.PropVec2:
		return resource.Vec2(opts...), nil
	case resource.PropVec3:
		return resource.Vec3(opts...), nil
	case resource.PropRGB:
		return resource.RGB(opts...), nil
	case resource.PropRGBA:
		return resource.RGBA(opts...), nil
	case resource.PropQuat:
		return resource.Quat(opts...), nil
	case resource.PropMat4:
		return resource.Mat4(opts...), nil
	case resource.PropBitmask:
		return resource.Bitmask(opts...), nil
	case resource.PropEnum:
		return resource.Enum(p.Values, opts...), nil
	case resource.PropString:
		return resource.String(opts...), nil
	case resource.PropArrayBuffer:
		return resource.ArrayBuffer(opts...), nil
	case resource.PropRef:
		return resource.Ref(defs[p.Target], opts...), nil
	case resource.PropRefArray:
		return resource.RefArray(defs[p.Target], p.Size, opts...), nil
	case resource.PropRefMap:
		return resource.RefMap(defs[p.Target], p.Size, opts...), nil
	case resource.PropSelfRef:
		return resource.SelfRef(opts...), nil
	default:
		return resource.PropDef{}, fmt.Errorf("unsupported property type %s", pt)
	}
}
