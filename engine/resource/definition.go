package resource

import (
	"fmt"
)

// SchemaEntry is one named property of a schema.
type SchemaEntry struct {
	Name string
	Prop PropDef
}

// Schema is an ordered property list. The order is the byte layout.
type Schema []SchemaEntry

// Field pairs a property name with its descriptor.
func Field(name string, prop PropDef) SchemaEntry {
	return SchemaEntry{Name: name, Prop: prop}
}

// ResourceDefinition is a compiled schema plus its byte layout. It is built in
// two phases: Declare gives the definition its identity so that properties
// (its own selfRefs, or other definitions) can point at it, then Compile
// fixes the layout. After Compile it never changes.
type ResourceDefinition struct {
	name         string
	resourceType ResourceType
	props        []PropDef
	index        map[string]int
	byteLength   uint32
	compiled     bool
}

// Declare creates an uncompiled definition.
func Declare(name string, resourceType ResourceType) *ResourceDefinition {
	return &ResourceDefinition{
		name:         name,
		resourceType: resourceType,
	}
}

// Define declares and compiles in one step.
func Define(name string, resourceType ResourceType, schema Schema) (*ResourceDefinition, error) {
	def := Declare(name, resourceType)
	if err := def.Compile(schema); err != nil {
		return nil, err
	}
	return def, nil
}

// MustDefine is Define for package-level definitions; it panics on schema errors.
func MustDefine(name string, resourceType ResourceType, schema Schema) *ResourceDefinition {
	def, err := Define(name, resourceType, schema)
	if err != nil {
		panic(err)
	}
	return def
}

// Compile assigns byte offsets left to right with no padding. SelfRef
// properties are rewritten into refs targeting d before their offset is
// assigned.
func (d *ResourceDefinition) Compile(schema Schema) error {
	if d.compiled {
		return fmt.Errorf("%s: %w", d.name, ErrDefinitionCompiled)
	}

	props := make([]PropDef, 0, len(schema))
	index := make(map[string]int, len(schema))
	var cursor uint32

	for _, entry := range schema {
		if entry.Name == "" {
			return fmt.Errorf("%s: %w: unnamed property", d.name, ErrInvalidSchema)
		}
		if _, ok := index[entry.Name]; ok {
			return &PropertyError{Resource: d.name, Property: entry.Name, Err: ErrDuplicateProperty}
		}

		prop := entry.Prop
		if prop.err != nil {
			return &PropertyError{Resource: d.name, Property: entry.Name, Err: ErrInvalidSchema, Detail: prop.err.Error()}
		}
		if prop.Type == PropSelfRef {
			prop.Type = PropRef
			prop.ResourceDef = d
		}
		if prop.Size == 0 || prop.ElementByteWidth == 0 {
			return &PropertyError{Resource: d.name, Property: entry.Name, Err: ErrInvalidSchema, Detail: "zero size"}
		}
		if prop.Type.IsRef() && prop.ResourceDef == nil {
			return &PropertyError{Resource: d.name, Property: entry.Name, Err: ErrInvalidSchema, Detail: "ref without target definition"}
		}

		prop.Name = entry.Name
		prop.ByteOffset = cursor
		cursor += prop.ElementByteWidth * prop.Size

		index[entry.Name] = len(props)
		props = append(props, prop)
	}

	d.props = props
	d.index = index
	d.byteLength = cursor
	d.compiled = true
	return nil
}

// MustCompile panics on schema errors.
func (d *ResourceDefinition) MustCompile(schema Schema) *ResourceDefinition {
	if err := d.Compile(schema); err != nil {
		panic(err)
	}
	return d
}

func (d *ResourceDefinition) Name() string {
	return d.name
}

func (d *ResourceDefinition) ResourceType() ResourceType {
	return d.resourceType
}

func (d *ResourceDefinition) ByteLength() uint32 {
	return d.byteLength
}

func (d *ResourceDefinition) Compiled() bool {
	return d.compiled
}

// Len is the number of properties.
func (d *ResourceDefinition) Len() int {
	return len(d.props)
}

// Prop returns the descriptor at index i.
func (d *ResourceDefinition) Prop(i int) PropDef {
	return d.props[i]
}

// PropIndex returns the index of the named property, or -1.
func (d *ResourceDefinition) PropIndex(name string) int {
	if i, ok := d.index[name]; ok {
		return i
	}
	return -1
}

// Props returns a copy of the descriptors in layout order.
func (d *ResourceDefinition) Props() []PropDef {
	return append([]PropDef(nil), d.props...)
}

func (d *ResourceDefinition) String() string {
	return fmt.Sprintf("%s(type=%d, %d props, %d bytes)", d.name, d.resourceType, len(d.props), d.byteLength)
}
