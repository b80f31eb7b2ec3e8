package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spaghettifunk/animares/engine/core"
)

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by schemagen from {{.Source}}. DO NOT EDIT.

package {{.Package}}

import (
{{- if .UsesGoMath}}
	gomath "math"
{{- end}}

{{- if .UsesMath}}
	"github.com/spaghettifunk/animares/engine/math"
{{- end}}
	"github.com/spaghettifunk/animares/engine/resource"
)

const (
{{- range .Resources}}
	{{.GoName}}Type resource.ResourceType = {{.Type}}
{{- end}}
)

var (
{{- range .Resources}}
	{{.GoName}}Def = resource.Declare("{{.Name}}", {{.GoName}}Type)
{{- end}}
)

func init() {
{{- range .Resources}}
	{{.GoName}}Def.MustCompile(resource.Schema{
	{{- range .Props}}
		resource.Field("{{.Name}}", {{.Factory}}),
	{{- end}}
	})
{{- end}}
}

// Definitions lists every resource definition of this file.
func Definitions() []*resource.ResourceDefinition {
	return []*resource.ResourceDefinition{
	{{- range .Resources}}
		{{.GoName}}Def,
	{{- end}}
	}
}

// RegisterLocal registers every resource of this file with r. Types without
// an entry in overrides are read through their generated local view.
func RegisterLocal(r resource.LocalRegistry, overrides map[resource.ResourceType]resource.LocalConstructor) error {
	ctors := []struct {
		def  *resource.ResourceDefinition
		ctor resource.LocalConstructor
	}{
	{{- range .Resources}}
		{ {{.GoName}}Def, func(view *resource.LocalView) resource.LocalResource { return New{{.Local}}(view) } },
	{{- end}}
	}
	for _, c := range ctors {
		ctor := c.ctor
		if o, ok := overrides[c.def.ResourceType()]; ok {
			ctor = o
		}
		if err := r.Register(c.def, ctor); err != nil {
			return err
		}
	}
	return nil
}
{{range .Resources}}{{template "resource" .}}{{end}}`))

func init() {
	template.Must(fileTemplate.New("resource").Parse(`{{$r := .}}{{$x := .Receiver}}
{{- if .Props}}
const (
{{- range $i, $p := .Props}}
	{{$p.Index}}{{if eq $i 0}} = iota{{end}}
{{- end}}
)
{{- end}}

// {{.GoName}} is the typed writer-side handle of a {{.Name}} resource.
type {{.GoName}} struct {
	*resource.RemoteResource
}

// {{.GoName}}Props are the initial values of a new {{.GoName}}. Unset fields
// keep the property default.
type {{.GoName}}Props struct {
{{- range .Props}}
{{- if eq .Kind "plain"}}
	{{.Field}} *{{.GoType}}
{{- else if eq .Kind "string"}}
	{{.Field}} string
{{- else if eq .Kind "buffer"}}
	{{.Field}} []byte
{{- else if eq .Kind "ref"}}
	{{.Field}} *{{.Target}}
{{- else if eq .Kind "refArray"}}
	{{.Field}} []*{{.Target}}
{{- else if eq .Kind "refMap"}}
	{{.Field}} map[int]*{{.Target}}
{{- end}}
{{- end}}
}

func (p *{{.GoName}}Props) props() resource.Props {
	props := resource.Props{}
	if p == nil {
		return props
	}
{{- range .Props}}
{{- if eq .Kind "plain"}}
	if p.{{.Field}} != nil {
		props["{{.Name}}"] = *p.{{.Field}}
	}
{{- else if eq .Kind "string"}}
	if p.{{.Field}} != "" {
		props["{{.Name}}"] = p.{{.Field}}
	}
{{- else if eq .Kind "buffer"}}
	if p.{{.Field}} != nil {
		props["{{.Name}}"] = p.{{.Field}}
	}
{{- else if eq .Kind "ref"}}
	if p.{{.Field}} != nil {
		props["{{.Name}}"] = p.{{.Field}}.Remote()
	}
{{- else if eq .Kind "refArray"}}
	if len(p.{{.Field}}) > 0 {
		list := make([]*resource.RemoteResource, len(p.{{.Field}}))
		for i, v := range p.{{.Field}} {
			list[i] = v.Remote()
		}
		props["{{.Name}}"] = list
	}
{{- else if eq .Kind "refMap"}}
	if len(p.{{.Field}}) > 0 {
		m := make(map[int]*resource.RemoteResource, len(p.{{.Field}}))
		for k, v := range p.{{.Field}} {
			m[k] = v.Remote()
		}
		props["{{.Name}}"] = m
	}
{{- end}}
{{- end}}
	return props
}

// New{{.GoName}} creates a {{.Name}} resource owned by m.
func New{{.GoName}}(m resource.RemoteResourceManager, props *{{.GoName}}Props) (*{{.GoName}}, error) {
	r, err := resource.NewRemoteResource(m, {{.GoName}}Def, props.props())
	if err != nil {
		return nil, err
	}
	return {{.GoName}}From(r), nil
}

// {{.GoName}}From returns the typed handle bound to r, or nil when r is nil
// or of another type.
func {{.GoName}}From(r *resource.RemoteResource) *{{.GoName}} {
	if r == nil || r.Definition() != {{.GoName}}Def {
		return nil
	}
	if typed, ok := r.Binding().(*{{.GoName}}); ok {
		return typed
	}
	typed := &{{.GoName}}{RemoteResource: r}
	r.Bind(typed)
	return typed
}

// Remote returns the untyped handle; nil for a nil {{.GoName}}.
func ({{$x}} *{{.GoName}}) Remote() *resource.RemoteResource {
	if {{$x}} == nil {
		return nil
	}
	return {{$x}}.RemoteResource
}
{{range .Props}}
{{- if eq .Kind "plain"}}
func ({{$x}} *{{$r.GoName}}) {{.Field}}() {{.GoType}} {
	return {{$x}}.RemoteResource.{{.Access}}({{.Index}})
}
{{if .Mutable}}
func ({{$x}} *{{$r.GoName}}) Set{{.Field}}(value {{.GoType}}) {
	{{$x}}.RemoteResource.Set{{.Access}}({{.Index}}, value)
}
{{end}}
{{- else if eq .Kind "string"}}
func ({{$x}} *{{$r.GoName}}) {{.Field}}() string {
	return {{$x}}.RemoteResource.Text({{.Index}})
}
{{if .Mutable}}
func ({{$x}} *{{$r.GoName}}) Set{{.Field}}(value string) {
	{{$x}}.RemoteResource.SetText({{.Index}}, value)
}
{{end}}
{{- else if eq .Kind "buffer"}}
func ({{$x}} *{{$r.GoName}}) {{.Field}}() []byte {
	return {{$x}}.RemoteResource.ArrayBuffer({{.Index}})
}
{{if .Mutable}}
func ({{$x}} *{{$r.GoName}}) Set{{.Field}}(value []byte) {
	{{$x}}.RemoteResource.SetArrayBuffer({{.Index}}, value)
}
{{end}}
{{- else if eq .Kind "ref"}}
func ({{$x}} *{{$r.GoName}}) {{.Field}}() *{{.Target}} {
	return {{.Target}}From({{$x}}.RemoteResource.Ref({{.Index}}))
}
{{if .Mutable}}
func ({{$x}} *{{$r.GoName}}) Set{{.Field}}(value *{{.Target}}) {
	{{$x}}.RemoteResource.SetRef({{.Index}}, value.Remote())
}
{{end}}
{{- else if eq .Kind "refArray"}}
func ({{$x}} *{{$r.GoName}}) {{.Field}}() []*{{.Target}} {
	list := {{$x}}.RemoteResource.RefArray({{.Index}})
	out := make([]*{{.Target}}, len(list))
	for i, r := range list {
		out[i] = {{.Target}}From(r)
	}
	return out
}
{{if .Mutable}}
func ({{$x}} *{{$r.GoName}}) Set{{.Field}}(value []*{{.Target}}) {
	list := make([]*resource.RemoteResource, len(value))
	for i, v := range value {
		list[i] = v.Remote()
	}
	{{$x}}.RemoteResource.SetRefArray({{.Index}}, list)
}

func ({{$x}} *{{$r.GoName}}) Set{{.Field}}At(index int, value *{{.Target}}) {
	{{$x}}.RemoteResource.SetRefArrayItem({{.Index}}, index, value.Remote())
}
{{end}}
{{- else if eq .Kind "refMap"}}
func ({{$x}} *{{$r.GoName}}) {{.Field}}() []*{{.Target}} {
	slots := {{$x}}.RemoteResource.RefMap({{.Index}})
	out := make([]*{{.Target}}, len(slots))
	for k, r := range slots {
		out[k] = {{.Target}}From(r)
	}
	return out
}
{{if .Mutable}}
func ({{$x}} *{{$r.GoName}}) Set{{.Field}}At(key int, value *{{.Target}}) {
	{{$x}}.RemoteResource.SetRefMapItem({{.Index}}, key, value.Remote())
}
{{end}}
{{- end}}
{{- end}}

// {{.Local}} is the reader-side view of a {{.Name}} resource.
type {{.Local}} struct {
	*resource.LocalView
}

func New{{.Local}}(view *resource.LocalView) *{{.Local}} {
	return &{{.Local}}{LocalView: view}
}

// {{.Local}}From returns the {{.Name}} view behind r. Override types resolve
// through an embedded *{{.Local}}; other types yield nil.
func {{.Local}}From(r resource.LocalResource) *{{.Local}} {
	switch v := r.(type) {
	case interface{ {{.LocalMarker}}() *{{.Local}} }:
		return v.{{.LocalMarker}}()
	case *resource.LocalView:
		if v != nil && v.Definition() == {{.GoName}}Def {
			return New{{.Local}}(v)
		}
	}
	return nil
}

func ({{$x}} *{{.Local}}) {{.LocalMarker}}() *{{.Local}} {
	return {{$x}}
}
{{range .Props}}
{{- if eq .Kind "plain"}}
func ({{$x}} *{{$r.Local}}) {{.Field}}() {{.GoType}} {
	return {{$x}}.LocalView.{{.Access}}({{.Index}})
}
{{- else if eq .Kind "string"}}
func ({{$x}} *{{$r.Local}}) {{.Field}}() string {
	return {{$x}}.LocalView.Text({{.Index}})
}
{{- else if eq .Kind "buffer"}}
func ({{$x}} *{{$r.Local}}) {{.Field}}() []byte {
	return {{$x}}.LocalView.ArrayBuffer({{.Index}})
}
{{- else if eq .Kind "ref"}}
func ({{$x}} *{{$r.Local}}) {{.Field}}() *{{.Target}}Local {
	return {{.Target}}LocalFrom({{$x}}.LocalView.Ref({{.Index}}))
}
{{- else if eq .Kind "refArray"}}
func ({{$x}} *{{$r.Local}}) {{.Field}}() []*{{.Target}}Local {
	list := {{$x}}.LocalView.RefArray({{.Index}})
	out := make([]*{{.Target}}Local, 0, len(list))
	for _, r := range list {
		if typed := {{.Target}}LocalFrom(r); typed != nil {
			out = append(out, typed)
		}
	}
	return out
}
{{- else if eq .Kind "refMap"}}
func ({{$x}} *{{$r.Local}}) {{.Field}}() []*{{.Target}}Local {
	slots := {{$x}}.LocalView.RefMap({{.Index}})
	out := make([]*{{.Target}}Local, len(slots))
	for k, r := range slots {
		out[k] = {{.Target}}LocalFrom(r)
	}
	return out
}
{{- end}}
{{end}}`))
}

// Generate renders the Go source for f. source names the schema file in the
// generated header.
func Generate(f *SchemaFile, source string) ([]byte, error) {
	if _, err := f.Definitions(); err != nil {
		return nil, err
	}
	model, err := buildModel(f, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchemaFile, err)
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, model); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", source, err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code for %s: %w", source, err)
	}
	return out, nil
}

// GenerateFile parses the schema at in and writes the generated code to out.
// A non-empty pkg overrides the package named in the schema file.
func GenerateFile(in, out, pkg string) error {
	f, err := ParseFile(in)
	if err != nil {
		return err
	}
	if pkg != "" {
		f.Package = pkg
	}
	src, err := Generate(f, filepath.Base(in))
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	core.LogInfo("Generated %d resource types from %s into %s", len(f.Resources), in, out)
	return nil
}
