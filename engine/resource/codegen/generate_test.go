package codegen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	f, err := Parse([]byte(sceneTOML), FormatTOML)
	require.NoError(t, err)

	src, err := Generate(f, "scene.toml")
	require.NoError(t, err)
	code := string(src)

	file, err := parser.ParseFile(token.NewFileSet(), "scene_generated.go", src, parser.ParseComments)
	require.NoError(t, err, code)
	assert.Equal(t, "scene", file.Name.Name)

	imports := map[string]bool{}
	for _, imp := range file.Imports {
		imports[imp.Path.Value] = true
	}
	assert.True(t, imports[`"math"`], "range bounds use math.Inf")
	assert.True(t, imports[`"github.com/spaghettifunk/animares/engine/math"`])
	assert.True(t, imports[`"github.com/spaghettifunk/animares/engine/resource"`])

	for _, want := range []string{
		"// Code generated by schemagen from scene.toml. DO NOT EDIT.",
		"PlayerType resource.ResourceType = 1",
		"ActorDef  = resource.Declare(\"actor\", ActorType)",
		`resource.Field("health", resource.U32(resource.Range(gomath.Inf(-1), 1000), resource.Default(uint32(100)))),`,
		`resource.Field("owner", resource.Ref(PlayerDef, resource.BackRef())),`,
		`resource.Field("position", resource.Vec3(resource.Default([]float32{1, 2, 3}))),`,
		`resource.Field("party", resource.RefArray(PlayerDef, 4)),`,
		`resource.Field("kind", resource.Enum([]uint32{1, 2, 4}, resource.Mutable(false), resource.Default(uint32(2)))),`,
		"actorPropHealth = iota",
		"func NewActor(m resource.RemoteResourceManager, props *ActorProps) (*Actor, error)",
		"func ActorFrom(r *resource.RemoteResource) *Actor",
		"func (a *Actor) Health() uint32",
		"func (a *Actor) SetHealth(value uint32)",
		"func (a *Actor) Owner() *Player",
		"func (a *Actor) SetOwner(value *Player)",
		"func (a *Actor) Position() math.Vec3",
		"func (a *Actor) Party() []*Player",
		"func (a *Actor) SetPartyAt(index int, value *Player)",
		"func (a *Actor) Kind() uint32",
		"func (a *Actor) MeshData() []byte",
		"func (p *Player) SetName(value string)",
		"type ActorLocal struct",
		"func (a *Actor) Remote() *resource.RemoteResource",
		"func (a *ActorLocal) Owner() *PlayerLocal",
		"func (a *ActorLocal) Party() []*PlayerLocal",
		"func PlayerLocalFrom(r resource.LocalResource) *PlayerLocal",
		"case interface{ playerLocal() *PlayerLocal }:",
		"func RegisterLocal(r resource.LocalRegistry, overrides map[resource.ResourceType]resource.LocalConstructor) error",
	} {
		assert.Contains(t, code, want)
	}

	t.Run("immutable properties have no setter", func(t *testing.T) {
		assert.NotContains(t, code, "SetKind")
		assert.NotContains(t, code, "SetMeshData")
	})

	t.Run("output is stable", func(t *testing.T) {
		again, err := Generate(f, "scene.toml")
		require.NoError(t, err)
		assert.Equal(t, src, again)
	})
}

func TestGenerateWithoutMath(t *testing.T) {
	f, err := Parse([]byte(`
package = "tags"

[[resource]]
name = "tag"
type = 9

  [[resource.prop]]
  name = "label"
  type = "string"

  [[resource.prop]]
  name = "next"
  type = "selfRef"

  [[resource.prop]]
  name = "slots"
  type = "refMap"
  target = "tag"
  size = 3
`), FormatTOML)
	require.NoError(t, err)

	src, err := Generate(f, "tags.toml")
	require.NoError(t, err)

	file, err := parser.ParseFile(token.NewFileSet(), "tags_generated.go", src, parser.ImportsOnly)
	require.NoError(t, err)
	require.Len(t, file.Imports, 1)

	code := string(src)
	assert.Contains(t, code, `resource.Field("next", resource.SelfRef()),`)
	assert.Contains(t, code, "func (t *Tag) Next() *Tag")
	assert.Contains(t, code, "func (t *Tag) Slots() []*Tag")
	assert.Contains(t, code, "func (t *Tag) SetSlotsAt(key int, value *Tag)")
	assert.Contains(t, code, "func (t *TagLocal) Next() *TagLocal")
	assert.Contains(t, code, "func (t *TagLocal) Slots() []*TagLocal")
}

func TestGenerateFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(in, []byte(sceneTOML), 0o644))

	out := OutputPath(in)
	assert.Equal(t, filepath.Join(dir, "scene_generated.go"), out)

	require.NoError(t, GenerateFile(in, out, "world"))
	src, err := os.ReadFile(out)
	require.NoError(t, err)

	file, err := parser.ParseFile(token.NewFileSet(), out, src, parser.PackageClauseOnly)
	require.NoError(t, err)
	assert.Equal(t, "world", file.Name.Name)
}
