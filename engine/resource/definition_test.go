package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileLayout(t *testing.T) {
	target := MustDefine("target", 1, nil)

	schema := Schema{
		Field("visible", Bool()),
		Field("position", Vec3()),
		Field("transform", Mat4()),
		Field("name", String()),
		Field("data", ArrayBuffer()),
		Field("items", RefArray(target, 4)),
		Field("count", U32()),
	}

	def := MustDefine("layout", 2, schema)
	require.True(t, def.Compiled())
	require.Equal(t, 7, def.Len())

	want := []struct {
		name   string
		offset uint32
		size   uint32
	}{
		{"visible", 0, 1},
		{"position", 4, 3},
		{"transform", 16, 16},
		{"name", 80, 1},
		{"data", 84, 2},
		{"items", 92, 4},
		{"count", 108, 1},
	}
	for i, w := range want {
		p := def.Prop(i)
		assert.Equal(t, w.name, p.Name)
		assert.Equal(t, w.offset, p.ByteOffset, w.name)
		assert.Equal(t, w.size, p.Size, w.name)
		assert.Equal(t, ElementByteWidth, p.ElementByteWidth)
		assert.Equal(t, i, def.PropIndex(w.name))
	}
	assert.Equal(t, uint32(112), def.ByteLength())
	assert.Equal(t, -1, def.PropIndex("missing"))

	t.Run("deterministic", func(t *testing.T) {
		again := MustDefine("layout", 2, schema)
		require.Equal(t, def.ByteLength(), again.ByteLength())
		for i := 0; i < def.Len(); i++ {
			assert.Equal(t, def.Prop(i).ByteOffset, again.Prop(i).ByteOffset)
		}
	})

	t.Run("offsets are contiguous", func(t *testing.T) {
		var cursor uint32
		for _, p := range def.Props() {
			assert.Equal(t, cursor, p.ByteOffset)
			cursor += p.ByteLength()
		}
		assert.Equal(t, def.ByteLength(), cursor)
	})
}

func TestCompileEmpty(t *testing.T) {
	def, err := Define("empty", 9, Schema{})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), def.ByteLength())
	assert.Equal(t, 0, def.Len())
	assert.Empty(t, def.Props())
}

func TestCompileSelfRef(t *testing.T) {
	def := Declare("node", 3)
	require.False(t, def.Compiled())

	err := def.Compile(Schema{
		Field("parent", SelfRef()),
		Field("value", F32()),
	})
	require.NoError(t, err)

	parent := def.Prop(0)
	assert.Equal(t, PropRef, parent.Type)
	assert.Same(t, def, parent.ResourceDef)
	assert.Equal(t, uint32(8), def.ByteLength())
}

func TestCompileErrors(t *testing.T) {
	target := MustDefine("target", 1, nil)

	t.Run("compiled twice", func(t *testing.T) {
		def := MustDefine("twice", 2, Schema{Field("a", U32())})
		err := def.Compile(Schema{Field("a", U32())})
		assert.ErrorIs(t, err, ErrDefinitionCompiled)
	})

	t.Run("duplicate property", func(t *testing.T) {
		_, err := Define("dup", 2, Schema{Field("a", U32()), Field("a", F32())})
		require.ErrorIs(t, err, ErrDuplicateProperty)

		var perr *PropertyError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "a", perr.Property)
		assert.Equal(t, "dup", perr.Resource)
	})

	t.Run("unnamed property", func(t *testing.T) {
		_, err := Define("unnamed", 2, Schema{Field("", U32())})
		assert.ErrorIs(t, err, ErrInvalidSchema)
	})

	t.Run("empty ref array", func(t *testing.T) {
		_, err := Define("zero", 2, Schema{Field("items", RefArray(target, 0))})
		assert.ErrorIs(t, err, ErrInvalidSchema)
	})

	t.Run("ref without target", func(t *testing.T) {
		_, err := Define("dangling", 2, Schema{Field("other", Ref(nil))})
		assert.ErrorIs(t, err, ErrInvalidSchema)
	})

	t.Run("must helpers panic", func(t *testing.T) {
		assert.Panics(t, func() {
			MustDefine("dup", 2, Schema{Field("a", U32()), Field("a", U32())})
		})
	})

	t.Run("invalid default", func(t *testing.T) {
		_, err := Define("badDefault", 2, Schema{Field("speed", U32(Default("one hundred")))})
		require.ErrorIs(t, err, ErrInvalidSchema)

		var perr *PropertyError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "speed", perr.Property)

		assert.Panics(t, func() {
			MustDefine("badDefault", 2, Schema{Field("speed", U32(Default("one hundred")))})
		})
	})

	t.Run("range excluding zero without default", func(t *testing.T) {
		assert.NotPanics(t, func() {
			def, err := Define("ranged", 2, Schema{
				Field("count", U32(Range(5, 10))),
				Field("scale", F32(Range(1, 10))),
			})
			require.NoError(t, err)
			assert.Equal(t, []uint32{0}, def.Prop(0).Default)
		})
	})

	t.Run("explicit default outside range", func(t *testing.T) {
		_, err := Define("outside", 2, Schema{Field("count", U32(Range(5, 10), Default(uint32(1))))})
		assert.ErrorIs(t, err, ErrInvalidSchema)

		_, err = Define("outsideF", 2, Schema{Field("scale", F32(Default(float32(0)), Range(1, 10)))})
		assert.ErrorIs(t, err, ErrInvalidSchema)
	})

	t.Run("explicit default inside range", func(t *testing.T) {
		def, err := Define("inside", 2, Schema{Field("count", U32(Range(5, 10), Default(uint32(7))))})
		require.NoError(t, err)
		assert.Equal(t, []uint32{7}, def.Prop(0).Default)
	})
}

func TestPropFactories(t *testing.T) {
	t.Run("mutable by default", func(t *testing.T) {
		p := U32()
		assert.True(t, p.Mutable)
		assert.True(t, p.MutableScript)
		assert.False(t, p.Required)
	})

	t.Run("mutable script follows mutable", func(t *testing.T) {
		p := F32(Mutable(false))
		assert.False(t, p.Mutable)
		assert.False(t, p.MutableScript)

		p = F32(Mutable(false), MutableScript(true))
		assert.False(t, p.Mutable)
		assert.True(t, p.MutableScript)
	})

	t.Run("array buffers are immutable and required", func(t *testing.T) {
		p := ArrayBuffer()
		assert.False(t, p.Mutable)
		assert.True(t, p.Required)
		assert.Equal(t, uint32(2), p.Size)
	})

	t.Run("defaults", func(t *testing.T) {
		assert.Equal(t, []uint32{100}, U32(Default(uint32(100))).Default)
		assert.Equal(t, []uint32{0, 0, 0, 0x3f800000}, Quat().Default)
		assert.Nil(t, Enum([]uint32{1, 2}).Default)
		assert.Nil(t, Bitmask().Default)
		assert.Nil(t, String().Default)
	})
}

func TestParsePropType(t *testing.T) {
	for _, name := range []string{"bool", "u32", "vec3", "arrayBuffer", "refArray", "refMap", "selfRef"} {
		pt, err := ParsePropType(name)
		require.NoError(t, err)
		assert.Equal(t, name, pt.String())
	}

	_, err := ParsePropType("vec5")
	assert.Error(t, err)
}
