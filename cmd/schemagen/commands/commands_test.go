package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schema = `
package = "demo"

[[resource]]
name = "lamp"
type = 1

  [[resource.prop]]
  name = "on"
  type = "bool"
`

func run(t *testing.T, args ...string) error {
	t.Helper()
	pkgName = ""
	cmd := newRootCommand("test", "none")
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "lamp.toml")
	require.NoError(t, os.WriteFile(in, []byte(schema), 0o644))

	t.Run("default output", func(t *testing.T) {
		require.NoError(t, run(t, "generate", "-i", in))
		src, err := os.ReadFile(filepath.Join(dir, "lamp_generated.go"))
		require.NoError(t, err)
		assert.Contains(t, string(src), "package demo")
		assert.Contains(t, string(src), "func (l *Lamp) SetOn(value bool)")
	})

	t.Run("explicit output and package", func(t *testing.T) {
		out := filepath.Join(dir, "other.go")
		require.NoError(t, run(t, "generate", "-i", in, "-o", out, "-p", "other"))
		src, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(src), "package other")
	})

	t.Run("input is required", func(t *testing.T) {
		assert.Error(t, run(t, "generate"))
	})
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(good, []byte(schema), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`package = "x"`), 0o644))

	assert.NoError(t, run(t, "validate", good))
	assert.Error(t, run(t, "validate", good, bad))
	assert.Error(t, run(t, "validate"))
}
