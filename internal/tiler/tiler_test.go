package tiler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiler.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestApplyConfigFile(t *testing.T) {
	path := writeConfig(t, `
input = "tiles"
srid = 32632
transition = 2500.0
appearance = "basic"
classic = true
color = [0.5, 0.5, 0.25]
search_paths = ["/data/textures"]

[material]
diffuse = [0.8, 0.8, 0.8, 1.0]
shininess = 12.0
`)

	opts := DefaultTilerOptions()
	opts.Output = "kept"
	require.NoError(t, ApplyConfigFile(path, opts))

	assert.Equal(t, "tiles", opts.Input)
	assert.Equal(t, "kept", opts.Output)
	assert.Equal(t, 32632, opts.Srid)
	assert.Equal(t, 2500.0, opts.Transition)
	assert.Equal(t, AppearanceBasic, opts.Appearance)
	assert.Equal(t, OutputClassic, opts.Mode)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.25}, opts.BaseColor)
	assert.Equal(t, []string{"/data/textures"}, opts.SearchPaths)
	assert.Equal(t, mgl32.Vec4{0.8, 0.8, 0.8, 1}, opts.Material.Diffuse)
	assert.Equal(t, DefaultMaterialOptions().Ambient, opts.Material.Ambient)
	assert.Equal(t, float32(12), opts.Material.Shininess)
	assert.Equal(t, DefaultTextureWidth, opts.TextureWidth)
}

func TestApplyConfigFileRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "inptu = \"typo\"\n")
	assert.Error(t, ApplyConfigFile(path, DefaultTilerOptions()))

	assert.Error(t, ApplyConfigFile(filepath.Join(t.TempDir(), "missing.toml"), DefaultTilerOptions()))
}

func TestParseAppearanceKind(t *testing.T) {
	assert.Equal(t, AppearancePhong, ParseAppearanceKind(" phong "))
	assert.Equal(t, AppearanceBasic, ParseAppearanceKind("Basic"))
	assert.Equal(t, AppearanceKind(""), ParseAppearanceKind("gouraud"))
}

func TestCopyDoesNotShareSearchPaths(t *testing.T) {
	opts := DefaultTilerOptions()
	opts.SearchPaths = []string{"a"}

	copied := opts.Copy()
	copied.SearchPaths[0] = "b"
	copied.Flat = true

	assert.Equal(t, "a", opts.SearchPaths[0])
	assert.False(t, opts.Flat)
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	var err error = &SerializationError{Path: "out/database.tdbb", Err: cause}

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "out/database.tdbb")

	var target *SerializationError
	assert.True(t, errors.As(err, &target))
}

func TestStateIsTerminal(t *testing.T) {
	assert.True(t, StateDone.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
	assert.False(t, StateProcessing.IsTerminal())
	assert.False(t, StateIdle.IsTerminal())
}
