package tools

import (
	"testing"

	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsForCommandIndex(t *testing.T) {
	flags := ParseFlagsForCommandIndex([]string{
		"-i", "in", "-output", "out", "-w", "3", "-classic", "-color", "0.5,0.25,1", "-specular", "1,1,1,1",
	})

	assert.Equal(t, "in", *flags.Input)
	assert.Equal(t, "out", *flags.Output)
	assert.Equal(t, 3, *flags.Workers)
	assert.True(t, flags.IsSet("input"))
	assert.True(t, flags.IsSet("workers"))
	assert.False(t, flags.IsSet("srid"))
	assert.Equal(t, tiler.DefaultSrid, *flags.Srid)

	opts := tiler.DefaultTilerOptions()
	require.NoError(t, flags.Apply(opts))
	assert.Equal(t, "in", opts.Input)
	assert.Equal(t, "out", opts.Output)
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, tiler.OutputClassic, opts.Mode)
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 1}, opts.BaseColor)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, opts.Material.Specular)
	assert.Equal(t, tiler.DefaultMaterialOptions().Diffuse, opts.Material.Diffuse)
}

func TestApplyKeepsUnsetOptions(t *testing.T) {
	flags := ParseFlagsForCommandMerge([]string{"-text"})

	opts := tiler.DefaultTilerOptions()
	opts.Input = "from-config"
	opts.Transition = 500
	require.NoError(t, flags.Apply(opts))

	assert.True(t, opts.Text)
	assert.Equal(t, "from-config", opts.Input)
	assert.Equal(t, 500.0, opts.Transition)
	assert.Equal(t, tiler.AppearancePhong, opts.Appearance)
}

func TestApplyRejectsMalformedColors(t *testing.T) {
	flags := ParseFlagsForCommandIndex([]string{"-ambient", "1,1,1"})
	assert.Error(t, flags.Apply(tiler.DefaultTilerOptions()))

	flags = ParseFlagsForCommandIndex([]string{"-color", "1,x,1"})
	assert.Error(t, flags.Apply(tiler.DefaultTilerOptions()))
}

func TestParseFlagsForCommandVerify(t *testing.T) {
	flags := ParseFlagsForCommandVerify([]string{"-o", "db", "-s"})
	assert.Equal(t, "db", *flags.Output)
	assert.True(t, *flags.Silent)
}
