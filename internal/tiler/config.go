package tiler

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"
)

// Layout of the optional TOML parameter file. Keys absent from the file leave the
// corresponding option untouched.
type fileConfig struct {
	Input           string       `toml:"input"`
	Output          string       `toml:"output"`
	Recursive       bool         `toml:"recursive"`
	Srid            int          `toml:"srid"`
	ZOffset         float64      `toml:"zoffset"`
	Texture         string       `toml:"texture"`
	TextureWidth    int          `toml:"texture_width"`
	AOWidth         int          `toml:"ao_width"`
	Transition      float64      `toml:"transition"`
	Text            bool         `toml:"text"`
	GenerateTexture bool         `toml:"generate_texture"`
	Color           [3]float32   `toml:"color"`
	Appearance      string       `toml:"appearance"`
	Classic         bool         `toml:"classic"`
	Workers         int          `toml:"workers"`
	Index           bool         `toml:"index"`
	Catalog         bool         `toml:"catalog"`
	SearchPaths     []string     `toml:"search_paths"`
	Material        fileMaterial `toml:"material"`
}

type fileMaterial struct {
	Ambient   [4]float32 `toml:"ambient"`
	Diffuse   [4]float32 `toml:"diffuse"`
	Specular  [4]float32 `toml:"specular"`
	Emissive  [4]float32 `toml:"emissive"`
	Shininess float32    `toml:"shininess"`
}

// ApplyConfigFile overlays the keys defined in the given TOML file onto opts
func ApplyConfigFile(path string, opts *TilerOptions) error {
	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fmt.Errorf("cannot decode config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}

	if md.IsDefined("input") {
		opts.Input = cfg.Input
	}
	if md.IsDefined("output") {
		opts.Output = cfg.Output
	}
	if md.IsDefined("recursive") {
		opts.Recursive = cfg.Recursive
	}
	if md.IsDefined("srid") {
		opts.Srid = cfg.Srid
	}
	if md.IsDefined("zoffset") {
		opts.ZOffset = cfg.ZOffset
	}
	if md.IsDefined("texture") {
		opts.TexturePath = cfg.Texture
	}
	if md.IsDefined("texture_width") {
		opts.TextureWidth = cfg.TextureWidth
	}
	if md.IsDefined("ao_width") {
		opts.AOWidth = cfg.AOWidth
	}
	if md.IsDefined("transition") {
		opts.Transition = cfg.Transition
	}
	if md.IsDefined("text") {
		opts.Text = cfg.Text
	}
	if md.IsDefined("generate_texture") {
		opts.GenerateTexture = cfg.GenerateTexture
	}
	if md.IsDefined("color") {
		opts.BaseColor = mgl32.Vec3(cfg.Color)
	}
	if md.IsDefined("appearance") {
		opts.Appearance = ParseAppearanceKind(cfg.Appearance)
	}
	if md.IsDefined("classic") {
		opts.Mode = OutputTiled
		if cfg.Classic {
			opts.Mode = OutputClassic
		}
	}
	if md.IsDefined("workers") {
		opts.Workers = cfg.Workers
	}
	if md.IsDefined("index") {
		opts.WriteIndex = cfg.Index
	}
	if md.IsDefined("catalog") {
		opts.WriteCatalog = cfg.Catalog
	}
	if md.IsDefined("search_paths") {
		opts.SearchPaths = append(opts.SearchPaths, cfg.SearchPaths...)
	}

	if md.IsDefined("material", "ambient") {
		opts.Material.Ambient = mgl32.Vec4(cfg.Material.Ambient)
	}
	if md.IsDefined("material", "diffuse") {
		opts.Material.Diffuse = mgl32.Vec4(cfg.Material.Diffuse)
	}
	if md.IsDefined("material", "specular") {
		opts.Material.Specular = mgl32.Vec4(cfg.Material.Specular)
	}
	if md.IsDefined("material", "emissive") {
		opts.Material.Emissive = mgl32.Vec4(cfg.Material.Emissive)
	}
	if md.IsDefined("material", "shininess") {
		opts.Material.Shininess = cfg.Material.Shininess
	}

	return nil
}
