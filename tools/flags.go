package tools

import (
	"flag"
	"fmt"

	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/glog"
)

const (
	CommandIndex  = "index"
	CommandMerge  = "merge"
	CommandVerify = "verify"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

type TilerFlags struct {
	Input           *string  `json:"input"`
	Output          *string  `json:"output"`
	Config          *string  `json:"config"`
	Srid            *int     `json:"srid"`
	ZOffset         *float64 `json:"zoffset"`
	Recursive       *bool    `json:"recursive"`
	Workers         *int     `json:"workers"`
	Texture         *string  `json:"texture"`
	TextureWidth    *int     `json:"texture_width"`
	AOWidth         *int     `json:"ao_width"`
	GenerateTexture *bool    `json:"generate_texture"`
	Color           *string  `json:"color"`
	Ambient         *string  `json:"ambient"`
	Diffuse         *string  `json:"diffuse"`
	Specular        *string  `json:"specular"`
	Emissive        *string  `json:"emissive"`
	Shininess       *float64 `json:"shininess"`
	Appearance      *string  `json:"appearance"`
	Transition      *float64 `json:"transition"`
	Text            *bool    `json:"text"`
	Classic         *bool    `json:"classic"`
	Index           *bool    `json:"index"`
	Catalog         *bool    `json:"catalog"`

	// long names of the flags given on the command line
	Set map[string]bool `json:"-"`
}

func (f TilerFlags) IsSet(name string) bool {
	return f.Set[name]
}

// Apply copies the flags given on the command line onto opts, leaving the other options untouched
func (f TilerFlags) Apply(opts *tiler.TilerOptions) error {
	if f.IsSet("input") {
		opts.Input = *f.Input
	}
	if f.IsSet("output") {
		opts.Output = *f.Output
	}
	if f.IsSet("srid") {
		opts.Srid = *f.Srid
	}
	if f.IsSet("zoffset") {
		opts.ZOffset = *f.ZOffset
	}
	if f.IsSet("recursive") {
		opts.Recursive = *f.Recursive
	}
	if f.IsSet("workers") {
		opts.Workers = *f.Workers
	}
	if f.IsSet("texture") {
		opts.TexturePath = *f.Texture
	}
	if f.IsSet("texture-width") {
		opts.TextureWidth = *f.TextureWidth
	}
	if f.IsSet("ao-width") {
		opts.AOWidth = *f.AOWidth
	}
	if f.IsSet("generate-texture") {
		opts.GenerateTexture = *f.GenerateTexture
	}
	if f.IsSet("color") {
		values, err := ParseFloatList(*f.Color, 3)
		if err != nil {
			return fmt.Errorf("-color: %w", err)
		}
		opts.BaseColor = mgl32.Vec3{values[0], values[1], values[2]}
	}

	channels := []struct {
		name   string
		value  *string
		target *mgl32.Vec4
	}{
		{"ambient", f.Ambient, &opts.Material.Ambient},
		{"diffuse", f.Diffuse, &opts.Material.Diffuse},
		{"specular", f.Specular, &opts.Material.Specular},
		{"emissive", f.Emissive, &opts.Material.Emissive},
	}
	for _, channel := range channels {
		if !f.IsSet(channel.name) {
			continue
		}
		values, err := ParseFloatList(*channel.value, 4)
		if err != nil {
			return fmt.Errorf("-%s: %w", channel.name, err)
		}
		*channel.target = mgl32.Vec4{values[0], values[1], values[2], values[3]}
	}

	if f.IsSet("shininess") {
		opts.Material.Shininess = float32(*f.Shininess)
	}
	if f.IsSet("appearance") {
		opts.Appearance = tiler.ParseAppearanceKind(*f.Appearance)
	}
	if f.IsSet("transition") {
		opts.Transition = *f.Transition
	}
	if f.IsSet("text") {
		opts.Text = *f.Text
	}
	if f.IsSet("classic") {
		opts.Mode = tiler.OutputTiled
		if *f.Classic {
			opts.Mode = tiler.OutputClassic
		}
	}
	if f.IsSet("index") {
		opts.WriteIndex = *f.Index
	}
	if f.IsSet("catalog") {
		opts.WriteCatalog = *f.Catalog
	}
	return nil
}

type FlagsForCommandIndex struct {
	TilerFlags
	Silent       *bool
	LogTimestamp *bool
	Help         *bool
	Version      *bool
}

type FlagsForCommandMerge struct {
	FlagsForCommandIndex
}

type FlagsForCommandVerify struct {
	Output  *string
	Silent  *bool
	Help    *bool
	Version *bool
}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "", false, "Displays the version of terrain_tiler.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func ParseFlagsForCommandIndex(args []string) FlagsForCommandIndex {
	glog.V(1).Infoln("index args", FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-index", flag.ExitOnError)
	flags := defineCommandFlags(flagCommand, "Specifies the output folder where to write the tile artifacts and the database.")

	flagCommand.Parse(args)
	flags.Set = setFlags(flagCommand)

	return flags
}

func ParseFlagsForCommandMerge(args []string) FlagsForCommandMerge {
	glog.V(1).Infoln("merge args", FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-merge", flag.ExitOnError)
	flags := defineCommandFlags(flagCommand, "Specifies the output folder. The background database is written in its background subfolder.")

	flagCommand.Parse(args)
	flags.Set = setFlags(flagCommand)

	return FlagsForCommandMerge{FlagsForCommandIndex: flags}
}

func ParseFlagsForCommandVerify(args []string) FlagsForCommandVerify {
	glog.V(1).Infoln("verify args", FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-verify", flag.ExitOnError)

	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the folder holding the database to verify.")
	silent := defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages.")
	help := defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help.")
	version := defineBoolFlagCommand(flagCommand, "version", "", false, "Displays the version of terrain_tiler.")

	flagCommand.Parse(args)

	return FlagsForCommandVerify{
		Output:  output,
		Silent:  silent,
		Help:    help,
		Version: version,
	}
}

func defineCommandFlags(flagCommand *flag.FlagSet, outputUsage string) FlagsForCommandIndex {
	input := defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input folder containing the elevation raster tiles named <name>_<row>_<col>.<ext>.")
	output := defineStringFlagCommand(flagCommand, "output", "o", "", outputUsage)
	config := defineStringFlagCommand(flagCommand, "config", "c", "", "Optional TOML parameter file. Flags given on the command line override its values.")
	srid := defineIntFlagCommand(flagCommand, "srid", "e", tiler.DefaultSrid, "EPSG srid code of the raster geotransform coordinates.")
	zOffset := defineFloat64FlagCommand(flagCommand, "zoffset", "z", 0, "Vertical offset to apply to the tile surfaces, in meters.")
	recursive := defineBoolFlagCommand(flagCommand, "recursive", "r", false, "Enables recursive lookup for raster tiles inside the subfolders.")
	workers := defineIntFlagCommand(flagCommand, "workers", "w", 0, "Number of tiles processed concurrently. 0 uses one worker per CPU.")
	texture := defineStringFlagCommand(flagCommand, "texture", "", "", "Image applied to every tile. A uniform color texture is generated when missing.")
	textureWidth := defineIntFlagCommand(flagCommand, "texture-width", "", tiler.DefaultTextureWidth, "Width of generated textures. The height follows the raster aspect ratio.")
	aoWidth := defineIntFlagCommand(flagCommand, "ao-width", "", tiler.DefaultAOWidth, "Width of the ambient occlusion maps. The height follows the raster aspect ratio.")
	generateTexture := defineBoolFlagCommand(flagCommand, "generate-texture", "", false, "Always generate a uniform color texture, even when -texture is given.")
	color := defineStringFlagCommand(flagCommand, "color", "", "1,1,1", "Base color r,g,b of generated textures, components in [0,1].")
	ambient := defineStringFlagCommand(flagCommand, "ambient", "", "1,1,1,1", "Ambient material channel r,g,b,a.")
	diffuse := defineStringFlagCommand(flagCommand, "diffuse", "", "1,1,1,1", "Diffuse material channel r,g,b,a.")
	specular := defineStringFlagCommand(flagCommand, "specular", "", "0,0,0,1", "Specular material channel r,g,b,a.")
	emissive := defineStringFlagCommand(flagCommand, "emissive", "", "0,0,0,1", "Emissive material channel r,g,b,a.")
	shininess := defineFloat64FlagCommand(flagCommand, "shininess", "", 0, "Material shininess.")
	appearance := defineStringFlagCommand(flagCommand, "appearance", "", "phong", "Tile appearance, can be 'basic' (displacement and texture) or 'phong' (material, displacement, texture and ambient occlusion).")
	transition := defineFloat64FlagCommand(flagCommand, "transition", "", tiler.DefaultTransition, "Viewer distance below which a tile is loaded, in meters.")
	text := defineBoolFlagCommand(flagCommand, "text", "", false, "Writes human readable .tdbt artifacts instead of binary .tdbb ones.")
	classic := defineBoolFlagCommand(flagCommand, "classic", "", false, "Writes bare transform nodes instead of full tile records.")
	index := defineBoolFlagCommand(flagCommand, "index", "", false, "Writes a GeoJSON footprint index next to the database.")
	catalog := defineBoolFlagCommand(flagCommand, "catalog", "", false, "Records the tile artifacts and their checksums in a catalog next to the database.")

	silent := defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages.")
	logTimestamp := defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages.")
	help := defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help.")
	version := defineBoolFlagCommand(flagCommand, "version", "", false, "Displays the version of terrain_tiler.")

	return FlagsForCommandIndex{
		TilerFlags: TilerFlags{
			Input:           input,
			Output:          output,
			Config:          config,
			Srid:            srid,
			ZOffset:         zOffset,
			Recursive:       recursive,
			Workers:         workers,
			Texture:         texture,
			TextureWidth:    textureWidth,
			AOWidth:         aoWidth,
			GenerateTexture: generateTexture,
			Color:           color,
			Ambient:         ambient,
			Diffuse:         diffuse,
			Specular:        specular,
			Emissive:        emissive,
			Shininess:       shininess,
			Appearance:      appearance,
			Transition:      transition,
			Text:            text,
			Classic:         classic,
			Index:           index,
			Catalog:         catalog,
		},
		Silent:       silent,
		LogTimestamp: logTimestamp,
		Help:         help,
		Version:      version,
	}
}

// shorthand flags are reported under their long name
var shorthands = map[string]string{
	"i": "input",
	"o": "output",
	"c": "config",
	"e": "srid",
	"z": "zoffset",
	"r": "recursive",
	"w": "workers",
}

func setFlags(flagCommand *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	flagCommand.Visit(func(f *flag.Flag) {
		if long, ok := shorthands[f.Name]; ok {
			set[long] = true
		} else {
			set[f.Name] = true
		}
	})
	return set
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}
