package tiler

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type AppearanceKind string
type OutputMode string

const (
	// displacement map and texture image only
	AppearanceBasic AppearanceKind = "BASIC"

	// phong material channels, displacement map, texture image and ambient occlusion map
	AppearancePhong AppearanceKind = "PHONG"
)

const (
	// every tile artifact is a full tile record carrying identity and source metadata
	OutputTiled OutputMode = "TILED"

	// every tile artifact is the bare transform node wrapping state and mesh
	OutputClassic OutputMode = "CLASSIC"
)

const (
	DefaultTextureWidth = 1024
	DefaultAOWidth      = 256
	DefaultTransition   = 10000.0
	DefaultSrid         = 4326
	DatabaseBaseName    = "database"
	BackgroundFolder    = "background"
)

func (k AppearanceKind) String() string {
	if k == AppearanceBasic {
		return "BASIC"
	} else if k == AppearancePhong {
		return "PHONG"
	}
	return ""
}

func ParseAppearanceKind(value string) AppearanceKind {
	normalizedValue := strings.Trim(strings.ToUpper(value), " ")
	if normalizedValue == "BASIC" {
		return AppearanceBasic
	} else if normalizedValue == "PHONG" {
		return AppearancePhong
	}
	return ""
}

// Material channel values as read from the command line or config file
type MaterialOptions struct {
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
	Specular  mgl32.Vec4
	Emissive  mgl32.Vec4
	Shininess float32
}

func DefaultMaterialOptions() MaterialOptions {
	return MaterialOptions{
		Ambient:   mgl32.Vec4{1, 1, 1, 1},
		Diffuse:   mgl32.Vec4{1, 1, 1, 1},
		Specular:  mgl32.Vec4{0, 0, 0, 1},
		Emissive:  mgl32.Vec4{0, 0, 0, 1},
		Shininess: 0,
	}
}

// ProgressFunc receives the number of resolved tiles and the number of submitted tiles
type ProgressFunc func(completed, submitted int)

// Contains the options needed for the terrain tiling pipeline. Built once before the run and never
// mutated afterwards: workers only read it.
type TilerOptions struct {
	Input           string         // Input folder containing the raster tiles
	Output          string         // Output folder where tile artifacts and the database are written
	Recursive       bool           // Recursive lookup of raster tiles in subfolders
	Srid            int            // EPSG code of the raster geotransform coordinates
	ZOffset         float64        // Offset in meters applied to the tangent plane altitude
	TexturePath     string         // Optional base texture image shared by all tiles
	TextureWidth    int            // Width of synthesised textures
	AOWidth         int            // Width of the ambient occlusion map
	Transition      float64        // LOD transition distance
	Text            bool           // Text serialization when true, binary otherwise
	GenerateTexture bool           // Always synthesise a uniform color texture
	BaseColor       mgl32.Vec3     // Color of synthesised textures, components in [0,1]
	Material        MaterialOptions
	Appearance      AppearanceKind // Appearance variant attached to every tile
	Mode            OutputMode     // Tile artifact shape
	Flat            bool           // Build the reduced 32x32 meshes used for background databases
	Workers         int            // Number of concurrent tile consumers, 0 means one per CPU
	WriteIndex      bool           // Write a GeoJSON footprint index next to the database
	WriteCatalog    bool           // Record tile artifacts in a bbolt catalog
	SearchPaths     []string       // Extra lookup folders for relative raster and texture paths

	Command  string
	Progress ProgressFunc
}

func DefaultTilerOptions() *TilerOptions {
	return &TilerOptions{
		Srid:         DefaultSrid,
		TextureWidth: DefaultTextureWidth,
		AOWidth:      DefaultAOWidth,
		Transition:   DefaultTransition,
		BaseColor:    mgl32.Vec3{1, 1, 1},
		Material:     DefaultMaterialOptions(),
		Appearance:   AppearancePhong,
		Mode:         OutputTiled,
	}
}

func (opt *TilerOptions) Copy() *TilerOptions {
	newOpt := *opt
	newOpt.SearchPaths = append([]string(nil), opt.SearchPaths...)
	return &newOpt
}
