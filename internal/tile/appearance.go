package tile

import (
	"github.com/ecopia-map/terrain_tiler/internal/data"
	"github.com/ecopia-map/terrain_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl32"
)

// Phong material channels
type Material struct {
	Ambient   mgl32.Vec4 `json:"ambient"`
	Diffuse   mgl32.Vec4 `json:"diffuse"`
	Specular  mgl32.Vec4 `json:"specular"`
	Emissive  mgl32.Vec4 `json:"emissive"`
	Shininess float32    `json:"shininess"`
}

// Appearance is the state description attached to a tile mesh. Kind selects the variant:
// AppearanceBasic only carries DisplacementMap and Image, AppearancePhong adds Material and AOMap.
type Appearance struct {
	Kind            tiler.AppearanceKind `json:"kind"`
	Material        *Material            `json:"material,omitempty"`
	DisplacementMap *data.Image          `json:"displacementMap"`
	Image           *data.Image          `json:"image"`
	AOMap           *data.Image          `json:"aoMap,omitempty"`
}

func (a *Appearance) IsPhong() bool {
	return a.Kind == tiler.AppearancePhong
}

// AppearanceParams holds the appearance inputs shared by every tile of a run. Read only once built.
type AppearanceParams struct {
	Kind            tiler.AppearanceKind
	Material        Material
	BaseImage       *data.Image // optional user supplied texture
	BaseColor       mgl32.Vec3
	GenerateTexture bool
	TextureWidth    int
	AOWidth         int
}

func NewAppearanceParams(opts *tiler.TilerOptions, baseImage *data.Image) *AppearanceParams {
	return &AppearanceParams{
		Kind: opts.Appearance,
		Material: Material{
			Ambient:   opts.Material.Ambient,
			Diffuse:   opts.Material.Diffuse,
			Specular:  opts.Material.Specular,
			Emissive:  opts.Material.Emissive,
			Shininess: opts.Material.Shininess,
		},
		BaseImage:       baseImage,
		BaseColor:       opts.BaseColor,
		GenerateTexture: opts.GenerateTexture,
		TextureWidth:    opts.TextureWidth,
		AOWidth:         opts.AOWidth,
	}
}

// build assembles the appearance of one tile. aspect is |pixelSizeY| / pixelSizeX of the source.
func (p *AppearanceParams) build(raster *data.GeoRaster, aspect float64) *Appearance {
	appearance := &Appearance{
		Kind:            p.Kind,
		DisplacementMap: data.NewR32FFromSamples(raster.Width, raster.Height, raster.Data),
		Image:           p.textureImage(aspect),
	}

	if p.Kind == tiler.AppearancePhong {
		material := p.Material
		appearance.Material = &material
		appearance.AOMap = data.NewUniformR32F(p.AOWidth, scaledHeight(p.AOWidth, aspect), 1.0)
	}

	return appearance
}

func (p *AppearanceParams) textureImage(aspect float64) *data.Image {
	if p.BaseImage != nil && !p.GenerateTexture {
		return p.BaseImage
	}

	color := mgl32.Vec4{p.BaseColor.X(), p.BaseColor.Y(), p.BaseColor.Z(), 1}
	return data.NewUniformRGBA32F(p.TextureWidth, scaledHeight(p.TextureWidth, aspect), color)
}

func scaledHeight(width int, aspect float64) int {
	height := int(float64(width) * aspect)
	if height < 1 {
		return 1
	}
	return height
}
