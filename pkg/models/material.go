package models

import (
	"image/color"
	"math"

	"github.com/taigrr/facet/pkg/texture"
)

// DefaultColor is used for faces without a material and materials with no
// color.
var DefaultColor = color.RGBA{150, 150, 150, 255}

// Material is a named surface description. It is not modified after load.
type Material struct {
	Name        string
	Color       color.RGBA
	Texture     texture.Sampler // nil when untextured
	TexturePath string
}

// DefaultMaterial returns the gray material used for faces without one.
func DefaultMaterial() Material {
	return Material{Name: "default", Color: DefaultColor}
}

// ColorFromReflectance converts diffuse reflectance coefficients in [0,1]
// to an opaque color.
func ColorFromReflectance(kd [3]float64) color.RGBA {
	return color.RGBA{
		R: channel(math.Round(kd[0] * 255)),
		G: channel(math.Round(kd[1] * 255)),
		B: channel(math.Round(kd[2] * 255)),
		A: 255,
	}
}

// Shading describes how a triangle is filled. It is either FlatColor or
// Textured.
type Shading interface {
	isShading()
}

// FlatColor fills a triangle with one color.
type FlatColor struct {
	Color color.RGBA
}

// Textured fills a triangle by sampling a texture.
type Textured struct {
	Texture texture.Sampler
}

func (FlatColor) isShading() {}
func (Textured) isShading()  {}

// Shading returns Textured when the material has a texture, FlatColor
// otherwise.
func (m *Material) Shading() Shading {
	if m.Texture != nil {
		return Textured{Texture: m.Texture}
	}
	return FlatColor{Color: m.Color}
}

// Shade returns the lit fill color for the given light intensity.
func (m *Material) Shade(light float64) color.RGBA {
	return Shade(m.Color, light)
}

// Shade brightens or darkens c by light: each channel becomes
// floor(c + c/2*light), clamped to [0,255]. Alpha is kept.
func Shade(c color.RGBA, light float64) color.RGBA {
	f := func(v uint8) uint8 {
		x := float64(v)
		return channel(math.Floor(x + x/2*light))
	}
	return color.RGBA{R: f(c.R), G: f(c.G), B: f(c.B), A: c.A}
}

func channel(v float64) uint8 {
	return uint8(max(0, min(255, v)))
}
