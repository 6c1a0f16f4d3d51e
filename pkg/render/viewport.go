package render

import (
	"image"
	"math"

	"github.com/taigrr/facet/pkg/clip"
	"github.com/taigrr/facet/pkg/math3d"
)

// Lens holds the projection parameters shared by every viewport of a
// camera.
type Lens struct {
	FOV  float64 // Vertical field of view in degrees
	Near float64
	Far  float64
}

// DefaultLens returns a 90° lens with near 0.1 and far 1000.
func DefaultLens() Lens {
	return Lens{FOV: 90, Near: 0.1, Far: 1000}
}

// Viewport is a pixel rectangle of a surface together with the projection
// and clip planes sized to it. Build a new one whenever the rectangle
// changes.
type Viewport struct {
	Rect   image.Rectangle
	Lens   Lens
	Offset math3d.Vec2 // Added to projected x and y before scaling

	Projection math3d.Mat4
	NearPlane  clip.Plane   // View space
	Edges      []clip.Plane // Screen space: top, bottom, left, right
}

// NewViewport creates a viewport covering rect.
func NewViewport(rect image.Rectangle, lens Lens) *Viewport {
	w, h := float64(rect.Dx()), float64(rect.Dy())
	aspect := 1.0
	if w > 0 {
		aspect = h / w
	}
	x0, y0 := float64(rect.Min.X), float64(rect.Min.Y)
	x1, y1 := float64(rect.Max.X), float64(rect.Max.Y)

	return &Viewport{
		Rect:       rect,
		Lens:       lens,
		Offset:     math3d.V2(1, 1),
		Projection: math3d.Projection(aspect, lens.FOV*math.Pi/180, lens.Near, lens.Far),
		NearPlane:  clip.NewPlane(math3d.V3(0, 0, lens.Near), math3d.V3(0, 0, 1)),
		Edges: []clip.Plane{
			clip.NewPlane(math3d.V3(0, y0, 0), math3d.V3(0, 1, 0)),
			clip.NewPlane(math3d.V3(0, y1, 0), math3d.V3(0, -1, 0)),
			clip.NewPlane(math3d.V3(x0, 0, 0), math3d.V3(1, 0, 0)),
			clip.NewPlane(math3d.V3(x1, 0, 0), math3d.V3(-1, 0, 0)),
		},
	}
}

// Center returns the pixel coordinates of the viewport center.
func (vp *Viewport) Center() math3d.Vec2 {
	return math3d.V2(
		float64(vp.Rect.Min.X)+float64(vp.Rect.Dx())/2,
		float64(vp.Rect.Min.Y)+float64(vp.Rect.Dy())/2,
	)
}

// Project maps a view-space vertex to screen space. The result keeps the
// view depth in Pos.W, projected depth in Pos.Z, and texture coordinates
// divided by depth with 1/depth in Tex.Z. When w is zero the divide is
// skipped.
func (vp *Viewport) Project(v clip.Vertex) clip.Vertex {
	p := vp.Projection.MulVec4(v.Pos)
	tex := v.Tex
	if p.W != 0 {
		p = p.PerspectiveDivide()
		tex = tex.Scale(1 / p.W)
	}
	return clip.Vertex{
		Pos: vp.toScreen(p),
		Tex: tex,
	}
}

// ToScreen projects a view-space point to pixel coordinates.
func (vp *Viewport) ToScreen(p math3d.Vec3) math3d.Vec2 {
	s := vp.Project(clip.Vertex{Pos: math3d.V4FromV3(p, 1)}).Pos
	return math3d.V2(s.X, s.Y)
}

func (vp *Viewport) toScreen(p math3d.Vec4) math3d.Vec4 {
	w, h := float64(vp.Rect.Dx()), float64(vp.Rect.Dy())
	p.X = (p.X+vp.Offset.X)*w/2 + float64(vp.Rect.Min.X)
	p.Y = (vp.Offset.Y-p.Y)*h/2 + float64(vp.Rect.Min.Y)
	return p
}

// Outline returns the viewport border as a closed polygon through the
// centers of its edge pixels.
func (vp *Viewport) Outline() []math3d.Vec2 {
	r := vp.Rect
	x0, y0 := float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5
	x1, y1 := float64(r.Max.X)-0.5, float64(r.Max.Y)-0.5
	return []math3d.Vec2{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// Area returns the viewport as a fillable polygon.
func (vp *Viewport) Area() []math3d.Vec2 {
	r := vp.Rect
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X), float64(r.Max.Y)
	return []math3d.Vec2{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}
