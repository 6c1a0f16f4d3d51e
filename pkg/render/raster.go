package render

import (
	"math"

	"github.com/taigrr/facet/pkg/clip"
	"github.com/taigrr/facet/pkg/math3d"
)

// PixelSetter receives the pixels of a textured fill.
type PixelSetter interface {
	SetPixel(x, y int, c Color)
}

// edgePoint is a position along a triangle edge at one scanline.
type edgePoint struct {
	x   float64
	tex math3d.Vec3 // u/w, v/w, 1/w
}

func edgeAt(a, b clip.Vertex, y float64) edgePoint {
	dy := b.Pos.Y - a.Pos.Y
	if dy == 0 {
		return edgePoint{x: a.Pos.X, tex: a.Tex}
	}
	t := (y - a.Pos.Y) / dy
	return edgePoint{
		x:   a.Pos.X + t*(b.Pos.X-a.Pos.X),
		tex: a.Tex.Lerp(b.Tex, t),
	}
}

// FillTextured fills a screen-space triangle pixel by pixel. Vertex Tex
// must hold (u/w, v/w, 1/w) as produced by Viewport.Project. Those values
// are interpolated linearly down the edges and across each span, and each
// pixel divides by the interpolated 1/w before calling sample.
//
// The triangle is split at the middle vertex's scanline. A pixel is drawn
// when its center is inside the triangle, using a top-left style half-open
// rule so shared edges are not drawn twice.
func FillTextured(dst PixelSetter, bounds AABB, v0, v1, v2 clip.Vertex, sample func(u, v float64) Color) {
	if v1.Pos.Y < v0.Pos.Y {
		v0, v1 = v1, v0
	}
	if v2.Pos.Y < v0.Pos.Y {
		v0, v2 = v2, v0
	}
	if v2.Pos.Y < v1.Pos.Y {
		v1, v2 = v2, v1
	}

	yStart := max(int(math.Ceil(v0.Pos.Y-0.5)), int(bounds.Min.Y))
	yEnd := min(int(math.Ceil(v2.Pos.Y-0.5)), int(bounds.Max.Y))
	for y := yStart; y < yEnd; y++ {
		cy := float64(y) + 0.5
		long := edgeAt(v0, v2, cy)
		var short edgePoint
		if cy < v1.Pos.Y {
			short = edgeAt(v0, v1, cy)
		} else {
			short = edgeAt(v1, v2, cy)
		}
		if short.x < long.x {
			long, short = short, long
		}
		fillSpan(dst, bounds, y, long, short, sample)
	}
}

// fillSpan draws row y from a to b, a.x <= b.x.
func fillSpan(dst PixelSetter, bounds AABB, y int, a, b edgePoint, sample func(u, v float64) Color) {
	width := b.x - a.x
	if width <= 0 {
		return
	}
	xStart := max(int(math.Ceil(a.x-0.5)), int(bounds.Min.X))
	xEnd := min(int(math.Ceil(b.x-0.5)), int(bounds.Max.X))
	for x := xStart; x < xEnd; x++ {
		t := (float64(x) + 0.5 - a.x) / width
		tex := a.tex.Lerp(b.tex, t)
		if tex.Z == 0 {
			continue
		}
		dst.SetPixel(x, y, sample(tex.X/tex.Z, tex.Y/tex.Z))
	}
}
