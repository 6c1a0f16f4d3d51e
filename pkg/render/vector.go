package render

import (
	"errors"
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/taigrr/facet/pkg/math3d"
)

// coverageCutoff is the mask alpha at which a pixel counts as inside a
// path. Half coverage matches the framebuffer's pixel-center rule.
const coverageCutoff = 128

// VectorSurface is a Surface backed by gg. Paths are rasterized by gg
// into a coverage mask, and every pixel at or above half coverage is
// written with the solid color. Edges are hard, so adjacent triangles
// leave no blended seams.
//
// gg reports failures per call. VectorSurface keeps drawing and collects
// them for Err.
type VectorSurface struct {
	ctx  *gg.Context
	mask *gg.Context
	errs []error
}

// NewVectorSurface creates a width by height surface.
func NewVectorSurface(width, height int) *VectorSurface {
	ctx := gg.NewContext(width, height)
	mask := gg.NewContext(width, height)
	mask.SetFillRule(gg.FillRuleEvenOdd)
	mask.SetLineWidth(1)
	mask.SetColor(ColorWhite)
	return &VectorSurface{ctx: ctx, mask: mask}
}

// Size returns the surface dimensions.
func (v *VectorSurface) Size() (int, int) {
	return v.ctx.Width(), v.ctx.Height()
}

// Clear fills the whole surface with c.
func (v *VectorSurface) Clear(c Color) {
	v.ctx.ClearWithColor(gg.FromColor(c))
}

// FillPolygon fills a closed polygon.
func (v *VectorSurface) FillPolygon(pts []math3d.Vec2, c Color) {
	v.paint(pts, c, (*gg.Context).Fill)
}

// StrokePolygon draws a closed outline.
func (v *VectorSurface) StrokePolygon(pts []math3d.Vec2, c Color) {
	v.paint(pts, c, (*gg.Context).Stroke)
}

// SetPixel sets one pixel.
func (v *VectorSurface) SetPixel(x, y int, c Color) {
	v.ctx.SetPixel(x, y, gg.FromColor(c))
}

// Image returns the rendered image.
func (v *VectorSurface) Image() image.Image {
	return v.ctx.Image()
}

// Err returns every error reported while drawing, joined.
func (v *VectorSurface) Err() error {
	return errors.Join(v.errs...)
}

// Close releases both gg contexts.
func (v *VectorSurface) Close() error {
	return errors.Join(v.mask.Close(), v.ctx.Close())
}

// paint renders pts into the mask with draw, then copies covered pixels
// to the target as c. Only the path's bounds, grown by one pixel for gg's
// edge coverage, are cleared and scanned.
func (v *VectorSurface) paint(pts []math3d.Vec2, c Color, draw func(*gg.Context) error) {
	if len(pts) < 2 {
		return
	}
	r := v.bounds(pts)
	if r.Empty() {
		return
	}

	mask := v.mask.ResizeTarget()
	data, stride := mask.Data(), mask.Width()*4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		clear(data[y*stride+r.Min.X*4 : y*stride+r.Max.X*4])
	}

	v.mask.ClearPath()
	v.mask.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		v.mask.LineTo(p.X, p.Y)
	}
	v.mask.ClosePath()
	if err := draw(v.mask); err != nil {
		v.errs = append(v.errs, err)
		return
	}

	col := gg.FromColor(c)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if data[y*stride+x*4+3] >= coverageCutoff {
				v.ctx.SetPixel(x, y, col)
			}
		}
	}
}

// bounds returns the pixel rectangle around pts, grown by one pixel and
// clamped to the surface.
func (v *VectorSurface) bounds(pts []math3d.Vec2) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	r := image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
	return r.Intersect(image.Rect(0, 0, v.ctx.Width(), v.ctx.Height()))
}
