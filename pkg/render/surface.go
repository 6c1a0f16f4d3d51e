package render

import "github.com/taigrr/facet/pkg/math3d"

// Surface is the drawing target the renderer emits commands to. Polygon
// vertices are in pixel coordinates; a pixel's center is at (x+0.5, y+0.5).
type Surface interface {
	Size() (width, height int)
	Clear(c Color)
	FillPolygon(pts []math3d.Vec2, c Color)
	StrokePolygon(pts []math3d.Vec2, c Color)
	// SetPixel is used by the textured path, which computes every pixel
	// itself.
	SetPixel(x, y int, c Color)
}
