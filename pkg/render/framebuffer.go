package render

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/taigrr/facet/pkg/math3d"
)

// Framebuffer is an in-memory RGBA pixel buffer implementing Surface.
// The terminal host uses it with double vertical resolution by drawing
// half-block characters (▀).
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major pixel data

	xs []float64 // scanline crossings, reused between fills
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Resize changes the dimensions, reusing storage where possible. Pixel
// contents are undefined afterwards.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width = width
	fb.Height = height
	fb.Pixels = slices.Grow(fb.Pixels[:0], width*height)[:width*height]
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (int, int) {
	return fb.Width, fb.Height
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// FillPolygon fills a simple polygon with the even-odd rule, sampling at
// pixel centers.
func (fb *Framebuffer) FillPolygon(pts []math3d.Vec2, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	y0 := max(0, int(math.Ceil(minY-0.5)))
	y1 := min(fb.Height-1, int(math.Ceil(maxY-0.5))-1)
	for y := y0; y <= y1; y++ {
		cy := float64(y) + 0.5
		fb.xs = fb.xs[:0]
		for i, a := range pts {
			b := pts[(i+1)%len(pts)]
			if (a.Y <= cy) != (b.Y <= cy) {
				fb.xs = append(fb.xs, a.X+(cy-a.Y)*(b.X-a.X)/(b.Y-a.Y))
			}
		}
		slices.Sort(fb.xs)
		for i := 0; i+1 < len(fb.xs); i += 2 {
			fb.span(y, fb.xs[i], fb.xs[i+1], c)
		}
	}
}

// span fills the pixels of row y whose centers lie in [xa, xb).
func (fb *Framebuffer) span(y int, xa, xb float64, c color.RGBA) {
	x0 := max(0, int(math.Ceil(xa-0.5)))
	x1 := min(fb.Width-1, int(math.Ceil(xb-0.5))-1)
	row := fb.Pixels[y*fb.Width:]
	for x := x0; x <= x1; x++ {
		row[x] = c
	}
}

// StrokePolygon draws the closed outline of a polygon.
func (fb *Framebuffer) StrokePolygon(pts []math3d.Vec2, c color.RGBA) {
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		fb.DrawLine(int(math.Floor(a.X)), int(math.Floor(a.Y)), int(math.Floor(b.X)), int(math.Floor(b.Y)), c)
	}
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Image converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}
