package render

import (
	"image"
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/clip"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/texture"
)

// uvRecorder stores the texture coordinates sampled for each pixel.
type uvRecorder struct {
	last math3d.Vec2
	uv   map[image.Point]math3d.Vec2
}

func newUVRecorder() *uvRecorder {
	return &uvRecorder{uv: make(map[image.Point]math3d.Vec2)}
}

func (r *uvRecorder) sample(u, v float64) Color {
	r.last = math3d.V2(u, v)
	return ColorWhite
}

func (r *uvRecorder) SetPixel(x, y int, _ Color) {
	r.uv[image.Pt(x, y)] = r.last
}

// screenVertex builds a projected vertex at pixel (x, y) with view depth w
// and texture coordinates (u, v).
func screenVertex(x, y, w, u, v float64) clip.Vertex {
	return clip.Vertex{
		Pos: math3d.V4(x, y, 0.5, w),
		Tex: math3d.V3(u/w, v/w, 1/w),
	}
}

var wideBounds = AABB{Max: math3d.V3(1000, 1000, 0)}

func TestFillTexturedCentroidIsPerspectiveCorrect(t *testing.T) {
	v0 := screenVertex(0.5, 0.5, 1, 0, 0)
	v1 := screenVertex(60.5, 0.5, 1, 1, 0)
	v2 := screenVertex(0.5, 60.5, 4, 0, 1)

	rec := newUVRecorder()
	FillTextured(rec, wideBounds, v0, v1, v2, rec.sample)

	got, ok := rec.uv[image.Pt(20, 20)]
	if !ok {
		t.Fatal("centroid pixel (20,20) not drawn")
	}

	// Barycentric weights are 1/3 each; perspective-correct interpolation
	// weights them by 1/w.
	invW := (1 + 1 + 0.25) / 3
	wantU := (0 + 1 + 0) / 3.0 / invW
	wantV := (0 + 0 + 0.25) / 3.0 / invW
	if math.Abs(got.X-wantU) > 1e-9 || math.Abs(got.Y-wantV) > 1e-9 {
		t.Errorf("centroid uv = %v, want (%v, %v)", got, wantU, wantV)
	}

	naive := 1.0 / 3
	if math.Abs(got.X-naive) < 0.05 && math.Abs(got.Y-naive) < 0.05 {
		t.Errorf("centroid uv %v matches affine interpolation", got)
	}
}

func TestFillTexturedCentroidSamplesTexture(t *testing.T) {
	tex := texture.New(256, 256)
	for y := range 256 {
		for x := range 256 {
			tex.SetPixel(x, y, Color{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	fb := NewFramebuffer(64, 64)
	v0 := screenVertex(0.5, 0.5, 1, 0, 0)
	v1 := screenVertex(60.5, 0.5, 1, 1, 0)
	v2 := screenVertex(0.5, 60.5, 4, 0, 1)
	FillTextured(fb, AABB{Max: math3d.V3(64, 64, 0)}, v0, v1, v2, tex.Sample)

	wantU, wantV := 4.0/9, 1.0/9
	want := tex.Sample(wantU, wantV)
	got := fb.GetPixel(20, 20)
	if absDiff(got.R, want.R) > 1 || absDiff(got.G, want.G) > 1 {
		t.Errorf("centroid texel = %v, want %v", got, want)
	}
}

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func TestFillTexturedCoverage(t *testing.T) {
	// Right triangle with legs of 10 pixels covers 45 pixel centers under
	// the half-open rule, and the adjacent triangle completes the square.
	a := screenVertex(0, 0, 1, 0, 0)
	b := screenVertex(10, 0, 1, 1, 0)
	c := screenVertex(0, 10, 1, 0, 1)
	d := screenVertex(10, 10, 1, 1, 1)

	rec := newUVRecorder()
	FillTextured(rec, wideBounds, a, b, c, rec.sample)
	if len(rec.uv) != 45 {
		t.Errorf("first triangle drew %d pixels, want 45", len(rec.uv))
	}
	FillTextured(rec, wideBounds, b, d, c, rec.sample)
	if len(rec.uv) != 100 {
		t.Errorf("square drew %d distinct pixels, want 100", len(rec.uv))
	}

	rec = newUVRecorder()
	FillTextured(rec, wideBounds, a, b, c, rec.sample)
	FillTextured(rec, wideBounds, b, d, c, rec.sample)
	for p, uv := range rec.uv {
		wantU := (float64(p.X) + 0.5) / 10
		wantV := (float64(p.Y) + 0.5) / 10
		if math.Abs(uv.X-wantU) > 1e-9 || math.Abs(uv.Y-wantV) > 1e-9 {
			t.Errorf("pixel %v sampled %v, want (%v, %v)", p, uv, wantU, wantV)
		}
	}
}

func TestFillTexturedRespectsBounds(t *testing.T) {
	rec := newUVRecorder()
	bounds := AABB{Min: math3d.V3(2, 2, 0), Max: math3d.V3(5, 5, 0)}
	FillTextured(rec, bounds,
		screenVertex(0, 0, 1, 0, 0),
		screenVertex(10, 0, 1, 1, 0),
		screenVertex(0, 10, 1, 0, 1),
		rec.sample)
	for p := range rec.uv {
		if p.X < 2 || p.X >= 5 || p.Y < 2 || p.Y >= 5 {
			t.Errorf("pixel %v drawn outside bounds", p)
		}
	}
	if len(rec.uv) == 0 {
		t.Error("nothing drawn inside bounds")
	}
}

func TestFillTexturedDegenerate(t *testing.T) {
	rec := newUVRecorder()
	FillTextured(rec, wideBounds,
		screenVertex(0, 5, 1, 0, 0),
		screenVertex(5, 5, 1, 1, 0),
		screenVertex(10, 5, 1, 0, 1),
		rec.sample)
	if len(rec.uv) != 0 {
		t.Errorf("zero-height triangle drew %d pixels", len(rec.uv))
	}
}
