package clip

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
)

const tolerance = 1e-9

func newTriangle(a *Arena, p0, p1, p2 math3d.Vec3) Triangle {
	return Triangle{
		a.Add(Vertex{Pos: math3d.V4FromV3(p0, 1), Tex: math3d.V3(0, 0, 1)}),
		a.Add(Vertex{Pos: math3d.V4FromV3(p1, 1), Tex: math3d.V3(1, 0, 1)}),
		a.Add(Vertex{Pos: math3d.V4FromV3(p2, 1), Tex: math3d.V3(0, 1, 1)}),
	}
}

// insideArea clips the triangle as a polygon and returns the area of the
// part on the inside of the plane.
func insideArea(plane Plane, pts []math3d.Vec3) float64 {
	var poly []math3d.Vec3
	for i, cur := range pts {
		next := pts[(i+1)%len(pts)]
		dc := plane.SignedDistance(cur)
		dn := plane.SignedDistance(next)
		if dc >= 0 {
			poly = append(poly, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			t := dc / (dc - dn)
			poly = append(poly, cur.Lerp(next, t))
		}
	}
	if len(poly) < 3 {
		return 0
	}
	var sum math3d.Vec3
	for i, p := range poly {
		sum = sum.Add(p.Cross(poly[(i+1)%len(poly)]))
	}
	return sum.Len() / 2
}

func normalOf(a *Arena, t Triangle) math3d.Vec3 {
	p0 := a.At(t[0]).Pos.Vec3()
	p1 := a.At(t[1]).Pos.Vec3()
	p2 := a.At(t[2]).Pos.Vec3()
	return p1.Sub(p0).Cross(p2.Sub(p0))
}

func TestClipTriangleCases(t *testing.T) {
	plane := NewPlane(math3d.V3(0, 0, 1), math3d.V3(0, 0, 1))

	tests := []struct {
		name      string
		pts       [3]math3d.Vec3
		wantTris  int
		wantAdded int
	}{
		{"all inside", [3]math3d.Vec3{{X: 0, Y: 0, Z: 2}, {X: 1, Y: 0, Z: 2}, {X: 0, Y: 1, Z: 3}}, 1, 0},
		{"all outside", [3]math3d.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: -1}, {X: 0, Y: 1, Z: 0.5}}, 0, 0},
		{"one inside", [3]math3d.Vec3{{X: 0, Y: 0, Z: 3}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}, 1, 2},
		{"two inside", [3]math3d.Vec3{{X: 0, Y: 0, Z: 3}, {X: 1, Y: 0, Z: 3}, {X: 0, Y: 1, Z: 0}}, 2, 2},
		{"vertex on plane", [3]math3d.Vec3{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 2}, {X: 0, Y: 1, Z: 2}}, 1, 0},
		{"degenerate", [3]math3d.Vec3{{X: 0, Y: 0, Z: 2}, {X: 1, Y: 1, Z: 2}, {X: 2, Y: 2, Z: 2}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena(8)
			tri := newTriangle(a, tt.pts[0], tt.pts[1], tt.pts[2])
			before := a.Len()

			got := ClipTriangle(a, plane, tri, nil)
			if len(got) != tt.wantTris {
				t.Fatalf("got %d triangles, want %d", len(got), tt.wantTris)
			}
			if added := a.Len() - before; added != tt.wantAdded {
				t.Errorf("arena grew by %d, want %d", added, tt.wantAdded)
			}
			for _, out := range got {
				for _, idx := range out {
					if d := plane.SignedDistance(a.At(idx).Pos.Vec3()); d < -tolerance {
						t.Errorf("vertex %d outside plane: d=%v", idx, d)
					}
				}
			}
		})
	}
}

func TestClipIdempotent(t *testing.T) {
	a := NewArena(3)
	tri := newTriangle(a, math3d.V3(0, 0, 5), math3d.V3(2, 0, 5), math3d.V3(0, 2, 6))

	planes := []Plane{
		NewPlane(math3d.V3(0, 0, 0.1), math3d.V3(0, 0, 1)),
		NewPlane(math3d.V3(-1, 0, 0), math3d.V3(1, 0, 0)),
		NewPlane(math3d.V3(0, 3, 0), math3d.V3(0, -1, 0)),
	}
	for _, p := range planes {
		got := ClipTriangle(a, p, tri, nil)
		if len(got) != 1 || got[0] != tri {
			t.Errorf("plane %v: got %v, want unchanged %v", p.Normal, got, tri)
		}
	}
	if a.Len() != 3 {
		t.Errorf("arena grew to %d", a.Len())
	}
}

func TestClipKeepsTinyTriangles(t *testing.T) {
	near := NewPlane(math3d.V3(0, 0, 0.1), math3d.V3(0, 0, 1))
	for _, size := range []float64{1, 1e-3, 1e-6, 1e-9} {
		a := NewArena(3)
		tri := newTriangle(a, math3d.V3(0, 0, 5), math3d.V3(size, 0, 5), math3d.V3(0, size, 5))
		got := ClipTriangle(a, near, tri, nil)
		if len(got) != 1 || got[0] != tri {
			t.Errorf("size %g (area %g): got %v, want unchanged %v", size, a.Area(tri), got, tri)
		}
	}
}

func TestClipCompleteness(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	rnd := func() math3d.Vec3 {
		return math3d.V3(rng.Float64()*4-2, rng.Float64()*4-2, rng.Float64()*4-2)
	}

	for i := range 500 {
		a := NewArena(8)
		pts := []math3d.Vec3{rnd(), rnd(), rnd()}
		tri := newTriangle(a, pts[0], pts[1], pts[2])
		plane := NewPlane(rnd().Scale(0.5), rnd())
		if plane.Normal.LenSq() == 0 || a.Area(tri) < 1e-6 {
			continue
		}

		out := ClipTriangle(a, plane, tri, nil)
		var sum float64
		want := normalOf(a, tri)
		for _, o := range out {
			sum += a.Area(o)
			if normalOf(a, o).Dot(want) < -tolerance {
				t.Errorf("case %d: output triangle %v flipped winding", i, o)
			}
		}

		expected := insideArea(plane, pts)
		if math.Abs(sum-expected) > 1e-9*math.Max(1, expected) {
			t.Errorf("case %d: clipped area %v, want %v (%d triangles)", i, sum, expected, len(out))
		}
	}
}

func TestClipTwoInsideCoversQuad(t *testing.T) {
	a := NewArena(8)
	// Right triangle with the hypotenuse corner behind x = 1.
	tri := newTriangle(a, math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(0, 2, 0))
	plane := NewPlane(math3d.V3(1, 0, 0), math3d.V3(-1, 0, 0))

	out := ClipTriangle(a, plane, tri, nil)
	if len(out) != 2 {
		t.Fatalf("got %d triangles, want 2", len(out))
	}
	// Inside region is the trapezoid x in [0,1] under y = 2 - x: area 1.5.
	total := a.Area(out[0]) + a.Area(out[1])
	if math.Abs(total-1.5) > tolerance {
		t.Errorf("covered area %v, want 1.5", total)
	}
	// Triangle A keeps both original inside vertices; B shares one of them
	// and the first new vertex.
	if out[0][2] != out[1][2] || out[0][1] != out[1][0] {
		t.Errorf("triangles do not share the expected edge: %v %v", out[0], out[1])
	}
}

func TestNearPlaneOneInside(t *testing.T) {
	near := NewPlane(math3d.V3(0, 0, 0.1), math3d.V3(0, 0, 1))
	a := NewArena(8)
	// Two vertices behind the camera, one in front.
	tri := newTriangle(a, math3d.V3(0, 0, 2), math3d.V3(1, 0, -1), math3d.V3(-1, 1, -2))

	out := ClipTriangle(a, near, tri, nil)
	if len(out) != 1 {
		t.Fatalf("got %d triangles, want 1", len(out))
	}
	if out[0][0] != tri[0] {
		t.Errorf("inside vertex not kept first: %v", out[0])
	}
	for _, idx := range out[0][1:] {
		if d := near.SignedDistance(a.At(idx).Pos.Vec3()); math.Abs(d) > tolerance {
			t.Errorf("new vertex %d off plane: d=%v", idx, d)
		}
	}
}

func TestNearPlaneOneBehind(t *testing.T) {
	near := NewPlane(math3d.V3(0, 0, 0.1), math3d.V3(0, 0, 1))
	a := NewArena(8)
	tri := newTriangle(a, math3d.V3(0, 0, 2), math3d.V3(1, 0, 3), math3d.V3(0, 1, -1))

	out := ClipTriangle(a, near, tri, nil)
	if len(out) != 2 {
		t.Fatalf("got %d triangles, want 2", len(out))
	}
	for _, idx := range []int{out[0][2], out[1][1]} {
		if d := near.SignedDistance(a.At(idx).Pos.Vec3()); math.Abs(d) > tolerance {
			t.Errorf("new vertex %d off plane: d=%v", idx, d)
		}
	}
}

func TestIntersectInterpolatesTex(t *testing.T) {
	plane := NewPlane(math3d.V3(0, 0, 1), math3d.V3(0, 0, 1))
	a := Vertex{Pos: math3d.Point(0, 0, 0), Tex: math3d.V3(0, 0, 1)}
	b := Vertex{Pos: math3d.Point(0, 0, 4), Tex: math3d.V3(1, 2, 1)}

	v, tt := plane.Intersect(a, b)
	if math.Abs(tt-0.25) > tolerance {
		t.Errorf("t = %v, want 0.25", tt)
	}
	if math.Abs(v.Pos.Z-1) > tolerance {
		t.Errorf("z = %v, want 1", v.Pos.Z)
	}
	if math.Abs(v.Tex.X-0.25) > tolerance || math.Abs(v.Tex.Y-0.5) > tolerance {
		t.Errorf("tex = %v, want (0.25, 0.5)", v.Tex)
	}
}

func TestClipAllScreenRect(t *testing.T) {
	// Four inward edge planes of a 10x10 rectangle.
	planes := []Plane{
		NewPlane(math3d.V3(0, 0, 0), math3d.V3(0, 1, 0)),
		NewPlane(math3d.V3(0, 9, 0), math3d.V3(0, -1, 0)),
		NewPlane(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0)),
		NewPlane(math3d.V3(9, 0, 0), math3d.V3(-1, 0, 0)),
	}

	tests := []struct {
		name     string
		pts      [3]math3d.Vec3
		wantArea float64
	}{
		{"inside", [3]math3d.Vec3{{X: 1, Y: 1}, {X: 5, Y: 1}, {X: 1, Y: 5}}, 8},
		{"covers rect", [3]math3d.Vec3{{X: -20, Y: -20}, {X: 60, Y: -20}, {X: -20, Y: 60}}, 81},
		{"off screen", [3]math3d.Vec3{{X: 20, Y: 20}, {X: 30, Y: 20}, {X: 20, Y: 30}}, 0},
	}

	var c Clipper
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena(32)
			tri := newTriangle(a, tt.pts[0], tt.pts[1], tt.pts[2])
			out := c.ClipAll(a, planes, tri, nil)

			var area float64
			for _, o := range out {
				area += a.Area(o)
				for _, idx := range o {
					p := a.At(idx).Pos
					if p.X < -tolerance || p.X > 9+tolerance || p.Y < -tolerance || p.Y > 9+tolerance {
						t.Errorf("vertex %v outside rect", p)
					}
				}
			}
			if math.Abs(area-tt.wantArea) > 1e-6 {
				t.Errorf("area = %v, want %v", area, tt.wantArea)
			}
		})
	}
}

func BenchmarkClipTriangle(b *testing.B) {
	plane := NewPlane(math3d.V3(0, 0, 0.1), math3d.V3(0, 0, 1))
	a := NewArena(1024)
	var dst []Triangle

	for b.Loop() {
		a.Reset()
		tri := newTriangle(a, math3d.V3(0, 0, 2), math3d.V3(1, 0, 3), math3d.V3(0, 1, -1))
		dst = ClipTriangle(a, plane, tri, dst[:0])
	}
}
