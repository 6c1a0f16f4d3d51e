// Package clip clips index triangles against planes. Vertices live in an
// Arena with stable indices; clipping appends the vertices it creates and
// returns new index triples.
package clip

import "github.com/taigrr/facet/pkg/math3d"

// Plane is a point-normal plane. Points p with Normal·p - Distance >= 0
// are inside.
type Plane struct {
	Point    math3d.Vec3
	Normal   math3d.Vec3
	Distance float64
}

// NewPlane creates a plane through point facing normal. The normal is
// normalized.
func NewPlane(point, normal math3d.Vec3) Plane {
	n := normal.Normalize()
	return Plane{
		Point:    point,
		Normal:   n,
		Distance: n.Dot(point),
	}
}

// SignedDistance returns the signed distance from the plane to p.
func (p Plane) SignedDistance(v math3d.Vec3) float64 {
	return p.Normal.Dot(v) - p.Distance
}

// Inside reports whether v is on the plane or in its positive half-space.
func (p Plane) Inside(v math3d.Vec3) bool {
	return p.SignedDistance(v) >= 0
}

// Intersect returns the point where segment a→b crosses the plane, with
// every attribute interpolated by the same parameter t. A segment
// parallel to the plane returns a unchanged.
func (p Plane) Intersect(a, b Vertex) (Vertex, float64) {
	pa := a.Pos.Vec3()
	pb := b.Pos.Vec3()

	denom := pb.Sub(pa).Dot(p.Normal)
	if denom == 0 {
		return a, 0
	}
	t := (p.Distance - pa.Dot(p.Normal)) / denom
	return a.Lerp(b, t), t
}
