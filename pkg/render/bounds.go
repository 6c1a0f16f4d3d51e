package render

import (
	"github.com/taigrr/facet/pkg/clip"
	"github.com/taigrr/facet/pkg/math3d"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// BoundsOf returns the box enclosing pts. An empty slice gives the zero box.
func BoundsOf(pts []math3d.Vec3) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	b := AABB{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Frustum is the six inward-facing planes of a view volume, in world
// space. Order: left, right, bottom, top, near, far.
type Frustum [6]clip.Plane

// NewFrustum extracts the planes from a world-to-clip matrix (view times
// projection) using the Gribb/Hartmann method. With row vectors, clip
// coordinate j is column j of the matrix, and the volume is
// -w <= x,y <= w, 0 <= z <= w.
func NewFrustum(m math3d.Mat4) Frustum {
	col := func(j int) math3d.Vec4 {
		return math3d.V4(m[j], m[4+j], m[8+j], m[12+j])
	}
	x, y, z, w := col(0), col(1), col(2), col(3)
	sum := func(a, b math3d.Vec4, s float64) clip.Plane {
		return planeFromCoeffs(a.X+s*b.X, a.Y+s*b.Y, a.Z+s*b.Z, a.W+s*b.W)
	}
	return Frustum{
		sum(w, x, 1),
		sum(w, x, -1),
		sum(w, y, 1),
		sum(w, y, -1),
		sum(z, z, 0),
		sum(w, z, -1),
	}
}

// planeFromCoeffs converts a·x + b·y + c·z + d >= 0 to point-normal form.
func planeFromCoeffs(a, b, c, d float64) clip.Plane {
	n := math3d.V3(a, b, c)
	l := n.Len()
	if l == 0 {
		return clip.Plane{}
	}
	n = n.Scale(1 / l)
	dist := -d / l
	return clip.Plane{Point: n.Scale(dist), Normal: n, Distance: dist}
}

// Intersects reports whether any part of box may be inside the frustum.
// It tests the corner furthest along each plane normal, so boxes near a
// frustum corner can pass even when outside.
func (f Frustum) Intersects(box AABB) bool {
	for _, p := range f {
		pv := math3d.V3(
			pick(p.Normal.X >= 0, box.Max.X, box.Min.X),
			pick(p.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			pick(p.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if !p.Inside(pv) {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
