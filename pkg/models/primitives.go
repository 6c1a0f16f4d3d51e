package models

import (
	"image/color"

	"github.com/taigrr/facet/pkg/math3d"
)

// NewCube builds an axis-aligned cube of edge size centered on the origin.
// Faces wind so their normals point outward, and every face maps the full
// texture. The cube gets a single flat material of color c.
func NewCube(name string, size float64, c color.RGBA) *Mesh {
	h := size / 2
	m := NewMesh(name)
	// Bit 0 selects +X, bit 1 +Y, bit 2 +Z.
	for i := range 8 {
		m.Vertices = append(m.Vertices, math3d.V3(
			pick(i&1 != 0, h, -h),
			pick(i&2 != 0, h, -h),
			pick(i&4 != 0, h, -h),
		))
	}
	m.TexCoords = []math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	m.Materials = []Material{{Name: name, Color: c}}

	for axis := range 3 {
		a, b := 1<<((axis+1)%3), 1<<((axis+2)%3)
		for _, pos := range []bool{false, true} {
			base := 0
			outward := -1.0
			if pos {
				base = 1 << axis
				outward = 1
			}
			quad := [4]int{base, base | a, base | a | b, base | b}
			n := m.Vertices[quad[1]].Sub(m.Vertices[quad[0]]).
				Cross(m.Vertices[quad[2]].Sub(m.Vertices[quad[0]]))
			uv := [4]int{0, 1, 2, 3}
			if axisComponent(n, axis)*outward < 0 {
				quad[1], quad[3] = quad[3], quad[1]
				uv[1], uv[3] = uv[3], uv[1]
			}
			m.Faces = append(m.Faces,
				Face{V: [3]int{quad[0], quad[1], quad[2]}, UV: [3]int{uv[0], uv[1], uv[2]}, HasUV: true},
				Face{V: [3]int{quad[0], quad[2], quad[3]}, UV: [3]int{uv[0], uv[2], uv[3]}, HasUV: true},
			)
		}
	}
	m.CalculateBounds()
	return m
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

func axisComponent(v math3d.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
