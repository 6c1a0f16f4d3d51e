package clip

import "github.com/taigrr/facet/pkg/math3d"

// Vertex is an arena entry. Tex holds (u, v, w): texture coordinates and a
// perspective weight that starts at 1 and becomes 1/depth once the vertex
// is projected, with u and v premultiplied by it.
type Vertex struct {
	Pos math3d.Vec4
	Tex math3d.Vec3
}

// Lerp interpolates position and texture attributes by t.
func (a Vertex) Lerp(b Vertex, t float64) Vertex {
	return Vertex{
		Pos: a.Pos.Lerp(b.Pos, t),
		Tex: a.Tex.Lerp(b.Tex, t),
	}
}

// Triangle is three arena indices.
type Triangle [3]int

// Arena stores vertices for one frame. Indices handed out by Add stay
// valid until Reset, no matter how much the arena grows.
type Arena struct {
	verts []Vertex
}

// NewArena creates an arena with room for capacity vertices.
func NewArena(capacity int) *Arena {
	return &Arena{verts: make([]Vertex, 0, capacity)}
}

// Add appends v and returns its index.
func (a *Arena) Add(v Vertex) int {
	a.verts = append(a.verts, v)
	return len(a.verts) - 1
}

// At returns the vertex at index i.
func (a *Arena) At(i int) Vertex {
	return a.verts[i]
}

// Set replaces the vertex at index i.
func (a *Arena) Set(i int, v Vertex) {
	a.verts[i] = v
}

// Len returns the number of vertices.
func (a *Arena) Len() int {
	return len(a.verts)
}

// Reset empties the arena, keeping its storage.
func (a *Arena) Reset() {
	a.verts = a.verts[:0]
}

// Area returns the area of t measured on the xyz positions.
func (a *Arena) Area(t Triangle) float64 {
	return a.cross(t).Len() / 2
}

// Degenerate reports whether t's vertices are collinear, that is its edge
// cross product is exactly zero.
func (a *Arena) Degenerate(t Triangle) bool {
	return a.cross(t) == (math3d.Vec3{})
}

func (a *Arena) cross(t Triangle) math3d.Vec3 {
	p0 := a.verts[t[0]].Pos.Vec3()
	p1 := a.verts[t[1]].Pos.Vec3()
	p2 := a.verts[t[2]].Pos.Vec3()
	return p1.Sub(p0).Cross(p2.Sub(p0))
}
