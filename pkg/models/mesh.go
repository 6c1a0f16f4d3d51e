// Package models holds meshes and materials and loads them from OBJ/MTL
// and glTF files.
package models

import (
	"fmt"

	"github.com/taigrr/facet/pkg/math3d"
)

// Mesh is a triangle mesh in local space plus its world transform.
//
// Geometry is populated once by a loader. Position, rotation and scale
// change between frames; the world matrix is recomputed lazily after any
// of them changes.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3 // Local-space positions
	TexCoords []math3d.Vec2
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3

	position math3d.Vec3
	rotation math3d.Vec3 // Euler angles in radians
	scale    math3d.Vec3
	world    CachedMatrix
}

// Face is a triangle referencing three vertices and, when HasUV is set,
// three texture coordinates.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	UV       [3]int // Indices into Mesh.TexCoords
	HasUV    bool
	Material int // Index into Mesh.Materials (-1 for no material)
}

// NewMesh creates an empty mesh with an identity transform.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:  name,
		scale: math3d.V3(1, 1, 1),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Validate checks every face index against the vertex, texture coordinate
// and material tables.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		if err := m.CheckFace(f); err != nil {
			return fmt.Errorf("mesh %q face %d: %w", m.Name, i, err)
		}
	}
	return nil
}

// CheckFace reports the first out-of-range index in f.
func (m *Mesh) CheckFace(f Face) error {
	for _, v := range f.V {
		if v < 0 || v >= len(m.Vertices) {
			return fmt.Errorf("vertex index %d out of range [0,%d)", v, len(m.Vertices))
		}
	}
	if f.HasUV {
		for _, t := range f.UV {
			if t < 0 || t >= len(m.TexCoords) {
				return fmt.Errorf("texture index %d out of range [0,%d)", t, len(m.TexCoords))
			}
		}
	}
	if f.Material >= len(m.Materials) {
		return fmt.Errorf("material index %d out of range [0,%d)", f.Material, len(m.Materials))
	}
	return nil
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialIndex returns the index of the named material, or -1.
func (m *Mesh) MaterialIndex(name string) int {
	for i := range m.Materials {
		if m.Materials[i].Name == name {
			return i
		}
	}
	return -1
}
