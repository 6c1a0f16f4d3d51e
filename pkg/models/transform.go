package models

import "github.com/taigrr/facet/pkg/math3d"

// CachedMatrix is either Dirty or Clean(matrix). The zero value is Dirty.
type CachedMatrix struct {
	clean bool
	m     math3d.Mat4
}

// Invalidate marks the cache Dirty.
func (c *CachedMatrix) Invalidate() {
	c.clean = false
}

// Clean reports whether a computed matrix is held.
func (c *CachedMatrix) Clean() bool {
	return c.clean
}

// Get returns the held matrix, calling compute first if the cache is
// Dirty.
func (c *CachedMatrix) Get(compute func() math3d.Mat4) math3d.Mat4 {
	if !c.clean {
		c.m = compute()
		c.clean = true
	}
	return c.m
}

// Position returns the world position.
func (m *Mesh) Position() math3d.Vec3 { return m.position }

// Rotation returns the Euler rotation in radians.
func (m *Mesh) Rotation() math3d.Vec3 { return m.rotation }

// Scale returns the per-axis scale.
func (m *Mesh) Scale() math3d.Vec3 { return m.scale }

// SetPosition moves the mesh.
func (m *Mesh) SetPosition(p math3d.Vec3) {
	m.position = p
	m.world.Invalidate()
}

// SetRotation sets the Euler rotation in radians.
func (m *Mesh) SetRotation(r math3d.Vec3) {
	m.rotation = r
	m.world.Invalidate()
}

// Rotate adds delta to the Euler rotation.
func (m *Mesh) Rotate(delta math3d.Vec3) {
	m.SetRotation(m.rotation.Add(delta))
}

// SetScale sets the per-axis scale.
func (m *Mesh) SetScale(s math3d.Vec3) {
	m.scale = s
	m.world.Invalidate()
}

// WorldMatrix returns scale × rotation × translation, so a vertex is
// scaled first, then rotated (Z, Y, X) and finally translated.
func (m *Mesh) WorldMatrix() math3d.Mat4 {
	return m.world.Get(m.computeWorld)
}

func (m *Mesh) computeWorld() math3d.Mat4 {
	return math3d.Scale(m.scale).
		Mul(math3d.RotateZYX(m.rotation.X, m.rotation.Y, m.rotation.Z)).
		Mul(math3d.Translate(m.position))
}
