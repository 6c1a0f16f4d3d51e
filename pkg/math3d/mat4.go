package math3d

import "math"

// Mat4 is a 4x4 matrix stored in row-major order and applied to row
// vectors (p' = p×M).
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
//
// For an affine transform the first three rows are the images of the
// X, Y and Z axes and the last row holds the translation.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateZYX combines per-axis rotations in the fixed yaw-pitch-roll order:
// Z is applied first, then Y, then X. Mesh and camera orientation both
// go through this function so they stay consistent.
func RotateZYX(x, y, z float64) Mat4 {
	return RotateZ(z).Mul(RotateY(y)).Mul(RotateX(x))
}

// Projection creates a perspective projection matrix. aspect is
// height/width and fov is the field of view in radians. The result maps
// view-space z into w so the caller can perform the homogeneous divide;
// projected z runs from 0 at near to 1 at far.
func Projection(aspect, fov, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fov/2)
	q := far / (far - near)

	return Mat4{
		aspect * f, 0, 0, 0,
		0, f, 0, 0,
		0, 0, q, 1,
		0, 0, -near * q, 0,
	}
}

// PointAt builds the camera-to-world matrix for an eye at pos looking at
// target. up only needs to be roughly perpendicular to the view direction.
// Rows are right, up, forward and the eye position.
func PointAt(pos, target, up Vec3) Mat4 {
	f := target.Sub(pos).Normalize()
	u := up.Sub(f.Scale(up.Dot(f))).Normalize()
	r := u.Cross(f)

	return Mat4{
		r.X, r.Y, r.Z, 0,
		u.X, u.Y, u.Z, 0,
		f.X, f.Y, f.Z, 0,
		pos.X, pos.Y, pos.Z, 1,
	}
}

// QuickInverse inverts a rotation+translation matrix such as the output
// of PointAt. It is not valid for matrices with scale or projection.
func (m Mat4) QuickInverse() Mat4 {
	t := V3(m[12], m[13], m[14])
	r := V3(m[0], m[1], m[2])
	u := V3(m[4], m[5], m[6])
	f := V3(m[8], m[9], m[10])

	return Mat4{
		m[0], m[4], m[8], 0,
		m[1], m[5], m[9], 0,
		m[2], m[6], m[10], 0,
		-t.Dot(r), -t.Dot(u), -t.Dot(f), 1,
	}
}

// Mul multiplies two matrices: a × b. Under the row-vector convention
// the result applies a first, then b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row*4+k] * b[k*4+col]
			}
			m[row*4+col] = sum
		}
	}
	return m
}

// MulVec4 transforms a homogeneous vector. No divide is performed.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		v.X*m[0] + v.Y*m[4] + v.Z*m[8] + v.W*m[12],
		v.X*m[1] + v.Y*m[5] + v.Z*m[9] + v.W*m[13],
		v.X*m[2] + v.Y*m[6] + v.Z*m[10] + v.W*m[14],
		v.X*m[3] + v.Y*m[7] + v.Z*m[11] + v.W*m[15],
	}
}

// MulPoint transforms a Vec3 as a point (w=1) of an affine matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).Vec3()
}

// Row returns row i as a Vec3, ignoring the fourth column.
func (m Mat4) Row(i int) Vec3 {
	return Vec3{m[i*4], m[i*4+1], m[i*4+2]}
}
