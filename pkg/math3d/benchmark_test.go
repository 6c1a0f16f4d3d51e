package math3d

import (
	"math"
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := RotateY(0.5).Mul(Translate(V3(1, 2, 3)))
	v := Point(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkRotateZYX(b *testing.B) {
	for b.Loop() {
		_ = RotateZYX(0.1, 0.2, 0.3)
	}
}

func BenchmarkQuickInverse(b *testing.B) {
	m := PointAt(V3(0, 0, -10), Zero3(), Up())

	for b.Loop() {
		_ = m.QuickInverse()
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkViewProjection(b *testing.B) {
	// Same composition the renderer builds once per view.
	view := PointAt(V3(0, 0, -10), Zero3(), Up()).QuickInverse()
	proj := Projection(0.75, math.Pi/2, 0.1, 1000)

	for b.Loop() {
		_ = view.Mul(proj)
	}
}
