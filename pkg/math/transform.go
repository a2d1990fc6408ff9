// Package math provides mgl32 helpers for composing and decomposing affine transforms.
package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance used when comparing decomposed transform parts.
const Epsilon = 1e-4

// TRS returns translate(pos) * rotate(rot) * scale(scale).
func TRS(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// Translation returns the translation column of m.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// ColumnScale returns the lengths of the three basis columns of m.
// For a matrix built as TRS this is the scale that went in.
func ColumnScale(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{
		m.Col(0).Vec3().Len(),
		m.Col(1).Vec3().Len(),
		m.Col(2).Vec3().Len(),
	}
}

// Rotation extracts the rotation of m as a unit quaternion.
// Scale baked into the basis columns is divided out first so that
// Mat4ToQuat sees an orthonormal matrix.
func Rotation(m mgl32.Mat4) mgl32.Quat {
	s := ColumnScale(m)
	r := mgl32.Ident4()
	for i := 0; i < 3; i++ {
		col := m.Col(i).Vec3()
		if s[i] > 1e-8 {
			col = col.Mul(1 / s[i])
		}
		r.SetCol(i, col.Vec4(0))
	}
	return mgl32.Mat4ToQuat(r).Normalize()
}

// Decompose splits m into translation, rotation and column scale.
// It is exact for matrices built as TRS with positive scale.
func Decompose(m mgl32.Mat4) (pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) {
	return Translation(m), Rotation(m), ColumnScale(m)
}

// ApproxEqualVec3 reports whether a and b differ by at most eps per component.
func ApproxEqualVec3(a, b mgl32.Vec3, eps float32) bool {
	for i := 0; i < 3; i++ {
		if float32(math.Abs(float64(a[i]-b[i]))) > eps {
			return false
		}
	}
	return true
}

// MoveTowards moves current toward target by at most maxDelta.
// When the remaining distance is within maxDelta, target itself is returned
// so repeated calls land on it bit-for-bit.
func MoveTowards(current, target mgl32.Vec3, maxDelta float32) mgl32.Vec3 {
	delta := target.Sub(current)
	dist := delta.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(delta.Mul(maxDelta / dist))
}
