package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/claw-machine/pkg/math"
)

// Transform is a local affine transform kept in two forms: the matrix and
// its position, rotation and scale parts.
//
// Relative edits (Translate, Rotate, ScaleBy, SetTransform) change the
// matrix and re-derive the parts from it. Absolute edits (SetPosition,
// SetRotation, SetScale, Set) change the parts and rebuild the matrix as
// translate * rotate * scale. Every mutator leaves both forms in agreement.
type Transform struct {
	matrix   mgl32.Mat4
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{
		matrix:   mgl32.Ident4(),
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns the local matrix.
func (t *Transform) Matrix() mgl32.Mat4 { return t.matrix }

// Position returns the local position.
func (t *Transform) Position() mgl32.Vec3 { return t.position }

// Rotation returns the local rotation.
func (t *Transform) Rotation() mgl32.Quat { return t.rotation }

// Scale returns the tracked scale.
func (t *Transform) Scale() mgl32.Vec3 { return t.scale }

// Translate moves by offset expressed in the transform's own axes.
func (t *Transform) Translate(offset mgl32.Vec3) {
	t.matrix = t.matrix.Mul4(mgl32.Translate3D(offset[0], offset[1], offset[2]))
	t.position = math.Translation(t.matrix)
}

// Rotate turns by angle degrees around a local axis. The rotation is
// re-derived from the matrix each call rather than accumulated.
func (t *Transform) Rotate(angle float32, axis mgl32.Vec3) {
	if axis.Len() == 0 {
		return
	}
	t.matrix = t.matrix.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize()))
	t.rotation = math.Rotation(t.matrix)
}

// ScaleBy multiplies the matrix by s. Repeated calls compound.
func (t *Transform) ScaleBy(s mgl32.Vec3) {
	t.matrix = t.matrix.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	t.scale = mgl32.Vec3{t.scale[0] * s[0], t.scale[1] * s[1], t.scale[2] * s[2]}
}

// SetScale replaces the scale and rebuilds the matrix. Repeated calls do
// not compound.
func (t *Transform) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.rebuild()
}

// SetTransform replaces the matrix and re-derives position and rotation.
// The tracked scale is left as it was.
func (t *Transform) SetTransform(m mgl32.Mat4) {
	t.matrix = m
	t.position = math.Translation(m)
	t.rotation = math.Rotation(m)
}

// SetPosition moves to p and rebuilds the matrix.
func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.position = p
	t.rebuild()
}

// SetRotation replaces the rotation and rebuilds the matrix.
func (t *Transform) SetRotation(q mgl32.Quat) {
	t.rotation = q.Normalize()
	t.rebuild()
}

// TranslateWorld moves by offset along the parent's axes.
func (t *Transform) TranslateWorld(offset mgl32.Vec3) {
	t.SetPosition(t.position.Add(offset))
}

// Set replaces all three parts and rebuilds the matrix.
func (t *Transform) Set(p mgl32.Vec3, q mgl32.Quat, s mgl32.Vec3) {
	t.position = p
	t.rotation = q.Normalize()
	t.scale = s
	t.rebuild()
}

func (t *Transform) rebuild() {
	t.matrix = math.TRS(t.position, t.rotation, t.scale)
}
