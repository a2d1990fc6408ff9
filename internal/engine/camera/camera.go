// Package camera provides the first-person camera.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Defaults for a standing player.
const (
	DefaultYaw         = -90.0
	DefaultMoveSpeed   = 5.0
	DefaultSensitivity = 0.1
	DefaultFOV         = 45.0
	MinFOV             = 1.0
	MaxPitch           = 89.0
	CrouchDepth        = 1.0

	// Orbit refuses vertical motion that ends closer than this to a pole.
	PolarLimit = 5.0

	NearPlane = 0.1
	FarPlane  = 100.0
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is a first-person camera. Angles are in degrees.
type Camera struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	FOV         float32
	MaxFOV      float32
	MoveSpeed   float32
	Sensitivity float32

	front, right, up mgl32.Vec3

	crouching    bool
	standHeight  float32
	crouchHeight float32
}

// New returns a camera at pos looking down -Z.
func New(pos mgl32.Vec3) *Camera {
	c := &Camera{
		Position:     pos,
		Yaw:          DefaultYaw,
		FOV:          DefaultFOV,
		MaxFOV:       DefaultFOV,
		MoveSpeed:    DefaultMoveSpeed,
		Sensitivity:  DefaultSensitivity,
		standHeight:  pos.Y(),
		crouchHeight: pos.Y() - CrouchDepth,
	}
	c.updateVectors()
	return c
}

// Front returns the unit view direction.
func (c *Camera) Front() mgl32.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *Camera) Right() mgl32.Vec3 { return c.right }

// Up returns the camera up vector.
func (c *Camera) Up() mgl32.Vec3 { return c.up }

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.front), c.up)
}

// ProjectionMatrix returns a perspective projection for the given aspect.
func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, NearPlane, FarPlane)
}

// Move walks the camera on the horizontal plane. forward and right are
// axis values in [-1, 1]; looking up or down does not change height.
func (c *Camera) Move(forward, right, dt float32) {
	if forward == 0 && right == 0 {
		return
	}
	velocity := c.MoveSpeed * dt

	flat := mgl32.Vec3{c.front.X(), 0, c.front.Z()}
	if flat.Len() > 0 {
		flat = flat.Normalize()
	}
	c.Position = c.Position.Add(flat.Mul(forward * velocity)).Add(c.right.Mul(right * velocity))
}

// Look turns the camera by a mouse delta. Positive dy looks down.
func (c *Camera) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -MaxPitch, MaxPitch)
	c.updateVectors()
}

// Zoom narrows the field of view by delta degrees, within [MinFOV, MaxFOV].
func (c *Camera) Zoom(delta float32) {
	c.FOV = mgl32.Clamp(c.FOV-delta, MinFOV, c.MaxFOV)
}

// ToggleCrouch switches between standing and crouching height.
func (c *Camera) ToggleCrouch() {
	c.crouching = !c.crouching
	if c.crouching {
		c.Position[1] = c.crouchHeight
	} else {
		c.Position[1] = c.standHeight
	}
}

// Crouching reports whether the camera is crouched.
func (c *Camera) Crouching() bool { return c.crouching }

// IsLookingAt reports whether target lies within the view cone given by
// cosThreshold and closer than maxDistance.
func (c *Camera) IsLookingAt(target mgl32.Vec3, cosThreshold, maxDistance float32) bool {
	to := target.Sub(c.Position)
	dist := to.Len()
	if dist == 0 {
		return true
	}
	return c.front.Dot(to.Mul(1/dist)) > cosThreshold && dist < maxDistance
}

// OrbitAroundTarget swings the camera around target by horizontal degrees
// about world up and vertical degrees about the camera's right axis, then
// faces the target. Vertical motion that would bring the camera within
// PolarLimit of straight above or below the target is dropped.
func (c *Camera) OrbitAroundTarget(target mgl32.Vec3, horizontal, vertical float32) {
	offset := c.Position.Sub(target)
	if offset.Len() == 0 {
		return
	}

	if horizontal != 0 {
		offset = mgl32.HomogRotate3DY(mgl32.DegToRad(horizontal)).Mul4x1(offset.Vec4(1)).Vec3()
	}

	if vertical != 0 {
		axis := worldUp.Cross(offset)
		if axis.Len() > 0 {
			rotated := mgl32.HomogRotate3D(mgl32.DegToRad(vertical), axis.Normalize()).Mul4x1(offset.Vec4(1)).Vec3()
			if polar := polarAngle(rotated); polar >= PolarLimit && polar <= 180-PolarLimit {
				offset = rotated
			}
		}
	}

	c.Position = target.Add(offset)
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(dir.Y()))))
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(dir.Z()), float64(dir.X()))))
	c.updateVectors()
}

// polarAngle returns the angle between v and world up in degrees.
func polarAngle(v mgl32.Vec3) float32 {
	cos := mgl32.Clamp(v.Normalize().Dot(worldUp), -1, 1)
	return mgl32.RadToDeg(float32(math.Acos(float64(cos))))
}

func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	c.front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
	c.right = c.front.Cross(worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}
