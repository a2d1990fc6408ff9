package session

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Fixed placement of the roster. Models are authored around these values.
var (
	GroundPosition    = mgl32.Vec3{0, -2, 0}
	GroundHalfExtents = mgl32.Vec3{10, 0.1, 10}

	MachinePosition = mgl32.Vec3{0, -2, 0}
	MachineScale    = mgl32.Vec3{1, 1, 1}

	ClawStart = mgl32.Vec3{0, 1, 0}
	ClawScale = mgl32.Vec3{0.5, 0.5, 0.5}
	// ClawHalfExtents sizes the claw collider when its model is missing.
	ClawHalfExtents = mgl32.Vec3{0.2, 0.2, 0.2}

	// TriggerOffset is the trigger's position in claw-local units.
	TriggerOffset = mgl32.Vec3{0, -0.4, 0}

	BirbScale     = mgl32.Vec3{0.3, 0.3, 0.3}
	BirbSpawnY    = float32(-1.5)
	BirbRingRange = float32(0.5)
)

// birbSpawn returns the spawn point of birb i out of n: the first one in the
// middle, the rest on a ring around it.
func birbSpawn(i, n int) mgl32.Vec3 {
	if i == 0 || n <= 1 {
		return mgl32.Vec3{0, BirbSpawnY, 0}
	}
	angle := float32(2*math.Pi) * float32(i-1) / float32(n-1)
	x, z := mgl32.Rotate2D(angle).Mul2x1(mgl32.Vec2{BirbRingRange, 0}).Elem()
	return mgl32.Vec3{x, BirbSpawnY, z}
}
