// Package pickup finds which free object a claw trigger or the player can grab.
package pickup

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/claw-machine/internal/scene"
)

// Roster is the set of candidate objects, in a fixed order.
type Roster interface {
	Roster() []*scene.Node
	// Eligible reports whether n is neither carried nor collected.
	Eligible(n *scene.Node) bool
	// BodyPosition returns the physics-reported world position of n.
	BodyPosition(n *scene.Node) mgl32.Vec3
}

// Detector holds the distance thresholds. Both strategies use straight-line
// distance at the current tick and return the first match in roster order,
// not the nearest.
type Detector struct {
	TriggerRadius   float32
	ObjectRadius    float32
	CaptureDistance float32
}

// ByTrigger returns the first eligible object closer to trigger than
// TriggerRadius + ObjectRadius, or nil.
func (d Detector) ByTrigger(trigger mgl32.Vec3, r Roster) *scene.Node {
	return first(trigger, d.TriggerRadius+d.ObjectRadius, r)
}

// Direct returns the first eligible object closer to viewer than
// CaptureDistance, or nil.
func (d Detector) Direct(viewer mgl32.Vec3, r Roster) *scene.Node {
	return first(viewer, d.CaptureDistance, r)
}

func first(from mgl32.Vec3, threshold float32, r Roster) *scene.Node {
	if threshold <= 0 {
		return nil
	}
	limit := threshold * threshold
	for _, n := range r.Roster() {
		if n == nil || !r.Eligible(n) {
			continue
		}
		if r.BodyPosition(n).Sub(from).LenSqr() < limit {
			return n
		}
	}
	return nil
}
