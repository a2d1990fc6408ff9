package states

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/engine/audio"
	"github.com/Faultbox/claw-machine/internal/engine/camera"
	"github.com/Faultbox/claw-machine/internal/engine/picking"
	"github.com/Faultbox/claw-machine/internal/game/claw"
	"github.com/Faultbox/claw-machine/internal/game/pickup"
	"github.com/Faultbox/claw-machine/internal/game/session"
	"github.com/Faultbox/claw-machine/internal/logger"
)

// LookThreshold is the view cone cosine (about 30 degrees) for interacting
// with the machine.
const LookThreshold = 0.866

// CuePlayer plays sound cues. *audio.Manager implements it.
type CuePlayer interface {
	Play(cue audio.Cue) bool
}

// Context is what the states share: the session, the claw, the player
// camera and the sound cues.
type Context struct {
	Session  *session.Session
	Claw     *claw.Controller
	Camera   *camera.Camera
	Detector pickup.Detector
	Cues     CuePlayer

	InteractDistance float32

	quit bool
	log  *zap.Logger
}

// NewContext bundles the shared game objects. cues may be nil.
func NewContext(s *session.Session, c *claw.Controller, cam *camera.Camera, d pickup.Detector, cues CuePlayer, interactDistance float32) *Context {
	return &Context{
		Session:          s,
		Claw:             c,
		Camera:           cam,
		Detector:         d,
		Cues:             cues,
		InteractDistance: interactDistance,
		log:              logger.Named("states"),
	}
}

// RequestQuit asks the game loop to stop.
func (c *Context) RequestQuit() { c.quit = true }

// QuitRequested reports whether a state asked to quit.
func (c *Context) QuitRequested() bool { return c.quit }

func (c *Context) play(cue audio.Cue) {
	if c.Cues != nil {
		c.Cues.Play(cue)
	}
}

// machineBox returns the machine's world bounding box when it has a model.
func (c *Context) machineBox() (picking.AABB, bool) {
	m := c.Session.Machine.Model()
	if m == nil || len(m.Meshes) == 0 {
		return picking.AABB{}, false
	}
	world := c.Session.Graph.WorldMatrix(c.Session.Machine)
	return picking.TransformAABB(mgl32.Vec3(m.Bounds.Min), mgl32.Vec3(m.Bounds.Max), world), true
}

// MachineTarget is the point the camera aims and orbits at: the center of
// the machine, or the claw when the machine has no model.
func (c *Context) MachineTarget() mgl32.Vec3 {
	if box, ok := c.machineBox(); ok {
		return box.Min.Add(box.Max).Mul(0.5)
	}
	return c.Session.Graph.WorldPosition(c.Session.Claw)
}

// LookingAtMachine reports whether the player can start operating the claw.
func (c *Context) LookingAtMachine() bool {
	if c.Camera.IsLookingAt(c.MachineTarget(), LookThreshold, c.InteractDistance) {
		return true
	}
	box, ok := c.machineBox()
	if !ok {
		return false
	}
	t, hit := c.aimRay().IntersectAABB(box)
	return hit && t+camera.NearPlane < c.InteractDistance
}

// aimRay is the ray through the center of the screen. It starts on the near
// plane.
func (c *Context) aimRay() picking.Ray {
	vp := c.Camera.ProjectionMatrix(1).Mul4(c.Camera.ViewMatrix())
	return picking.ScreenToRay(0.5, 0.5, 1, 1, vp.Inv())
}

// dispatch turns claw events into cues and log lines.
func (c *Context) dispatch(events []claw.Event) {
	for _, e := range events {
		switch e {
		case claw.EventDescend:
			c.play(audio.CueDescend)
		case claw.EventCollision:
			c.play(audio.CueCollide)
		case claw.EventPickedUp:
			c.play(audio.CuePickup)
		case claw.EventDropped:
			c.play(audio.CueDrop)
		case claw.EventRoundOver:
			c.log.Info("round over",
				zap.Int("round", c.Session.Rounds()),
				zap.Int("score", c.Session.Score()))
		}
	}
}
