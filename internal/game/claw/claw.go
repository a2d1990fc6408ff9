// Package claw drives the claw: horizontal moves, the descend/ascend cycle
// with collision rollback, and picking up and dropping a birb.
package claw

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/game/pickup"
	"github.com/Faultbox/claw-machine/internal/game/session"
	"github.com/Faultbox/claw-machine/internal/logger"
	"github.com/Faultbox/claw-machine/internal/physics"
	"github.com/Faultbox/claw-machine/internal/scene"
	"github.com/Faultbox/claw-machine/pkg/math"
)

// Phase is the claw cycle state.
type Phase int

const (
	Idle Phase = iota
	Descending
	Ascending
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Descending:
		return "descending"
	case Ascending:
		return "ascending"
	default:
		return "unknown"
	}
}

// Event reports something that happened during a tick.
type Event int

const (
	EventDescend Event = iota
	EventCollision
	EventPickedUp
	EventDropped
	EventRoundOver
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventDescend:
		return "descend"
	case EventCollision:
		return "collision"
	case EventPickedUp:
		return "picked-up"
	case EventDropped:
		return "dropped"
	case EventRoundOver:
		return "round-over"
	default:
		return "unknown"
	}
}

// Config holds claw speeds and pickup geometry.
type Config struct {
	MoveSpeed     float32 // units per second, horizontal
	DescendSpeed  float32
	AscendSpeed   float32
	MaxDescent    float32 // 0 leaves collision as the only floor
	DropOffset    float32
	TriggerRadius float32
	BirbRadius    float32
}

// Controller is the claw state machine.
type Controller struct {
	sess     *session.Session
	cfg      Config
	detector pickup.Detector

	phase    Phase
	origin   mgl32.Vec3
	carried  *scene.Node
	canMove  bool
	gotPrize bool

	events []Event
	log    *zap.Logger
}

// New returns an idle controller for the session's claw.
func New(s *session.Session, cfg Config) *Controller {
	return &Controller{
		sess: s,
		cfg:  cfg,
		detector: pickup.Detector{
			TriggerRadius: cfg.TriggerRadius,
			ObjectRadius:  cfg.BirbRadius,
		},
		canMove: true,
		log:     logger.Named("claw"),
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Carried returns the carried birb, or nil.
func (c *Controller) Carried() *scene.Node { return c.carried }

// CanMove reports whether direction keys move the claw.
func (c *Controller) CanMove() bool { return c.canMove }

// Origin returns the position recorded when the current descent started.
func (c *Controller) Origin() mgl32.Vec3 { return c.origin }

// Events returns and clears the events raised since the last call.
func (c *Controller) Events() []Event {
	ev := c.events
	c.events = nil
	return ev
}

func (c *Controller) emit(e Event) {
	c.events = append(c.events, e)
}

// Move shifts the claw horizontally by dir * MoveSpeed * dt. A move that
// would overlap the machine is undone in full. It reports whether the
// claw moved.
func (c *Controller) Move(dir mgl32.Vec3, dt float32) bool {
	if !c.canMove || c.phase != Idle {
		return false
	}
	dir[1] = 0
	if dir.Len() == 0 || dt <= 0 {
		return false
	}
	offset := dir.Normalize().Mul(c.cfg.MoveSpeed * dt)

	claw := c.sess.Claw
	snap := claw.Snapshot()
	claw.Transform().TranslateWorld(offset)
	c.push(claw)
	c.pushCarried()

	if c.blocked(false) {
		c.rollback(snap)
		return false
	}
	return true
}

// Descend starts a cycle. It is refused while a birb is carried or a cycle
// is already running.
func (c *Controller) Descend() bool {
	if c.phase != Idle || c.carried != nil {
		return false
	}
	c.origin = c.sess.Claw.Transform().Position()
	c.phase = Descending
	c.canMove = false
	c.gotPrize = false
	c.sess.MountTrigger()
	c.emit(EventDescend)
	c.log.Debug("descend", zap.Any("origin", c.origin))
	return true
}

// Update advances the cycle by dt.
func (c *Controller) Update(dt float32) {
	if dt <= 0 {
		return
	}
	switch c.phase {
	case Descending:
		c.descend(dt)
	case Ascending:
		c.ascend(dt)
	}
}

func (c *Controller) descend(dt float32) {
	claw := c.sess.Claw
	snap := claw.Snapshot()
	claw.Transform().TranslateWorld(mgl32.Vec3{0, -c.cfg.DescendSpeed * dt, 0})
	c.push(claw)
	c.pushCarried()

	if c.blocked(true) {
		c.rollback(snap)
		c.phase = Ascending
		return
	}

	if c.cfg.MaxDescent > 0 {
		floor := c.origin.Y() - c.cfg.MaxDescent
		if pos := claw.Transform().Position(); pos.Y() <= floor {
			pos[1] = floor
			claw.Transform().SetPosition(pos)
			c.push(claw)
			c.phase = Ascending
			c.log.Debug("descent cap reached", zap.Float32("floor", floor))
		}
	}
	c.pushCarried()
}

func (c *Controller) ascend(dt float32) {
	claw := c.sess.Claw
	pos := math.MoveTowards(claw.Transform().Position(), c.origin, c.cfg.AscendSpeed*dt)
	claw.Transform().SetPosition(pos)
	c.push(claw)
	c.pushCarried()

	if pos != c.origin {
		return
	}

	c.phase = Idle
	c.canMove = true
	c.sess.UnmountTrigger()
	if !c.gotPrize {
		c.endRound()
	}
}

// blocked reports whether the claw or the birb it carries touches the
// machine, or the ground when withGround is set.
func (c *Controller) blocked(withGround bool) bool {
	if c.sess.OverlapsStructure(c.sess.Claw, withGround) {
		return true
	}
	return c.carried != nil && c.sess.OverlapsStructure(c.carried, withGround)
}

// rollback restores the claw transform and its body to snap.
func (c *Controller) rollback(snap scene.Transform) {
	claw := c.sess.Claw
	claw.Restore(snap)
	c.push(claw)
	c.pushCarried()
	c.emit(EventCollision)
	c.log.Debug("claw motion rolled back", zap.Any("position", snap.Position()))
}

// CheckPickup grabs the first eligible birb within reach of the trigger.
// It does nothing while a birb is already carried or no trigger is mounted.
func (c *Controller) CheckPickup() bool {
	if c.carried != nil {
		return false
	}
	trigger, ok := c.sess.TriggerPosition()
	if !ok {
		return false
	}
	birb := c.detector.ByTrigger(trigger, c.sess)
	if birb == nil {
		return false
	}
	return c.attach(birb)
}

// attach reparents birb under the claw keeping its world pose and hands
// its body over to the claw.
func (c *Controller) attach(birb *scene.Node) bool {
	g := c.sess.Graph
	claw := c.sess.Claw

	local := g.WorldMatrix(claw).Inv().Mul4(g.WorldMatrix(birb))
	if err := g.AddChild(claw, birb); err != nil {
		c.log.Error("pickup failed", zap.String("birb", birb.Name()), zap.Error(err))
		return false
	}
	pos, rot, scale := math.Decompose(local)
	birb.Transform().Set(pos, rot, scale)

	if err := g.SetBodyType(birb, physics.Kinematic); err != nil {
		c.log.Error("pickup failed", zap.String("birb", birb.Name()), zap.Error(err))
	}
	c.push(birb)

	c.carried = birb
	c.gotPrize = true
	c.emit(EventPickedUp)
	c.log.Info("picked up", zap.String("birb", birb.Name()))
	return true
}

// Drop releases the carried birb from its current visual position, lowered
// by DropOffset, back to the simulation. It ends the round. Dropping is only
// possible between cycles.
func (c *Controller) Drop() bool {
	if c.carried == nil || c.phase != Idle {
		return false
	}
	g := c.sess.Graph
	birb := c.carried

	world := g.WorldMatrix(birb)
	g.AddRoot(birb)
	pos, rot, scale := math.Decompose(world)
	pos[1] -= c.cfg.DropOffset
	birb.Transform().Set(pos, rot, scale)

	c.push(birb)
	if err := g.SetBodyType(birb, physics.Dynamic); err != nil {
		c.log.Error("drop failed", zap.String("birb", birb.Name()), zap.Error(err))
	}

	c.carried = nil
	c.emit(EventDropped)
	c.log.Info("dropped", zap.String("birb", birb.Name()), zap.Any("position", pos))
	c.endRound()
	return true
}

func (c *Controller) endRound() {
	c.sess.EndRound()
	c.emit(EventRoundOver)
}

// Reset returns the claw to its idle state at the current position,
// removing the trigger. A carried birb stays carried.
func (c *Controller) Reset() {
	c.phase = Idle
	c.canMove = true
	c.sess.UnmountTrigger()
	c.events = nil
}

func (c *Controller) push(n *scene.Node) {
	if err := c.sess.Graph.Push(n); err != nil {
		c.log.Warn("push failed", zap.Error(err))
	}
}

func (c *Controller) pushCarried() {
	if c.carried != nil {
		c.push(c.carried)
	}
}
