// Package session holds the state of one play session: the fixed roster of
// scene nodes, the physics world they live in, the collected set and score.
package session

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/engine/model"
	"github.com/Faultbox/claw-machine/internal/logger"
	"github.com/Faultbox/claw-machine/internal/physics"
	"github.com/Faultbox/claw-machine/internal/scene"
)

// Models are the meshes the roster is built from. Any of them may be nil;
// the node is then invisible and falls back to a primitive collider.
type Models struct {
	Claw    *model.Model
	Machine *model.Model
	Ground  *model.Model
	Birb    *model.Model
}

// Options tunes roster construction.
type Options struct {
	BirbCount  int
	BirbRadius float32
	Gravity    mgl32.Vec3
	MaxSubstep float32
}

// Session is the context passed to the claw controller and the pickup detector.
type Session struct {
	Graph *scene.Graph
	World *physics.World

	Claw    *scene.Node
	Machine *scene.Node
	Ground  *scene.Node
	Birbs   []*scene.Node
	Trigger *scene.Node

	BirbRadius float32

	collected map[*scene.Node]bool
	score     int
	rounds    int
	log       *zap.Logger
}

// New builds the roster: ground, claw machine, claw and birbs.
func New(models Models, opts Options) (*Session, error) {
	world := physics.NewWorld(opts.Gravity)
	if opts.MaxSubstep > 0 {
		world.MaxSubstep = opts.MaxSubstep
	}

	s := &Session{
		Graph:      scene.NewGraph(world),
		World:      world,
		BirbRadius: opts.BirbRadius,
		collected:  make(map[*scene.Node]bool),
		log:        logger.Named("session"),
	}

	var err error
	if s.Ground, err = s.spawn("ground", models.Ground, GroundPosition, mgl32.Vec3{1, 1, 1}, physics.Static); err != nil {
		return nil, err
	}
	_ = s.Graph.AddBoxCollision(s.Ground, GroundHalfExtents)

	if s.Machine, err = s.spawn("claw-machine", models.Machine, MachinePosition, MachineScale, physics.Static); err != nil {
		return nil, err
	}
	// Missing model is logged inside; the machine then has no collider.
	_ = s.Graph.AddMeshCollision(s.Machine)

	if s.Claw, err = s.spawn("claw", models.Claw, ClawStart, ClawScale, physics.Kinematic); err != nil {
		return nil, err
	}
	if models.Claw != nil {
		_ = s.Graph.AddBoundsCollision(s.Claw)
	} else {
		_ = s.Graph.AddBoxCollision(s.Claw, ClawHalfExtents)
	}

	for i := range opts.BirbCount {
		b, err := s.spawn(fmt.Sprintf("birb-%d", i), models.Birb, birbSpawn(i, opts.BirbCount), BirbScale, physics.Dynamic)
		if err != nil {
			return nil, err
		}
		_ = s.Graph.AddSphereCollision(b, opts.BirbRadius)
		s.Birbs = append(s.Birbs, b)
	}

	s.log.Info("session ready", zap.Int("birbs", len(s.Birbs)))
	return s, nil
}

// spawn creates a root node, sizes it and gives it a body.
func (s *Session) spawn(name string, m *model.Model, pos, scale mgl32.Vec3, t physics.BodyType) (*scene.Node, error) {
	n := scene.NewNode(name, m)
	n.Scale(scale)
	n.Transform().TranslateWorld(pos)
	s.Graph.AddRoot(n)
	if _, err := s.Graph.CreateBody(n, t); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", name, err)
	}
	return n, nil
}

// Roster returns the birbs in roster order.
func (s *Session) Roster() []*scene.Node { return s.Birbs }

// Eligible reports whether b can be picked up: not collected, still in the
// scene and free in the simulation.
func (s *Session) Eligible(b *scene.Node) bool {
	if s.collected[b] || b.Body() == nil || !s.Graph.Contains(b) {
		return false
	}
	return b.Body().Type() == physics.Dynamic && s.Graph.Parent(b) == nil
}

// BodyPosition returns the physics-reported position of n, or its scene
// position when it has no body.
func (s *Session) BodyPosition(n *scene.Node) mgl32.Vec3 {
	if b := n.Body(); b != nil {
		return b.Transform().Position
	}
	return s.Graph.WorldPosition(n)
}

// MountTrigger attaches the pickup trigger under the claw. It is a no-op
// when the trigger is already mounted.
func (s *Session) MountTrigger() {
	if s.Trigger != nil {
		return
	}
	s.Trigger = scene.NewNode("trigger", nil)
	s.Trigger.Transform().Translate(TriggerOffset)
	if err := s.Graph.AddChild(s.Claw, s.Trigger); err != nil {
		s.log.Error("mount trigger", zap.Error(err))
		s.Trigger = nil
	}
}

// UnmountTrigger removes the trigger.
func (s *Session) UnmountTrigger() {
	if s.Trigger == nil {
		return
	}
	s.Graph.Destroy(s.Trigger)
	s.Trigger = nil
}

// TriggerPosition returns the trigger's world position. ok is false when
// no trigger is mounted.
func (s *Session) TriggerPosition() (pos mgl32.Vec3, ok bool) {
	if s.Trigger == nil {
		return mgl32.Vec3{}, false
	}
	return s.Graph.WorldPosition(s.Trigger), true
}

// Collect removes b from the scene and scores it. It reports false for
// birbs that are not eligible.
func (s *Session) Collect(b *scene.Node) bool {
	if !s.Eligible(b) {
		return false
	}
	s.collected[b] = true
	s.Graph.Destroy(b)
	s.score++
	s.log.Info("birb collected", zap.String("birb", b.Name()), zap.Int("score", s.score))
	return true
}

// Collected reports whether b has been collected.
func (s *Session) Collected(b *scene.Node) bool { return s.collected[b] }

// Score returns the number of collected birbs.
func (s *Session) Score() int { return s.score }

// EndRound records a finished claw round.
func (s *Session) EndRound() {
	s.rounds++
	s.log.Info("round over", zap.Int("rounds", s.rounds), zap.Int("score", s.score))
}

// Rounds returns the number of finished claw rounds.
func (s *Session) Rounds() int { return s.rounds }

// StepPhysics advances the world and pulls every free dynamic body back
// into its node.
func (s *Session) StepPhysics(dt float32) {
	s.World.Step(dt)
	s.Graph.PullDynamic()
}

// OverlapsStructure reports whether n's body touches the machine or, when
// withGround is set, the ground.
func (s *Session) OverlapsStructure(n *scene.Node, withGround bool) bool {
	b := n.Body()
	if b == nil {
		return false
	}
	if s.World.TestOverlap(b, s.Machine.Body()) {
		return true
	}
	return withGround && s.World.TestOverlap(b, s.Ground.Body())
}

// Close destroys every node and body.
func (s *Session) Close() {
	s.Graph.Clear()
	s.Birbs = nil
	s.Trigger = nil
}
