package states

import (
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/engine/audio"
	"github.com/Faultbox/claw-machine/internal/engine/input"
)

// ExploringState lets the player walk around, look at the machine and
// collect birbs lying within reach.
type ExploringState struct {
	ctx     *Context
	manager *Manager
}

// NewExploringState creates the walking state.
func NewExploringState(ctx *Context, m *Manager) *ExploringState {
	return &ExploringState{ctx: ctx, manager: m}
}

// Name implements State.
func (s *ExploringState) Name() string { return Exploring }

// Enter implements State.
func (s *ExploringState) Enter() error {
	s.ctx.log.Debug("entering exploring state")
	return nil
}

// Exit implements State.
func (s *ExploringState) Exit() error { return nil }

// Update implements State.
func (s *ExploringState) Update(dt float32, in input.Source) error {
	cam := s.ctx.Camera

	if in.Pressed(input.KeyEscape) {
		s.ctx.RequestQuit()
		return nil
	}

	dx, dy := in.MouseDelta()
	if dx != 0 || dy != 0 {
		cam.Look(dx, dy)
	}
	if scroll := in.Scroll(); scroll != 0 {
		cam.Zoom(scroll)
	}
	if in.Pressed(input.KeyC) {
		cam.ToggleCrouch()
	}
	cam.Move(input.Axis(in, input.KeyS, input.KeyW), input.Axis(in, input.KeyA, input.KeyD), dt)

	if in.Pressed(input.KeyF) {
		s.collect()
	}
	if in.Pressed(input.KeyE) && s.ctx.LookingAtMachine() {
		return s.manager.ChangeTo(ClawMode)
	}
	return nil
}

// collect picks up the first free birb within capture distance of the
// player.
func (s *ExploringState) collect() {
	sess := s.ctx.Session
	b := s.ctx.Detector.Direct(s.ctx.Camera.Position, sess)
	if b == nil || !sess.Collect(b) {
		return
	}
	s.ctx.play(audio.CuePickup)
	s.ctx.log.Info("prize collected", zap.String("birb", b.Name()), zap.Int("score", sess.Score()))
}

// PostPhysics implements State.
func (s *ExploringState) PostPhysics() error { return nil }
