package states

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/claw-machine/internal/engine/input"
	"github.com/Faultbox/claw-machine/internal/game/claw"
)

// ClawState operates the claw while the camera orbits the machine.
type ClawState struct {
	ctx     *Context
	manager *Manager
}

// NewClawState creates the claw operating state.
func NewClawState(ctx *Context, m *Manager) *ClawState {
	return &ClawState{ctx: ctx, manager: m}
}

// Name implements State.
func (s *ClawState) Name() string { return ClawMode }

// Enter turns the camera to the machine.
func (s *ClawState) Enter() error {
	s.ctx.Camera.OrbitAroundTarget(s.ctx.MachineTarget(), 0, 0)
	s.ctx.log.Debug("entering claw state")
	return nil
}

// Exit implements State.
func (s *ClawState) Exit() error { return nil }

// Update implements State.
func (s *ClawState) Update(dt float32, in input.Source) error {
	c := s.ctx.Claw
	cam := s.ctx.Camera

	if (in.Pressed(input.KeyEscape) || in.Pressed(input.KeyTab)) && c.Phase() == claw.Idle {
		return s.manager.ChangeTo(Exploring)
	}

	dx, dy := in.MouseDelta()
	if dx != 0 || dy != 0 {
		cam.OrbitAroundTarget(s.ctx.MachineTarget(), -dx*cam.Sensitivity, dy*cam.Sensitivity)
	}
	if scroll := in.Scroll(); scroll != 0 {
		cam.Zoom(scroll)
	}

	if dir := s.moveDirection(in); dir.Len() > 0 {
		c.Move(dir, dt)
	}
	if in.Pressed(input.KeySpace) {
		c.Descend()
	}
	if in.Pressed(input.KeyF) {
		c.Drop()
	}

	c.Update(dt)
	s.ctx.dispatch(c.Events())
	return nil
}

// moveDirection maps WASD and the arrow keys to a horizontal direction
// relative to where the camera faces.
func (s *ClawState) moveDirection(in input.Source) mgl32.Vec3 {
	forward := mgl32.Clamp(input.Axis(in, input.KeyS, input.KeyW)+input.Axis(in, input.KeyDown, input.KeyUp), -1, 1)
	right := mgl32.Clamp(input.Axis(in, input.KeyA, input.KeyD)+input.Axis(in, input.KeyLeft, input.KeyRight), -1, 1)
	if forward == 0 && right == 0 {
		return mgl32.Vec3{}
	}

	front := s.ctx.Camera.Front()
	flat := mgl32.Vec3{front.X(), 0, front.Z()}
	if flat.Len() > 0 {
		flat = flat.Normalize()
	}
	side := s.ctx.Camera.Right()
	side[1] = 0
	return flat.Mul(forward).Add(side.Mul(right))
}

// PostPhysics checks the trigger for a birb to grab.
func (s *ClawState) PostPhysics() error {
	s.ctx.Claw.CheckPickup()
	s.ctx.dispatch(s.ctx.Claw.Events())
	return nil
}
