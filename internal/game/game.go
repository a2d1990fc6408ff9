// Package game wires the session, the claw and the player camera into the
// per-frame update.
package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/config"
	"github.com/Faultbox/claw-machine/internal/engine/camera"
	"github.com/Faultbox/claw-machine/internal/engine/input"
	"github.com/Faultbox/claw-machine/internal/game/claw"
	"github.com/Faultbox/claw-machine/internal/game/pickup"
	"github.com/Faultbox/claw-machine/internal/game/session"
	"github.com/Faultbox/claw-machine/internal/game/states"
	"github.com/Faultbox/claw-machine/internal/logger"
)

// MaxFrameTime caps dt so a stall does not tunnel the claw through the floor.
const MaxFrameTime = 0.25

// PlayerStart is where the player stands when the game begins.
var PlayerStart = mgl32.Vec3{0, 0, 4}

// Game is the simulation side of the program. It has no window and can be
// driven from tests.
type Game struct {
	Session *session.Session
	Claw    *claw.Controller
	Camera  *camera.Camera
	States  *states.Manager
	Input   *input.State

	ctx *states.Context
	log *zap.Logger
}

// New builds a session from models and starts in the exploring state.
// cues may be nil.
func New(cfg *config.Config, models session.Models, cues states.CuePlayer) (*Game, error) {
	g := &Game{
		Input: input.New(),
		log:   logger.Named("game"),
	}

	var err error
	g.Session, err = session.New(models, session.Options{
		BirbCount:  cfg.Game.BirbCount,
		BirbRadius: cfg.Game.BirbRadius,
		Gravity:    mgl32.Vec3(cfg.Physics.Gravity),
		MaxSubstep: cfg.Physics.MaxSubstep,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	g.Claw = claw.New(g.Session, claw.Config{
		MoveSpeed:     cfg.Game.ClawSpeed,
		DescendSpeed:  cfg.Game.DescendSpeed,
		AscendSpeed:   cfg.Game.AscendSpeed,
		MaxDescent:    cfg.Game.MaxDescent,
		DropOffset:    cfg.Game.DropOffset,
		TriggerRadius: cfg.Game.TriggerRadius,
		BirbRadius:    cfg.Game.BirbRadius,
	})

	g.Camera = camera.New(PlayerStart)
	if cfg.Graphics.FOV > 0 {
		g.Camera.FOV = cfg.Graphics.FOV
		g.Camera.MaxFOV = cfg.Graphics.FOV
	}
	g.Camera.MoveSpeed = cfg.Game.MoveSpeed
	g.Camera.Sensitivity = cfg.Game.MouseSensitivity

	detector := pickup.Detector{
		TriggerRadius:   cfg.Game.TriggerRadius,
		ObjectRadius:    cfg.Game.BirbRadius,
		CaptureDistance: cfg.Game.CaptureDistance,
	}
	g.ctx = states.NewContext(g.Session, g.Claw, g.Camera, detector, cues, cfg.Game.InteractDistance)

	g.States = states.NewManager()
	g.States.Register(states.NewExploringState(g.ctx, g.States))
	g.States.Register(states.NewClawState(g.ctx, g.States))
	if err := g.States.ChangeTo(states.Exploring); err != nil {
		g.Session.Close()
		return nil, err
	}

	g.log.Info("game initialized", zap.Int("birbs", len(g.Session.Birbs)))
	return g, nil
}

// Frame runs one tick: input and claw motion, the physics step with the
// pull of dynamic bodies, then pickup detection. The caller fills Input
// before calling it.
func (g *Game) Frame(dt float32) error {
	if dt > MaxFrameTime {
		dt = MaxFrameTime
	}
	if err := g.States.Update(dt, g.Input); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	g.Session.StepPhysics(dt)
	if err := g.States.PostPhysics(); err != nil {
		return fmt.Errorf("post physics: %w", err)
	}
	return nil
}

// Quit reports whether the window closed or a state asked to stop.
func (g *Game) Quit() bool {
	return g.Input.Quit() || g.ctx.QuitRequested()
}

// Close destroys the session.
func (g *Game) Close() {
	g.log.Info("closing game")
	g.Session.Close()
}
