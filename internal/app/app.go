// Package app owns the window, the GL renderer and the speaker, and runs the
// main loop around a game.Game.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/config"
	"github.com/Faultbox/claw-machine/internal/engine/audio"
	"github.com/Faultbox/claw-machine/internal/engine/debug"
	"github.com/Faultbox/claw-machine/internal/engine/input"
	"github.com/Faultbox/claw-machine/internal/engine/model"
	"github.com/Faultbox/claw-machine/internal/engine/renderer"
	"github.com/Faultbox/claw-machine/internal/engine/shader"
	"github.com/Faultbox/claw-machine/internal/engine/ui"
	"github.com/Faultbox/claw-machine/internal/engine/window"
	"github.com/Faultbox/claw-machine/internal/game"
	"github.com/Faultbox/claw-machine/internal/game/session"
	"github.com/Faultbox/claw-machine/internal/logger"
)

// Title is the window title prefix.
const Title = "Claw Machine"

// App is the running program.
type App struct {
	cfg      *config.Config
	window   *window.Window
	renderer *renderer.Renderer
	program  *shader.Program
	logo     *ui.Logo
	overlay  *debug.Overlay
	shots    *debug.Screenshots
	audio    *audio.Manager
	game     *game.Game
	limiter  *game.Limiter

	showColliders bool
	score         int
	log           *zap.Logger
}

// New opens the window and loads every asset. Missing models and sounds are
// logged and skipped; a missing window or GL context is fatal.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:     cfg,
		limiter: game.NewLimiter(cfg.Graphics.FPSLimit),
		shots:   debug.NewScreenshots("screenshots", "clawmachine"),
		score:   -1,
		log:     logger.Named("app"),
	}
	a.log.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	var err error
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// the renderer needs the context created by the window
	width, height := a.window.GetSize()
	a.renderer, err = renderer.New(width, height)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.program, err = shader.Load(shader.Model)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load model shader: %w", err)
	}

	if cfg.Assets.Logo != "" {
		if a.logo, err = ui.NewLogo(cfg.Assets.Logo, width, height); err != nil {
			a.log.Warn("logo unavailable", zap.String("path", cfg.Assets.Logo), zap.Error(err))
			a.logo = nil
		}
	}

	if a.overlay, err = debug.NewOverlay(); err != nil {
		a.log.Warn("collider overlay unavailable", zap.Error(err))
		a.overlay = nil
	}

	a.initAudio()

	a.game, err = game.New(cfg, a.loadModels(), a.audio)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.window.CaptureMouse(true)
	a.log.Info("initialized")
	return a, nil
}

func (a *App) loadModels() session.Models {
	lib := model.NewLibrary()
	get := func(path string) *model.Model {
		if path == "" {
			return nil
		}
		m, err := lib.Get(path)
		if err != nil {
			a.log.Warn("model unavailable", zap.String("path", path), zap.Error(err))
			return nil
		}
		return m
	}
	return session.Models{
		Claw:    get(a.cfg.Assets.Claw),
		Machine: get(a.cfg.Assets.ClawMachine),
		Ground:  get(a.cfg.Assets.Ground),
		Birb:    get(a.cfg.Assets.Birb),
	}
}

func (a *App) initAudio() {
	a.audio = audio.New()
	if err := a.audio.Init(); err != nil {
		a.log.Warn("audio disabled", zap.Error(err))
		return
	}
	c := a.cfg.Audio
	a.audio.SetMasterVolume(c.MasterVolume)
	a.audio.SetSFXVolume(c.SFXVolume)
	a.audio.SetMuted(c.Muted)
	n := a.audio.LoadCues(map[audio.Cue]string{
		audio.CuePickup:  c.PickupCue,
		audio.CueDrop:    c.DropCue,
		audio.CueDescend: c.DescendCue,
		audio.CueCollide: c.CollideCue,
	})
	a.log.Info("sound cues loaded", zap.Int("count", n))
}

// Run loops until the window closes or the player quits.
func (a *App) Run() error {
	a.log.Info("starting game loop")
	last := time.Now()
	frames := 0
	fpsTimer := last

	for !a.game.Quit() {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		in := a.game.Input
		in.BeginFrame()
		a.window.PollEvents(in)
		if w, h, ok := in.Resized(); ok {
			a.renderer.Resize(w, h)
			if a.logo != nil {
				a.logo.Resize(w, h)
			}
		}

		if in.Pressed(input.KeyQ) {
			a.showColliders = !a.showColliders
		}

		if err := a.game.Frame(dt); err != nil {
			return fmt.Errorf("frame error: %w", err)
		}

		a.render()
		if in.Pressed(input.KeyP) {
			a.screenshot()
		}
		a.window.SwapBuffers()
		a.updateTitle()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frames), zap.Float32("dt_ms", dt*1000))
			frames = 0
			fpsTimer = time.Now()
		}

		if d := a.limiter.Delay(time.Now()); d > 0 {
			time.Sleep(d)
		}
	}
	return nil
}

func (a *App) render() {
	cam := a.game.Camera
	a.renderer.Begin()
	view, proj := cam.ViewMatrix(), cam.ProjectionMatrix(a.renderer.Aspect())
	a.renderer.SetCamera(a.program, view, proj, cam.Position, renderer.DefaultLight)
	a.renderer.DrawGraph(a.game.Session.Graph, a.program, cam.Position)
	if a.showColliders && a.overlay != nil {
		var extra []debug.Batch
		if m, ok := a.dropMarker(); ok {
			extra = append(extra, m)
		}
		a.overlay.Draw(a.game.Session.World, proj.Mul4(view), extra...)
	}
	if a.logo != nil {
		a.logo.Draw()
	}
}

// dropMarker marks the ground point below the claw.
func (a *App) dropMarker() (debug.Batch, bool) {
	s := a.game.Session
	floor := session.GroundPosition.Y() + session.GroundHalfExtents.Y()
	return debug.DropMarker(s.Graph.WorldPosition(s.Claw), floor, 0.15)
}

func (a *App) screenshot() {
	w, h := a.renderer.Size()
	path, err := a.shots.SavePixels(debug.ReadPixels(w, h), w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

func (a *App) updateTitle() {
	score := a.game.Session.Score()
	if score == a.score {
		return
	}
	a.score = score
	a.window.SetTitle(fmt.Sprintf("%s - %d collected", Title, score))
}

// Close releases everything New acquired.
func (a *App) Close() {
	a.log.Info("closing")
	if a.game != nil {
		a.game.Close()
	}
	if a.audio != nil {
		a.audio.Close()
	}
	if a.logo != nil {
		a.logo.Close()
	}
	if a.overlay != nil {
		a.overlay.Close()
	}
	if a.program != nil {
		a.program.Delete()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
