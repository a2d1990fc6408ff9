// Package config handles game configuration loading and management.
package config

import (
	"fmt"
)

// Config holds all game settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Audio    AudioConfig    `yaml:"audio"`
	Game     GameConfig     `yaml:"game"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FPSLimit   int     `yaml:"fps_limit"` // 0 disables the frame limiter
	FOV        float32 `yaml:"fov"`       // degrees
}

// AudioConfig holds audio settings and sound cue files.
type AudioConfig struct {
	MasterVolume float64 `yaml:"master_volume"`
	SFXVolume    float64 `yaml:"sfx_volume"`
	Muted        bool    `yaml:"muted"`
	PickupCue    string  `yaml:"pickup_cue"`
	DropCue      string  `yaml:"drop_cue"`
	DescendCue   string  `yaml:"descend_cue"`
	CollideCue   string  `yaml:"collide_cue"`
}

// GameConfig holds gameplay tuning.
type GameConfig struct {
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	MoveSpeed        float32 `yaml:"move_speed"`
	ClawSpeed        float32 `yaml:"claw_speed"`
	DescendSpeed     float32 `yaml:"descend_speed"`
	AscendSpeed      float32 `yaml:"ascend_speed"`
	TriggerRadius    float32 `yaml:"trigger_radius"`
	BirbRadius       float32 `yaml:"birb_radius"`
	CaptureDistance  float32 `yaml:"capture_distance"`
	DropOffset       float32 `yaml:"drop_offset"`
	MaxDescent       float32 `yaml:"max_descent"` // 0 leaves collision as the only floor
	InteractDistance float32 `yaml:"interact_distance"`
	BirbCount        int     `yaml:"birb_count"`
}

// PhysicsConfig holds simulation settings.
type PhysicsConfig struct {
	Gravity    [3]float32 `yaml:"gravity"`
	MaxSubstep float32    `yaml:"max_substep"` // seconds
}

// AssetsConfig holds model and texture paths.
type AssetsConfig struct {
	Claw        string `yaml:"claw"`
	ClawMachine string `yaml:"claw_machine"`
	Ground      string `yaml:"ground"`
	Birb        string `yaml:"birb"`
	Logo        string `yaml:"logo"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   60,
			FOV:        45,
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			SFXVolume:    0.8,
			PickupCue:    "res/sfx/pickup.wav",
			DropCue:      "res/sfx/drop.wav",
			DescendCue:   "res/sfx/descend.wav",
			CollideCue:   "res/sfx/collide.wav",
		},
		Game: GameConfig{
			MouseSensitivity: 0.1,
			MoveSpeed:        5.0,
			ClawSpeed:        1.5,
			DescendSpeed:     1.0,
			AscendSpeed:      1.0,
			TriggerRadius:    0.15,
			BirbRadius:       0.2,
			CaptureDistance:  1.5,
			DropOffset:       0.1,
			MaxDescent:       5.0,
			InteractDistance: 5.0,
			BirbCount:        6,
		},
		Physics: PhysicsConfig{
			Gravity:    [3]float32{0, -9.81, 0},
			MaxSubstep: 1.0 / 120.0,
		},
		Assets: AssetsConfig{
			Claw:        "res/claw.glb",
			ClawMachine: "res/claw-machine.glb",
			Ground:      "res/ground.glb",
			Birb:        "res/birb.glb",
			Logo:        "res/logo.png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that would break the simulation.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Graphics.FPSLimit < 0 {
		return fmt.Errorf("graphics: fps_limit must be >= 0, got %d", c.Graphics.FPSLimit)
	}
	speeds := map[string]float32{
		"move_speed":    c.Game.MoveSpeed,
		"claw_speed":    c.Game.ClawSpeed,
		"descend_speed": c.Game.DescendSpeed,
		"ascend_speed":  c.Game.AscendSpeed,
	}
	for name, v := range speeds {
		if v <= 0 {
			return fmt.Errorf("game: %s must be positive, got %g", name, v)
		}
	}
	if c.Game.TriggerRadius < 0 || c.Game.BirbRadius < 0 || c.Game.CaptureDistance < 0 {
		return fmt.Errorf("game: radii and capture distance must be >= 0")
	}
	if c.Game.MaxDescent < 0 {
		return fmt.Errorf("game: max_descent must be >= 0, got %g", c.Game.MaxDescent)
	}
	if c.Physics.MaxSubstep <= 0 {
		return fmt.Errorf("physics: max_substep must be positive, got %g", c.Physics.MaxSubstep)
	}
	return nil
}
