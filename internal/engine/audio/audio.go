// Package audio plays short sound cues for game events.
package audio

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/logger"
)

// DefaultSampleRate is the speaker sample rate. Cues are resampled to it
// when loaded.
const DefaultSampleRate = beep.SampleRate(44100)

// Cue names a sound.
type Cue string

const (
	CuePickup  Cue = "pickup"
	CueDrop    Cue = "drop"
	CueDescend Cue = "descend"
	CueCollide Cue = "collide"
)

// Manager owns the speaker and the decoded cues.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	// 0.0 to 1.0
	masterVolume float64
	sfxVolume    float64
	muted        bool

	cues  map[Cue]*beep.Buffer
	mixer *beep.Mixer
	log   *zap.Logger
}

// New creates a manager. Cues can be loaded before Init.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		masterVolume: 1.0,
		sfxVolume:    1.0,
		cues:         make(map[Cue]*beep.Buffer),
		mixer:        &beep.Mixer{},
		log:          logger.Named("audio"),
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		speaker.Clear()
	}
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the cue volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolume = clamp(vol, 0, 1)
}

// SetMuted silences every cue.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetSFXVolume returns the cue volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolume
}

// effectiveVolume is the gain applied to cues.
func (m *Manager) effectiveVolume() float64 {
	if m.muted {
		return 0
	}
	return m.masterVolume * m.sfxVolume
}

// volumeExponent converts a 0-1 gain to a base 2 exponent for
// effects.Volume.
func volumeExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LoadCue decodes the WAV file at path into memory under name.
func (m *Manager) LoadCue(name Cue, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cue %s: %w", name, err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode cue %s: %w", name, err)
	}
	defer streamer.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	var s beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		s = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}
	buf := beep.NewBuffer(beep.Format{
		SampleRate:  m.sampleRate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	buf.Append(s)
	m.cues[name] = buf

	m.log.Debug("cue loaded", zap.String("cue", string(name)), zap.Int("samples", buf.Len()))
	return nil
}

// LoadCues loads every cue in paths. Failures are logged and skipped.
func (m *Manager) LoadCues(paths map[Cue]string) int {
	loaded := 0
	for name, path := range paths {
		if path == "" {
			continue
		}
		if err := m.LoadCue(name, path); err != nil {
			m.log.Warn("cue not loaded", zap.String("cue", string(name)), zap.Error(err))
			continue
		}
		loaded++
	}
	return loaded
}

// HasCue reports whether name is loaded.
func (m *Manager) HasCue(name Cue) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cues[name]
	return ok
}

// Play starts the cue. It reports false when nothing was played: speaker
// closed, cue unknown or volume at zero.
func (m *Manager) Play(name Cue) bool {
	m.mu.RLock()
	initialized := m.initialized
	vol := m.effectiveVolume()
	buf, ok := m.cues[name]
	m.mu.RUnlock()

	if !initialized || !ok || vol <= 0 {
		return false
	}

	v := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeExponent(vol),
	}
	speaker.Lock()
	m.mixer.Add(v)
	speaker.Unlock()
	return true
}
