package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

func TestVolumeExponent(t *testing.T) {
	tests := []struct {
		vol  float64
		want float64
	}{
		{1.0, 0},
		{0.5, -1},
		{0.25, -2},
		{0.0, -100},
		{-1, -100},
	}

	for _, tt := range tests {
		if got := volumeExponent(tt.vol); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("volumeExponent(%f) = %f, want %f", tt.vol, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}

	for _, tt := range tests {
		got := clamp(tt.v, tt.lo, tt.hi)
		if got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestNewManager(t *testing.T) {
	m := New()
	if m.GetMasterVolume() != 1.0 {
		t.Errorf("default master volume = %f, want 1.0", m.GetMasterVolume())
	}
	if m.GetSFXVolume() != 1.0 {
		t.Errorf("default SFX volume = %f, want 1.0", m.GetSFXVolume())
	}
	if m.IsInitialized() {
		t.Error("speaker should not be open before Init")
	}
}

func TestEffectiveVolume(t *testing.T) {
	m := New()
	m.SetMasterVolume(0.5)
	m.SetSFXVolume(0.5)
	if got := m.effectiveVolume(); got != 0.25 {
		t.Errorf("effective volume = %f, want 0.25", got)
	}

	m.SetMasterVolume(2.0)
	if m.GetMasterVolume() != 1.0 {
		t.Errorf("master volume = %f, want 1.0 (clamped)", m.GetMasterVolume())
	}

	m.SetMuted(true)
	if m.effectiveVolume() != 0 {
		t.Error("muted manager should have zero volume")
	}
}

func writeWAV(t *testing.T, rate beep.SampleRate, samples int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cue.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Silence(samples), format); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCue(t *testing.T) {
	m := New()

	if err := m.LoadCue(CuePickup, writeWAV(t, DefaultSampleRate, 441)); err != nil {
		t.Fatalf("LoadCue: %v", err)
	}
	if !m.HasCue(CuePickup) {
		t.Fatal("cue not registered")
	}
	if n := m.cues[CuePickup].Len(); n != 441 {
		t.Errorf("cue length = %d, want 441", n)
	}

	// resampled to the speaker rate
	if err := m.LoadCue(CueDrop, writeWAV(t, 22050, 441)); err != nil {
		t.Fatalf("LoadCue: %v", err)
	}
	if n := m.cues[CueDrop].Len(); n < 800 || n > 900 {
		t.Errorf("resampled length = %d, want about 882", n)
	}
}

func TestLoadCuesSkipsFailures(t *testing.T) {
	m := New()
	n := m.LoadCues(map[Cue]string{
		CuePickup:  writeWAV(t, DefaultSampleRate, 100),
		CueDrop:    filepath.Join(t.TempDir(), "missing.wav"),
		CueDescend: "",
	})
	if n != 1 {
		t.Errorf("loaded = %d, want 1", n)
	}
	if m.HasCue(CueDrop) || m.HasCue(CueDescend) {
		t.Error("failed cues should not be registered")
	}
}

func TestPlayWithoutSpeaker(t *testing.T) {
	m := New()
	if err := m.LoadCue(CueCollide, writeWAV(t, DefaultSampleRate, 100)); err != nil {
		t.Fatal(err)
	}
	if m.Play(CueCollide) {
		t.Error("play should be a no-op before Init")
	}
	if m.Play(Cue("nope")) {
		t.Error("unknown cue should not play")
	}
}
