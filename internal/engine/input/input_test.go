package input

import "testing"

func TestPressedLastsOneFrame(t *testing.T) {
	s := New()
	s.KeyDown(KeySpace)

	if !s.Down(KeySpace) || !s.Pressed(KeySpace) {
		t.Fatal("space should be down and pressed")
	}

	s.BeginFrame()
	if !s.Down(KeySpace) {
		t.Error("held key released by BeginFrame")
	}
	if s.Pressed(KeySpace) {
		t.Error("pressed should only last one frame")
	}

	// auto-repeat
	s.KeyDown(KeySpace)
	if s.Pressed(KeySpace) {
		t.Error("repeat should not count as a press")
	}

	s.KeyUp(KeySpace)
	if s.Down(KeySpace) || !s.Released(KeySpace) {
		t.Error("space should be released")
	}
	s.BeginFrame()
	if s.Released(KeySpace) {
		t.Error("released should only last one frame")
	}
}

func TestMouseAccumulates(t *testing.T) {
	s := New()
	s.MouseMove(2, -1)
	s.MouseMove(3, 4)
	s.Wheel(1)
	s.Wheel(0.5)

	dx, dy := s.MouseDelta()
	if dx != 5 || dy != 3 {
		t.Errorf("delta = (%f, %f), want (5, 3)", dx, dy)
	}
	if s.Scroll() != 1.5 {
		t.Errorf("scroll = %f, want 1.5", s.Scroll())
	}

	s.BeginFrame()
	dx, dy = s.MouseDelta()
	if dx != 0 || dy != 0 || s.Scroll() != 0 {
		t.Error("mouse state not cleared")
	}
}

func TestUnknownKeysIgnored(t *testing.T) {
	s := New()
	for _, k := range []Key{KeyUnknown, Key(-3), keyCount, Key(100)} {
		s.KeyDown(k)
		if s.Down(k) || s.Pressed(k) {
			t.Errorf("key %d should be ignored", k)
		}
		if k.String() != "unknown" {
			t.Errorf("key %d name = %q", k, k.String())
		}
	}
}

func TestAxis(t *testing.T) {
	tests := []struct {
		name string
		down []Key
		want float32
	}{
		{"none", nil, 0},
		{"negative", []Key{KeyA}, -1},
		{"positive", []Key{KeyD}, 1},
		{"both", []Key{KeyA, KeyD}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			for _, k := range tt.down {
				s.KeyDown(k)
			}
			if got := Axis(s, KeyA, KeyD); got != tt.want {
				t.Errorf("Axis = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestResizeAndQuit(t *testing.T) {
	s := New()
	if _, _, ok := s.Resized(); ok {
		t.Error("no resize yet")
	}
	s.Resize(800, 600)
	if w, h, ok := s.Resized(); !ok || w != 800 || h != 600 {
		t.Errorf("Resized = %d, %d, %v", w, h, ok)
	}
	s.BeginFrame()
	if _, _, ok := s.Resized(); ok {
		t.Error("resize should only last one frame")
	}

	s.RequestQuit()
	s.BeginFrame()
	if !s.Quit() {
		t.Error("quit should persist")
	}
}
