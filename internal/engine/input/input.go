// Package input holds per-frame keyboard and mouse state. The window
// feeds it from SDL events; game code only queries it.
package input

// Key identifies a key the game reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyC
	KeyE
	KeyF
	KeyQ
	KeyP
	KeyTab
	KeyEscape
	keyCount
)

var keyNames = [...]string{
	KeyUnknown: "unknown",
	KeyW:       "W",
	KeyA:       "A",
	KeyS:       "S",
	KeyD:       "D",
	KeyUp:      "Up",
	KeyDown:    "Down",
	KeyLeft:    "Left",
	KeyRight:   "Right",
	KeySpace:   "Space",
	KeyC:       "C",
	KeyE:       "E",
	KeyF:       "F",
	KeyQ:       "Q",
	KeyP:       "P",
	KeyTab:     "Tab",
	KeyEscape:  "Escape",
}

// String returns the key name.
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// Source is the query side of the input state.
type Source interface {
	// Down reports whether k is held.
	Down(k Key) bool
	// Pressed reports whether k went down this frame.
	Pressed(k Key) bool
	// Released reports whether k went up this frame.
	Released(k Key) bool
	// MouseDelta returns relative mouse motion accumulated this frame.
	MouseDelta() (dx, dy float32)
	// Scroll returns the wheel delta accumulated this frame.
	Scroll() float32
}

// State accumulates events for one frame.
type State struct {
	down     [keyCount]bool
	pressed  [keyCount]bool
	released [keyCount]bool

	dx, dy float32
	scroll float32

	quit          bool
	resized       bool
	width, height int
}

// New returns an empty state.
func New() *State {
	return &State{}
}

// BeginFrame clears everything that only lasts one frame. Held keys stay.
func (s *State) BeginFrame() {
	s.pressed = [keyCount]bool{}
	s.released = [keyCount]bool{}
	s.dx, s.dy = 0, 0
	s.scroll = 0
	s.resized = false
}

func valid(k Key) bool { return k > KeyUnknown && k < keyCount }

// KeyDown records a key press. Auto-repeat does not count as a new press.
func (s *State) KeyDown(k Key) {
	if !valid(k) {
		return
	}
	if !s.down[k] {
		s.pressed[k] = true
	}
	s.down[k] = true
}

// KeyUp records a key release.
func (s *State) KeyUp(k Key) {
	if !valid(k) {
		return
	}
	if s.down[k] {
		s.released[k] = true
	}
	s.down[k] = false
}

// MouseMove adds relative mouse motion.
func (s *State) MouseMove(dx, dy float32) {
	s.dx += dx
	s.dy += dy
}

// Wheel adds scroll wheel motion.
func (s *State) Wheel(delta float32) {
	s.scroll += delta
}

// RequestQuit marks the window as closing.
func (s *State) RequestQuit() { s.quit = true }

// Resize records a new drawable size.
func (s *State) Resize(width, height int) {
	s.resized = true
	s.width, s.height = width, height
}

// Down implements Source.
func (s *State) Down(k Key) bool { return valid(k) && s.down[k] }

// Pressed implements Source.
func (s *State) Pressed(k Key) bool { return valid(k) && s.pressed[k] }

// Released implements Source.
func (s *State) Released(k Key) bool { return valid(k) && s.released[k] }

// MouseDelta implements Source.
func (s *State) MouseDelta() (dx, dy float32) { return s.dx, s.dy }

// Scroll implements Source.
func (s *State) Scroll() float32 { return s.scroll }

// Quit reports whether a quit was requested.
func (s *State) Quit() bool { return s.quit }

// Resized returns the new size when the window was resized this frame.
func (s *State) Resized() (width, height int, ok bool) {
	return s.width, s.height, s.resized
}

// Axis returns -1, 0 or 1 from a pair of held keys.
func Axis(src Source, negative, positive Key) float32 {
	var v float32
	if src.Down(negative) {
		v--
	}
	if src.Down(positive) {
		v++
	}
	return v
}
