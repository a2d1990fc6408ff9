// Package states implements game state management.
package states

import (
	"fmt"

	"github.com/Faultbox/claw-machine/internal/engine/input"
)

// Names of the registered states.
const (
	Exploring = "exploring"
	ClawMode  = "claw"
)

// State is one mode of play.
type State interface {
	// Name identifies the state in the manager.
	Name() string

	// Enter is called when entering this state.
	Enter() error

	// Exit is called when leaving this state.
	Exit() error

	// Update applies input for the frame, before the physics step.
	Update(dt float32, in input.Source) error

	// PostPhysics runs after the physics step and the pull of dynamic bodies.
	PostPhysics() error
}

// Manager manages game state transitions.
type Manager struct {
	states  map[string]State
	current State
	next    State
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{states: make(map[string]State)}
}

// Register makes s reachable through ChangeTo.
func (m *Manager) Register(s State) {
	m.states[s.Name()] = s
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Change schedules a state change for the start of the next Update.
func (m *Manager) Change(next State) {
	m.next = next
}

// ChangeTo schedules a change to a registered state.
func (m *Manager) ChangeTo(name string) error {
	s, ok := m.states[name]
	if !ok {
		return fmt.Errorf("states: unknown state %q", name)
	}
	m.Change(s)
	return nil
}

// Update processes state changes and updates current state.
func (m *Manager) Update(dt float32, in input.Source) error {
	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return err
			}
		}
		m.current = m.next
		m.next = nil
		if err := m.current.Enter(); err != nil {
			return err
		}
	}

	if m.current != nil {
		return m.current.Update(dt, in)
	}
	return nil
}

// PostPhysics forwards to the current state.
func (m *Manager) PostPhysics() error {
	if m.current != nil {
		return m.current.PostPhysics()
	}
	return nil
}
