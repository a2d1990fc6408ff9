// Package scene holds the node tree the game is built from: transforms,
// parent-child composition and the sync between node transforms and
// rigid bodies.
package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/claw-machine/internal/engine/model"
	"github.com/Faultbox/claw-machine/internal/physics"
)

// ErrNoModel is returned when a mesh collider is requested for a node without a model.
var ErrNoModel = errors.New("scene: node has no model")

// Node is a positioned, optionally renderable, optionally simulated object.
// A node's children are owned by it; parent lookup goes through the Graph.
type Node struct {
	name      string
	transform Transform
	model     *model.Model
	body      *physics.Body
	children  []*Node

	// collider buffers referenced by the physics mesh collider
	colliderVertices []float32
	colliderIndices  []int32
}

// NewNode creates a detached node. m may be nil.
func NewNode(name string, m *model.Model) *Node {
	return &Node{
		name:      name,
		transform: NewTransform(),
		model:     m,
	}
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Transform returns the node's local transform for editing.
func (n *Node) Transform() *Transform { return &n.transform }

// Snapshot returns a copy of the local transform.
func (n *Node) Snapshot() Transform { return n.transform }

// Restore puts back a transform taken with Snapshot.
func (n *Node) Restore(t Transform) { n.transform = t }

// Model returns the node's model, or nil.
func (n *Node) Model() *model.Model { return n.model }

// Body returns the rigid body handle, or nil.
func (n *Node) Body() *physics.Body { return n.body }

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// HasChild reports whether c is a direct child of n.
func (n *Node) HasChild(c *Node) bool {
	return n.indexOf(c) >= 0
}

func (n *Node) indexOf(c *Node) int {
	for i, child := range n.children {
		if child == c {
			return i
		}
	}
	return -1
}

// Scale sizes the node. Before a body is attached the scale compounds with
// the current one (one-shot initial sizing); afterwards it is absolute, so
// repeated calls on a simulated node do not grow it. Colliders keep the
// size they were built with.
func (n *Node) Scale(s mgl32.Vec3) {
	if n.body == nil {
		n.transform.ScaleBy(s)
		return
	}
	n.transform.SetScale(s)
}

// ColliderBuffers returns the vertex and index buffers backing the node's
// mesh collider, or nil if it has none.
func (n *Node) ColliderBuffers() ([]float32, []int32) {
	return n.colliderVertices, n.colliderIndices
}
