package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/logger"
	"github.com/Faultbox/claw-machine/internal/physics"
	"github.com/Faultbox/claw-machine/pkg/math"
)

// Graph owns the root nodes of a scene and tracks every attached node's
// parent. It also owns the physics world bodies are created in.
type Graph struct {
	world   *physics.World
	roots   []*Node
	parents map[*Node]*Node
	log     *zap.Logger
}

// NewGraph returns an empty graph. world may be nil for a scene without physics.
func NewGraph(world *physics.World) *Graph {
	return &Graph{
		world:   world,
		parents: make(map[*Node]*Node),
		log:     logger.Named("scene"),
	}
}

// World returns the physics world, or nil.
func (g *Graph) World() *physics.World { return g.world }

// Roots returns the top-level nodes in insertion order.
func (g *Graph) Roots() []*Node {
	out := make([]*Node, len(g.roots))
	copy(out, g.roots)
	return out
}

// Parent returns n's parent, or nil for roots and detached nodes.
func (g *Graph) Parent(n *Node) *Node { return g.parents[n] }

// Contains reports whether n is attached to the graph.
func (g *Graph) Contains(n *Node) bool {
	for {
		p, ok := g.parents[n]
		if !ok {
			break
		}
		n = p
	}
	for _, r := range g.roots {
		if r == n {
			return true
		}
	}
	return false
}

// AddRoot attaches n at the top level, detaching it from any parent first.
func (g *Graph) AddRoot(n *Node) {
	g.detach(n)
	g.roots = append(g.roots, n)
}

// AddChild makes child a child of parent. The child keeps its local
// transform, so its world transform changes with the new parent.
func (g *Graph) AddChild(parent, child *Node) error {
	if parent == nil || child == nil {
		return fmt.Errorf("scene: nil node")
	}
	for p := parent; p != nil; p = g.parents[p] {
		if p == child {
			return fmt.Errorf("scene: adding %q under %q would create a cycle", child.name, parent.name)
		}
	}
	g.detach(child)
	parent.children = append(parent.children, child)
	g.parents[child] = parent
	g.index(child)
	return nil
}

// RemoveChild detaches child from parent without touching its transform.
// It reports whether child was a child of parent.
func (g *Graph) RemoveChild(parent, child *Node) bool {
	i := parent.indexOf(child)
	if i < 0 {
		return false
	}
	parent.children = append(parent.children[:i], parent.children[i+1:]...)
	delete(g.parents, child)
	return true
}

// Destroy removes n and its subtree from the graph and destroys their bodies.
func (g *Graph) Destroy(n *Node) {
	g.detach(n)
	g.destroy(n)
}

func (g *Graph) destroy(n *Node) {
	for _, c := range n.children {
		delete(g.parents, c)
		g.destroy(c)
	}
	n.children = nil
	if n.body != nil && g.world != nil {
		g.world.DestroyBody(n.body)
	}
	n.body = nil
	n.colliderVertices = nil
	n.colliderIndices = nil
}

// Clear destroys every node.
func (g *Graph) Clear() {
	for _, r := range g.Roots() {
		g.Destroy(r)
	}
}

// detach unlinks n from its parent or from the roots.
func (g *Graph) detach(n *Node) {
	if p, ok := g.parents[n]; ok {
		g.RemoveChild(p, n)
		return
	}
	for i, r := range g.roots {
		if r == n {
			g.roots = append(g.roots[:i], g.roots[i+1:]...)
			return
		}
	}
}

// index records parent links for a subtree that was built before attachment.
func (g *Graph) index(n *Node) {
	for _, c := range n.children {
		g.parents[c] = n
		g.index(c)
	}
}

// WorldMatrix composes n's local matrix with all of its ancestors'.
func (g *Graph) WorldMatrix(n *Node) mgl32.Mat4 {
	m := n.transform.matrix
	for p := g.parents[n]; p != nil; p = g.parents[p] {
		m = p.transform.matrix.Mul4(m)
	}
	return m
}

// WorldPosition returns the translation of n's world matrix.
func (g *Graph) WorldPosition(n *Node) mgl32.Vec3 {
	return math.Translation(g.WorldMatrix(n))
}

// parentMatrix returns the world matrix of n's parent, identity for roots.
func (g *Graph) parentMatrix(n *Node) mgl32.Mat4 {
	if p := g.parents[n]; p != nil {
		return g.WorldMatrix(p)
	}
	return mgl32.Ident4()
}

// Walk visits every node depth-first, parents before children.
func (g *Graph) Walk(fn func(n *Node, world mgl32.Mat4)) {
	var visit func(n *Node, parent mgl32.Mat4)
	visit = func(n *Node, parent mgl32.Mat4) {
		world := parent.Mul4(n.transform.matrix)
		fn(n, world)
		for _, c := range n.children {
			visit(c, world)
		}
	}
	for _, r := range g.roots {
		visit(r, mgl32.Ident4())
	}
}
