package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/claw-machine/internal/engine/model"
	"github.com/Faultbox/claw-machine/internal/scene"
)

// Item is one mesh to draw with its world matrix.
type Item struct {
	Mesh  *model.Mesh
	World mgl32.Mat4
}

// Queue holds a frame's draw items split by pass.
type Queue struct {
	Opaque      []Item
	Transparent []Item
}

// Reset empties the queue keeping its storage.
func (q *Queue) Reset() {
	q.Opaque = q.Opaque[:0]
	q.Transparent = q.Transparent[:0]
}

// AddNode queues n and its subtree. Nodes without a model are skipped but
// their children are still visited.
func (q *Queue) AddNode(g *scene.Graph, n *scene.Node) {
	q.add(n, g.WorldMatrix(n))
}

// AddGraph queues every node of g.
func (q *Queue) AddGraph(g *scene.Graph) {
	g.Walk(q.addMeshes)
}

func (q *Queue) add(n *scene.Node, world mgl32.Mat4) {
	q.addMeshes(n, world)
	for _, c := range n.Children() {
		q.add(c, world.Mul4(c.Transform().Matrix()))
	}
}

func (q *Queue) addMeshes(n *scene.Node, world mgl32.Mat4) {
	if m := n.Model(); m != nil {
		for i := range m.Meshes {
			mesh := &m.Meshes[i]
			if mesh.Opacity <= 0 {
				continue
			}
			item := Item{Mesh: mesh, World: world}
			if mesh.Transparent() {
				q.Transparent = append(q.Transparent, item)
			} else {
				q.Opaque = append(q.Opaque, item)
			}
		}
	}
}

// SortTransparent orders the transparent pass back to front as seen from eye.
func (q *Queue) SortTransparent(eye mgl32.Vec3) {
	sort.SliceStable(q.Transparent, func(i, j int) bool {
		return distSq(q.Transparent[i].World, eye) > distSq(q.Transparent[j].World, eye)
	})
}

func distSq(world mgl32.Mat4, eye mgl32.Vec3) float32 {
	d := world.Col(3).Vec3().Sub(eye)
	return d.Dot(d)
}
