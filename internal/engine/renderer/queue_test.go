package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/claw-machine/internal/engine/model"
	"github.com/Faultbox/claw-machine/internal/scene"
)

func testModel(opacities ...float32) *model.Model {
	m := &model.Model{}
	for _, o := range opacities {
		m.Meshes = append(m.Meshes, model.Mesh{Opacity: o})
	}
	return m
}

func TestQueueSplitsPasses(t *testing.T) {
	g := scene.NewGraph(nil)
	machine := scene.NewNode("machine", testModel(1, 0.4, 0))
	g.AddRoot(machine)

	var q Queue
	q.AddGraph(g)

	if len(q.Opaque) != 1 || len(q.Transparent) != 1 {
		t.Fatalf("opaque = %d, transparent = %d, want 1 and 1", len(q.Opaque), len(q.Transparent))
	}
	if q.Transparent[0].Mesh != &machine.Model().Meshes[1] {
		t.Error("glass mesh not in the transparent pass")
	}

	q.Reset()
	if len(q.Opaque) != 0 || len(q.Transparent) != 0 {
		t.Error("Reset left items")
	}
}

func TestQueueComposesChildren(t *testing.T) {
	g := scene.NewGraph(nil)
	claw := scene.NewNode("claw", testModel(1))
	claw.Transform().SetPosition(mgl32.Vec3{0, 1, 0})
	holder := scene.NewNode("holder", nil)
	holder.Transform().SetPosition(mgl32.Vec3{1, 0, 0})
	birb := scene.NewNode("birb", testModel(1))
	birb.Transform().SetPosition(mgl32.Vec3{0, -0.5, 0})

	g.AddRoot(claw)
	if err := g.AddChild(claw, holder); err != nil {
		t.Fatal(err)
	}
	if err := g.AddChild(holder, birb); err != nil {
		t.Fatal(err)
	}

	var q Queue
	q.AddNode(g, holder)
	if len(q.Opaque) != 1 {
		t.Fatalf("items = %d, want 1", len(q.Opaque))
	}
	got := q.Opaque[0].World.Col(3).Vec3()
	if !got.ApproxEqualThreshold(mgl32.Vec3{1, 0.5, 0}, 1e-5) {
		t.Errorf("birb drawn at %v, want (1, 0.5, 0)", got)
	}

	q.Reset()
	q.AddGraph(g)
	if len(q.Opaque) != 2 {
		t.Errorf("graph items = %d, want 2", len(q.Opaque))
	}
}

func TestSortTransparentBackToFront(t *testing.T) {
	near := &model.Mesh{Name: "near", Opacity: 0.5}
	far := &model.Mesh{Name: "far", Opacity: 0.5}
	q := Queue{Transparent: []Item{
		{Mesh: near, World: mgl32.Translate3D(0, 0, 4)},
		{Mesh: far, World: mgl32.Translate3D(0, 0, -4)},
	}}

	q.SortTransparent(mgl32.Vec3{0, 0, 5})
	if q.Transparent[0].Mesh != far {
		t.Errorf("first drawn = %s, want far", q.Transparent[0].Mesh.Name)
	}
}
