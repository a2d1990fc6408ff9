package session

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/claw-machine/internal/physics"
	"github.com/Faultbox/claw-machine/internal/scene"
	"github.com/Faultbox/claw-machine/pkg/math"
)

func newTestSession(t *testing.T, birbs int, gravity mgl32.Vec3) *Session {
	t.Helper()
	s, err := New(Models{}, Options{BirbCount: birbs, BirbRadius: 0.2, Gravity: gravity})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewBuildsRoster(t *testing.T) {
	s := newTestSession(t, 6, mgl32.Vec3{})

	tests := []struct {
		node *scene.Node
		name string
		typ  physics.BodyType
		pos  mgl32.Vec3
	}{
		{s.Ground, "ground", physics.Static, GroundPosition},
		{s.Machine, "claw-machine", physics.Static, MachinePosition},
		{s.Claw, "claw", physics.Kinematic, ClawStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.node.Name() != tt.name {
				t.Errorf("name = %q", tt.node.Name())
			}
			if tt.node.Body() == nil || tt.node.Body().Type() != tt.typ {
				t.Fatalf("body missing or wrong type")
			}
			if got := tt.node.Body().Transform().Position; got != tt.pos {
				t.Errorf("body position = %v, want %v", got, tt.pos)
			}
			if s.Graph.Parent(tt.node) != nil {
				t.Error("should be a root")
			}
		})
	}

	if len(s.Birbs) != 6 {
		t.Fatalf("birbs = %d, want 6", len(s.Birbs))
	}
	for i, b := range s.Birbs {
		if b.Body().Type() != physics.Dynamic {
			t.Errorf("%s type = %v", b.Name(), b.Body().Type())
		}
		if b.Transform().Scale() != BirbScale {
			t.Errorf("%s scale = %v", b.Name(), b.Transform().Scale())
		}
		if !s.Eligible(b) {
			t.Errorf("%s should be eligible", b.Name())
		}
		if s.Roster()[i] != b {
			t.Error("roster order differs from spawn order")
		}
	}
	if len(s.Ground.Body().Colliders()) != 1 || len(s.Claw.Body().Colliders()) != 1 {
		t.Error("ground and claw need a primitive collider without models")
	}
	if len(s.Machine.Body().Colliders()) != 0 {
		t.Error("machine without a model should have no collider")
	}
}

func TestBirbSpawnRing(t *testing.T) {
	const n = 6
	seen := make([]mgl32.Vec3, 0, n)
	for i := range n {
		p := birbSpawn(i, n)
		if p.Y() != BirbSpawnY {
			t.Errorf("spawn %d at height %f", i, p.Y())
		}
		if i > 0 {
			r := mgl32.Vec2{p.X(), p.Z()}.Len()
			if !mgl32.FloatEqualThreshold(r, BirbRingRange, 1e-5) {
				t.Errorf("spawn %d radius %f, want %f", i, r, BirbRingRange)
			}
		}
		for _, q := range seen {
			if q.Sub(p).Len() < 0.4 {
				t.Errorf("spawn %d overlaps another birb", i)
			}
		}
		seen = append(seen, p)
	}
	if birbSpawn(0, 1) != (mgl32.Vec3{0, BirbSpawnY, 0}) {
		t.Error("single birb should spawn in the middle")
	}
}

func TestTriggerMountUnmount(t *testing.T) {
	s := newTestSession(t, 0, mgl32.Vec3{})

	if _, ok := s.TriggerPosition(); ok {
		t.Fatal("no trigger before mounting")
	}
	s.MountTrigger()
	first := s.Trigger
	s.MountTrigger()
	if s.Trigger != first {
		t.Error("mounting twice should keep the same trigger")
	}
	if s.Graph.Parent(s.Trigger) != s.Claw {
		t.Error("trigger should hang under the claw")
	}

	pos, ok := s.TriggerPosition()
	want := ClawStart.Add(mgl32.Vec3{
		TriggerOffset.X() * ClawScale.X(),
		TriggerOffset.Y() * ClawScale.Y(),
		TriggerOffset.Z() * ClawScale.Z(),
	})
	if !ok || !math.ApproxEqualVec3(pos, want, math.Epsilon) {
		t.Errorf("trigger at %v, want %v", pos, want)
	}

	s.Claw.Transform().TranslateWorld(mgl32.Vec3{1, 0, 0})
	if pos, _ := s.TriggerPosition(); !math.ApproxEqualVec3(pos, want.Add(mgl32.Vec3{1, 0, 0}), math.Epsilon) {
		t.Errorf("trigger did not follow the claw: %v", pos)
	}

	s.UnmountTrigger()
	if s.Trigger != nil || len(s.Claw.Children()) != 0 {
		t.Error("trigger not removed")
	}
	s.UnmountTrigger()
}

func TestCollect(t *testing.T) {
	s := newTestSession(t, 2, mgl32.Vec3{})
	b := s.Birbs[0]
	body := b.Body()

	if !s.Collect(b) {
		t.Fatal("collect refused")
	}
	if s.Collect(b) {
		t.Error("a birb is collected at most once")
	}
	if s.Score() != 1 || !s.Collected(b) || s.Eligible(b) {
		t.Errorf("score = %d, collected = %v", s.Score(), s.Collected(b))
	}
	if s.Graph.Contains(b) {
		t.Error("collected birb still in the scene")
	}
	for _, other := range s.World.Bodies() {
		if other == body {
			t.Error("collected birb's body still in the world")
		}
	}
	if s.Collected(s.Birbs[1]) {
		t.Error("other birb marked collected")
	}
}

func TestCollectRefusesCarried(t *testing.T) {
	s := newTestSession(t, 1, mgl32.Vec3{})
	b := s.Birbs[0]
	if err := s.Graph.AddChild(s.Claw, b); err != nil {
		t.Fatal(err)
	}
	if s.Eligible(b) || s.Collect(b) {
		t.Error("a parented birb is not eligible")
	}
}

func TestStepPhysicsBirbsSettleOnGround(t *testing.T) {
	s := newTestSession(t, 6, mgl32.Vec3{0, -9.81, 0})

	for range 240 {
		s.StepPhysics(1.0 / 60)
	}

	// ground top at -1.9, sphere radius 0.2
	for _, b := range s.Birbs {
		y := b.Transform().Position().Y()
		if y < -1.75 || y > -1.65 {
			t.Errorf("%s rests at y=%f, want about -1.7", b.Name(), y)
		}
		if b.Transform().Position() != b.Body().Transform().Position {
			t.Errorf("%s node not pulled from its body", b.Name())
		}
	}
	if s.Claw.Transform().Position() != ClawStart {
		t.Error("kinematic claw moved under gravity")
	}
}

func TestOverlapsStructure(t *testing.T) {
	s := newTestSession(t, 0, mgl32.Vec3{})

	if s.OverlapsStructure(s.Claw, true) {
		t.Fatal("claw starts clear of the ground")
	}
	s.Claw.Transform().SetPosition(mgl32.Vec3{0, -1.8, 0})
	if err := s.Graph.Push(s.Claw); err != nil {
		t.Fatal(err)
	}
	if !s.OverlapsStructure(s.Claw, true) {
		t.Error("claw in the ground should overlap")
	}
	if s.OverlapsStructure(s.Claw, false) {
		t.Error("ground ignored when withGround is unset")
	}
	if s.OverlapsStructure(scene.NewNode("loose", nil), true) {
		t.Error("a node without a body never overlaps")
	}
}

func TestRounds(t *testing.T) {
	s := newTestSession(t, 0, mgl32.Vec3{})
	s.EndRound()
	s.EndRound()
	if s.Rounds() != 2 {
		t.Errorf("rounds = %d", s.Rounds())
	}
}

func TestDetachedBirbIsNotEligible(t *testing.T) {
	s := newTestSession(t, 1, mgl32.Vec3{})
	b := s.Birbs[0]
	if !s.Eligible(b) {
		t.Fatal("fresh birb should be eligible")
	}

	if err := s.Graph.AddChild(s.Machine, b); err != nil {
		t.Fatal(err)
	}
	if !s.Graph.RemoveChild(s.Machine, b) {
		t.Fatal("RemoveChild failed")
	}
	if b.Body() == nil || b.Body().Type() != physics.Dynamic {
		t.Fatal("detached birb should keep its dynamic body")
	}
	if s.Eligible(b) {
		t.Error("birb outside the scene should not be eligible")
	}
}
