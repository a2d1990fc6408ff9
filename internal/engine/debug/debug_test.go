package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/claw-machine/internal/physics"
)

func TestBoxLines(t *testing.T) {
	box := physics.AABB{Min: mgl32.Vec3{-1, -2, -3}, Max: mgl32.Vec3{1, 2, 3}}
	v := BoxLines(box)
	if len(v) != BoxVertexCount*3 {
		t.Fatalf("len = %d, want %d", len(v), BoxVertexCount*3)
	}
	for i := 0; i < len(v); i += 3 {
		p := mgl32.Vec3{v[i], v[i+1], v[i+2]}
		for axis := range 3 {
			if p[axis] != box.Min[axis] && p[axis] != box.Max[axis] {
				t.Fatalf("vertex %v is not a corner", p)
			}
		}
	}
	// every edge runs along exactly one axis
	for i := 0; i < len(v); i += 6 {
		diff := 0
		for axis := range 3 {
			if v[i+axis] != v[i+3+axis] {
				diff++
			}
		}
		if diff != 1 {
			t.Errorf("edge %d changes %d axes", i/6, diff)
		}
	}
}

func TestWorldLines(t *testing.T) {
	w := physics.NewWorld(mgl32.Vec3{})
	ground := w.CreateRigidBody(physics.IdentityTransform())
	ground.AddBoxCollider(mgl32.Vec3{5, 0.1, 5})

	ball := w.CreateRigidBody(physics.IdentityTransform())
	ball.SetType(physics.Dynamic)
	ball.AddSphereCollider(0.5)

	w.CreateRigidBody(physics.IdentityTransform()) // no colliders

	batches := WorldLines(w)
	if len(batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(batches))
	}
	if batches[0].Color != StaticColor || batches[1].Color != DynamicColor {
		t.Errorf("colors = %v, %v", batches[0].Color, batches[1].Color)
	}
	for _, b := range batches {
		if len(b.Vertices) != BoxVertexCount*3 {
			t.Errorf("batch has %d floats", len(b.Vertices))
		}
	}
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		typ  physics.BodyType
		want [4]float32
	}{
		{physics.Static, StaticColor},
		{physics.Kinematic, KinematicColor},
		{physics.Dynamic, DynamicColor},
	}
	for _, tt := range tests {
		if got := ColorFor(tt.typ); got != tt.want {
			t.Errorf("ColorFor(%v) = %v", tt.typ, got)
		}
	}
}

func TestSavePixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "claw")
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	// 2x2, bottom row red, top row blue
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
	path, err := s.SavePixels(pixels, 2, 2)
	if err != nil {
		t.Fatalf("SavePixels: %v", err)
	}
	if want := filepath.Join(dir, "claw_2026-01-02_03-04-05.000.png"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); b == 0 || r != 0 {
		t.Error("top row should be blue")
	}
	if r, _, b, _ := img.At(0, 1).RGBA(); r == 0 || b != 0 {
		t.Error("bottom row should be red")
	}

	if _, err := s.SavePixels(pixels[:4], 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestDropMarker(t *testing.T) {
	tests := []struct {
		name string
		from mgl32.Vec3
		ok   bool
	}{
		{"above the floor", mgl32.Vec3{0.5, 1, -0.25}, true},
		{"below the floor", mgl32.Vec3{0.5, -3, -0.25}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := DropMarker(tt.from, -1.9, 0.1)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if b.Color != MarkerColor || len(b.Vertices) != 18 {
				t.Fatalf("batch = %v", b)
			}
			// midpoint of the first segment is the landing point
			mid := mgl32.Vec3{
				(b.Vertices[0] + b.Vertices[3]) / 2,
				(b.Vertices[1] + b.Vertices[4]) / 2,
				(b.Vertices[2] + b.Vertices[5]) / 2,
			}
			want := mgl32.Vec3{0.5, -1.9, -0.25}
			if mid.Sub(want).Len() > 1e-5 {
				t.Errorf("marker at %v, want %v", mid, want)
			}
		})
	}
}
