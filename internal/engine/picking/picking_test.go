package picking

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{-1, -1, -1})

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"front", NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}), true, 4},
		{"miss", NewRay(mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}), false, 0},
		{"behind", NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}), false, 0},
		{"inside", NewRay(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}), true, 1},
		{"parallel outside", NewRay(mgl32.Vec3{0, 2, 5}, mgl32.Vec3{0, 0, -1}), false, 0},
		{"diagonal", NewRay(mgl32.Vec3{-3, -3, 0}, mgl32.Vec3{1, 1, 0}), true, 2 * math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(box)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && !mgl32.FloatEqualThreshold(got, tt.wantT, 1e-4) {
				t.Errorf("t = %f, want %f", got, tt.wantT)
			}
		})
	}
}

func TestTransformAABB(t *testing.T) {
	m := mgl32.Translate3D(0, -2, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90))).Mul4(mgl32.Scale3D(2, 1, 1))
	box := TransformAABB(mgl32.Vec3{-1, 0, -0.5}, mgl32.Vec3{1, 1, 0.5}, m)

	wantMin := mgl32.Vec3{-0.5, -2, -2}
	wantMax := mgl32.Vec3{0.5, -1, 2}
	if !box.Min.ApproxEqualThreshold(wantMin, 1e-4) || !box.Max.ApproxEqualThreshold(wantMax, 1e-4) {
		t.Errorf("box = %v..%v, want %v..%v", box.Min, box.Max, wantMin, wantMax)
	}
}

func TestScreenToRayCenter(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	view := mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 4.0/3.0, 0.1, 100)
	inv := proj.Mul4(view).Inv()

	r := ScreenToRay(400, 300, 800, 600, inv)
	if !r.Direction.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-3) {
		t.Errorf("direction = %v", r.Direction)
	}
	if !r.Origin.ApproxEqualThreshold(mgl32.Vec3{0, 0, 4.9}, 1e-3) {
		t.Errorf("origin = %v, want the near plane", r.Origin)
	}
}

func TestIntersectPlaneY(t *testing.T) {
	r := NewRay(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{1, -1, 0})
	p, ok := r.IntersectPlaneY(0)
	if !ok || !p.ApproxEqualThreshold(mgl32.Vec3{2, 0, 0}, 1e-4) {
		t.Errorf("hit %v at %v", ok, p)
	}
	if _, ok := NewRay(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}).IntersectPlaneY(1); ok {
		t.Error("parallel ray should not hit")
	}
	if _, ok := NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}).IntersectPlaneY(-1); ok {
		t.Error("plane behind the ray should not hit")
	}
}
