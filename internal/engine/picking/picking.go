// Package picking provides ray casting against bounding boxes.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay returns a ray with dir normalized.
func NewRay(origin, dir mgl32.Vec3) Ray {
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB builds a box from two opposite corners in any order.
func NewAABB(a, b mgl32.Vec3) AABB {
	var box AABB
	for i := range 3 {
		box.Min[i] = min(a[i], b[i])
		box.Max[i] = max(a[i], b[i])
	}
	return box
}

// TransformAABB returns the world box enclosing the local box [lo, hi]
// placed by m.
func TransformAABB(lo, hi mgl32.Vec3, m mgl32.Mat4) AABB {
	inf := float32(math.Inf(1))
	box := AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
	for i := range 8 {
		corner := mgl32.Vec3{lo[0], lo[1], lo[2]}
		if i&1 != 0 {
			corner[0] = hi[0]
		}
		if i&2 != 0 {
			corner[1] = hi[1]
		}
		if i&4 != 0 {
			corner[2] = hi[2]
		}
		p := mgl32.TransformCoordinate(corner, m)
		for a := range 3 {
			box.Min[a] = min(box.Min[a], p[a])
			box.Max[a] = max(box.Max[a], p[a])
		}
	}
	return box
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of projection * view.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1, 1})
	return NewRay(near, far.Sub(near))
}

func unproject(inv mgl32.Mat4, p mgl32.Vec4) mgl32.Vec3 {
	w := inv.Mul4x1(p)
	if w[3] != 0 {
		return w.Vec3().Mul(1 / w[3])
	}
	return w.Vec3()
}

// IntersectAABB returns the distance to the first hit with box. A ray
// starting inside the box reports the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for a := range 3 {
		if r.Direction[a] == 0 {
			if r.Origin[a] < box.Min[a] || r.Origin[a] > box.Max[a] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[a] - r.Origin[a]) / r.Direction[a]
		t2 := (box.Max[a] - r.Origin[a]) / r.Direction[a]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectPlaneY intersects the ray with the horizontal plane y = planeY.
func (r Ray) IntersectPlaneY(planeY float32) (p mgl32.Vec3, ok bool) {
	if float32(math.Abs(float64(r.Direction[1]))) < 1e-3 {
		return mgl32.Vec3{}, false
	}
	t := (planeY - r.Origin[1]) / r.Direction[1]
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}
