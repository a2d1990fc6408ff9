package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// collidersOverlap reports whether collider ca on body a intersects collider cb on body b.
func collidersOverlap(a *Body, ca Collider, b *Body, cb Collider) bool {
	if !ca.bounds(a).Overlaps(cb.bounds(b)) {
		return false
	}

	switch sa := ca.(type) {
	case *Sphere:
		return sphereOverlaps(a.transform.Position, sa.Radius, b, cb)
	case *Box:
		return boxOverlaps(sa.bounds(a), b, cb)
	case *Mesh:
		switch sb := cb.(type) {
		case *Sphere:
			return sphereOverlaps(b.transform.Position, sb.Radius, a, ca)
		case *Box:
			return boxOverlaps(sb.bounds(b), a, ca)
		case *Mesh:
			return meshOverlapsBox(sa.triangles(a), sb.bounds(b)) &&
				meshOverlapsBox(sb.triangles(b), sa.bounds(a))
		}
	}
	return false
}

func sphereOverlaps(center mgl32.Vec3, radius float32, b *Body, cb Collider) bool {
	switch sb := cb.(type) {
	case *Sphere:
		r := radius + sb.Radius
		return center.Sub(b.transform.Position).LenSqr() < r*r
	case *Box:
		return sphereOverlapsAABB(center, radius, sb.bounds(b))
	case *Mesh:
		for _, tri := range sb.triangles(b) {
			q := closestPointOnTriangle(center, tri)
			if center.Sub(q).LenSqr() < radius*radius {
				return true
			}
		}
	}
	return false
}

func boxOverlaps(box AABB, b *Body, cb Collider) bool {
	switch sb := cb.(type) {
	case *Sphere:
		return sphereOverlapsAABB(b.transform.Position, sb.Radius, box)
	case *Box:
		return box.Overlaps(sb.bounds(b))
	case *Mesh:
		return meshOverlapsBox(sb.triangles(b), box)
	}
	return false
}

func sphereOverlapsAABB(center mgl32.Vec3, radius float32, box AABB) bool {
	q := box.ClosestPoint(center)
	return center.Sub(q).LenSqr() < radius*radius
}

func meshOverlapsBox(tris []triangle, box AABB) bool {
	c := box.Center()
	h := box.HalfExtents()
	for _, tri := range tris {
		if triangleOverlapsBox(tri, c, h) {
			return true
		}
	}
	return false
}

var unitAxes = [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// triangleOverlapsBox is a separating axis test between a triangle and an
// axis-aligned box given by center and half extents.
func triangleOverlapsBox(tri triangle, center, half mgl32.Vec3) bool {
	v := [3]mgl32.Vec3{tri[0].Sub(center), tri[1].Sub(center), tri[2].Sub(center)}
	edges := [3]mgl32.Vec3{v[1].Sub(v[0]), v[2].Sub(v[1]), v[0].Sub(v[2])}

	separated := func(axis mgl32.Vec3) bool {
		p0, p1, p2 := axis.Dot(v[0]), axis.Dot(v[1]), axis.Dot(v[2])
		r := half[0]*abs32(axis[0]) + half[1]*abs32(axis[1]) + half[2]*abs32(axis[2])
		return min(p0, p1, p2) >= r || max(p0, p1, p2) <= -r
	}

	for _, u := range unitAxes {
		if separated(u) {
			return false
		}
	}
	if separated(edges[0].Cross(edges[1])) {
		return false
	}
	for _, u := range unitAxes {
		for _, e := range edges {
			axis := u.Cross(e)
			if axis.LenSqr() < 1e-12 {
				continue
			}
			if separated(axis) {
				return false
			}
		}
	}
	return true
}

// closestPointOnTriangle returns the point of tri nearest to p.
func closestPointOnTriangle(p mgl32.Vec3, tri triangle) mgl32.Vec3 {
	a, b, c := tri[0], tri[1], tri[2]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return a.Add(ab.Mul(d1 / (d1 - d3)))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return a.Add(ac.Mul(d2 / (d2 - d6)))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		return b.Add(c.Sub(b).Mul((d4 - d3) / ((d4 - d3) + (d5 - d6))))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}
