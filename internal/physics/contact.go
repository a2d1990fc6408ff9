package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// contact describes how far and in which direction a dynamic body must move
// to leave another body. normal points away from the other body.
type contact struct {
	normal mgl32.Vec3
	depth  float32
}

var up = mgl32.Vec3{0, 1, 0}

// proxy is the simplified shape a dynamic body uses for contact response:
// a sphere when it has a sphere collider, its AABB otherwise.
type proxy struct {
	sphere bool
	center mgl32.Vec3
	radius float32
	box    AABB
}

func proxyFor(b *Body, c Collider) proxy {
	if s, ok := c.(*Sphere); ok {
		return proxy{sphere: true, center: b.transform.Position, radius: s.Radius}
	}
	box := c.bounds(b)
	return proxy{box: box, center: box.Center()}
}

// deepestContact returns the deepest contact between dynamic body d and other.
func deepestContact(d, other *Body) (contact, bool) {
	var best contact
	found := false
	for _, dc := range d.colliders {
		p := proxyFor(d, dc)
		for _, oc := range other.colliders {
			if !dc.bounds(d).Overlaps(oc.bounds(other)) {
				continue
			}
			c, ok := proxyContact(p, other, oc)
			if ok && (!found || c.depth > best.depth) {
				best = c
				found = true
			}
		}
	}
	return best, found
}

func proxyContact(p proxy, other *Body, oc Collider) (contact, bool) {
	if !p.sphere {
		switch s := oc.(type) {
		case *Box:
			return aabbContact(p.box, s.bounds(other))
		case *Sphere:
			c, ok := sphereAABBContact(other.transform.Position, s.Radius, p.box)
			c.normal = c.normal.Mul(-1)
			return c, ok
		case *Mesh:
			// boxes resting on meshes use their bounding sphere
			p = proxy{sphere: true, center: p.center, radius: p.box.HalfExtents().Len()}
		}
	}

	switch s := oc.(type) {
	case *Sphere:
		d := p.center.Sub(other.transform.Position)
		dist := d.Len()
		depth := p.radius + s.Radius - dist
		if depth <= 0 {
			return contact{}, false
		}
		n := up
		if dist > 0 {
			n = d.Mul(1 / dist)
		}
		return contact{normal: n, depth: depth}, true
	case *Box:
		return sphereAABBContact(p.center, p.radius, s.bounds(other))
	case *Mesh:
		var best contact
		found := false
		for _, tri := range s.triangles(other) {
			q := closestPointOnTriangle(p.center, tri)
			d := p.center.Sub(q)
			dist := d.Len()
			depth := p.radius - dist
			if depth <= 0 || (found && depth <= best.depth) {
				continue
			}
			n := tri.normal()
			if dist > 1e-6 {
				n = d.Mul(1 / dist)
			}
			best = contact{normal: n, depth: depth}
			found = true
		}
		return best, found
	}
	return contact{}, false
}

// sphereAABBContact pushes a sphere out of a box.
func sphereAABBContact(center mgl32.Vec3, radius float32, box AABB) (contact, bool) {
	q := box.ClosestPoint(center)
	d := center.Sub(q)
	dist := d.Len()
	if dist > 0 {
		if dist >= radius {
			return contact{}, false
		}
		return contact{normal: d.Mul(1 / dist), depth: radius - dist}, true
	}

	// center inside the box: leave through the nearest face
	best := contact{depth: -1}
	for i := 0; i < 3; i++ {
		if toMax := box.Max[i] - center[i]; best.depth < 0 || toMax < best.depth {
			best = contact{normal: unitAxes[i], depth: toMax}
		}
		if toMin := center[i] - box.Min[i]; toMin < best.depth {
			best = contact{normal: unitAxes[i].Mul(-1), depth: toMin}
		}
	}
	best.depth += radius
	return best, true
}

// aabbContact separates box a from box b along the axis of least penetration.
func aabbContact(a, b AABB) (contact, bool) {
	best := contact{depth: -1}
	ca, cb := a.Center(), b.Center()
	for i := 0; i < 3; i++ {
		overlap := min(a.Max[i], b.Max[i]) - max(a.Min[i], b.Min[i])
		if overlap <= 0 {
			return contact{}, false
		}
		if best.depth < 0 || overlap < best.depth {
			n := unitAxes[i]
			if ca[i] < cb[i] {
				n = n.Mul(-1)
			}
			best = contact{normal: n, depth: overlap}
		}
	}
	return best, true
}
