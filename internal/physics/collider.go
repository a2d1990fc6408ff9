package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidMesh is returned for vertex/index buffers that do not describe triangles.
var ErrInvalidMesh = errors.New("physics: invalid mesh data")

// Collider is a collision shape attached to a body. Shapes are expressed in
// body space.
type Collider interface {
	// bounds returns the world-space AABB of the shape for the given body.
	bounds(b *Body) AABB
}

// Box is an oriented box collider. Overlap and contact tests use the
// world-space AABB of its rotated corners.
type Box struct {
	HalfExtents mgl32.Vec3
	// Offset moves the box center away from the body origin, in body space.
	Offset mgl32.Vec3
}

func (c *Box) bounds(b *Body) AABB {
	r := b.transform.Orientation.Mat4()
	var half mgl32.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			half[i] += abs32(r.At(i, j)) * c.HalfExtents[j]
		}
	}
	p := b.transform.Position.Add(b.transform.Orientation.Rotate(c.Offset))
	return AABB{Min: p.Sub(half), Max: p.Add(half)}
}

// Sphere is a sphere collider.
type Sphere struct {
	Radius float32
}

func (c *Sphere) bounds(b *Body) AABB {
	p := b.transform.Position
	r := mgl32.Vec3{c.Radius, c.Radius, c.Radius}
	return AABB{Min: p.Sub(r), Max: p.Add(r)}
}

type triangle [3]mgl32.Vec3

func (t triangle) normal() mgl32.Vec3 {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	if n.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}

// Mesh is a concave triangle mesh collider. It references the caller's
// buffers and caches world-space triangles per body transform.
type Mesh struct {
	vertices []float32
	indices  []int32

	world      []triangle
	worldBox   AABB
	cachedBody *Body
	cachedVer  uint64
}

func newMesh(vertices []float32, indices []int32) (*Mesh, error) {
	if len(vertices) == 0 || len(vertices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d vertex floats", ErrInvalidMesh, len(vertices))
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrInvalidMesh, len(indices))
	}
	n := int32(len(vertices) / 3)
	for i, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: index %d at %d out of range [0,%d)", ErrInvalidMesh, idx, i, n)
		}
	}
	return &Mesh{vertices: vertices, indices: indices}, nil
}

// TriangleCount returns the number of triangles in the mesh.
func (c *Mesh) TriangleCount() int { return len(c.indices) / 3 }

func (c *Mesh) vertex(i int32) mgl32.Vec3 {
	return mgl32.Vec3{c.vertices[3*i], c.vertices[3*i+1], c.vertices[3*i+2]}
}

// triangles returns the mesh in world space for the given body.
func (c *Mesh) triangles(b *Body) []triangle {
	if c.world != nil && c.cachedBody == b && c.cachedVer == b.version {
		return c.world
	}
	m := b.transform.Mat4()
	if c.world == nil {
		c.world = make([]triangle, len(c.indices)/3)
	}
	for t := range c.world {
		for k := 0; k < 3; k++ {
			v := c.vertex(c.indices[3*t+k])
			c.world[t][k] = m.Mul4x1(v.Vec4(1)).Vec3()
		}
	}
	c.worldBox = AABB{Min: c.world[0][0], Max: c.world[0][0]}
	for _, tri := range c.world {
		for _, v := range tri {
			c.worldBox = c.worldBox.Extend(v)
		}
	}
	c.cachedBody = b
	c.cachedVer = b.version
	return c.world
}

func (c *Mesh) bounds(b *Body) AABB {
	c.triangles(b)
	return c.worldBox
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the box center.
func (a AABB) Center() mgl32.Vec3 { return a.Min.Add(a.Max).Mul(0.5) }

// HalfExtents returns half the box size on each axis.
func (a AABB) HalfExtents() mgl32.Vec3 { return a.Max.Sub(a.Min).Mul(0.5) }

// Overlaps reports whether two boxes intersect. Touching faces do not count.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min[0] < b.Max[0] && a.Max[0] > b.Min[0] &&
		a.Min[1] < b.Max[1] && a.Max[1] > b.Min[1] &&
		a.Min[2] < b.Max[2] && a.Max[2] > b.Min[2]
}

// Union returns the smallest box containing both boxes.
func (a AABB) Union(b AABB) AABB {
	return a.Extend(b.Min).Extend(b.Max)
}

// Extend returns the box grown to contain p.
func (a AABB) Extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		a.Min[i] = min(a.Min[i], p[i])
		a.Max[i] = max(a.Max[i], p[i])
	}
	return a
}

// ClosestPoint returns the point in the box nearest to p.
func (a AABB) ClosestPoint(p mgl32.Vec3) mgl32.Vec3 {
	for i := 0; i < 3; i++ {
		p[i] = mgl32.Clamp(p[i], a.Min[i], a.Max[i])
	}
	return p
}

// Contains reports whether p lies inside or on the box.
func (a AABB) Contains(p mgl32.Vec3) bool {
	return p[0] >= a.Min[0] && p[0] <= a.Max[0] &&
		p[1] >= a.Min[1] && p[1] <= a.Max[1] &&
		p[2] >= a.Min[2] && p[2] <= a.Max[2]
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
