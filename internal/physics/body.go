// Package physics implements a small rigid-body world: static, kinematic and
// dynamic bodies with box, sphere and triangle-mesh colliders, overlap
// queries and a variable-timestep integrator with contact push-out.
package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoBody is returned when a collider or sync operation needs a rigid body
// that has not been created yet.
var ErrNoBody = errors.New("physics: rigid body not created")

// BodyType selects how a body takes part in the simulation.
type BodyType int

const (
	// Static bodies never move.
	Static BodyType = iota
	// Kinematic bodies are moved only through SetTransform.
	Kinematic
	// Dynamic bodies are integrated under gravity and contact response.
	Dynamic
)

// String returns the body type name.
func (t BodyType) String() string {
	switch t {
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Transform is a rigid transform: position plus orientation, no scale.
type Transform struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// IdentityTransform returns a transform at the origin with no rotation.
func IdentityTransform() Transform {
	return Transform{Orientation: mgl32.QuatIdent()}
}

// Mat4 returns the transform as a matrix.
func (t Transform) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).Mul4(t.Orientation.Mat4())
}

// Body is a rigid body owned by a World.
type Body struct {
	id        int
	world     *World
	typ       BodyType
	transform Transform
	velocity  mgl32.Vec3
	colliders []Collider

	// version increases whenever the transform changes; mesh colliders use it
	// to invalidate their world-space triangle cache.
	version uint64

	Mass        float32
	Restitution float32
}

// ID returns the body's identifier, unique within its world.
func (b *Body) ID() int { return b.id }

// Type returns the body type.
func (b *Body) Type() BodyType { return b.typ }

// SetType changes the body type. Velocity is cleared so a body released to
// the simulation starts from rest.
func (b *Body) SetType(t BodyType) {
	if b.typ == t {
		return
	}
	b.typ = t
	b.velocity = mgl32.Vec3{}
}

// Transform returns the body's current world transform.
func (b *Body) Transform() Transform { return b.transform }

// SetTransform teleports the body.
func (b *Body) SetTransform(t Transform) {
	t.Orientation = t.Orientation.Normalize()
	b.transform = t
	b.version++
}

// Velocity returns the linear velocity.
func (b *Body) Velocity() mgl32.Vec3 { return b.velocity }

// SetVelocity sets the linear velocity. Ignored for non-dynamic bodies.
func (b *Body) SetVelocity(v mgl32.Vec3) {
	if b.typ != Dynamic {
		return
	}
	b.velocity = v
}

// Colliders returns the attached colliders.
func (b *Body) Colliders() []Collider { return b.colliders }

// AddBoxCollider attaches a box with the given half extents, centered on the body.
func (b *Body) AddBoxCollider(halfExtents mgl32.Vec3) *Box {
	box := &Box{HalfExtents: halfExtents}
	b.colliders = append(b.colliders, box)
	return box
}

// AddSphereCollider attaches a sphere centered on the body.
func (b *Body) AddSphereCollider(radius float32) *Sphere {
	s := &Sphere{Radius: radius}
	b.colliders = append(b.colliders, s)
	return s
}

// AddMeshCollider attaches a concave triangle mesh. vertices holds xyz
// triples in body space and indices holds triangle corners. The collider
// keeps references to both slices; callers must not modify them while the
// collider is attached.
func (b *Body) AddMeshCollider(vertices []float32, indices []int32) (*Mesh, error) {
	m, err := newMesh(vertices, indices)
	if err != nil {
		return nil, err
	}
	b.colliders = append(b.colliders, m)
	return m, nil
}

// Bounds returns the world-space AABB enclosing all colliders. ok is false
// when the body has no colliders.
func (b *Body) Bounds() (box AABB, ok bool) {
	for i, c := range b.colliders {
		cb := c.bounds(b)
		if i == 0 {
			box = cb
			continue
		}
		box = box.Union(cb)
	}
	return box, len(b.colliders) > 0
}
