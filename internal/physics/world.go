package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/logger"
)

// Default simulation settings.
const (
	DefaultMaxSubstep    = float32(1.0 / 120.0)
	DefaultLinearDamping = float32(0.1)
	DefaultRestitution   = float32(0.2)
	// DefaultFriction damps sliding along static surfaces, per second.
	DefaultFriction = float32(8)

	// maxSubsteps bounds the work done for a single long frame.
	maxSubsteps = 16
)

// World holds bodies and advances the simulation.
type World struct {
	Gravity       mgl32.Vec3
	MaxSubstep    float32
	LinearDamping float32
	// Friction removes tangential velocity of dynamic bodies resting on or
	// sliding along static bodies.
	Friction float32

	bodies []*Body
	nextID int
	log    *zap.Logger
}

// NewWorld returns an empty world with the given gravity.
func NewWorld(gravity mgl32.Vec3) *World {
	return &World{
		Gravity:       gravity,
		MaxSubstep:    DefaultMaxSubstep,
		LinearDamping: DefaultLinearDamping,
		Friction:      DefaultFriction,
		log:           logger.Named("physics"),
	}
}

// CreateRigidBody adds a static body at the given transform.
func (w *World) CreateRigidBody(t Transform) *Body {
	w.nextID++
	b := &Body{
		id:          w.nextID,
		world:       w,
		typ:         Static,
		Mass:        1,
		Restitution: DefaultRestitution,
	}
	b.SetTransform(t)
	w.bodies = append(w.bodies, b)
	w.log.Debug("rigid body created", zap.Int("id", b.id), zap.Any("position", t.Position))
	return b
}

// DestroyBody removes a body from the world. Unknown bodies are ignored.
func (w *World) DestroyBody(b *Body) {
	if b == nil || b.world != w {
		return
	}
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	b.world = nil
	w.log.Debug("rigid body destroyed", zap.Int("id", b.id))
}

// Bodies returns the bodies in creation order.
func (w *World) Bodies() []*Body { return w.bodies }

// TestOverlap reports whether any collider of a intersects any collider of b.
func (w *World) TestOverlap(a, b *Body) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	for _, ca := range a.colliders {
		for _, cb := range b.colliders {
			if collidersOverlap(a, ca, b, cb) {
				return true
			}
		}
	}
	return false
}

// Step advances the simulation by dt seconds, split into substeps no longer
// than MaxSubstep.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	n := 1
	if w.MaxSubstep > 0 {
		n = int(math.Ceil(float64(dt / w.MaxSubstep)))
		n = max(1, min(n, maxSubsteps))
	}
	h := dt / float32(n)
	for range n {
		w.integrate(h)
		w.resolveContacts(h)
	}
}

func (w *World) integrate(h float32) {
	damping := 1 / (1 + w.LinearDamping*h)
	for _, b := range w.bodies {
		if b.typ != Dynamic {
			continue
		}
		b.velocity = b.velocity.Add(w.Gravity.Mul(h)).Mul(damping)
		b.transform.Position = b.transform.Position.Add(b.velocity.Mul(h))
		b.version++
	}
}

func (w *World) resolveContacts(h float32) {
	keep := 1 / (1 + w.Friction*h)
	for i, a := range w.bodies {
		if a.typ != Dynamic {
			continue
		}
		for j, b := range w.bodies {
			if i == j || (b.typ == Dynamic && j < i) {
				continue
			}
			c, ok := deepestContact(a, b)
			if !ok {
				continue
			}
			switch b.typ {
			case Dynamic:
				separateDynamic(a, b, c)
			case Static:
				separateFromFixed(a, c)
				a.velocity = applyFriction(a.velocity, c.normal, keep)
			default:
				separateFromFixed(a, c)
			}
		}
	}
}

func separateFromFixed(b *Body, c contact) {
	b.transform.Position = b.transform.Position.Add(c.normal.Mul(c.depth))
	b.version++
	if vn := b.velocity.Dot(c.normal); vn < 0 {
		b.velocity = b.velocity.Sub(c.normal.Mul((1 + b.Restitution) * vn))
	}
}

// applyFriction scales the part of v tangent to the contact plane by keep.
func applyFriction(v, normal mgl32.Vec3, keep float32) mgl32.Vec3 {
	vn := normal.Mul(v.Dot(normal))
	return vn.Add(v.Sub(vn).Mul(keep))
}

func separateDynamic(a, b *Body, c contact) {
	wa, wb := inverseMass(a), inverseMass(b)
	total := wa + wb
	if total == 0 {
		return
	}
	a.transform.Position = a.transform.Position.Add(c.normal.Mul(c.depth * wa / total))
	b.transform.Position = b.transform.Position.Sub(c.normal.Mul(c.depth * wb / total))
	a.version++
	b.version++

	vn := a.velocity.Sub(b.velocity).Dot(c.normal)
	if vn >= 0 {
		return
	}
	e := min(a.Restitution, b.Restitution)
	j := -(1 + e) * vn / total
	a.velocity = a.velocity.Add(c.normal.Mul(j * wa))
	b.velocity = b.velocity.Sub(c.normal.Mul(j * wb))
}

func inverseMass(b *Body) float32 {
	if b.Mass <= 0 {
		return 1
	}
	return 1 / b.Mass
}
