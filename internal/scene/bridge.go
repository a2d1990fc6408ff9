package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/physics"
	"github.com/Faultbox/claw-machine/pkg/math"
)

// ErrNoWorld is returned when a body is requested from a graph without a physics world.
var ErrNoWorld = errors.New("scene: graph has no physics world")

// CreateBody creates a rigid body of type t at n's current world pose.
// A node has at most one body; calling again returns the existing one.
func (g *Graph) CreateBody(n *Node, t physics.BodyType) (*physics.Body, error) {
	if g.world == nil {
		return nil, ErrNoWorld
	}
	if n.body != nil {
		return n.body, nil
	}
	n.body = g.world.CreateRigidBody(g.worldPose(n))
	n.body.SetType(t)
	return n.body, nil
}

// worldPose returns n's world position and rotation. Roots use their tracked
// parts directly so a push does not pass through a decomposition.
func (g *Graph) worldPose(n *Node) physics.Transform {
	if g.parents[n] == nil {
		return physics.Transform{Position: n.transform.position, Orientation: n.transform.rotation}
	}
	m := g.WorldMatrix(n)
	return physics.Transform{Position: math.Translation(m), Orientation: math.Rotation(m)}
}

// Push copies n's transform to its body. Used for static and kinematic
// bodies whose pose is driven by the scene.
func (g *Graph) Push(n *Node) error {
	if n.body == nil {
		return fmt.Errorf("push %q: %w", n.name, physics.ErrNoBody)
	}
	n.body.SetTransform(g.worldPose(n))
	return nil
}

// Pull copies n's body pose into its transform and rebuilds the matrix
// with the node's existing scale. Used for dynamic bodies.
func (g *Graph) Pull(n *Node) error {
	if n.body == nil {
		return fmt.Errorf("pull %q: %w", n.name, physics.ErrNoBody)
	}
	pose := n.body.Transform()
	pos, rot := pose.Position, pose.Orientation
	if g.parents[n] != nil {
		local := g.parentMatrix(n).Inv().Mul4(pose.Mat4())
		pos, rot = math.Translation(local), math.Rotation(local)
	}
	n.transform.Set(pos, rot, n.transform.scale)
	return nil
}

// PullDynamic pulls every node whose body is dynamic. It returns the number
// of nodes updated.
func (g *Graph) PullDynamic() int {
	count := 0
	g.Walk(func(n *Node, _ mgl32.Mat4) {
		if n.body == nil || n.body.Type() != physics.Dynamic {
			return
		}
		if err := g.Pull(n); err == nil {
			count++
		}
	})
	return count
}

// SetBodyType changes the type of n's body.
func (g *Graph) SetBodyType(n *Node, t physics.BodyType) error {
	if n.body == nil {
		return fmt.Errorf("set body type on %q: %w", n.name, physics.ErrNoBody)
	}
	n.body.SetType(t)
	return nil
}

// AddMeshCollision builds a concave mesh collider from n's model, with
// vertices pre-multiplied by the node's current scale. The buffers are kept
// on the node for as long as the collider exists.
func (g *Graph) AddMeshCollision(n *Node) error {
	if n.body == nil {
		g.log.Error("mesh collision needs a rigid body", zap.String("node", n.name))
		return physics.ErrNoBody
	}
	if n.model == nil {
		g.log.Error("mesh collision needs a model", zap.String("node", n.name))
		return ErrNoModel
	}

	vertices, indices := n.model.PhysicsData(n.transform.scale)
	mesh, err := n.body.AddMeshCollider(vertices, indices)
	if err != nil {
		g.log.Error("mesh collision rejected", zap.String("node", n.name), zap.Error(err))
		return err
	}
	n.colliderVertices = vertices
	n.colliderIndices = indices

	g.log.Info("added mesh collision",
		zap.String("node", n.name),
		zap.Int("vertices", len(vertices)/3),
		zap.Int("triangles", mesh.TriangleCount()))
	return nil
}

// AddBoxCollision attaches a box collider with the given half extents.
func (g *Graph) AddBoxCollision(n *Node, halfExtents mgl32.Vec3) error {
	if n.body == nil {
		g.log.Error("box collision needs a rigid body", zap.String("node", n.name))
		return physics.ErrNoBody
	}
	n.body.AddBoxCollider(halfExtents)
	g.log.Debug("added box collision", zap.String("node", n.name), zap.Any("half_extents", halfExtents))
	return nil
}

// AddBoundsCollision attaches a box sized and centered from the model bounds
// and the node's current scale.
func (g *Graph) AddBoundsCollision(n *Node) error {
	if n.model == nil {
		g.log.Error("bounds collision needs a model", zap.String("node", n.name))
		return ErrNoModel
	}
	if n.body == nil {
		g.log.Error("bounds collision needs a rigid body", zap.String("node", n.name))
		return physics.ErrNoBody
	}
	scale := n.transform.scale
	box := n.body.AddBoxCollider(n.model.Bounds.HalfExtents(scale))
	box.Offset = n.model.Bounds.Center(scale)
	g.log.Debug("added bounds collision", zap.String("node", n.name),
		zap.Any("half_extents", box.HalfExtents), zap.Any("offset", box.Offset))
	return nil
}

// AddSphereCollision attaches a sphere collider.
func (g *Graph) AddSphereCollision(n *Node, radius float32) error {
	if n.body == nil {
		g.log.Error("sphere collision needs a rigid body", zap.String("node", n.name))
		return physics.ErrNoBody
	}
	n.body.AddSphereCollider(radius)
	g.log.Debug("added sphere collision", zap.String("node", n.name), zap.Float32("radius", radius))
	return nil
}
