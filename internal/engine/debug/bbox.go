// Package debug draws collider bounds and saves screenshots.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/claw-machine/internal/engine/picking"
	"github.com/Faultbox/claw-machine/internal/physics"
)

// BoxVertexCount is the number of line vertices for one box (12 edges x 2).
const BoxVertexCount = 24

// BoxLines returns line vertices, x y z each, for the edges of box.
func BoxLines(box physics.AABB) []float32 {
	lo, hi := box.Min, box.Max
	minX, minY, minZ := lo[0], lo[1], lo[2]
	maxX, maxY, maxZ := hi[0], hi[1], hi[2]
	return []float32{
		// bottom
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// top
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// verticals
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// Colors per body type.
var (
	StaticColor    = [4]float32{0.2, 0.6, 1, 1}
	KinematicColor = [4]float32{1, 0.8, 0.2, 1}
	DynamicColor   = [4]float32{0.3, 1, 0.3, 1}
)

// ColorFor returns the wireframe color of a body type.
func ColorFor(t physics.BodyType) [4]float32 {
	switch t {
	case physics.Kinematic:
		return KinematicColor
	case physics.Dynamic:
		return DynamicColor
	default:
		return StaticColor
	}
}

// Batch groups box lines by color.
type Batch struct {
	Color    [4]float32
	Vertices []float32
}

// WorldLines collects the bounds of every body with colliders, one batch per
// body type in static, kinematic, dynamic order. Empty batches are omitted.
func WorldLines(w *physics.World) []Batch {
	var byType [3][]float32
	for _, b := range w.Bodies() {
		box, ok := b.Bounds()
		if !ok {
			continue
		}
		t := b.Type()
		byType[t] = append(byType[t], BoxLines(box)...)
	}

	var out []Batch
	for t, v := range byType {
		if len(v) == 0 {
			continue
		}
		out = append(out, Batch{Color: ColorFor(physics.BodyType(t)), Vertices: v})
	}
	return out
}

// MarkerColor is the color of the drop marker.
var MarkerColor = [4]float32{1, 0.3, 0.3, 1}

// CrossLines returns three axis-aligned line segments of length 2*size
// crossing at p.
func CrossLines(p mgl32.Vec3, size float32) []float32 {
	x, y, z := p[0], p[1], p[2]
	return []float32{
		x - size, y, z, x + size, y, z,
		x, y - size, z, x, y + size, z,
		x, y, z - size, x, y, z + size,
	}
}

// DropMarker returns a cross where a straight drop from `from` meets the
// plane y = floorY. ok is false when from is below the floor.
func DropMarker(from mgl32.Vec3, floorY, size float32) (b Batch, ok bool) {
	p, ok := picking.NewRay(from, mgl32.Vec3{0, -1, 0}).IntersectPlaneY(floorY)
	if !ok {
		return Batch{}, false
	}
	return Batch{Color: MarkerColor, Vertices: CrossLines(p, size)}, true
}
