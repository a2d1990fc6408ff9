// Package model loads glTF models into renderable meshes and flattens them
// into vertex/index buffers for physics colliders.
package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex represents a model mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh is one drawable primitive of a model.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32

	// Color is the diffuse color used when the mesh has no texture.
	Color       [4]float32
	Opacity     float32
	TexturePath string
}

// Transparent reports whether the mesh must be drawn in the blended pass.
func (m *Mesh) Transparent() bool {
	return m.Opacity < 1
}

// Model is a loaded model file.
type Model struct {
	Path   string
	Meshes []Mesh
	Bounds Bounds
}

// Bounds holds the axis-aligned bounding box of the model.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// HalfExtents returns half the box size scaled per axis.
func (b Bounds) HalfExtents(scale mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		(b.Max[0] - b.Min[0]) * 0.5 * scale[0],
		(b.Max[1] - b.Min[1]) * 0.5 * scale[1],
		(b.Max[2] - b.Min[2]) * 0.5 * scale[2],
	}
}

// Center returns the scaled box center.
func (b Bounds) Center(scale mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		(b.Max[0] + b.Min[0]) * 0.5 * scale[0],
		(b.Max[1] + b.Min[1]) * 0.5 * scale[1],
		(b.Max[2] + b.Min[2]) * 0.5 * scale[2],
	}
}

// PhysicsData flattens all meshes into one xyz vertex buffer and one index
// buffer, with every vertex multiplied by scale and each mesh's indices
// offset by the number of vertices before it.
func (m *Model) PhysicsData(scale mgl32.Vec3) (vertices []float32, indices []int32) {
	total := 0
	totalIdx := 0
	for i := range m.Meshes {
		total += len(m.Meshes[i].Vertices)
		totalIdx += len(m.Meshes[i].Indices)
	}
	vertices = make([]float32, 0, total*3)
	indices = make([]int32, 0, totalIdx)

	for i := range m.Meshes {
		mesh := &m.Meshes[i]
		base := int32(len(vertices) / 3)
		for _, v := range mesh.Vertices {
			vertices = append(vertices,
				v.Position[0]*scale[0],
				v.Position[1]*scale[1],
				v.Position[2]*scale[2],
			)
		}
		for _, idx := range mesh.Indices {
			indices = append(indices, base+int32(idx))
		}
	}
	return vertices, indices
}

// TriangleCount returns the number of triangles across all meshes.
func (m *Model) TriangleCount() int {
	n := 0
	for i := range m.Meshes {
		n += len(m.Meshes[i].Indices) / 3
	}
	return n
}
