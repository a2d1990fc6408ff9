package model

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrNoMeshes is returned for files that contain no triangle primitives.
var ErrNoMeshes = errors.New("model: no meshes")

// Load reads a .gltf or .glb file.
func Load(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	m, err := FromDocument(doc, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	m.Path = path
	return m, nil
}

// FromDocument converts every triangle primitive of doc into a Mesh.
// Texture URIs are resolved relative to dir.
func FromDocument(doc *gltf.Document, dir string) (*Model, error) {
	m := &Model{}
	first := true

	for iMesh, gm := range doc.Meshes {
		for iPrim, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes["POSITION"]
			if !ok {
				continue
			}

			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, errors.Wrapf(err, "mesh %d primitive %d positions", iMesh, iPrim)
			}

			var indices []uint32
			if prim.Indices != nil {
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, errors.Wrapf(err, "mesh %d primitive %d indices", iMesh, iPrim)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}

			var normals [][3]float32
			if idx, ok := prim.Attributes["NORMAL"]; ok {
				normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
				if err != nil {
					return nil, errors.Wrapf(err, "mesh %d primitive %d normals", iMesh, iPrim)
				}
			}

			var uvs [][2]float32
			if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
				uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
				if err != nil {
					return nil, errors.Wrapf(err, "mesh %d primitive %d texcoords", iMesh, iPrim)
				}
			}

			mesh := Mesh{
				Name:     gm.Name,
				Vertices: make([]Vertex, len(positions)),
				Indices:  indices,
				Color:    [4]float32{1, 1, 1, 1},
				Opacity:  1,
			}
			for i, p := range positions {
				mesh.Vertices[i].Position = p
				if i < len(normals) {
					mesh.Vertices[i].Normal = normals[i]
				}
				if i < len(uvs) {
					mesh.Vertices[i].TexCoord = uvs[i]
				}

				if first {
					m.Bounds = Bounds{Min: p, Max: p}
					first = false
				}
				for k := 0; k < 3; k++ {
					m.Bounds.Min[k] = min(m.Bounds.Min[k], p[k])
					m.Bounds.Max[k] = max(m.Bounds.Max[k], p[k])
				}
			}
			if normals == nil {
				computeNormals(&mesh)
			}
			if prim.Material != nil && int(*prim.Material) < len(doc.Materials) {
				applyMaterial(&mesh, doc, doc.Materials[*prim.Material], dir)
			}

			m.Meshes = append(m.Meshes, mesh)
		}
	}

	if len(m.Meshes) == 0 {
		return nil, ErrNoMeshes
	}
	return m, nil
}

func applyMaterial(mesh *Mesh, doc *gltf.Document, mat *gltf.Material, dir string) {
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return
	}
	if pbr.BaseColorFactor != nil {
		mesh.Color = *pbr.BaseColorFactor
		if mat.AlphaMode == gltf.AlphaBlend {
			mesh.Opacity = mesh.Color[3]
		}
	}
	if pbr.BaseColorTexture != nil {
		mesh.TexturePath = texturePath(doc, pbr.BaseColorTexture.Index, dir)
	}
}

// texturePath resolves an external image URI. Embedded images are not
// supported and yield an empty path.
func texturePath(doc *gltf.Document, texture uint32, dir string) string {
	if int(texture) >= len(doc.Textures) {
		return ""
	}
	src := doc.Textures[texture].Source
	if src == nil || int(*src) >= len(doc.Images) {
		return ""
	}
	uri := doc.Images[*src].URI
	if uri == "" || strings.HasPrefix(uri, "data:") {
		return ""
	}
	return filepath.Join(dir, filepath.FromSlash(uri))
}

// computeNormals fills smooth vertex normals from face normals.
func computeNormals(mesh *Mesh) {
	acc := make([]mgl32.Vec3, len(mesh.Vertices))
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		i0, i1, i2 := mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]
		if int(max(i0, i1, i2)) >= len(mesh.Vertices) {
			continue
		}
		p0 := mgl32.Vec3(mesh.Vertices[i0].Position)
		p1 := mgl32.Vec3(mesh.Vertices[i1].Position)
		p2 := mgl32.Vec3(mesh.Vertices[i2].Position)
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[i0] = acc[i0].Add(n)
		acc[i1] = acc[i1].Add(n)
		acc[i2] = acc[i2].Add(n)
	}
	for i, n := range acc {
		if l := n.Len(); l > 0 && !math.IsNaN(float64(l)) {
			mesh.Vertices[i].Normal = n.Mul(1 / l)
		} else {
			mesh.Vertices[i].Normal = [3]float32{0, 1, 0}
		}
	}
}
