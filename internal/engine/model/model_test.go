package model

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// testDocument builds a document with a textured translucent quad and an
// untextured triangle without normals.
func testDocument() *gltf.Document {
	doc := gltf.NewDocument()

	quadPos := modeler.WritePosition(doc, [][3]float32{
		{-1, 0, -1}, {1, 0, -1}, {1, 0, 1}, {-1, 0, 1},
	})
	quadNormals := modeler.WriteNormal(doc, [][3]float32{
		{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
	})
	quadUV := modeler.WriteTextureCoord(doc, [][2]float32{
		{0, 0}, {1, 0}, {1, 1}, {0, 1},
	})
	quadIdx := modeler.WriteIndices(doc, []uint16{0, 2, 1, 0, 3, 2})

	triPos := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {0, 0, 2}, {2, 0, 0},
	})
	triIdx := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Images = append(doc.Images, &gltf.Image{URI: "textures/birb.png"})
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(0)})
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:      "glass",
		AlphaMode: gltf.AlphaBlend,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float32{0.2, 0.4, 0.6, 0.5},
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	})

	doc.Meshes = append(doc.Meshes,
		&gltf.Mesh{
			Name: "quad",
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(quadIdx),
				Attributes: map[string]uint32{
					"POSITION":   quadPos,
					"NORMAL":     quadNormals,
					"TEXCOORD_0": quadUV,
				},
				Material: gltf.Index(0),
			}},
		},
		&gltf.Mesh{
			Name: "tri",
			Primitives: []*gltf.Primitive{{
				Indices:    gltf.Index(triIdx),
				Attributes: map[string]uint32{"POSITION": triPos},
			}},
		},
	)
	return doc
}

func TestFromDocument(t *testing.T) {
	m, err := FromDocument(testDocument(), "assets")
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}

	if len(m.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(m.Meshes))
	}

	quad := m.Meshes[0]
	if len(quad.Vertices) != 4 || len(quad.Indices) != 6 {
		t.Errorf("quad: %d vertices, %d indices", len(quad.Vertices), len(quad.Indices))
	}
	if !quad.Transparent() {
		t.Error("quad with alpha blend and 0.5 alpha should be transparent")
	}
	if quad.Opacity != 0.5 {
		t.Errorf("quad opacity = %f, want 0.5", quad.Opacity)
	}
	if want := filepath.Join("assets", "textures", "birb.png"); quad.TexturePath != want {
		t.Errorf("texture path = %q, want %q", quad.TexturePath, want)
	}
	if quad.Vertices[2].TexCoord != [2]float32{1, 1} {
		t.Errorf("texcoord = %v, want (1,1)", quad.Vertices[2].TexCoord)
	}

	tri := m.Meshes[1]
	if tri.Transparent() {
		t.Error("mesh without material should be opaque")
	}
	if tri.TexturePath != "" {
		t.Errorf("untextured mesh got texture path %q", tri.TexturePath)
	}
	for i, v := range tri.Vertices {
		n := mgl32.Vec3(v.Normal)
		if abs(n.Len()-1) > 1e-5 || abs(abs(n.Y())-1) > 1e-5 {
			t.Errorf("vertex %d normal = %v, want unit Y", i, n)
		}
	}

	wantBounds := Bounds{Min: [3]float32{-1, 0, -1}, Max: [3]float32{2, 0, 2}}
	if m.Bounds != wantBounds {
		t.Errorf("bounds = %+v, want %+v", m.Bounds, wantBounds)
	}
	if m.TriangleCount() != 3 {
		t.Errorf("triangle count = %d, want 3", m.TriangleCount())
	}
}

func TestFromDocumentNoMeshes(t *testing.T) {
	_, err := FromDocument(gltf.NewDocument(), ".")
	if !errors.Is(err, ErrNoMeshes) {
		t.Errorf("expected ErrNoMeshes, got %v", err)
	}
}

func TestPhysicsData(t *testing.T) {
	m, err := FromDocument(testDocument(), ".")
	if err != nil {
		t.Fatal(err)
	}

	vertices, indices := m.PhysicsData(mgl32.Vec3{2, 1, 0.5})

	if len(vertices) != (4+3)*3 {
		t.Fatalf("expected 21 vertex floats, got %d", len(vertices))
	}
	if len(indices) != 9 {
		t.Fatalf("expected 9 indices, got %d", len(indices))
	}

	// first quad vertex (-1,0,-1) scaled
	if vertices[0] != -2 || vertices[1] != 0 || vertices[2] != -0.5 {
		t.Errorf("first vertex = %v, want (-2,0,-0.5)", vertices[:3])
	}
	// triangle indices follow the quad's 4 vertices
	if got := indices[6:]; got[0] != 4 || got[1] != 5 || got[2] != 6 {
		t.Errorf("triangle indices = %v, want [4 5 6]", got)
	}
	for _, idx := range indices {
		if int(idx) >= len(vertices)/3 {
			t.Errorf("index %d out of range", idx)
		}
	}
}

func TestBoundsHalfExtents(t *testing.T) {
	b := Bounds{Min: [3]float32{-1, 0, -2}, Max: [3]float32{1, 4, 2}}
	if got := b.HalfExtents(mgl32.Vec3{1, 0.5, 2}); got != (mgl32.Vec3{1, 1, 4}) {
		t.Errorf("half extents = %v, want (1,1,4)", got)
	}
	if got := b.Center(mgl32.Vec3{1, 1, 1}); got != (mgl32.Vec3{0, 2, 0}) {
		t.Errorf("center = %v, want (0,2,0)", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLibraryCaches(t *testing.T) {
	calls := map[string]int{}
	lib := &Library{
		cache: make(map[string]entry),
		load: func(path string) (*Model, error) {
			calls[path]++
			if path == "broken.glb" {
				return nil, ErrNoMeshes
			}
			return FromDocument(testDocument(), ".")
		},
	}

	a, err := lib.Get("claw.glb")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := lib.Get("claw.glb")
	if a != b {
		t.Error("library should return the cached model")
	}

	for range 3 {
		if _, err := lib.Get("broken.glb"); !errors.Is(err, ErrNoMeshes) {
			t.Errorf("expected cached ErrNoMeshes, got %v", err)
		}
	}

	if calls["claw.glb"] != 1 || calls["broken.glb"] != 1 {
		t.Errorf("loader calls = %v, want one per path", calls)
	}
	if lib.Len() != 2 {
		t.Errorf("Len() = %d, want 2", lib.Len())
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
