// Package renderer draws scene nodes with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/engine/model"
	"github.com/Faultbox/claw-machine/internal/engine/shader"
	"github.com/Faultbox/claw-machine/internal/engine/texture"
	"github.com/Faultbox/claw-machine/internal/logger"
	"github.com/Faultbox/claw-machine/internal/scene"
)

// Light is a point light used by the model shader.
type Light struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// DefaultLight sits above and in front of the machine.
var DefaultLight = Light{Position: mgl32.Vec3{0, 1, 3}, Color: mgl32.Vec3{1, 1, 1}}

type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	texture       uint32
}

// Renderer uploads meshes on first use and draws queued nodes.
type Renderer struct {
	width, height int

	meshes   map[*model.Mesh]*gpuMesh
	textures *texture.Cache
	queue    Queue
	log      *zap.Logger
}

// New initializes OpenGL. It must be called after the context is current.
func New(width, height int) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		meshes:   make(map[*model.Mesh]*gpuMesh),
		textures: texture.NewCache(),
		log:      logger.Named("renderer"),
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	r.Resize(width, height)
	return r, nil
}

// Close frees GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for mesh, g := range r.meshes {
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
		gl.DeleteBuffers(1, &g.ebo)
		delete(r.meshes, mesh)
	}
	r.textures.Close()
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.height == 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

// Size returns the viewport size.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Begin clears the frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetCamera uploads the per-frame camera and light uniforms.
func (r *Renderer) SetCamera(p *shader.Program, view, proj mgl32.Mat4, eye mgl32.Vec3, light Light) {
	p.Use()
	p.SetMat4("uV", view)
	p.SetMat4("uP", proj)
	p.SetVec3("uViewPos", eye)
	p.SetVec3("uLightPos", light.Position)
	p.SetVec3("uLightColor", light.Color)
	p.SetInt("uDiffuse", 0)
}

// DrawGraph draws every node of g.
func (r *Renderer) DrawGraph(g *scene.Graph, p *shader.Program, eye mgl32.Vec3) {
	r.queue.Reset()
	r.queue.AddGraph(g)
	r.flush(p, eye)
}

// DrawNode draws n and its subtree with composed world matrices.
func (r *Renderer) DrawNode(g *scene.Graph, n *scene.Node, p *shader.Program, eye mgl32.Vec3) {
	r.queue.Reset()
	r.queue.AddNode(g, n)
	r.flush(p, eye)
}

// flush draws opaque items, then transparent ones back to front without
// depth writes.
func (r *Renderer) flush(p *shader.Program, eye mgl32.Vec3) {
	p.Use()
	for _, it := range r.queue.Opaque {
		r.drawMesh(p, it)
	}

	if len(r.queue.Transparent) == 0 {
		return
	}
	r.queue.SortTransparent(eye)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	for _, it := range r.queue.Transparent {
		r.drawMesh(p, it)
	}
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func (r *Renderer) drawMesh(p *shader.Program, it Item) {
	g := r.upload(it.Mesh)
	if g == nil {
		return
	}
	p.SetMat4("uM", it.World)
	p.SetVec4("uColor", mgl32.Vec4(it.Mesh.Color))
	p.SetFloat("uOpacity", it.Mesh.Opacity)
	p.SetBool("uUseTexture", g.texture != 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, g.texture)
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (r *Renderer) upload(m *model.Mesh) *gpuMesh {
	if g, ok := r.meshes[m]; ok {
		return g
	}
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		r.meshes[m] = nil
		return nil
	}

	g := &gpuMesh{indexCount: int32(len(m.Indices))}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*vertexSize, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
	gl.BindVertexArray(0)

	g.texture = r.textures.Get(m.TexturePath)
	r.meshes[m] = g
	r.log.Debug("mesh uploaded", zap.String("mesh", m.Name), zap.Int("indices", len(m.Indices)))
	return g
}
