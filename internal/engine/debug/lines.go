package debug

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/claw-machine/internal/engine/shader"
	"github.com/Faultbox/claw-machine/internal/physics"
)

// Overlay draws collider wireframes on top of the scene.
type Overlay struct {
	program  *shader.Program
	vao, vbo uint32
	capacity int
}

// NewOverlay compiles the line program. It needs a current GL context.
func NewOverlay() (*Overlay, error) {
	p, err := shader.Load(shader.Lines)
	if err != nil {
		return nil, err
	}
	o := &Overlay{program: p}
	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return o, nil
}

// Draw outlines every body of w, followed by any extra batches.
func (o *Overlay) Draw(w *physics.World, viewProj mgl32.Mat4, extra ...Batch) {
	batches := append(WorldLines(w), extra...)
	if len(batches) == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	o.program.Use()
	o.program.SetMat4("uVP", viewProj)
	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	for _, b := range batches {
		size := len(b.Vertices) * 4
		if size > o.capacity {
			gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&b.Vertices[0]), gl.DYNAMIC_DRAW)
			o.capacity = size
		} else {
			gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&b.Vertices[0]))
		}
		o.program.SetVec4("uColor", mgl32.Vec4(b.Color))
		gl.DrawArrays(gl.LINES, 0, int32(len(b.Vertices)/3))
	}
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// Close frees GPU resources.
func (o *Overlay) Close() {
	gl.DeleteVertexArrays(1, &o.vao)
	gl.DeleteBuffers(1, &o.vbo)
	o.program.Delete()
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels
}
