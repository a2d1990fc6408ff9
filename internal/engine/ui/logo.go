// Package ui draws the screen overlay: the logo in the top-right corner.
package ui

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/claw-machine/internal/engine/shader"
	"github.com/Faultbox/claw-machine/internal/engine/texture"
)

// Logo placement in pixels.
const (
	LogoHeight = 96
	LogoMargin = 16
)

// QuadVertices returns two triangles, x y u v per vertex, covering a
// texW x texH image scaled to height pixels and pinned margin pixels from
// the top-right corner of a screenW x screenH viewport, in NDC.
func QuadVertices(screenW, screenH, texW, texH int, height, margin float32) []float32 {
	if screenW <= 0 || screenH <= 0 || texW <= 0 || texH <= 0 {
		return nil
	}
	width := height * float32(texW) / float32(texH)

	toX := func(px float32) float32 { return px/float32(screenW)*2 - 1 }
	toY := func(px float32) float32 { return 1 - px/float32(screenH)*2 }

	right := toX(float32(screenW) - margin)
	left := toX(float32(screenW) - margin - width)
	top := toY(margin)
	bottom := toY(margin + height)

	return []float32{
		left, bottom, 0, 0,
		right, bottom, 1, 0,
		right, top, 1, 1,

		left, bottom, 0, 0,
		right, top, 1, 1,
		left, top, 0, 1,
	}
}

// Logo is a textured quad drawn over the scene.
type Logo struct {
	tex      texture.Texture
	program  *shader.Program
	vao, vbo uint32
}

// NewLogo loads the logo texture and sizes the quad for the viewport.
func NewLogo(path string, screenW, screenH int) (*Logo, error) {
	tex, err := texture.Load(path)
	if err != nil {
		return nil, err
	}
	program, err := shader.Load(shader.Overlay)
	if err != nil {
		tex.Delete()
		return nil, err
	}

	l := &Logo{tex: tex, program: program}
	gl.GenVertexArrays(1, &l.vao)
	gl.BindVertexArray(l.vao)
	gl.GenBuffers(1, &l.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 24*4, nil, gl.DYNAMIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	l.Resize(screenW, screenH)
	return l, nil
}

// Resize repositions the quad for a new viewport.
func (l *Logo) Resize(screenW, screenH int) {
	v := QuadVertices(screenW, screenH, l.tex.Width, l.tex.Height, LogoHeight, LogoMargin)
	if v == nil {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(v)*4, unsafe.Pointer(&v[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Draw blends the logo over the frame.
func (l *Logo) Draw() {
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	l.program.Use()
	l.program.SetInt("uTexture", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, l.tex.ID)
	gl.BindVertexArray(l.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// Close frees GPU resources.
func (l *Logo) Close() {
	gl.DeleteVertexArrays(1, &l.vao)
	gl.DeleteBuffers(1, &l.vbo)
	l.tex.Delete()
	l.program.Delete()
}
