package renderer

import "github.com/richinsley/rtreflect/graphics"

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// ScreenQuad is two triangles covering clip space.
type ScreenQuad struct {
	vao     graphics.VertexArray
	created bool
}

func NewScreenQuad() *ScreenQuad {
	return &ScreenQuad{}
}

// Create uploads the quad once. Later calls do nothing.
func (q *ScreenQuad) Create(dev graphics.Device) {
	if q.created {
		return
	}
	q.vao = dev.CreateVertexArray(quadVertices, 2)
	q.created = true
}

func (q *ScreenQuad) Created() bool {
	return q.created
}

func (q *ScreenQuad) Draw(dev graphics.Device) {
	dev.DrawArrays(q.vao, int32(len(quadVertices)/2))
}

func (q *ScreenQuad) Destroy(dev graphics.Device) {
	if !q.created {
		return
	}
	dev.DeleteVertexArray(q.vao)
	q.created = false
}
