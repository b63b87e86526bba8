package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/rtreflect/graphics"
	"github.com/richinsley/rtreflect/graphics/graphicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCamera struct {
	pos  mgl32.Vec3
	view mgl32.Mat4
	proj mgl32.Mat4
	far  float32
}

func (c fixedCamera) Position() mgl32.Vec3         { return c.pos }
func (c fixedCamera) ViewMatrix() mgl32.Mat4       { return c.view }
func (c fixedCamera) ProjectionMatrix() mgl32.Mat4 { return c.proj }
func (c fixedCamera) Far() float32                 { return c.far }

func testFrame() *Frame {
	return &Frame{
		Camera: fixedCamera{
			pos:  mgl32.Vec3{1, 2, 3},
			view: mgl32.LookAtV(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
			proj: mgl32.Perspective(mgl32.DegToRad(45), 4.0/3.0, 0.1, 100),
			far:  100,
		},
		Targets:           []graphics.Texture{11, 12, 13, 14, 15, 16, 17, 18},
		TextureUnitOffset: 0,
		TriangleCount:     36,
		NodeCount:         9,
		LightPos:          mgl32.Vec4{0, 10, 0, 1},
		CanvasWidth:       400,
		CanvasHeight:      300,
		SceneTexWidth:     1024,
		SceneTexHeight:    1,
		BVHTexWidth:       18,
		BVHTexHeight:      1,
		RayDepth:          3,
		UseBVH:            true,
	}
}

func TestDrawElementOrder(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	p := newPass(t, rec)
	rec.Reset()

	p.DrawElement(testFrame())

	viewport := rec.Index("Viewport")
	disable := rec.Index("Disable")
	enable := rec.Index("Enable")
	clr := rec.Index("Clear")
	firstUniform := rec.Index("Uniform1i")
	lastUniform := max(rec.LastIndex("Uniform1i"), rec.LastIndex("Uniform1f"),
		rec.LastIndex("Uniform3fv"), rec.LastIndex("Uniform4fv"), rec.LastIndex("UniformMatrix4fv"))
	firstBind := rec.Index("ActiveTexture")
	lastBind := rec.LastIndex("BindTexture2D")
	draw := rec.Index("DrawArrays")

	require.Equal(t, 0, viewport)
	assert.Less(t, viewport, disable)
	assert.Less(t, disable, enable)
	assert.Less(t, enable, clr)
	assert.Less(t, clr, firstUniform)
	assert.Less(t, lastUniform, firstBind)
	assert.Less(t, lastBind, draw)
	assert.Equal(t, len(rec.Calls)-1, draw)
	assert.Equal(t, 1, rec.Count("DrawArrays"))

	assert.Equal(t, []any{graphics.DepthTest}, rec.Calls[disable].Args)
	assert.Equal(t, []any{graphics.Blend}, rec.Calls[enable].Args)
	assert.Equal(t, []any{graphics.ColorBuffer | graphics.DepthBuffer}, rec.Calls[clr].Args)
	assert.False(t, rec.Enabled(graphics.DepthTest))
	assert.True(t, rec.Enabled(graphics.Blend))

	// drawn with the pass's own program
	assert.Equal(t, p.Program(), rec.Calls[draw].Args[2])
}

func TestDrawElementViewportUsesDrawingBuffer(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	rec.Width, rec.Height = 1920, 1080
	p := newPass(t, rec)
	rec.Reset()

	f := testFrame()
	p.DrawElement(f)

	assert.Equal(t, []any{int32(0), int32(0), int32(1920), int32(1080)}, rec.Calls[rec.Index("Viewport")].Args)
	w, _ := rec.Value(p.Program(), UniformWidth)
	h, _ := rec.Value(p.Program(), UniformHeight)
	assert.Equal(t, int32(400), w)
	assert.Equal(t, int32(300), h)
}

func TestDrawElementWritesFrameValues(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	p := newPass(t, rec)
	f := testFrame()
	p.DrawElement(f)

	prog := p.Program()
	expect := map[string]any{
		UniformTriangleCount:  int32(36),
		UniformNodeCount:      int32(9),
		UniformLightPos:       [4]float32{0, 10, 0, 1},
		UniformSceneTexWidth:  int32(1024),
		UniformSceneTexHeight: int32(1),
		UniformBVHTexWidth:    int32(18),
		UniformBVHTexHeight:   int32(1),
		UniformCamera:         [3]float32{1, 2, 3},
		UniformFar:            float32(100),
		UniformRayDepth:       int32(3),
		UniformUseBVH:         int32(1),
	}
	for name, want := range expect {
		got, ok := rec.Value(prog, name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}

func assertMatrixNear(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "element %d", i)
	}
}

func TestDrawElementInvertsCameraMatrices(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	p := newPass(t, rec)
	f := testFrame()
	p.DrawElement(f)

	cam := f.Camera.(fixedCamera)
	v, ok := rec.Value(p.Program(), UniformViewInv)
	require.True(t, ok)
	viewInv := mgl32.Mat4(v.([16]float32))
	assertMatrixNear(t, mgl32.Ident4(), cam.view.Mul4(viewInv))

	v, ok = rec.Value(p.Program(), UniformProjInv)
	require.True(t, ok)
	projInv := mgl32.Mat4(v.([16]float32))
	assertMatrixNear(t, mgl32.Ident4(), cam.proj.Mul4(projInv))

	// the inverse view maps the view space origin back to the eye
	eye := viewInv.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 1, eye.X(), 1e-4)
	assert.InDelta(t, 2, eye.Y(), 1e-4)
	assert.InDelta(t, 3, eye.Z(), 1e-4)
}

func TestInvert(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), invert(mgl32.Ident4()))

	m := mgl32.Translate3D(1, -2, 3).Mul4(mgl32.Scale3D(2, 4, 8))
	assertMatrixNear(t, mgl32.Ident4(), m.Mul4(invert(m)))

	singular := mgl32.Scale3D(1, 0, 1)
	inv := invert(singular)
	assert.Equal(t, mgl32.Mat4{}, inv)
	for _, x := range inv {
		assert.False(t, math.IsNaN(float64(x)))
	}
}

func TestDrawElementBindsTargetsFromOffset(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	p := newPass(t, rec)

	f := testFrame()
	f.Targets = []graphics.Texture{101, 102, 103}
	f.TextureUnitOffset = 5
	p.DrawElement(f)

	assert.Equal(t, map[uint32]graphics.Texture{5: 101, 6: 102, 7: 103}, rec.BoundUnits())

	// units follow list order
	var order []any
	for _, c := range rec.Calls {
		if c.Op == "ActiveTexture" {
			order = append(order, c.Args[0])
		}
	}
	assert.Equal(t, []any{uint32(5), uint32(6), uint32(7)}, order)

	// samplers point at the same units
	v, _ := rec.Value(p.Program(), "u_Pos")
	assert.Equal(t, int32(5), v)
	v, _ = rec.Value(p.Program(), "u_Albedo")
	assert.Equal(t, int32(7), v)
	_, ok := rec.Value(p.Program(), "u_Material")
	assert.False(t, ok)
}

func TestDrawElementWithNoTargets(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	p := newPass(t, rec)
	f := testFrame()
	f.Targets = nil
	p.DrawElement(f)

	assert.Empty(t, rec.BoundUnits())
	assert.Equal(t, 0, rec.Count("ActiveTexture"))
	assert.Equal(t, 1, rec.Count("DrawArrays"))
}

func TestDrawElementMinimalShader(t *testing.T) {
	rec := graphicstest.NewRecorder(UniformFar, UniformCamera)
	p := newPass(t, rec)

	f := testFrame()
	f.Camera = fixedCamera{
		pos:  mgl32.Vec3{1, 2, 3},
		view: mgl32.Ident4(),
		proj: mgl32.Ident4(),
		far:  100,
	}
	assert.NotPanics(t, func() { p.DrawElement(f) })

	assert.Equal(t, map[string]any{
		UniformFar:    float32(100),
		UniformCamera: [3]float32{1, 2, 3},
	}, rec.Written(p.Program()))
	assert.Equal(t, 1, rec.Count("Uniform1f"))
	assert.Equal(t, 1, rec.Count("Uniform3fv"))
	assert.Equal(t, 0, rec.Count("Uniform1i"))
	assert.Equal(t, 0, rec.Count("Uniform4fv"))
	assert.Equal(t, 0, rec.Count("UniformMatrix4fv"))
	assert.Equal(t, 1, rec.Count("DrawArrays"))
}

func TestDrawElementTwice(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	p := newPass(t, rec)

	f := testFrame()
	p.DrawElement(f)
	f.RayDepth = 1
	f.UseBVH = false
	p.DrawElement(f)

	v, _ := rec.Value(p.Program(), UniformRayDepth)
	assert.Equal(t, int32(1), v)
	v, _ = rec.Value(p.Program(), UniformUseBVH)
	assert.Equal(t, int32(0), v)
	assert.Equal(t, 2, rec.Count("DrawArrays"))
	assert.Equal(t, 1, rec.Count("CreateVertexArray"))
}
