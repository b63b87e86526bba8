package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/rtreflect/graphics"
)

// Camera is what the pass reads from the scene camera each frame.
type Camera interface {
	Position() mgl32.Vec3
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	Far() float32
}

// Frame carries everything DrawElement needs for one draw. It is not retained.
type Frame struct {
	Camera Camera

	// Targets are bound to units TextureUnitOffset+i in list order. See Channel
	// for the order the shader expects.
	Targets           []graphics.Texture
	TextureUnitOffset int

	TriangleCount int
	NodeCount     int
	LightPos      mgl32.Vec4

	// CanvasWidth and CanvasHeight only feed u_Width and u_Height. The viewport
	// always covers the device drawing buffer.
	CanvasWidth  int
	CanvasHeight int

	SceneTexWidth  int
	SceneTexHeight int
	BVHTexWidth    int
	BVHTexHeight   int

	RayDepth int
	UseBVH   bool
}

// invert returns m⁻¹. A singular matrix yields the zero matrix.
func invert(m mgl32.Mat4) mgl32.Mat4 {
	return m.Inv()
}

// DrawElement composites the reflection pass over the current render target.
func (p *ReflectionPass) DrawElement(f *Frame) {
	w, h := p.dev.DrawingBufferSize()
	p.dev.Viewport(0, 0, int32(w), int32(h))
	p.dev.Disable(graphics.DepthTest)
	p.dev.Enable(graphics.Blend)
	p.dev.Clear(graphics.ColorBuffer | graphics.DepthBuffer)

	p.SetTriangleCount(f.TriangleCount)
	p.SetNodeCount(f.NodeCount)
	p.SetLightPos(f.LightPos)
	p.SetHeight(f.CanvasHeight)
	p.SetWidth(f.CanvasWidth)
	p.SetSceneTextureSize(f.SceneTexWidth, f.SceneTexHeight)
	p.SetBVHTextureSize(f.BVHTexWidth, f.BVHTexHeight)
	p.SetCamera(f.Camera.Position())
	p.SetViewInv(invert(f.Camera.ViewMatrix()))
	p.SetProjInv(invert(f.Camera.ProjectionMatrix()))
	p.SetFar(f.Camera.Far())
	p.SetRayDepth(f.RayDepth)
	p.SetUseBVH(f.UseBVH)
	p.SetChannelUnits(f.TextureUnitOffset, len(f.Targets))

	bindTargets(p.dev, f.Targets, f.TextureUnitOffset)

	p.use()
	p.quad.Draw(p.dev)
}

func bindTargets(dev graphics.Device, targets []graphics.Texture, offset int) {
	for i, t := range targets {
		dev.ActiveTexture(uint32(offset + i))
		dev.BindTexture2D(t)
	}
}
