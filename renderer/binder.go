package renderer

import "github.com/go-gl/mathgl/mgl32"

// Each setter makes the pass's program current before writing, and does nothing
// when the shader does not expose the input. Setters can be called in any order
// and any number of times before a draw; the last write wins.

func (p *ReflectionPass) SetTriangleCount(count int) {
	p.use().setInt(p.slots.triangleCount, int32(count))
}

func (p *ReflectionPass) SetNodeCount(count int) {
	p.use().setInt(p.slots.nodeCount, int32(count))
}

func (p *ReflectionPass) SetLightPos(pos mgl32.Vec4) {
	p.use().setVec4(p.slots.lightPos, pos)
}

// SetWidth sets the width the shader uses for its pixel to uv mapping.
func (p *ReflectionPass) SetWidth(width int) {
	p.use().setInt(p.slots.width, int32(width))
}

// SetHeight sets the height the shader uses for its pixel to uv mapping.
func (p *ReflectionPass) SetHeight(height int) {
	p.use().setInt(p.slots.height, int32(height))
}

// SetSceneTextureSize sets the size of the G-buffer and scene payload textures.
func (p *ReflectionPass) SetSceneTextureSize(width, height int) {
	b := p.use()
	b.setInt(p.slots.sceneTexWidth, int32(width))
	b.setInt(p.slots.sceneTexHeight, int32(height))
}

func (p *ReflectionPass) SetBVHTextureSize(width, height int) {
	b := p.use()
	b.setInt(p.slots.bvhTexWidth, int32(width))
	b.setInt(p.slots.bvhTexHeight, int32(height))
}

// SetCamera sets the world space eye position.
func (p *ReflectionPass) SetCamera(pos mgl32.Vec3) {
	p.use().setVec3(p.slots.camera, pos)
}

func (p *ReflectionPass) SetViewInv(viewInv mgl32.Mat4) {
	p.use().setMat4(p.slots.viewInv, viewInv)
}

func (p *ReflectionPass) SetProjInv(projInv mgl32.Mat4) {
	p.use().setMat4(p.slots.projInv, projInv)
}

func (p *ReflectionPass) SetFar(far float32) {
	p.use().setFloat(p.slots.far, far)
}

// SetRayDepth sets how many reflection bounces the shader follows.
func (p *ReflectionPass) SetRayDepth(depth int) {
	p.use().setInt(p.slots.rayDepth, int32(depth))
}

// SetUseBVH selects BVH traversal (1) or a brute force triangle loop (0).
func (p *ReflectionPass) SetUseBVH(useBVH bool) {
	var v int32
	if useBVH {
		v = 1
	}
	p.use().setInt(p.slots.useBVH, v)
}

// SetChannelUnits points the sampler of each of the first n channels at
// texture unit offset+channel.
func (p *ReflectionPass) SetChannelUnits(offset, n int) {
	b := p.use()
	for ch := Channel(0); ch < NumChannels && int(ch) < n; ch++ {
		b.setInt(p.slots.samplers[ch], int32(offset+int(ch)))
	}
}
