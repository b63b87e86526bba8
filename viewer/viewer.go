// Package viewer drives a reflection pass from a window or an offscreen target.
package viewer

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/rtreflect/camera"
	"github.com/richinsley/rtreflect/glbackend"
	"github.com/richinsley/rtreflect/graphics"
	"github.com/richinsley/rtreflect/options"
	"github.com/richinsley/rtreflect/renderer"
	"github.com/richinsley/rtreflect/shader"
	"github.com/richinsley/rtreflect/texel"
	"github.com/richinsley/rtreflect/textures"
)

// sceneTexWidth is the row width of the packed scene and BVH payload textures.
const sceneTexWidth = 1024

// Viewer owns the pass and the textures it samples. The G-buffer channels are
// left empty here; a geometry pass renders into them.
type Viewer struct {
	context graphics.Context
	dev     *glbackend.Device
	pass    *renderer.ReflectionPass
	camera  *camera.Camera
	scene   *options.SceneConfig

	gbuffer   [4]*textures.Texture
	envMap    *textures.Texture
	floorTex  *textures.Texture
	sceneInfo *textures.Texture
	bvh       *textures.Texture

	triangleCount int
	nodeCount     int
	orbitSpeed    float32
}

// New builds the pass against ctx, which must be current on the calling thread.
func New(ctx graphics.Context, opts *options.RenderOptions, scene *options.SceneConfig) (*Viewer, error) {
	ctx.MakeCurrent()
	if err := glbackend.Init(); err != nil {
		return nil, err
	}

	v := &Viewer{
		context:    ctx,
		dev:        glbackend.New(ctx),
		scene:      scene,
		orbitSpeed: float32(*opts.Orbit),
	}

	src, err := shader.Load(*opts.VertexShader, *opts.FragmentShader, false)
	if err != nil {
		return nil, err
	}
	v.pass, err = renderer.NewReflectionPassFromSource(v.dev, src)
	if err != nil {
		return nil, err
	}

	width, height := ctx.GetFramebufferSize()
	c := scene.Camera
	v.camera = camera.New(mgl32.Vec3(c.Eye), mgl32.Vec3(c.Target), c.FovY, 1, c.Near, c.Far)
	v.camera.SetAspect(width, height)
	v.allocateGBuffer(width, height)

	v.envMap, err = textures.LoadImageTexture(*opts.EnvMap, textures.Sampler{Filter: "linear", Wrap: "repeat", VFlip: true}, *opts.MaxTextureSize, [4]float32{0.4, 0.5, 0.7, 1})
	if err != nil {
		v.Shutdown()
		return nil, fmt.Errorf("failed to load environment map: %w", err)
	}
	v.floorTex, err = textures.LoadImageTexture(*opts.FloorTexture, textures.Sampler{Filter: "mipmap", Wrap: "repeat", VFlip: true}, *opts.MaxTextureSize, [4]float32{0.8, 0.8, 0.8, 1})
	if err != nil {
		v.Shutdown()
		return nil, fmt.Errorf("failed to load floor texture: %w", err)
	}
	v.SetScene(scene.SceneTriangles())

	log.Printf("Viewer ready: %dx%d, ray depth %d, BVH %v", width, height, scene.RayDepth, scene.BVHEnabled())
	return v, nil
}

func (v *Viewer) allocateGBuffer(width, height int) {
	for i, t := range v.gbuffer {
		if t != nil {
			t.Destroy()
		}
		v.gbuffer[i] = textures.NewRenderTexture(width, height)
	}
}

// SetScene packs tris and replaces the triangle and BVH textures.
func (v *Viewer) SetScene(tris []texel.Triangle) {
	packed := texel.PackScene(tris)
	if v.sceneInfo != nil {
		v.sceneInfo.Destroy()
	}
	if v.bvh != nil {
		v.bvh.Destroy()
	}
	v.sceneInfo = textures.NewDataTexture(packed.Texels, sceneTexWidth)
	v.bvh = textures.NewDataTexture(packed.BVH, sceneTexWidth)
	v.triangleCount = packed.Triangles
	v.nodeCount = packed.Nodes
	log.Printf("Scene: %d triangles, %d BVH nodes", packed.Triangles, packed.Nodes)
}

// ToggleBVH flips between BVH and brute force traversal.
func (v *Viewer) ToggleBVH() {
	on := !v.scene.BVHEnabled()
	v.scene.UseBVH = &on
	log.Printf("BVH traversal: %v", on)
}

// SetRayDepth changes the reflection bounce count.
func (v *Viewer) SetRayDepth(depth int) {
	v.scene.RayDepth = depth
	log.Printf("Ray depth: %d", depth)
}

// frame assembles the inputs of one draw in channel order.
func (v *Viewer) frame(canvasWidth, canvasHeight int) *renderer.Frame {
	targets := make([]*textures.Texture, renderer.NumChannels)
	targets[renderer.ChannelPosition] = v.gbuffer[0]
	targets[renderer.ChannelNormal] = v.gbuffer[1]
	targets[renderer.ChannelAlbedo] = v.gbuffer[2]
	targets[renderer.ChannelMaterial] = v.gbuffer[3]
	targets[renderer.ChannelEnvMap] = v.envMap
	targets[renderer.ChannelFloorTex] = v.floorTex
	targets[renderer.ChannelSceneInfo] = v.sceneInfo
	targets[renderer.ChannelBVH] = v.bvh

	return &renderer.Frame{
		Camera:            v.camera,
		Targets:           textures.IDs(targets...),
		TextureUnitOffset: v.scene.TextureUnitOffset,
		TriangleCount:     v.triangleCount,
		NodeCount:         v.nodeCount,
		LightPos:          mgl32.Vec4(v.scene.Light),
		CanvasWidth:       canvasWidth,
		CanvasHeight:      canvasHeight,
		SceneTexWidth:     v.sceneInfo.Width(),
		SceneTexHeight:    v.sceneInfo.Height(),
		BVHTexWidth:       v.bvh.Width(),
		BVHTexHeight:      v.bvh.Height(),
		RayDepth:          v.scene.RayDepth,
		UseBVH:            v.scene.BVHEnabled(),
	}
}

// Run draws into the window until it is closed.
func (v *Viewer) Run() {
	last := v.context.Time()
	for !v.context.ShouldClose() {
		now := v.context.Time()
		v.camera.Orbit(v.orbitSpeed * float32(now-last))
		last = now

		width, height := v.context.GetFramebufferSize()
		if width != v.gbuffer[0].Width() || height != v.gbuffer[0].Height() {
			v.allocateGBuffer(width, height)
			v.camera.SetAspect(width, height)
		}

		v.pass.DrawElement(v.frame(width, height))
		v.context.EndFrame()
	}
}

func (v *Viewer) Shutdown() {
	if v.pass != nil {
		v.pass.Destroy()
	}
	for _, t := range v.gbuffer {
		if t != nil {
			t.Destroy()
		}
	}
	for _, t := range []*textures.Texture{v.envMap, v.floorTex, v.sceneInfo, v.bvh} {
		if t != nil {
			t.Destroy()
		}
	}
}
