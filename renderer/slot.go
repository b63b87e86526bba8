package renderer

// Slot is a uniform location that may be absent. Shader variants are free to
// omit inputs they do not use, and the driver strips uniforms that do not
// contribute to the output, so an unresolved Slot is expected, not an error.
type Slot struct {
	loc      int32
	resolved bool
}

// ResolvedSlot returns a Slot for a known location.
func ResolvedSlot(loc int32) Slot {
	return Slot{loc: loc, resolved: true}
}

// Location returns the uniform location and whether the shader exposes it.
func (s Slot) Location() (int32, bool) {
	return s.loc, s.resolved
}

// Resolved reports whether the shader exposes the slot.
func (s Slot) Resolved() bool {
	return s.resolved
}

// Uniform names read by the reflection shader.
const (
	UniformTriangleCount  = "u_TriangleCount"
	UniformNodeCount      = "u_NodeCount"
	UniformLightPos       = "u_LightPos"
	UniformWidth          = "u_Width"
	UniformHeight         = "u_Height"
	UniformSceneTexWidth  = "u_SceneTexWidth"
	UniformSceneTexHeight = "u_SceneTexHeight"
	UniformBVHTexWidth    = "u_BVHTexWidth"
	UniformBVHTexHeight   = "u_BVHTexHeight"
	UniformCamera         = "u_Camera"
	UniformViewInv        = "u_ViewInv"
	UniformProjInv        = "u_ProjInv"
	UniformFar            = "u_Far"
	UniformRayDepth       = "u_RayDepth"
	UniformUseBVH         = "u_UseBVH"
)

// slotTable holds every slot the pass writes, resolved once at construction.
type slotTable struct {
	triangleCount  Slot
	nodeCount      Slot
	lightPos       Slot
	width          Slot
	height         Slot
	sceneTexWidth  Slot
	sceneTexHeight Slot
	bvhTexWidth    Slot
	bvhTexHeight   Slot
	camera         Slot
	viewInv        Slot
	projInv        Slot
	far            Slot
	rayDepth       Slot
	useBVH         Slot
	samplers       [NumChannels]Slot
}

type namedSlot struct {
	name string
	slot *Slot
}

// entries pairs each scalar slot with its uniform name.
func (t *slotTable) entries() []namedSlot {
	return []namedSlot{
		{UniformTriangleCount, &t.triangleCount},
		{UniformNodeCount, &t.nodeCount},
		{UniformLightPos, &t.lightPos},
		{UniformWidth, &t.width},
		{UniformHeight, &t.height},
		{UniformSceneTexWidth, &t.sceneTexWidth},
		{UniformSceneTexHeight, &t.sceneTexHeight},
		{UniformBVHTexWidth, &t.bvhTexWidth},
		{UniformBVHTexHeight, &t.bvhTexHeight},
		{UniformCamera, &t.camera},
		{UniformViewInv, &t.viewInv},
		{UniformProjInv, &t.projInv},
		{UniformFar, &t.far},
		{UniformRayDepth, &t.rayDepth},
		{UniformUseBVH, &t.useBVH},
	}
}

// resolve looks every slot up through lookup and returns how many resolved.
func (t *slotTable) resolve(lookup func(name string) Slot) int {
	n := 0
	for _, e := range t.entries() {
		*e.slot = lookup(e.name)
		if e.slot.resolved {
			n++
		}
	}
	for ch := Channel(0); ch < NumChannels; ch++ {
		t.samplers[ch] = lookup(ch.Uniform())
		if t.samplers[ch].resolved {
			n++
		}
	}
	return n
}

func (t *slotTable) total() int {
	return len(t.entries()) + int(NumChannels)
}
