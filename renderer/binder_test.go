package renderer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/rtreflect/graphics/graphicstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setters calls every binder setter once with fixed values.
func setters(p *ReflectionPass) []func() {
	return []func(){
		func() { p.SetTriangleCount(12) },
		func() { p.SetNodeCount(7) },
		func() { p.SetLightPos(mgl32.Vec4{1, 2, 3, 1}) },
		func() { p.SetWidth(800) },
		func() { p.SetHeight(600) },
		func() { p.SetSceneTextureSize(1024, 2) },
		func() { p.SetBVHTextureSize(1024, 1) },
		func() { p.SetCamera(mgl32.Vec3{4, 5, 6}) },
		func() { p.SetViewInv(mgl32.Translate3D(1, 2, 3)) },
		func() { p.SetProjInv(mgl32.Scale3D(2, 2, 2)) },
		func() { p.SetFar(250) },
		func() { p.SetRayDepth(4) },
		func() { p.SetUseBVH(true) },
		func() { p.SetChannelUnits(3, int(NumChannels)) },
	}
}

func TestSettersWriteTypedValues(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	p := newPass(t, rec)
	for _, set := range setters(p) {
		set()
	}

	want := map[string]any{
		UniformTriangleCount:  int32(12),
		UniformNodeCount:      int32(7),
		UniformLightPos:       [4]float32{1, 2, 3, 1},
		UniformWidth:          int32(800),
		UniformHeight:         int32(600),
		UniformSceneTexWidth:  int32(1024),
		UniformSceneTexHeight: int32(2),
		UniformBVHTexWidth:    int32(1024),
		UniformBVHTexHeight:   int32(1),
		UniformCamera:         [3]float32{4, 5, 6},
		UniformViewInv:        [16]float32(mgl32.Translate3D(1, 2, 3)),
		UniformProjInv:        [16]float32(mgl32.Scale3D(2, 2, 2)),
		UniformFar:            float32(250),
		UniformRayDepth:       int32(4),
		UniformUseBVH:         int32(1),
		"u_Pos":               int32(3),
		"u_Nor":               int32(4),
		"u_Albedo":            int32(5),
		"u_Material":          int32(6),
		"u_EnvMap":            int32(7),
		"u_FloorTex":          int32(8),
		"u_SceneInfo":         int32(9),
		"u_BVH":               int32(10),
	}
	assert.Equal(t, want, rec.Written(p.Program()))
}

func TestEverySetterActivatesProgram(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	p := newPass(t, rec)
	other := newPass(t, rec)

	for i, set := range setters(p) {
		other.use()
		rec.Reset()
		set()
		require.NotEmpty(t, rec.Calls, "setter %d", i)
		assert.Equal(t, graphicstest.Call{Op: "UseProgram", Args: []any{p.Program()}}, rec.Calls[0], "setter %d", i)
	}
	assert.Empty(t, rec.Written(other.Program()))
}

func TestSettersSkipUnresolvedSlots(t *testing.T) {
	rec := graphicstest.NewRecorder()
	p := newPass(t, rec)

	assert.NotPanics(t, func() {
		for _, set := range setters(p) {
			set()
		}
	})
	for _, c := range rec.Calls {
		assert.False(t, strings.HasPrefix(c.Op, "Uniform") && c.Op != "UniformLocation", "unexpected %s", c)
	}
	assert.Empty(t, rec.Written(p.Program()))
}

func TestUnresolvedSetterLeavesOtherSlotsAlone(t *testing.T) {
	rec := graphicstest.NewRecorder(UniformFar, UniformRayDepth)
	p := newPass(t, rec)
	p.SetFar(10)
	p.SetRayDepth(2)
	before := rec.Written(p.Program())

	p.SetCamera(mgl32.Vec3{9, 9, 9})
	p.SetUseBVH(true)
	p.SetViewInv(mgl32.Ident4())
	p.SetSceneTextureSize(5, 5)

	assert.Equal(t, before, rec.Written(p.Program()))
}

func TestLastWriteWins(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	p := newPass(t, rec)

	p.SetFar(10)
	p.SetFar(20)
	p.SetLightPos(mgl32.Vec4{1, 1, 1, 1})
	p.SetLightPos(mgl32.Vec4{2, 2, 2, 1})
	p.SetUseBVH(true)
	p.SetUseBVH(false)

	v, _ := rec.Value(p.Program(), UniformFar)
	assert.Equal(t, float32(20), v)
	v, _ = rec.Value(p.Program(), UniformLightPos)
	assert.Equal(t, [4]float32{2, 2, 2, 1}, v)
	v, _ = rec.Value(p.Program(), UniformUseBVH)
	assert.Equal(t, int32(0), v)
}

func TestSetterOrderDoesNotMatter(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	ref := newPass(t, rec)
	for _, set := range setters(ref) {
		set()
	}
	want := rec.Written(ref.Program())

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		p := newPass(t, rec)
		calls := setters(p)
		rng.Shuffle(len(calls), func(a, b int) { calls[a], calls[b] = calls[b], calls[a] })
		for _, set := range calls {
			set()
		}
		assert.Equal(t, want, rec.Written(p.Program()), "permutation %d", i)
	}
}

func TestSettersAreIdempotent(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	p := newPass(t, rec)
	for _, set := range setters(p) {
		set()
	}
	once := rec.Written(p.Program())
	for _, set := range setters(p) {
		set()
	}
	assert.Equal(t, once, rec.Written(p.Program()))
}

func TestSetUseBVH(t *testing.T) {
	rec := graphicstest.NewRecorder(UniformUseBVH)
	p := newPass(t, rec)

	p.SetUseBVH(true)
	v, _ := rec.Value(p.Program(), UniformUseBVH)
	assert.Equal(t, int32(1), v)

	p.SetUseBVH(false)
	v, _ = rec.Value(p.Program(), UniformUseBVH)
	assert.Equal(t, int32(0), v)
}

func TestSetChannelUnitsOnlyCoversSuppliedChannels(t *testing.T) {
	rec := graphicstest.NewRecorder(allUniforms...)
	p := newPass(t, rec)

	p.SetChannelUnits(2, 3)
	written := rec.Written(p.Program())
	assert.Equal(t, map[string]any{
		"u_Pos":    int32(2),
		"u_Nor":    int32(3),
		"u_Albedo": int32(4),
	}, written)
}
