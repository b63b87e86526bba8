package texel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridTriangles(n int) []Triangle {
	tris := make([]Triangle, n)
	for i := range tris {
		x := float32(i % 5)
		z := float32(i / 5)
		tris[i] = Triangle{
			Vertices:     [3][3]float32{{x, 0, z}, {x + 1, 0, z}, {x, 1, z}},
			Albedo:       [3]float32{x / 5, 0.5, z / 5},
			Reflectivity: float32(i) / float32(n),
		}
	}
	return tris
}

// walk visits the BVH as the shader does and returns the leaf ranges it reaches.
func walk(t *testing.T, s Scene) []int {
	t.Helper()
	var hits []int
	stack := []int{0}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		require.Less(t, node, s.Nodes)
		a, b := s.BVH[node*2], s.BVH[node*2+1]
		for i := 0; i < 3; i++ {
			assert.LessOrEqual(t, a[i], b[i])
		}
		if b[3] < 0 {
			first, count := int(a[3]), int(-b[3])
			assert.LessOrEqual(t, count, maxLeafSize)
			for k := 0; k < count; k++ {
				hits = append(hits, first+k)
			}
			continue
		}
		stack = append(stack, int(a[3]), int(b[3]))
	}
	return hits
}

func TestPackSceneLayout(t *testing.T) {
	tris := gridTriangles(23)
	s := PackScene(tris)

	assert.Equal(t, 23, s.Triangles)
	require.Len(t, s.Texels, 23*4)
	require.Len(t, s.BVH, s.Nodes*2)
	assert.Greater(t, s.Nodes, 1)

	hits := walk(t, s)
	assert.ElementsMatch(t, seq(23), hits)
}

func TestPackSceneLeavesContainTheirTriangles(t *testing.T) {
	s := PackScene(gridTriangles(17))
	for node := 0; node < s.Nodes; node++ {
		a, b := s.BVH[node*2], s.BVH[node*2+1]
		if b[3] >= 0 {
			continue
		}
		for k := int(a[3]); k < int(a[3])-int(b[3]); k++ {
			for v := 0; v < 3; v++ {
				p := s.Texels[k*3+v]
				for i := 0; i < 3; i++ {
					assert.GreaterOrEqual(t, p[i], a[i])
					assert.LessOrEqual(t, p[i], b[i])
				}
			}
		}
	}
}

func TestPackSceneMaterialsFollowVertices(t *testing.T) {
	tris := gridTriangles(9)
	s := PackScene(tris)

	// Each packed triangle keeps its own material after reordering.
	for i := 0; i < s.Triangles; i++ {
		v0 := s.Texels[i*3]
		m := s.Texels[s.Triangles*3+i]
		var src *Triangle
		for j := range tris {
			if tris[j].Vertices[0] == [3]float32{v0[0], v0[1], v0[2]} {
				src = &tris[j]
			}
		}
		require.NotNil(t, src)
		assert.Equal(t, src.Albedo, [3]float32{m[0], m[1], m[2]})
		assert.Equal(t, src.Reflectivity, m[3])
	}
}

func TestPackSceneSmallListIsOneLeaf(t *testing.T) {
	s := PackScene(gridTriangles(3))
	require.Equal(t, 1, s.Nodes)
	assert.Equal(t, float32(0), s.BVH[0][3])
	assert.Equal(t, float32(-3), s.BVH[1][3])
}

func TestPackSceneFloorMaterialIsNegative(t *testing.T) {
	s := PackScene([]Triangle{
		{Vertices: [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}}, Floor: true},
		{Vertices: [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}}, Floor: true, Reflectivity: 0.3},
	})
	assert.Less(t, s.Texels[6][3], float32(0))
	assert.Less(t, s.Texels[7][3], float32(0))
	assert.ElementsMatch(t, []float32{-floorEpsilon, -0.3}, []float32{s.Texels[6][3], s.Texels[7][3]})
}

func TestPackSceneEmpty(t *testing.T) {
	s := PackScene(nil)
	assert.Zero(t, s.Triangles)
	assert.Zero(t, s.Nodes)
	assert.Empty(t, s.Texels)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
