package texel

import (
	"math"
	"sort"
)

// maxLeafSize is the most triangles a BVH leaf holds.
const maxLeafSize = 4

// floorEpsilon keeps the sign of a floor material readable when its reflectivity is zero.
const floorEpsilon = 1e-3

// Triangle is one scene triangle with its material.
type Triangle struct {
	Vertices     [3][3]float32
	Albedo       [3]float32
	Reflectivity float32
	// Floor triangles take their color from the floor texture.
	Floor bool
}

// Scene is a triangle list packed for the reflection shader.
//
// Texels holds 3 vertex texels per triangle followed by one material texel per
// triangle (rgb albedo, a reflectivity, negated for floor triangles). BVH holds
// 2 texels per node, (min, a) then (max, b). A leaf stores b = -count and a =
// first triangle; an inner node stores its children in a and b. Node 0 is the root.
type Scene struct {
	Texels    [][4]float32
	BVH       [][4]float32
	Triangles int
	Nodes     int
}

type bounds struct {
	min, max [3]float32
}

func emptyBounds() bounds {
	inf := float32(math.Inf(1))
	return bounds{
		min: [3]float32{inf, inf, inf},
		max: [3]float32{-inf, -inf, -inf},
	}
}

func (b *bounds) grow(p [3]float32) {
	for i := 0; i < 3; i++ {
		b.min[i] = min(b.min[i], p[i])
		b.max[i] = max(b.max[i], p[i])
	}
}

func (b bounds) longestAxis() int {
	axis := 0
	extent := b.max[0] - b.min[0]
	for i := 1; i < 3; i++ {
		if e := b.max[i] - b.min[i]; e > extent {
			axis, extent = i, e
		}
	}
	return axis
}

func centroid(t *Triangle) [3]float32 {
	var c [3]float32
	for i := 0; i < 3; i++ {
		c[i] = (t.Vertices[0][i] + t.Vertices[1][i] + t.Vertices[2][i]) / 3
	}
	return c
}

type bvhBuilder struct {
	tris  []Triangle
	order []int
	nodes [][2][4]float32
}

// build emits the node covering order[start:end] and returns its index.
func (b *bvhBuilder) build(start, end int) int {
	box := emptyBounds()
	cbox := emptyBounds()
	for _, idx := range b.order[start:end] {
		t := &b.tris[idx]
		for _, v := range t.Vertices {
			box.grow(v)
		}
		cbox.grow(centroid(t))
	}

	node := len(b.nodes)
	b.nodes = append(b.nodes, [2][4]float32{})

	var left, right float32
	if end-start <= maxLeafSize {
		left, right = float32(start), -float32(end-start)
	} else {
		axis := cbox.longestAxis()
		span := b.order[start:end]
		sort.SliceStable(span, func(i, j int) bool {
			return centroid(&b.tris[span[i]])[axis] < centroid(&b.tris[span[j]])[axis]
		})
		mid := start + (end-start)/2
		left = float32(b.build(start, mid))
		right = float32(b.build(mid, end))
	}

	b.nodes[node] = [2][4]float32{
		{box.min[0], box.min[1], box.min[2], left},
		{box.max[0], box.max[1], box.max[2], right},
	}
	return node
}

// PackScene builds a BVH over tris and packs both into texel lists. Triangles
// are reordered so every leaf covers a contiguous range. An empty list packs to
// an empty scene with no nodes.
func PackScene(tris []Triangle) Scene {
	if len(tris) == 0 {
		return Scene{}
	}

	b := &bvhBuilder{tris: tris, order: make([]int, len(tris))}
	for i := range b.order {
		b.order[i] = i
	}
	b.build(0, len(tris))

	texels := make([][4]float32, 0, len(tris)*4)
	for _, idx := range b.order {
		for _, v := range tris[idx].Vertices {
			texels = append(texels, [4]float32{v[0], v[1], v[2], 1})
		}
	}
	for _, idx := range b.order {
		t := tris[idx]
		a := t.Reflectivity
		if t.Floor {
			a = -max(a, floorEpsilon)
		}
		texels = append(texels, [4]float32{t.Albedo[0], t.Albedo[1], t.Albedo[2], a})
	}

	bvh := make([][4]float32, 0, len(b.nodes)*2)
	for _, n := range b.nodes {
		bvh = append(bvh, n[0], n[1])
	}

	return Scene{
		Texels:    texels,
		BVH:       bvh,
		Triangles: len(tris),
		Nodes:     len(b.nodes),
	}
}
