// Package textures creates the GPU textures a reflection pass samples. The
// textures stay owned by whoever created them; passes only bind them.
package textures

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/rtreflect/graphics"
	"github.com/richinsley/rtreflect/texel"
)

// Texture is a 2D texture and its size.
type Texture struct {
	id     uint32
	width  int
	height int
}

func (t *Texture) ID() graphics.Texture { return graphics.Texture(t.id) }
func (t *Texture) Width() int           { return t.width }
func (t *Texture) Height() int          { return t.height }

func (t *Texture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// IDs returns the handles of ts in order, ready for a pass's target list.
func IDs(ts ...*Texture) []graphics.Texture {
	ids := make([]graphics.Texture, len(ts))
	for i, t := range ts {
		ids[i] = t.ID()
	}
	return ids
}

func newFloatTexture(width, height int, data []float32, filter int32) *Texture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	ptr := gl.Ptr(nil)
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(width), int32(height), 0, gl.RGBA, gl.FLOAT, ptr)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return &Texture{id: id, width: width, height: height}
}

// NewRenderTexture allocates an empty RGBA32F texture, the format of a G-buffer channel.
func NewRenderTexture(width, height int) *Texture {
	return newFloatTexture(width, height, nil, gl.NEAREST)
}

// NewSolidTexture returns a 1x1 texture of color.
func NewSolidTexture(color [4]float32) *Texture {
	return newFloatTexture(1, 1, color[:], gl.NEAREST)
}

// NewDataTexture packs texels row major into a texture width texels wide.
// Shaders read it back with texelFetch(index % width, index / width).
func NewDataTexture(texels [][4]float32, width int) *Texture {
	data, w, h := texel.Pack(texels, width)
	return newFloatTexture(w, h, data, gl.NEAREST)
}
