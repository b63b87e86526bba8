package textures

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/rtreflect/texel"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Sampler describes how an image texture is filtered and wrapped.
type Sampler struct {
	Filter string // "mipmap", "linear" or "nearest"
	Wrap   string // "repeat" or "clamp"
	VFlip  bool
	SRGB   bool
}

// LoadImage decodes an image file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// NewImageTexture uploads img as a 2D texture.
func NewImageTexture(img image.Image, sampler Sampler, maxSize int) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	rgba := texel.ToRGBA(img, maxSize)
	if sampler.VFlip {
		rgba = texel.VFlip(rgba)
	}

	width := int32(rgba.Rect.Size().X)
	height := int32(rgba.Rect.Size().Y)

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)

	var internalFormat int32 = gl.RGBA8
	if sampler.SRGB {
		internalFormat = gl.SRGB8_ALPHA8
	}

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, getWrapMode(sampler.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, getWrapMode(sampler.Wrap))
	minFilter, magFilter := getFilterMode(sampler.Filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))

	if sampler.Filter == "mipmap" {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{id: textureID, width: int(width), height: int(height)}, nil
}

// LoadImageTexture loads path into a texture, falling back to a 1x1 texture of
// fallback when path is empty.
func LoadImageTexture(path string, sampler Sampler, maxSize int, fallback [4]float32) (*Texture, error) {
	if path == "" {
		return NewSolidTexture(fallback), nil
	}
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded texture %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return NewImageTexture(img, sampler, maxSize)
}

func getWrapMode(wrap string) int32 {
	switch wrap {
	case "repeat":
		return gl.REPEAT
	case "clamp":
		return gl.CLAMP_TO_EDGE
	default:
		return gl.REPEAT
	}
}

func getFilterMode(filter string) (minFilter, magFilter int32) {
	switch filter {
	case "mipmap":
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	case "linear":
		return gl.LINEAR, gl.LINEAR
	case "nearest":
		return gl.NEAREST, gl.NEAREST
	default:
		return gl.LINEAR, gl.LINEAR
	}
}
