// Package texel converts CPU side pixel and payload data into the layouts
// uploaded as textures.
package texel

import (
	"image"

	"golang.org/x/image/draw"
)

// Pack flattens texels into RGBA float data width texels wide, padding the last
// row with zeros. An empty list packs to one zero texel so the texture stays valid.
// Shaders read texel i back at (i % w, i / w).
func Pack(texels [][4]float32, width int) (data []float32, w, h int) {
	if width <= 0 {
		width = 1
	}
	if len(texels) == 0 {
		return make([]float32, 4), 1, 1
	}
	w = width
	if len(texels) < w {
		w = len(texels)
	}
	h = (len(texels) + w - 1) / w
	data = make([]float32, w*h*4)
	for i, t := range texels {
		copy(data[i*4:], t[:])
	}
	return data, w, h
}

// VFlip vertically flips the provided RGBA image so row 0 is the bottom row, as GL expects.
func VFlip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// ToRGBA converts img to RGBA, scaling it down so neither side exceeds maxSize.
// maxSize <= 0 keeps the original size.
func ToRGBA(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(h*maxSize/w, 1)
			w = maxSize
		} else {
			w = max(w*maxSize/h, 1)
			h = maxSize
		}
		rgba := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
