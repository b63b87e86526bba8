// Package camera provides a perspective look-at camera.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera looking from Eye at Target.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	// FovY is the vertical field of view in degrees.
	FovY   float32
	Aspect float32
	Near   float32
	FarZ   float32
}

// New returns a camera with a y-up basis.
func New(eye, target mgl32.Vec3, fovY, aspect, near, far float32) *Camera {
	return &Camera{
		Eye:    eye,
		Target: target,
		Up:     mgl32.Vec3{0, 1, 0},
		FovY:   fovY,
		Aspect: aspect,
		Near:   near,
		FarZ:   far,
	}
}

func (c *Camera) Position() mgl32.Vec3 {
	return c.Eye
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.FarZ)
}

func (c *Camera) Far() float32 {
	return c.FarZ
}

// SetAspect updates the aspect ratio from a framebuffer size. Zero sizes are ignored.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Orbit rotates the eye around the target about the up axis by angle radians.
func (c *Camera) Orbit(angle float32) {
	offset := c.Eye.Sub(c.Target)
	sin, cos := math.Sincos(float64(angle))
	s, co := float32(sin), float32(cos)
	rotated := mgl32.Vec3{
		offset.X()*co + offset.Z()*s,
		offset.Y(),
		-offset.X()*s + offset.Z()*co,
	}
	c.Eye = c.Target.Add(rotated)
}
