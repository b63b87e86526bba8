package viewer

import (
	"log"

	"github.com/richinsley/rtreflect/encoder"
	"github.com/richinsley/rtreflect/offscreen"
	"github.com/richinsley/rtreflect/options"
)

// RunRecord renders a fixed number of frames offscreen and encodes them.
func (v *Viewer) RunRecord(opts *options.RenderOptions) error {
	width, height := *opts.Width, *opts.Height
	target, err := offscreen.New(width, height)
	if err != nil {
		return err
	}
	defer target.Destroy()

	v.dev.SetSurface(target)
	defer v.dev.SetSurface(v.context)
	v.allocateGBuffer(width, height)
	v.camera.SetAspect(width, height)

	enc := encoder.Start(encoder.Config{
		Width:      width,
		Height:     height,
		FPS:        *opts.FPS,
		OutputFile: *opts.OutputFile,
		Codec:      *opts.Codec,
		FFMPEGPath: *opts.FFMPEGPath,
	})

	totalFrames := int(*opts.Duration * float64(*opts.FPS))
	timeStep := float32(1.0 / float64(*opts.FPS))
	log.Printf("Recording %d frames to %s", totalFrames, *opts.OutputFile)

	for i := 0; i < totalFrames; i++ {
		v.camera.Orbit(v.orbitSpeed * timeStep)

		target.Bind()
		v.pass.DrawElement(v.frame(width, height))
		target.Unbind()

		enc.Frames() <- &encoder.Frame{Pixels: target.ReadPixels(), PTS: int64(i)}
	}

	return enc.Close()
}
