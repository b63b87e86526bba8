// Package encoder pipes rendered RGBA frames into ffmpeg.
package encoder

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame represents a single rendered video frame's data, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Config describes the encoded stream.
type Config struct {
	Width      int
	Height     int
	FPS        int
	OutputFile string
	Codec      string // "h264" or "hevc"
	FFMPEGPath string
}

// InputArgs returns the rawvideo demuxer arguments for frames of cfg.
func InputArgs(cfg Config) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"r":       cfg.FPS,
	}
}

// OutputArgs returns the encoder arguments. Frames are read back bottom row
// first, so the stream is flipped.
func OutputArgs(cfg Config) ffmpeg.KwArgs {
	out := ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}
	switch runtime.GOOS {
	case "darwin":
		if cfg.Codec == "hevc" {
			out["c:v"] = "hevc_videotoolbox"
		} else {
			out["c:v"] = "h264_videotoolbox"
		}
	default:
		if cfg.Codec == "hevc" {
			out["c:v"] = "libx265"
		} else {
			out["c:v"] = "libx264"
		}
	}
	if cfg.Codec == "hevc" && strings.HasSuffix(cfg.OutputFile, ".mp4") {
		out["tag:v"] = "hvc1"
	}
	return out
}

// Encoder consumes frames from a channel and writes them to ffmpeg's stdin.
type Encoder struct {
	cfg    Config
	frames chan *Frame
	done   chan error
}

// Start launches ffmpeg and the consumer goroutine. Close the encoder to finish the file.
func Start(cfg Config) *Encoder {
	e := &Encoder{
		cfg:    cfg,
		frames: make(chan *Frame, 3),
		done:   make(chan error, 1),
	}
	go e.run()
	return e
}

// Frames is the producer side of the encoder.
func (e *Encoder) Frames() chan<- *Frame {
	return e.frames
}

func (e *Encoder) run() {
	pipeReader, pipeWriter := io.Pipe()

	cmd := ffmpeg.Input("pipe:", InputArgs(e.cfg)).
		Output(e.cfg.OutputFile, OutputArgs(e.cfg)).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if e.cfg.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(e.cfg.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := cmd.Run()
		// unblock the writer if ffmpeg exits early
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	frameSize := e.cfg.Width * e.cfg.Height * 4
	for frame := range e.frames {
		if len(frame.Pixels) != frameSize {
			log.Printf("Dropping frame %d: got %d bytes, want %d", frame.PTS, len(frame.Pixels), frameSize)
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			log.Printf("Error writing frame %d to ffmpeg: %v", frame.PTS, err)
			break
		}
	}
	// drain so the producer never blocks after a write failure
	for range e.frames {
	}
	pipeWriter.Close()
	e.done <- <-errc
}

// Close signals the end of the stream and waits for ffmpeg to exit.
func (e *Encoder) Close() error {
	close(e.frames)
	if err := <-e.done; err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}
