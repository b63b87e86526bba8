package options

import (
	"flag"
)

type RenderOptions struct {
	Help       *bool
	Mode       *string // "window" or "record"
	Duration   *float64
	FPS        *int
	Width      *int
	Height     *int
	OutputFile *string
	Codec      *string
	FFMPEGPath *string

	VertexShader   *string // optional override of the quad vertex shader
	FragmentShader *string // optional override of the reflection shader (WebGL2 GLSL)
	EnvMap         *string
	FloorTexture   *string
	MaxTextureSize *int

	SceneFile *string // YAML scene file, see SceneConfig
	RayDepth  *int
	UseBVH    *bool
	Orbit     *float64 // camera orbit speed in radians per second
}

// Register declares every option on fs.
func Register(fs *flag.FlagSet) *RenderOptions {
	return &RenderOptions{
		Help:       fs.Bool("help", false, "Show help message"),
		Mode:       fs.String("mode", "window", "Run mode: window or record"),
		Duration:   fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording"),
		Width:      fs.Int("width", 1280, "Width of the output"),
		Height:     fs.Int("height", 720, "Height of the output"),
		OutputFile: fs.String("output", "output.mp4", "Output file name for recording"),
		Codec:      fs.String("codec", "h264", "Video codec for recording: h264 or hevc"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),

		VertexShader:   fs.String("vert", "", "Vertex shader file (default: built in quad shader)"),
		FragmentShader: fs.String("frag", "", "Reflection fragment shader file (default: built in)"),
		EnvMap:         fs.String("envmap", "", "Equirectangular environment map image"),
		FloorTexture:   fs.String("floor", "", "Floor texture image"),
		MaxTextureSize: fs.Int("maxtex", 4096, "Largest side of an uploaded image texture"),

		SceneFile: fs.String("scene", "", "YAML scene file (camera, light, ray settings)"),
		RayDepth:  fs.Int("depth", 0, "Ray recursion depth, 0 keeps the scene file value"),
		UseBVH:    fs.Bool("bvh", true, "Use BVH traversal instead of brute force"),
		Orbit:     fs.Float64("orbit", 0.0, "Camera orbit speed in radians per second"),
	}
}
