package graphics

// Program is a linked shader program handle.
type Program uint32

// Texture is a GPU texture handle. Textures handed to a pass stay owned by the caller.
type Texture uint32

// VertexArray is a vertex array object holding drawable geometry.
type VertexArray uint32

// Capability names a piece of fixed-function state that can be toggled.
type Capability int

const (
	DepthTest Capability = iota
	Blend
)

func (c Capability) String() string {
	switch c {
	case DepthTest:
		return "DepthTest"
	case Blend:
		return "Blend"
	default:
		return "Unknown"
	}
}

// ClearMask selects the buffers cleared by Device.Clear.
type ClearMask uint32

const (
	ColorBuffer ClearMask = 1 << iota
	DepthBuffer
)

// Device is the slice of a graphics API a render pass needs. All methods must be
// called on the thread that owns the context.
type Device interface {
	// CreateProgram compiles and links a vertex/fragment pair.
	CreateProgram(vertexSource, fragmentSource string) (Program, error)
	DeleteProgram(p Program)
	UseProgram(p Program)

	// UniformLocation returns false when the program does not expose name.
	UniformLocation(p Program, name string) (int32, bool)

	// Uniform writes target the program most recently passed to UseProgram.
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform3fv(loc int32, v [3]float32)
	Uniform4fv(loc int32, v [4]float32)
	UniformMatrix4fv(loc int32, m [16]float32)

	// ActiveTexture selects texture unit n (0 based).
	ActiveTexture(unit uint32)
	BindTexture2D(t Texture)

	DrawingBufferSize() (int, int)
	Viewport(x, y, width, height int32)
	Enable(c Capability)
	Disable(c Capability)
	Clear(mask ClearMask)

	// CreateVertexArray uploads interleaved vertices with components floats each.
	CreateVertexArray(vertices []float32, components int32) VertexArray
	DeleteVertexArray(vao VertexArray)
	DrawArrays(vao VertexArray, count int32)
}
