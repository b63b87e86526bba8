package glbackend

import (
	"fmt"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/rtreflect/graphics"
)

var glInitOnce sync.Once

// Init loads the OpenGL function pointers. The context must be current.
func Init() error {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return nil
}

// Device implements graphics.Device on desktop OpenGL 4.1.
type Device struct {
	surface graphics.Surface
}

// New returns a Device drawing into surface. Init must have succeeded.
func New(surface graphics.Surface) *Device {
	return &Device{surface: surface}
}

// SetSurface switches the surface whose size DrawingBufferSize reports.
func (d *Device) SetSurface(surface graphics.Surface) {
	d.surface = surface
}

func (d *Device) CreateProgram(vertexSource, fragmentSource string) (graphics.Program, error) {
	program, err := newProgram(vertexSource, fragmentSource)
	if err != nil {
		return 0, err
	}
	return graphics.Program(program), nil
}

func (d *Device) DeleteProgram(p graphics.Program) {
	gl.DeleteProgram(uint32(p))
}

func (d *Device) UseProgram(p graphics.Program) {
	gl.UseProgram(uint32(p))
}

func (d *Device) UniformLocation(p graphics.Program, name string) (int32, bool) {
	loc := gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
	return loc, loc >= 0
}

func (d *Device) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (d *Device) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (d *Device) Uniform3fv(loc int32, v [3]float32) {
	gl.Uniform3fv(loc, 1, &v[0])
}

func (d *Device) Uniform4fv(loc int32, v [4]float32) {
	gl.Uniform4fv(loc, 1, &v[0])
}

// UniformMatrix4fv uploads m as stored, column major.
func (d *Device) UniformMatrix4fv(loc int32, m [16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *Device) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (d *Device) BindTexture2D(t graphics.Texture) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) DrawingBufferSize() (int, int) {
	return d.surface.GetFramebufferSize()
}

func (d *Device) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func capability(c graphics.Capability) uint32 {
	switch c {
	case graphics.DepthTest:
		return gl.DEPTH_TEST
	case graphics.Blend:
		return gl.BLEND
	default:
		panic(fmt.Sprintf("glbackend: unknown capability %v", c))
	}
}

func (d *Device) Enable(c graphics.Capability) {
	gl.Enable(capability(c))
}

func (d *Device) Disable(c graphics.Capability) {
	gl.Disable(capability(c))
}

func (d *Device) Clear(mask graphics.ClearMask) {
	var bits uint32
	if mask&graphics.ColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&graphics.DepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) CreateVertexArray(vertices []float32, components int32) graphics.VertexArray {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, components, gl.FLOAT, false, components*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return graphics.VertexArray(vao)
}

func (d *Device) DeleteVertexArray(vao graphics.VertexArray) {
	v := uint32(vao)
	gl.DeleteVertexArrays(1, &v)
}

func (d *Device) DrawArrays(vao graphics.VertexArray, count int32) {
	gl.BindVertexArray(uint32(vao))
	gl.DrawArrays(gl.TRIANGLES, 0, count)
	gl.BindVertexArray(0)
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex stage: %w", err)
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, fmt.Errorf("fragment stage: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", strings.TrimRight(log, "\x00"))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", strings.TrimRight(logText, "\x00"))
	}
	return shader, nil
}

var _ graphics.Device = (*Device)(nil)
