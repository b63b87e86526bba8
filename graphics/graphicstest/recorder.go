// Package graphicstest provides an in-memory graphics.Device for tests.
package graphicstest

import (
	"fmt"

	"github.com/richinsley/rtreflect/graphics"
)

// Call is one recorded device call.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

type program struct {
	vertex   string
	fragment string
	// name -> location for every uniform the program exposes
	locations map[string]int32
	values    map[int32]any
	deleted   bool
}

// Recorder implements graphics.Device without a GPU. Programs expose exactly the
// uniforms listed in Uniforms at creation time. Uniform writes are stored on the
// program current at the time of the write, mirroring GL.
type Recorder struct {
	// Uniforms lists the uniform names every program created afterwards exposes.
	Uniforms []string
	// CompileErr, when set, fails the next CreateProgram.
	CompileErr error

	Width, Height int

	Calls []Call

	programs    map[graphics.Program]*program
	nextProgram graphics.Program
	current     graphics.Program

	activeUnit uint32
	units      map[uint32]graphics.Texture

	nextVAO  graphics.VertexArray
	vertices map[graphics.VertexArray][]float32

	enabled map[graphics.Capability]bool
}

// NewRecorder returns a Recorder whose programs expose the named uniforms.
func NewRecorder(uniforms ...string) *Recorder {
	return &Recorder{
		Uniforms: uniforms,
		Width:    640,
		Height:   480,
		programs: make(map[graphics.Program]*program),
		units:    make(map[uint32]graphics.Texture),
		vertices: make(map[graphics.VertexArray][]float32),
		enabled:  make(map[graphics.Capability]bool),
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) CreateProgram(vertexSource, fragmentSource string) (graphics.Program, error) {
	r.record("CreateProgram")
	if r.CompileErr != nil {
		err := r.CompileErr
		r.CompileErr = nil
		return 0, err
	}
	r.nextProgram++
	p := &program{
		vertex:    vertexSource,
		fragment:  fragmentSource,
		locations: make(map[string]int32),
		values:    make(map[int32]any),
	}
	for i, name := range r.Uniforms {
		p.locations[name] = int32(i)
	}
	r.programs[r.nextProgram] = p
	return r.nextProgram, nil
}

func (r *Recorder) DeleteProgram(p graphics.Program) {
	r.record("DeleteProgram", p)
	if prog, ok := r.programs[p]; ok {
		prog.deleted = true
	}
}

func (r *Recorder) UseProgram(p graphics.Program) {
	r.record("UseProgram", p)
	r.current = p
}

func (r *Recorder) UniformLocation(p graphics.Program, name string) (int32, bool) {
	r.record("UniformLocation", p, name)
	prog, ok := r.programs[p]
	if !ok {
		return -1, false
	}
	loc, ok := prog.locations[name]
	if !ok {
		return -1, false
	}
	return loc, true
}

func (r *Recorder) write(op string, loc int32, v any) {
	r.record(op, loc, v)
	prog, ok := r.programs[r.current]
	if !ok {
		return
	}
	prog.values[loc] = v
}

func (r *Recorder) Uniform1i(loc int32, v int32)       { r.write("Uniform1i", loc, v) }
func (r *Recorder) Uniform1f(loc int32, v float32)     { r.write("Uniform1f", loc, v) }
func (r *Recorder) Uniform3fv(loc int32, v [3]float32) { r.write("Uniform3fv", loc, v) }
func (r *Recorder) Uniform4fv(loc int32, v [4]float32) { r.write("Uniform4fv", loc, v) }
func (r *Recorder) UniformMatrix4fv(loc int32, m [16]float32) {
	r.write("UniformMatrix4fv", loc, m)
}

func (r *Recorder) ActiveTexture(unit uint32) {
	r.record("ActiveTexture", unit)
	r.activeUnit = unit
}

func (r *Recorder) BindTexture2D(t graphics.Texture) {
	r.record("BindTexture2D", t)
	r.units[r.activeUnit] = t
}

func (r *Recorder) DrawingBufferSize() (int, int) {
	return r.Width, r.Height
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) Enable(c graphics.Capability) {
	r.record("Enable", c)
	r.enabled[c] = true
}

func (r *Recorder) Disable(c graphics.Capability) {
	r.record("Disable", c)
	r.enabled[c] = false
}

func (r *Recorder) Clear(mask graphics.ClearMask) {
	r.record("Clear", mask)
}

func (r *Recorder) CreateVertexArray(vertices []float32, components int32) graphics.VertexArray {
	r.record("CreateVertexArray", len(vertices), components)
	r.nextVAO++
	r.vertices[r.nextVAO] = append([]float32(nil), vertices...)
	return r.nextVAO
}

func (r *Recorder) DeleteVertexArray(vao graphics.VertexArray) {
	r.record("DeleteVertexArray", vao)
	delete(r.vertices, vao)
}

func (r *Recorder) DrawArrays(vao graphics.VertexArray, count int32) {
	r.record("DrawArrays", vao, count, r.current)
}

// Value returns the value last written to the named uniform of p.
func (r *Recorder) Value(p graphics.Program, name string) (any, bool) {
	prog, ok := r.programs[p]
	if !ok {
		return nil, false
	}
	loc, ok := prog.locations[name]
	if !ok {
		return nil, false
	}
	v, ok := prog.values[loc]
	return v, ok
}

// Written returns every uniform of p that holds a value, keyed by name.
func (r *Recorder) Written(p graphics.Program) map[string]any {
	out := make(map[string]any)
	prog, ok := r.programs[p]
	if !ok {
		return out
	}
	for name, loc := range prog.locations {
		if v, ok := prog.values[loc]; ok {
			out[name] = v
		}
	}
	return out
}

// BoundTexture returns the texture bound to unit.
func (r *Recorder) BoundTexture(unit uint32) (graphics.Texture, bool) {
	t, ok := r.units[unit]
	return t, ok
}

// BoundUnits returns every texture unit that has had a texture bound.
func (r *Recorder) BoundUnits() map[uint32]graphics.Texture {
	out := make(map[uint32]graphics.Texture, len(r.units))
	for k, v := range r.units {
		out[k] = v
	}
	return out
}

// Enabled reports the last state set for c.
func (r *Recorder) Enabled(c graphics.Capability) bool {
	return r.enabled[c]
}

// Deleted reports whether p was deleted.
func (r *Recorder) Deleted(p graphics.Program) bool {
	prog, ok := r.programs[p]
	return ok && prog.deleted
}

// Sources returns the sources p was created from.
func (r *Recorder) Sources(p graphics.Program) (vertex, fragment string) {
	if prog, ok := r.programs[p]; ok {
		return prog.vertex, prog.fragment
	}
	return "", ""
}

// Ops returns the recorded operation names in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Index returns the position of the first call to op, or -1.
func (r *Recorder) Index(op string) int {
	for i, c := range r.Calls {
		if c.Op == op {
			return i
		}
	}
	return -1
}

// LastIndex returns the position of the last call to op, or -1.
func (r *Recorder) LastIndex(op string) int {
	for i := len(r.Calls) - 1; i >= 0; i-- {
		if r.Calls[i].Op == op {
			return i
		}
	}
	return -1
}

// Count returns how many times op was called.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps device state.
func (r *Recorder) Reset() {
	r.Calls = nil
}

var _ graphics.Device = (*Recorder)(nil)
