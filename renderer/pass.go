package renderer

import (
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/rtreflect/graphics"
	"github.com/richinsley/rtreflect/shader"
)

// ErrCompile wraps every shader compile or link failure returned by NewReflectionPass.
var ErrCompile = errors.New("reflection pass: shader program failed to build")

// ReflectionPass draws the ray-traced reflection composite over a screen quad.
// It owns its program exclusively. It is not safe for concurrent use and every
// method must run on the thread that owns the graphics context.
type ReflectionPass struct {
	dev     graphics.Device
	program graphics.Program
	quad    *ScreenQuad
	slots   slotTable
}

// NewReflectionPass compiles and links the two stages and resolves the pass inputs
// by their literal uniform names.
func NewReflectionPass(dev graphics.Device, vertexSource, fragmentSource string) (*ReflectionPass, error) {
	return NewReflectionPassFromSource(dev, shader.Plain(vertexSource, fragmentSource))
}

// NewReflectionPassFromSource builds the pass from src, resolving inputs through
// src's name mapping. A missing input is recorded as an unresolved slot.
func NewReflectionPassFromSource(dev graphics.Device, src *shader.Source) (*ReflectionPass, error) {
	program, err := dev.CreateProgram(src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	p := &ReflectionPass{
		dev:     dev,
		program: program,
		quad:    NewScreenQuad(),
	}
	dev.UseProgram(program)
	p.quad.Create(dev)

	resolved := p.slots.resolve(func(name string) Slot {
		mapped, ok := src.Lookup(name)
		if !ok {
			return Slot{}
		}
		loc, ok := dev.UniformLocation(program, mapped)
		if !ok {
			return Slot{}
		}
		return ResolvedSlot(loc)
	})
	log.Printf("Reflection pass: resolved %d of %d shader inputs", resolved, p.slots.total())

	return p, nil
}

// Program returns the pass's shader program.
func (p *ReflectionPass) Program() graphics.Program {
	return p.program
}

// Ready reports whether the pass was built and not yet destroyed.
func (p *ReflectionPass) Ready() bool {
	return p != nil && p.program != 0
}

// Destroy releases the program and the screen quad. Input textures are not touched.
func (p *ReflectionPass) Destroy() {
	if !p.Ready() {
		return
	}
	p.quad.Destroy(p.dev)
	p.dev.DeleteProgram(p.program)
	p.program = 0
}

// binding is proof that the pass's program is current. Uniform writes go through
// it so that no write can land on another pass's program.
type binding struct {
	dev graphics.Device
}

func (p *ReflectionPass) use() binding {
	p.dev.UseProgram(p.program)
	return binding{dev: p.dev}
}

func (b binding) setInt(s Slot, v int32) {
	if loc, ok := s.Location(); ok {
		b.dev.Uniform1i(loc, v)
	}
}

func (b binding) setFloat(s Slot, v float32) {
	if loc, ok := s.Location(); ok {
		b.dev.Uniform1f(loc, v)
	}
}

func (b binding) setVec3(s Slot, v [3]float32) {
	if loc, ok := s.Location(); ok {
		b.dev.Uniform3fv(loc, v)
	}
}

func (b binding) setVec4(s Slot, v [4]float32) {
	if loc, ok := s.Location(); ok {
		b.dev.Uniform4fv(loc, v)
	}
}

func (b binding) setMat4(s Slot, m [16]float32) {
	if loc, ok := s.Location(); ok {
		b.dev.UniformMatrix4fv(loc, m)
	}
}
