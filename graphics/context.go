package graphics

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
}

// Surface is anything that knows the pixel size of the buffer being drawn into.
type Surface interface {
	GetFramebufferSize() (int, int)
}
