package core

import "time"

// App defines the application hooks.
type App interface {
	OnStart(e *Engine) error // called once after window/renderer init
	OnEvent(e *Engine, ev Event)
	OnShutdown(e *Engine) // before the renderer is torn down
}

// Engine exposes core services to the App. It also acts as the Container
// widgets mount into: window events, frame scheduling and a single canvas.
type Engine struct {
	Window   Window
	Renderer Renderer
	Frames   *FrameQueue

	events Dispatcher
	canvas *engineCanvas
	start  time.Time
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Config for the engine run.
type Config struct {
	Title      string
	Width      int
	Height     int
	VSync      bool
	ClearColor [4]float32 // RGBA
}
