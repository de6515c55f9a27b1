package core

import "errors"

var (
	ErrNoRenderer     = errors.New("core: no renderer available")
	ErrCanvasAttached = errors.New("core: a canvas is already attached")
)

// Container is what a widget mounts into: a pixel-sized area with
// window-wide input events, a frame scheduler and room for one canvas.
type Container interface {
	Size() (w, h int)
	Events() EventTarget
	Scheduler() Scheduler
	AttachCanvas() (Canvas, error)
}

// Canvas is the drawing surface a widget owns while mounted. Its Events
// only carry input aimed at the canvas itself (wheel).
type Canvas interface {
	Events() EventTarget
	Renderer() Renderer
	Detach()
}

func (e *Engine) Size() (int, int)     { return e.Window.FramebufferSize() }
func (e *Engine) Events() EventTarget  { return &e.events }
func (e *Engine) Scheduler() Scheduler { return e.Frames }
func (e *Engine) ListenerCount() int   { return e.events.Len() }
func (e *Engine) HasCanvas() bool      { return e.canvas != nil }

func (e *Engine) AttachCanvas() (Canvas, error) {
	if e.Renderer == nil {
		return nil, ErrNoRenderer
	}
	if e.canvas != nil {
		return nil, ErrCanvasAttached
	}
	e.canvas = &engineCanvas{eng: e}
	return e.canvas, nil
}

// dispatch routes a window event: wheel goes to the attached canvas only,
// everything else to window listeners.
func (e *Engine) dispatch(ev Event) {
	if ev.Kind() == KindWheel {
		if e.canvas != nil {
			e.canvas.events.Emit(ev)
		}
		return
	}
	e.events.Emit(ev)
}

type engineCanvas struct {
	eng    *Engine
	events Dispatcher
}

func (c *engineCanvas) Events() EventTarget { return &c.events }
func (c *engineCanvas) Renderer() Renderer  { return c.eng.Renderer }

func (c *engineCanvas) Detach() {
	if c.eng.canvas == c {
		c.eng.canvas = nil
	}
	c.events = Dispatcher{}
}
