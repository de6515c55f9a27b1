package core

import (
	"fmt"
	"runtime"
	"time"

	"github.com/hubastard/orbit/engine/logging"
)

// Run wires the platform window + renderer and executes the main loop. Each
// iteration polls input, runs the frame callbacks queued on Engine.Frames and
// presents.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newRenderer func(Window, Config) (Renderer, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	win, err := newWindow(cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	rend, err := newRenderer(win, cfg)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer rend.Shutdown()

	w, h := win.FramebufferSize()
	rend.Resize(w, h)

	eng := NewEngine(win, rend)
	win.SetEventCallback(func(ev Event) {
		if r, ok := ev.(EventResize); ok {
			if r.W < 1 || r.H < 1 {
				return
			}
			rend.Resize(r.W, r.H)
		}
		app.OnEvent(eng, ev)
		eng.dispatch(ev)
	})

	if err := app.OnStart(eng); err != nil {
		app.OnShutdown(eng)
		return err
	}

	clear := cfg.ClearColor
	for !win.ShouldClose() {
		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()

		rend.Clear(clear[0], clear[1], clear[2], clear[3])
		eng.Frames.RunFrame(time.Now())

		win.SwapBuffers()
	}

	app.OnShutdown(eng)
	logging.Logger().Debug("engine exit", "uptime", eng.Uptime())
	return nil
}

// NewEngine builds an Engine around an already created window and renderer.
func NewEngine(win Window, rend Renderer) *Engine {
	return &Engine{Window: win, Renderer: rend, Frames: &FrameQueue{}, start: time.Now()}
}

// Deliver routes ev exactly as the main loop does. Hosts that pump their own
// events (and tests) use it instead of a platform callback.
func (e *Engine) Deliver(ev Event) { e.dispatch(ev) }
