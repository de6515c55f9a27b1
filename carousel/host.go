package carousel

import (
	"fmt"
	"time"

	"github.com/hubastard/orbit/engine/assets"
	"github.com/hubastard/orbit/engine/core"
)

// Option customises Create beyond Config.
type Option func(*options)

type options struct {
	now     func() time.Time
	fetcher assets.Fetcher
}

// WithClock replaces time.Now for input timing (auto-rotate grace periods,
// wheel damping, snap delay).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithFetcher replaces the default http/file image fetcher.
func WithFetcher(f assets.Fetcher) Option {
	return func(o *options) {
		if f != nil {
			o.fetcher = f
		}
	}
}

// Handle controls a mounted carousel. Its only operation is Destroy.
type Handle struct {
	g      *gallery
	canvas core.Canvas
	offs   []func()
	done   bool
}

// Create mounts a carousel into container and starts its render loop. It
// fails without starting anything if the container is missing, the config is
// invalid or no canvas/GPU resources can be obtained.
func Create(container core.Container, cfg Config, opts ...Option) (*Handle, error) {
	if container == nil {
		return nil, ErrNoContainer
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{now: time.Now, fetcher: assets.SourceFetcher{Root: cfg.ImageRoot}}
	for _, opt := range opts {
		opt(&o)
	}

	canvas, err := container.AttachCanvas()
	if err != nil {
		return nil, fmt.Errorf("carousel: attach canvas: %w", err)
	}
	h := &Handle{canvas: canvas}
	h.g = newGallery(cfg, canvas.Renderer(), container.Scheduler(), o.fetcher, o.now)
	if err := h.g.build(); err != nil {
		h.Destroy()
		return nil, err
	}
	h.g.resize(container.Size())

	win := container.Events()
	h.offs = append(h.offs,
		// Pointer listeners sit on the window so drags that leave the
		// canvas keep tracking.
		win.On(core.KindPointerDown, func(ev core.Event) {
			if e := ev.(core.EventPointerDown); e.Button == 0 {
				h.g.input.PointerDown(e.X)
			}
		}),
		win.On(core.KindPointerMove, func(ev core.Event) {
			h.g.input.PointerMove(ev.(core.EventPointerMove).X)
		}),
		win.On(core.KindPointerUp, func(ev core.Event) {
			if e := ev.(core.EventPointerUp); e.Button == 0 {
				h.g.input.PointerUp()
			}
		}),
		win.On(core.KindResize, func(ev core.Event) {
			e := ev.(core.EventResize)
			h.g.resize(e.W, e.H)
		}),
		// Wheel only on the canvas so page-level scrolling elsewhere is untouched.
		canvas.Events().On(core.KindWheel, func(ev core.Event) {
			h.g.input.Wheel(ev.(core.EventWheel).DeltaY)
		}),
	)

	h.g.startLoads()
	h.g.start()
	logger().Debug("carousel: mounted", "items", len(h.g.medias), "bend", cfg.Bend)
	return h, nil
}

// Destroy stops the render loop, then cancels loads, removes listeners,
// frees GPU resources and detaches the canvas. Safe to call repeatedly and
// on a nil Handle.
func (h *Handle) Destroy() {
	if h == nil || h.done {
		return
	}
	h.done = true

	// The scheduled frame must never see released state.
	if h.g != nil {
		h.g.stop()
	}
	for _, off := range h.offs {
		off()
	}
	h.offs = nil
	if h.g != nil {
		h.g.release()
	}
	if h.canvas != nil {
		h.canvas.Detach()
	}
	logger().Debug("carousel: destroyed")
}
