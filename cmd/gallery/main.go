// Command gallery opens a window with an infinite image carousel.
//
//	gallery -config gallery.toml
//	gallery photos/*.jpg
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hubastard/orbit/carousel"
	"github.com/hubastard/orbit/engine/colors"
	"github.com/hubastard/orbit/engine/core"
	glbackend "github.com/hubastard/orbit/engine/gfx/gl"
	"github.com/hubastard/orbit/engine/logging"
	"github.com/hubastard/orbit/engine/platform"
	"github.com/hubastard/orbit/engine/profiler"
)

type App struct {
	cfg    carousel.Config
	handle *carousel.Handle

	// reload fires when the config file changes; nil unless -watch.
	reload     <-chan struct{}
	configPath string
	images     []string
	flags      overrides
}

func (a *App) OnStart(e *core.Engine) error {
	profiler.Init(1 << 14)

	var err error
	a.handle, err = carousel.Create(e, a.cfg)
	if err != nil {
		return err
	}
	slog.Info("gallery ready", "items", len(a.cfg.Items), "gpu", e.Renderer.GPURenderer())

	if a.reload != nil {
		var poll core.FrameFunc
		poll = func(time.Time) {
			select {
			case <-a.reload:
				a.remount(e)
			default:
			}
			e.Frames.RequestFrame(poll)
		}
		e.Frames.RequestFrame(poll)
	}
	return nil
}

// remount swaps the running carousel for one built from the reloaded file.
// A broken file keeps the current carousel.
func (a *App) remount(e *core.Engine) {
	cfg, err := loadConfig(a.configPath, a.images, a.flags)
	if err != nil {
		slog.Warn("config reload failed", "err", err)
		return
	}
	cfg.OnComplete = a.cfg.OnComplete
	a.handle.Destroy()
	if a.handle, err = carousel.Create(e, cfg); err != nil {
		slog.Error("remount failed", "err", err)
		return
	}
	a.cfg = cfg
	slog.Info("gallery reloaded", "items", len(cfg.Items))
}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	k, ok := ev.(core.EventKey)
	if !ok || !k.Down {
		return
	}
	switch {
	case k.Key == core.KeyEscape:
		e.Window.RequestClose()
	case k.Key == core.KeyP && k.Mods&core.ModCtrl != 0:
		path, err := profiler.OpenProfilerGraph()
		if err != nil {
			slog.Warn("profile dump failed", "err", err)
			return
		}
		if path != "" {
			slog.Info("profile written", "path", path)
		}
	}
}

func (a *App) OnShutdown(e *core.Engine) {
	a.handle.Destroy()
}

func main() {
	var (
		configPath = flag.String("config", "", "TOML gallery description")
		width      = flag.Int("width", 1280, "window width")
		height     = flag.Int("height", 720, "window height")
		bend       = flag.Float64("bend", 3, "curvature of the row; 0 is flat")
		vsync      = flag.Bool("vsync", true, "wait for vertical sync")
		watch      = flag.Bool("watch", false, "reload the carousel when -config changes")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logging.SetLogger(logger)

	var flags overrides
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "bend" {
			flags.bend = bend
		}
	})
	cfg, err := loadConfig(*configPath, flag.Args(), flags)
	if err != nil {
		log.Fatal(err)
	}
	cfg.OnComplete = func() { slog.Debug("all images settled") }

	app := &App{cfg: cfg, configPath: *configPath, images: flag.Args(), flags: flags}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *watch && *configPath != "" {
		if app.reload, err = watchConfig(ctx, *configPath); err != nil {
			log.Fatal(err)
		}
	}

	var win *platform.GLFWWindow
	newWindow := func(c core.Config) (core.Window, error) {
		w, err := platform.NewGLFWWindow(c, nil)
		if err != nil {
			return nil, err
		}
		win = w
		return w, nil
	}
	newRenderer := func(w core.Window, c core.Config) (core.Renderer, error) {
		return glbackend.NewRendererGL(w, c)
	}

	wcfg := core.Config{
		Title:      "Gallery",
		Width:      *width,
		Height:     *height,
		VSync:      *vsync,
		ClearColor: colors.DarkGray,
	}
	err = core.Run(app, wcfg, newWindow, newRenderer)
	cancel()
	if win != nil {
		win.Destroy()
	}
	if err != nil {
		slog.Error("gallery exited", "err", err)
		os.Exit(1)
	}
}

// overrides are config values given explicitly on the command line. They
// win over the file, on every reload too.
type overrides struct {
	bend *float64
}

func (o overrides) apply(cfg *carousel.Config) {
	if o.bend != nil {
		cfg.Bend = *o.bend
	}
}

// loadConfig reads the TOML file if given; image paths on the command line
// replace its items and flag overrides are applied last.
func loadConfig(path string, images []string, flags overrides) (carousel.Config, error) {
	cfg := carousel.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = carousel.LoadConfig(path)
		// A file with only styling is fine when images come from the command line.
		if err != nil && (len(images) == 0 || !errors.Is(err, carousel.ErrNoItems)) {
			return cfg, err
		}
	}
	if len(images) > 0 {
		cfg.Items = cfg.Items[:0]
		for _, img := range images {
			cfg.Items = append(cfg.Items, carousel.Item{Image: img})
		}
	}
	if len(cfg.Items) == 0 {
		return cfg, errors.New("no images: pass -config or image paths")
	}
	flags.apply(&cfg)
	return cfg, nil
}
