package carousel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hubastard/orbit/engine/assets"
	"github.com/hubastard/orbit/engine/colors"
	"github.com/hubastard/orbit/engine/core"
	"github.com/hubastard/orbit/engine/logging"
	"github.com/hubastard/orbit/engine/profiler"
	"github.com/hubastard/orbit/engine/scene"
	"github.com/hubastard/orbit/engine/text"
)

func logger() *slog.Logger { return logging.Logger() }

// gallery is the render-loop state of one mounted carousel.
type gallery struct {
	cfg      Config
	renderer core.Renderer
	camera   *scene.PerspectiveCamera
	scroll   ScrollState
	input    *InputController
	now      func() time.Time

	plane       core.Mesh
	imagePipe   core.Pipeline
	captionPipe core.Pipeline
	medias      []*media

	loader    *assets.Loader
	ctx       context.Context
	cancel    context.CancelFunc
	unsettled int
	completed bool

	frames  core.Scheduler
	frameID core.FrameID
	tickFn  core.FrameFunc
	ticks   uint64
	stopped bool
}

func newGallery(cfg Config, r core.Renderer, frames core.Scheduler, fetcher assets.Fetcher, now func() time.Time) *gallery {
	g := &gallery{
		cfg:      cfg,
		renderer: r,
		camera:   scene.NewPerspective(float32(cfg.FieldOfView), float32(cfg.CameraZ)),
		scroll:   NewScrollState(cfg.Ease, cfg.MaxVelocity),
		now:      now,
		frames:   frames,
		loader:   assets.NewLoader(fetcher, cfg.MaxTextureSize),
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())
	g.input = NewInputController(&g.scroll, cfg, g.itemWidth, now)
	g.tickFn = g.tick
	return g
}

func (g *gallery) itemWidth() float64 {
	if len(g.medias) == 0 {
		return 0
	}
	return g.medias[0].width
}

// build creates every GPU resource. On error the caller releases whatever
// was created so far.
func (g *gallery) build() error {
	var err error
	if g.imagePipe, err = g.pipeline("media.vert", "media.frag"); err != nil {
		return err
	}
	if g.plane, err = g.renderer.CreateMesh(NewPlane(planeWidthSegments, planeHeightSegments)); err != nil {
		return fmt.Errorf("carousel: plane mesh: %w", err)
	}

	// Doubled so a full cycle is always on screen while items wrap.
	items := append(append([]Item(nil), g.cfg.Items...), g.cfg.Items...)
	g.medias = make([]*media, 0, len(items))
	for i, it := range items {
		tex, err := g.renderer.CreateTexture(placeholderDesc())
		if err != nil {
			return fmt.Errorf("carousel: placeholder texture %d: %w", i, err)
		}
		g.medias = append(g.medias, newMedia(i, len(items), it.Image, g.cfg.Bend, g.cfg.BorderRadius, tex))
	}
	return g.buildCaptions(items)
}

func (g *gallery) pipeline(vertName, fragName string) (core.Pipeline, error) {
	vs, err := assets.LoadShader(vertName)
	if err != nil {
		return nil, err
	}
	fs, err := assets.LoadShader(fragName)
	if err != nil {
		return nil, err
	}
	p, err := g.renderer.CreatePipeline(core.PipelineDesc{VertexSource: vs, FragmentSource: fs, Blend: true})
	if err != nil {
		return nil, fmt.Errorf("carousel: pipeline %s/%s: %w", vertName, fragName, err)
	}
	return p, nil
}

func (g *gallery) buildCaptions(items []Item) error {
	hasText := false
	for _, it := range items {
		hasText = hasText || it.Text != ""
	}
	if !hasText {
		return nil
	}

	var err error
	if g.captionPipe, err = g.pipeline("caption.vert", "caption.frag"); err != nil {
		return err
	}
	col, err := colors.ParseHex(g.cfg.TextColor)
	if err != nil {
		return fmt.Errorf("carousel: text color: %w", err)
	}
	spec, err := text.ParseFont(g.cfg.Font)
	if err != nil {
		return fmt.Errorf("carousel: font: %w", err)
	}
	face, err := text.LoadFace(spec)
	if err != nil {
		return fmt.Errorf("carousel: font: %w", err)
	}
	defer face.Close()

	for i, it := range items {
		if it.Text == "" {
			continue
		}
		label := assets.FromRGBA(text.RasterizeLabel(face, it.Text, col))
		tex, err := g.renderer.CreateTexture(core.TextureDesc{
			Width: label.Width, Height: label.Height,
			Format:    core.TextureRGBA8,
			Pixels:    label.Pixels,
			MinFilter: "linear", MagFilter: "linear",
			WrapU: "clamp", WrapV: "clamp",
		})
		if err != nil {
			return fmt.Errorf("carousel: caption texture %d: %w", i, err)
		}
		g.medias[i].setCaption(tex, label.Width, label.Height)
	}
	return nil
}

// startLoads fires one asynchronous load per item. Results land in each
// item's own mailbox and are uploaded on the render thread.
func (g *gallery) startLoads() {
	g.unsettled = len(g.medias)
	for _, m := range g.medias {
		g.loader.LoadAsync(g.ctx, m.image, m.deliver)
	}
}

// resize maps a w×h pixel surface into world units, relayouts items and
// re-centres the ring on the current scroll position.
func (g *gallery) resize(w, h int) {
	vm := g.camera.SetScreen(w, h)
	for _, m := range g.medias {
		m.resize(vm)
		m.place(g.scroll.Current)
	}
}

func (g *gallery) start() {
	g.frameID = g.frames.RequestFrame(g.tickFn)
}

func (g *gallery) stop() {
	g.stopped = true
	if g.frameID != 0 {
		g.frames.CancelFrame(g.frameID)
		g.frameID = 0
	}
	g.cancel()
}

// tick is the render loop body: textures, timers, physics, layout, draw,
// reschedule.
func (g *gallery) tick(now time.Time) {
	g.frameID = 0
	end := profiler.Start("carousel.tick")

	g.pollTextures()
	if g.stopped {
		// OnComplete destroyed the carousel.
		end()
		return
	}
	g.input.Update(now)

	var auto float64
	if g.input.AutoRotating(now) {
		auto = g.cfg.AutoRotateSpeed
	}
	g.scroll.Step(auto)

	dir := g.scroll.Direction()
	for _, m := range g.medias {
		m.update(&g.scroll, dir)
	}
	g.draw()
	g.ticks++

	g.frameID = g.frames.RequestFrame(g.tickFn)
	end()
}

func (g *gallery) pollTextures() {
	if g.completed {
		return
	}
	for _, m := range g.medias {
		if m.poll(g.renderer) {
			g.unsettled--
		}
	}
	if g.unsettled <= 0 {
		g.completed = true
		logger().Debug("carousel: all images settled", "items", len(g.medias))
		if g.cfg.OnComplete != nil {
			g.cfg.OnComplete()
		}
	}
}

// draw renders the scene: every card, then its caption.
func (g *gallery) draw() {
	end := profiler.Start("carousel.draw")
	view, proj := g.camera.View(), g.camera.Projection()
	for _, m := range g.medias {
		m.setCamera(view, proj)
		m.transform()
		g.renderer.Draw(core.DrawCmd{Pipe: g.imagePipe, Mesh: g.plane, Uniforms: m.uniforms, Samplers: m.samplers})
		if m.caption != nil {
			g.renderer.Draw(core.DrawCmd{Pipe: g.captionPipe, Mesh: g.plane, Uniforms: m.captionUniforms, Samplers: m.captionSamplers})
		}
	}
	end()
}

// release frees GPU resources. The loop must already be stopped.
func (g *gallery) release() {
	for _, m := range g.medias {
		g.renderer.Release(m.texture)
		if m.caption != nil {
			g.renderer.Release(m.caption)
		}
	}
	g.medias = nil
	for _, res := range []core.Resource{g.plane, g.imagePipe, g.captionPipe} {
		if res != nil {
			g.renderer.Release(res)
		}
	}
	g.plane, g.imagePipe, g.captionPipe = nil, nil, nil
}
