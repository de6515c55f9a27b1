package carousel

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/orbit/engine/assets"
	"github.com/hubastard/orbit/engine/core"
	"github.com/hubastard/orbit/engine/scene"
)

const (
	// Reference card size in pixels at a 1500px tall screen.
	cardWidthPx   = 700
	cardHeightPx  = 900
	refScreenPx   = 1500
	itemPadding   = 2
	timeStep      = 0.04
	captionHeight = 0.15 // of the card height
	captionGap    = 0.05
)

// Indices into media.uniforms.
const (
	uModel = iota
	uView
	uProjection
	uTime
	uSpeed
	uImageSizes
	uPlaneSizes
	uBorderRadius
)

type textureResult struct {
	img *assets.Image
	err error
}

// media is one carousel entry. Everything it references is its own; the
// only cross-goroutine traffic is the one-slot loaded mailbox.
type media struct {
	index  int
	length int
	image  string
	bend   float64

	mapping    scene.ViewportMapping
	scale      float64
	planeW     float64
	planeH     float64
	width      float64
	widthTotal float64
	baseOffset float64
	extra      float64

	x, y, rotation float64

	texture  core.Texture
	loaded   chan textureResult
	settled  bool
	uniforms []core.Uniform
	samplers []core.Sampler

	caption         core.Texture
	captionAspect   float64
	captionUniforms []core.Uniform
	captionSamplers []core.Sampler
}

func newMedia(index, length int, image string, bend, borderRadius float64, tex core.Texture) *media {
	m := &media{
		index:   index,
		length:  length,
		image:   image,
		bend:    bend,
		texture: tex,
		loaded:  make(chan textureResult, 1),
	}
	m.uniforms = []core.Uniform{
		uModel:        core.Mat4Uniform("uModel", mgl32.Ident4()),
		uView:         core.Mat4Uniform("uView", mgl32.Ident4()),
		uProjection:   core.Mat4Uniform("uProjection", mgl32.Ident4()),
		uTime:         core.FloatUniform("uTime", float32(100*rand.Float64())),
		uSpeed:        core.FloatUniform("uSpeed", 0),
		uImageSizes:   core.Vec2Uniform("uImageSizes", 1, 1),
		uPlaneSizes:   core.Vec2Uniform("uPlaneSizes", 1, 1),
		uBorderRadius: core.FloatUniform("uBorderRadius", float32(borderRadius)),
	}
	m.samplers = []core.Sampler{{Name: "uTexture", Texture: tex}}
	return m
}

// setCaption attaches a rasterised label of the given pixel size.
func (m *media) setCaption(tex core.Texture, w, h int) {
	m.caption = tex
	m.captionAspect = float64(w) / float64(max(h, 1))
	m.captionUniforms = []core.Uniform{
		core.Mat4Uniform("uModel", mgl32.Ident4()),
		core.Mat4Uniform("uView", mgl32.Ident4()),
		core.Mat4Uniform("uProjection", mgl32.Ident4()),
	}
	m.captionSamplers = []core.Sampler{{Name: "uTexture", Texture: tex}}
}

// resize recomputes size and spacing for a new viewport mapping. Calling it
// again with the same mapping changes nothing.
func (m *media) resize(vm scene.ViewportMapping) {
	m.mapping = vm
	m.scale = vm.Screen.Height / refScreenPx
	m.planeH = vm.Viewport.Height * (cardHeightPx * m.scale) / vm.Screen.Height
	m.planeW = vm.Viewport.Width * (cardWidthPx * m.scale) / vm.Screen.Width
	m.uniforms[uPlaneSizes].SetVec2(float32(m.planeW), float32(m.planeH))
	m.width = m.planeW + itemPadding
	m.widthTotal = m.width * float64(m.length)
	m.baseOffset = m.width * float64(m.index)
}

// place puts the item on the copy of the ring centred on the viewport for
// scroll position current, so a layout at rest fills both sides and the
// first move in either direction has items ready to wrap.
func (m *media) place(current float64) {
	if m.widthTotal <= 0 {
		return
	}
	k := math.Floor((m.baseOffset - current + m.widthTotal/2) / m.widthTotal)
	m.extra = k * m.widthTotal
	m.x = m.baseOffset - current - m.extra
	m.y, m.rotation = bendOffset(m.x, m.mapping.Viewport.Width/2, m.bend)
}

// update positions the item for this frame and wraps it to the far end
// once it has fully left the viewport in the direction of travel.
func (m *media) update(s *ScrollState, dir Direction) {
	m.x = m.baseOffset - s.Current - m.extra
	m.y, m.rotation = bendOffset(m.x, m.mapping.Viewport.Width/2, m.bend)

	m.uniforms[uTime].V[0] += timeStep
	m.uniforms[uSpeed].SetFloat(float32(s.Speed()))

	half := m.planeW / 2
	edge := m.mapping.Viewport.Width / 2
	switch {
	case dir == Right && m.x+half < -edge:
		m.extra -= m.widthTotal
	case dir == Left && m.x-half > edge:
		m.extra += m.widthTotal
	}
}

// bendOffset places x on a circular arc whose chord spans the viewport
// (half-width h) with sagitta |bend|. Positive bend curves downwards.
func bendOffset(x, h, bend float64) (y, rotation float64) {
	if bend == 0 || h <= 0 {
		return 0, 0
	}
	b := math.Abs(bend)
	r := (h*h + b*b) / (2 * b)
	e := math.Min(math.Abs(x), h)
	arc := r - math.Sqrt(r*r-e*e)
	rot := sign(x) * math.Asin(e/r)
	if bend > 0 {
		return -arc, -rot
	}
	return arc, rot
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// poll installs a finished load, if any. It reports true the first time the
// item's texture settles (loaded or failed).
func (m *media) poll(r core.Renderer) bool {
	if m.settled {
		return false
	}
	select {
	case res := <-m.loaded:
		m.settled = true
		if res.err != nil {
			logger().Warn("carousel: image unavailable, keeping placeholder", "index", m.index, "image", m.image, "err", res.err)
			return true
		}
		err := r.UpdateTexture(m.texture, imageTextureDesc(res.img))
		if err != nil {
			logger().Warn("carousel: texture upload failed", "index", m.index, "image", m.image, "err", err)
			return true
		}
		m.uniforms[uImageSizes].SetVec2(float32(res.img.Width), float32(res.img.Height))
		return true
	default:
		return false
	}
}

// deliver is called from the loader goroutine; the mailbox holds exactly
// one result so it never blocks.
func (m *media) deliver(img *assets.Image, err error) {
	select {
	case m.loaded <- textureResult{img: img, err: err}:
	default:
	}
}

// setCamera copies the shared camera matrices into this item's uniforms.
func (m *media) setCamera(view, proj mgl32.Mat4) {
	m.uniforms[uView].SetMat4(view)
	m.uniforms[uProjection].SetMat4(proj)
	if m.caption != nil {
		m.captionUniforms[uView].SetMat4(view)
		m.captionUniforms[uProjection].SetMat4(proj)
	}
}

// transform writes the model matrices for the current position.
func (m *media) transform() {
	base := mgl32.Translate3D(float32(m.x), float32(m.y), 0).Mul4(mgl32.HomogRotate3DZ(float32(m.rotation)))
	m.uniforms[uModel].SetMat4(base.Mul4(mgl32.Scale3D(float32(m.planeW), float32(m.planeH), 1)))
	if m.caption != nil {
		h := m.planeH * captionHeight
		w := h * m.captionAspect
		offset := -m.planeH/2 - h/2 - captionGap
		model := base.Mul4(mgl32.Translate3D(0, float32(offset), 0)).Mul4(mgl32.Scale3D(float32(w), float32(h), 1))
		m.captionUniforms[uModel].SetMat4(model)
	}
}

func imageTextureDesc(img *assets.Image) core.TextureDesc {
	return core.TextureDesc{
		Width: img.Width, Height: img.Height,
		Format:    core.TextureRGBA8,
		Pixels:    img.Pixels,
		MinFilter: "mipmap", MagFilter: "linear",
		WrapU: "clamp", WrapV: "clamp",
	}
}

// placeholderDesc is the transparent 1x1 texture items show until their
// image arrives (or forever, if it never does).
func placeholderDesc() core.TextureDesc {
	return core.TextureDesc{
		Width: 1, Height: 1,
		Format:    core.TextureRGBA8,
		Pixels:    []byte{0, 0, 0, 0},
		MinFilter: "linear", MagFilter: "linear",
		WrapU: "clamp", WrapV: "clamp",
	}
}
