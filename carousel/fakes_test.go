package carousel

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hubastard/orbit/engine/core"
	"github.com/stretchr/testify/require"
)

// fakeRes stands in for every resource kind.
type fakeRes struct {
	id    uint32
	kind  string
	w, h  int
	count int
}

func (r *fakeRes) Handle() uint32   { return r.id }
func (r *fakeRes) IndexCount() int  { return r.count }
func (r *fakeRes) Size() (int, int) { return r.w, r.h }

// fakeRenderer records calls instead of touching a GPU.
type fakeRenderer struct {
	next     uint32
	live     map[uint32]*fakeRes
	draws    int
	updates  map[uint32]int
	released int

	failPipeline bool
	failTextureN int // fail the Nth CreateTexture (1-based); 0 never
	textures     int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{live: map[uint32]*fakeRes{}, updates: map[uint32]int{}}
}

func (r *fakeRenderer) add(kind string, w, h, count int) *fakeRes {
	r.next++
	res := &fakeRes{id: r.next, kind: kind, w: w, h: h, count: count}
	r.live[res.id] = res
	return res
}

func (r *fakeRenderer) Resize(w, h int)          {}
func (r *fakeRenderer) Clear(_, _, _, _ float32) {}
func (r *fakeRenderer) GPUVendor() string        { return "fake" }
func (r *fakeRenderer) GPURenderer() string      { return "fake" }
func (r *fakeRenderer) GPUVersion() string       { return "0" }
func (r *fakeRenderer) Shutdown()                {}

func (r *fakeRenderer) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	if r.failPipeline {
		return nil, errors.New("link failed")
	}
	if desc.VertexSource == "" || desc.FragmentSource == "" {
		return nil, errors.New("empty shader")
	}
	return r.add("pipeline", 0, 0, 0), nil
}

func (r *fakeRenderer) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	return r.add("mesh", 0, 0, len(desc.Indices)), nil
}

func (r *fakeRenderer) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	r.textures++
	if r.failTextureN != 0 && r.textures == r.failTextureN {
		return nil, errors.New("out of memory")
	}
	return r.add("texture", desc.Width, desc.Height, 0), nil
}

func (r *fakeRenderer) UpdateTexture(t core.Texture, desc core.TextureDesc) error {
	res, ok := r.live[t.Handle()]
	if !ok {
		return errors.New("released texture")
	}
	res.w, res.h = desc.Width, desc.Height
	r.updates[res.id]++
	return nil
}

func (r *fakeRenderer) Draw(cmd core.DrawCmd) {
	if cmd.Pipe == nil || cmd.Mesh == nil {
		panic("draw with released resources")
	}
	if _, ok := r.live[cmd.Pipe.Handle()]; !ok {
		panic("draw with released pipeline")
	}
	r.draws++
}

func (r *fakeRenderer) Release(res core.Resource) {
	if res == nil {
		return
	}
	if _, ok := r.live[res.Handle()]; ok {
		delete(r.live, res.Handle())
		r.released++
	}
}

type stubWindow struct{ w, h int }

func (s *stubWindow) PollEvents()                       {}
func (s *stubWindow) SwapBuffers()                      {}
func (s *stubWindow) ShouldClose() bool                 { return false }
func (s *stubWindow) RequestClose()                     {}
func (s *stubWindow) FramebufferSize() (int, int)       { return s.w, s.h }
func (s *stubWindow) SetTitle(string)                   {}
func (s *stubWindow) SetEventCallback(func(core.Event)) {}

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// mapFetcher serves PNGs by reference; unknown references fail.
type mapFetcher struct {
	files map[string][]byte
	calls atomic.Int32
}

func (f *mapFetcher) Fetch(_ context.Context, ref string) (io.ReadCloser, error) {
	f.calls.Add(1)
	b, ok := f.files[ref]
	if !ok {
		return nil, errors.New("404")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}
	m.Set(0, 0, color.RGBA{R: 10, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))
	return buf.Bytes()
}

func sixItems() []Item {
	return []Item{
		{Image: "a.png", Text: "Alpha"},
		{Image: "b.png"},
		{Image: "c.png", Text: "Gamma"},
		{Image: "d.png"},
		{Image: "e.png"},
		{Image: "f.png"},
	}
}

func fetcherFor(t *testing.T, items []Item) *mapFetcher {
	f := &mapFetcher{files: map[string][]byte{}}
	for i, it := range items {
		f.files[it.Image] = pngBytes(t, 8+i, 6)
	}
	return f
}

// mountFixture is an engine-backed container with a fake GPU.
type mountFixture struct {
	eng      *core.Engine
	renderer *fakeRenderer
	clock    *fakeClock
}

func newMountFixture(w, h int) *mountFixture {
	r := newFakeRenderer()
	return &mountFixture{
		eng:      core.NewEngine(&stubWindow{w: w, h: h}, r),
		renderer: r,
		clock:    newFakeClock(),
	}
}

// frame advances the clock by one 60Hz frame and runs scheduled callbacks.
func (f *mountFixture) frame() {
	f.clock.Advance(time.Second / 60)
	f.eng.Frames.RunFrame(f.clock.Now())
}

// frameUntil runs frames until cond holds or a wall-clock deadline passes.
func (f *mountFixture) frameUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		require.True(t, time.Now().Before(deadline), "condition not reached")
		f.frame()
		time.Sleep(time.Millisecond)
	}
}
