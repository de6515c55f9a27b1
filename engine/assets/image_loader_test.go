package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoRowPNG encodes a w×2 image: top row red, bottom row blue.
func twoRowPNG(t *testing.T, w int) []byte {
	t.Helper()
	m := image.NewRGBA(image.Rect(0, 0, w, 2))
	for x := 0; x < w; x++ {
		m.Set(x, 0, color.RGBA{R: 255, A: 255})
		m.Set(x, 1, color.RGBA{B: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))
	return buf.Bytes()
}

func TestDecodeImageFlipsRows(t *testing.T) {
	img, err := DecodeImage(bytes.NewReader(twoRowPNG(t, 3)), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	require.Len(t, img.Pixels, 3*2*4)

	// First uploaded row is the image's bottom row.
	assert.Equal(t, []byte{0, 0, 255, 255}, img.Pixels[0:4])
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Pixels[3*4:3*4+4])
}

func TestDecodeImageDownscales(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 400, 100))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))

	img, err := DecodeImage(&buf, 200)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Width)
	assert.Equal(t, 50, img.Height)
	assert.Len(t, img.Pixels, 200*50*4)
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	_, err := DecodeImage(bytes.NewReader([]byte("not an image")), 0)
	assert.Error(t, err)
}

func TestFitWithin(t *testing.T) {
	cases := []struct{ w, h, max, ww, wh int }{
		{100, 50, 0, 100, 50},
		{100, 50, 200, 100, 50},
		{4000, 1000, 2048, 2048, 512},
		{1000, 4000, 2048, 512, 2048},
		{5000, 1, 100, 100, 1},
	}
	for _, c := range cases {
		w, h := fitWithin(c.w, c.h, c.max)
		assert.Equal(t, c.ww, w, "%+v", c)
		assert.Equal(t, c.wh, h, "%+v", c)
	}
}

func TestSourceFetcherFileAndRoot(t *testing.T) {
	dir := t.TempDir()
	data := twoRowPNG(t, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), data, 0o644))

	f := SourceFetcher{Root: dir}
	for _, ref := range []string{"a.png", filepath.Join(dir, "a.png"), "file://" + filepath.ToSlash(filepath.Join(dir, "a.png"))} {
		rc, err := f.Fetch(context.Background(), ref)
		require.NoError(t, err, ref)
		got, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, data, got, ref)
	}

	_, err := f.Fetch(context.Background(), "missing.png")
	assert.Error(t, err)
	_, err = f.Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestSourceFetcherHTTP(t *testing.T) {
	data := twoRowPNG(t, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/img.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(SourceFetcher{Client: srv.Client()}, 0)
	img, err := l.Load(context.Background(), srv.URL+"/img.png")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)

	_, err = l.Load(context.Background(), srv.URL+"/nope.png")
	assert.ErrorContains(t, err, "404")
}

type gatedFetcher struct {
	calls atomic.Int32
	gate  chan struct{}
	data  []byte
	err   error
}

func (g *gatedFetcher) Fetch(ctx context.Context, ref string) (io.ReadCloser, error) {
	g.calls.Add(1)
	select {
	case <-g.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if g.err != nil {
		return nil, g.err
	}
	return io.NopCloser(bytes.NewReader(g.data)), nil
}

func TestLoaderSharesConcurrentFetches(t *testing.T) {
	f := &gatedFetcher{gate: make(chan struct{}), data: twoRowPNG(t, 4)}
	l := NewLoader(f, 0)

	const n = 2
	var wg sync.WaitGroup
	results := make(chan *Image, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		l.LoadAsync(context.Background(), "same.png", func(img *Image, err error) {
			defer wg.Done()
			assert.NoError(t, err)
			results <- img
		})
	}
	// Wait until the shared fetch is in flight before releasing it.
	for f.calls.Load() == 0 {
		runtime.Gosched()
	}
	close(f.gate)
	wg.Wait()
	close(results)

	var imgs []*Image
	for img := range results {
		imgs = append(imgs, img)
	}
	require.Len(t, imgs, n)
	assert.Equal(t, 4, imgs[0].Width)
	assert.LessOrEqual(t, f.calls.Load(), int32(n))
}

func TestLoaderPropagatesFetchError(t *testing.T) {
	boom := errors.New("boom")
	f := &gatedFetcher{gate: make(chan struct{}), err: boom}
	close(f.gate)
	l := NewLoader(f, 0)

	_, err := l.Load(context.Background(), "x.png")
	assert.ErrorIs(t, err, boom)
}

func TestLoaderHonoursCancel(t *testing.T) {
	f := &gatedFetcher{gate: make(chan struct{})}
	l := NewLoader(f, 0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	l.LoadAsync(ctx, "slow.png", func(_ *Image, err error) { done <- err })
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestLoadShader(t *testing.T) {
	for _, name := range []string{"media.vert", "media.frag", "caption.vert", "caption.frag"} {
		src, err := LoadShader(name)
		require.NoError(t, err, name)
		assert.Contains(t, src, "#version 330 core", name)
	}
	_, err := LoadShader("nope.frag")
	assert.Error(t, err)
}
