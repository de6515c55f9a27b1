package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxTextureSize bounds the longest side of decoded images.
const DefaultMaxTextureSize = 2048

// Image is a decoded bitmap in GL upload order: tightly packed RGBA8
// (stride == 4*Width), bottom row first.
type Image struct {
	Width, Height int
	Pixels        []byte
}

// Fetcher opens the raw bytes behind an image reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (io.ReadCloser, error)
}

// SourceFetcher reads http(s) URLs with Client and everything else
// (file:// URLs, absolute or Root-relative paths) from disk.
type SourceFetcher struct {
	Client *http.Client
	Root   string
}

func (f SourceFetcher) Fetch(ctx context.Context, ref string) (io.ReadCloser, error) {
	if ref == "" {
		return nil, errors.New("empty image reference")
	}
	u, err := url.Parse(ref)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return f.fetchHTTP(ctx, ref)
		case "file":
			return os.Open(u.Path)
		}
	}
	path := ref
	if !filepath.IsAbs(path) && f.Root != "" {
		path = filepath.Join(f.Root, path)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return fh, nil
}

func (f SourceFetcher) fetchHTTP(ctx context.Context, ref string) (io.ReadCloser, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("get %q: %s", ref, resp.Status)
	}
	return resp.Body, nil
}

// DecodeImage decodes any registered format (png, jpeg, gif, webp, bmp,
// tiff), downscales it so neither side exceeds maxSize (<= 0 disables) and
// repacks it for upload.
func DecodeImage(r io.Reader, maxSize int) (*Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("decode %s: empty image", format)
	}

	w, h := fitWithin(b.Dx(), b.Dy(), maxSize)
	var rgba *image.RGBA
	if w != b.Dx() || h != b.Dy() {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
	} else {
		rgba = imageToRGBA(img)
	}
	return FromRGBA(rgba), nil
}

// FromRGBA repacks m with tight rows, flipped vertically to match GL's
// bottom-left texture origin.
func FromRGBA(m *image.RGBA) *Image {
	w, h := m.Bounds().Dx(), m.Bounds().Dy()
	out := make([]byte, w*h*4)
	row := w * 4
	for y := 0; y < h; y++ {
		src := m.Pix[y*m.Stride : y*m.Stride+row]
		copy(out[(h-1-y)*row:(h-y)*row], src)
	}
	return &Image{Width: w, Height: h, Pixels: out}
}

func fitWithin(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, h*maxSize/w)
	}
	return max(1, w*maxSize/h), maxSize
}

func imageToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// Loader fetches and decodes images. Concurrent loads of the same reference
// share one fetch.
type Loader struct {
	fetcher Fetcher
	maxSize int
	group   singleflight.Group
}

func NewLoader(f Fetcher, maxSize int) *Loader {
	if f == nil {
		f = SourceFetcher{}
	}
	return &Loader{fetcher: f, maxSize: maxSize}
}

// Load blocks until ref is decoded, fails or ctx is done. The returned Image
// may be shared with other callers and must not be modified.
func (l *Loader) Load(ctx context.Context, ref string) (*Image, error) {
	ch := l.group.DoChan(ref, func() (any, error) {
		rc, err := l.fetcher.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return DecodeImage(rc, l.maxSize)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("load %q: %w", ref, res.Err)
		}
		return res.Val.(*Image), nil
	}
}

// LoadAsync runs Load on its own goroutine and hands the outcome to done
// from that goroutine.
func (l *Loader) LoadAsync(ctx context.Context, ref string, done func(*Image, error)) {
	go func() {
		done(l.Load(ctx, ref))
	}()
}
