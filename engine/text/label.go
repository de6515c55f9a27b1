package text

import (
	"image"

	"github.com/hubastard/orbit/engine/colors"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// labelPadding surrounds the glyphs so filtering never bleeds into them.
const labelPadding = 10

// RasterizeLabel draws s on a transparent bitmap sized to fit it, baseline
// centred vertically.
func RasterizeLabel(face font.Face, s string, c colors.Color) *image.RGBA {
	m := face.Metrics()
	adv := font.MeasureString(face, s)
	w := adv.Ceil() + 2*labelPadding
	h := (m.Ascent + m.Descent).Ceil() + 2*labelPadding

	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c.RGBA()),
		Face: face,
		Dot:  fixed.P(labelPadding, labelPadding+m.Ascent.Ceil()),
	}
	d.DrawString(s)
	return dst
}
