package colors

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#ffffff", White},
		{"000", Black},
		{"#00000000", Transparent},
		{"#f008", Color{1, 0, 0, float32(0x88) / 255}},
		{" #545050 ", Caption},
	}
	for _, c := range cases {
		got, err := ParseHex(c.in)
		require.NoError(t, err, c.in)
		assert.InDeltaSlice(t, c.want[:], got[:], 1e-6, c.in)
	}
}

func TestParseHexRejects(t *testing.T) {
	for _, in := range []string{"", "#12", "#12345", "#gggggg", "red"} {
		_, err := ParseHex(in)
		assert.Error(t, err, in)
	}
}

func TestRGBAPremultiplies(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, White.RGBA())
	assert.Equal(t, color.RGBA{R: 128, A: 128}, Color{1, 0, 0, 0.5}.RGBA())
}
