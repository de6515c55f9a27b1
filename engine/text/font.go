package text

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFont matches the caption style of the web gallery.
const DefaultFont = "bold 30px monospace"

// FontSpec is a parsed CSS-like font shorthand.
type FontSpec struct {
	Bold   bool
	SizePx float64
	// Family is a generic family name ("monospace", "sans-serif") or a path
	// to a .ttf/.otf file.
	Family string
}

// ParseFont accepts "[weight] <size>px <family>", e.g. "bold 30px monospace"
// or "24px fonts/Figtree.ttf". Empty input yields DefaultFont.
func ParseFont(s string) (FontSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultFont
	}
	spec := FontSpec{SizePx: 30}
	fields := strings.Fields(s)
	i := 0
	for ; i < len(fields); i++ {
		f := strings.ToLower(fields[i])
		switch {
		case f == "bold" || f == "bolder":
			spec.Bold = true
		case f == "normal" || f == "italic" || f == "lighter":
		case strings.HasSuffix(f, "px"):
			v, err := strconv.ParseFloat(strings.TrimSuffix(f, "px"), 64)
			if err != nil || v <= 0 {
				return FontSpec{}, fmt.Errorf("text: invalid font size %q", fields[i])
			}
			spec.SizePx = v
		default:
			if w, err := strconv.Atoi(f); err == nil {
				spec.Bold = w >= 600
				continue
			}
			spec.Family = strings.Trim(strings.Join(fields[i:], " "), `"'`)
			i = len(fields)
		}
	}
	if spec.Family == "" {
		spec.Family = "sans-serif"
	}
	return spec, nil
}

// LoadFace opens the face described by spec: a font file when Family looks
// like a path, otherwise one of the bundled Go fonts.
func LoadFace(spec FontSpec) (font.Face, error) {
	data, err := fontData(spec)
	if err != nil {
		return nil, err
	}
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: spec.SizePx, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}

func fontData(spec FontSpec) ([]byte, error) {
	fam := strings.ToLower(spec.Family)
	if strings.HasSuffix(fam, ".ttf") || strings.HasSuffix(fam, ".otf") {
		b, err := os.ReadFile(spec.Family)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		return b, nil
	}
	mono := fam == "monospace" || fam == "mono" || strings.Contains(fam, "courier")
	switch {
	case mono && spec.Bold:
		return gomonobold.TTF, nil
	case mono:
		return gomono.TTF, nil
	case spec.Bold:
		return gobold.TTF, nil
	default:
		return goregular.TTF, nil
	}
}
