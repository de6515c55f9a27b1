package carousel

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/hubastard/orbit/engine/colors"
	"github.com/hubastard/orbit/engine/text"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrNoContainer = errors.New("carousel: no container")
	ErrNoItems     = errors.New("carousel: no items")
)

// Item is one configured entry. Identity is positional.
type Item struct {
	Image string `toml:"image"`
	Text  string `toml:"text,omitempty"`
}

// WheelConfig tunes wheel handling. The windows are empirical and meant to
// be retuned per input device.
type WheelConfig struct {
	// Events closer together than BurstMS contribute BurstFactor of a step.
	BurstMS     int     `toml:"burst_ms"`
	BurstFactor float64 `toml:"burst_factor"`
	// Events after a pause of IdleMS or more contribute a full step.
	IdleMS int `toml:"idle_ms"`
	// Notch is the |deltaY| of one mouse-wheel notch; larger deltas are capped to it.
	Notch float64 `toml:"notch"`
	// SnapDelayMS after the last wheel event the target snaps to an item.
	SnapDelayMS int `toml:"snap_delay_ms"`
}

// Config is supplied once to Create and never mutated afterwards.
type Config struct {
	Items []Item `toml:"items"`
	// Bend is the signed curvature of the row; 0 lays items out flat.
	Bend      float64 `toml:"bend"`
	TextColor string  `toml:"text_color"`
	// BorderRadius is a fraction (0–0.5) of the item size.
	BorderRadius float64 `toml:"border_radius"`
	// Font is a CSS-like shorthand ("bold 30px monospace") or size plus font file path.
	Font string `toml:"font"`

	ScrollSpeed     float64 `toml:"scroll_speed"`
	Ease            float64 `toml:"scroll_ease"`
	MaxVelocity     float64 `toml:"max_velocity"`
	AutoRotate      bool    `toml:"auto_rotate"`
	AutoRotateSpeed float64 `toml:"auto_rotate_speed"`
	// Responsiveness scales drag distance into scroll distance.
	Responsiveness float64     `toml:"responsiveness"`
	Wheel          WheelConfig `toml:"wheel"`

	FieldOfView    float64 `toml:"fov"`
	CameraZ        float64 `toml:"camera_z"`
	MaxTextureSize int     `toml:"max_texture_size"`
	// ImageRoot resolves relative image paths.
	ImageRoot string `toml:"image_root"`

	// OnComplete runs once, on the render thread, after every image has
	// either loaded or failed.
	OnComplete func() `toml:"-"`
}

// DefaultConfig returns the stock look: a gentle arc of rounded cards.
func DefaultConfig() Config {
	return Config{
		Bend:            3,
		TextColor:       "#ffffff",
		BorderRadius:    0.05,
		Font:            text.DefaultFont,
		ScrollSpeed:     2,
		Ease:            0.1,
		MaxVelocity:     4,
		AutoRotateSpeed: 0.02,
		Responsiveness:  1,
		Wheel: WheelConfig{
			BurstMS:     100,
			BurstFactor: 0.3,
			IdleMS:      2000,
			Notch:       100,
			SnapDelayMS: 200,
		},
		FieldOfView:    45,
		CameraZ:        20,
		MaxTextureSize: 2048,
	}
}

// withDefaults fills every unset tunable. Bend, BorderRadius and AutoRotate
// are meaningful at their zero value and are left alone.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TextColor == "" {
		c.TextColor = d.TextColor
	}
	if c.Font == "" {
		c.Font = d.Font
	}
	setDefault(&c.ScrollSpeed, d.ScrollSpeed)
	setDefault(&c.Ease, d.Ease)
	setDefault(&c.MaxVelocity, d.MaxVelocity)
	setDefault(&c.AutoRotateSpeed, d.AutoRotateSpeed)
	setDefault(&c.Responsiveness, d.Responsiveness)
	setDefault(&c.Wheel.BurstFactor, d.Wheel.BurstFactor)
	setDefault(&c.Wheel.Notch, d.Wheel.Notch)
	setDefault(&c.FieldOfView, d.FieldOfView)
	setDefault(&c.CameraZ, d.CameraZ)
	if c.Wheel.BurstMS == 0 {
		c.Wheel.BurstMS = d.Wheel.BurstMS
	}
	if c.Wheel.IdleMS == 0 {
		c.Wheel.IdleMS = d.Wheel.IdleMS
	}
	if c.Wheel.SnapDelayMS == 0 {
		c.Wheel.SnapDelayMS = d.Wheel.SnapDelayMS
	}
	if c.MaxTextureSize == 0 {
		c.MaxTextureSize = d.MaxTextureSize
	}
	c.Items = append([]Item(nil), c.Items...)
	return c
}

func setDefault(v *float64, d float64) {
	if *v == 0 {
		*v = d
	}
}

// Validate reports the first problem that would make Create fail.
func (c Config) Validate() error {
	if len(c.Items) == 0 {
		return ErrNoItems
	}
	for i, it := range c.Items {
		if it.Image == "" {
			return fmt.Errorf("carousel: item %d has no image", i)
		}
	}
	for name, v := range map[string]float64{
		"bend": c.Bend, "border_radius": c.BorderRadius, "scroll_speed": c.ScrollSpeed,
		"scroll_ease": c.Ease, "max_velocity": c.MaxVelocity, "auto_rotate_speed": c.AutoRotateSpeed,
		"responsiveness": c.Responsiveness, "fov": c.FieldOfView, "camera_z": c.CameraZ,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("carousel: %s is not finite", name)
		}
	}
	if c.BorderRadius < 0 || c.BorderRadius > 0.5 {
		return fmt.Errorf("carousel: border_radius %v outside [0, 0.5]", c.BorderRadius)
	}
	if c.Ease <= 0 || c.Ease > 1 {
		return fmt.Errorf("carousel: scroll_ease %v outside (0, 1]", c.Ease)
	}
	if c.MaxVelocity <= 0 {
		return fmt.Errorf("carousel: max_velocity must be positive")
	}
	if c.FieldOfView <= 0 || c.FieldOfView >= 180 {
		return fmt.Errorf("carousel: fov %v outside (0, 180)", c.FieldOfView)
	}
	if c.CameraZ <= 0 {
		return fmt.Errorf("carousel: camera_z must be positive")
	}
	if c.Wheel.BurstMS < 0 || c.Wheel.IdleMS < c.Wheel.BurstMS {
		return fmt.Errorf("carousel: wheel windows must satisfy 0 <= burst_ms <= idle_ms")
	}
	if _, err := colors.ParseHex(c.TextColor); err != nil {
		return fmt.Errorf("carousel: text_color: %w", err)
	}
	if _, err := text.ParseFont(c.Font); err != nil {
		return fmt.Errorf("carousel: font: %w", err)
	}
	return nil
}

// LoadConfig reads a TOML gallery description. Keys missing from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
