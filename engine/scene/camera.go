package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Size is a width/height pair; pixels for screens, world units for viewports.
type Size struct{ Width, Height float64 }

// ViewportMapping relates the pixel screen to the world-space rectangle
// visible at the z = 0 plane.
type ViewportMapping struct {
	Screen   Size
	Viewport Size
}

// MapViewport derives the mapping for a w×h pixel screen seen by a camera
// with vertical field of view fovDeg at distance z. Dimensions are clamped
// to at least 1 pixel so a collapsed container never divides by zero.
func MapViewport(w, h int, fovDeg, z float64) ViewportMapping {
	sw, sh := float64(max(w, 1)), float64(max(h, 1))
	vh := 2 * math.Tan(fovDeg*math.Pi/360) * z
	return ViewportMapping{
		Screen:   Size{Width: sw, Height: sh},
		Viewport: Size{Width: vh * sw / sh, Height: vh},
	}
}

// PerspectiveCamera sits on the +z axis looking at the origin.
type PerspectiveCamera struct {
	FovDeg    float32
	Near, Far float32
	Z         float32

	aspect float32
	proj   mgl32.Mat4
	view   mgl32.Mat4
	dirty  bool
}

func NewPerspective(fovDeg, z float32) *PerspectiveCamera {
	c := &PerspectiveCamera{FovDeg: fovDeg, Near: 0.1, Far: 100, Z: z, aspect: 1}
	c.Recalculate()
	return c
}

// SetScreen updates the aspect ratio for a w×h pixel surface and returns
// the resulting viewport mapping.
func (c *PerspectiveCamera) SetScreen(w, h int) ViewportMapping {
	m := MapViewport(w, h, float64(c.FovDeg), float64(c.Z))
	c.aspect = float32(m.Screen.Width / m.Screen.Height)
	c.dirty = true
	return m
}

func (c *PerspectiveCamera) Projection() mgl32.Mat4 {
	if c.dirty {
		c.Recalculate()
	}
	return c.proj
}

func (c *PerspectiveCamera) View() mgl32.Mat4 {
	if c.dirty {
		c.Recalculate()
	}
	return c.view
}

func (c *PerspectiveCamera) Recalculate() {
	c.proj = mgl32.Perspective(mgl32.DegToRad(c.FovDeg), c.aspect, c.Near, c.Far)
	c.view = mgl32.Translate3D(0, 0, -c.Z)
	c.dirty = false
}
