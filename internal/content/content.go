// Package content provides the compositor roots regions are drawn over: a
// still image and the live screen.
package content

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/blurpatch/internal/capture"
	"github.com/example/blurpatch/internal/geom"
)

// Image is a still image placed at an origin.
type Image struct {
	img    image.Image
	origin image.Point
}

// NewImage returns a root for img whose top-left corner sits at origin.
func NewImage(img image.Image, origin image.Point) *Image {
	return &Image{img: img, origin: origin}
}

func (c *Image) Origin() image.Point { return c.origin }

// Source returns the underlying image.
func (c *Image) Source() image.Image { return c.img }

// SetSource replaces the image, keeping the origin.
func (c *Image) SetSource(img image.Image) { c.img = img }

// Render draws the image into dst through m. Content coordinates start at
// the image's top-left pixel whatever its bounds.
func (c *Image) Render(dst draw.Image, m f64.Aff3) error {
	if c.img == nil {
		return fmt.Errorf("content image: no source")
	}
	b := c.img.Bounds()
	xdraw.ApproxBiLinear.Transform(dst, shift(m, b.Min), c.img, b, draw.Src, nil)
	return nil
}

// shift returns m applied after moving source point min to the origin.
func shift(m f64.Aff3, min image.Point) f64.Aff3 {
	x, y := float64(-min.X), float64(-min.Y)
	m[2] += m[0]*x + m[1]*y
	m[5] += m[3]*x + m[4]*y
	return m
}

// Screen renders whatever is currently on screen. Content coordinates are
// global screen coordinates. Each Render grabs only the area the
// destination covers.
type Screen struct {
	origin image.Point
	grab   func(image.Rectangle) (*image.RGBA, error)
}

// NewScreen returns a root for the live screen. origin is where the
// screen's top-left corner sits in overlay space, usually the zero point.
func NewScreen(origin image.Point) *Screen {
	return &Screen{origin: origin, grab: capture.Rect}
}

func (s *Screen) Origin() image.Point { return s.origin }

// Render maps dst's bounds back to screen space, grabs that area and draws
// it through m.
func (s *Screen) Render(dst draw.Image, m f64.Aff3) error {
	mm := geom.Matrix(m)
	if math.Abs(mm.A*mm.E-mm.B*mm.D) < 1e-10 {
		return fmt.Errorf("content screen: transform is not invertible")
	}
	area := geom.Transform(geom.FromRectangle(dst.Bounds()), mm.Invert()).Rectangle()
	if area.Empty() {
		return nil
	}
	shot, err := s.grab(area)
	if err != nil {
		return fmt.Errorf("content screen: %w", err)
	}
	// shot's top-left pixel is screen point area.Min
	xdraw.ApproxBiLinear.Transform(dst, shift(m, shot.Bounds().Min.Sub(area.Min)), shot, shot.Bounds(), draw.Src, nil)
	return nil
}
