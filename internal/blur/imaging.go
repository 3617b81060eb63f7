package blur

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Imaging blurs through disintegration/imaging. It always returns a new
// buffer.
type Imaging struct{}

// NewImaging returns an imaging-backed kernel.
func NewImaging() Imaging { return Imaging{} }

func (Imaging) PixelFormat() PixelFormat { return FormatNRGBA }
func (Imaging) CanModifyInPlace() bool   { return false }
func (Imaging) Destroy()                 {}

// Blur returns a blurred copy of buf. The radius is mapped to sigma the
// same way the Gaussian kernel does.
func (Imaging) Blur(buf *image.RGBA, radius float64) (*image.RGBA, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}
	radius = ClampRadius(radius)
	out := image.NewRGBA(buf.Bounds())
	if radius <= 0 || buf.Bounds().Empty() {
		draw.Draw(out, out.Bounds(), buf, buf.Bounds().Min, draw.Src)
		return out, nil
	}
	blurred := imaging.Blur(buf, radius/2)
	draw.Draw(out, out.Bounds(), blurred, blurred.Bounds().Min, draw.Src)
	return out, nil
}
