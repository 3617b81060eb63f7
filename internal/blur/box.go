package blur

import (
	"image"
	"math"
)

// Box is a two-pass box blur computed with running prefix sums. It blurs
// in place.
type Box struct {
	prefix []int
	tmp    []uint8
}

// NewBox returns a box kernel.
func NewBox() *Box { return &Box{} }

func (b *Box) PixelFormat() PixelFormat { return FormatRGBA }
func (b *Box) CanModifyInPlace() bool   { return true }

// Destroy drops the scratch buffers.
func (b *Box) Destroy() {
	b.prefix = nil
	b.tmp = nil
}

// Blur blurs buf in place and returns it.
func (b *Box) Blur(buf *image.RGBA, radius float64) (*image.RGBA, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}
	r := int(math.Round(ClampRadius(radius)))
	bounds := buf.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if r <= 0 || w == 0 || h == 0 {
		return buf, nil
	}
	if cap(b.tmp) < w*h*4 {
		b.tmp = make([]uint8, w*h*4)
	}
	tmp := b.tmp[:w*h*4]
	n := w
	if h > n {
		n = h
	}
	if cap(b.prefix) < n+1 {
		b.prefix = make([]int, n+1)
	}
	prefix := b.prefix[:n+1]

	for c := 0; c < 4; c++ {
		for y := 0; y < h; y++ {
			row := y * buf.Stride
			for x := 0; x < w; x++ {
				prefix[x+1] = prefix[x] + int(buf.Pix[row+x*4+c])
			}
			for x := 0; x < w; x++ {
				x0, x1 := window(x, r, w)
				tmp[(y*w+x)*4+c] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
			}
		}
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				prefix[y+1] = prefix[y] + int(tmp[(y*w+x)*4+c])
			}
			for y := 0; y < h; y++ {
				y0, y1 := window(y, r, h)
				buf.Pix[y*buf.Stride+x*4+c] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
			}
		}
	}
	return buf, nil
}

// window returns the inclusive sample range around i clamped to [0, n).
func window(i, r, n int) (int, int) {
	lo := i - r
	if lo < 0 {
		lo = 0
	}
	hi := i + r
	if hi >= n {
		hi = n - 1
	}
	return lo, hi
}
