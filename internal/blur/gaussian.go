package blur

import (
	"image"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

const kernelCacheSize = 64

// Gaussian is a separable Gaussian blur with edge clamping. Kernels are
// cached per radius. It blurs in place.
type Gaussian struct {
	kernels *lru.Cache[int, []float32]
	tmp     []float32
}

// NewGaussian returns a Gaussian kernel.
func NewGaussian() *Gaussian {
	cache, err := lru.New[int, []float32](kernelCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &Gaussian{kernels: cache}
}

func (g *Gaussian) PixelFormat() PixelFormat { return FormatRGBA }
func (g *Gaussian) CanModifyInPlace() bool   { return true }

// Destroy purges the kernel cache and scratch buffer.
func (g *Gaussian) Destroy() {
	g.kernels.Purge()
	g.tmp = nil
}

// Blur blurs buf in place and returns it.
func (g *Gaussian) Blur(buf *image.RGBA, radius float64) (*image.RGBA, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}
	radius = ClampRadius(radius)
	bounds := buf.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if radius <= 0 || w == 0 || h == 0 {
		return buf, nil
	}
	kernel := g.kernel(radius)
	half := len(kernel) / 2
	if cap(g.tmp) < w*h*4 {
		g.tmp = make([]float32, w*h*4)
	}
	tmp := g.tmp[:w*h*4]

	for y := 0; y < h; y++ {
		row := y * buf.Stride
		for x := 0; x < w; x++ {
			var r, gr, b, a float32
			for k, weight := range kernel {
				kx := clampIndex(x+k-half, w)
				i := row + kx*4
				r += float32(buf.Pix[i]) * weight
				gr += float32(buf.Pix[i+1]) * weight
				b += float32(buf.Pix[i+2]) * weight
				a += float32(buf.Pix[i+3]) * weight
			}
			t := (y*w + x) * 4
			tmp[t], tmp[t+1], tmp[t+2], tmp[t+3] = r, gr, b, a
		}
	}
	for y := 0; y < h; y++ {
		row := y * buf.Stride
		for x := 0; x < w; x++ {
			var r, gr, b, a float32
			for k, weight := range kernel {
				ky := clampIndex(y+k-half, h)
				t := (ky*w + x) * 4
				r += tmp[t] * weight
				gr += tmp[t+1] * weight
				b += tmp[t+2] * weight
				a += tmp[t+3] * weight
			}
			i := row + x*4
			buf.Pix[i] = clampUint8(r)
			buf.Pix[i+1] = clampUint8(gr)
			buf.Pix[i+2] = clampUint8(b)
			buf.Pix[i+3] = clampUint8(a)
		}
	}
	return buf, nil
}

func (g *Gaussian) kernel(radius float64) []float32 {
	key := int(radius * 100)
	if k, ok := g.kernels.Get(key); ok {
		return k
	}
	k := gaussianKernel(radius)
	g.kernels.Add(key, k)
	return k
}

// gaussianKernel builds a normalized 1D kernel. The radius is treated as
// 2σ and the kernel spans 3σ on each side.
func gaussianKernel(radius float64) []float32 {
	sigma := radius / 2
	if sigma <= 0 {
		return []float32{1}
	}
	half := int(math.Ceil(sigma * 3))
	kernel := make([]float32, half*2+1)
	twoSigmaSq := 2 * sigma * sigma
	var sum float64
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
