// Package compositor fills blur regions with a blurred, tinted and
// optionally noise-dithered snapshot of the content beneath them.
//
// For each region the compositor captures the content under the region
// into a downscaled buffer, blurs it with a blur.Kernel and draws the
// result scaled back up and rotated onto the destination. Everything runs
// on the caller's goroutine.
package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gogpu/gg"
	lru "github.com/hashicorp/golang-lru/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/blurpatch/internal/blur"
	"github.com/example/blurpatch/internal/geom"
	"github.com/example/blurpatch/internal/logging"
	"github.com/example/blurpatch/internal/region"
	"github.com/example/blurpatch/internal/scaler"
)

// Root is the content regions are placed over.
type Root interface {
	// Render draws the content into dst. m maps content coordinates to
	// dst coordinates.
	Render(dst draw.Image, m f64.Aff3) error
	// Origin is the position of the content's top-left corner in the
	// space the overlay is placed in.
	Origin() image.Point
}

// Compositor captures, blurs and draws regions. The zero value is not
// usable; create one with New.
type Compositor struct {
	root   Root
	kernel blur.Kernel
	scaler scaler.Scaler
	log    *slog.Logger

	factor  float64
	noAlign bool
	origin  image.Point
	radius  float64
	tint    color.Color
	noise   bool
	enabled bool

	upscale xdraw.Transformer

	capturing bool
	scratch   *image.RGBA
	regions   map[*region.Region]struct{}
	textures  *lru.Cache[image.Point, *image.NRGBA]
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithScaleFactor sets the downscale ratio of blur buffers.
func WithScaleFactor(f float64) Option { return func(c *Compositor) { c.factor = f } }

// WithoutStrideAlignment keeps buffer widths unrounded.
func WithoutStrideAlignment() Option { return func(c *Compositor) { c.noAlign = true } }

// WithRadius sets the blur radius.
func WithRadius(r float64) Option { return func(c *Compositor) { c.radius = blur.ClampRadius(r) } }

// WithTint sets the overlay color drawn over the blur.
func WithTint(col color.Color) Option { return func(c *Compositor) { c.tint = col } }

// WithNoise enables or disables the noise texture.
func WithNoise(on bool) Option { return func(c *Compositor) { c.noise = on } }

// WithOverlayOrigin sets where the overlay's top-left corner sits in the
// same space as Root.Origin.
func WithOverlayOrigin(p image.Point) Option { return func(c *Compositor) { c.origin = p } }

// WithLogger sets the logger. The shared logger is used otherwise.
func WithLogger(l *slog.Logger) Option { return func(c *Compositor) { c.log = l } }

// WithUpscaler sets the interpolator used to scale buffers back up.
func WithUpscaler(t xdraw.Transformer) Option { return func(c *Compositor) { c.upscale = t } }

const textureCacheSize = 8

// New returns a compositor drawing content from root with kernel.
func New(root Root, kernel blur.Kernel, opts ...Option) *Compositor {
	c := &Compositor{
		root:    root,
		kernel:  kernel,
		factor:  scaler.DefaultFactor,
		radius:  blur.DefaultRadius,
		tint:    color.Transparent,
		noise:   true,
		enabled: true,
		upscale: xdraw.BiLinear,
		regions: make(map[*region.Region]struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	c.log = logging.Or(c.log)
	var sopts []scaler.Option
	if c.noAlign {
		sopts = append(sopts, scaler.WithoutStrideAlignment())
	}
	c.scaler = scaler.New(c.factor, sopts...)
	cache, err := lru.New[image.Point, *image.NRGBA](textureCacheSize)
	if err != nil {
		panic(err)
	}
	c.textures = cache
	if kernel != nil {
		c.log.Debug("compositor ready",
			"kernel", kernel.PixelFormat().String(),
			"in_place", kernel.CanModifyInPlace(),
			"factor", c.scaler.Factor(),
			"radius", c.radius)
	}
	return c
}

// SetRoot replaces the content root.
func (c *Compositor) SetRoot(root Root) { c.root = root }

// Radius returns the blur radius.
func (c *Compositor) Radius() float64 { return c.radius }

// SetRadius sets the blur radius, clamped to the kernel maximum.
func (c *Compositor) SetRadius(r float64) { c.radius = blur.ClampRadius(r) }

// Tint returns the overlay color.
func (c *Compositor) Tint() color.Color { return c.tint }

// SetTint sets the overlay color. A nil color disables the tint.
func (c *Compositor) SetTint(col color.Color) {
	if col == nil {
		col = color.Transparent
	}
	c.tint = col
}

// Noise reports whether the noise texture is drawn.
func (c *Compositor) Noise() bool       { return c.noise }
func (c *Compositor) SetNoise(on bool)  { c.noise = on }
func (c *Compositor) Enabled() bool     { return c.enabled }
func (c *Compositor) SetEnabled(v bool) { c.enabled = v }

// SetAutoUpdate sets auto-update on every region the compositor knows.
func (c *Compositor) SetAutoUpdate(on bool) {
	for r := range c.regions {
		r.SetAutoUpdate(on)
	}
}

// Allocate sizes r's buffer for its current rectangle, reusing the
// existing buffer when the size is unchanged. Regions too small to scale
// lose their buffer and Allocate reports false.
func (c *Compositor) Allocate(r *region.Region) bool {
	rect := r.LocalRect()
	if c.scaler.IsZeroSized(rect.Width(), rect.Height()) {
		if r.Buffer() != nil {
			c.log.Debug("region too small, dropping buffer", "region", r.ID(), "rect", rect.String())
		}
		r.Release()
		return false
	}
	size := c.scaler.Scale(rect.Width(), rect.Height())
	want := image.Rect(0, 0, size.Width, size.Height)
	c.regions[r] = struct{}{}
	if buf := r.Buffer(); buf != nil && buf.Bounds() == want {
		return true
	}
	buf := image.NewRGBA(want)
	r.SetBuffer(buf)
	c.log.Debug("allocated blur buffer",
		"region", r.ID(),
		"size", want.Size().String(),
		"bytes", humanize.Bytes(uint64(len(buf.Pix))))
	return true
}

// Forget releases r's buffer and stops tracking it.
func (c *Compositor) Forget(r *region.Region) {
	r.Release()
	delete(c.regions, r)
}

// Detach turns auto-update off and releases the buffers of every region
// the compositor knows.
func (c *Compositor) Detach() {
	for r := range c.regions {
		r.SetAutoUpdate(false)
		r.Release()
	}
	clear(c.regions)
	c.scratch = nil
	c.textures.Purge()
}

// Close detaches and destroys the kernel.
func (c *Compositor) Close() {
	c.Detach()
	if c.kernel != nil {
		c.kernel.Destroy()
	}
}

// CaptureTransform returns the transform from content space to the
// buffer space of r: inverse rotation about the region center, then the
// offset of the region relative to the root, then the downscale.
func (c *Compositor) CaptureTransform(r *region.Region) f64.Aff3 {
	return geom.Aff3(c.captureMatrix(r))
}

func (c *Compositor) captureMatrix(r *region.Region) gg.Matrix {
	rect := r.LocalRect()
	buf := r.Buffer()
	sW, sH := 1.0, 1.0
	if buf != nil && buf.Bounds().Dx() > 0 && buf.Bounds().Dy() > 0 {
		sW = rect.Width() / float64(buf.Bounds().Dx())
		sH = rect.Height() / float64(buf.Bounds().Dy())
	}
	var off image.Point
	if c.root != nil {
		off = c.origin.Sub(c.root.Origin())
	}
	left := rect.Left + float64(off.X)
	top := rect.Top + float64(off.Y)
	center := gg.Pt(rect.Center().X+float64(off.X), rect.Center().Y+float64(off.Y))

	return gg.Scale(1/sW, 1/sH).
		Multiply(gg.Translate(-left, -top)).
		Multiply(geom.RotationAbout(-r.Rotation(), center))
}

// Update captures and blurs the content under r. It reports whether r has
// a buffer worth drawing afterwards.
func (c *Compositor) Update(r *region.Region) bool {
	if !c.Allocate(r) {
		return false
	}
	if !c.capture(r) {
		return r.Buffer() != nil
	}
	c.blur(r)
	return true
}

// capture renders the root into a scratch buffer and swaps it in on
// success, so a failed render leaves the previous contents in place.
func (c *Compositor) capture(r *region.Region) bool {
	if c.root == nil {
		return false
	}
	buf := r.Buffer()
	scratch := c.scratch
	if scratch == nil || scratch.Bounds() != buf.Bounds() {
		scratch = image.NewRGBA(buf.Bounds())
	} else {
		draw.Draw(scratch, scratch.Bounds(), image.Transparent, image.Point{}, draw.Src)
	}

	m := c.CaptureTransform(r)
	c.capturing = true
	err := c.root.Render(scratch, m)
	c.capturing = false
	if err != nil {
		c.scratch = scratch
		c.log.Warn("snapshot capture failed, keeping previous frame", "region", r.ID(), "err", err)
		return false
	}
	r.SetBuffer(scratch)
	c.scratch = buf
	return true
}

func (c *Compositor) blur(r *region.Region) {
	if c.kernel == nil || c.radius <= 0 {
		return
	}
	buf := r.Buffer()
	out, err := c.kernel.Blur(buf, c.radius)
	if err != nil {
		c.log.Warn("blur failed, drawing unblurred snapshot", "region", r.ID(), "err", err)
		return
	}
	if out != nil && out != buf && out.Bounds() == buf.Bounds() {
		r.SetBuffer(out)
	}
}

// Draw composites r onto dst, which must be in overlay coordinates. It
// re-captures first when r auto-updates. Draw reports false without
// drawing when called during a capture, when dst is one of the
// compositor's own buffers, or when r has no buffer.
func (c *Compositor) Draw(dst draw.Image, r *region.Region) bool {
	if c.capturing || c.owns(dst) {
		return false
	}
	if !c.enabled {
		return true
	}
	if r.AutoUpdate() {
		c.Update(r)
	}
	buf := r.Buffer()
	if buf == nil {
		return false
	}

	rect := r.LocalRect()
	sW := rect.Width() / float64(buf.Bounds().Dx())
	sH := rect.Height() / float64(buf.Bounds().Dy())
	place := r.Transform().Multiply(gg.Translate(rect.Left, rect.Top))
	s2d := geom.Aff3(place.Multiply(gg.Scale(sW, sH)))

	c.upscale.Transform(dst, s2d, buf, buf.Bounds(), draw.Over, nil)
	if _, _, _, a := c.tint.RGBA(); a != 0 {
		xdraw.NearestNeighbor.Transform(dst, s2d, image.NewUniform(c.tint), buf.Bounds(), draw.Over, nil)
	}
	if c.noise {
		tex := c.noiseTexture(rect.Rectangle().Size())
		if tex != nil {
			xdraw.NearestNeighbor.Transform(dst, geom.Aff3(place), tex, tex.Bounds(), draw.Over, nil)
		}
	}
	return true
}

func (c *Compositor) owns(dst draw.Image) bool {
	img, ok := dst.(*image.RGBA)
	if !ok {
		return false
	}
	if img == c.scratch {
		return true
	}
	for r := range c.regions {
		if r.Buffer() == img {
			return true
		}
	}
	return false
}
