// Package scaler maps a region size to the size of its downscaled blur
// buffer.
package scaler

import "math"

// StrideAlignment is the width multiple blur buffers are rounded up to.
const StrideAlignment = 64

// DefaultFactor is the default downscale ratio.
const DefaultFactor = 4

// Size is a buffer size in pixels. Scale records the ratio between the
// requested width and the achieved buffer width.
type Size struct {
	Width  int
	Height int
	Scale  float64
}

// Scaler computes buffer sizes for a fixed downscale factor.
type Scaler struct {
	factor  float64
	noAlign bool
}

// Option configures a Scaler.
type Option func(*Scaler)

// WithoutStrideAlignment disables rounding the width to StrideAlignment.
func WithoutStrideAlignment() Option { return func(s *Scaler) { s.noAlign = true } }

// New returns a Scaler for factor. Factors below 1 are treated as 1.
func New(factor float64, opts ...Option) Scaler {
	if factor < 1 || math.IsNaN(factor) {
		factor = 1
	}
	s := Scaler{factor: factor}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// Factor returns the configured downscale factor.
func (s Scaler) Factor() float64 { return s.factor }

// Scale returns the buffer size for a w×h region.
func (s Scaler) Scale(w, h float64) Size {
	nonRounded := s.downscale(w)
	scaledWidth := nonRounded
	if !s.noAlign {
		scaledWidth = roundToStride(nonRounded)
	}
	if scaledWidth == 0 {
		return Size{Scale: s.factor}
	}
	roundingScale := w / float64(scaledWidth)
	scaledHeight := int(math.Ceil(h / roundingScale))
	return Size{Width: scaledWidth, Height: scaledHeight, Scale: roundingScale}
}

// IsZeroSized reports whether w×h downscales to an empty buffer.
func (s Scaler) IsZeroSized(w, h float64) bool {
	return s.downscale(w) == 0 || s.downscale(h) == 0
}

func (s Scaler) downscale(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Ceil(v / s.factor))
}

func roundToStride(v int) int {
	if v%StrideAlignment == 0 {
		return v
	}
	return v - v%StrideAlignment + StrideAlignment
}
