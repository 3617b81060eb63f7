// Package blur provides the pluggable blur kernels used by the compositor.
//
// A kernel is chosen once with New and used only through the Kernel
// interface afterwards.
package blur

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"
	"strings"
)

// MaxRadius is the largest radius any kernel accepts.
const MaxRadius = 25

// DefaultRadius is the radius used when none is configured.
const DefaultRadius = 16

// PixelFormat names the buffer layout a kernel works on.
type PixelFormat int

const (
	// FormatRGBA is 8-bit premultiplied RGBA, the layout of image.RGBA.
	FormatRGBA PixelFormat = iota
	// FormatNRGBA is 8-bit non-premultiplied RGBA.
	FormatNRGBA
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA:
		return "rgba"
	case FormatNRGBA:
		return "nrgba"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// Kernel blurs pixel buffers.
type Kernel interface {
	// Blur blurs buf with the given radius. The result is either buf
	// itself or a new buffer of the same bounds.
	Blur(buf *image.RGBA, radius float64) (*image.RGBA, error)
	// PixelFormat reports the layout the kernel blurs natively.
	PixelFormat() PixelFormat
	// CanModifyInPlace reports whether Blur returns its input buffer.
	CanModifyInPlace() bool
	// Destroy releases any cached resources.
	Destroy()
}

var (
	// ErrUnknownKernel is returned by New for unregistered names.
	ErrUnknownKernel = errors.New("unknown blur kernel")
	// ErrNilBuffer is returned when Blur is given no buffer.
	ErrNilBuffer = errors.New("blur: nil buffer")
)

// DefaultKernel is the kernel name used when none is configured.
const DefaultKernel = "gaussian"

var registry = map[string]func() Kernel{
	"box":      func() Kernel { return NewBox() },
	"gaussian": func() Kernel { return NewGaussian() },
	"imaging":  func() Kernel { return NewImaging() },
}

// New returns the kernel registered under name. An empty name selects
// DefaultKernel.
func New(name string) (Kernel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultKernel
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownKernel, name, strings.Join(Names(), ", "))
	}
	return fn(), nil
}

// Names lists the registered kernel names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClampRadius limits r to [0, MaxRadius].
func ClampRadius(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r > MaxRadius {
		return MaxRadius
	}
	return r
}
