// Package region models a rotatable blur rectangle: its geometry, the
// gestures that edit it, hit-testing under rotation and the selection
// chrome drawn on top of it.
//
// All coordinates are in the content space the regions are placed over.
// Rotation is in degrees, clockwise on a y-down surface, about the center
// of the local rectangle.
package region

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/example/blurpatch/internal/geom"
)

// Edge identifies the side of a region being resized.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	}
	return fmt.Sprintf("Edge(%d)", int(e))
}

type resizeAnchor struct {
	edge  Edge
	start gg.Point
	snap  geom.Rect
}

type rotateAnchor struct {
	rotation float64
	angle    float64
}

// Region is a rectangle with a rotation, an owned blur buffer and an
// opaque payload.
type Region struct {
	// Payload is carried along with the region and never interpreted.
	Payload any

	id       string
	rect     geom.Rect
	rotation float64
	metrics  Metrics

	resize *resizeAnchor
	rotate *rotateAnchor

	buf        *image.RGBA
	autoUpdate bool
}

// New returns a region covering rect, normalized so Right ≥ Left and
// Bottom ≥ Top.
func New(rect geom.Rect, rotation float64, payload any, m Metrics) *Region {
	r := &Region{
		Payload:    payload,
		id:         uuid.NewString(),
		metrics:    m,
		autoUpdate: true,
	}
	r.SetLocalRect(rect)
	r.SetRotation(rotation)
	return r
}

// ID returns the stable identifier of r.
func (r *Region) ID() string { return r.id }

// LocalRect returns the unrotated rectangle.
func (r *Region) LocalRect() geom.Rect { return r.rect }

// SetLocalRect replaces the unrotated rectangle.
func (r *Region) SetLocalRect(rect geom.Rect) {
	r.rect = geom.FromPoints(gg.Pt(rect.Left, rect.Top), gg.Pt(rect.Right, rect.Bottom))
}

// Rotation returns the rotation in degrees, in [0, 360).
func (r *Region) Rotation() float64 { return r.rotation }

// SetRotation normalizes deg into [0, 360) and rounds it to two decimals.
func (r *Region) SetRotation(deg float64) { r.rotation = geom.RoundDegrees(deg) }

func (r *Region) Metrics() Metrics     { return r.metrics }
func (r *Region) SetMetrics(m Metrics) { r.metrics = m }

// Center returns the rotation center.
func (r *Region) Center() gg.Point { return r.rect.Center() }

// SelectionFrame returns the local rectangle outset by the frame margin.
func (r *Region) SelectionFrame() geom.Rect { return r.rect.Outset(r.metrics.FrameMargin) }

// Transform maps local coordinates to content coordinates.
func (r *Region) Transform() gg.Matrix { return geom.RotationAbout(r.rotation, r.Center()) }

// ToLocal inverse-rotates p into the unrotated frame.
func (r *Region) ToLocal(p gg.Point) gg.Point { return geom.RotateAbout(p, -r.rotation, r.Center()) }

// ToContent rotates a local point into content space.
func (r *Region) ToContent(p gg.Point) gg.Point { return geom.RotateAbout(p, r.rotation, r.Center()) }

// Bounds returns the axis-aligned bounding box of the rotated local
// rectangle.
func (r *Region) Bounds() geom.Rect {
	if r.rotation == 0 {
		return r.rect
	}
	return geom.Transform(r.rect, r.Transform())
}

// Clone returns a copy of r with a new ID, the same rectangle, rotation,
// payload, metrics and auto-update flag, and no buffer.
func (r *Region) Clone() *Region {
	return &Region{
		Payload:    r.Payload,
		id:         uuid.NewString(),
		rect:       r.rect,
		rotation:   r.rotation,
		metrics:    r.metrics,
		autoUpdate: r.autoUpdate,
	}
}

// Buffer returns the most recent blurred snapshot, or nil.
func (r *Region) Buffer() *image.RGBA { return r.buf }

// SetBuffer replaces the blur buffer.
func (r *Region) SetBuffer(b *image.RGBA) { r.buf = b }

// Release drops the blur buffer.
func (r *Region) Release() { r.buf = nil }

// AutoUpdate reports whether the region re-captures on every draw.
func (r *Region) AutoUpdate() bool     { return r.autoUpdate }
func (r *Region) SetAutoUpdate(v bool) { r.autoUpdate = v }

func (r *Region) String() string {
	return fmt.Sprintf("region %s %v @%.2f°", r.id, r.rect, r.rotation)
}
