package region

import (
	"github.com/gogpu/gg"

	"github.com/example/blurpatch/internal/geom"
)

// Move translates the region. Translation commutes with rotation so the
// delta is applied as is.
func (r *Region) Move(dx, dy float64) {
	r.rect = r.rect.Offset(dx, dy)
}

// BeginResize records a resize anchor on edge starting at p.
func (r *Region) BeginResize(edge Edge, p gg.Point) {
	if edge == EdgeNone {
		r.resize = nil
		return
	}
	r.resize = &resizeAnchor{edge: edge, start: p, snap: r.rect}
}

// Resizing returns the anchored edge, or EdgeNone outside a resize.
func (r *Region) Resizing() Edge {
	if r.resize == nil {
		return EdgeNone
	}
	return r.resize.edge
}

// Resize moves the anchored edge by the pointer delta since BeginResize,
// measured in the region's unrotated frame. Only that edge changes; the
// result is kept inside viewport and at least RectMin on each side. It
// reports false when no resize is in progress.
func (r *Region) Resize(p gg.Point, viewport geom.Rect) bool {
	a := r.resize
	if a == nil {
		return false
	}
	d := geom.RotateVector(gg.Pt(p.X-a.start.X, p.Y-a.start.Y), -r.rotation)
	minSize := r.metrics.RectMin
	snap := a.snap

	switch a.edge {
	case EdgeTop:
		if v := snap.Top + d.Y; v < snap.Bottom-minSize {
			r.rect.Top = v
		}
	case EdgeBottom:
		if v := snap.Bottom + d.Y; v > snap.Top+minSize {
			r.rect.Bottom = v
		}
	case EdgeLeft:
		if v := snap.Left + d.X; v < snap.Right-minSize {
			r.rect.Left = v
		}
	case EdgeRight:
		if v := snap.Right + d.X; v > snap.Left+minSize {
			r.rect.Right = v
		}
	}
	r.constrain(a.edge, viewport)
	return true
}

// constrain clamps the anchored edge to viewport, then restores the
// minimum size by moving the edge being dragged so the opposite edge
// stays put.
func (r *Region) constrain(edge Edge, viewport geom.Rect) {
	minSize := r.metrics.RectMin
	switch edge {
	case EdgeTop:
		if r.rect.Top < viewport.Top {
			r.rect.Top = viewport.Top
		}
	case EdgeBottom:
		if r.rect.Bottom > viewport.Bottom {
			r.rect.Bottom = viewport.Bottom
		}
	case EdgeLeft:
		if r.rect.Left < viewport.Left {
			r.rect.Left = viewport.Left
		}
	case EdgeRight:
		if r.rect.Right > viewport.Right {
			r.rect.Right = viewport.Right
		}
	}

	if r.rect.Width() < minSize {
		if edge == EdgeLeft {
			r.rect.Left = r.rect.Right - minSize
		} else {
			r.rect.Right = r.rect.Left + minSize
		}
	}
	if r.rect.Height() < minSize {
		if edge == EdgeTop {
			r.rect.Top = r.rect.Bottom - minSize
		} else {
			r.rect.Bottom = r.rect.Top + minSize
		}
	}
}

// BeginRotate records the current rotation and the angle of p around the
// region center.
func (r *Region) BeginRotate(p gg.Point) {
	r.rotate = &rotateAnchor{rotation: r.rotation, angle: geom.AngleOf(p, r.Center())}
}

// Rotating reports whether a rotate gesture is in progress.
func (r *Region) Rotating() bool { return r.rotate != nil }

// Rotate turns the region by the change in pointer angle since
// BeginRotate. It reports false when no rotation is in progress.
func (r *Region) Rotate(p gg.Point) bool {
	a := r.rotate
	if a == nil {
		return false
	}
	r.SetRotation(a.rotation + geom.AngleOf(p, r.Center()) - a.angle)
	return true
}

// ClearAnchors drops any in-progress resize or rotate state.
func (r *Region) ClearAnchors() {
	r.resize = nil
	r.rotate = nil
}
