package region

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/example/blurpatch/internal/geom"
)

// Contains reports whether p lies inside the rotated region.
func (r *Region) Contains(p gg.Point) bool {
	return r.rect.Contains(r.ToLocal(p))
}

// RotateHandles returns the two rotate handle boxes in the local frame:
// above the top-right corner and below the bottom-left corner of the
// selection frame.
func (r *Region) RotateHandles() (topRight, bottomLeft geom.Rect) {
	sel := r.SelectionFrame()
	h := r.metrics.HandleSize
	topRight = geom.R(sel.Right, sel.Top-h, sel.Right+h, sel.Top)
	bottomLeft = geom.R(sel.Left-h, sel.Bottom, sel.Left, sel.Bottom+h)
	return topRight, bottomLeft
}

// InRotateHandle reports whether p hits either rotate handle.
func (r *Region) InRotateHandle(p gg.Point) bool {
	lp := r.ToLocal(p)
	tr, bl := r.RotateHandles()
	return tr.Contains(lp) || bl.Contains(lp)
}

// Dot is a resize handle centered on a selection frame edge.
type Dot struct {
	Edge   Edge
	Center gg.Point
}

// ResizeDots returns the four resize handles in the local frame, in
// top, bottom, left, right order.
func (r *Region) ResizeDots() [4]Dot {
	sel := r.SelectionFrame()
	c := sel.Center()
	return [4]Dot{
		{EdgeTop, gg.Pt(c.X, sel.Top)},
		{EdgeBottom, gg.Pt(c.X, sel.Bottom)},
		{EdgeLeft, gg.Pt(sel.Left, c.Y)},
		{EdgeRight, gg.Pt(sel.Right, c.Y)},
	}
}

// ResizeHandleAt returns the edge of the resize dot under p, or EdgeNone.
func (r *Region) ResizeHandleAt(p gg.Point) Edge {
	lp := r.ToLocal(p)
	d := r.metrics.DotHitRadius
	for _, dot := range r.ResizeDots() {
		box := geom.R(dot.Center.X-d, dot.Center.Y-d, dot.Center.X+d, dot.Center.Y+d)
		if box.Contains(lp) {
			return dot.Edge
		}
	}
	return EdgeNone
}

// BorderWidth returns the width of the border band, narrowed for small
// regions.
func (r *Region) BorderWidth() float64 {
	if r.rect.Width() < r.metrics.NarrowThreshold {
		return r.metrics.NarrowBorderWidth
	}
	return r.metrics.BorderWidth
}

// BorderEdgeAt returns the selection frame edge whose band contains p, or
// EdgeNone. Edges are checked top, bottom, left, right.
func (r *Region) BorderEdgeAt(p gg.Point) Edge {
	lp := r.ToLocal(p)
	sel := r.SelectionFrame()
	t := r.BorderWidth()
	inX := lp.X >= sel.Left && lp.X <= sel.Right
	inY := lp.Y >= sel.Top && lp.Y <= sel.Bottom
	switch {
	case inX && math.Abs(lp.Y-sel.Top) < t:
		return EdgeTop
	case inX && math.Abs(lp.Y-sel.Bottom) < t:
		return EdgeBottom
	case inY && math.Abs(lp.X-sel.Left) < t:
		return EdgeLeft
	case inY && math.Abs(lp.X-sel.Right) < t:
		return EdgeRight
	}
	return EdgeNone
}

// OnBorder reports whether p lies in the border band.
func (r *Region) OnBorder(p gg.Point) bool { return r.BorderEdgeAt(p) != EdgeNone }

// InCopyButton reports whether p hits the copy button of the menu laid
// out for viewport. Buttons are not rotated.
func (r *Region) InCopyButton(p gg.Point, viewport geom.Rect) bool {
	m := r.Menu(viewport)
	return !m.Hidden && m.Copy.Contains(p)
}

// InDeleteButton reports whether p hits the delete button.
func (r *Region) InDeleteButton(p gg.Point, viewport geom.Rect) bool {
	m := r.Menu(viewport)
	return !m.Hidden && m.Delete.Contains(p)
}

// IsVisible reports whether the selection frame intersects viewport.
func (r *Region) IsVisible(viewport geom.Rect) bool {
	sel := r.SelectionFrame()
	return sel.Width() > 0 && sel.Height() > 0 && sel.Intersects(viewport)
}

// IsOutside reports whether the local rectangle lies entirely beyond one
// edge of viewport. Touching an edge counts as outside.
func (r *Region) IsOutside(viewport geom.Rect) bool {
	return r.rect.Right <= viewport.Left ||
		r.rect.Left >= viewport.Right ||
		r.rect.Bottom <= viewport.Top ||
		r.rect.Top >= viewport.Bottom
}
