package region

import (
	"github.com/gogpu/gg"

	"github.com/example/blurpatch/internal/geom"
)

// Menu is the copy/delete bar laid out next to a selected region. It is
// placed in content space and never rotated.
type Menu struct {
	Rect   geom.Rect
	Delete geom.Rect
	Copy   geom.Rect
	// Below is set when the menu sits under the region.
	Below bool
	// Hidden is set when the menu does not fit in the viewport.
	Hidden bool
}

// Menu lays out the menu for viewport. It goes below the region when the
// region center is in the top half of the viewport and above it
// otherwise, and is clamped to the left and right viewport edges.
func (r *Region) Menu(viewport geom.Rect) Menu {
	m := r.metrics
	sel := r.SelectionFrame()
	var out Menu

	var top float64
	if r.Center().Y < viewport.Center().Y {
		out.Below = true
		top = sel.Bottom + m.MenuMargin
		out.Hidden = top+m.MenuHeight > viewport.Bottom
	} else {
		top = sel.Top - m.MenuMargin - m.MenuHeight
		out.Hidden = top < viewport.Top
	}
	if out.Hidden {
		top = viewport.Bottom
	}

	half := m.MenuWidth / 2
	cx := r.Center().X
	switch {
	case cx-half <= viewport.Left:
		cx = viewport.Left + half
	case viewport.Right-cx <= half:
		cx = viewport.Right - half
	}
	out.Rect = geom.R(cx-half, top, cx+half, top+m.MenuHeight)

	by := top + m.ButtonInset
	out.Delete = geom.R(cx-m.ButtonOffset-m.ButtonSize, by, cx-m.ButtonOffset, by+m.ButtonSize)
	out.Copy = geom.R(cx+m.ButtonOffset, by, cx+m.ButtonOffset+m.ButtonSize, by+m.ButtonSize)
	return out
}

// Divider returns the end points of the line separating the buttons.
func (m Menu) Divider(inset float64) (gg.Point, gg.Point) {
	c := m.Rect.Center()
	return gg.Pt(c.X, m.Rect.Top+inset), gg.Pt(c.X, m.Rect.Bottom-inset)
}
