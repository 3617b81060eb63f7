// Package interact turns single-pointer input into region edits. The
// Controller owns the ordered region list and the current selection and
// runs the draw pass over them.
package interact

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"math"
	"slices"

	"github.com/gogpu/gg"

	"github.com/example/blurpatch/internal/compositor"
	"github.com/example/blurpatch/internal/geom"
	"github.com/example/blurpatch/internal/logging"
	"github.com/example/blurpatch/internal/region"
)

// State is the gesture the controller is in.
type State int

const (
	StateNone State = iota
	StateMove
	StateRotate
	StateResize
	StateAddPending
	StateAddDragging
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateMove:
		return "move"
	case StateRotate:
		return "rotate"
	case StateResize:
		return "resize"
	case StateAddPending:
		return "add-pending"
	case StateAddDragging:
		return "add-dragging"
	case StateDeleted:
		return "deleted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Controller dispatches pointer events to region geometry and draws the
// regions. It is not safe for concurrent use.
type Controller struct {
	regions  []*region.Region
	selected *region.Region
	state    State

	viewport geom.Rect
	metrics  region.Metrics
	comp     *compositor.Compositor
	chrome   *region.Chrome
	log      *slog.Logger

	down    gg.Point
	last    gg.Point
	preview geom.Rect

	drawing bool
	pending []*region.Region
}

// Option configures a Controller.
type Option func(*Controller)

// WithMetrics sets the metrics given to new regions.
func WithMetrics(m region.Metrics) Option { return func(c *Controller) { c.metrics = m } }

// WithCompositor sets the compositor used to fill regions.
func WithCompositor(comp *compositor.Compositor) Option {
	return func(c *Controller) { c.comp = comp }
}

// WithPalette sets the chrome colors.
func WithPalette(p region.Palette) Option {
	return func(c *Controller) { c.chrome = region.NewChrome(p) }
}

// WithLogger sets the logger. The shared logger is used otherwise.
func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.log = l } }

// New returns a controller for viewport. Without WithCompositor the
// controller draws chrome only until SetCompositor is called.
func New(viewport geom.Rect, opts ...Option) *Controller {
	c := &Controller{
		viewport: viewport,
		metrics:  region.DefaultMetrics(1),
	}
	for _, o := range opts {
		o(c)
	}
	if c.chrome == nil {
		c.chrome = region.NewChrome(region.DefaultPalette())
	}
	c.log = logging.Or(c.log)
	return c
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

func (c *Controller) Viewport() geom.Rect     { return c.viewport }
func (c *Controller) SetViewport(v geom.Rect) { c.viewport = v }

// Metrics returns the metrics given to new regions.
func (c *Controller) Metrics() region.Metrics { return c.metrics }

// SetMetrics replaces the metrics of the controller and every region.
func (c *Controller) SetMetrics(m region.Metrics) {
	c.metrics = m
	for _, r := range c.regions {
		r.SetMetrics(m)
	}
}

// Compositor returns the compositor, or nil before one is set.
func (c *Controller) Compositor() *compositor.Compositor { return c.comp }

// SetCompositor sets the compositor. Passing nil detaches the current one.
func (c *Controller) SetCompositor(comp *compositor.Compositor) {
	if c.comp != nil && c.comp != comp {
		c.comp.Detach()
	}
	c.comp = comp
}

// Chrome returns the chrome renderer.
func (c *Controller) Chrome() *region.Chrome { return c.chrome }

// Regions returns the regions bottom to top. The slice is a copy.
func (c *Controller) Regions() []*region.Region { return slices.Clone(c.regions) }

// Selected returns the selected region, or nil.
func (c *Controller) Selected() *region.Region { return c.selected }

// Select makes r the selection without changing the z-order. r must
// belong to the controller.
func (c *Controller) Select(r *region.Region) {
	if r == nil || slices.Contains(c.regions, r) {
		c.selected = r
	}
}

// ClearSelection drops the selection.
func (c *Controller) ClearSelection() {
	if c.selected != nil {
		c.selected.ClearAnchors()
	}
	c.selected = nil
}

// AddRegion adds a region on top and selects it.
func (c *Controller) AddRegion(rect geom.Rect, rotation float64, payload any) *region.Region {
	r := region.New(rect, rotation, payload, c.metrics)
	c.regions = append(c.regions, r)
	c.selected = r
	c.log.Debug("region added", "region", r.ID(), "rect", r.LocalRect().String(), "rotation", r.Rotation())
	return r
}

// Remove deletes r and releases its buffer. Removals requested while a
// draw pass is running are applied when the pass ends.
func (c *Controller) Remove(r *region.Region) {
	if r == nil {
		return
	}
	if c.drawing {
		c.pending = append(c.pending, r)
		return
	}
	i := slices.Index(c.regions, r)
	if i < 0 {
		return
	}
	c.regions = slices.Delete(c.regions, i, i+1)
	if c.comp != nil {
		c.comp.Forget(r)
	} else {
		r.Release()
	}
	if c.selected == r {
		c.selected = nil
	}
	c.log.Debug("region removed", "region", r.ID())
}

// DeleteSelected removes the selected region. It reports whether there
// was one.
func (c *Controller) DeleteSelected() bool {
	r := c.selected
	if r == nil {
		return false
	}
	c.Remove(r)
	c.selected = nil
	return true
}

// Duplicate clones the selected region, offsets the clone by the copy
// offset, inserts it directly above the original and selects it.
func (c *Controller) Duplicate() *region.Region {
	src := c.selected
	if src == nil {
		return nil
	}
	i := slices.Index(c.regions, src)
	if i < 0 {
		return nil
	}
	dup := src.Clone()
	off := c.metrics.CopyOffset
	dup.Move(off, off)
	c.regions = slices.Insert(c.regions, i+1, dup)
	c.selected = dup
	c.log.Debug("region duplicated", "from", src.ID(), "region", dup.ID())
	return dup
}

// raise moves r to the top of the z-order.
func (c *Controller) raise(r *region.Region) {
	i := slices.Index(c.regions, r)
	if i < 0 || i == len(c.regions)-1 {
		return
	}
	c.regions = append(slices.Delete(c.regions, i, i+1), r)
}

// Preview returns the rectangle being dragged out while a region is being
// created.
func (c *Controller) Preview() (geom.Rect, bool) {
	if c.state != StateAddPending && c.state != StateAddDragging {
		return geom.Rect{}, false
	}
	return c.preview, true
}

// Down handles a pointer press.
func (c *Controller) Down(p gg.Point) {
	c.down, c.last = p, p
	vp := c.viewport

	if sel := c.selected; sel != nil && sel.IsVisible(vp) {
		if sel.InCopyButton(p, vp) {
			c.Duplicate()
			c.state = StateNone
			return
		}
		if sel.InDeleteButton(p, vp) {
			c.DeleteSelected()
			c.state = StateDeleted
			return
		}
		if sel.InRotateHandle(p) {
			sel.BeginRotate(p)
			c.state = StateRotate
			return
		}
		if e := sel.ResizeHandleAt(p); e != region.EdgeNone {
			sel.BeginResize(e, p)
			c.state = StateResize
			return
		}
		if e := sel.BorderEdgeAt(p); e != region.EdgeNone {
			sel.BeginResize(e, p)
			c.state = StateResize
			return
		}
	}

	for i := len(c.regions) - 1; i >= 0; i-- {
		r := c.regions[i]
		if r.IsVisible(vp) && r.Contains(p) {
			if r != c.selected {
				c.raise(r)
				c.selected = r
			}
			c.state = StateMove
			return
		}
	}

	c.state = StateAddPending
	c.preview = geom.FromPoints(p, p)
}

// Move handles pointer motion while pressed.
func (c *Controller) Move(p gg.Point) {
	sel := c.selected
	switch c.state {
	case StateMove:
		if sel != nil {
			sel.Move(p.X-c.last.X, p.Y-c.last.Y)
		}
	case StateRotate:
		if sel != nil && sel.IsVisible(c.viewport) {
			sel.Rotate(p)
		}
	case StateResize:
		if sel != nil && sel.IsVisible(c.viewport) {
			sel.Resize(p, c.viewport)
		}
	case StateAddPending:
		slop := c.metrics.Slop
		if math.Abs(p.X-c.down.X) > slop || math.Abs(p.Y-c.down.Y) > slop {
			c.state = StateAddDragging
		}
		c.preview = geom.FromPoints(c.down, p)
	case StateAddDragging:
		c.preview = geom.FromPoints(c.down, p)
	}
	c.last = p
}

// Up handles a pointer release.
func (c *Controller) Up(p gg.Point) {
	switch c.state {
	case StateAddDragging:
		c.AddRegion(c.preview, 0, nil)
	case StateAddPending:
		size := c.metrics.DefaultSize
		c.AddRegion(geom.Centered(p, size, size), 0, nil)
	case StateMove, StateResize:
		if sel := c.selected; sel != nil && sel.IsOutside(c.viewport) {
			c.log.Debug("region left the viewport", "region", sel.ID())
			c.DeleteSelected()
		}
	}
	if sel := c.selected; sel != nil {
		sel.ClearAnchors()
	}
	c.preview = geom.Rect{}
	c.state = StateNone
}

// Cancel aborts the gesture in progress and clears the selection.
func (c *Controller) Cancel() {
	c.state = StateNone
	c.preview = geom.Rect{}
	c.ClearSelection()
}

// Draw composites every visible region onto dst bottom to top. With
// chrome set it then draws the selection chrome and the drag preview.
// dst is in the same coordinates as the regions.
func (c *Controller) Draw(dst draw.Image, chrome bool) error {
	c.drawing = true
	defer c.finishDraw()

	if c.comp != nil {
		for _, r := range c.regions {
			if r.IsVisible(c.viewport) {
				c.comp.Draw(dst, r)
			}
		}
	}
	if !chrome {
		return nil
	}
	return c.drawChrome(dst)
}

func (c *Controller) finishDraw() {
	c.drawing = false
	pending := c.pending
	c.pending = nil
	for _, r := range pending {
		c.Remove(r)
	}
}

func (c *Controller) drawChrome(dst draw.Image) error {
	sel := c.selected
	preview, previewing := c.preview, c.state == StateAddDragging
	if (sel == nil || !sel.IsVisible(c.viewport)) && !previewing {
		return nil
	}
	b := dst.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	defer func() { _ = dc.Close() }()
	dc.Translate(float64(-b.Min.X), float64(-b.Min.Y))

	var err error
	if sel != nil && sel.IsVisible(c.viewport) {
		st := region.ChromeState{
			ShowMenu: c.state != StateMove && c.state != StateRotate && c.state != StateResize,
			Rotating: c.state == StateRotate,
		}
		err = c.chrome.Draw(dc, sel, c.viewport, st)
	}
	if previewing {
		if perr := c.chrome.DrawPreview(dc, preview, c.metrics); err == nil {
			err = perr
		}
	}
	draw.Draw(dst, b, dc.Image(), image.Point{}, draw.Over)
	return err
}

// Flatten returns a copy of src, placed at the origin, with every visible
// region composited over it and no chrome.
func (c *Controller) Flatten(src image.Image) (*image.RGBA, error) {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	if err := c.Draw(out, false); err != nil {
		return nil, err
	}
	return out, nil
}
