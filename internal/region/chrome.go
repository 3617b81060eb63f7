package region

import (
	"errors"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/example/blurpatch/internal/geom"
)

// Palette is the set of colors used for selection chrome.
type Palette struct {
	Selection     color.Color
	Dot           color.Color
	MenuFill      color.Color
	MenuDivider   color.Color
	Glyph         color.Color
	PreviewFill   color.Color
	PreviewStroke color.Color
}

// DefaultPalette returns the built-in chrome colors.
func DefaultPalette() Palette {
	return Palette{
		Selection:     color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Dot:           color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		MenuFill:      color.NRGBA{A: 99},
		MenuDivider:   color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x66},
		Glyph:         color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		PreviewFill:   color.NRGBA{A: 63},
		PreviewStroke: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
}

// ChromeState says which parts of the chrome to draw.
type ChromeState struct {
	// ShowMenu draws the copy/delete menu and the idle rotate glyphs.
	ShowMenu bool
	// Rotating draws the rotate glyphs while a rotation is in progress.
	Rotating bool
}

type styleKey struct {
	c     color.RGBA64
	width float64
}

// style is an immutable brush and stroke pair applied before each draw
// call.
type style struct {
	brush  gg.SolidBrush
	stroke gg.Stroke
}

func (s style) apply(dc *gg.Context) {
	dc.SetFillBrush(s.brush)
	dc.SetStroke(s.stroke)
}

const styleCacheSize = 32

// Chrome draws selection frames, handles, menus and drag previews.
type Chrome struct {
	palette Palette
	styles  *lru.Cache[styleKey, style]
}

// NewChrome returns a Chrome using p. Nil colors fall back to the
// defaults.
func NewChrome(p Palette) *Chrome {
	cache, err := lru.New[styleKey, style](styleCacheSize)
	if err != nil {
		panic(err)
	}
	c := &Chrome{styles: cache}
	c.SetPalette(p)
	return c
}

// SetPalette replaces the colors and drops cached styles.
func (c *Chrome) SetPalette(p Palette) {
	def := DefaultPalette()
	fill := func(dst *color.Color, d color.Color) {
		if *dst == nil {
			*dst = d
		}
	}
	fill(&p.Selection, def.Selection)
	fill(&p.Dot, def.Dot)
	fill(&p.MenuFill, def.MenuFill)
	fill(&p.MenuDivider, def.MenuDivider)
	fill(&p.Glyph, def.Glyph)
	fill(&p.PreviewFill, def.PreviewFill)
	fill(&p.PreviewStroke, def.PreviewStroke)
	c.palette = p
	c.styles.Purge()
}

// Palette returns the active colors.
func (c *Chrome) Palette() Palette { return c.palette }

func (c *Chrome) style(col color.Color, width float64) style {
	r, g, b, a := col.RGBA()
	key := styleKey{c: color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: uint16(a)}, width: width}
	if s, ok := c.styles.Get(key); ok {
		return s
	}
	s := style{
		brush:  gg.Solid(gg.FromColor(col)),
		stroke: gg.DefaultStroke().WithWidth(width).WithCap(gg.LineCapRound).WithJoin(gg.LineJoinRound),
	}
	c.styles.Add(key, s)
	return s
}

func (c *Chrome) fill(dc *gg.Context, col color.Color) error {
	c.style(col, 1).apply(dc)
	return dc.Fill()
}

func (c *Chrome) stroke(dc *gg.Context, col color.Color, width float64) error {
	c.style(col, width).apply(dc)
	return dc.Stroke()
}

// Draw draws the selection chrome of r onto dc. The frame, dots and
// rotate glyphs follow the region's rotation; the menu does not.
func (c *Chrome) Draw(dc *gg.Context, r *Region, viewport geom.Rect, st ChromeState) error {
	m := r.Metrics()
	center := r.Center()
	var errs []error

	dc.Push()
	dc.RotateAbout(geom.Radians(r.Rotation()), center.X, center.Y)

	sel := r.SelectionFrame()
	dc.DrawRectangle(sel.Left, sel.Top, sel.Width(), sel.Height())
	errs = append(errs, c.stroke(dc, c.palette.Selection, m.StrokeWidth))

	for _, dot := range r.ResizeDots() {
		dc.DrawCircle(dot.Center.X, dot.Center.Y, m.DotRadius)
		errs = append(errs, c.fill(dc, c.palette.Dot))
	}

	if st.Rotating || st.ShowMenu {
		tr, bl := r.RotateHandles()
		errs = append(errs, c.rotateGlyph(dc, tr, m, false))
		errs = append(errs, c.rotateGlyph(dc, bl, m, true))
	}
	dc.Pop()

	if st.ShowMenu {
		errs = append(errs, c.drawMenu(dc, r.Menu(viewport), m))
	}
	return errors.Join(errs...)
}

func (c *Chrome) drawMenu(dc *gg.Context, menu Menu, m Metrics) error {
	if menu.Hidden {
		return nil
	}
	var errs []error
	mr := menu.Rect
	dc.DrawRoundedRectangle(mr.Left, mr.Top, mr.Width(), mr.Height(), mr.Height()/2)
	errs = append(errs, c.fill(dc, c.palette.MenuFill))

	a, b := menu.Divider(m.ButtonInset)
	dc.DrawLine(a.X, a.Y, b.X, b.Y)
	errs = append(errs, c.stroke(dc, c.palette.MenuDivider, 0.5*m.Density))

	glyph := 1.5 * m.Density
	d := menu.Delete.Outset(-menu.Delete.Width() / 4)
	dc.DrawLine(d.Left, d.Top, d.Right, d.Bottom)
	dc.DrawLine(d.Right, d.Top, d.Left, d.Bottom)
	errs = append(errs, c.stroke(dc, c.palette.Glyph, glyph))

	cp := menu.Copy.Outset(-menu.Copy.Width() / 5)
	off := cp.Width() / 4
	dc.DrawRectangle(cp.Left, cp.Top+off, cp.Width()-off, cp.Height()-off)
	dc.MoveTo(cp.Left+off, cp.Top+off)
	dc.LineTo(cp.Left+off, cp.Top)
	dc.LineTo(cp.Right, cp.Top)
	dc.LineTo(cp.Right, cp.Bottom-off)
	dc.LineTo(cp.Right-off, cp.Bottom-off)
	errs = append(errs, c.stroke(dc, c.palette.Glyph, glyph))
	return errors.Join(errs...)
}

// rotateGlyph draws a curved arrow inside box. flip mirrors it for the
// bottom-left handle.
func (c *Chrome) rotateGlyph(dc *gg.Context, box geom.Rect, m Metrics, flip bool) error {
	ctr := box.Center()
	rad := box.Width() / 3
	start, end := -math.Pi, -math.Pi/2
	if flip {
		start, end = 0, math.Pi/2
	}
	// polyline rather than DrawArc so the arc follows the rotated matrix
	const steps = 8
	for i := 0; i <= steps; i++ {
		a := start + (end-start)*float64(i)/steps
		x, y := ctr.X+rad*math.Cos(a), ctr.Y+rad*math.Sin(a)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	tip := gg.Pt(ctr.X+rad*math.Cos(end), ctr.Y+rad*math.Sin(end))
	head := rad / 2
	dir := 1.0
	if flip {
		dir = -1
	}
	dc.MoveTo(tip.X-head*dir, tip.Y-head*dir)
	dc.LineTo(tip.X, tip.Y)
	dc.LineTo(tip.X-head*dir, tip.Y+head*dir)
	return c.stroke(dc, c.palette.Glyph, 1.5*m.Density)
}

// DrawPreview draws the live rectangle shown while a region is being
// dragged out.
func (c *Chrome) DrawPreview(dc *gg.Context, rect geom.Rect, m Metrics) error {
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return nil
	}
	dc.DrawRectangle(rect.Left, rect.Top, rect.Width(), rect.Height())
	if err := c.fill(dc, c.palette.PreviewFill); err != nil {
		return err
	}
	dc.DrawRectangle(rect.Left, rect.Top, rect.Width(), rect.Height())
	return c.stroke(dc, c.palette.PreviewStroke, m.Density)
}
