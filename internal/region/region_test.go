package region

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gg"

	"github.com/example/blurpatch/internal/geom"
)

var testViewport = geom.R(0, 0, 400, 800)

func newTestRegion(l, t, r, b, rot float64) *Region {
	return New(geom.R(l, t, r, b), rot, nil, DefaultMetrics(1))
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestNewNormalizesRect(t *testing.T) {
	r := New(geom.R(50, 80, 10, 20), 0, "tag", DefaultMetrics(1))
	if got := r.LocalRect(); got != geom.R(10, 20, 50, 80) {
		t.Fatalf("LocalRect = %v", got)
	}
	if r.Payload != "tag" {
		t.Fatalf("payload lost: %v", r.Payload)
	}
	if r.ID() == "" {
		t.Fatalf("expected an ID")
	}
	if !r.AutoUpdate() {
		t.Fatalf("auto-update should default to on")
	}
}

func TestRotationNormalizedAndRounded(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725.5, 5.5},
		{12.3456, 12.35},
		{359.999, 0},
	}
	for _, tt := range tests {
		r := newTestRegion(0, 0, 10, 10, tt.in)
		if got := r.Rotation(); !near(got, tt.want) {
			t.Errorf("SetRotation(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRotationRoundTrip(t *testing.T) {
	sets := [][]float64{
		{90, 120, 150},
		{-45, -315},
		{33.33, 326.67},
		{720},
		{10.5, 20.25, -30.75, 360},
	}
	for _, deltas := range sets {
		r := newTestRegion(0, 0, 10, 10, 37.5)
		for _, d := range deltas {
			r.SetRotation(r.Rotation() + d)
		}
		if !near(r.Rotation(), 37.5) {
			t.Errorf("deltas %v: rotation = %v, want 37.5", deltas, r.Rotation())
		}
	}
}

func TestContainsUnderRotation(t *testing.T) {
	inside := []gg.Point{gg.Pt(150, 130), gg.Pt(101, 101), gg.Pt(199, 159), gg.Pt(120, 150)}
	for deg := 0.0; deg < 360; deg += 15 {
		r := newTestRegion(100, 100, 200, 160, deg)
		for _, lp := range inside {
			p := r.ToContent(lp)
			if !r.Contains(p) {
				t.Fatalf("rotation %v: local %v (screen %v) not contained", deg, lp, p)
			}
		}
		far := r.ToContent(gg.Pt(250, 130))
		if r.Contains(far) {
			t.Fatalf("rotation %v: point outside reported as contained", deg)
		}
	}
}

func TestQuarterTurnTopBorder(t *testing.T) {
	r := newTestRegion(0, 0, 100, 100, 90)
	p := gg.Pt(100, 50)
	lp := r.ToLocal(p)
	if !near(lp.X, 50) || !near(lp.Y, 0) {
		t.Fatalf("ToLocal(%v) = %v, want (50,0)", p, lp)
	}
	if e := r.ResizeHandleAt(p); e != EdgeNone {
		t.Fatalf("unexpected resize dot %v", e)
	}
	if r.InRotateHandle(p) {
		t.Fatalf("unexpected rotate handle hit")
	}
	if e := r.BorderEdgeAt(p); e != EdgeTop {
		t.Fatalf("BorderEdgeAt = %v, want top", e)
	}
}

func TestBorderNarrowsForSmallRegions(t *testing.T) {
	r := newTestRegion(100, 100, 140, 200, 0)
	if got := r.BorderWidth(); got != 4 {
		t.Fatalf("BorderWidth = %v, want 4", got)
	}
	// 10px inside the left frame edge is outside the narrow band.
	if e := r.BorderEdgeAt(gg.Pt(104, 150)); e != EdgeNone {
		t.Fatalf("BorderEdgeAt = %v, want none", e)
	}
	if e := r.BorderEdgeAt(gg.Pt(95, 150)); e != EdgeLeft {
		t.Fatalf("BorderEdgeAt = %v, want left", e)
	}
}

func TestResizeDotsAndRotateHandles(t *testing.T) {
	r := newTestRegion(100, 100, 200, 200, 0)
	tests := map[Edge]gg.Point{
		EdgeTop:    gg.Pt(150, 94),
		EdgeBottom: gg.Pt(150, 206),
		EdgeLeft:   gg.Pt(94, 150),
		EdgeRight:  gg.Pt(206, 150),
	}
	for want, p := range tests {
		if got := r.ResizeHandleAt(p); got != want {
			t.Errorf("ResizeHandleAt(%v) = %v, want %v", p, got, want)
		}
	}
	if !r.InRotateHandle(gg.Pt(215, 85)) {
		t.Errorf("expected top-right rotate handle")
	}
	if !r.InRotateHandle(gg.Pt(85, 215)) {
		t.Errorf("expected bottom-left rotate handle")
	}
	if r.InRotateHandle(gg.Pt(85, 85)) {
		t.Errorf("top-left corner has no rotate handle")
	}
}

func TestResizeAnchorEdgeInvariant(t *testing.T) {
	deltas := []gg.Point{gg.Pt(-30, 12), gg.Pt(40, -25), gg.Pt(70, 70), gg.Pt(-90, -5), gg.Pt(5, 300)}
	for _, deg := range []float64{0, 30, 90, 145, 270, 333} {
		for _, edge := range []Edge{EdgeTop, EdgeBottom, EdgeLeft, EdgeRight} {
			r := newTestRegion(150, 300, 250, 400, deg)
			before := r.LocalRect()
			start := gg.Pt(200, 300)
			r.BeginResize(edge, start)
			for _, d := range deltas {
				if !r.Resize(gg.Pt(start.X+d.X, start.Y+d.Y), testViewport) {
					t.Fatalf("Resize reported no anchor")
				}
				got := r.LocalRect()
				switch edge {
				case EdgeTop:
					if got.Bottom != before.Bottom {
						t.Fatalf("rot %v top resize moved bottom: %v", deg, got)
					}
				case EdgeBottom:
					if got.Top != before.Top {
						t.Fatalf("rot %v bottom resize moved top: %v", deg, got)
					}
				case EdgeLeft:
					if got.Right != before.Right {
						t.Fatalf("rot %v left resize moved right: %v", deg, got)
					}
				case EdgeRight:
					if got.Left != before.Left {
						t.Fatalf("rot %v right resize moved left: %v", deg, got)
					}
				}
				if got.Width() < r.Metrics().RectMin || got.Height() < r.Metrics().RectMin {
					t.Fatalf("rot %v %v resize went below minimum: %v", deg, edge, got)
				}
			}
		}
	}
}

func TestResizeIsFrameRelative(t *testing.T) {
	r := newTestRegion(100, 100, 200, 200, 90)
	start := gg.Pt(250, 150)
	r.BeginResize(EdgeTop, start)
	// Rotated a quarter turn, the local top edge faces screen right.
	r.Resize(gg.Pt(270, 150), testViewport)
	got := r.LocalRect()
	if !near(got.Top, 80) || got.Bottom != 200 || got.Left != 100 || got.Right != 200 {
		t.Fatalf("LocalRect = %v, want top 80 only", got)
	}
}

func TestResizeRejectsCollapse(t *testing.T) {
	r := newTestRegion(100, 100, 200, 200, 0)
	r.BeginResize(EdgeTop, gg.Pt(150, 100))
	r.Resize(gg.Pt(150, 150), testViewport)
	r.Resize(gg.Pt(150, 195), testViewport)
	if got := r.LocalRect().Top; got != 150 {
		t.Fatalf("Top = %v, want 150 kept", got)
	}
}

func TestResizeClampsToViewport(t *testing.T) {
	r := newTestRegion(10, 10, 100, 100, 0)
	r.BeginResize(EdgeLeft, gg.Pt(10, 50))
	r.Resize(gg.Pt(-50, 50), testViewport)
	if got := r.LocalRect(); got.Left != 0 || got.Right != 100 {
		t.Fatalf("LocalRect = %v", got)
	}
}

func TestGesturesWithoutAnchorAreNoOps(t *testing.T) {
	r := newTestRegion(10, 10, 100, 100, 20)
	before := r.LocalRect()
	if r.Resize(gg.Pt(300, 300), testViewport) {
		t.Fatalf("Resize without anchor should report false")
	}
	if r.Rotate(gg.Pt(300, 300)) {
		t.Fatalf("Rotate without anchor should report false")
	}
	if r.LocalRect() != before || r.Rotation() != 20 {
		t.Fatalf("region changed without an anchor")
	}
	r.BeginResize(EdgeTop, gg.Pt(0, 0))
	r.BeginRotate(gg.Pt(0, 0))
	r.ClearAnchors()
	if r.Resizing() != EdgeNone || r.Rotating() {
		t.Fatalf("anchors not cleared")
	}
}

func TestRotateFollowsPointerAngle(t *testing.T) {
	r := newTestRegion(100, 100, 200, 200, 10)
	r.BeginRotate(gg.Pt(250, 150))
	r.Rotate(gg.Pt(150, 250))
	if !near(r.Rotation(), 100) {
		t.Fatalf("Rotation = %v, want 100", r.Rotation())
	}
	r.Rotate(gg.Pt(150, 50))
	if !near(r.Rotation(), 280) {
		t.Fatalf("Rotation = %v, want 280", r.Rotation())
	}
}

func TestMove(t *testing.T) {
	r := newTestRegion(10, 20, 30, 40, 45)
	r.Move(5, -10)
	if got := r.LocalRect(); got != geom.R(15, 10, 35, 30) {
		t.Fatalf("LocalRect = %v", got)
	}
	if r.Rotation() != 45 {
		t.Fatalf("Move changed rotation")
	}
}

func TestIsOutsideAndVisible(t *testing.T) {
	tests := []struct {
		rect    geom.Rect
		outside bool
		visible bool
	}{
		{geom.R(10, 10, 50, 50), false, true},
		{geom.R(-100, 0, -1, 50), true, true},
		{geom.R(-100, 0, 0, 50), true, true},
		{geom.R(-100, 0, 1, 50), false, true},
		{geom.R(-100, 0, -10, 50), true, false},
		{geom.R(0, 800, 50, 900), true, true},
		{geom.R(0, 820, 50, 900), true, false},
	}
	for _, tt := range tests {
		r := New(tt.rect, 0, nil, DefaultMetrics(1))
		if got := r.IsOutside(testViewport); got != tt.outside {
			t.Errorf("IsOutside(%v) = %v, want %v", tt.rect, got, tt.outside)
		}
		if got := r.IsVisible(testViewport); got != tt.visible {
			t.Errorf("IsVisible(%v) = %v, want %v", tt.rect, got, tt.visible)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := newTestRegion(10, 10, 60, 60, 30)
	r.Payload = 7
	r.SetBuffer(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	c := r.Clone()
	if c.ID() == r.ID() {
		t.Fatalf("clone shares ID")
	}
	if c.LocalRect() != r.LocalRect() || c.Rotation() != r.Rotation() || c.Payload != 7 {
		t.Fatalf("clone differs: %v", c)
	}
	if c.Buffer() != nil {
		t.Fatalf("clone must not share the buffer")
	}
	c.Move(16, 16)
	if r.LocalRect() != geom.R(10, 10, 60, 60) {
		t.Fatalf("moving the clone moved the original")
	}
	r.Release()
	if r.Buffer() != nil {
		t.Fatalf("Release kept the buffer")
	}
}

func TestBoundsOfRotatedRegion(t *testing.T) {
	r := newTestRegion(0, 0, 100, 50, 90)
	b := r.Bounds()
	if !near(b.Left, 25) || !near(b.Right, 75) || !near(b.Top, -25) || !near(b.Bottom, 75) {
		t.Fatalf("Bounds = %v", b)
	}
}

func TestMenuLayout(t *testing.T) {
	r := newTestRegion(100, 100, 200, 200, 0)
	m := r.Menu(testViewport)
	if !m.Below || m.Hidden {
		t.Fatalf("menu should sit below: %+v", m)
	}
	if m.Rect != geom.R(98, 228, 202, 268) {
		t.Fatalf("menu rect = %v", m.Rect)
	}
	if m.Delete != geom.R(115, 236, 139, 260) || m.Copy != geom.R(161, 236, 185, 260) {
		t.Fatalf("buttons = %v %v", m.Delete, m.Copy)
	}
	if !r.InCopyButton(gg.Pt(170, 245), testViewport) || !r.InDeleteButton(gg.Pt(120, 245), testViewport) {
		t.Fatalf("button hit tests failed")
	}
	if r.InCopyButton(gg.Pt(120, 245), testViewport) {
		t.Fatalf("delete button reported as copy")
	}

	above := newTestRegion(100, 600, 200, 700, 0).Menu(testViewport)
	if above.Below || above.Rect.Top != 594-22-40 {
		t.Fatalf("menu should sit above: %+v", above)
	}

	small := geom.R(0, 0, 400, 300)
	tall := newTestRegion(100, 10, 200, 290, 0)
	if m := tall.Menu(small); !m.Hidden {
		t.Fatalf("menu should be hidden: %+v", m)
	}
	if tall.InCopyButton(tall.Menu(small).Copy.Center(), small) {
		t.Fatalf("hidden menu must not be hit")
	}

	edge := newTestRegion(0, 100, 40, 140, 0).Menu(testViewport)
	if edge.Rect.Left != 0 || edge.Rect.Width() != 104 {
		t.Fatalf("menu not clamped left: %v", edge.Rect)
	}
	right := newTestRegion(370, 100, 400, 140, 0).Menu(testViewport)
	if right.Rect.Right != 400 {
		t.Fatalf("menu not clamped right: %v", right.Rect)
	}
}

func TestMetricsScale(t *testing.T) {
	m := DefaultMetrics(2).Scale(0.5)
	want := DefaultMetrics(1)
	if m.RectMin != want.RectMin || m.BorderWidth != want.BorderWidth || m.MenuWidth != want.MenuWidth {
		t.Fatalf("Scale(0.5) = %+v", m)
	}
	if got := DefaultMetrics(0).Density; got != 1 {
		t.Fatalf("zero density should fall back to 1, got %v", got)
	}
}

func TestCrop(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src.SetRGBA(2, 3, color.RGBA{R: 255, A: 255})
	out := Crop(src, geom.R(-5, -5, 3, 4))
	if out == nil || out.Bounds().Dx() != 3 || out.Bounds().Dy() != 4 {
		t.Fatalf("Crop bounds = %v", out)
	}
	if out.RGBAAt(2, 3).R != 255 {
		t.Fatalf("crop lost pixel data")
	}
	if Crop(src, geom.R(20, 20, 30, 30)) != nil {
		t.Fatalf("empty crop should be nil")
	}
}

func TestChromeDrawsFrame(t *testing.T) {
	r := newTestRegion(100, 100, 200, 200, 0)
	dc := gg.NewContext(400, 400)
	c := NewChrome(Palette{})
	if err := c.Draw(dc, r, geom.R(0, 0, 400, 400), ChromeState{ShowMenu: true}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	img := dc.Image()
	if _, _, _, a := img.At(94, 130).RGBA(); a == 0 {
		t.Fatalf("selection frame not drawn")
	}
	if _, _, _, a := img.At(150, 150).RGBA(); a != 0 {
		t.Fatalf("chrome should not cover the region interior")
	}
}

func TestChromeStyleCache(t *testing.T) {
	c := NewChrome(Palette{})
	white := color.White
	c.style(white, 2)
	c.style(white, 2)
	c.style(white, 3)
	if got := c.styles.Len(); got != 2 {
		t.Fatalf("cached styles = %d, want 2", got)
	}
	c.SetPalette(DefaultPalette())
	if got := c.styles.Len(); got != 0 {
		t.Fatalf("SetPalette should purge the cache, have %d", got)
	}
}
