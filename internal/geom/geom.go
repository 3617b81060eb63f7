// Package geom provides the float rectangle and rotation helpers shared by
// the region and compositor packages.
package geom

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/math/f64"
)

// Rect is an axis-aligned rectangle in float coordinates. Left/Top are
// inclusive and Right/Bottom exclusive for containment tests.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// R is shorthand for Rect{l, t, r, b}.
func R(l, t, r, b float64) Rect { return Rect{Left: l, Top: t, Right: r, Bottom: b} }

// FromPoints returns the normalized bounding box of a and b.
func FromPoints(a, b gg.Point) Rect {
	return Rect{
		Left:   math.Min(a.X, b.X),
		Top:    math.Min(a.Y, b.Y),
		Right:  math.Max(a.X, b.X),
		Bottom: math.Max(a.Y, b.Y),
	}
}

// FromRectangle converts an integer rectangle.
func FromRectangle(r image.Rectangle) Rect {
	return Rect{float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y)}
}

// Centered returns a w×h rectangle centered on c.
func Centered(c gg.Point, w, h float64) Rect {
	return Rect{c.X - w/2, c.Y - h/2, c.X + w/2, c.Y + h/2}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Center returns the midpoint of r.
func (r Rect) Center() gg.Point {
	return gg.Pt((r.Left+r.Right)/2, (r.Top+r.Bottom)/2)
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Left >= r.Right || r.Top >= r.Bottom }

// Contains reports whether p lies inside r. Empty rectangles contain nothing.
func (r Rect) Contains(p gg.Point) bool {
	return !r.Empty() && p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Intersects reports whether r and o overlap with a non-empty area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// Outset grows r by d on every side.
func (r Rect) Outset(d float64) Rect {
	return Rect{r.Left - d, r.Top - d, r.Right + d, r.Bottom + d}
}

// Offset translates r.
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{r.Left + dx, r.Top + dy, r.Right + dx, r.Bottom + dy}
}

// Intersect returns the overlap of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Left:   math.Max(r.Left, o.Left),
		Top:    math.Max(r.Top, o.Top),
		Right:  math.Min(r.Right, o.Right),
		Bottom: math.Min(r.Bottom, o.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}

// Rectangle returns the smallest integer rectangle covering r.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Left)),
		int(math.Floor(r.Top)),
		int(math.Ceil(r.Right)),
		int(math.Ceil(r.Bottom)),
	)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2f,%.2f,%.2f,%.2f)", r.Left, r.Top, r.Right, r.Bottom)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// RotationAbout returns the matrix rotating by deg degrees about c.
// Positive angles turn clockwise on a y-down screen.
func RotationAbout(deg float64, c gg.Point) gg.Matrix {
	return gg.Translate(c.X, c.Y).
		Multiply(gg.Rotate(Radians(deg))).
		Multiply(gg.Translate(-c.X, -c.Y))
}

// RotateAbout rotates p by deg degrees about c.
func RotateAbout(p gg.Point, deg float64, c gg.Point) gg.Point {
	if deg == 0 {
		return p
	}
	return RotationAbout(deg, c).TransformPoint(p)
}

// RotateVector rotates v by deg degrees about the origin.
func RotateVector(v gg.Point, deg float64) gg.Point {
	if deg == 0 {
		return v
	}
	return gg.Rotate(Radians(deg)).TransformVector(v)
}

// AngleOf returns the angle of p around c in degrees, in (-180, 180].
func AngleOf(p, c gg.Point) float64 {
	return Degrees(math.Atan2(p.Y-c.Y, p.X-c.X))
}

// NormalizeDegrees maps v into [0, 360).
func NormalizeDegrees(v float64) float64 {
	v = math.Mod(math.Mod(v, 360)+360, 360)
	if v >= 360 {
		v = 0
	}
	return v
}

// RoundDegrees normalizes v and rounds it to two decimal places.
func RoundDegrees(v float64) float64 {
	v = math.Round(NormalizeDegrees(v)*100) / 100
	if v >= 360 {
		v = 0
	}
	return v
}

// Aff3 converts m to the affine form used by golang.org/x/image/draw.
func Aff3(m gg.Matrix) f64.Aff3 {
	return f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
}

// Matrix converts an x/image affine transform back to a gg.Matrix.
func Matrix(a f64.Aff3) gg.Matrix {
	return gg.Matrix{A: a[0], B: a[1], C: a[2], D: a[3], E: a[4], F: a[5]}
}

// Transform returns the bounding box of r mapped through m.
func Transform(r Rect, m gg.Matrix) Rect {
	out := FromPoints(m.TransformPoint(gg.Pt(r.Left, r.Top)), m.TransformPoint(gg.Pt(r.Right, r.Bottom)))
	return out.Union(FromPoints(m.TransformPoint(gg.Pt(r.Right, r.Top)), m.TransformPoint(gg.Pt(r.Left, r.Bottom))))
}
