package region

import (
	"image"
	"image/draw"

	"github.com/example/blurpatch/internal/geom"
)

// Crop returns a copy of the part of src covered by rect, clamped to the
// bounds of src. It returns nil when nothing is left.
func Crop(src image.Image, rect geom.Rect) *image.RGBA {
	if src == nil {
		return nil
	}
	r := rect.Rectangle().Intersect(src.Bounds())
	if r.Empty() {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), src, r.Min, draw.Src)
	return out
}

// Snapshot returns the content under the bounding box of r.
func (r *Region) Snapshot(src image.Image) *image.RGBA {
	return Crop(src, r.Bounds())
}
