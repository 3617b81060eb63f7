package app

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
)

// view places the image in the window.
type view struct {
	zoom float64
	rect image.Rectangle
}

// fitView scales an image of the given size to fit the window and centers
// it.
func fitView(size image.Point, winW, winH int) view {
	if size.X <= 0 || size.Y <= 0 || winW <= 0 || winH <= 0 {
		return view{zoom: 1, rect: image.Rectangle{Max: size}}
	}
	zx := float64(winW) / float64(size.X)
	zy := float64(winH) / float64(size.Y)
	zoom := min(zx, zy)
	w := int(math.Round(float64(size.X) * zoom))
	h := int(math.Round(float64(size.Y) * zoom))
	x0 := (winW - w) / 2
	y0 := (winH - h) / 2
	return view{zoom: zoom, rect: image.Rect(x0, y0, x0+w, y0+h)}
}

// toImage maps a window position to image coordinates.
func (v view) toImage(x, y float32) gg.Point {
	return gg.Pt(
		(float64(x)-float64(v.rect.Min.X))/v.zoom,
		(float64(y)-float64(v.rect.Min.Y))/v.zoom,
	)
}

const (
	maxWindowWidth  = 1600
	maxWindowHeight = 1000
)

// windowSize returns the initial window size for an image: its own size,
// shrunk to fit the maximum window while keeping the aspect ratio.
func windowSize(size image.Point) image.Point {
	if size.X <= maxWindowWidth && size.Y <= maxWindowHeight {
		return size
	}
	v := fitView(size, maxWindowWidth, maxWindowHeight)
	return v.rect.Size()
}

const checkerSize = 8

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	l := image.NewUniform(light)
	d := image.NewUniform(dark)
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			src := l
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 != 0 {
				src = d
			}
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}
