package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/gogpu/gg"

	"github.com/example/blurpatch/internal/app"
	"github.com/example/blurpatch/internal/blur"
	"github.com/example/blurpatch/internal/compositor"
	"github.com/example/blurpatch/internal/geom"
	"github.com/example/blurpatch/internal/interact"
)

// regionList collects repeated -region flags of the form l,t,r,b[@deg].
type regionList []app.Placement

func (l *regionList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(*l))
	for i, p := range *l {
		parts[i] = formatRegion(p)
	}
	return strings.Join(parts, " ")
}

func (l *regionList) Set(v string) error {
	p, err := parseRegion(v)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

// parseRegion reads l,t,r,b with an optional @deg rotation. The corners may
// be given in any order.
func parseRegion(val string) (app.Placement, error) {
	coords, deg, rotated := strings.Cut(strings.TrimSpace(val), "@")
	parts := strings.Split(coords, ",")
	if len(parts) != 4 {
		return app.Placement{}, fmt.Errorf("invalid region %q: want l,t,r,b[@deg]", val)
	}
	var n [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return app.Placement{}, fmt.Errorf("invalid region %q: %w", val, err)
		}
		n[i] = v
	}
	rect := geom.FromPoints(gg.Pt(n[0], n[1]), gg.Pt(n[2], n[3]))
	if rect.Empty() {
		return app.Placement{}, fmt.Errorf("region %q is empty", val)
	}
	p := app.Placement{Rect: rect}
	if rotated {
		r, err := strconv.ParseFloat(strings.TrimSpace(deg), 64)
		if err != nil {
			return app.Placement{}, fmt.Errorf("invalid rotation in region %q: %w", val, err)
		}
		p.Rotation = geom.NormalizeDegrees(r)
	}
	return p, nil
}

func formatRegion(p app.Placement) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	s := strings.Join([]string{f(p.Rect.Left), f(p.Rect.Top), f(p.Rect.Right), f(p.Rect.Bottom)}, ",")
	if p.Rotation != 0 {
		s += "@" + f(p.Rotation)
	}
	return s
}

// redact composites regions over src, taking the content beneath each
// region from root. The kernel is destroyed before returning.
func redact(src image.Image, root compositor.Root, kernel blur.Kernel, regions []app.Placement, opts ...compositor.Option) (*image.RGBA, error) {
	comp := compositor.New(root, kernel, opts...)
	defer comp.Close()
	ctrl := interact.New(geom.FromRectangle(image.Rectangle{Max: src.Bounds().Size()}), interact.WithCompositor(comp))
	for _, p := range regions {
		ctrl.AddRegion(p.Rect, p.Rotation, nil)
	}
	ctrl.ClearSelection()
	return ctrl.Flatten(src)
}
