package main

import (
	"flag"
	"fmt"
	"image"

	"github.com/example/blurpatch/internal/blur"
	"github.com/example/blurpatch/internal/compositor"
	"github.com/example/blurpatch/internal/content"
	"github.com/example/blurpatch/internal/theme"
)

// applyCmd redacts regions of an image file without opening a window.
type applyCmd struct {
	file        string
	output      string
	kernel      string
	radius      float64
	tint        string
	noise       bool
	toClipboard bool
	regions     regionList
	*root
	fs *flag.FlagSet
}

func (a *applyCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	a := &applyCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	b := r.cfg().Blur
	fs.StringVar(&a.file, "file", "", "image file to redact")
	fs.StringVar(&a.output, "output", "", "write the result to this file path")
	fs.StringVar(&a.kernel, "kernel", "", "blur kernel: box, gaussian or imaging")
	fs.Float64Var(&a.radius, "radius", b.Radius, fmt.Sprintf("blur radius, at most %d", blur.MaxRadius))
	fs.StringVar(&a.tint, "tint", theme.FormatColor(b.Overlay), "overlay color #RRGGBB[AA]")
	fs.BoolVar(&a.noise, "noise", b.Noise, "draw the noise texture over the blur")
	fs.BoolVar(&a.toClipboard, "copy", false, "copy the result to the clipboard instead of writing a file")
	fs.Var(&a.regions, "region", "redact l,t,r,b[@deg] (repeatable)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.file == "" || len(a.regions) == 0 || (a.output == "" && !a.toClipboard) {
		return nil, &UsageError{of: a}
	}
	return a, nil
}

func (a *applyCmd) Run() error {
	tint, err := theme.ParseColor(a.tint)
	if err != nil {
		return fmt.Errorf("invalid -tint: %w", err)
	}
	img, err := loadImage(a.file, false)
	if err != nil {
		return err
	}
	kernel, err := blur.New(firstNonEmpty(a.kernel, a.cfg().Kernel))
	if err != nil {
		return err
	}
	opts := append(a.compositorOptions(),
		compositor.WithRadius(a.radius),
		compositor.WithTint(tint),
		compositor.WithNoise(a.noise),
	)
	out, err := redact(img, content.NewImage(img, image.Point{}), kernel, a.regions, opts...)
	if err != nil {
		return fmt.Errorf("redact %s: %w", a.file, err)
	}
	a.logger().Debug("redacted image", "file", a.file, "regions", len(a.regions))
	return a.deliver(out, a.output, a.toClipboard, a.file)
}
