package main

import (
	"flag"
	"fmt"
	"image"
	"strings"

	"github.com/example/blurpatch/internal/app"
	"github.com/example/blurpatch/internal/blur"
	"github.com/example/blurpatch/internal/capture"
	"github.com/example/blurpatch/internal/compositor"
	"github.com/example/blurpatch/internal/content"
)

// captureCmd takes a screenshot and optionally redacts or edits it.
type captureCmd struct {
	display       string
	output        string
	kernel        string
	edit          bool
	live          bool
	toClipboard   bool
	includeCursor bool
	regions       regionList
	*root
	fs *flag.FlagSet
}

func (c *captureCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCaptureCmd(args []string, r *root) (*captureCmd, error) {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	c := &captureCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.display, "display", "", "monitor to capture: index, name or \"primary\"")
	fs.StringVar(&c.output, "output", "blurpatch.png", "write the capture to this file path")
	fs.StringVar(&c.kernel, "kernel", "", "blur kernel: box, gaussian or imaging")
	fs.BoolVar(&c.edit, "edit", false, "open the capture in the editor")
	fs.BoolVar(&c.live, "live", false, "blur what is on screen when compositing rather than the capture")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&c.includeCursor, "include-cursor", false, "embed the cursor in captures when supported")
	fs.Var(&c.regions, "region", "redact l,t,r,b[@deg] (repeatable)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.display == "" && fs.NArg() > 0 {
		c.display = strings.Join(fs.Args(), " ")
	}
	if c.edit && c.toClipboard {
		return nil, fmt.Errorf("-to-clipboard cannot be used with -edit")
	}
	return c, nil
}

func (c *captureCmd) Run() error {
	img, err := captureScreenshotFn(c.display, capture.Options{IncludeCursor: c.includeCursor})
	if err != nil {
		return fmt.Errorf("failed to capture screen: %w", err)
	}
	c.logger().Debug("captured screen", "display", c.display, "size", img.Bounds().Size().String())
	c.notifyCapture(c.describe(), img)

	if c.edit {
		opts, err := c.editorOptions(c.kernel)
		if err != nil {
			return err
		}
		opts = append(opts, app.WithOutput(c.output), app.WithRegions(c.regions...))
		runEditorFn(app.New(img, opts...))
		return nil
	}

	var out image.Image = img
	if len(c.regions) > 0 {
		out, err = c.redact(img)
		if err != nil {
			return fmt.Errorf("redact capture: %w", err)
		}
	}
	return c.deliver(out, c.output, c.toClipboard, c.describe())
}

// redact blurs the regions over img. The capture sits at its monitor's
// origin; with -live the content comes from the screen at that position
// instead of from img.
func (c *captureCmd) redact(img *image.RGBA) (*image.RGBA, error) {
	origin := c.monitorOrigin()
	kernel, err := blur.New(firstNonEmpty(c.kernel, c.cfg().Kernel))
	if err != nil {
		return nil, err
	}
	var root compositor.Root = content.NewImage(img, origin)
	if c.live {
		root = newScreenRootFn(image.Point{})
	}
	opts := append(c.compositorOptions(), compositor.WithOverlayOrigin(origin))
	return redact(img, root, kernel, c.regions, opts...)
}

func (c *captureCmd) monitorOrigin() image.Point {
	monitors, err := listMonitorsFn()
	if err != nil {
		c.logger().Warn("cannot list monitors, assuming the capture starts at 0,0", "err", err)
		return image.Point{}
	}
	m, err := capture.FindMonitor(monitors, c.display)
	if err != nil {
		c.logger().Warn("monitor not found, assuming the capture starts at 0,0", "display", c.display, "err", err)
		return image.Point{}
	}
	return m.Rect.Min
}

func (c *captureCmd) describe() string {
	if d := strings.TrimSpace(c.display); d != "" {
		return "screen " + d
	}
	return "screen"
}
