package main

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/example/blurpatch/internal/app"
	"github.com/example/blurpatch/internal/capture"
	"github.com/example/blurpatch/internal/clipboard"
	"github.com/example/blurpatch/internal/compositor"
	"github.com/example/blurpatch/internal/content"
)

var (
	captureScreenshotFn = capture.Screenshot
	listMonitorsFn      = capture.ListMonitors
	writeClipboardFn    = clipboard.WriteImage
	readClipboardFn     = clipboard.ReadImage
	runEditorFn         = func(e *app.Editor) { e.Run() }
	newScreenRootFn     = func(origin image.Point) compositor.Root { return content.NewScreen(origin) }
)

// loadImage decodes a PNG or JPEG file, or the clipboard image when path is
// empty and fromClipboard is set.
func loadImage(path string, fromClipboard bool) (*image.RGBA, error) {
	var src image.Image
	if fromClipboard {
		img, err := readClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("read clipboard: %w", err)
		}
		src = img
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		src = img
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return rgba, nil
}

// deliver copies img to the clipboard or writes it to output.
func (r *root) deliver(img image.Image, output string, toClipboard bool, detail string) error {
	if toClipboard {
		if err := writeClipboardFn(img); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		r.notifyCopy(detail)
		return nil
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output %q: %w", output, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("write PNG to %q: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", output, err)
	}
	saved := output
	if abs, err := filepath.Abs(output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	r.notifySave(saved)
	return nil
}
