// Package capture grabs screen pixels for the editor and the live screen
// content root.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/vova616/screenshot"
)

// Options tune a full-screen capture.
type Options struct {
	// IncludeCursor asks the portal to embed the pointer.
	IncludeCursor bool
}

// Backends are variables so tests can replace them.
var (
	portalScreenshotFn = portalScreenshot
	x11ScreenshotFn    = x11Screenshot
	screenCaptureFn    = screenshot.CaptureScreen
	rectCaptureFn      = screenshot.CaptureRect
)

// Screenshot captures the desktop. It asks the desktop portal first, then
// reads the X11 root window and finally falls back to a direct grab. When a
// display selector is provided the result is cropped to the matching
// monitor.
func Screenshot(display string, opts Options) (*image.RGBA, error) {
	img, err := fullScreenshot(opts)
	if err != nil {
		return nil, err
	}
	if display == "" {
		return img, nil
	}
	monitors, err := ListMonitors()
	if err != nil {
		return nil, fmt.Errorf("capture display %q: %w", display, err)
	}
	monitor, err := FindMonitor(monitors, display)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, monitor.Rect)
}

func fullScreenshot(opts Options) (*image.RGBA, error) {
	img, portalErr := portalScreenshotFn(false, opts)
	if portalErr == nil {
		return img, nil
	}
	img, x11Err := x11ScreenshotFn()
	if x11Err == nil {
		return img, nil
	}
	img, err := screenCaptureFn()
	if err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("screenshot: %w", errors.Join(
		fmt.Errorf("portal: %w", portalErr),
		fmt.Errorf("x11 fallback: %w", x11Err),
		fmt.Errorf("direct fallback: %w", err),
	))
}

// Rect grabs a rectangle of the screen in global coordinates. It skips the
// portal, which cannot capture without user interaction on every call.
func Rect(r image.Rectangle) (*image.RGBA, error) {
	if r.Empty() {
		return nil, fmt.Errorf("capture rect %v: region is empty", r)
	}
	img, err := rectCaptureFn(r)
	if err != nil {
		return nil, fmt.Errorf("capture rect %v: %w", r, err)
	}
	return img, nil
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
