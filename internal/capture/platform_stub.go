//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

type directBackend struct{}

func newBackend() platformBackend {
	return directBackend{}
}

// ListMonitors reports the whole screen as a single monitor.
func (directBackend) ListMonitors() ([]MonitorInfo, error) {
	r, err := screenshot.ScreenRect()
	if err != nil {
		return nil, fmt.Errorf("screen rect: %w", err)
	}
	if r.Empty() {
		return nil, ErrNoMonitors
	}
	return []MonitorInfo{{Name: "screen", Rect: r, Primary: true}}, nil
}

func x11Screenshot() (*image.RGBA, error) {
	return nil, fmt.Errorf("x11 capture is not supported on this platform")
}

func runningOnWayland() bool { return false }
