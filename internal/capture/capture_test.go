package capture

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

type fakeBackend struct {
	monitors []MonitorInfo
	err      error
}

func (f fakeBackend) ListMonitors() ([]MonitorInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.monitors, nil
}

// stubBackends replaces every screenshot backend and restores them when the
// test ends.
func stubBackends(t *testing.T, portal, x11, direct func() (*image.RGBA, error)) {
	t.Helper()
	prevPortal, prevX11, prevDirect := portalScreenshotFn, x11ScreenshotFn, screenCaptureFn
	t.Cleanup(func() {
		portalScreenshotFn, x11ScreenshotFn, screenCaptureFn = prevPortal, prevX11, prevDirect
	})
	portalScreenshotFn = func(bool, Options) (*image.RGBA, error) { return portal() }
	x11ScreenshotFn = x11
	screenCaptureFn = direct
}

func fails(msg string) func() (*image.RGBA, error) {
	return func() (*image.RGBA, error) { return nil, errors.New(msg) }
}

func returns(img *image.RGBA) func() (*image.RGBA, error) {
	return func() (*image.RGBA, error) { return img, nil }
}

func TestScreenshotPrefersPortal(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 2, 2))
	stubBackends(t, returns(want), fails("x11 should not run"), fails("direct should not run"))

	got, err := Screenshot("", Options{})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if got != want {
		t.Fatalf("expected portal image")
	}
}

func TestScreenshotFallsBackToX11(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 2, 2))
	stubBackends(t, fails("portal unavailable"), returns(want), fails("direct should not run"))

	got, err := Screenshot("", Options{})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if got != want {
		t.Fatalf("expected x11 image")
	}
}

func TestScreenshotFallsBackToDirect(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 2, 2))
	stubBackends(t, fails("portal unavailable"), fails("no display"), returns(want))

	got, err := Screenshot("", Options{})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if got != want {
		t.Fatalf("expected direct image")
	}
}

func TestScreenshotReportsEveryBackend(t *testing.T) {
	stubBackends(t, fails("portal unavailable"), fails("no display"), fails("no screen"))

	_, err := Screenshot("", Options{})
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"portal unavailable", "x11 fallback: no display", "direct fallback: no screen"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestScreenshotCropsToMonitor(t *testing.T) {
	shot := image.NewRGBA(image.Rect(0, 0, 40, 20))
	shot.Set(25, 5, color.RGBA{R: 255, A: 255})
	stubBackends(t, returns(shot), fails("unused"), fails("unused"))

	prev := backend
	backend = fakeBackend{monitors: []MonitorInfo{
		{Index: 0, Name: "DP-1", Rect: image.Rect(0, 0, 20, 20)},
		{Index: 1, Name: "HDMI-1", Rect: image.Rect(20, 0, 40, 20), Primary: true},
	}}
	t.Cleanup(func() { backend = prev })

	got, err := Screenshot("primary", Options{})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if got.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if c := got.RGBAAt(5, 5); c.R != 255 {
		t.Fatalf("crop lost pixel: %v", c)
	}
}

func TestScreenshotMonitorListError(t *testing.T) {
	stubBackends(t, returns(image.NewRGBA(image.Rect(0, 0, 1, 1))), fails("unused"), fails("unused"))
	prev := backend
	listErr := errors.New("randr missing")
	backend = fakeBackend{err: listErr}
	t.Cleanup(func() { backend = prev })

	_, err := Screenshot("1", Options{})
	if !errors.Is(err, listErr) {
		t.Fatalf("expected wrapped list error, got %v", err)
	}
	if !strings.Contains(err.Error(), `capture display "1"`) {
		t.Fatalf("expected selector context, got %v", err)
	}
}

func TestRect(t *testing.T) {
	prev := rectCaptureFn
	t.Cleanup(func() { rectCaptureFn = prev })

	var asked image.Rectangle
	rectCaptureFn = func(r image.Rectangle) (*image.RGBA, error) {
		asked = r
		return image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy())), nil
	}
	want := image.Rect(10, 20, 30, 50)
	img, err := Rect(want)
	if err != nil {
		t.Fatalf("Rect: %v", err)
	}
	if asked != want || img.Bounds().Size() != want.Size() {
		t.Fatalf("asked %v, got %v", asked, img.Bounds())
	}

	if _, err := Rect(image.Rectangle{}); err == nil {
		t.Fatalf("expected error for empty rect")
	}

	rectCaptureFn = func(image.Rectangle) (*image.RGBA, error) { return nil, errors.New("denied") }
	if _, err := Rect(want); err == nil || !strings.Contains(err.Error(), "denied") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestFindMonitor(t *testing.T) {
	monitors := []MonitorInfo{
		{Index: 0, Name: "eDP-1"},
		{Index: 1, Name: "HDMI-A-1", Primary: true},
		{Index: 2, Name: "DP-2"},
	}
	tests := []struct {
		sel     string
		want    int
		wantErr bool
	}{
		{sel: "", want: 0},
		{sel: "primary", want: 1},
		{sel: "PRIMARY", want: 1},
		{sel: "2", want: 2},
		{sel: "#1", want: 1},
		{sel: "hdmi", want: 1},
		{sel: " dp-2 ", want: 2},
		{sel: "5", wantErr: true},
		{sel: "-1", wantErr: true},
		{sel: "vga", wantErr: true},
	}
	for _, tc := range tests {
		got, err := FindMonitor(monitors, tc.sel)
		if tc.wantErr {
			if err == nil {
				t.Errorf("FindMonitor(%q): expected error", tc.sel)
			}
			continue
		}
		if err != nil {
			t.Errorf("FindMonitor(%q): %v", tc.sel, err)
			continue
		}
		if got.Index != tc.want {
			t.Errorf("FindMonitor(%q) = %d, want %d", tc.sel, got.Index, tc.want)
		}
	}

	if _, err := FindMonitor(nil, ""); !errors.Is(err, ErrNoMonitors) {
		t.Fatalf("expected ErrNoMonitors, got %v", err)
	}
}

func TestPrimaryFallsBackToFirst(t *testing.T) {
	got, err := FindMonitor([]MonitorInfo{{Index: 0, Name: "a"}, {Index: 1, Name: "b"}}, "primary")
	if err != nil || got.Index != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestCropToRectOutside(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if _, err := cropToRect(src, image.Rect(20, 20, 30, 30)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMonitorString(t *testing.T) {
	m := MonitorInfo{Index: 1, Name: "DP-1", Rect: image.Rect(1920, 0, 3840, 1080), Primary: true}
	if got, want := m.String(), "1: DP-1 1920x1080+1920+0 (primary)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
