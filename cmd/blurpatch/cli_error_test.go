package main

import (
	"bytes"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/blurpatch/internal/app"
	"github.com/example/blurpatch/internal/capture"
	"github.com/example/blurpatch/internal/compositor"
	"github.com/example/blurpatch/internal/config"
	"github.com/example/blurpatch/internal/content"
	"github.com/example/blurpatch/internal/geom"
	"github.com/example/blurpatch/internal/logging"
	"github.com/example/blurpatch/internal/theme"
)

func testRoot() *root {
	return &root{
		fs:          flag.NewFlagSet("blurpatch", flag.ContinueOnError),
		program:     "blurpatch",
		config:      config.New(),
		activeTheme: theme.Default(),
		log:         logging.Nop(),
	}
}

func solid(w, h int, col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
	return img
}

func redBlue() *image.RGBA {
	img := solid(64, 64, color.RGBA{R: 255, A: 255})
	draw.Draw(img, image.Rect(32, 0, 64, 64), image.NewUniform(color.RGBA{B: 255, A: 255}), image.Point{}, draw.Src)
	return img
}

func writeTestPNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func readTestPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img
}

func stubScreenshot(t *testing.T, img *image.RGBA, err error) {
	t.Helper()
	original := captureScreenshotFn
	captureScreenshotFn = func(string, capture.Options) (*image.RGBA, error) { return img, err }
	t.Cleanup(func() { captureScreenshotFn = original })
}

func stubMonitors(t *testing.T, monitors []capture.MonitorInfo, err error) {
	t.Helper()
	original := listMonitorsFn
	listMonitorsFn = func() ([]capture.MonitorInfo, error) { return monitors, err }
	t.Cleanup(func() { listMonitorsFn = original })
}

func TestCaptureRunCaptureError(t *testing.T) {
	sentinel := errors.New("portal offline")
	stubScreenshot(t, nil, sentinel)

	cmd, err := parseCaptureCmd(nil, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	err = cmd.Run()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if want := "failed to capture screen"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to contain %q, got %v", want, err)
	}
}

func TestCaptureRedactsAtMonitorOrigin(t *testing.T) {
	stubScreenshot(t, redBlue(), nil)
	stubMonitors(t, []capture.MonitorInfo{{Index: 0, Name: "DP-1", Rect: image.Rect(1920, 0, 1984, 64), Primary: true}}, nil)

	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseCaptureCmd([]string{"-output", out, "-region", "0,0,64,64"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	r, _, b, _ := readTestPNG(t, out).At(32, 32).RGBA()
	if r == 0 || b == 0 {
		t.Fatalf("seam not blurred, capture placed at the wrong origin")
	}
}

func TestCaptureLiveReadsScreen(t *testing.T) {
	stubScreenshot(t, redBlue(), nil)
	stubMonitors(t, []capture.MonitorInfo{{Index: 0, Name: "DP-1", Rect: image.Rect(1920, 0, 1984, 64)}}, nil)
	screen := solid(2000, 64, color.RGBA{R: 255, A: 255})
	draw.Draw(screen, image.Rect(1920, 0, 2000, 64), image.NewUniform(color.RGBA{G: 255, A: 255}), image.Point{}, draw.Src)
	original := newScreenRootFn
	newScreenRootFn = func(origin image.Point) compositor.Root { return content.NewImage(screen, origin) }
	t.Cleanup(func() { newScreenRootFn = original })

	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseCaptureCmd([]string{"-live", "-output", out, "-region", "0,0,64,64"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := color.RGBAModel.Convert(readTestPNG(t, out).At(10, 10)).(color.RGBA)
	if got.G < 200 || got.R > 50 {
		t.Fatalf("pixel = %v, want the screen content under the monitor", got)
	}
}

func TestCaptureToClipboard(t *testing.T) {
	stubScreenshot(t, solid(8, 8, color.RGBA{A: 255}), nil)
	var copied image.Image
	original := writeClipboardFn
	writeClipboardFn = func(img image.Image) error {
		copied = img
		return nil
	}
	t.Cleanup(func() { writeClipboardFn = original })

	cmd, err := parseCaptureCmd([]string{"-to-clipboard"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if copied == nil || copied.Bounds().Dx() != 8 {
		t.Fatalf("clipboard image = %v", copied)
	}
}

func TestCaptureEditRejectsClipboard(t *testing.T) {
	_, err := parseCaptureCmd([]string{"-edit", "-to-clipboard"}, testRoot())
	if err == nil || !strings.Contains(err.Error(), "-to-clipboard cannot be used") {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestApplyRequiresRegions(t *testing.T) {
	_, err := parseApplyCmd([]string{"-file", "in.png", "-output", "out.png"}, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if help := uerr.Error(); !strings.Contains(help, "-region") || !strings.Contains(help, "blurpatch apply") {
		t.Fatalf("help does not describe apply:\n%s", help)
	}
}

func TestApplyRedactsFile(t *testing.T) {
	in := writeTestPNG(t, redBlue())
	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseApplyCmd([]string{"-file", in, "-output", out, "-region", "0,0,64,64", "-noise=false"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	img := readTestPNG(t, out)
	if img.Bounds() != image.Rect(0, 0, 64, 64) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	r, _, b, _ := img.At(32, 32).RGBA()
	if r == 0 || b == 0 {
		t.Fatalf("seam not blurred: %v", img.At(32, 32))
	}
}

func TestApplyErrors(t *testing.T) {
	in := writeTestPNG(t, redBlue())
	out := filepath.Join(t.TempDir(), "out.png")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"tint", []string{"-tint", "nope"}, "invalid -tint"},
		{"kernel", []string{"-kernel", "median"}, "median"},
		{"missing file", []string{"-file", filepath.Join(t.TempDir(), "missing.png")}, "missing.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-file", in, "-output", out, "-region", "0,0,10,10"}, tt.args...)
			cmd, err := parseApplyCmd(args, testRoot())
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Run error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestEditOpensEditor(t *testing.T) {
	in := writeTestPNG(t, redBlue())
	var opened *app.Editor
	original := runEditorFn
	runEditorFn = func(e *app.Editor) { opened = e }
	t.Cleanup(func() { runEditorFn = original })

	cmd, err := parseEditCmd([]string{"-region", "1,2,30,40@90", in}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if opened == nil {
		t.Fatalf("editor not opened")
	}
	regions := opened.Controller().Regions()
	if len(regions) != 1 || regions[0].LocalRect() != geom.R(1, 2, 30, 40) || regions[0].Rotation() != 90 {
		t.Fatalf("regions = %v", regions)
	}
	if opened.Image().Bounds() != image.Rect(0, 0, 64, 64) {
		t.Fatalf("image bounds = %v", opened.Image().Bounds())
	}
}

func TestEditFromClipboard(t *testing.T) {
	original := readClipboardFn
	readClipboardFn = func() (image.Image, error) { return solid(5, 7, color.RGBA{A: 255}), nil }
	t.Cleanup(func() { readClipboardFn = original })
	originalRun := runEditorFn
	var opened *app.Editor
	runEditorFn = func(e *app.Editor) { opened = e }
	t.Cleanup(func() { runEditorFn = originalRun })

	cmd, err := parseEditCmd([]string{"-from-clipboard"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if opened == nil || opened.Image().Bounds() != image.Rect(0, 0, 5, 7) {
		t.Fatalf("editor not opened with the clipboard image")
	}
}

func TestEditArgumentErrors(t *testing.T) {
	if _, err := parseEditCmd([]string{"-file", "a.png", "-from-clipboard"}, testRoot()); err == nil ||
		!strings.Contains(err.Error(), "-from-clipboard cannot be used") {
		t.Fatalf("expected conflict error, got %v", err)
	}
	var uerr *UsageError
	if _, err := parseEditCmd(nil, testRoot()); !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestMonitorsList(t *testing.T) {
	stubMonitors(t, []capture.MonitorInfo{
		{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 1920, 1080), Primary: true},
		{Index: 1, Name: "DP-2", Rect: image.Rect(1920, 0, 4480, 1440)},
	}, nil)
	cmd, err := parseMonitorsCmd(nil, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	cmd.out = &buf
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "0: eDP-1 1920x1080+0+0 (primary)\n1: DP-2 2560x1440+1920+0\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}

	sentinel := errors.New("no randr")
	stubMonitors(t, nil, sentinel)
	if err := cmd.Run(); !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestConfigPrint(t *testing.T) {
	cmd, err := parseConfigCmd([]string{"print"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	cmd.out = &buf
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(buf.String(), "kernel = box") || !strings.Contains(buf.String(), "[blur]") {
		t.Fatalf("unexpected config output:\n%s", buf.String())
	}

	cmd, _ = parseConfigCmd([]string{"frobnicate"}, testRoot())
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "unknown config command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestVersionOutput(t *testing.T) {
	var buf bytes.Buffer
	v := &versionCmd{root: testRoot()}
	if err := v.print(&buf); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "blurpatch version "+version) {
		t.Fatalf("version output = %q", buf.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	t.Setenv("BLURPATCH_THEME", "")
	r := testRoot()
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use")
	err := r.Run([]string{"bogus"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if help := uerr.Error(); !strings.Contains(help, "Usage: blurpatch") || !strings.Contains(help, "apply") {
		t.Fatalf("root help missing commands:\n%s", help)
	}
	logging.SetLogger(nil)
}

func TestResolveThemePrecedence(t *testing.T) {
	r := testRoot()
	mine := theme.Default()
	mine.Name = "Mine"
	r.config.Themes["mine"] = mine
	r.config.Theme = "mine"

	t.Setenv("BLURPATCH_THEME", "")
	if got := r.resolveTheme(); got != mine {
		t.Fatalf("config theme not used, got %q", got.Name)
	}
	t.Setenv("BLURPATCH_THEME", "dark")
	if got := r.resolveTheme(); got.Name != "Dark" {
		t.Fatalf("environment theme not used, got %q", got.Name)
	}
	r.themeName = "mine"
	if got := r.resolveTheme(); got != mine {
		t.Fatalf("flag theme not used, got %q", got.Name)
	}
	r.themeName = "no-such-theme"
	if got := r.resolveTheme(); got.Name != theme.Default().Name {
		t.Fatalf("unknown theme should fall back to the default, got %q", got.Name)
	}
}
