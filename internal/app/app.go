// Package app runs the interactive redaction window. Pointer input is
// mapped into image space and fed to an interact.Controller; every frame
// composites the regions over the image and scales the result into the
// window.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/blurpatch/internal/blur"
	"github.com/example/blurpatch/internal/clipboard"
	"github.com/example/blurpatch/internal/compositor"
	"github.com/example/blurpatch/internal/content"
	"github.com/example/blurpatch/internal/geom"
	"github.com/example/blurpatch/internal/interact"
	"github.com/example/blurpatch/internal/logging"
	"github.com/example/blurpatch/internal/notify"
	"github.com/example/blurpatch/internal/region"
	"github.com/example/blurpatch/internal/theme"
)

const (
	messageDuration    = 2 * time.Second
	frameDropThreshold = 3
)

var errNoSelection = errors.New("no region selected")

// Placement is a region to add when the editor opens.
type Placement struct {
	Rect     geom.Rect
	Rotation float64
}

// Editor holds the image being redacted and the window state.
type Editor struct {
	src      *image.RGBA
	output   string
	saveDir  string
	theme    *theme.Theme
	notifier *notify.Notifier
	log      *slog.Logger
	kernel   blur.Kernel
	compOpts []compositor.Option
	metrics  region.Metrics
	initial  []Placement
	title    string

	root *content.Image
	comp *compositor.Compositor
	ctrl *interact.Controller

	view         view
	pressed      bool
	quit         bool
	message      string
	messageUntil time.Time

	actions        map[string]func()
	keyboardAction map[KeyShortcut]string

	now            func() time.Time
	writeClipboard func(image.Image) error
	send           func(any)

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an Editor during creation.
type Option func(*Editor)

// WithOutput sets the file written on save.
func WithOutput(out string) Option { return func(e *Editor) { e.output = out } }

// WithSaveDir sets where saves go when no output file is set.
func WithSaveDir(dir string) Option { return func(e *Editor) { e.saveDir = dir } }

// WithTheme sets the editor colors.
func WithTheme(t *theme.Theme) Option { return func(e *Editor) { e.theme = t } }

// WithNotifier sets the notifier told about saves and copies.
func WithNotifier(n *notify.Notifier) Option { return func(e *Editor) { e.notifier = n } }

// WithLogger sets the logger. The shared logger is used otherwise.
func WithLogger(l *slog.Logger) Option { return func(e *Editor) { e.log = l } }

// WithKernel sets the blur kernel. The editor owns it and destroys it on
// close.
func WithKernel(k blur.Kernel) Option { return func(e *Editor) { e.kernel = k } }

// WithCompositorOptions passes options to the compositor.
func WithCompositorOptions(opts ...compositor.Option) Option {
	return func(e *Editor) { e.compOpts = append(e.compOpts, opts...) }
}

// WithMetrics sets the region metrics at a zoom of one.
func WithMetrics(m region.Metrics) Option { return func(e *Editor) { e.metrics = m } }

// WithRegions adds regions when the editor opens.
func WithRegions(p ...Placement) Option {
	return func(e *Editor) { e.initial = append(e.initial, p...) }
}

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(e *Editor) { e.title = title } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(e *Editor) { e.onClose = fn } }

// New creates an editor for img.
func New(img image.Image, opts ...Option) *Editor {
	b := img.Bounds()
	src := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)

	e := &Editor{
		src:            src,
		theme:          theme.Default(),
		metrics:        region.DefaultMetrics(1),
		now:            time.Now,
		writeClipboard: clipboard.WriteImage,
		send:           func(any) {},
	}
	for _, o := range opts {
		o(e)
	}
	e.log = logging.Or(e.log)
	if e.kernel == nil {
		e.kernel = blur.NewBox()
	}

	e.root = content.NewImage(src, image.Point{})
	e.comp = compositor.New(e.root, e.kernel, append([]compositor.Option{compositor.WithLogger(e.log)}, e.compOpts...)...)
	e.ctrl = interact.New(geom.FromRectangle(src.Bounds()),
		interact.WithMetrics(e.metrics),
		interact.WithCompositor(e.comp),
		interact.WithPalette(e.theme.Palette()),
		interact.WithLogger(e.log),
	)
	for _, p := range e.initial {
		e.ctrl.AddRegion(p.Rect, p.Rotation, nil)
	}
	e.ctrl.ClearSelection()
	e.view = fitView(src.Bounds().Size(), src.Bounds().Dx(), src.Bounds().Dy())
	e.registerActions()
	return e
}

// Controller returns the region controller.
func (e *Editor) Controller() *interact.Controller { return e.ctrl }

// Compositor returns the compositor filling the regions.
func (e *Editor) Compositor() *compositor.Compositor { return e.comp }

// Image returns the unredacted image.
func (e *Editor) Image() *image.RGBA { return e.src }

// Flatten returns the image with every region composited and no chrome.
func (e *Editor) Flatten() (*image.RGBA, error) {
	return e.ctrl.Flatten(e.src)
}

// Save writes the flattened image as PNG and returns the absolute path.
func (e *Editor) Save() (string, error) {
	img, err := e.Flatten()
	if err != nil {
		return "", fmt.Errorf("flatten: %w", err)
	}
	path := e.outputPath()
	if err := writePNG(path, img); err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	e.log.Info("saved image", "path", path)
	if e.notifier != nil {
		e.notifier.Save(path)
	}
	return path, nil
}

// Copy puts the flattened image on the clipboard.
func (e *Editor) Copy() error {
	img, err := e.Flatten()
	if err != nil {
		return fmt.Errorf("flatten: %w", err)
	}
	if err := e.writeClipboard(img); err != nil {
		return fmt.Errorf("copy PNG to clipboard: %w", err)
	}
	e.log.Info("copied image to clipboard")
	if e.notifier != nil {
		e.notifier.Copy("image")
	}
	return nil
}

// CopyRegion puts the flattened content under the selected region's
// bounding box on the clipboard.
func (e *Editor) CopyRegion() error {
	r := e.ctrl.Selected()
	if r == nil {
		return errNoSelection
	}
	img, err := e.Flatten()
	if err != nil {
		return fmt.Errorf("flatten: %w", err)
	}
	part := r.Snapshot(img)
	if part == nil {
		return errNoSelection
	}
	if err := e.writeClipboard(part); err != nil {
		return fmt.Errorf("copy region to clipboard: %w", err)
	}
	e.log.Info("copied region to clipboard", "region", r.ID())
	if e.notifier != nil {
		e.notifier.Copy("region")
	}
	return nil
}

func (e *Editor) outputPath() string {
	if e.output != "" {
		return e.output
	}
	name := "blurpatch-" + e.now().Format("20060102-150405") + ".png"
	return filepath.Join(e.saveDir, name)
}

func writePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %q: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("write PNG to %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	return nil
}

func (e *Editor) say(msg string) {
	e.message = msg
	e.messageUntil = e.now().Add(messageDuration)
	e.log.Info(msg)
	send := e.send
	time.AfterFunc(messageDuration, func() { send(paint.Event{}) })
}

func (e *Editor) sayf(format string, args ...any) { e.say(fmt.Sprintf(format, args...)) }

// resize fits the image into a window of the given size and rescales the
// region metrics so chrome keeps its on-screen size.
func (e *Editor) resize(w, h int) {
	e.view = fitView(e.src.Bounds().Size(), w, h)
	if e.view.zoom > 0 {
		e.ctrl.SetMetrics(e.metrics.Scale(1 / e.view.zoom))
	}
}

// handleMouse feeds ev to the controller. It reports whether the frame
// changed.
func (e *Editor) handleMouse(ev mouse.Event) bool {
	p := e.view.toImage(ev.X, ev.Y)
	switch {
	case ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirPress:
		e.pressed = true
		e.ctrl.Down(p)
	case ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirRelease:
		if !e.pressed {
			return false
		}
		e.pressed = false
		e.ctrl.Up(p)
	case ev.Button == mouse.ButtonRight && ev.Direction == mouse.DirPress:
		e.pressed = false
		e.ctrl.Cancel()
	case ev.Direction == mouse.DirNone:
		if !e.pressed {
			return false
		}
		e.ctrl.Move(p)
	default:
		return false
	}
	return true
}

// scene composites the regions and chrome over a copy of the image.
func (e *Editor) scene() *image.RGBA {
	out := image.NewRGBA(e.src.Bounds())
	copy(out.Pix, e.src.Pix)
	if err := e.ctrl.Draw(out, true); err != nil {
		e.log.Warn("chrome draw failed", "err", err)
	}
	return out
}

// Run opens the editor window and blocks until it closes.
func (e *Editor) Run() { driver.Main(e.Main) }

// Main runs the editor on s.
func (e *Editor) Main(s screen.Screen) {
	defer e.close()

	ws := windowSize(e.src.Bounds().Size())
	width, height := ws.X, ws.Y
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: e.title})
	if err != nil {
		e.log.Error("new window", "err", err)
		return
	}
	defer w.Release()
	e.send = w.Send
	e.resize(width, height)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	bg := &backdrop{}
	paintCh := make(chan paintState, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			e.publish(ctx, s, w, bg, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer func() {
		close(paintCh)
		<-done
	}()

	for {
		switch ev := w.NextEvent().(type) {
		case lifecycle.Event:
			if ev.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = ev.WidthPx, ev.HeightPx
			e.resize(width, height)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := paintState{
				width:        width,
				height:       height,
				view:         e.view,
				scene:        e.scene(),
				theme:        e.theme,
				message:      e.message,
				messageUntil: e.messageUntil,
				now:          e.now(),
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if e.handleMouse(ev) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if e.handleKey(ev) {
				if e.quit {
					return
				}
				w.Send(paint.Event{})
			}
		case error:
			e.log.Error("window event", "err", ev)
		}
	}
}

func (e *Editor) publish(ctx context.Context, s screen.Screen, w screen.Window, bg *backdrop, st paintState) {
	if st.width <= 0 || st.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		e.log.Error("new buffer", "err", err)
		return
	}
	defer b.Release()
	drawFrame(ctx, b.RGBA(), bg, st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func (e *Editor) close() {
	e.closeOnce.Do(func() {
		e.ctrl.SetCompositor(nil)
		e.comp.Close()
		if e.onClose != nil {
			e.onClose()
		}
	})
}
