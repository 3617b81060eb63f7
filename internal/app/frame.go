package app

import (
	"context"
	"image"
	"image/draw"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/blurpatch/internal/logging"
	"github.com/example/blurpatch/internal/theme"
)

var messageFace = loadMessageFace(24)

func loadMessageFace(size float64) font.Face {
	f, err := opentype.Parse(goregular.TTF)
	if err == nil {
		var face font.Face
		face, err = opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err == nil {
			return face
		}
	}
	logging.Logger().Warn("message font unavailable, using fallback", "err", err)
	return basicfont.Face7x13
}

// paintState is everything a frame needs. scene is owned by the frame.
type paintState struct {
	width, height int
	view          view
	scene         *image.RGBA
	theme         *theme.Theme
	message       string
	messageUntil  time.Time
	now           time.Time
}

// backdrop caches the window background and checkerboard.
type backdrop struct {
	img  *image.RGBA
	rect image.Rectangle
	th   *theme.Theme
}

func (b *backdrop) draw(dst *image.RGBA, rect image.Rectangle, th *theme.Theme) {
	bounds := dst.Bounds()
	if b.img == nil || b.img.Bounds() != bounds || b.rect != rect || b.th != th {
		b.img = image.NewRGBA(bounds)
		draw.Draw(b.img, bounds, image.NewUniform(th.Background), image.Point{}, draw.Src)
		drawCheckerboard(b.img, rect.Intersect(bounds), checkerSize, th.CheckerLight, th.CheckerDark)
		b.rect, b.th = rect, th
	}
	draw.Draw(dst, bounds, b.img, bounds.Min, draw.Src)
}

// drawFrame paints st into dst. It stops early once ctx is cancelled.
func drawFrame(ctx context.Context, dst *image.RGBA, bg *backdrop, st paintState) {
	bg.draw(dst, st.view.rect, st.theme)
	if ctx.Err() != nil {
		return
	}

	if st.scene != nil {
		xdraw.ApproxBiLinear.Scale(dst, st.view.rect, st.scene, st.scene.Bounds(), draw.Over, nil)
	}
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && st.now.Before(st.messageUntil) {
		drawMessage(dst, st.message, st.theme)
	}
}

func drawMessage(dst *image.RGBA, msg string, th *theme.Theme) {
	b := dst.Bounds()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.MessageText), Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := b.Min.X + (b.Dx()-wmsg)/2
	py := b.Max.Y - descent - 24
	box := image.Rect(px-12, py-ascent-8, px+wmsg+12, py+descent+8)
	draw.Draw(dst, box, image.NewUniform(th.MessageBackground), image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
