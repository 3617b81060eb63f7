// Package theme holds the editor color sets: the region chrome, the status
// message box and the transparency checkerboard.
package theme

import (
	"image/color"

	"github.com/example/blurpatch/internal/region"
)

// Theme defines the colors of the editor.
type Theme struct {
	Name string

	// Window
	Background color.NRGBA
	Foreground color.NRGBA

	// Region chrome
	Selection     color.NRGBA // frame stroke
	Dot           color.NRGBA // resize dots
	MenuFill      color.NRGBA
	MenuDivider   color.NRGBA
	Glyph         color.NRGBA // menu icons and rotate handles
	PreviewFill   color.NRGBA
	PreviewStroke color.NRGBA

	// Status message
	MessageBackground color.NRGBA
	MessageText       color.NRGBA

	// Canvas
	CheckerLight color.NRGBA
	CheckerDark  color.NRGBA
}

// Default returns the built-in theme. Its chrome colors match
// region.DefaultPalette.
func Default() *Theme {
	white := color.NRGBA{255, 255, 255, 255}
	return &Theme{
		Name:              "Default",
		Background:        color.NRGBA{48, 48, 48, 255},
		Foreground:        white,
		Selection:         white,
		Dot:               white,
		MenuFill:          color.NRGBA{0, 0, 0, 99},
		MenuDivider:       color.NRGBA{255, 255, 255, 0x66},
		Glyph:             white,
		PreviewFill:       color.NRGBA{0, 0, 0, 63},
		PreviewStroke:     white,
		MessageBackground: color.NRGBA{0, 0, 0, 180},
		MessageText:       white,
		CheckerLight:      color.NRGBA{220, 220, 220, 255},
		CheckerDark:       color.NRGBA{192, 192, 192, 255},
	}
}

// Palette returns the chrome colors of t.
func (t *Theme) Palette() region.Palette {
	return region.Palette{
		Selection:     t.Selection,
		Dot:           t.Dot,
		MenuFill:      t.MenuFill,
		MenuDivider:   t.MenuDivider,
		Glyph:         t.Glyph,
		PreviewFill:   t.PreviewFill,
		PreviewStroke: t.PreviewStroke,
	}
}
