package compositor

import (
	"image"
	"math/rand/v2"
)

// The noise texture is generated from a fixed seed so every frame and
// every run dithers identically.
const (
	noiseSeed1 = 0x5eed
	noiseSeed2 = 0xb1a5
	noiseAlpha = 10
	noiseTile  = 128
)

var noiseTileImage = makeNoiseTile()

func makeNoiseTile() *image.NRGBA {
	rng := rand.New(rand.NewPCG(noiseSeed1, noiseSeed2))
	tile := image.NewNRGBA(image.Rect(0, 0, noiseTile, noiseTile))
	for i := 0; i < len(tile.Pix); i += 4 {
		v := uint8(rng.IntN(256))
		tile.Pix[i], tile.Pix[i+1], tile.Pix[i+2], tile.Pix[i+3] = v, v, v, noiseAlpha
	}
	return tile
}

// noiseTexture returns a size-sized texture tiled from the noise tile.
func (c *Compositor) noiseTexture(size image.Point) *image.NRGBA {
	if size.X <= 0 || size.Y <= 0 {
		return nil
	}
	if tex, ok := c.textures.Get(size); ok {
		return tex
	}
	tex := image.NewNRGBA(image.Rectangle{Max: size})
	for y := 0; y < size.Y; y++ {
		src := noiseTileImage.Pix[(y%noiseTile)*noiseTileImage.Stride:]
		row := tex.Pix[y*tex.Stride : y*tex.Stride+size.X*4]
		for x := 0; x < size.X; x += noiseTile {
			copy(row[x*4:], src[:noiseTile*4])
		}
	}
	c.textures.Add(size, tex)
	return tex
}
