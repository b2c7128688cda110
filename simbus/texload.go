package simbus

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// validTextureSides are the only square texture dimensions the wire
// format's TEXTURE_STREAM code can express.
var validTextureSides = [4]int{32, 64, 128, 256}

func nearestValidSide(n int) int {
	best := validTextureSides[0]
	for _, side := range validTextureSides {
		if abs(n-side) < abs(n-best) {
			best = side
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// LoadTexturePNG decodes an arbitrary-sized PNG and resamples it (via
// x/image/draw's higher-quality scaler, since the standard library has no
// image-scaling primitive of its own) down or up to the nearest square
// size the hardware's TEXTURE_STREAM code can express, returning tightly
// packed RGBA8 pixels ready for an UpdateTexture/UseTexture pair.
func LoadTexturePNG(r io.Reader) (side int, pixels []byte, err error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return 0, nil, fmt.Errorf("simbus: decoding texture: %w", err)
	}

	b := src.Bounds()
	side = nearestValidSide(maxInt(b.Dx(), b.Dy()))

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	return side, dst.Pix, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
