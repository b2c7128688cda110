package simbus

import (
	"fmt"
	"image"
	"image/png"
	"io"
)

// DumpPNG encodes the framebuffer's current color buffer as a PNG, for
// saving a reference frame out of an integration test or the demo viewer.
func (fb *Framebuffer) DumpPNG(w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return png.Encode(w, img)
}

// DumpPPM writes the framebuffer as a plain ASCII PPM (P3), a format
// trivial enough to diff in a test without pulling in an image decoder on
// the reading side.
func (fb *Framebuffer) DumpPPM(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "P3\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return err
	}
	for i := 0; i < len(fb.Color); i += 4 {
		if _, err := fmt.Fprintf(w, "%d %d %d\n", fb.Color[i], fb.Color[i+1], fb.Color[i+2]); err != nil {
			return err
		}
	}
	return nil
}
