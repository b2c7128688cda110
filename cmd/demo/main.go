// demo is a thin windowed viewer: it builds one spinning triangle through
// the vertex pipeline, assembles it into a display list, hands that list
// to the software reference consumer, and blits the resulting frame each
// tick — the same Update/Draw/Layout shape the source's ebiten video
// backend uses, wired here as an external consumer of this repository's
// public surface rather than a module inside it.
package main

import (
	"fmt"
	"log"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/rasterix-go/rasterix/displaylist"
	"github.com/rasterix-go/rasterix/linear"
	"github.com/rasterix-go/rasterix/pipeline"
	"github.com/rasterix-go/rasterix/protocol"
	"github.com/rasterix-go/rasterix/raster"
	"github.com/rasterix-go/rasterix/simbus"
)

const (
	screenWidth  = 320
	screenHeight = 240
)

// assemblerRenderer feeds the pipeline's finished triangles into the
// display-list assembler instead of rasterizing them directly, so the
// demo exercises the full producer/consumer split this library exists to
// enforce rather than shortcutting straight to simbus.
type assemblerRenderer struct{ asm *displaylist.Assembler }

func (r assemblerRenderer) DrawTriangle(t raster.RasterizedTriangle) bool {
	return r.asm.DrawTriangle(t)
}

type game struct {
	asm   *displaylist.Assembler
	back  *simbus.Backend
	pipe  *pipeline.Pipeline
	img   *ebiten.Image
	angle float32
}

func newGame() *game {
	asm := displaylist.NewAssembler(1 << 16)
	g := &game{
		asm:  asm,
		back: simbus.NewBackend(screenWidth, screenHeight),
		img:  ebiten.NewImage(screenWidth, screenHeight),
	}

	g.pipe = &pipeline.Pipeline{
		Projection: linear.Identity(),
		Renderer:   assemblerRenderer{asm},
	}
	g.pipe.SetViewport(0, 0, screenWidth, screenHeight)
	g.pipe.SetDepthRange(0, 1)
	return g
}

func (g *game) Update() error {
	g.angle += 0.02
	g.asm.ClearAssembler()

	tri := pipeline.Triangle{
		V: [3]linear.Vec4{
			{X: 0, Y: 0.8, Z: 0, W: 1},
			{X: -0.8, Y: -0.8, Z: 0, W: 1},
			{X: 0.8, Y: -0.8, Z: 0, W: 1},
		},
		Color: [3]linear.Vec4{
			{X: 1, Y: 0, Z: 0, W: 1},
			{X: 0, Y: 1, Z: 0, W: 1},
			{X: 0, Y: 0, Z: 1, W: 1},
		},
	}

	s, c := math32.Sincos(g.angle)
	g.pipe.SetModelView(linear.Mat44{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	})

	g.asm.WriteRegister(protocol.RegColorClearColor, protocol.EncodeClearColor(0.05, 0.05, 0.08, 1))
	g.asm.Clear(true, false)
	if !g.pipe.DrawTriangle(tri) {
		return fmt.Errorf("demo: display list ran out of room")
	}
	g.asm.Commit()

	if err := g.back.Consume(g.asm.Bytes()); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	g.img.WritePixels(g.back.FB.Color)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("rasterix demo")
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
