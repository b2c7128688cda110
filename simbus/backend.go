package simbus

import (
	"fmt"

	"github.com/rasterix-go/rasterix/displaylist"
	"github.com/rasterix-go/rasterix/protocol"
	"github.com/rasterix-go/rasterix/raster"
)

// Backend is a software reference consumer of the display-list wire
// format. It owns a framebuffer, a simulated addressable memory for
// STORE/LOAD payloads, and the register file SET_REG writes into —
// the same responsibilities the source's VoodooSoftwareBackend holds,
// generalized from its raw-vertex barycentric rasterizer to the
// fixed-point RasterizedTriangle record this driver's assembler packs.
//
// Backend is not safe for concurrent use; callers serialize Consume calls
// the same way the source's mutex-guarded backend methods are always
// called from a single flush thread.
type Backend struct {
	FB *Framebuffer

	mem map[uint32][]byte

	conf1, conf2  uint32
	clearColor    uint32
	clearDepth    float32
	texEnvColor   uint32

	tex *Texture
}

// NewBackend creates a backend with a framebuffer of the given dimensions.
// Conf1RGBWrite starts set, matching the accelerator's power-on default of
// writing color output until a SET_REG explicitly changes it.
func NewBackend(width, height int) *Backend {
	return &Backend{
		FB:    NewFramebuffer(width, height),
		mem:   make(map[uint32][]byte),
		conf1: Conf1RGBWrite,
	}
}

// textureSizeFromCode reverses protocol.TextureStreamCode.
func textureSizeFromCode(code uint32) int {
	switch code {
	case 0x11:
		return 32
	case 0x22:
		return 64
	case 0x44:
		return 128
	case 0x88:
		return 256
	default:
		return 0
	}
}

// Consume decodes and executes a finished display list, exactly as a bus
// adapter's receiving end would. It returns an error only on a malformed
// stream (truncated payload, unknown top-level op) — never on ordinary
// rendering conditions, which are not errors at this layer.
func (b *Backend) Consume(buf []byte) error {
	return b.run(buf)
}

func (b *Backend) run(buf []byte) error {
	pos := 0
	for pos < len(buf) {
		if pos+8 > len(buf) {
			return fmt.Errorf("simbus: truncated command word at offset %d", pos)
		}
		op, imm := protocol.DecodeWord(protocol.GetWord(buf, pos))
		pos += 8

		switch op {
		case protocol.OpNOP:
			// no-op

		case protocol.OpStream:
			end := pos + int(imm)
			if end > len(buf) {
				return fmt.Errorf("simbus: STREAM body overruns buffer at offset %d", pos)
			}
			if err := b.run(buf[pos:end]); err != nil {
				return err
			}
			pos = end

		case protocol.OpSetReg:
			if pos+8 > len(buf) {
				return fmt.Errorf("simbus: SET_REG missing value word at offset %d", pos)
			}
			value := protocol.GetWord(buf, pos)
			pos += 8
			b.writeRegister(imm, value)

		case protocol.OpFramebufferOp:
			b.framebufferOp(imm)

		case protocol.OpTriangleStream:
			size := int(imm)
			end := pos + size
			if end > len(buf) {
				return fmt.Errorf("simbus: TRIANGLE_STREAM payload overruns buffer at offset %d", pos)
			}
			rt := displaylist.UnpackTriangle(buf[pos:end])
			b.DrawTriangle(rt)
			pos += protocol.AlignUp(size)

		case protocol.OpTextureStream:
			if pos+16 > len(buf) {
				return fmt.Errorf("simbus: TEXTURE_STREAM missing LOAD/address words at offset %d", pos)
			}
			loadOp, size := protocol.DecodeWord(protocol.GetWord(buf, pos))
			if loadOp != protocol.OpLoad {
				return fmt.Errorf("simbus: expected LOAD after TEXTURE_STREAM, got op %d", loadOp)
			}
			addr := protocol.GetWord(buf, pos+8)
			pos += 16
			b.bindTexture(imm, addr, size)

		case protocol.OpStore:
			size := int(imm)
			if pos+8 > len(buf) {
				return fmt.Errorf("simbus: STORE missing address word at offset %d", pos)
			}
			addr := protocol.GetWord(buf, pos)
			pos += 8
			end := pos + size
			if end > len(buf) {
				return fmt.Errorf("simbus: STORE payload overruns buffer at offset %d", pos)
			}
			data := make([]byte, size)
			copy(data, buf[pos:end])
			b.mem[addr] = data
			pos += protocol.AlignUp(size)

		case protocol.OpLoad:
			// LOAD only ever appears paired immediately after
			// TEXTURE_STREAM in this driver's output and is consumed
			// there; a bare top-level LOAD is malformed.
			return fmt.Errorf("simbus: unexpected bare LOAD at offset %d", pos-8)

		case protocol.OpMemset:
			if pos+16 > len(buf) {
				return fmt.Errorf("simbus: MEMSET missing address/pattern words at offset %d", pos)
			}
			addr := protocol.GetWord(buf, pos)
			pattern := protocol.GetWord(buf, pos+8)
			pos += 16
			b.memset(addr, int(imm), pattern)

		default:
			return fmt.Errorf("simbus: unknown op %d at offset %d", op, pos-8)
		}
	}
	return nil
}

func (b *Backend) writeRegister(index, value uint32) {
	switch index {
	case protocol.RegColorClearColor:
		b.clearColor = value
	case protocol.RegDepthClearDepth:
		b.clearDepth = float32(value) / 65535
	case protocol.RegConf1:
		b.conf1 = value
	case protocol.RegConf2:
		b.conf2 = value
	case protocol.RegTexEnvColor:
		b.texEnvColor = value
	}
}

func (b *Backend) framebufferOp(imm uint32) {
	if imm&protocol.FBBitMemset != 0 {
		b.FB.Clear(imm&protocol.FBBitColor != 0, imm&protocol.FBBitDepth != 0, b.clearColor, b.clearDepth)
	}
	// FBBitCommit marks scan-out readiness; the reference consumer has no
	// separate front buffer to flip, so there is nothing further to do.
}

func (b *Backend) bindTexture(code, addr, size uint32) {
	side := textureSizeFromCode(code)
	data := b.mem[addr]
	if len(data) > int(size) {
		data = data[:size]
	}
	b.tex = &Texture{Width: side, Height: side, Pixels: data}
}

func (b *Backend) memset(addr uint32, size int, pattern uint32) {
	data := make([]byte, size)
	for i := 0; i+4 <= size; i += 4 {
		protocol.PutWord(data, i, pattern)
	}
	b.mem[addr] = data
}

// DrawTriangle rasterizes a single packed triangle into the framebuffer.
// It implements pipeline.Renderer, so a Backend can also sit directly
// behind a Pipeline in tests without going through the wire format at
// all.
func (b *Backend) DrawTriangle(rt raster.RasterizedTriangle) bool {
	fb := b.FB
	depthEnable := b.conf1&Conf1DepthEnable != 0
	depthWrite := b.conf1&Conf1DepthWrite != 0
	rgbWrite := b.conf1&Conf1RGBWrite != 0
	ditherEnable := b.conf1&Conf1Dither != 0
	dither2x2 := b.conf1&Conf1Dither2x2 != 0
	textureEnable := b.conf1&Conf1TextureEnable != 0
	chromaKeyEnable := b.conf1&Conf1ChromaKey != 0
	alphaTestEnable := b.conf2&Conf2AlphaTestEnable != 0
	alphaBlendEnable := b.conf2&Conf2AlphaBlendEnable != 0

	minX, minY := rt.MinX, rt.MinY
	maxX, maxY := rt.MaxX, rt.MaxY
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if int(maxX) >= fb.Width {
		maxX = int32(fb.Width) - 1
	}
	if int(maxY) >= fb.Height {
		maxY = int32(fb.Height) - 1
	}

	for y := minY; y <= maxY; y++ {
		rowBase := int(y) * fb.Width
		for x := minX; x <= maxX; x++ {
			if !rt.Inside(x, y) {
				continue
			}

			invW := rt.InvW.Eval(x, y)
			if invW == 0 {
				continue
			}
			w := 1 / invW
			z := rt.Z.Eval(x, y)

			pixelIndex := rowBase + int(x)
			if depthEnable && !depthTest(z, fb.Depth[pixelIndex], depthFunc(b.conf1)) {
				continue
			}

			r := rt.Color[0].Eval(x, y) * w
			g := rt.Color[1].Eval(x, y) * w
			bl := rt.Color[2].Eval(x, y) * w
			a := rt.Color[3].Eval(x, y) * w

			if textureEnable && b.tex != nil {
				s := rt.S.Eval(x, y) * w
				t := rt.T.Eval(x, y) * w
				tr, tg, tb, ta := b.tex.Sample(s, t, false, false)
				r, g, bl, a = r*tr, g*tg, bl*tb, a*ta
			}

			r, g, bl, a = clampf(r, 0, 1), clampf(g, 0, 1), clampf(bl, 0, 1), clampf(a, 0, 1)

			if alphaTestEnable && !alphaTest(a, alphaRef(b.conf2), alphaFunc(b.conf2)) {
				continue
			}
			if chromaKeyEnable && matchesChromaKey(r, g, bl, b.texEnvColor) {
				continue
			}

			if ditherEnable {
				threshold := ditherThreshold(int(x), int(y), dither2x2)
				r = applyDither(r, threshold)
				g = applyDither(g, threshold)
				bl = applyDither(bl, threshold)
			}

			if rgbWrite {
				bufIdx := pixelIndex * 4
				if alphaBlendEnable {
					const inv255 = float32(1.0 / 255.0)
					dstR := float32(fb.Color[bufIdx+0]) * inv255
					dstG := float32(fb.Color[bufIdx+1]) * inv255
					dstB := float32(fb.Color[bufIdx+2]) * inv255
					dstA := float32(fb.Color[bufIdx+3]) * inv255

					sf := blendFactor(srcBlend(b.conf2), a, dstA)
					df := blendFactor(dstBlend(b.conf2), a, dstA)

					r = clampf(r*sf+dstR*df, 0, 1)
					g = clampf(g*sf+dstG*df, 0, 1)
					bl = clampf(bl*sf+dstB*df, 0, 1)
					a = clampf(a*sf+dstA*df, 0, 1)
				}
				fb.Color[bufIdx+0] = byte(r * 255)
				fb.Color[bufIdx+1] = byte(g * 255)
				fb.Color[bufIdx+2] = byte(bl * 255)
				fb.Color[bufIdx+3] = byte(a * 255)
			}

			if depthEnable && depthWrite {
				fb.Depth[pixelIndex] = z
			}
		}
	}
	return true
}

func matchesChromaKey(r, g, bl float32, keyRGB uint32) bool {
	const inv255 = float32(1.0 / 255.0)
	keyR := float32(keyRGB&0xFF) * inv255
	keyG := float32((keyRGB>>8)&0xFF) * inv255
	keyB := float32((keyRGB>>16)&0xFF) * inv255
	const tol = inv255
	return abs32(r-keyR) <= tol && abs32(g-keyG) <= tol && abs32(bl-keyB) <= tol
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
