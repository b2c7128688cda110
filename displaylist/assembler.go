package displaylist

import (
	"github.com/rasterix-go/rasterix/protocol"
	"github.com/rasterix-go/rasterix/raster"
)

// Assembler formats vertex-pipeline output into the command stream
// protocol, managing stream sections, alignment and texture-load dedup.
// It never throws past an operation boundary: every public method either
// completes in full or rolls back cleanly, leaving the arena exactly as it
// was before the call.
type Assembler struct {
	arena *Arena

	sectionOpen      bool
	sectionHeaderIdx int

	// canDedup and pendingTextureIdx track the "last command was
	// useTexture, and nothing has appended since" state: the next
	// useTexture call rewrites the three words at pendingTextureIdx in
	// place instead of appending a fresh triple.
	canDedup         bool
	pendingTextureIdx int
}

// NewAssembler creates an assembler backed by a fresh arena of the given
// byte capacity.
func NewAssembler(capacity int) *Assembler {
	return &Assembler{arena: NewArena(capacity)}
}

// ClearAssembler discards all state, including the arena's contents. It is
// idempotent.
func (a *Assembler) ClearAssembler() {
	a.arena.Clear()
	a.sectionOpen = false
	a.sectionHeaderIdx = 0
	a.canDedup = false
	a.pendingTextureIdx = 0
}

// Size returns the current display-list size in bytes.
func (a *Assembler) Size() int { return a.arena.Size() }

// Bytes returns the finished display list. The caller must treat it as
// read-only and must not retain it past the next ClearAssembler.
func (a *Assembler) Bytes() []byte { return a.arena.Bytes() }

func (a *Assembler) openSection() bool {
	if a.sectionOpen {
		return true
	}
	idx, ok := a.arena.Alloc(4)
	if !ok {
		return false
	}
	// The header word temporarily holds the list size at the start of the
	// section body, so closeSection can recover the body length as
	// currentSize - thisValue without a separate field.
	a.arena.WriteWord(idx, uint32(a.arena.Size()))
	a.sectionHeaderIdx = idx
	a.sectionOpen = true
	return true
}

func (a *Assembler) rollbackSection() {
	if !a.sectionOpen {
		return
	}
	a.arena.Remove()
	a.sectionOpen = false
}

func (a *Assembler) closeSection() {
	if !a.sectionOpen {
		return
	}
	bodyStart := a.arena.ReadWord(a.sectionHeaderIdx)
	bodySize := uint32(a.arena.Size()) - bodyStart
	a.arena.WriteWord(a.sectionHeaderIdx, protocol.EncodeWord(protocol.OpStream, bodySize))
	a.sectionOpen = false
}

// withOpenSection opens a section if one isn't already open, runs fn, and
// on failure rolls back the section it opened (a section already open
// before the call is left for the caller's enclosing operation to manage).
func (a *Assembler) withOpenSection(fn func() bool) bool {
	wasOpen := a.sectionOpen
	if !wasOpen && !a.openSection() {
		return false
	}
	if fn() {
		return true
	}
	if !wasOpen {
		a.rollbackSection()
	}
	return false
}

// DrawTriangle appends a packed RasterizedTriangle as a TRIANGLE_STREAM
// command, opening a section if needed. It clears the texture-dedup state.
func (a *Assembler) DrawTriangle(t raster.RasterizedTriangle) bool {
	return a.withOpenSection(func() bool {
		payload := packTriangle(t)
		cmdIdx, ok := a.arena.Alloc(4)
		if !ok {
			return false
		}
		payloadIdx, ok := a.arena.Alloc(len(payload))
		if !ok {
			a.arena.Remove()
			return false
		}
		a.arena.WriteWord(cmdIdx, protocol.EncodeWord(protocol.OpTriangleStream, uint32(len(payload))))
		a.arena.WriteBytes(payloadIdx, payload)
		a.canDedup = false
		return true
	})
}

// Clear appends a framebuffer clear command for the requested buffers, or
// NOP if neither is requested.
func (a *Assembler) Clear(color, depth bool) bool {
	return a.withOpenSection(func() bool {
		var word uint32
		if !color && !depth {
			word = protocol.EncodeWord(protocol.OpNOP, 0)
		} else {
			imm := protocol.FBBitMemset
			if color {
				imm |= protocol.FBBitColor
			}
			if depth {
				imm |= protocol.FBBitDepth
			}
			word = protocol.EncodeWord(protocol.OpFramebufferOp, imm)
		}
		idx, ok := a.arena.Alloc(4)
		if !ok {
			return false
		}
		a.arena.WriteWord(idx, word)
		return true
	})
}

// Commit appends a FRAMEBUFFER_OP | COMMIT | COLOR command and closes the
// section — this is what triggers the accelerator to scan out.
func (a *Assembler) Commit() bool {
	ok := a.withOpenSection(func() bool {
		idx, ok := a.arena.Alloc(4)
		if !ok {
			return false
		}
		a.arena.WriteWord(idx, protocol.EncodeWord(protocol.OpFramebufferOp, protocol.FBBitCommit|protocol.FBBitColor))
		return true
	})
	if ok {
		a.closeSection()
	}
	return ok
}

// WriteRegister appends a SET_REG command with a single payload word.
func (a *Assembler) WriteRegister(index, value uint32) bool {
	return a.withOpenSection(func() bool {
		cmdIdx, ok := a.arena.Alloc(4)
		if !ok {
			return false
		}
		valIdx, ok := a.arena.Alloc(4)
		if !ok {
			a.arena.Remove()
			return false
		}
		a.arena.WriteWord(cmdIdx, protocol.EncodeWord(protocol.OpSetReg, index))
		a.arena.WriteWord(valIdx, value)
		return true
	})
}

// UseTexture closes the current section and emits a texture binding:
// TEXTURE_STREAM_{WxH}, then LOAD | size, then the source address. If the
// immediately preceding operation was also UseTexture with no intervening
// DrawTriangle, the previous binding is overwritten in place instead of
// appended, since it was never consumed by a triangle.
func (a *Assembler) UseTexture(addr, size uint32, width, height int) bool {
	a.closeSection()

	if a.canDedup {
		a.arena.WriteWord(a.pendingTextureIdx, protocol.EncodeWord(protocol.OpTextureStream, protocol.TextureStreamCode(width)))
		a.arena.WriteWord(a.pendingTextureIdx+8, protocol.EncodeWord(protocol.OpLoad, size))
		a.arena.WriteWord(a.pendingTextureIdx+16, addr)
		return true
	}

	idx1, ok := a.arena.Alloc(4)
	if !ok {
		return false
	}
	idx2, ok := a.arena.Alloc(4)
	if !ok {
		a.arena.Remove()
		return false
	}
	idx3, ok := a.arena.Alloc(4)
	if !ok {
		a.arena.Remove()
		a.arena.Remove()
		return false
	}

	a.arena.WriteWord(idx1, protocol.EncodeWord(protocol.OpTextureStream, protocol.TextureStreamCode(width)))
	a.arena.WriteWord(idx2, protocol.EncodeWord(protocol.OpLoad, size))
	a.arena.WriteWord(idx3, addr)

	a.pendingTextureIdx = idx1
	a.canDedup = true
	return true
}

// UpdateTexture closes the current section and emits a STORE command
// copying pixels into the display list: STORE | size, the target address,
// then the pixel bytes themselves.
func (a *Assembler) UpdateTexture(addr uint32, pixels []byte) bool {
	a.closeSection()

	size := len(pixels)
	idx1, ok := a.arena.Alloc(4)
	if !ok {
		return false
	}
	idx2, ok := a.arena.Alloc(4)
	if !ok {
		a.arena.Remove()
		return false
	}
	idx3, ok := a.arena.Alloc(size)
	if !ok {
		a.arena.Remove()
		a.arena.Remove()
		return false
	}

	a.arena.WriteWord(idx1, protocol.EncodeWord(protocol.OpStore, uint32(size)))
	a.arena.WriteWord(idx2, addr)
	a.arena.WriteBytes(idx3, pixels)

	return true
}
