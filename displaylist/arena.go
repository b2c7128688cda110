// Package displaylist implements the display list: a fixed-capacity byte
// arena with stable allocation indices, and the assembler that packs
// commands into it following the stream-section protocol.
//
// The source this is modeled on uses raw pointers returned from a bump
// allocator, including rewriting a stream-section header word
// retrospectively through a held pointer. Here allocation returns a
// stable index into the arena instead of a pointer: the assembler holds
// the index of the currently-open section header and patches it by index
// on close, which removes any pointer-aliasing concern entirely.
package displaylist

import (
	"unsafe"

	"github.com/rasterix-go/rasterix/protocol"
)

// Arena is a fixed-capacity byte buffer with a bump-allocation cursor.
// Every allocation is rounded up to protocol.Alignment bytes, so the
// cursor is always alignment-aligned after any successful call.
type Arena struct {
	buf        []byte
	size       int
	allocSizes []int // stack of aligned sizes, most recent last, for Remove
}

// NewArena creates an arena with the given byte capacity.
func NewArena(capacity int) *Arena {
	return &Arena{buf: make([]byte, capacity)}
}

// Alloc reserves n bytes (rounded up to protocol.Alignment) and returns the
// index the caller may write through. ok is false if the arena lacks the
// capacity; in that case no state changes.
func (a *Arena) Alloc(n int) (idx int, ok bool) {
	aligned := protocol.AlignUp(n)
	if a.size+aligned > len(a.buf) {
		return 0, false
	}
	idx = a.size
	for i := idx; i < idx+aligned; i++ {
		a.buf[i] = 0
	}
	a.size += aligned
	a.allocSizes = append(a.allocSizes, aligned)
	return idx, true
}

// Remove retracts the most recent allocation, for rollback after a failed
// operation. It reports false if there is nothing to remove.
func (a *Arena) Remove() bool {
	n := len(a.allocSizes)
	if n == 0 {
		return false
	}
	last := a.allocSizes[n-1]
	a.allocSizes = a.allocSizes[:n-1]
	a.size -= last
	return true
}

// Create allocates a slot sized to T and returns its index. The slot's
// bytes are zeroed; callers still write through explicit, endian-aware
// packing (see displaylist.packTriangle) rather than through T directly —
// this only reserves space with T's size and alignment in mind.
func Create[T any](a *Arena) (idx int, ok bool) {
	var zero T
	return a.Alloc(int(unsafe.Sizeof(zero)))
}

// Remove pops the allocation made by the most recent Create[T] (or any
// other Alloc). T is only used to document intent at the call site; the
// arena tracks sizes itself so T need not match the original allocation's
// type, only its call having been the most recent one outstanding.
func Remove[T any](a *Arena) bool {
	return a.Remove()
}

// Size returns the current logical size of the arena in bytes.
func (a *Arena) Size() int { return a.size }

// Clear resets the arena to empty without reallocating its backing buffer.
func (a *Arena) Clear() {
	a.size = 0
	a.allocSizes = a.allocSizes[:0]
}

// Bytes returns the arena's contents up to its current size. The returned
// slice aliases the arena's backing storage; callers that hand it to a bus
// adapter must not retain it past the next Clear.
func (a *Arena) Bytes() []byte { return a.buf[:a.size] }

// WriteWord writes a little-endian 32-bit word at idx.
func (a *Arena) WriteWord(idx int, word uint32) {
	protocol.PutWord(a.buf, idx, word)
}

// ReadWord reads a little-endian 32-bit word at idx.
func (a *Arena) ReadWord(idx int) uint32 {
	return protocol.GetWord(a.buf, idx)
}

// WriteBytes copies data into the arena starting at idx.
func (a *Arena) WriteBytes(idx int, data []byte) {
	copy(a.buf[idx:idx+len(data)], data)
}
