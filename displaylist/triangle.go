package displaylist

import (
	"github.com/rasterix-go/rasterix/protocol"
	"github.com/rasterix-go/rasterix/raster"
)

// triangleRecordWords is the number of 32-bit words a packed
// RasterizedTriangle occupies: a 4-word bounding box, three 3-word edge
// functions and seven 3-word attribute planes (1/w, s, t, z, and four
// color channels).
const triangleRecordWords = 4 + 3*3 + 7*3

// packTriangle packs a RasterizedTriangle into its wire layout: the
// hardware command format is the contract, not this program's in-memory
// struct layout, so every field is written explicitly in a fixed order
// rather than relying on unsafe reinterpretation of raster.RasterizedTriangle.
func packTriangle(rt raster.RasterizedTriangle) []byte {
	buf := make([]byte, triangleRecordWords*4)
	w := 0
	put := func(v int32) {
		protocol.PutWord(buf, w*4, uint32(v))
		w++
	}
	putPlane := func(p raster.AttributePlane) {
		put(p.DX)
		put(p.DY)
		put(p.Origin)
	}

	put(rt.MinX)
	put(rt.MinY)
	put(rt.MaxX)
	put(rt.MaxY)

	for _, e := range rt.Edge {
		put(e.A)
		put(e.B)
		put(e.C)
	}

	putPlane(rt.InvW)
	putPlane(rt.S)
	putPlane(rt.T)
	putPlane(rt.Z)
	for _, c := range rt.Color {
		putPlane(c)
	}

	return buf
}

// UnpackTriangle reverses packTriangle's layout. It is exported for
// consumers on the other side of the wire — a software rasterizer or a
// test harness decoding a TRIANGLE_STREAM payload — that have no other way
// to recover a RasterizedTriangle from the bytes the accelerator actually
// receives.
func UnpackTriangle(buf []byte) raster.RasterizedTriangle {
	w := 0
	get := func() int32 {
		v := int32(protocol.GetWord(buf, w*4))
		w++
		return v
	}
	getPlane := func() raster.AttributePlane {
		return raster.AttributePlane{DX: get(), DY: get(), Origin: get()}
	}

	var rt raster.RasterizedTriangle
	rt.MinX = get()
	rt.MinY = get()
	rt.MaxX = get()
	rt.MaxY = get()

	for i := range rt.Edge {
		rt.Edge[i] = raster.EdgeFunction{A: get(), B: get(), C: get()}
	}

	rt.InvW = getPlane()
	rt.S = getPlane()
	rt.T = getPlane()
	rt.Z = getPlane()
	for i := range rt.Color {
		rt.Color[i] = getPlane()
	}

	return rt
}
