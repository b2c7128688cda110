// Package raster performs triangle setup: given three viewport-space
// vertices it computes the screen bounding box, sign-normalized edge
// functions and per-attribute interpolation planes that the rasterizer
// consumes directly, all in fixed point.
//
// The bounding-box and edge-function construction follow the min/max and
// edgeFunction helpers a software triangle rasterizer implements for
// per-pixel barycentric tests; this package generalizes that float32 logic
// into the fixed-point wire format the hardware rasterizer actually reads.
package raster

import (
	"github.com/rasterix-go/rasterix/fixed"
	"github.com/rasterix-go/rasterix/linear"
)

// degenerateEpsilon is the minimum signed area (in viewport pixels²) a
// triangle must have to be set up; smaller triangles are skipped rather
// than packed with a near-singular edge function.
const degenerateEpsilon = 1e-6

// Vertex is one viewport-space vertex, post perspective-divide: X, Y in
// pixels, Z in [0, depth range], InvW is the reciprocal of clip-space w.
type Vertex struct {
	X, Y, Z, InvW float32
	S, T          float32
	Color         linear.Vec4
}

// EdgeFunction is a_i*x + b_i*y + c_i in Q16_16, normalized so that the
// function is >= 0 inside the triangle.
type EdgeFunction struct {
	A, B, C int32
}

func (e EdgeFunction) eval(x, y int32) int64 {
	return int64(e.A)*int64(x) + int64(e.B)*int64(y) + int64(e.C)
}

// Eval samples the plane's DX*x + DY*y + Origin at pixel (x, y), decoding
// the Q16_16 result back to float32. Used by a consumer that has to turn
// the packed planes back into per-pixel attribute values, since the
// accelerator itself never does this math in Go.
func (p AttributePlane) Eval(x, y int32) float32 {
	raw := int64(p.DX)*int64(x) + int64(p.DY)*int64(y) + int64(p.Origin)
	return fixed.Q16_16.ToFloat(clampToInt32(raw))
}

func clampToInt32(v int64) int32 {
	const maxI32 = int64(1)<<31 - 1
	const minI32 = -(int64(1) << 31)
	if v > maxI32 {
		return int32(maxI32)
	}
	if v < minI32 {
		return int32(minI32)
	}
	return int32(v)
}

// AttributePlane expresses a per-pixel-interpolated value as its gradient
// plus the value at the screen origin, all in Q16_16.
type AttributePlane struct {
	DX, DY, Origin int32
}

// RasterizedTriangle is the fixed-point record the display list packs into
// a TRIANGLE_STREAM command.
type RasterizedTriangle struct {
	MinX, MinY, MaxX, MaxY int32

	Edge [3]EdgeFunction

	InvW  AttributePlane
	S     AttributePlane
	T     AttributePlane
	Z     AttributePlane
	Color [4]AttributePlane // R, G, B, A, each premultiplied by invW
}

func edgeFunction2D(ax, ay, bx, by, cx, cy float32) float32 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

// plane fits a*x + b*y + c to three samples (x_i, y_i, value_i) at the
// triangle's vertices, via Cramer's rule over the 2D affine system. area2
// is twice the triangle's signed area (the edgeFunction2D of its three
// vertices), precomputed once per triangle and shared across every
// attribute to avoid re-deriving it per plane.
func planeFit(v0, v1, v2 Vertex, val0, val1, val2, invArea2 float32) (a, b, c float32) {
	a = ((val1-val0)*(v2.Y-v0.Y) - (val2-val0)*(v1.Y-v0.Y)) * invArea2
	b = ((val2-val0)*(v1.X-v0.X) - (val1-val0)*(v2.X-v0.X)) * invArea2
	c = val0 - a*v0.X - b*v0.Y
	return
}

func toAttributePlane(a, b, c float32) AttributePlane {
	return AttributePlane{
		DX:     fixed.Q16_16.FromFloat(a),
		DY:     fixed.Q16_16.FromFloat(b),
		Origin: fixed.Q16_16.FromFloat(c),
	}
}

// ScissorRect bounds the screen-space box a triangle's setup is clamped to.
type ScissorRect struct {
	MinX, MinY, MaxX, MaxY int32
}

// Setup computes the RasterizedTriangle for (v0, v1, v2), clamped to
// scissor. ok is false when the triangle is degenerate (near-zero area)
// and should be skipped rather than emitted.
func Setup(v0, v1, v2 Vertex, scissor ScissorRect, frontFaceCCW bool) (RasterizedTriangle, bool) {
	area2 := edgeFunction2D(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y)
	if area2 > -degenerateEpsilon && area2 < degenerateEpsilon {
		return RasterizedTriangle{}, false
	}

	// Normalize winding so the edge functions below are >=0 inside the
	// triangle regardless of the input's orientation; frontFaceCCW only
	// affects cull decisions made earlier in the pipeline, not this sign.
	if (area2 > 0) != frontFaceCCW {
		v1, v2 = v2, v1
		area2 = -area2
	}

	var rt RasterizedTriangle
	rt.Edge[0] = EdgeFunction{
		A: fixed.Q16_16.FromFloat(v1.Y - v2.Y),
		B: fixed.Q16_16.FromFloat(v2.X - v1.X),
		C: fixed.Q16_16.FromFloat(v1.X*v2.Y - v2.X*v1.Y),
	}
	rt.Edge[1] = EdgeFunction{
		A: fixed.Q16_16.FromFloat(v2.Y - v0.Y),
		B: fixed.Q16_16.FromFloat(v0.X - v2.X),
		C: fixed.Q16_16.FromFloat(v2.X*v0.Y - v0.X*v2.Y),
	}
	rt.Edge[2] = EdgeFunction{
		A: fixed.Q16_16.FromFloat(v0.Y - v1.Y),
		B: fixed.Q16_16.FromFloat(v1.X - v0.X),
		C: fixed.Q16_16.FromFloat(v0.X*v1.Y - v1.X*v0.Y),
	}

	minXf, maxXf := min3(v0.X, v1.X, v2.X), max3(v0.X, v1.X, v2.X)
	minYf, maxYf := min3(v0.Y, v1.Y, v2.Y), max3(v0.Y, v1.Y, v2.Y)

	// ScissorRect's Max fields are inclusive pixel indices (the last
	// covered pixel), matching a viewport (0,0,W,H) covering indices
	// [0, W-1]; ceilf below rounds the triangle's own max coordinate up
	// to the same inclusive convention.
	rt.MinX = clampI32(int32(minXf), scissor.MinX, scissor.MaxX)
	rt.MaxX = clampI32(ceilf(maxXf), scissor.MinX, scissor.MaxX)
	rt.MinY = clampI32(int32(minYf), scissor.MinY, scissor.MaxY)
	rt.MaxY = clampI32(ceilf(maxYf), scissor.MinY, scissor.MaxY)

	invArea2 := 1 / area2

	fitPlane := func(val0, val1, val2 float32) AttributePlane {
		a, b, c := planeFit(v0, v1, v2, val0, val1, val2, invArea2)
		return toAttributePlane(a, b, c)
	}

	rt.InvW = fitPlane(v0.InvW, v1.InvW, v2.InvW)
	rt.S = fitPlane(v0.S*v0.InvW, v1.S*v1.InvW, v2.S*v2.InvW)
	rt.T = fitPlane(v0.T*v0.InvW, v1.T*v1.InvW, v2.T*v2.InvW)
	rt.Z = fitPlane(v0.Z, v1.Z, v2.Z)

	rt.Color[0] = fitPlane(v0.Color.X*v0.InvW, v1.Color.X*v1.InvW, v2.Color.X*v2.InvW)
	rt.Color[1] = fitPlane(v0.Color.Y*v0.InvW, v1.Color.Y*v1.InvW, v2.Color.Y*v2.InvW)
	rt.Color[2] = fitPlane(v0.Color.Z*v0.InvW, v1.Color.Z*v1.InvW, v2.Color.Z*v2.InvW)
	rt.Color[3] = fitPlane(v0.Color.W*v0.InvW, v1.Color.W*v1.InvW, v2.Color.W*v2.InvW)

	return rt, true
}

// Inside reports whether pixel (x, y) is covered by the triangle under the
// standard top-left fill rule approximation: all three edge functions
// non-negative.
func (rt RasterizedTriangle) Inside(x, y int32) bool {
	for _, e := range rt.Edge {
		if e.eval(x, y) < 0 {
			return false
		}
	}
	return true
}

func ceilf(f float32) int32 {
	i := int32(f)
	if float32(i) < f {
		i++
	}
	return i
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
