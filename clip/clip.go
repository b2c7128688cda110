// Package clip implements homogeneous-space Sutherland-Hodgman clipping of
// a triangle against the six canonical clip planes, producing a convex fan
// with interpolated per-vertex attributes.
//
// There is no direct corpus source for the clip routine itself (the
// original project's Clipper implementation was not part of the retrieved
// sources, only its call-site contract); this package is built from the
// documented algorithm, in the same data-oriented, no-allocation style the
// rest of the vertex pipeline uses.
package clip

import "github.com/rasterix-go/rasterix/linear"

// MaxVertices bounds the fan a single triangle can clip into: each of the
// six planes can add at most one vertex to the running polygon, so three
// input vertices plus six plane crossings caps comfortably below 12.
const MaxVertices = 12

// Vertex is one clip-space vertex with the attributes the pipeline
// interpolates alongside position.
type Vertex struct {
	Pos   linear.Vec4
	Color linear.Vec4
	ST    linear.Vec4 // texture coordinates (s, t, r, q)
}

func lerpVertex(a, b Vertex, t float32, flatColor bool) Vertex {
	out := Vertex{
		Pos: a.Pos.Lerp(b.Pos, t),
		ST:  a.ST.Lerp(b.ST, t),
	}
	if flatColor {
		out.Color = a.Color
	} else {
		out.Color = a.Color.Lerp(b.Color, t)
	}
	return out
}

// plane is one of the six canonical clip-space half-spaces, expressed as
// the signed distance of a vertex from the plane: dist >= 0 means inside.
type plane func(v linear.Vec4) float32

// planes lists the six canonical clip planes in a fixed order: w+x, w-x,
// w+y, w-y, w+z, w-z >= 0, i.e. -w <= x,y,z <= w.
var planes = [6]plane{
	func(v linear.Vec4) float32 { return v.W + v.X },
	func(v linear.Vec4) float32 { return v.W - v.X },
	func(v linear.Vec4) float32 { return v.W + v.Y },
	func(v linear.Vec4) float32 { return v.W - v.Y },
	func(v linear.Vec4) float32 { return v.W + v.Z },
	func(v linear.Vec4) float32 { return v.W - v.Z },
}

// Clipper holds the double-buffered vertex lists a clip pass alternates
// between, so repeated calls to Clip allocate nothing.
type Clipper struct {
	bufA [MaxVertices]Vertex
	bufB [MaxVertices]Vertex

	// FlatColor, when true, carries the first vertex's color through every
	// interpolated vertex instead of interpolating it — matching a
	// flat-shading rasterizer that only ever reads one corner's color per
	// triangle. Kept as a field rather than a package constant so callers
	// can match whatever shading mode is active.
	FlatColor bool
}

// Clip clips triangle (v0, v1, v2) against all six canonical planes and
// returns the resulting convex fan as a slice backed by the Clipper's
// internal buffers (valid until the next call to Clip).
//
// The returned count k is either 0 (the triangle was entirely clipped
// away) or in [3, MaxVertices] — never 1 or 2, since a convex polygon with
// at least one vertex inside the frustum always closes with at least a
// triangle.
func (c *Clipper) Clip(v0, v1, v2 Vertex) []Vertex {
	cur := c.bufA[:0]
	cur = append(cur, v0, v1, v2)

	useA := true
	for _, pl := range planes {
		var out []Vertex
		if useA {
			out = c.bufB[:0]
		} else {
			out = c.bufA[:0]
		}

		n := len(cur)
		if n == 0 {
			return cur
		}
		for i := 0; i < n; i++ {
			a := cur[i]
			b := cur[(i+1)%n]
			distA := pl(a.Pos)
			distB := pl(b.Pos)

			if distA >= 0 {
				out = append(out, a)
			}
			if (distA >= 0) != (distB >= 0) {
				t := distA / (distA - distB)
				out = append(out, lerpVertex(a, b, t, c.FlatColor))
			}
		}

		cur = out
		useA = !useA
	}

	if len(cur) < 3 {
		return cur[:0]
	}
	return cur
}
