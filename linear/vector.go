// Package linear implements the math primitives the vertex pipeline runs on:
// 2/3/4-component float32 vectors and a row-major 4x4 matrix.
package linear

import "github.com/chewxy/math32"

// normalizeEpsilon is the minimum length below which Normalize leaves a
// vector unchanged instead of dividing by (near) zero.
const normalizeEpsilon = 1e-6

// Vec2 is a 2-component vector of float32, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Lerp returns v + (w-v)*t.
func (v Vec2) Lerp(w Vec2, t float32) Vec2 {
	return Vec2{v.X + (w.X-v.X)*t, v.Y + (w.Y-v.Y)*t}
}

// Vec3 is a 3-component vector of float32, used for normals and positions
// that do not need a homogeneous coordinate.
type Vec3 struct {
	X, Y, Z float32
}

func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(w Vec3) float32 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

func (v Vec3) Len() float32 { return math32.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. If the length is below
// normalizeEpsilon, v is returned unchanged (direction is ill-defined).
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < normalizeEpsilon {
		return v
	}
	return v.Scale(1 / l)
}

// Reflect returns v reflected about normal n (n assumed unit length).
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

func (v Vec3) Lerp(w Vec3, t float32) Vec3 {
	return Vec3{v.X + (w.X-v.X)*t, v.Y + (w.Y-v.Y)*t, v.Z + (w.Z-v.Z)*t}
}

// Vec4 is a 4-component vector of float32: clip-space position (x,y,z,w) or
// an RGBA color.
type Vec4 struct {
	X, Y, Z, W float32
}

func (v Vec4) Add(w Vec4) Vec4 {
	return Vec4{v.X + w.X, v.Y + w.Y, v.Z + w.Z, v.W + w.W}
}

func (v Vec4) Sub(w Vec4) Vec4 {
	return Vec4{v.X - w.X, v.Y - w.Y, v.Z - w.Z, v.W - w.W}
}

func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

func (v Vec4) Dot(w Vec4) float32 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z + v.W*w.W
}

func (v Vec4) Len() float32 { return math32.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length, direction preserved when the
// length is below normalizeEpsilon (documented, not a crash).
func (v Vec4) Normalize() Vec4 {
	l := v.Len()
	if l < normalizeEpsilon {
		return v
	}
	return v.Scale(1 / l)
}

// Vec3 drops the w component.
func (v Vec4) Vec3() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// PerspectiveDivide returns (x/w, y/w, z/w, 1/w). w==0 is the caller's
// responsibility to avoid; it is not special-cased here (it never occurs
// for a vertex inside the clipped frustum, where |w|>0 is an invariant of
// the clip planes).
func (v Vec4) PerspectiveDivide() Vec4 {
	invW := 1 / v.W
	return Vec4{v.X * invW, v.Y * invW, v.Z * invW, invW}
}

func (v Vec4) Lerp(w Vec4, t float32) Vec4 {
	return Vec4{
		v.X + (w.X-v.X)*t,
		v.Y + (w.Y-v.Y)*t,
		v.Z + (w.Z-v.Z)*t,
		v.W + (w.W-v.W)*t,
	}
}
