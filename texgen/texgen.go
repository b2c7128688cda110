// Package texgen computes generated texture coordinates for the s, t, r
// and q channels, independently selectable between several modes or
// pass-through of the application-supplied coordinate.
//
// Like light, this has no direct corpus implementation; it follows the
// documented per-channel generation modes in the same small-struct,
// method-driven style as the rest of the vertex-stage packages.
package texgen

import (
	"github.com/chewxy/math32"

	"github.com/rasterix-go/rasterix/linear"
)

// Mode selects how one texture coordinate channel is generated.
type Mode int

const (
	// ModeDisabled passes the application-supplied coordinate through
	// unchanged.
	ModeDisabled Mode = iota
	ModeObjectLinear
	ModeEyeLinear
	ModeSphereMap
	ModeReflectionMap
	ModeNormalMap
)

// Channel configures generation for one of s, t, r, q.
type Channel struct {
	Mode Mode

	// ObjectPlane and EyePlane are the four-component plane equations used
	// by ModeObjectLinear (against the object-space vertex) and
	// ModeEyeLinear (against the eye-space vertex) respectively.
	ObjectPlane, EyePlane linear.Vec4
}

// Generator holds the four independently configured channels.
type Generator struct {
	S, T, R, Q Channel
}

// Input bundles the per-vertex values texture generation reads.
type Input struct {
	ObjectPos linear.Vec4
	EyePos    linear.Vec3
	EyeNormal linear.Vec3
	AppCoord  linear.Vec4 // application-supplied (s, t, r, q)
}

// Generate returns the (s, t, r, q) coordinate for in, evaluating each
// channel independently per its configured mode. Reflection-map and
// normal-map modes read their own axis of the reflection/normal vector
// (s=X, t=Y, r=Z); sphere-map likewise supplies a distinct value per
// axis. None of the three vector-derived modes have a natural fourth
// component, so q falls back to the application-supplied coordinate
// regardless of its configured mode, matching how real fixed-function
// hardware leaves q undefined for these modes.
func (g Generator) Generate(in Input) linear.Vec4 {
	reflection := reflectionVector(in.EyePos, in.EyeNormal)
	sphereS, sphereT, sphereR := sphereMapSTR(in.EyePos, in.EyeNormal)

	return linear.Vec4{
		X: g.S.eval(in, reflection.X, in.EyeNormal.X, sphereS, in.AppCoord.X),
		Y: g.T.eval(in, reflection.Y, in.EyeNormal.Y, sphereT, in.AppCoord.Y),
		Z: g.R.eval(in, reflection.Z, in.EyeNormal.Z, sphereR, in.AppCoord.Z),
		W: g.Q.eval(in, in.AppCoord.W, in.AppCoord.W, in.AppCoord.W, in.AppCoord.W),
	}
}

func (c Channel) eval(in Input, reflectionComponent, normalComponent, sphereComponent, appComponent float32) float32 {
	switch c.Mode {
	case ModeObjectLinear:
		return c.ObjectPlane.Dot(in.ObjectPos)
	case ModeEyeLinear:
		return c.EyePlane.Dot(linear.Vec4{X: in.EyePos.X, Y: in.EyePos.Y, Z: in.EyePos.Z, W: 1})
	case ModeSphereMap:
		return sphereComponent
	case ModeReflectionMap:
		return reflectionComponent
	case ModeNormalMap:
		return normalComponent
	default:
		return appComponent
	}
}

func reflectionVector(eyePos, eyeNormal linear.Vec3) linear.Vec3 {
	n := eyeNormal.Normalize()
	viewDir := eyePos.Normalize()
	return viewDir.Reflect(n)
}

// sphereMapSTR computes the classic sphere-map (s, t) pair from the
// eye-space reflection vector, plus an r value generalized from the same
// formula for symmetry with reflection-map/normal-map's per-axis reads.
func sphereMapSTR(eyePos, eyeNormal linear.Vec3) (s, t, r float32) {
	rv := reflectionVector(eyePos, eyeNormal)
	m := float32(2) * math32.Sqrt(rv.X*rv.X+rv.Y*rv.Y+(rv.Z+1)*(rv.Z+1))
	if m < 1e-6 {
		return 0.5, 0.5, 0.5
	}
	return rv.X/m + 0.5, rv.Y/m + 0.5, rv.Z/m + 0.5
}
