// Package light implements the fixed-function, per-vertex lighting model:
// up to eight light slots, each independently directional, positional or
// spot, combined with a single material's ambient/diffuse/specular/emissive
// channels.
//
// There is no direct corpus implementation for this exact model; it is
// built from the documented per-vertex lighting equations, expressed in
// the same plain-struct, method-per-light style the rest of the pipeline
// packages use.
package light

import (
	"github.com/chewxy/math32"
	"github.com/rasterix-go/rasterix/linear"
)

// MaxLights is the number of independently configurable light slots.
const MaxLights = 8

// Kind selects how a Light's position/direction field is interpreted.
type Kind int

const (
	KindDirectional Kind = iota
	KindPositional
	KindSpot
)

// Light is one of the eight fixed light slots.
type Light struct {
	Enabled bool
	Kind    Kind

	// Position is the eye-space light position (for Positional/Spot) or
	// the eye-space direction the light shines from (for Directional,
	// where only the direction matters and w is ignored).
	Position linear.Vec3

	Ambient, Diffuse, Specular linear.Vec4

	// Attenuation: 1 / (Constant + Linear*d + Quadratic*d^2). Directional
	// lights ignore these.
	Constant, Linear, Quadratic float32

	// Spot-only.
	SpotDirection linear.Vec3
	SpotCutoffCos float32 // cos of the half-angle; dot(L,-spotDir) below this is unlit
	SpotExponent  float32
}

// Material holds the four reflectance channels a lit vertex is modulated
// by.
type Material struct {
	Ambient, Diffuse, Specular, Emissive linear.Vec4
	Shininess                            float32
}

// Model bundles the global lighting state: the light array, a single
// material (fixed-function GL has one current material, not per-object),
// global ambient, and the specular computation flag.
type Model struct {
	Lights       [MaxLights]Light
	Material     Material
	GlobalAmbient linear.Vec4

	// UseBlinnSpecular selects the half-vector (Blinn-Phong) specular term
	// instead of the reflection-vector (Phong) term.
	UseBlinnSpecular bool

	// ColorMaterialEnabled, when true, makes the per-vertex color replace
	// Material.Diffuse (and Material.Ambient, tracking both channels
	// together, the common GL_AMBIENT_AND_DIFFUSE mode) for each vertex lit.
	ColorMaterialEnabled bool
}

// Vertex is the subset of per-vertex state the lighting equation reads:
// eye-space position and normal, plus the incoming vertex color used when
// color-material tracking is enabled.
type Vertex struct {
	EyePos linear.Vec3
	Normal linear.Vec3
	Color  linear.Vec4
}

// Light computes the lit RGBA color for v, clamped to [0,1] per channel.
func (m *Model) Light(v Vertex) linear.Vec4 {
	mat := m.Material
	if m.ColorMaterialEnabled {
		mat.Ambient = v.Color
		mat.Diffuse = v.Color
	}

	out := mat.Emissive.Add(vec4Mul(m.GlobalAmbient, mat.Ambient))
	n := v.Normal
	eyeDirToViewer := v.EyePos.Scale(-1).Normalize()

	for i := range m.Lights {
		lt := &m.Lights[i]
		if !lt.Enabled {
			continue
		}

		var L linear.Vec3
		atten := float32(1)

		switch lt.Kind {
		case KindDirectional:
			L = lt.Position.Normalize()
		default:
			toLight := lt.Position.Sub(v.EyePos)
			d := toLight.Len()
			L = toLight.Normalize()
			atten = 1 / (lt.Constant + lt.Linear*d + lt.Quadratic*d*d)

			if lt.Kind == KindSpot {
				spotCos := L.Scale(-1).Dot(lt.SpotDirection.Normalize())
				if spotCos < lt.SpotCutoffCos {
					continue
				}
				atten *= math32.Pow(spotCos, lt.SpotExponent)
			}
		}

		ambientTerm := vec4Mul(lt.Ambient, mat.Ambient)

		diffuseFactor := n.Dot(L)
		if diffuseFactor < 0 {
			diffuseFactor = 0
		}
		diffuseTerm := vec4Mul(lt.Diffuse, mat.Diffuse).Scale(diffuseFactor)

		var specularTerm linear.Vec4
		if diffuseFactor > 0 && mat.Shininess > 0 {
			var specAngle float32
			if m.UseBlinnSpecular {
				half := L.Add(eyeDirToViewer).Normalize()
				specAngle = n.Dot(half)
			} else {
				reflected := L.Scale(-1).Reflect(n).Scale(-1)
				specAngle = reflected.Dot(eyeDirToViewer)
			}
			if specAngle > 0 {
				specularTerm = vec4Mul(lt.Specular, mat.Specular).Scale(math32.Pow(specAngle, mat.Shininess))
			}
		}

		contribution := ambientTerm.Add(diffuseTerm).Add(specularTerm).Scale(atten)
		out = out.Add(contribution)
	}

	return linear.Vec4{
		X: clampUnit(out.X),
		Y: clampUnit(out.Y),
		Z: clampUnit(out.Z),
		W: clampUnit(out.W),
	}
}

func vec4Mul(a, b linear.Vec4) linear.Vec4 {
	return linear.Vec4{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z, W: a.W * b.W}
}

func clampUnit(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
