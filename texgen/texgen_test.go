package texgen

import (
	"testing"

	"github.com/rasterix-go/rasterix/linear"
)

func TestDisabledChannelPassesThroughAppCoord(t *testing.T) {
	var g Generator
	in := Input{AppCoord: linear.Vec4{X: 0.25, Y: 0.75, Z: 0.1, W: 1}}
	got := g.Generate(in)
	if got != in.AppCoord {
		t.Fatalf("disabled channels should pass through: have %v want %v", got, in.AppCoord)
	}
}

func TestObjectLinearUsesObjectPlane(t *testing.T) {
	g := Generator{
		S: Channel{Mode: ModeObjectLinear, ObjectPlane: linear.Vec4{X: 1, W: 0}},
	}
	in := Input{ObjectPos: linear.Vec4{X: 3, Y: 0, Z: 0, W: 1}}
	got := g.Generate(in)
	if got.X != 3 {
		t.Fatalf("object-linear S: have %v want 3", got.X)
	}
}

func TestEyeLinearUsesEyePlane(t *testing.T) {
	g := Generator{
		T: Channel{Mode: ModeEyeLinear, EyePlane: linear.Vec4{Y: 1}},
	}
	in := Input{EyePos: linear.Vec3{Y: 5}}
	got := g.Generate(in)
	if got.Y != 5 {
		t.Fatalf("eye-linear T: have %v want 5", got.Y)
	}
}

func TestSphereMapProducesUnitRangeST(t *testing.T) {
	g := Generator{
		S: Channel{Mode: ModeSphereMap},
		T: Channel{Mode: ModeSphereMap},
	}
	in := Input{EyePos: linear.Vec3{Z: -5}, EyeNormal: linear.Vec3{Z: 1}}
	got := g.Generate(in)
	if got.X < 0 || got.X > 1 || got.Y < 0 || got.Y > 1 {
		t.Fatalf("sphere map coords should land in [0,1], got %v", got)
	}
}

func TestReflectionMapReadsItsOwnAxis(t *testing.T) {
	g := Generator{
		S: Channel{Mode: ModeReflectionMap},
		T: Channel{Mode: ModeReflectionMap},
		R: Channel{Mode: ModeReflectionMap},
	}
	in := Input{EyePos: linear.Vec3{Z: -5}, EyeNormal: linear.Vec3{Z: 1}}
	want := reflectionVector(in.EyePos, in.EyeNormal)
	got := g.Generate(in)
	if got.X != want.X || got.Y != want.Y || got.Z != want.Z {
		t.Fatalf("reflection map should read its own axis: have %v want (%v,%v,%v)", got, want.X, want.Y, want.Z)
	}
	if got.X == got.Y && got.Y == got.Z {
		t.Fatalf("s, t, r should not all collapse to the same component: %v", got)
	}
}

func TestNormalMapReadsItsOwnAxis(t *testing.T) {
	g := Generator{
		S: Channel{Mode: ModeNormalMap},
		T: Channel{Mode: ModeNormalMap},
		R: Channel{Mode: ModeNormalMap},
	}
	in := Input{EyeNormal: linear.Vec3{X: 0.2, Y: 0.4, Z: 0.6}}
	got := g.Generate(in)
	if got.X != in.EyeNormal.X || got.Y != in.EyeNormal.Y || got.Z != in.EyeNormal.Z {
		t.Fatalf("normal map should read its own axis: have %v want %v", got, in.EyeNormal)
	}
}
