package simbus

// Texture holds the currently bound RGBA8 texture, loaded via a
// TEXTURE_STREAM/LOAD pair decoded off the wire.
type Texture struct {
	Width, Height int
	Pixels        []byte // RGBA8
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrap(v float32) float32 {
	v -= float32(int32(v))
	if v < 0 {
		v += 1
	}
	return v
}

// Sample performs nearest-neighbor lookup at normalized (s, t), matching
// the source's point-sampling path exactly — no bilinear filtering stage
// exists in this pipeline. clampS/clampT select clamp-to-edge over the
// default wrap (repeat) addressing.
func (tex *Texture) Sample(s, t float32, clampS, clampT bool) (r, g, b, a float32) {
	if tex == nil || len(tex.Pixels) == 0 || tex.Width == 0 || tex.Height == 0 {
		return 1, 1, 1, 1
	}

	if clampS {
		s = clampf(s, 0, 1)
	} else {
		s = wrap(s)
	}
	if clampT {
		t = clampf(t, 0, 1)
	} else {
		t = wrap(t)
	}

	x := int(s * float32(tex.Width))
	y := int(t * float32(tex.Height))
	if x >= tex.Width {
		x = tex.Width - 1
	}
	if y >= tex.Height {
		y = tex.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	idx := (y*tex.Width + x) * 4
	if idx+3 >= len(tex.Pixels) {
		return 1, 1, 1, 1
	}
	const inv255 = float32(1.0 / 255.0)
	return float32(tex.Pixels[idx+0]) * inv255,
		float32(tex.Pixels[idx+1]) * inv255,
		float32(tex.Pixels[idx+2]) * inv255,
		float32(tex.Pixels[idx+3]) * inv255
}

// bayer4x4 is a flattened 4x4 ordered-dither matrix, normalized to [0,1).
var bayer4x4 = [16]float32{
	0.0 / 16.0, 8.0 / 16.0, 2.0 / 16.0, 10.0 / 16.0,
	12.0 / 16.0, 4.0 / 16.0, 14.0 / 16.0, 6.0 / 16.0,
	3.0 / 16.0, 11.0 / 16.0, 1.0 / 16.0, 9.0 / 16.0,
	15.0 / 16.0, 7.0 / 16.0, 13.0 / 16.0, 5.0 / 16.0,
}

var bayer2x2 = [4]float32{
	0.0 / 4.0, 2.0 / 4.0,
	3.0 / 4.0, 1.0 / 4.0,
}

func ditherThreshold(x, y int, use2x2 bool) float32 {
	if use2x2 {
		return bayer2x2[(y&1)<<1|(x&1)]
	}
	return bayer4x4[(y&3)<<2|(x&3)]
}

func applyDither(value, threshold float32) float32 {
	level := value*255 + (threshold - 0.5)
	return clampf(float32(int(level+0.5))/255, 0, 1)
}

func depthTest(newZ, oldZ float32, fn int) bool {
	switch fn {
	case DepthNever:
		return false
	case DepthLess:
		return newZ < oldZ
	case DepthEqual:
		return newZ == oldZ
	case DepthLessEqual:
		return newZ <= oldZ
	case DepthGreater:
		return newZ > oldZ
	case DepthNotEqual:
		return newZ != oldZ
	case DepthGreaterEqual:
		return newZ >= oldZ
	default:
		return true
	}
}

func alphaTest(a, ref float32, fn int) bool {
	switch fn {
	case AlphaNever:
		return false
	case AlphaLess:
		return a < ref
	case AlphaEqual:
		return a == ref
	case AlphaLessEqual:
		return a <= ref
	case AlphaGreater:
		return a > ref
	case AlphaNotEqual:
		return a != ref
	case AlphaGreaterEqual:
		return a >= ref
	default:
		return true
	}
}

// blendFactor evaluates one of the small set of blend-factor codes this
// pipeline supports; it is deliberately a subset of the source's full
// VOODOO_BLEND_* table, since the ones dropped (constant color, saturate)
// have no register path to set a blend constant in this wire format.
func blendFactor(code int, srcA, dstA float32) float32 {
	switch code {
	case BlendZero:
		return 0
	case BlendSrcAlpha:
		return srcA
	case BlendOne:
		return 1
	case BlendInvSrcAlpha:
		return 1 - srcA
	case BlendInvDstAlpha:
		return 1 - dstA
	default:
		return 1
	}
}
