// Package simbus is a software reference consumer of the display-list wire
// format: it decodes the 32-bit command stream a bus.Adapter would have
// received and rasterizes it into an RGBA framebuffer, the same role the
// source's software rasterizer backend plays as a fallback for its Voodoo
// pixel pipeline — reimplemented here against the fixed-point
// RasterizedTriangle record this driver actually emits, instead of a
// barycentric float rasterizer working from raw vertices.
package simbus

// conf1/conf2 bit layouts mirror the source's fbzMode/alphaMode register,
// copied bit-exact per the wire contract: this program has no freedom to
// renumber them, since a real accelerator (or this reference consumer)
// has to agree with whatever producer wrote the register.
const (
	Conf1Clipping      uint32 = 1 << 0
	Conf1ChromaKey     uint32 = 1 << 1
	Conf1DepthEnable   uint32 = 1 << 4
	Conf1DepthFunc     uint32 = 7 << 5
	Conf1Dither        uint32 = 1 << 8
	Conf1RGBWrite      uint32 = 1 << 9
	Conf1DepthWrite    uint32 = 1 << 10
	Conf1Dither2x2     uint32 = 1 << 11
	Conf1TextureEnable uint32 = 1 << 16
)

const (
	DepthNever        = 0
	DepthLess         = 1
	DepthEqual        = 2
	DepthLessEqual    = 3
	DepthGreater      = 4
	DepthNotEqual     = 5
	DepthGreaterEqual = 6
	DepthAlways       = 7
)

const (
	Conf2AlphaTestEnable  uint32 = 1 << 0
	Conf2AlphaTestFunc    uint32 = 7 << 1
	Conf2AlphaBlendEnable uint32 = 1 << 4
	Conf2SrcBlend         uint32 = 0xF << 8
	Conf2DstBlend         uint32 = 0xF << 12
	Conf2AlphaRef         uint32 = 0xFF << 16
)

const (
	AlphaNever        = 0
	AlphaLess         = 1
	AlphaEqual        = 2
	AlphaLessEqual    = 3
	AlphaGreater      = 4
	AlphaNotEqual     = 5
	AlphaGreaterEqual = 6
	AlphaAlways       = 7
)

const (
	BlendZero        = 0
	BlendSrcAlpha    = 1
	BlendOne         = 4
	BlendInvSrcAlpha = 5
	BlendInvDstAlpha = 7
)

func depthFunc(conf1 uint32) int  { return int((conf1 & Conf1DepthFunc) >> 5) }
func alphaFunc(conf2 uint32) int  { return int((conf2 & Conf2AlphaTestFunc) >> 1) }
func alphaRef(conf2 uint32) float32 {
	return float32((conf2&Conf2AlphaRef)>>16) / 255
}
func srcBlend(conf2 uint32) int { return int((conf2 & Conf2SrcBlend) >> 8) }
func dstBlend(conf2 uint32) int { return int((conf2 & Conf2DstBlend) >> 12) }
