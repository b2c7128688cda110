// Package pipeline orchestrates the math, lighting, texgen, clipper and
// rasterizer-setup packages into the vertex pipeline: loading vertex
// arrays, transforming, lighting, clipping, dividing, viewport-mapping,
// culling, and submitting finished triangles to a Renderer.
//
// This is the direct generalization of the vertex pipeline's drawObj /
// drawTriangle / drawTriangleArray algorithm — chunked array loading with a
// two-vertex overlap, the exact primitive-decomposition switch (including
// the QUAD_STRIP bit-1 parity), and the viewport/perspective-divide
// formulas — carried over to Go's interface-and-struct idiom in place of
// virtual dispatch over a render-object base class.
package pipeline

import (
	"github.com/rasterix-go/rasterix/clip"
	"github.com/rasterix-go/rasterix/light"
	"github.com/rasterix-go/rasterix/linear"
	"github.com/rasterix-go/rasterix/raster"
	"github.com/rasterix-go/rasterix/texgen"
)

// VertexBufferSize is the chunk size drawObj processes a RenderObj's
// vertex stream in. Chunks overlap by two vertices so that strips and fans
// spanning a chunk boundary are decomposed correctly.
const VertexBufferSize = 256

// CullMode selects which winding is discarded when culling is enabled.
type CullMode int

const (
	CullBack CullMode = iota
	CullFront
)

// Viewport is the destination rectangle viewport-space coordinates map
// into.
type Viewport struct {
	X, Y, W, H int32
}

// Pipeline holds all per-process vertex-pipeline state: matrices,
// viewport, depth range, cull mode, and the lighting/texgen
// configuration. It is not safe for concurrent use — the core is
// single-threaded by design.
type Pipeline struct {
	ModelView  linear.Mat44
	Projection linear.Mat44

	Viewport            Viewport
	DepthNear, DepthFar float32

	CullEnabled bool
	CullMode    CullMode

	LightingEnabled bool
	Lighting        light.Model

	TexGen texgen.Generator

	Renderer Renderer

	clipper clip.Clipper
	scratch [VertexBufferSize]processedVertex
}

type processedVertex struct {
	Clip  linear.Vec4
	ST    linear.Vec4
	Color linear.Vec4
}

// Triangle is a single pre-clip triangle submitted directly, bypassing
// RenderObj/drawObj — used for primitives the application already holds
// as three vertices.
type Triangle struct {
	V     [3]linear.Vec4
	ST    [3]linear.Vec4
	Color [3]linear.Vec4
}

// SetModelView sets the model-view matrix (m_m in the data model).
func (p *Pipeline) SetModelView(m linear.Mat44) { p.ModelView = m }

// SetProjection sets the projection matrix.
func (p *Pipeline) SetProjection(m linear.Mat44) { p.Projection = m }

// SetViewport sets the destination rectangle for the viewport transform.
// Matching the source's rationale for subtracting one from each
// dimension, W and H are stored so that x=-1 maps to X and x=1 maps to
// X+W-1 — the viewport covers pixel indices [X, X+W-1], not [X, X+W].
func (p *Pipeline) SetViewport(x, y, w, h int32) {
	p.Viewport = Viewport{X: x, Y: y, W: w, H: h}
}

// SetDepthRange sets the near/far depth values used by the viewport
// transform's z mapping.
func (p *Pipeline) SetDepthRange(near, far float32) {
	p.DepthNear, p.DepthFar = near, far
}

// SetCull sets the cull mode and whether culling is active.
func (p *Pipeline) SetCull(enabled bool, mode CullMode) {
	p.CullEnabled, p.CullMode = enabled, mode
}

func (p *Pipeline) scissor() raster.ScissorRect {
	return raster.ScissorRect{
		MinX: p.Viewport.X,
		MinY: p.Viewport.Y,
		MaxX: p.Viewport.X + p.Viewport.W - 1,
		MaxY: p.Viewport.Y + p.Viewport.H - 1,
	}
}

// viewportTransform maps a post-divide NDC-space vertex (x,y,z in
// [-1,1], w already inverted) to viewport-space.
func (p *Pipeline) viewportTransform(d linear.Vec4) raster.Vertex {
	halfW := float32(p.Viewport.W-1) / 2
	halfH := float32(p.Viewport.H-1) / 2
	return raster.Vertex{
		X:    (d.X+1)*halfW + float32(p.Viewport.X),
		Y:    (d.Y+1)*halfH + float32(p.Viewport.Y),
		Z:    (d.Z + 1) * 0.25 * (p.DepthFar - p.DepthNear),
		InvW: d.W,
	}
}

func (p *Pipeline) toScreen(v clip.Vertex) raster.Vertex {
	sv := p.viewportTransform(v.Pos.PerspectiveDivide())
	sv.S = v.ST.X
	sv.T = v.ST.Y
	sv.Color = v.Color
	return sv
}

func edgeFunction2D(ax, ay, bx, by, cx, cy float32) float32 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

// DrawTriangle runs a single triangle through clip -> perspective divide
// -> viewport transform -> cull -> emit as a fan. It returns false only on
// an OOM from the renderer; a fully-clipped or degenerate triangle is
// normal control flow and returns true having emitted nothing.
func (p *Pipeline) DrawTriangle(t Triangle) bool {
	fan := p.clipper.Clip(
		clip.Vertex{Pos: t.V[0], ST: t.ST[0], Color: t.Color[0]},
		clip.Vertex{Pos: t.V[1], ST: t.ST[1], Color: t.Color[1]},
		clip.Vertex{Pos: t.V[2], ST: t.ST[2], Color: t.Color[2]},
	)
	return p.emitFan(fan)
}

func (p *Pipeline) emitFan(fan []clip.Vertex) bool {
	if len(fan) < 3 {
		return true
	}

	var screen [clip.MaxVertices]raster.Vertex
	for i, v := range fan {
		screen[i] = p.toScreen(v)
	}

	if p.CullEnabled {
		area2 := edgeFunction2D(screen[0].X, screen[0].Y, screen[1].X, screen[1].Y, screen[2].X, screen[2].Y)
		frontFacing := area2 > 0
		if (p.CullMode == CullBack && !frontFacing) || (p.CullMode == CullFront && frontFacing) {
			return true
		}
	}

	scissor := p.scissor()
	for i := 1; i+1 < len(fan); i++ {
		rt, ok := raster.Setup(screen[0], screen[i], screen[i+1], scissor, true)
		if !ok {
			continue
		}
		if !p.Renderer.DrawTriangle(rt) {
			return false
		}
	}
	return true
}

func (p *Pipeline) emitProcessed(a, b, c processedVertex) bool {
	fan := p.clipper.Clip(
		clip.Vertex{Pos: a.Clip, ST: a.ST, Color: a.Color},
		clip.Vertex{Pos: b.Clip, ST: b.ST, Color: b.Color},
		clip.Vertex{Pos: c.Clip, ST: c.ST, Color: c.Color},
	)
	return p.emitFan(fan)
}

// DrawObj processes obj in chunks of VertexBufferSize with a two-vertex
// overlap so strips and fans spanning a chunk boundary decompose
// correctly. It returns false if the renderer ran out of room; the caller
// is expected to flush and retry.
func (p *Pipeline) DrawObj(obj RenderObj) bool {
	count := obj.Count()
	if count == 0 {
		return true
	}

	start := 0
	for start < count {
		end := start + VertexBufferSize
		if end > count {
			end = count
		}
		if !p.drawChunk(obj, start, end) {
			return false
		}
		if end >= count {
			break
		}
		start = end - 2
	}
	return true
}

func (p *Pipeline) drawChunk(obj RenderObj, start, end int) bool {
	m := end - start
	composite := p.Projection.Mul(p.ModelView)

	var normalMat linear.Mat44
	if p.LightingEnabled {
		normalMat = p.ModelView.InvertUpper3Transpose()
	}

	for i := 0; i < m; i++ {
		vi := obj.Index(start + i)

		var objPos linear.Vec4
		if obj.VertexArrayEnabled() {
			objPos = obj.Position(vi)
		} else {
			objPos = linear.Vec4{W: 1}
		}

		eyePos4 := p.ModelView.MulVec4(objPos)
		eyePos := eyePos4.Vec3()

		var normal, eyeNormal linear.Vec3
		if obj.NormalArrayEnabled() {
			normal = obj.Normal(vi)
		}
		if p.LightingEnabled {
			eyeNormal = normalMat.MulVec3(normal).Normalize()
		}

		var vertColor linear.Vec4
		if obj.ColorArrayEnabled() {
			vertColor = obj.Color(vi)
		} else {
			vertColor = obj.VertexColor()
		}

		outColor := vertColor
		if p.LightingEnabled {
			outColor = p.Lighting.Light(light.Vertex{EyePos: eyePos, Normal: eyeNormal, Color: vertColor})
		}

		var appCoord linear.Vec4
		if obj.TexCoordArrayEnabled() {
			appCoord = obj.TexCoord(vi)
		}
		st := p.TexGen.Generate(texgen.Input{
			ObjectPos: objPos,
			EyePos:    eyePos,
			EyeNormal: eyeNormal,
			AppCoord:  appCoord,
		})

		p.scratch[i] = processedVertex{Clip: composite.MulVec4(objPos), ST: st, Color: outColor}
	}

	return p.decompose(obj.DrawMode(), m)
}

// decompose applies the exact primitive-decomposition rule for mode over
// the m vertices staged in p.scratch[0:m], submitting each resulting
// triangle to emitProcessed.
func (p *Pipeline) decompose(mode DrawMode, m int) bool {
	switch mode {
	case Triangles:
		for i := 0; i+2 < m; i += 3 {
			if !p.emitProcessed(p.scratch[i], p.scratch[i+1], p.scratch[i+2]) {
				return false
			}
		}
	case TriangleFan:
		for i := 0; i+2 < m; i++ {
			if !p.emitProcessed(p.scratch[0], p.scratch[i+1], p.scratch[i+2]) {
				return false
			}
		}
	case TriangleStrip:
		for i := 0; i+2 < m; i++ {
			if i&1 == 0 {
				if !p.emitProcessed(p.scratch[i], p.scratch[i+1], p.scratch[i+2]) {
					return false
				}
			} else {
				if !p.emitProcessed(p.scratch[i+1], p.scratch[i], p.scratch[i+2]) {
					return false
				}
			}
		}
	case QuadStrip:
		// Alternates on bit 1 of i, not bit 0 — matches the source's
		// quad-strip decomposition exactly; it is not a typo.
		for i := 0; i+2 < m; i++ {
			if i&0x2 == 0 {
				if !p.emitProcessed(p.scratch[i], p.scratch[i+1], p.scratch[i+2]) {
					return false
				}
			} else {
				if !p.emitProcessed(p.scratch[i+1], p.scratch[i], p.scratch[i+2]) {
					return false
				}
			}
		}
	}
	return true
}
