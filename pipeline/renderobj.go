package pipeline

import (
	"github.com/rasterix-go/rasterix/linear"
	"github.com/rasterix-go/rasterix/raster"
)

// DrawMode selects how a RenderObj's vertex stream decomposes into
// triangles.
type DrawMode int

const (
	Triangles DrawMode = iota
	TriangleStrip
	TriangleFan
	QuadStrip
)

// RenderObj is the application-supplied draw descriptor: it knows its own
// vertex count, which attribute arrays are enabled, and how to fetch a
// given attribute by vertex index. The pipeline never allocates or copies
// a RenderObj's backing storage; it only calls through this interface.
type RenderObj interface {
	DrawMode() DrawMode
	Count() int

	VertexArrayEnabled() bool
	ColorArrayEnabled() bool
	NormalArrayEnabled() bool
	TexCoordArrayEnabled() bool

	// VertexColor is used for every vertex when ColorArrayEnabled is
	// false.
	VertexColor() linear.Vec4

	// Index resolves element i of the draw (0 <= i < Count()) to the
	// actual vertex index to fetch attributes for; a non-indexed
	// RenderObj returns i unchanged.
	Index(i int) uint32

	Position(vertexIndex uint32) linear.Vec4
	Normal(vertexIndex uint32) linear.Vec3
	Color(vertexIndex uint32) linear.Vec4
	TexCoord(vertexIndex uint32) linear.Vec4
}

// Renderer is the sink a finished, screen-space triangle is submitted to —
// concretely the display-list assembler's DrawTriangle, but expressed as
// an interface so the pipeline does not depend on the wire format.
type Renderer interface {
	DrawTriangle(t raster.RasterizedTriangle) bool
}
