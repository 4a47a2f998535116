// Package terrain builds the triangulated surface shown by the map viewport.
package terrain

import (
	"image"
	"image/color"

	"github.com/Faultbox/mapview/internal/engine/raster"
)

// Vertex is one strip vertex: a grid corner with its height and cell colour.
type Vertex struct {
	Position [3]float32
	Color    color.RGBA
}

// Strip is one row of cells drawn as a triangle strip.
// Vertices alternate top and bottom corners, left to right.
type Strip struct {
	Vertices []Vertex
}

// Mesh holds the complete terrain surface for one raster pair.
type Mesh struct {
	Strips  []Strip
	GridW   int     // Cells per row
	GridH   int     // Rows
	Scale   float64 // GridW / texture width
	Mode    raster.HeightMode
	Heights *CornerHeights
	Bounds  Bounds
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Params is everything a rebuild depends on.
type Params struct {
	Texture     *image.RGBA
	Heightfield *image.RGBA // optional
	Distort     float64
	MaxSize     int
	MaxHeight   float64
	AutoDetect  bool
	Filter      raster.Filter
}

// VertexCount returns the number of strip vertices in the mesh.
func (m *Mesh) VertexCount() int {
	n := 0
	for _, s := range m.Strips {
		n += len(s.Vertices)
	}
	return n
}

// TriangleCount returns the number of triangles the strips describe.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, s := range m.Strips {
		if len(s.Vertices) >= 3 {
			n += len(s.Vertices) - 2
		}
	}
	return n
}
