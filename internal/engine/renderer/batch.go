package renderer

import (
	"image/color"

	"github.com/Faultbox/mapview/internal/engine/terrain"
)

// Triangle is one filled triangle with per-vertex colours.
type Triangle struct {
	Pos   [3][3]float32
	Color [3]color.RGBA
}

// Batch is the precompiled terrain: strips expanded into triangles once per
// rebuild and replayed unchanged for every camera-only frame.
type Batch struct {
	Triangles []Triangle
	Bounds    terrain.Bounds
	GridW     int
	GridH     int
}

// Compile expands the mesh strips into a draw batch.
// A nil mesh compiles to a nil batch.
func Compile(m *terrain.Mesh) *Batch {
	if m == nil {
		return nil
	}

	b := &Batch{
		Triangles: make([]Triangle, 0, m.TriangleCount()),
		Bounds:    m.Bounds,
		GridW:     m.GridW,
		GridH:     m.GridH,
	}
	for _, s := range m.Strips {
		v := s.Vertices
		for i := 0; i+2 < len(v); i++ {
			b.Triangles = append(b.Triangles, Triangle{
				Pos:   [3][3]float32{v[i].Position, v[i+1].Position, v[i+2].Position},
				Color: [3]color.RGBA{v[i].Color, v[i+1].Color, v[i+2].Color},
			})
		}
	}
	return b
}

// Len returns the number of triangles in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Triangles)
}
