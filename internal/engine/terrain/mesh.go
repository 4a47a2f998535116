package terrain

import (
	"image/color"

	"github.com/Faultbox/mapview/internal/engine/raster"
)

// cellCorners lists a cell's corners relative to its top-left corner.
var cellCorners = [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// Build creates the terrain mesh for the given raster pair.
// Returns nil when there is no texture; the viewport then draws nothing.
func Build(p Params) *Mesh {
	if p.Texture == nil {
		return nil
	}

	tb := p.Texture.Bounds()
	gw, gh, scale := raster.GridSize(tb.Dx(), tb.Dy(), p.MaxSize)
	if gw == 0 || gh == 0 {
		return nil
	}

	sampler := raster.Sampler{Filter: p.Filter}
	colors := raster.SampleGrid(p.Texture, gw, gh, sampler)

	heightSrc := p.Heightfield
	if heightSrc == nil {
		heightSrc = p.Texture
	}
	hp := raster.HeightParams{
		Mode:      raster.ResolveMode(p.Heightfield != nil, p.AutoDetect),
		Distort:   p.Distort,
		Scale:     scale,
		MaxHeight: p.MaxHeight,
	}
	// Corners are sampled against the height source's own resolution.
	evalCorner := func(cx, cy int) float32 {
		if hp.Mode == raster.HeightFlat {
			return 0
		}
		c := sampler.At(heightSrc, cx, cy, gw, gh)
		return float32(hp.Height(raster.Intensity(c)))
	}

	heights := NewCornerHeights(gw, gh)
	halfW, halfH := float32(gw)/2, float32(gh)/2
	corner := func(cx, cy int, h float32, c color.RGBA) Vertex {
		return Vertex{
			Position: [3]float32{float32(cx) - halfW, float32(cy) - halfH, h},
			Color:    color.RGBA{R: c.R, G: c.G, B: c.B, A: 255},
		}
	}

	bounds := Bounds{
		Min: [3]float32{-halfW, -halfH, 0},
		Max: [3]float32{halfW, halfH, 0},
	}

	strips := make([]Strip, gh)
	for ay := range gh {
		verts := make([]Vertex, 0, 2*(gw+1))
		for ax := range gw {
			var h [4]float32
			for i, d := range cellCorners {
				h[i] = heights.Resolve(ax+d[0], ay+d[1], evalCorner)
			}

			if ax == 0 {
				c := colors[ay*gw]
				verts = append(verts, corner(0, ay, h[0], c), corner(0, ay+1, h[2], c))
			}
			// Right-hand corners take the colour of the next cell so colours
			// interpolate across cell boundaries; the last column reuses its own.
			c := colors[ay*gw+min(ax+1, gw-1)]
			verts = append(verts, corner(ax+1, ay, h[1], c), corner(ax+1, ay+1, h[3], c))

			for _, v := range h {
				bounds.Min[2] = min(bounds.Min[2], v)
				bounds.Max[2] = max(bounds.Max[2], v)
			}
		}
		strips[ay] = Strip{Vertices: verts}
	}

	return &Mesh{
		Strips:  strips,
		GridW:   gw,
		GridH:   gh,
		Scale:   scale,
		Mode:    hp.Mode,
		Heights: heights,
		Bounds:  bounds,
	}
}

// CellColor returns the colour the mesh uses for the left edge of cell (ax, ay).
func (m *Mesh) CellColor(ax, ay int) color.RGBA {
	return m.Strips[ay].Vertices[2*ax].Color
}
