package renderer

import (
	"image/color"
	gomath "math"

	"github.com/Faultbox/mapview/pkg/math"
)

// minW rejects vertices on or behind the eye plane.
const minW = 1e-6

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64 // pixels, origin top-left
	Z    float64 // NDC depth
}

// project maps a terrain-space point to screen space.
func project(vp math.Mat4, p [3]float32, width, height int) (screenVertex, bool) {
	c := vp.Clip(p)
	if c[3] <= minW {
		return screenVertex{}, false
	}
	x := float64(c[0] / c[3])
	y := float64(c[1] / c[3])
	z := float64(c[2] / c[3])
	return screenVertex{
		X: (x + 1) * 0.5 * float64(width),
		Y: (1 - y) * 0.5 * float64(height),
		Z: z,
	}, true
}

// drawTriangle rasterises one triangle into the framebuffer with depth
// testing and Gouraud colour interpolation. Triangles crossing the eye plane
// are dropped.
func (r *Renderer) drawTriangle(vp math.Mat4, pos [3][3]float32, col [3]color.RGBA) {
	w, h := r.fb.Size()

	var sv [3]screenVertex
	for i := range 3 {
		v, ok := project(vp, pos[i], w, h)
		if !ok {
			return
		}
		sv[i] = v
	}

	area := edge(sv[0], sv[1], sv[2].X, sv[2].Y)
	if area == 0 {
		return
	}

	minX := max(0, int(gomath.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := min(w-1, int(gomath.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := max(0, int(gomath.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := min(h-1, int(gomath.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			b0 := edge(sv[1], sv[2], px, py) / area
			b1 := edge(sv[2], sv[0], px, py) / area
			b2 := 1 - b0 - b1
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			z := b0*sv[0].Z + b1*sv[1].Z + b2*sv[2].Z
			if z < -1 || z > 1 {
				continue
			}
			if !r.fb.DepthTest(x, y, float32(z)) {
				continue
			}
			r.fb.SetPixel(x, y, blend(col, b0, b1, b2))
			r.stats.Fragments++
		}
	}
	r.stats.Triangles++
}

// edge returns twice the signed area of (a, b, p).
func edge(a, b screenVertex, px, py float64) float64 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

func blend(c [3]color.RGBA, b0, b1, b2 float64) color.RGBA {
	mix := func(x, y, z uint8) uint8 {
		v := b0*float64(x) + b1*float64(y) + b2*float64(z)
		return uint8(min(max(v+0.5, 0), 255))
	}
	return color.RGBA{
		R: mix(c[0].R, c[1].R, c[2].R),
		G: mix(c[0].G, c[1].G, c[2].G),
		B: mix(c[0].B, c[1].B, c[2].B),
		A: 255,
	}
}

// shade scales a colour by intensity in [0,1].
func shade(c color.RGBA, intensity float64) color.RGBA {
	f := func(v uint8) uint8 {
		return uint8(min(float64(v)*intensity, 255))
	}
	return color.RGBA{R: f(c.R), G: f(c.G), B: f(c.B), A: c.A}
}
