package renderer

import (
	"image/color"
	gomath "math"

	"github.com/fogleman/gg"

	"github.com/Faultbox/mapview/internal/engine/token"
	"github.com/Faultbox/mapview/pkg/math"
)

// DrawMarkers draws each placement's prism with depth testing, then its glyph
// on top without depth. Placements are drawn in the order given.
func (r *Renderer) DrawMarkers(placements []token.Placement, viewProj math.Mat4) {
	if len(placements) == 0 {
		return
	}

	for _, p := range placements {
		for _, tri := range token.Prism(p) {
			c := shade(r.config.MarkerColor, faceLight(tri))
			r.drawTriangle(viewProj, [3][3]float32(tri), [3]color.RGBA{c, c, c})
		}
	}

	w, h := r.fb.Size()
	dc := gg.NewContextForRGBA(r.fb.Image())
	dc.SetFontFace(r.face)
	dc.SetColor(r.config.LabelColor)
	for _, p := range placements {
		if p.Glyph == 0 {
			continue
		}
		x, y, deg, ok := GlyphPose(p, viewProj, w, h)
		if !ok {
			continue
		}
		dc.Push()
		dc.RotateAbout(gg.Radians(deg), x, y)
		dc.DrawStringAnchored(string(p.Glyph), x, y, 0.5, 0.5)
		dc.Pop()
		r.stats.Glyphs++
	}
}

// GlyphPose returns where a placement's glyph lands on screen and its
// clockwise screen rotation in degrees. The unrotated glyph points towards
// the top of the map; Rotation turns it about the terrain normal.
func GlyphPose(p token.Placement, viewProj math.Mat4, width, height int) (x, y, deg float64, ok bool) {
	base, ok := project(viewProj, p.Top, width, height)
	if !ok {
		return 0, 0, 0, false
	}

	rad := p.Rotation * gomath.Pi / 180
	dir := [3]float32{
		p.Top[0] + float32(gomath.Sin(rad)),
		p.Top[1] - float32(gomath.Cos(rad)),
		p.Top[2],
	}
	tip, ok := project(viewProj, dir, width, height)
	if !ok {
		return base.X, base.Y, p.Rotation, true
	}

	dx, dy := tip.X-base.X, tip.Y-base.Y
	if dx == 0 && dy == 0 {
		return base.X, base.Y, p.Rotation, true
	}
	return base.X, base.Y, gomath.Atan2(dx, -dy) * 180 / gomath.Pi, true
}

// faceLight gives marker sides a fixed darker shade than the top.
func faceLight(tri token.Triangle) float64 {
	a := math.V3(tri[0])
	n := math.V3(tri[1]).Sub(a).Cross(math.V3(tri[2]).Sub(a)).Normalize()
	return 0.55 + 0.45*gomath.Abs(float64(n.Z))
}
