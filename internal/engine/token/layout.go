package token

import (
	"math"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// leagueUnit converts pixels-per-league into the marker scale factor.
const leagueUnit = 13200.0

// Layout carries the map-dependent values needed to place markers.
type Layout struct {
	Scale           float64 // grid width / texture width
	GridW, GridH    int
	PixelsPerLeague float64
	MaxHeight       float64
}

// Placement is where and how one token is drawn.
type Placement struct {
	Name        string
	Glyph       rune
	Anchor      [3]float32 // marker base, on the terrain plane
	Top         [3]float32 // marker top, where the glyph sits
	MarkerScale float32
	Rotation    float64 // glyph rotation in degrees
	Height      float32 // prism height
}

// Place computes the placement for a token.
// Tokens at negative coordinates are off this map and are skipped.
func (l Layout) Place(t Token) (Placement, bool) {
	if t.X < 0 || t.Y < 0 {
		return Placement{}, false
	}

	x := float32(t.X*l.Scale - float64(l.GridW)/2)
	y := float32(t.Y*l.Scale - float64(l.GridH)/2)
	top := float32(-l.MaxHeight)

	return Placement{
		Name:        t.Name,
		Glyph:       Glyph(t.Name),
		Anchor:      [3]float32{x, y, 0},
		Top:         [3]float32{x, y, top},
		MarkerScale: float32(max(1, l.PixelsPerLeague/leagueUnit*l.Scale)),
		Rotation:    t.Z * 180 / math.Pi,
		Height:      float32(l.MaxHeight),
	}, true
}

// Glyph returns the first character of the NFC-normalised name,
// or 0 for an empty name.
func Glyph(name string) rune {
	s := norm.NFC.String(name)
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// Triangle is one marker face in terrain space.
type Triangle [3][3]float32

// diamond is the unit marker outline in the terrain plane.
var diamond = [4][2]float32{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Prism returns the diamond prism triangles for a placement: a diamond of
// half-width MarkerScale extruded from the terrain plane up to the marker top.
func Prism(p Placement) []Triangle {
	ring := func(z float32) [4][3]float32 {
		var r [4][3]float32
		for i, d := range diamond {
			r[i] = [3]float32{
				p.Anchor[0] + d[0]*p.MarkerScale,
				p.Anchor[1] + d[1]*p.MarkerScale,
				z,
			}
		}
		return r
	}
	base, top := ring(p.Anchor[2]), ring(p.Top[2])

	tris := make([]Triangle, 0, 12)
	tris = append(tris,
		Triangle{top[0], top[1], top[2]},
		Triangle{top[0], top[2], top[3]},
		Triangle{base[0], base[2], base[1]},
		Triangle{base[0], base[3], base[2]},
	)
	for i := range 4 {
		j := (i + 1) % 4
		tris = append(tris,
			Triangle{base[i], base[j], top[j]},
			Triangle{base[i], top[j], top[i]},
		)
	}
	return tris
}
