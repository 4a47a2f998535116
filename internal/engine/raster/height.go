package raster

import "image/color"

// HeightMode selects where corner heights come from.
type HeightMode uint8

const (
	// HeightFlat forces every corner to zero.
	HeightFlat HeightMode = iota
	// HeightTexture derives height from texture luminance (auto-detect).
	HeightTexture
	// HeightField reads a dedicated grayscale heightfield image.
	HeightField
)

// String returns a short name for logs.
func (m HeightMode) String() string {
	switch m {
	case HeightField:
		return "heightfield"
	case HeightTexture:
		return "texture"
	default:
		return "flat"
	}
}

// ResolveMode picks the height mode. A dedicated heightfield always wins.
func ResolveMode(hasHeightfield, autoDetect bool) HeightMode {
	switch {
	case hasHeightfield:
		return HeightField
	case autoDetect:
		return HeightTexture
	default:
		return HeightFlat
	}
}

// Intensity returns the mean of the three normalised colour channels.
func Intensity(c color.RGBA) float64 {
	return (float64(c.R) + float64(c.G) + float64(c.B)) / 3 / 255
}

// Curve blends linear and cubic falloff of a grayscale sample g in [0,1].
// Curve(0, d) == 0 and Curve(1, d) == 1 for every d.
func Curve(g, distort float64) float64 {
	inv := 1 - g
	return 1 - distort*inv*inv*inv - (1-distort)*inv
}

// HeightParams turns grayscale samples into display heights.
type HeightParams struct {
	Mode      HeightMode
	Distort   float64 // clamped to [0,1] by Height
	Scale     float64 // grid width / texture width
	MaxHeight float64
}

// Height maps a grayscale sample to a display height.
// Both terrain modes yield heights in [-Scale*MaxHeight, 0].
func (p HeightParams) Height(g float64) float64 {
	if p.Mode == HeightFlat {
		return 0
	}
	d := min(max(p.Distort, 0), 1)
	gray := Curve(g, d)
	amp := p.Scale * p.MaxHeight
	if p.Mode == HeightField {
		return -amp * gray
	}
	return amp * (gray - 1)
}
