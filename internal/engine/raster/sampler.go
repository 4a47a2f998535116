// Package raster resamples source images onto the terrain grid and maps
// grayscale samples to display heights.
package raster

import (
	"image"
	"image/color"
)

// Filter selects how a grid position is resolved against the source image.
type Filter uint8

const (
	// FilterNearest picks a single source pixel by integer truncation.
	FilterNearest Filter = iota
	// FilterBilinear blends the four source pixels around the fractional position.
	FilterBilinear
)

// String returns the config name of the filter.
func (f Filter) String() string {
	if f == FilterBilinear {
		return "bilinear"
	}
	return "nearest"
}

// ParseFilter maps a config name to a Filter. Unknown names fall back to nearest.
func ParseFilter(name string) Filter {
	if name == "bilinear" {
		return FilterBilinear
	}
	return FilterNearest
}

// GridSize fits a w×h source inside maxSize, keeping the aspect ratio.
// The larger dimension is clamped to maxSize and the other scaled with
// integer truncation. Sources already inside maxSize keep their size.
func GridSize(w, h, maxSize int) (gw, gh int, scale float64) {
	if w <= 0 || h <= 0 {
		return 0, 0, 0
	}
	gw, gh = w, h
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			gw = maxSize
			gh = h * maxSize / w
		} else {
			gh = maxSize
			gw = w * maxSize / h
		}
	}
	gw = max(gw, 1)
	gh = max(gh, 1)
	return gw, gh, float64(gw) / float64(w)
}

// Sampler resolves grid positions against a source image.
type Sampler struct {
	Filter Filter
}

// At returns the source colour for grid position (ax, ay) of a gw×gh grid.
// Positions past the last source row/column (corner sampling) clamp to the edge.
func (s Sampler) At(img *image.RGBA, ax, ay, gw, gh int) color.RGBA {
	if s.Filter == FilterBilinear {
		return bilinear(img, ax, ay, gw, gh)
	}
	return nearest(img, ax, ay, gw, gh)
}

// SourcePoint returns the source pixel nearest-neighbour sampling reads for (ax, ay).
func SourcePoint(w, h, ax, ay, gw, gh int) (int, int) {
	sx := ax * w / gw
	sy := ay * h / gh
	return min(sx, w-1), min(sy, h-1)
}

// SampleGrid samples every cell of a gw×gh grid in row-major order.
func SampleGrid(img *image.RGBA, gw, gh int, s Sampler) []color.RGBA {
	out := make([]color.RGBA, 0, gw*gh)
	for ay := range gh {
		for ax := range gw {
			out = append(out, s.At(img, ax, ay, gw, gh))
		}
	}
	return out
}

func nearest(img *image.RGBA, ax, ay, gw, gh int) color.RGBA {
	b := img.Bounds()
	sx, sy := SourcePoint(b.Dx(), b.Dy(), ax, ay, gw, gh)
	return pixel(img, sx, sy)
}

func bilinear(img *image.RGBA, ax, ay, gw, gh int) color.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	fx := float64(ax) * float64(w) / float64(gw)
	fy := float64(ay) * float64(h) / float64(gh)
	x0, y0 := min(int(fx), w-1), min(int(fy), h-1)
	x1, y1 := min(x0+1, w-1), min(y0+1, h-1)
	tx, ty := fx-float64(x0), fy-float64(y0)
	tx = min(max(tx, 0), 1)
	ty = min(max(ty, 0), 1)

	c00, c10 := pixel(img, x0, y0), pixel(img, x1, y0)
	c01, c11 := pixel(img, x0, y1), pixel(img, x1, y1)

	mix := func(a, b, c, d uint8) uint8 {
		top := float64(a)*(1-tx) + float64(b)*tx
		bot := float64(c)*(1-tx) + float64(d)*tx
		return uint8(top*(1-ty) + bot*ty + 0.5)
	}
	return color.RGBA{
		R: mix(c00.R, c10.R, c01.R, c11.R),
		G: mix(c00.G, c10.G, c01.G, c11.G),
		B: mix(c00.B, c10.B, c01.B, c11.B),
		A: 255,
	}
}

// pixel reads an RGBA pixel relative to the image origin.
func pixel(img *image.RGBA, x, y int) color.RGBA {
	b := img.Bounds()
	i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
	return color.RGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]}
}
