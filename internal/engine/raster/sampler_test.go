package raster

import (
	"image"
	"image/color"
	"testing"
)

// gradient builds an image whose pixel (x, y) encodes its own coordinates.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	return img
}

func TestGridSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
		wantScale    float64
	}{
		{"wide clamps width", 100, 50, 50, 50, 25, 0.5},
		{"tall clamps height", 50, 100, 50, 25, 50, 0.5},
		{"inside limit keeps size", 40, 30, 50, 40, 30, 1},
		{"truncates", 300, 200, 128, 128, 85, 128.0 / 300.0},
		{"thin strip keeps one row", 1000, 1, 10, 10, 1, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, gh, scale := GridSize(tt.w, tt.h, tt.max)
			if gw != tt.wantW || gh != tt.wantH {
				t.Errorf("GridSize(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, gw, gh, tt.wantW, tt.wantH)
			}
			if scale != tt.wantScale {
				t.Errorf("scale = %f, want %f", scale, tt.wantScale)
			}
		})
	}
}

func TestGridSizeEmpty(t *testing.T) {
	if gw, gh, _ := GridSize(0, 10, 50); gw != 0 || gh != 0 {
		t.Errorf("empty source should give empty grid, got %dx%d", gw, gh)
	}
}

func TestNearestPicksTruncatedPixels(t *testing.T) {
	img := gradient(4, 4)
	got := SampleGrid(img, 2, 2, Sampler{})

	want := [][2]uint8{{0, 0}, {2, 0}, {0, 2}, {2, 2}}
	for i, w := range want {
		if got[i].R != w[0] || got[i].G != w[1] {
			t.Errorf("cell %d picked (%d,%d), want (%d,%d)", i, got[i].R, got[i].G, w[0], w[1])
		}
	}
}

func TestNearestIsDeterministic(t *testing.T) {
	img := gradient(37, 23)
	a := SampleGrid(img, 11, 7, Sampler{})
	b := SampleGrid(img, 11, 7, Sampler{})
	if len(a) != len(b) {
		t.Fatalf("length mismatch %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestNearestClampsCornerSamples(t *testing.T) {
	img := gradient(4, 4)
	// ax == gw addresses the far edge of the grid.
	c := Sampler{}.At(img, 2, 2, 2, 2)
	if c.R != 3 || c.G != 3 {
		t.Errorf("edge corner sampled (%d,%d), want (3,3)", c.R, c.G)
	}
}

func TestNearestHonoursSubImageOrigin(t *testing.T) {
	img := gradient(8, 8).SubImage(image.Rect(4, 4, 8, 8)).(*image.RGBA)
	c := Sampler{}.At(img, 0, 0, 2, 2)
	if c.R != 4 || c.G != 4 {
		t.Errorf("sub-image origin sampled (%d,%d), want (4,4)", c.R, c.G)
	}
}

func TestBilinearBlendsNeighbours(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	for x, v := range []uint8{0, 100, 200, 255} {
		img.SetRGBA(x, 0, color.RGBA{R: v, G: v, B: v, A: 255})
	}

	// ax=1 of 3 maps to source x=1.333: a third of the way from 100 to 200.
	c := Sampler{Filter: FilterBilinear}.At(img, 1, 0, 3, 1)
	if c.R != 133 {
		t.Errorf("bilinear R = %d, want 133", c.R)
	}

	n := Sampler{}.At(img, 1, 0, 3, 1)
	if n.R != 100 {
		t.Errorf("nearest R = %d, want 100", n.R)
	}
}

func TestBilinearMatchesNearestOnExactPixels(t *testing.T) {
	img := gradient(4, 4)
	for ay := range 2 {
		for ax := range 2 {
			b := Sampler{Filter: FilterBilinear}.At(img, ax, ay, 2, 2)
			n := Sampler{}.At(img, ax, ay, 2, 2)
			if b != n {
				t.Errorf("(%d,%d): bilinear %v != nearest %v", ax, ay, b, n)
			}
		}
	}
}

func TestParseFilter(t *testing.T) {
	if ParseFilter("bilinear") != FilterBilinear {
		t.Error("expected bilinear")
	}
	if ParseFilter("whatever") != FilterNearest {
		t.Error("unknown names should fall back to nearest")
	}
	if FilterBilinear.String() != "bilinear" || FilterNearest.String() != "nearest" {
		t.Error("filter names do not round-trip")
	}
}
