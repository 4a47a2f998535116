package terrain

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/Faultbox/mapview/internal/engine/raster"
)

func noise(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestBuildWithoutTexture(t *testing.T) {
	if m := Build(Params{MaxSize: 50}); m != nil {
		t.Errorf("expected nil mesh without texture, got %+v", m)
	}
}

func TestBuildGridScenario(t *testing.T) {
	m := Build(Params{Texture: noise(100, 50, 1), MaxSize: 50, MaxHeight: 10, AutoDetect: true})
	if m == nil {
		t.Fatal("expected mesh")
	}
	if m.GridW != 50 || m.GridH != 25 {
		t.Errorf("grid = %dx%d, want 50x25", m.GridW, m.GridH)
	}
	if m.Scale != 0.5 {
		t.Errorf("scale = %f, want 0.5", m.Scale)
	}
}

func TestBuildStripLayout(t *testing.T) {
	m := Build(Params{Texture: noise(12, 8, 2), MaxSize: 6, MaxHeight: 5, AutoDetect: true})
	if len(m.Strips) != m.GridH {
		t.Fatalf("strips = %d, want %d", len(m.Strips), m.GridH)
	}
	for r, s := range m.Strips {
		if len(s.Vertices) != 2*(m.GridW+1) {
			t.Errorf("strip %d has %d vertices, want %d", r, len(s.Vertices), 2*(m.GridW+1))
		}
		// Top/bottom alternation: even entries sit on row r, odd on row r+1.
		for i, v := range s.Vertices {
			wantY := float32(r) - float32(m.GridH)/2
			if i%2 == 1 {
				wantY++
			}
			wantX := float32(i/2) - float32(m.GridW)/2
			if v.Position[0] != wantX || v.Position[1] != wantY {
				t.Fatalf("strip %d vertex %d at (%f,%f), want (%f,%f)", r, i, v.Position[0], v.Position[1], wantX, wantY)
			}
		}
	}
	if got, want := m.VertexCount(), m.GridH*2*(m.GridW+1); got != want {
		t.Errorf("vertices = %d, want %d", got, want)
	}
	if got, want := m.TriangleCount(), 2*m.GridW*m.GridH; got != want {
		t.Errorf("triangles = %d, want %d", got, want)
	}
}

func TestBuildCornerContinuity(t *testing.T) {
	for _, hf := range []*image.RGBA{nil, noise(31, 17, 9)} {
		m := Build(Params{
			Texture:     noise(40, 30, 3),
			Heightfield: hf,
			Distort:     0.7,
			MaxSize:     20,
			MaxHeight:   30,
			AutoDetect:  true,
		})

		// Every emitted vertex must carry exactly the table height of its corner.
		for r, s := range m.Strips {
			for i, v := range s.Vertices {
				cx, cy := i/2, r+i%2
				h, ok := m.Heights.At(cx, cy)
				if !ok {
					t.Fatalf("corner (%d,%d) never resolved", cx, cy)
				}
				if v.Position[2] != h {
					t.Fatalf("corner (%d,%d) emitted %v, table holds %v", cx, cy, v.Position[2], h)
				}
			}
		}

		// Bottom edge of each strip is the top edge of the next one.
		for r := 0; r+1 < len(m.Strips); r++ {
			a, b := m.Strips[r].Vertices, m.Strips[r+1].Vertices
			for i := 1; i < len(a); i += 2 {
				if a[i].Position != b[i-1].Position {
					t.Fatalf("rows %d/%d disagree at column %d: %v vs %v", r, r+1, i/2, a[i].Position, b[i-1].Position)
				}
			}
		}
	}
}

func TestBuildEvaluatesEachCornerOnce(t *testing.T) {
	m := Build(Params{Texture: noise(9, 7, 4), MaxSize: 100, MaxHeight: 3, AutoDetect: true})
	if got, want := m.Heights.Evaluations(), (m.GridW+1)*(m.GridH+1); got != want {
		t.Errorf("corner evaluations = %d, want %d", got, want)
	}
}

func TestBuildFlatMode(t *testing.T) {
	m := Build(Params{Texture: noise(16, 16, 5), MaxSize: 8, MaxHeight: 50, AutoDetect: false})
	if m.Mode != raster.HeightFlat {
		t.Errorf("mode = %s, want flat", m.Mode)
	}
	for _, s := range m.Strips {
		for _, v := range s.Vertices {
			if v.Position[2] != 0 {
				t.Fatalf("flat mode produced height %f", v.Position[2])
			}
		}
	}
}

func TestBuildTextureModeHeights(t *testing.T) {
	black := color.RGBA{A: 255}
	m := Build(Params{Texture: solid(4, 4, black), MaxSize: 4, MaxHeight: 10, AutoDetect: true})
	// g=0 in texture mode sits at -scale*maxHeight.
	h, _ := m.Heights.At(1, 1)
	if h != -10 {
		t.Errorf("black texture corner height = %f, want -10", h)
	}
	if m.Bounds.Min[2] != -10 || m.Bounds.Max[2] != 0 {
		t.Errorf("bounds z = [%f, %f], want [-10, 0]", m.Bounds.Min[2], m.Bounds.Max[2])
	}
}

func TestBuildHeightfieldOverridesTexture(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	m := Build(Params{
		Texture:     solid(4, 4, color.RGBA{A: 255}),
		Heightfield: solid(8, 8, white),
		MaxSize:     4,
		MaxHeight:   10,
		AutoDetect:  false,
	})
	if m.Mode != raster.HeightField {
		t.Errorf("mode = %s, want heightfield", m.Mode)
	}
	// Bright heightfield pixels are inverted to -scale*maxHeight.
	h, _ := m.Heights.At(2, 2)
	if h != -10 {
		t.Errorf("white heightfield corner = %f, want -10", h)
	}
}

func TestBuildSamplesHeightfieldAtItsOwnResolution(t *testing.T) {
	// Red rises with x and green with y, so every source pixel has its own intensity.
	hf := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			hf.SetRGBA(x, y, color.RGBA{R: uint8(x * 17), G: uint8(y * 17), A: 255})
		}
	}
	m := Build(Params{
		Texture:     solid(8, 8, color.RGBA{A: 255}),
		Heightfield: hf,
		MaxSize:     4,
		MaxHeight:   10,
	})
	if m.GridW != 4 || m.GridH != 4 || m.Scale != 0.5 {
		t.Fatalf("grid %dx%d scale %v, want 4x4 scale 0.5", m.GridW, m.GridH, m.Scale)
	}

	hp := raster.HeightParams{Mode: raster.HeightField, Scale: m.Scale, MaxHeight: 10}
	for cy := 0; cy <= m.GridH; cy++ {
		for cx := 0; cx <= m.GridW; cx++ {
			sx, sy := min(cx*16/m.GridW, 15), min(cy*16/m.GridH, 15)
			want := hp.Height(raster.Intensity(hf.RGBAAt(sx, sy)))
			got, ok := m.Heights.At(cx, cy)
			if !ok {
				t.Fatalf("corner (%d,%d) never resolved", cx, cy)
			}
			if math.Abs(float64(got)-want) > 1e-4 {
				t.Errorf("corner (%d,%d) = %v, want %v (source pixel %d,%d)", cx, cy, got, want, sx, sy)
			}
		}
	}
}

func TestBuildCopiesCellColours(t *testing.T) {
	tex := noise(8, 8, 6)
	m := Build(Params{Texture: tex, MaxSize: 4, AutoDetect: true})
	s := raster.Sampler{}
	for ay := range m.GridH {
		for ax := range m.GridW {
			want := s.At(tex, ax, ay, m.GridW, m.GridH)
			got := m.CellColor(ax, ay)
			if got.R != want.R || got.G != want.G || got.B != want.B {
				t.Fatalf("cell (%d,%d) colour %v, want %v", ax, ay, got, want)
			}
		}
	}
}

func TestCornerHeightsResolveOnce(t *testing.T) {
	c := NewCornerHeights(2, 2)
	calls := 0
	eval := func(cx, cy int) float32 {
		calls++
		return float32(cx*10 + cy)
	}

	first := c.Resolve(1, 1, eval)
	second := c.Resolve(1, 1, func(int, int) float32 { return -1 })
	if first != 11 || second != 11 {
		t.Errorf("resolve returned %v then %v, want 11 twice", first, second)
	}
	if calls != 1 || c.Evaluations() != 1 {
		t.Errorf("eval called %d times, evaluations %d; want 1", calls, c.Evaluations())
	}
	if _, ok := c.At(3, 0); ok {
		t.Error("out-of-range corner should not be reported")
	}
	if w, h := c.Size(); w != 3 || h != 3 {
		t.Errorf("size = %dx%d, want 3x3", w, h)
	}
}
