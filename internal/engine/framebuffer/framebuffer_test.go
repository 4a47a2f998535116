package framebuffer

import (
	"image/color"
	"testing"
)

func TestNewClampsSize(t *testing.T) {
	fb := New(0, -5)
	if w, h := fb.Size(); w != 1 || h != 1 {
		t.Errorf("expected 1x1, got %dx%d", w, h)
	}
}

func TestClearFillsColourAndDepth(t *testing.T) {
	fb := New(7, 5)
	bg := color.RGBA{10, 20, 30, 255}
	fb.Clear(bg)
	for y := range 5 {
		for x := range 7 {
			if got := fb.Pixel(x, y); got != bg {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, bg)
			}
			if !fb.DepthTest(x, y, 1e30) {
				t.Fatalf("depth at (%d,%d) not cleared", x, y)
			}
		}
	}
}

func TestDepthTestKeepsNearest(t *testing.T) {
	fb := New(2, 2)
	fb.Clear(color.RGBA{})
	if !fb.DepthTest(1, 1, 0.5) {
		t.Fatal("first write should pass")
	}
	if fb.DepthTest(1, 1, 0.7) {
		t.Error("farther fragment should fail")
	}
	if !fb.DepthTest(1, 1, 0.2) {
		t.Error("nearer fragment should pass")
	}
	if fb.Depth(1, 1) != 0.2 {
		t.Errorf("expected stored depth 0.2, got %v", fb.Depth(1, 1))
	}
	if fb.DepthTest(5, 0, 0) {
		t.Error("out-of-bounds test should fail")
	}
}

func TestReadPixelsCopies(t *testing.T) {
	fb := New(3, 3)
	fb.Clear(color.RGBA{A: 255})
	fb.SetPixel(1, 1, color.RGBA{R: 200, A: 255})

	snap := fb.ReadPixels()
	fb.SetPixel(1, 1, color.RGBA{G: 200, A: 255})

	if got := snap.RGBAAt(1, 1); got.R != 200 || got.G != 0 {
		t.Errorf("snapshot changed with the framebuffer: %v", got)
	}
}

func TestResizeKeepsBuffersWhenUnchanged(t *testing.T) {
	fb := New(4, 4)
	img := fb.Image()
	fb.Resize(4, 4)
	if fb.Image() != img {
		t.Error("resize to the same size should not reallocate")
	}
	fb.Resize(8, 2)
	if w, h := fb.Size(); w != 8 || h != 2 {
		t.Errorf("expected 8x2, got %dx%d", w, h)
	}
}
