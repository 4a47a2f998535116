// Package framebuffer provides the software render target: a colour image
// plus a depth buffer of the same size.
package framebuffer

import (
	"image"
	"image/color"
	"math"
)

// Framebuffer is an offscreen render target with colour and depth attachments.
type Framebuffer struct {
	width  int
	height int
	color  *image.RGBA
	depth  []float32
}

// New creates a new framebuffer with the specified dimensions.
func New(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize updates the framebuffer dimensions if they have changed.
// The contents are undefined until the next Clear.
func (fb *Framebuffer) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if fb.color != nil && width == fb.width && height == fb.height {
		return
	}

	fb.width = width
	fb.height = height
	fb.color = image.NewRGBA(image.Rect(0, 0, width, height))
	fb.depth = make([]float32, width*height)
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int) {
	return fb.width, fb.height
}

// Aspect returns width / height.
func (fb *Framebuffer) Aspect() float32 {
	return float32(fb.width) / float32(fb.height)
}

// Clear fills the colour attachment and resets depth to the far plane.
func (fb *Framebuffer) Clear(c color.RGBA) {
	pix := fb.color.Pix
	if len(pix) >= 4 {
		pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
		for i := 4; i < len(pix); i *= 2 {
			copy(pix[i:], pix[:i])
		}
	}

	if n := len(fb.depth); n > 0 {
		fb.depth[0] = math.MaxFloat32
		for i := 1; i < n; i *= 2 {
			copy(fb.depth[i:], fb.depth[:i])
		}
	}
}

// DepthTest reports whether z is nearer than the stored depth at (x, y) and,
// if so, stores it.
func (fb *Framebuffer) DepthTest(x, y int, z float32) bool {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return false
	}
	i := y*fb.width + x
	if z >= fb.depth[i] {
		return false
	}
	fb.depth[i] = z
	return true
}

// Depth returns the stored depth at (x, y).
func (fb *Framebuffer) Depth(x, y int) float32 {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return math.MaxFloat32
	}
	return fb.depth[y*fb.width+x]
}

// SetPixel writes a colour without touching depth.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return
	}
	i := fb.color.PixOffset(x, y)
	p := fb.color.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Pixel returns the colour at (x, y).
func (fb *Framebuffer) Pixel(x, y int) color.RGBA {
	return fb.color.RGBAAt(x, y)
}

// Image returns the live colour attachment. Overlays draw into it directly.
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.color
}

// ReadPixels returns a copy of the colour attachment.
func (fb *Framebuffer) ReadPixels() *image.RGBA {
	out := image.NewRGBA(fb.color.Rect)
	copy(out.Pix, fb.color.Pix)
	return out
}
