// Package renderer draws the terrain batch and token overlay into a software
// framebuffer and captures the finished frame.
package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/Faultbox/mapview/internal/engine/framebuffer"
	"github.com/Faultbox/mapview/internal/logger"
	"github.com/Faultbox/mapview/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	Background  color.RGBA
	MarkerColor color.RGBA
	LabelColor  color.RGBA
	LabelSize   float64 // points at 72 DPI
}

// Stats counts the work done for the last frame.
type Stats struct {
	Triangles int
	Fragments int
	Glyphs    int
}

// Renderer owns the framebuffer and the label font.
type Renderer struct {
	config Config
	fb     *framebuffer.Framebuffer
	face   font.Face
	stats  Stats
}

// New creates a new renderer.
func New(cfg Config) (*Renderer, error) {
	if cfg.LabelSize <= 0 {
		cfg.LabelSize = 14
	}

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing label font: %w", err)
	}

	r := &Renderer{
		config: cfg,
		fb:     framebuffer.New(cfg.Width, cfg.Height),
		face: truetype.NewFace(ttf, &truetype.Options{
			Size:    cfg.LabelSize,
			DPI:     72,
			Hinting: font.HintingFull,
		}),
	}

	w, h := r.fb.Size()
	logger.Debug("renderer initialized",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Float64("labelSize", cfg.LabelSize),
	)
	return r, nil
}

// Close releases the font face.
func (r *Renderer) Close() {
	if r.face != nil {
		_ = r.face.Close()
	}
}

// Resize handles output size changes.
func (r *Renderer) Resize(width, height int) {
	r.fb.Resize(width, height)
	r.config.Width, r.config.Height = r.fb.Size()
	logger.Debug("renderer resized",
		zap.Int("width", r.config.Width),
		zap.Int("height", r.config.Height),
	)
}

// Size returns the output dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.fb.Size()
}

// Aspect returns the output aspect ratio.
func (r *Renderer) Aspect() float32 {
	return r.fb.Aspect()
}

// Begin starts a new frame by clearing to the background colour.
func (r *Renderer) Begin() {
	r.stats = Stats{}
	r.fb.Clear(r.config.Background)
}

// DrawBatch draws the precompiled terrain. A nil batch draws nothing.
func (r *Renderer) DrawBatch(b *Batch, viewProj math.Mat4) {
	if b == nil {
		return
	}
	for i := range b.Triangles {
		t := &b.Triangles[i]
		r.drawTriangle(viewProj, t.Pos, t.Color)
	}
}

// Capture returns a copy of the finished frame.
func (r *Renderer) Capture() *image.RGBA {
	return r.fb.ReadPixels()
}

// Stats returns counters for the last frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}
