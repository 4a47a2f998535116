// Package window shows rendered frames in an SDL2 window.
package window

import (
	"fmt"
	"image"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/mapview/internal/logger"
)

func init() {
	// SDL video calls must stay on the main thread.
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window owns the SDL window, its renderer and the streaming texture frames
// are copied into.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	renderer  *sdl.Renderer
	texture   *sdl.Texture
	texW      int
	texH      int
}

// New opens a window.
func New(cfg Config) (*Window, error) {
	w := &Window{config: cfg}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	flags := uint32(sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	rflags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		rflags |= sdl.RENDERER_PRESENTVSYNC
	}
	w.renderer, err = sdl.CreateRenderer(w.sdlWindow, -1, rflags)
	if err != nil {
		logger.Warn("accelerated renderer unavailable, falling back to software", zap.Error(err))
		w.renderer, err = sdl.CreateRenderer(w.sdlWindow, -1, uint32(sdl.RENDERER_SOFTWARE))
	}
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and shuts SDL down.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.texture != nil {
		_ = w.texture.Destroy()
	}
	if w.renderer != nil {
		_ = w.renderer.Destroy()
	}
	if w.sdlWindow != nil {
		_ = w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// Present uploads an RGBA frame and shows it, stretched to the window.
func (w *Window) Present(img *image.RGBA) error {
	b := img.Bounds()
	if err := w.ensureTexture(b.Dx(), b.Dy()); err != nil {
		return err
	}

	pixels, pitch, err := w.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("lock texture: %w", err)
	}
	rowBytes := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+rowBytes]
		copy(pixels[y*pitch:y*pitch+rowBytes], src)
	}
	w.texture.Unlock()

	if err := w.renderer.Clear(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return fmt.Errorf("copy texture: %w", err)
	}
	w.renderer.Present()
	return nil
}

// ensureTexture recreates the streaming texture when the frame size changes.
func (w *Window) ensureTexture(width, height int) error {
	if w.texture != nil && w.texW == width && w.texH == height {
		return nil
	}
	if w.texture != nil {
		_ = w.texture.Destroy()
		w.texture = nil
	}

	// ABGR8888 matches image.RGBA byte order on little-endian hosts.
	tex, err := w.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), sdl.TEXTUREACCESS_STREAMING, int32(width), int32(height))
	if err != nil {
		return fmt.Errorf("create texture %dx%d: %w", width, height, err)
	}
	w.texture, w.texW, w.texH = tex, width, height
	return nil
}

// GetSize returns the current window size.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}
