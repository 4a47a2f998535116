package config

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Texture filter names accepted in viewport.filter.
const (
	FilterNearest  = "nearest"
	FilterBilinear = "bilinear"
)

// ErrMalformed marks a configuration that cannot be used to start the viewer.
var ErrMalformed = errors.New("malformed configuration")

// Validate checks numeric ranges and colour strings.
// Distortion is clamped rather than rejected.
func (c *Config) Validate() error {
	v := &c.Viewport

	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrMalformed, v.Width, v.Height)
	}
	if v.MaxTerrainSize <= 0 {
		return fmt.Errorf("%w: max_terrain_size %d", ErrMalformed, v.MaxTerrainSize)
	}
	if v.MaxHeight < 0 {
		return fmt.Errorf("%w: max_height %d", ErrMalformed, v.MaxHeight)
	}
	if v.LabelSize <= 0 {
		return fmt.Errorf("%w: label_size %g", ErrMalformed, v.LabelSize)
	}
	switch v.Filter {
	case FilterNearest, FilterBilinear:
	case "":
		v.Filter = FilterNearest
	default:
		return fmt.Errorf("%w: unknown filter %q", ErrMalformed, v.Filter)
	}

	v.Distortion = ClampDistortion(v.Distortion)

	for name, hex := range map[string]string{
		"background":   v.Background,
		"marker_color": v.MarkerColor,
		"label_color":  v.LabelColor,
	} {
		if _, err := ParseColor(hex); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
		}
	}

	return nil
}

// ClampDistortion limits the distortion factor to [0,1].
func ClampDistortion(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// ParseColor parses a "#rrggbb" string into an opaque colour.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustColor parses a colour that Validate already accepted.
func MustColor(hex string) color.RGBA {
	c, err := ParseColor(hex)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return c
}
