// Package viewport orchestrates the map viewport: it owns the camera rig,
// the live token set and the cached terrain batch, and decides per frame
// whether the terrain must be rebuilt or only re-drawn from a new camera.
package viewport

import (
	"image"

	"github.com/Faultbox/mapview/internal/engine/raster"
)

// State is the lifecycle state of the viewport.
type State uint8

const (
	// StateEmpty means no map is active.
	StateEmpty State = iota
	// StateDirty means the cached terrain is stale.
	StateDirty
	// StateReady means the cached terrain matches the current inputs.
	StateReady
)

// String returns a short name for logs.
func (s State) String() string {
	switch s {
	case StateDirty:
		return "dirty"
	case StateReady:
		return "ready"
	default:
		return "empty"
	}
}

// Redraw says how much work the next frame needs.
type Redraw uint8

const (
	// RedrawCamera re-draws the cached batch from the current camera.
	RedrawCamera Redraw = iota
	// RedrawFull rebuilds the terrain before drawing.
	RedrawFull
)

// String returns a short name for logs.
func (r Redraw) String() string {
	if r == RedrawFull {
		return "full"
	}
	return "camera"
}

// Host is the surrounding application the viewport reports to.
type Host interface {
	// ReportBusy brackets a terrain rebuild so the host can show a wait indicator.
	ReportBusy(busy bool)
	// RequestRedraw asks the host to call RequestFrame soon.
	RequestRedraw()
}

// NopHost ignores every notification.
type NopHost struct{}

func (NopHost) ReportBusy(bool) {}
func (NopHost) RequestRedraw()  {}

// MapInfo describes one map announced by the host.
// The images are treated as immutable once handed over.
type MapInfo struct {
	ID              string
	Texture         *image.RGBA
	Heightfield     *image.RGBA // optional
	PixelsPerLeague float64
	HeightUnits     int // overrides the configured max height when > 0
}

// Settings are the terrain parameters read at rebuild time.
type Settings struct {
	MaxTerrainSize   int
	MaxHeight        int
	Distortion       float64
	AutoDetectHeight bool
	Filter           raster.Filter
	ShowTokens       bool
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		MaxTerrainSize:   256,
		MaxHeight:        40,
		Distortion:       0.5,
		AutoDetectHeight: true,
		Filter:           raster.FilterNearest,
		ShowTokens:       true,
	}
}
