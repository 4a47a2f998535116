package main

import (
	"fmt"

	"github.com/Faultbox/mapview/internal/config"
	"github.com/Faultbox/mapview/internal/engine/capture"
	"github.com/Faultbox/mapview/internal/engine/raster"
	"github.com/Faultbox/mapview/internal/engine/renderer"
	"github.com/Faultbox/mapview/internal/scenefile"
	"github.com/Faultbox/mapview/internal/viewport"
)

// newRenderer creates the frame renderer from the viewport config.
func newRenderer(cfg *config.Config) (*renderer.Renderer, error) {
	v := cfg.Viewport
	return renderer.New(renderer.Config{
		Width:       v.Width,
		Height:      v.Height,
		Background:  config.MustColor(v.Background),
		MarkerColor: config.MustColor(v.MarkerColor),
		LabelColor:  config.MustColor(v.LabelColor),
		LabelSize:   v.LabelSize,
	})
}

// settings converts the viewport config into controller settings.
func settings(cfg *config.Config) viewport.Settings {
	v := cfg.Viewport
	return viewport.Settings{
		MaxTerrainSize:   v.MaxTerrainSize,
		MaxHeight:        v.MaxHeight,
		Distortion:       v.Distortion,
		AutoDetectHeight: v.AutoDetectHeight,
		Filter:           raster.ParseFilter(v.Filter),
		ShowTokens:       v.ShowTokens,
	}
}

func newExporter(cfg *config.Config) *capture.Exporter {
	return capture.NewExporter(cfg.Export.Dir, cfg.Export.Prefix)
}

// applyScene loads the -scene file, if any, into the controller.
func applyScene(c *viewport.Controller) error {
	if *flagScene == "" {
		return nil
	}
	scene, err := scenefile.Load(*flagScene)
	if err != nil {
		return err
	}
	if err := scene.Apply(c); err != nil {
		return fmt.Errorf("applying scene %s: %w", *flagScene, err)
	}
	return nil
}
