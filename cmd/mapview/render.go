package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/mapview/internal/config"
	"github.com/Faultbox/mapview/internal/engine/capture"
	"github.com/Faultbox/mapview/internal/logger"
	"github.com/Faultbox/mapview/internal/viewport"
)

// runRender renders the scene once and writes the frame as PNG.
func runRender(cfg *config.Config) error {
	if *flagScene == "" {
		return fmt.Errorf("-mode render needs -scene")
	}

	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	ctrl := viewport.New(r, settings(cfg), viewport.NopHost{})
	if err := applyScene(ctrl); err != nil {
		return err
	}
	ctrl.RequestFrame()

	img, ok := ctrl.ExportImage()
	if !ok {
		return capture.ErrNoFrame
	}

	path := *flagOut
	if path == "" {
		path, err = newExporter(cfg).Save(img)
		if err != nil {
			return err
		}
	} else {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := capture.WritePNG(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	logger.Info("frame written", zap.String("path", path), zap.Int("rebuilds", ctrl.Rebuilds()))
	return nil
}
