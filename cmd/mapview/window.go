package main

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/mapview/internal/config"
	"github.com/Faultbox/mapview/internal/engine/camera"
	"github.com/Faultbox/mapview/internal/engine/capture"
	"github.com/Faultbox/mapview/internal/engine/input"
	"github.com/Faultbox/mapview/internal/engine/input/keymap"
	"github.com/Faultbox/mapview/internal/engine/window"
	"github.com/Faultbox/mapview/internal/logger"
	"github.com/Faultbox/mapview/internal/viewport"
)

// windowHost remembers redraw requests until the next loop iteration.
type windowHost struct {
	pending bool
	busy    bool
}

func (h *windowHost) ReportBusy(busy bool) { h.busy = busy }
func (h *windowHost) RequestRedraw()       { h.pending = true }

// dragScale converts dragged pixels to pan units.
const dragScale = 0.1

// runWindow shows the viewport in an SDL window driven by the keyboard.
func runWindow(cfg *config.Config) error {
	keys := keymap.Default()
	if *flagBind != "" {
		for _, b := range strings.Split(*flagBind, ",") {
			if err := keys.Bind(b); err != nil {
				return err
			}
		}
	}

	win, err := window.New(window.Config{
		Title:  "mapview",
		Width:  cfg.Viewport.Width,
		Height: cfg.Viewport.Height,
		VSync:  true,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	host := &windowHost{}
	ctrl := viewport.New(r, settings(cfg), host)
	if err := applyScene(ctrl); err != nil {
		return err
	}
	ctrl.Shown()

	exporter := newExporter(cfg)
	in := input.New()
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for range ticker.C {
		if in.Update() {
			return nil
		}
		for _, ev := range in.Events() {
			if quit := handleEvent(ctrl, exporter, keys, ev); quit {
				return nil
			}
		}

		if !host.pending {
			continue
		}
		host.pending = false
		ctrl.RequestFrame()
		if img, ok := ctrl.ExportImage(); ok {
			if err := win.Present(img); err != nil {
				return err
			}
		}
		win.SetTitle(title(ctrl))
	}
	return nil
}

// handleEvent applies one input event. It returns true to quit.
func handleEvent(ctrl *viewport.Controller, exporter *capture.Exporter, keys keymap.Map, ev input.Event) bool {
	rig := ctrl.Rig()
	switch ev.Type {
	case input.EventWindowResize:
		ctrl.Resize(ev.Width, ev.Height)
	case input.EventWindowShown:
		ctrl.Shown()
	case input.EventWheel:
		ctrl.SetCameraAxis(camera.Zoom, rig.Value(camera.Zoom)-float64(ev.DY)*2)
	case input.EventDrag:
		ctrl.SetCameraAxis(camera.PanX, rig.Value(camera.PanX)+float64(ev.DX)*dragScale)
		ctrl.SetCameraAxis(camera.PanY, rig.Value(camera.PanY)+float64(ev.DY)*dragScale)
	case input.EventKeyDown:
		a, ok := keys.Lookup(ev.Key)
		if !ok {
			return false
		}
		return runAction(ctrl, exporter, a)
	}
	return false
}

func runAction(ctrl *viewport.Controller, exporter *capture.Exporter, a keymap.Action) bool {
	s := ctrl.Settings()
	switch a.Command {
	case keymap.Nudge:
		ctrl.SetCameraAxis(a.Axis, ctrl.Rig().Value(a.Axis)+a.Delta)
	case keymap.ResetCamera:
		ctrl.ResetCamera()
	case keymap.ToggleTokens:
		ctrl.SetShowTokens(!s.ShowTokens)
	case keymap.ToggleAutoDetect:
		ctrl.SetAutoDetectHeight(!s.AutoDetectHeight)
	case keymap.Export:
		img, ok := ctrl.ExportImage()
		if !ok {
			logger.Warn("nothing to export yet")
			return false
		}
		if _, err := exporter.Save(img); err != nil {
			logger.Error("export failed", zap.Error(err))
		}
	case keymap.Quit:
		return true
	}
	return false
}

func title(ctrl *viewport.Controller) string {
	id := "no map"
	if info, ok := ctrl.ActiveMap(); ok {
		id = info.ID
	}
	st := ctrl.Rig().State()
	return fmt.Sprintf("mapview - %s  zoom %.0f  rotate %.0f°  tilt %.0f°", id, st.Zoom, st.Rotate, st.Tilt)
}
