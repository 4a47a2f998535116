package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Faultbox/mapview/internal/config"
	"github.com/Faultbox/mapview/internal/ui/panel"
	"github.com/Faultbox/mapview/internal/viewport"
)

// runPanel drives the controller from the terminal panel.
func runPanel(cfg *config.Config) error {
	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	host := panel.NewHost()
	ctrl := viewport.New(r, settings(cfg), host)
	if err := applyScene(ctrl); err != nil {
		return err
	}
	ctrl.Shown()

	_, err = tea.NewProgram(panel.New(ctrl, host, newExporter(cfg)), tea.WithAltScreen()).Run()
	return err
}
