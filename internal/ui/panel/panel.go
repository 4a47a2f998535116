// Package panel is the terminal control panel: five camera sliders, the two
// terrain flags, camera reset and frame export.
package panel

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Faultbox/mapview/internal/engine/camera"
	"github.com/Faultbox/mapview/internal/engine/capture"
	"github.com/Faultbox/mapview/internal/logger"
	"github.com/Faultbox/mapview/internal/viewport"
)

// Rows after the five camera sliders.
const (
	rowAutoDetect = len(camera.Axes) + iota
	rowShowTokens
	rowCount
)

const (
	sliderWidth = 20
	smallStep   = 1
	largeStep   = 10
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	busyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
	sectionStyle = lipgloss.NewStyle().Padding(0, 1)
)

// Host collects controller notifications for the panel.
type Host struct {
	pending bool
	busy    bool
}

// NewHost creates the host to pass to viewport.New.
func NewHost() *Host {
	return &Host{}
}

// ReportBusy records whether a rebuild is running.
func (h *Host) ReportBusy(busy bool) {
	h.busy = busy
}

// RequestRedraw marks a frame as due.
func (h *Host) RequestRedraw() {
	h.pending = true
}

// Model is the bubbletea model of the panel.
type Model struct {
	ctrl     *viewport.Controller
	host     *Host
	exporter *capture.Exporter
	copyText func(string) error

	focus  int
	status string
	width  int
}

// New creates the panel model. host must be the controller's host.
func New(ctrl *viewport.Controller, host *Host, exporter *capture.Exporter) *Model {
	return &Model{
		ctrl:     ctrl,
		host:     host,
		exporter: exporter,
		copyText: clipboard.WriteAll,
	}
}

// Init renders the first frame.
func (m *Model) Init() tea.Cmd {
	m.host.pending = true
	m.flush()
	return nil
}

// Update handles key presses.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.focus = (m.focus + rowCount - 1) % rowCount
		case "down", "j", "tab":
			m.focus = (m.focus + 1) % rowCount
		case "left", "h":
			m.nudge(-smallStep)
		case "right", "l":
			m.nudge(smallStep)
		case "pgdown", "H":
			m.nudge(-largeStep)
		case "pgup", "L":
			m.nudge(largeStep)
		case " ", "enter":
			m.toggle()
		case "r":
			m.ctrl.ResetCamera()
			m.status = "camera reset"
		case "e":
			m.export()
		}
		m.flush()
	}
	return m, nil
}

// nudge moves the focused slider.
func (m *Model) nudge(delta float64) {
	if m.focus >= len(camera.Axes) {
		return
	}
	axis := camera.Axes[m.focus]
	m.ctrl.SetCameraAxis(axis, m.ctrl.Rig().Value(axis)+delta)
}

// toggle flips the focused flag.
func (m *Model) toggle() {
	s := m.ctrl.Settings()
	switch m.focus {
	case rowAutoDetect:
		m.ctrl.SetAutoDetectHeight(!s.AutoDetectHeight)
	case rowShowTokens:
		m.ctrl.SetShowTokens(!s.ShowTokens)
	}
}

// export saves the last frame and copies its path to the clipboard.
func (m *Model) export() {
	img, ok := m.ctrl.ExportImage()
	if !ok {
		m.status = "nothing to export yet"
		return
	}
	path, err := m.exporter.Save(img)
	if err != nil {
		logger.Error("export failed", zap.Error(err))
		m.status = "export failed: " + err.Error()
		return
	}
	m.status = "exported " + path
	if err := m.copyText(path); err != nil {
		logger.Debug("clipboard unavailable", zap.Error(err))
		return
	}
	m.status += " (path copied)"
}

// flush renders a frame if the controller asked for one.
func (m *Model) flush() {
	if !m.host.pending {
		return
	}
	m.host.pending = false
	m.ctrl.RequestFrame()
}

// View renders the panel.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mapview"))
	b.WriteString("\n\n")

	for i, axis := range camera.Axes {
		b.WriteString(m.row(i, fmt.Sprintf("%-8s %s %3.0f", axis, slider(m.ctrl.Rig().Value(axis)), m.ctrl.Rig().Value(axis))))
	}
	s := m.ctrl.Settings()
	b.WriteString(m.row(rowAutoDetect, "height   "+checkbox(s.AutoDetectHeight)+" auto-detect"))
	b.WriteString(m.row(rowShowTokens, "tokens   "+checkbox(s.ShowTokens)+" show"))

	b.WriteString("\n")
	b.WriteString(m.summary())
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("↑/↓ select  ←/→ adjust  PgUp/PgDn ×10  space toggle  r reset  e export  q quit"))

	return sectionStyle.Render(b.String())
}

func (m *Model) row(i int, text string) string {
	if i == m.focus {
		return focusStyle.Render("> "+text) + "\n"
	}
	return "  " + text + "\n"
}

func (m *Model) summary() string {
	mapID := "none"
	if info, ok := m.ctrl.ActiveMap(); ok {
		mapID = info.ID
	}
	line := fmt.Sprintf("map %s  state %s  rebuilds %d  triangles %d",
		mapID, m.ctrl.State(), m.ctrl.Rebuilds(), m.ctrl.Batch().Len())
	if m.host.busy {
		line += "  " + busyStyle.Render("building…")
	}
	return dimStyle.Render(line)
}

func slider(v float64) string {
	filled := int(v / 100 * sliderWidth)
	filled = min(max(filled, 0), sliderWidth)
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", sliderWidth-filled) + "]"
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
