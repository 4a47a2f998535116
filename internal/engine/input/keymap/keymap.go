// Package keymap binds key names to viewport actions. Key names are the
// lower-cased SDL scancode names ("left", "page up", "r").
package keymap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/mapview/internal/engine/camera"
)

// Command is what a bound key does.
type Command int

const (
	None Command = iota
	Nudge
	ResetCamera
	Export
	ToggleTokens
	ToggleAutoDetect
	Quit
)

var commandNames = [...]string{"none", "nudge", "reset", "export", "toggle_tokens", "toggle_auto_detect", "quit"}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandNames[c]
}

// Action is a bound command. Axis and Delta are used by Nudge only.
type Action struct {
	Command Command
	Axis    camera.Axis
	Delta   float64
}

// Map maps key names to actions.
type Map map[string]Action

// Default returns the built-in bindings.
//
//	arrows        pan
//	page up/down  zoom
//	a / d         rotate
//	w / s         tilt
//	r             reset camera
//	p             export frame
//	t             show/hide tokens
//	h             auto-detect height
//	escape        quit
func Default() Map {
	return Map{
		"left":      {Command: Nudge, Axis: camera.PanX, Delta: -1},
		"right":     {Command: Nudge, Axis: camera.PanX, Delta: 1},
		"up":        {Command: Nudge, Axis: camera.PanY, Delta: -1},
		"down":      {Command: Nudge, Axis: camera.PanY, Delta: 1},
		"page up":   {Command: Nudge, Axis: camera.Zoom, Delta: -5},
		"page down": {Command: Nudge, Axis: camera.Zoom, Delta: 5},
		"a":         {Command: Nudge, Axis: camera.Rotate, Delta: -1},
		"d":         {Command: Nudge, Axis: camera.Rotate, Delta: 1},
		"w":         {Command: Nudge, Axis: camera.Tilt, Delta: 1},
		"s":         {Command: Nudge, Axis: camera.Tilt, Delta: -1},
		"r":         {Command: ResetCamera},
		"p":         {Command: Export},
		"t":         {Command: ToggleTokens},
		"h":         {Command: ToggleAutoDetect},
		"escape":    {Command: Quit},
	}
}

// Lookup returns the action bound to a key name.
func (m Map) Lookup(key string) (Action, bool) {
	a, ok := m[strings.ToLower(strings.TrimSpace(key))]
	return a, ok && a.Command != None
}

// Bind parses "key=axis:delta" or "key=command" and adds it to the map.
func (m Map) Bind(binding string) error {
	key, value, ok := strings.Cut(binding, "=")
	key = strings.ToLower(strings.TrimSpace(key))
	if !ok || key == "" {
		return fmt.Errorf("keymap: malformed binding %q", binding)
	}
	value = strings.TrimSpace(value)

	if name, delta, ok := strings.Cut(value, ":"); ok {
		axis, err := camera.ParseAxis(strings.TrimSpace(name))
		if err != nil {
			return fmt.Errorf("keymap: binding %q: %w", binding, err)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(delta), 64)
		if err != nil {
			return fmt.Errorf("keymap: binding %q: bad step: %w", binding, err)
		}
		m[key] = Action{Command: Nudge, Axis: axis, Delta: d}
		return nil
	}

	for i, n := range commandNames {
		if n == value && Command(i) != Nudge {
			m[key] = Action{Command: Command(i)}
			return nil
		}
	}
	return fmt.Errorf("keymap: binding %q: unknown command %q", binding, value)
}
