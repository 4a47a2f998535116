// Package input turns SDL2 events into viewer events.
package input

import (
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventWindowShown
	EventKeyDown
	EventWheel
	EventDrag
)

// Event is a processed input event.
type Event struct {
	Type EventType
	// Key is the lower-cased scancode name, see keymap.
	Key string
	// Width and Height are set for EventWindowResize.
	Width, Height int
	// DX and DY are the drag distance in pixels or the wheel steps.
	DX, DY int
}

// Input collects the events of one frame.
type Input struct {
	events   []Event
	dragging bool
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls pending SDL events. It returns true once the window is closed.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			case sdl.WINDOWEVENT_SHOWN, sdl.WINDOWEVENT_EXPOSED:
				i.events = append(i.events, Event{Type: EventWindowShown})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  strings.ToLower(sdl.GetScancodeName(e.Keysym.Scancode)),
				})
			}

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{Type: EventWheel, DY: int(e.Y)})

		case *sdl.MouseButtonEvent:
			if e.Button == sdl.BUTTON_LEFT {
				i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			}

		case *sdl.MouseMotionEvent:
			if i.dragging && (e.XRel != 0 || e.YRel != 0) {
				i.events = append(i.events, Event{
					Type: EventDrag,
					DX:   int(e.XRel),
					DY:   int(e.YRel),
				})
			}
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
