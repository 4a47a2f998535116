// Package hostlink bridges a remote plugin host to the viewport over a
// websocket. Every connection shares one controller owned by the hub goroutine.
package hostlink

import (
	"encoding/json"
	"fmt"
)

// Inbound message types.
const (
	MessageTypeMap    = "map"
	MessageTypeGroup  = "group"
	MessageTypeToken  = "token"
	MessageTypeCamera = "camera"
	MessageTypeReset  = "reset"
	MessageTypeConfig = "config"
	MessageTypeFrame  = "frame"
	MessageTypeExport = "export"
)

// Outbound message types. Frames travel as binary PNG messages.
const (
	MessageTypeBusy     = "busy"
	MessageTypeError    = "error"
	MessageTypeExported = "exported"
)

// Envelope wraps every JSON message.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MapMessage announces a map. Images are encoded files (PNG, TGA, ...),
// base64 in JSON; the names only select the decoder.
type MapMessage struct {
	ID              string  `json:"id"`
	Texture         []byte  `json:"texture"`
	TextureName     string  `json:"texture_name,omitempty"`
	Heightfield     []byte  `json:"heightfield,omitempty"`
	HeightfieldName string  `json:"heightfield_name,omitempty"`
	PixelsPerLeague float64 `json:"pixels_per_league"`
	HeightUnits     int     `json:"height_units,omitempty"`
}

// GroupMessage reports the character group position.
type GroupMessage struct {
	Map string  `json:"map"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// TokenMessage announces or retracts a token.
type TokenMessage struct {
	Name  string  `json:"name"`
	Map   string  `json:"map"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Valid bool    `json:"valid"`
}

// CameraMessage moves one camera axis.
type CameraMessage struct {
	Axis  string  `json:"axis"`
	Value float64 `json:"value"`
}

// ConfigMessage changes terrain settings. Absent fields are left alone.
type ConfigMessage struct {
	MaxTerrainSize   *int     `json:"max_terrain_size,omitempty"`
	MaxHeight        *int     `json:"max_height,omitempty"`
	Distortion       *float64 `json:"distortion,omitempty"`
	AutoDetectHeight *bool    `json:"auto_detect_height,omitempty"`
	Filter           *string  `json:"filter,omitempty"`
	ShowTokens       *bool    `json:"show_tokens,omitempty"`
}

// BusyMessage brackets a terrain rebuild.
type BusyMessage struct {
	Busy bool `json:"busy"`
}

// ErrorMessage reports a rejected request.
type ErrorMessage struct {
	Error string `json:"error"`
}

// ExportedMessage reports where an exported frame was written.
type ExportedMessage struct {
	Path string `json:"path"`
}

// NewEnvelope marshals data under the given type.
func NewEnvelope(msgType string, data any) (Envelope, error) {
	env := Envelope{Type: msgType}
	if data == nil {
		return env, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshaling %s: %w", msgType, err)
	}
	env.Data = raw
	return env, nil
}

// ParseEnvelope decodes one inbound JSON message.
func ParseEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("parsing message: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("message without type")
	}
	return env, nil
}

// decode unmarshals the payload into v.
func (e Envelope) decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%s: missing data", e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("%s: %w", e.Type, err)
	}
	return nil
}
