package hostlink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/mapview/internal/engine/camera"
	"github.com/Faultbox/mapview/internal/engine/capture"
	"github.com/Faultbox/mapview/internal/engine/raster"
	"github.com/Faultbox/mapview/internal/engine/texture"
	"github.com/Faultbox/mapview/internal/engine/token"
	"github.com/Faultbox/mapview/internal/logger"
	"github.com/Faultbox/mapview/internal/viewport"
)

// request is one inbound message, or the error from parsing it.
type request struct {
	from *client
	env  Envelope
	err  error
}

// Hub owns the viewport controller. All controller calls happen on the
// goroutine running Run; connections only exchange messages with it.
type Hub struct {
	ctrl     *viewport.Controller
	exporter *capture.Exporter

	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	requests   chan request
	done       chan struct{}

	redraw bool // a redraw was requested while handling the current message
	log    *zap.Logger
}

// NewHub creates a hub. Create the controller with the hub as its host and
// hand it over with Attach before calling Run.
func NewHub(exporter *capture.Exporter) *Hub {
	return &Hub{
		exporter:   exporter,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		requests:   make(chan request, 64),
		done:       make(chan struct{}),
		log:        logger.Named("hostlink"),
	}
}

// Attach hands the controller to the hub. Call before Run.
func (h *Hub) Attach(c *viewport.Controller) {
	h.ctrl = c
}

// ReportBusy broadcasts rebuild start and end to every client.
func (h *Hub) ReportBusy(busy bool) {
	h.broadcastJSON(MessageTypeBusy, BusyMessage{Busy: busy})
}

// RequestRedraw marks a frame push as due after the current message.
func (h *Hub) RequestRedraw() {
	h.redraw = true
}

// Run serves requests until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			close(c.send)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.Info("host connected", zap.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
				h.log.Info("host disconnected", zap.Int("clients", len(h.clients)))
			}
		case req := <-h.requests:
			if !h.clients[req.from] {
				continue
			}
			h.serve(req)
		}
	}
}

// serve handles one request and pushes a frame when the controller asked
// for a redraw.
func (h *Hub) serve(req request) {
	if req.err != nil {
		req.from.reply(MessageTypeError, ErrorMessage{Error: req.err.Error()})
		return
	}

	h.redraw = false
	if err := h.dispatch(req); err != nil {
		h.log.Debug("request rejected", zap.String("type", req.env.Type), zap.Error(err))
		req.from.reply(MessageTypeError, ErrorMessage{Error: err.Error()})
		return
	}
	if h.redraw {
		h.redraw = false
		h.ctrl.RequestFrame()
		h.broadcastFrame()
	}
}

func (h *Hub) dispatch(req request) error {
	env := req.env
	switch env.Type {
	case MessageTypeMap:
		var m MapMessage
		if err := env.decode(&m); err != nil {
			return err
		}
		info, err := decodeMap(m)
		if err != nil {
			return err
		}
		h.ctrl.MapActivated(info)

	case MessageTypeGroup:
		var m GroupMessage
		if err := env.decode(&m); err != nil {
			return err
		}
		h.ctrl.GroupMoved(m.Map, m.X, m.Y)

	case MessageTypeToken:
		var m TokenMessage
		if err := env.decode(&m); err != nil {
			return err
		}
		h.ctrl.TokenChanged(token.Token{Name: m.Name, Map: m.Map, X: m.X, Y: m.Y, Z: m.Z, Valid: m.Valid})

	case MessageTypeCamera:
		var m CameraMessage
		if err := env.decode(&m); err != nil {
			return err
		}
		axis, err := camera.ParseAxis(m.Axis)
		if err != nil {
			return err
		}
		h.ctrl.SetCameraAxis(axis, m.Value)

	case MessageTypeReset:
		h.ctrl.ResetCamera()

	case MessageTypeConfig:
		var m ConfigMessage
		if err := env.decode(&m); err != nil {
			return err
		}
		return h.applyConfig(m)

	case MessageTypeFrame:
		h.ctrl.RequestFrame()
		h.sendFrame(req.from)

	case MessageTypeExport:
		img, ok := h.ctrl.ExportImage()
		if !ok {
			return capture.ErrNoFrame
		}
		path, err := h.exporter.Save(img)
		if err != nil {
			return err
		}
		req.from.reply(MessageTypeExported, ExportedMessage{Path: path})

	default:
		return fmt.Errorf("unknown message type %q", env.Type)
	}
	return nil
}

func (h *Hub) applyConfig(m ConfigMessage) error {
	if m.Filter != nil {
		switch *m.Filter {
		case raster.FilterNearest.String(), raster.FilterBilinear.String():
		default:
			return fmt.Errorf("unknown filter %q", *m.Filter)
		}
	}
	if m.MaxTerrainSize != nil {
		h.ctrl.SetMaxTerrainSize(*m.MaxTerrainSize)
	}
	if m.MaxHeight != nil {
		h.ctrl.SetMaxHeight(*m.MaxHeight)
	}
	if m.Distortion != nil {
		h.ctrl.SetDistortion(*m.Distortion)
	}
	if m.AutoDetectHeight != nil {
		h.ctrl.SetAutoDetectHeight(*m.AutoDetectHeight)
	}
	if m.Filter != nil {
		h.ctrl.SetFilter(raster.ParseFilter(*m.Filter))
	}
	if m.ShowTokens != nil {
		h.ctrl.SetShowTokens(*m.ShowTokens)
	}
	return nil
}

func decodeMap(m MapMessage) (viewport.MapInfo, error) {
	if m.ID == "" {
		return viewport.MapInfo{}, fmt.Errorf("map without id")
	}
	tex, err := texture.Decode(m.Texture, m.TextureName)
	if err != nil {
		return viewport.MapInfo{}, fmt.Errorf("map %s texture: %w", m.ID, err)
	}
	info := viewport.MapInfo{
		ID:              m.ID,
		Texture:         tex,
		PixelsPerLeague: m.PixelsPerLeague,
		HeightUnits:     m.HeightUnits,
	}
	if len(m.Heightfield) > 0 {
		hf, err := texture.Decode(m.Heightfield, m.HeightfieldName)
		if err != nil {
			return viewport.MapInfo{}, fmt.Errorf("map %s heightfield: %w", m.ID, err)
		}
		info.Heightfield = hf
	}
	return info, nil
}

func (h *Hub) frameMessage() (outbound, bool) {
	img, ok := h.ctrl.ExportImage()
	if !ok {
		return outbound{}, false
	}
	data, err := capture.EncodePNG(img)
	if err != nil {
		h.log.Error("encoding frame", zap.Error(err))
		return outbound{}, false
	}
	return outbound{kind: websocket.BinaryMessage, data: data}, true
}

func (h *Hub) sendFrame(c *client) {
	if msg, ok := h.frameMessage(); ok {
		c.enqueue(msg)
	}
}

func (h *Hub) broadcastFrame() {
	msg, ok := h.frameMessage()
	if !ok {
		return
	}
	for c := range h.clients {
		c.enqueue(msg)
	}
}

func (h *Hub) broadcastJSON(msgType string, data any) {
	for c := range h.clients {
		c.reply(msgType, data)
	}
}

func jsonBytes(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}
