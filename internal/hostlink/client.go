package hostlink

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 20 // map images travel inline
	sendBuffer     = 16
)

// outbound is one queued websocket message.
type outbound struct {
	kind int // websocket.TextMessage or websocket.BinaryMessage
	data []byte
}

// client is one websocket connection. Only writePump writes to conn.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan outbound
	log  *zap.Logger
}

// readPump forwards inbound messages to the hub until the connection drops.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		env, err := ParseEnvelope(data)
		select {
		case c.hub.requests <- request{from: c, env: env, err: err}:
		case <-c.hub.done:
			return
		}
	}
}

// writePump drains the send queue and keeps the connection alive.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
				c.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reply queues a JSON message. Called only from the hub goroutine; slow
// clients drop messages rather than stalling the hub.
func (c *client) reply(msgType string, data any) {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		c.log.Error("encoding reply", zap.Error(err))
		return
	}
	raw, err := jsonBytes(env)
	if err != nil {
		c.log.Error("encoding reply", zap.Error(err))
		return
	}
	c.enqueue(outbound{kind: websocket.TextMessage, data: raw})
}

func (c *client) enqueue(msg outbound) {
	select {
	case c.send <- msg:
	default:
		c.log.Warn("client send queue full, dropping message")
	}
}
