package hostlink

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades HTTP requests to hub connections.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewServer creates a websocket endpoint for hub.
func NewServer(hub *Hub) *Server {
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles one websocket connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		hub:  s.hub,
		conn: conn,
		send: make(chan outbound, sendBuffer),
		log:  s.hub.log.With(zap.String("remote", conn.RemoteAddr().String())),
	}
	select {
	case s.hub.register <- c:
	case <-s.hub.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// Mux returns an HTTP handler serving the websocket at /ws.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}
