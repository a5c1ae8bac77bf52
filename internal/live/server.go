package live

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes sessions over WebSocket.
type Server struct {
	backend *Backend
	router  chi.Router
	log     *log.Logger
}

func NewServer(b *Backend, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{backend: b, log: logger.With("component", "http")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/live", s.handleLive)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.backend.Hub().Len(),
	})
}

// wsConn serializes writes to one connection.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
	log  *log.Logger
}

func (c *wsConn) send(env Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(env); err != nil {
		c.log.Debug("websocket write", "err", err)
	}
}

func (c *wsConn) sendUpdate(upd *Update, err error) {
	if err != nil {
		c.send(Envelope{Type: TypeError, Error: err.Error()})
		return
	}
	c.send(Envelope{Type: TypeUpdate, Update: upd})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	sess := s.backend.NewSession()
	logger := s.log.With("session", sess.ID, "remote", r.RemoteAddr)
	out := &wsConn{conn: conn, log: logger}

	out.sendUpdate(sess.Start())
	unsubscribe := s.backend.Hub().Subscribe(sess.ID, func() {
		out.sendUpdate(sess.Refresh())
	})
	defer unsubscribe()
	logger.Info("session started")

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read", "err", err)
			}
			logger.Info("session ended")
			return
		}

		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			out.send(Envelope{Type: TypeError, Error: "invalid message format"})
			continue
		}
		if env.Type != TypeEvent {
			out.send(Envelope{Type: TypeError, Error: "unknown message type: " + env.Type})
			continue
		}
		upd, err := sess.HandleEvent(env.Event, env.Payload)
		if err != nil {
			logger.Debug("handle event", "event", env.Event, "err", err)
		}
		out.sendUpdate(upd, err)
	}
}
