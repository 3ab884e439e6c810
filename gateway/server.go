package gateway

import (
	"chat-gateway/auth"
	"chat-gateway/domain"
	"chat-gateway/runtime"
	"context"
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Server upgrades HTTP requests to WebSocket connections and bridges them to the runtime gateway.
type Server struct {
	log      *slog.Logger
	gateway  *runtime.Gateway
	cfg      Config
	filter   ContentFilter
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[domain.ConnectionID]*Connection
}

// NewServer builds a Server. filter may be nil to disable content rewriting.
func NewServer(log *slog.Logger, gw *runtime.Gateway, cfg Config, filter ContentFilter) *Server {
	policy := newOriginPolicy(cfg.AllowedOrigins, log)
	return &Server{
		log:     log,
		gateway: gw,
		cfg:     cfg,
		filter:  filter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     policy.check,
		},
		conns: make(map[domain.ConnectionID]*Connection),
	}
}

// HandleWS serves one connection for its whole lifetime.
func (s *Server) HandleWS(c *gin.Context) {
	token := auth.ExtractToken(c.Request)
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Debug("WebSocket upgrade refused", "remote", c.ClientIP(), "error", err)
		return
	}

	// Handlers outlive the upgrade request.
	ctx := context.WithoutCancel(c.Request.Context())
	conn := newConnection(domain.ConnectionID(uuid.NewString()), ws, s.cfg, s.log)
	go conn.writePump()

	session, err := s.gateway.Connect(ctx, conn.id, token, conn)
	if err != nil {
		conn.Close()
		return
	}

	s.track(conn)
	defer func() {
		s.untrack(conn)
		conn.Close()
		s.gateway.Disconnect(ctx, conn.id)
	}()

	// The write pump closes the socket after Close, which ends the read pump.
	conn.readPump(func(raw []byte) { s.dispatch(ctx, session, raw) })
}

// CloseAll closes every tracked connection. Each one then runs its disconnect path.
func (s *Server) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.conns {
		conn.Close()
	}
}

func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) track(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn.id] = conn
}

func (s *Server) untrack(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn.id)
}
