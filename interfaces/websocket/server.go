package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades HTTP requests into presence connections. Identity comes
// from the query string; access control is handled upstream of this service.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// ServerConfig holds WebSocket server configuration
type ServerConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultServerConfig returns default WebSocket server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Origin checking is deferred to the deployment's proxy
			return true
		},
	}
}

// NewServer creates a new WebSocket server
func NewServer(hub *Hub, config *ServerConfig, logger *zap.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: logger,
	}
}

// HandleWebSocket handles WebSocket upgrade requests. The project and user
// are required; username and color default when absent.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projectID := q.Get("project_id")
	userID := q.Get("user_id")
	if projectID == "" || userID == "" {
		http.Error(w, "project_id and user_id are required", http.StatusBadRequest)
		return
	}
	username := q.Get("username")
	if username == "" {
		username = "anonymous"
	}
	color := q.Get("color")
	if color == "" {
		color = "#888888"
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection",
			zap.Error(err),
			zap.String("remote_addr", r.RemoteAddr))
		return
	}

	client := NewClient(projectID, userID, username, color, s.hub, conn, s.logger)
	client.Start()

	s.logger.Info("websocket connection established",
		zap.String("project_id", projectID),
		zap.String("user_id", userID),
		zap.String("remote_addr", r.RemoteAddr))
}
