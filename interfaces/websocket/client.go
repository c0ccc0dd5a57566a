package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/valueobjects"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// Send buffer size
	sendBufferSize = 256
)

// Client is one user's WebSocket connection into a project's presence room
type Client struct {
	id        string
	projectID string
	userID    string
	username  string
	color     string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	logger    *zap.Logger
}

// NewClient creates a new presence client
func NewClient(projectID, userID, username, color string, hub *Hub, conn *websocket.Conn, logger *zap.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:        id,
		projectID: projectID,
		userID:    userID,
		username:  username,
		color:     color,
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		logger: logger.With(
			zap.String("project_id", projectID),
			zap.String("user_id", userID),
			zap.String("connection_id", id),
		),
	}
}

// Start registers with the hub and begins the read and write pumps
func (c *Client) Start() {
	c.hub.register <- c

	go c.writePump()
	go c.readPump()

	c.sendWelcome()
}

// readPump pumps presence updates from the connection into the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.handleMessage(message)
	}
}

// writePump pumps hub broadcasts out to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			// Drain whatever else queued up while we were writing
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(message []byte) {
	var in inbound
	if err := json.Unmarshal(message, &in); err != nil {
		c.logger.Debug("malformed presence message", zap.Error(err))
		return
	}

	switch in.Type {
	case messageCursor:
		var p cursorPayload
		if json.Unmarshal(in.Payload, &p) != nil {
			return
		}
		c.hub.PublishCursor(c.projectID, ports.CursorState{
			UserID:   c.userID,
			Username: c.username,
			Color:    c.color,
			X:        p.X,
			Y:        p.Y,
		})

	case messageDrag:
		var p dragPayload
		if json.Unmarshal(in.Payload, &p) != nil {
			return
		}
		c.hub.PublishDrag(c.projectID, ports.DragState{
			UserID:   c.userID,
			Username: c.username,
			Color:    c.color,
			ObjectID: p.ObjectID,
			X:        p.X,
			Y:        p.Y,
		})

	case messageSelection:
		var p selectionPayload
		if json.Unmarshal(in.Payload, &p) != nil {
			return
		}
		c.hub.PublishSelection(c.projectID, c.userID, c.username, c.color, p.ObjectIDs)

	case messageResize:
		var p resizePayload
		if json.Unmarshal(in.Payload, &p) != nil {
			return
		}
		c.hub.PublishResize(c.projectID, ports.ResizeState{
			UserID:        c.userID,
			Username:      c.username,
			Color:         c.color,
			ObjectID:      p.ObjectID,
			CurrentBounds: valueobjects.NewBounds(p.X, p.Y, p.Width, p.Height),
			Handle:        p.Handle,
		})

	default:
		c.logger.Debug("unknown presence message", zap.String("type", in.Type))
	}
}

// sendWelcome pushes the connection ack and the current room state so a new
// peer renders existing cursors immediately
func (c *Client) sendWelcome() {
	welcome := mustRaw(map[string]string{
		"connectionId": c.id,
		"userId":       c.userID,
	})
	c.enqueue(envelope{
		Type:      messageWelcome,
		ProjectID: c.projectID,
		UserID:    c.userID,
		Payload:   welcome,
		Timestamp: time.Now().UnixMilli(),
	})

	peers := c.hub.List(c.projectID, c.userID)
	if len(peers) == 0 {
		return
	}
	c.enqueue(envelope{
		Type:      messageSnapshot,
		ProjectID: c.projectID,
		UserID:    c.userID,
		Payload:   mustRaw(peers),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (c *Client) enqueue(env envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping message", zap.String("type", env.Type))
	}
}
