package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/pkg/observability"
)

// Hub maintains the per-project presence rooms. Each room tracks its
// connected clients and the last presence state every user broadcast.
// Nothing here is persisted: a user's state lives exactly as long as their
// connection, plus whatever peers tolerate through the staleness filter.
type Hub struct {
	rooms map[string]*room
	mu    sync.RWMutex

	register   chan *Client
	unregister chan *Client

	staleness time.Duration
	stalemu   sync.RWMutex

	ctx     context.Context
	cancel  context.CancelFunc
	logger  *zap.Logger
	metrics *observability.Collector
}

// room is one project's presence scope
type room struct {
	clients    map[*Client]bool
	cursors    map[string]ports.CursorState
	drags      map[string]ports.DragState
	selections map[string][]ports.RemoteSelection
	resizes    map[string]ports.ResizeState
}

func newRoom() *room {
	return &room{
		clients:    make(map[*Client]bool),
		cursors:    make(map[string]ports.CursorState),
		drags:      make(map[string]ports.DragState),
		selections: make(map[string][]ports.RemoteSelection),
		resizes:    make(map[string]ports.ResizeState),
	}
}

// NewHub creates a new presence hub
func NewHub(staleness time.Duration, metrics *observability.Collector, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		rooms:      make(map[string]*room),
		register:   make(chan *Client, 100),
		unregister: make(chan *Client, 100),
		staleness:  staleness,
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.closeAllConnections()
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}

// SetStaleness updates the cutoff applied by List
func (h *Hub) SetStaleness(d time.Duration) {
	h.stalemu.Lock()
	h.staleness = d
	h.stalemu.Unlock()
}

func (h *Hub) stalenessCutoff() time.Duration {
	h.stalemu.RLock()
	defer h.stalemu.RUnlock()
	return h.staleness
}

// PublishCursor records and broadcasts a cursor move
func (h *Hub) PublishCursor(projectID string, cursor ports.CursorState) error {
	cursor.LastUpdate = time.Now()
	h.mu.Lock()
	r := h.room(projectID)
	r.cursors[cursor.UserID] = cursor
	h.mu.Unlock()

	h.broadcast(projectID, cursor.UserID, messageCursor, cursor)
	return nil
}

// PublishDrag records and broadcasts an in-progress drag
func (h *Hub) PublishDrag(projectID string, drag ports.DragState) error {
	drag.LastUpdate = time.Now()
	h.mu.Lock()
	r := h.room(projectID)
	r.drags[drag.UserID] = drag
	h.mu.Unlock()

	h.broadcast(projectID, drag.UserID, messageDrag, drag)
	return nil
}

// PublishSelection records and broadcasts a user's selection markers. An
// empty objectIDs clears them.
func (h *Hub) PublishSelection(projectID, userID, username, color string, objectIDs []string) error {
	now := time.Now()
	selections := make([]ports.RemoteSelection, 0, len(objectIDs))
	for _, objectID := range objectIDs {
		selections = append(selections, ports.RemoteSelection{
			UserID:     userID,
			Username:   username,
			Color:      color,
			ObjectID:   objectID,
			LastUpdate: now,
		})
	}

	h.mu.Lock()
	r := h.room(projectID)
	if len(selections) == 0 {
		delete(r.selections, userID)
	} else {
		r.selections[userID] = selections
	}
	h.mu.Unlock()

	h.broadcast(projectID, userID, messageSelection, selections)
	return nil
}

// PublishResize records and broadcasts an in-progress resize
func (h *Hub) PublishResize(projectID string, resize ports.ResizeState) error {
	resize.LastUpdate = time.Now()
	h.mu.Lock()
	r := h.room(projectID)
	r.resizes[resize.UserID] = resize
	h.mu.Unlock()

	h.broadcast(projectID, resize.UserID, messageResize, resize)
	return nil
}

// List returns the fresh presence state of every peer in a project,
// excluding selfUserID and anything older than the staleness cutoff
func (h *Hub) List(projectID, selfUserID string) map[string]ports.PresenceState {
	cutoff := time.Now().Add(-h.stalenessCutoff())

	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[projectID]
	if !ok {
		return nil
	}

	out := make(map[string]ports.PresenceState)
	get := func(userID string) ports.PresenceState { return out[userID] }

	for userID, cursor := range r.cursors {
		if userID == selfUserID || cursor.LastUpdate.Before(cutoff) {
			continue
		}
		state := get(userID)
		c := cursor
		state.Cursor = &c
		out[userID] = state
	}
	for userID, drag := range r.drags {
		if userID == selfUserID || drag.LastUpdate.Before(cutoff) {
			continue
		}
		state := get(userID)
		d := drag
		state.Drag = &d
		out[userID] = state
	}
	for userID, selections := range r.selections {
		if userID == selfUserID {
			continue
		}
		fresh := make([]ports.RemoteSelection, 0, len(selections))
		for _, sel := range selections {
			if !sel.LastUpdate.Before(cutoff) {
				fresh = append(fresh, sel)
			}
		}
		if len(fresh) > 0 {
			state := get(userID)
			state.Selections = fresh
			out[userID] = state
		}
	}
	for userID, resize := range r.resizes {
		if userID == selfUserID || resize.LastUpdate.Before(cutoff) {
			continue
		}
		state := get(userID)
		rs := resize
		state.Resize = &rs
		out[userID] = state
	}
	return out
}

// Leave drops every trace of a user in a project and tells their peers
func (h *Hub) Leave(projectID, userID string) {
	h.mu.Lock()
	r, ok := h.rooms[projectID]
	if ok {
		delete(r.cursors, userID)
		delete(r.drags, userID)
		delete(r.selections, userID)
		delete(r.resizes, userID)
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	h.broadcast(projectID, userID, messageLeave, map[string]string{"userId": userID})
}

// room returns the project's room, creating it if needed. Callers hold h.mu.
func (h *Hub) room(projectID string) *room {
	r, ok := h.rooms[projectID]
	if !ok {
		r = newRoom()
		h.rooms[projectID] = r
	}
	return r
}

// broadcast fans a presence message out to every room member except the
// originating user. Slow clients are dropped rather than backing up the
// room.
func (h *Hub) broadcast(projectID, fromUserID, msgType string, payload interface{}) {
	data, err := json.Marshal(envelope{
		Type:      msgType,
		ProjectID: projectID,
		UserID:    fromUserID,
		Payload:   mustRaw(payload),
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		h.logger.Error("failed to marshal presence message", zap.String("type", msgType), zap.Error(err))
		return
	}

	// Client send channels are closed only under the write lock. Holding
	// the read lock across these non-blocking sends keeps a send from
	// racing a close.
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[projectID]
	if !ok {
		return
	}
	for client := range r.clients {
		if client.userID == fromUserID {
			continue
		}
		select {
		case client.send <- data:
			h.metrics.PresenceMessages.Inc()
		default:
			h.logger.Warn("closing slow presence client",
				zap.String("user_id", client.userID),
				zap.String("project_id", client.projectID))
			go func(c *Client) {
				c.hub.unregister <- c
				c.conn.Close()
			}(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	r := h.room(client.projectID)
	r.clients[client] = true
	members := len(r.clients)
	h.mu.Unlock()

	h.metrics.PresenceConnections.Inc()
	h.logger.Info("presence client joined",
		zap.String("project_id", client.projectID),
		zap.String("user_id", client.userID),
		zap.Int("room_size", members))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	r, ok := h.rooms[client.projectID]
	if ok {
		if _, member := r.clients[client]; !member {
			h.mu.Unlock()
			return
		}
		delete(r.clients, client)
		close(client.send)
		if len(r.clients) == 0 {
			delete(h.rooms, client.projectID)
		}
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	h.metrics.PresenceConnections.Dec()
	h.logger.Info("presence client left",
		zap.String("project_id", client.projectID),
		zap.String("user_id", client.userID))
	h.Leave(client.projectID, client.userID)
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for projectID, r := range h.rooms {
		for client := range r.clients {
			close(client.send)
			client.conn.Close()
		}
		delete(h.rooms, projectID)
	}
}

var _ ports.PresenceChannel = (*Hub)(nil)
