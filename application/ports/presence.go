package ports

import (
	"time"

	"canvas-backend/domain/core/valueobjects"
)

// Presence state is ephemeral, keyed by user, and never persisted: it is
// broadcast to peers, filtered for staleness on the consumer side, and
// simply disappears on disconnect.

// CursorState is a peer's pointer position
type CursorState struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Color      string    `json:"color"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	LastUpdate time.Time `json:"lastUpdate"`
}

// DragState is a peer's in-progress object drag
type DragState struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Color      string    `json:"color"`
	ObjectID   string    `json:"objectId"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	LastUpdate time.Time `json:"lastUpdate"`
}

// RemoteSelection is a peer's current selection marker on one object
type RemoteSelection struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Color      string    `json:"color"`
	ObjectID   string    `json:"objectId"`
	LastUpdate time.Time `json:"lastUpdate"`
}

// ResizeState is a peer's in-progress resize, with the live bounds and the
// handle being dragged
type ResizeState struct {
	UserID        string              `json:"userId"`
	Username      string              `json:"username"`
	Color         string              `json:"color"`
	ObjectID      string              `json:"objectId"`
	CurrentBounds valueobjects.Bounds `json:"currentBounds"`
	Handle        string              `json:"handle"`
	LastUpdate    time.Time           `json:"lastUpdate"`
}

// PresenceState bundles everything one user currently broadcasts
type PresenceState struct {
	Cursor     *CursorState      `json:"cursor,omitempty"`
	Drag       *DragState        `json:"drag,omitempty"`
	Selections []RemoteSelection `json:"selections,omitempty"`
	Resize     *ResizeState      `json:"resize,omitempty"`
}

// PresenceChannel is the ephemeral per-project channel for live collaboration
// overlays. Publishing is best-effort and lossy; a missed update only delays
// a cursor. List applies the staleness filter and excludes the requesting
// user's own state.
type PresenceChannel interface {
	PublishCursor(projectID string, cursor CursorState) error
	PublishDrag(projectID string, drag DragState) error
	PublishSelection(projectID, userID, username, color string, objectIDs []string) error
	PublishResize(projectID string, resize ResizeState) error

	// List returns fresh peer state, excluding selfUserID
	List(projectID, selfUserID string) map[string]PresenceState

	// Leave drops a user's state immediately (disconnect)
	Leave(projectID, userID string)
}
