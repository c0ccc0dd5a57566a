package websocket

import "encoding/json"

// Presence message types on the wire
const (
	messageCursor    = "PRESENCE_CURSOR"
	messageDrag      = "PRESENCE_DRAG"
	messageSelection = "PRESENCE_SELECTION"
	messageResize    = "PRESENCE_RESIZE"
	messageLeave     = "PRESENCE_LEAVE"
	messageWelcome   = "CONNECTION_ESTABLISHED"
	messageSnapshot  = "PRESENCE_SNAPSHOT"
)

// envelope is the frame every presence message travels in
type envelope struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId"`
	UserID    string          `json:"userId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// inbound is what clients send up: the type plus a type-specific payload
type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// cursorPayload is the client's cursor position
type cursorPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// dragPayload is the client's live drag position for one object
type dragPayload struct {
	ObjectID string  `json:"objectId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// selectionPayload is the full set of objects the client has selected
type selectionPayload struct {
	ObjectIDs []string `json:"objectIds"`
}

// resizePayload is the client's live resize state for one object
type resizePayload struct {
	ObjectID string  `json:"objectId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Handle   string  `json:"handle"`
}

func mustRaw(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
