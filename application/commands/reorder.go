package commands

import (
	"context"

	"canvas-backend/application/commands/bus"
	"canvas-backend/application/services"
	appErrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/utils"
)

// Z-order directions
const (
	DirectionFront    = "front"
	DirectionBack     = "back"
	DirectionForward  = "forward"
	DirectionBackward = "backward"
)

// ReorderObjectCommand moves an object within the z-order
type ReorderObjectCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	ObjectID  string `json:"object_id" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=front back forward backward"`
}

// Validate implements bus.Command
func (c *ReorderObjectCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ReorderObjectHandler handles ReorderObjectCommand
type ReorderObjectHandler struct {
	editors *services.EditorManager
}

// NewReorderObjectHandler creates a new handler instance
func NewReorderObjectHandler(editors *services.EditorManager) *ReorderObjectHandler {
	return &ReorderObjectHandler{editors: editors}
}

// Handle executes a reorder command
func (h *ReorderObjectHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*ReorderObjectCommand)
	if !ok {
		return appErrors.NewInternalError("unexpected command type")
	}

	editor, err := h.editors.Editor(ctx, c.ProjectID)
	if err != nil {
		return err
	}

	if _, ok := editor.Object(c.ObjectID); !ok {
		return appErrors.NewNotFoundError("object")
	}

	// Already at the requested extreme is a no-op, not an error
	switch c.Direction {
	case DirectionFront:
		editor.BringToFront(c.ObjectID)
	case DirectionBack:
		editor.SendToBack(c.ObjectID)
	case DirectionForward:
		editor.MoveForward(c.ObjectID)
	case DirectionBackward:
		editor.MoveBackward(c.ObjectID)
	}
	return nil
}
