package commands

import (
	"context"

	"canvas-backend/application/commands/bus"
	"canvas-backend/application/services"
	appErrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/utils"
)

// SelectObjectsCommand replaces the selection with the given ids. Unknown
// ids are dropped silently. An empty list clears the selection.
type SelectObjectsCommand struct {
	ProjectID string   `json:"project_id" validate:"required"`
	ObjectIDs []string `json:"object_ids"`
}

// Validate implements bus.Command
func (c *SelectObjectsCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ToggleSelectionCommand adds or removes one id from the selection
type ToggleSelectionCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	ObjectID  string `json:"object_id" validate:"required"`
}

// Validate implements bus.Command
func (c *ToggleSelectionCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// SelectionHandler handles selection commands
type SelectionHandler struct {
	editors *services.EditorManager
}

// NewSelectionHandler creates a new handler instance
func NewSelectionHandler(editors *services.EditorManager) *SelectionHandler {
	return &SelectionHandler{editors: editors}
}

// Handle executes a selection command
func (h *SelectionHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case *SelectObjectsCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		editor.SelectObjects(c.ObjectIDs)
		return nil

	case *ToggleSelectionCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		editor.ToggleSelection(c.ObjectID)
		return nil

	default:
		return appErrors.NewInternalError("unexpected command type")
	}
}
