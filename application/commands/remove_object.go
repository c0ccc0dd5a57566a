package commands

import (
	"context"

	"go.uber.org/zap"

	"canvas-backend/application/commands/bus"
	"canvas-backend/application/services"
	appErrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/utils"
)

// RemoveObjectCommand deletes an object together with all its descendants
type RemoveObjectCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	ObjectID  string `json:"object_id" validate:"required"`
}

// Validate implements bus.Command
func (c *RemoveObjectCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// RemoveObjectHandler handles RemoveObjectCommand
type RemoveObjectHandler struct {
	editors *services.EditorManager
	logger  *zap.Logger
}

// NewRemoveObjectHandler creates a new handler instance
func NewRemoveObjectHandler(editors *services.EditorManager, logger *zap.Logger) *RemoveObjectHandler {
	return &RemoveObjectHandler{editors: editors, logger: logger}
}

// Handle executes the remove object command
func (h *RemoveObjectHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*RemoveObjectCommand)
	if !ok {
		return appErrors.NewInternalError("unexpected command type")
	}

	editor, err := h.editors.Editor(ctx, c.ProjectID)
	if err != nil {
		return err
	}
	if !editor.RemoveObject(c.ObjectID) {
		return appErrors.NewNotFoundError("object")
	}

	h.logger.Debug("object removed",
		zap.String("project_id", c.ProjectID),
		zap.String("object_id", c.ObjectID))
	return nil
}
