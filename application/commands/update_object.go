package commands

import (
	"context"

	"go.uber.org/zap"

	"canvas-backend/application/commands/bus"
	"canvas-backend/application/services"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	appErrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/utils"
)

// UpdateObjectCommand applies a partial update to one object. Continuous is
// set for high-frequency interactions (drag, resize) so remote commits are
// throttled rather than debounced.
type UpdateObjectCommand struct {
	ProjectID  string         `json:"project_id" validate:"required"`
	ObjectID   string         `json:"object_id" validate:"required"`
	Patch      entities.Patch `json:"patch"`
	Continuous bool           `json:"continuous"`
}

// Validate implements bus.Command
func (c *UpdateObjectCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if c.Patch.IsEmpty() {
		return appErrors.NewValidationError("patch must set at least one field")
	}
	return nil
}

// BatchUpdateCommand applies partial updates to several objects at once
type BatchUpdateCommand struct {
	ProjectID string                   `json:"project_id" validate:"required"`
	Patches   []aggregates.ObjectPatch `json:"patches" validate:"required,min=1"`
}

// Validate implements bus.Command
func (c *BatchUpdateCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// UpdateObjectHandler handles UpdateObjectCommand and BatchUpdateCommand
type UpdateObjectHandler struct {
	editors *services.EditorManager
	logger  *zap.Logger
}

// NewUpdateObjectHandler creates a new handler instance
func NewUpdateObjectHandler(editors *services.EditorManager, logger *zap.Logger) *UpdateObjectHandler {
	return &UpdateObjectHandler{editors: editors, logger: logger}
}

// Handle executes an update command
func (h *UpdateObjectHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case *UpdateObjectCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		class := services.ClassDiscrete
		if c.Continuous {
			class = services.ClassContinuous
		}
		if !editor.UpdateObject(c.ObjectID, c.Patch, class) {
			return appErrors.NewNotFoundError("object")
		}
		return nil

	case *BatchUpdateCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		applied := editor.BatchUpdate(c.Patches)
		h.logger.Debug("batch update applied",
			zap.String("project_id", c.ProjectID),
			zap.Int("requested", len(c.Patches)),
			zap.Int("applied", len(applied)))
		return nil

	default:
		return appErrors.NewInternalError("unexpected command type")
	}
}
