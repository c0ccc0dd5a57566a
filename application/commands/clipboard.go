package commands

import (
	"context"

	"go.uber.org/zap"

	"canvas-backend/application/commands/bus"
	"canvas-backend/application/services"
	appErrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/utils"
)

// CopyObjectsCommand snapshots the current selection into the clipboard
type CopyObjectsCommand struct {
	ProjectID string `json:"project_id" validate:"required"`

	Copied bool `json:"-"`
}

// Validate implements bus.Command
func (c *CopyObjectsCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// PasteObjectsCommand materializes the clipboard at the paste anchor. The
// caller may carry its pointer position and viewport center; without a
// pointer the paste anchors at the viewport center. PastedIDs is written
// back with the ids of the new objects.
type PasteObjectsCommand struct {
	ProjectID string   `json:"project_id" validate:"required"`
	AnchorX   *float64 `json:"anchor_x"`
	AnchorY   *float64 `json:"anchor_y"`
	ViewportX *float64 `json:"viewport_x"`
	ViewportY *float64 `json:"viewport_y"`

	PastedIDs []string `json:"-"`
}

// Validate implements bus.Command
func (c *PasteObjectsCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DuplicateObjectsCommand clones the selection in place with a fixed offset
type DuplicateObjectsCommand struct {
	ProjectID string `json:"project_id" validate:"required"`

	DuplicatedIDs []string `json:"-"`
}

// Validate implements bus.Command
func (c *DuplicateObjectsCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ClipboardHandler handles copy, paste and duplicate
type ClipboardHandler struct {
	editors *services.EditorManager
	logger  *zap.Logger
}

// NewClipboardHandler creates a new handler instance
func NewClipboardHandler(editors *services.EditorManager, logger *zap.Logger) *ClipboardHandler {
	return &ClipboardHandler{editors: editors, logger: logger}
}

// Handle executes a clipboard command
func (h *ClipboardHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case *CopyObjectsCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		c.Copied = editor.CopyObjects()
		return nil

	case *PasteObjectsCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		if c.ViewportX != nil && c.ViewportY != nil {
			editor.SetViewportCenter(*c.ViewportX, *c.ViewportY)
		}
		if c.AnchorX != nil && c.AnchorY != nil {
			editor.SetPointer(*c.AnchorX, *c.AnchorY)
		} else {
			editor.ClearPointer()
		}
		c.PastedIDs = editor.PasteObjects()
		h.logger.Debug("clipboard pasted",
			zap.String("project_id", c.ProjectID),
			zap.Int("objects", len(c.PastedIDs)))
		return nil

	case *DuplicateObjectsCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		c.DuplicatedIDs = editor.DuplicateObjects()
		return nil

	default:
		return appErrors.NewInternalError("unexpected command type")
	}
}
