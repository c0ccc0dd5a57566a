package commands

import (
	"context"

	"go.uber.org/zap"

	"canvas-backend/application/commands/bus"
	"canvas-backend/application/services"
	appErrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/utils"
)

// SetParentCommand moves an object under a new parent group. An empty
// NewParentID moves it to the root. Invalid moves (unknown target, cycles)
// are rejected without error, matching the editor's silent no-op contract.
type SetParentCommand struct {
	ProjectID   string `json:"project_id" validate:"required"`
	ObjectID    string `json:"object_id" validate:"required"`
	NewParentID string `json:"new_parent_id"`

	Applied bool `json:"-"`
}

// Validate implements bus.Command
func (c *SetParentCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// GroupObjectsCommand wraps the current selection in a new group.
// CreatedGroupID is written back on success.
type GroupObjectsCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`

	CreatedGroupID string `json:"-"`
}

// Validate implements bus.Command
func (c *GroupObjectsCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// UngroupObjectsCommand dissolves every selected group. NewSelection is
// written back with the ids left selected afterwards.
type UngroupObjectsCommand struct {
	ProjectID string `json:"project_id" validate:"required"`

	NewSelection []string `json:"-"`
}

// Validate implements bus.Command
func (c *UngroupObjectsCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ToggleLockCommand flips the lock state of an object and its descendants
type ToggleLockCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	ObjectID  string `json:"object_id" validate:"required"`
}

// Validate implements bus.Command
func (c *ToggleLockCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ToggleVisibilityCommand flips the visible flag of one object
type ToggleVisibilityCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	ObjectID  string `json:"object_id" validate:"required"`
}

// Validate implements bus.Command
func (c *ToggleVisibilityCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ToggleCollapseCommand flips the layers-panel collapse flag of a group
type ToggleCollapseCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	ObjectID  string `json:"object_id" validate:"required"`
}

// Validate implements bus.Command
func (c *ToggleCollapseCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// HierarchyHandler handles the structural commands
type HierarchyHandler struct {
	editors *services.EditorManager
	logger  *zap.Logger
}

// NewHierarchyHandler creates a new handler instance
func NewHierarchyHandler(editors *services.EditorManager, logger *zap.Logger) *HierarchyHandler {
	return &HierarchyHandler{editors: editors, logger: logger}
}

// Handle executes a hierarchy command
func (h *HierarchyHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case *SetParentCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		c.Applied = editor.SetParent(c.ObjectID, c.NewParentID)
		return nil

	case *GroupObjectsCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		if group := editor.GroupObjects(c.UserID); group != nil {
			c.CreatedGroupID = group.ID
		}
		return nil

	case *UngroupObjectsCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		c.NewSelection = editor.UngroupObjects()
		return nil

	case *ToggleLockCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		if !editor.ToggleLock(c.ObjectID) {
			return appErrors.NewNotFoundError("object")
		}
		return nil

	case *ToggleVisibilityCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		if !editor.ToggleVisibility(c.ObjectID) {
			return appErrors.NewNotFoundError("object")
		}
		return nil

	case *ToggleCollapseCommand:
		editor, err := h.editors.Editor(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		if !editor.ToggleCollapse(c.ObjectID) {
			return appErrors.NewNotFoundError("group")
		}
		return nil

	default:
		return appErrors.NewInternalError("unexpected command type")
	}
}
