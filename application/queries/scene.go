package queries

import (
	"context"

	"canvas-backend/application/queries/bus"
	"canvas-backend/application/services"
	"canvas-backend/domain/core/entities"
	appErrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/utils"
)

// GetSceneQuery fetches every object in a project's scene, in z-order
type GetSceneQuery struct {
	ProjectID string `json:"project_id" validate:"required"`
}

// Validate implements bus.Query
func (q *GetSceneQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// SceneView is the result of GetSceneQuery
type SceneView struct {
	ProjectID string                   `json:"project_id"`
	Objects   []*entities.CanvasObject `json:"objects"`
	Selection []string                 `json:"selection"`
}

// GetObjectQuery fetches a single object by id
type GetObjectQuery struct {
	ProjectID string `json:"project_id" validate:"required"`
	ObjectID  string `json:"object_id" validate:"required"`
}

// Validate implements bus.Query
func (q *GetObjectQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetChildrenQuery fetches the direct children of a group, in z-order. An
// empty ParentID returns the root-level objects.
type GetChildrenQuery struct {
	ProjectID string `json:"project_id" validate:"required"`
	ParentID  string `json:"parent_id"`
}

// Validate implements bus.Query
func (q *GetChildrenQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// SceneQueryHandler answers the read-side queries from the in-memory scene
type SceneQueryHandler struct {
	editors *services.EditorManager
}

// NewSceneQueryHandler creates a new handler instance
func NewSceneQueryHandler(editors *services.EditorManager) *SceneQueryHandler {
	return &SceneQueryHandler{editors: editors}
}

// Handle executes a scene query
func (h *SceneQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case *GetSceneQuery:
		editor, err := h.editors.Editor(ctx, q.ProjectID)
		if err != nil {
			return nil, err
		}
		return &SceneView{
			ProjectID: q.ProjectID,
			Objects:   editor.Objects(),
			Selection: editor.SelectedIDs(),
		}, nil

	case *GetObjectQuery:
		editor, err := h.editors.Editor(ctx, q.ProjectID)
		if err != nil {
			return nil, err
		}
		obj, ok := editor.Object(q.ObjectID)
		if !ok {
			return nil, appErrors.NewNotFoundError("object")
		}
		return obj, nil

	case *GetChildrenQuery:
		editor, err := h.editors.Editor(ctx, q.ProjectID)
		if err != nil {
			return nil, err
		}
		return editor.Children(q.ParentID), nil

	default:
		return nil, appErrors.NewInternalError("unexpected query type")
	}
}
