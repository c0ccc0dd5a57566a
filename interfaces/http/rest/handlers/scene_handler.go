package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"canvas-backend/application/commands"
	"canvas-backend/application/commands/bus"
	"canvas-backend/application/queries"
	querybus "canvas-backend/application/queries/bus"
	"canvas-backend/domain/core/entities"
	"canvas-backend/pkg/common"
	appErrors "canvas-backend/pkg/errors"
)

const maxBodyBytes = 1 << 20

// SceneHandler handles object CRUD within a project's scene
type SceneHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewSceneHandler creates a new scene handler
func NewSceneHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *SceneHandler {
	return &SceneHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// respondAppError maps application errors onto HTTP responses
func respondAppError(w http.ResponseWriter, err error) {
	if appErr := appErrors.GetAppError(err); appErr != nil {
		common.RespondError(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message)
		return
	}
	if errors.Is(err, bus.ErrValidationFailed) {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
}

// GetScene handles GET /projects/{projectID}/scene
func (h *SceneHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	query := &queries.GetSceneQuery{ProjectID: chi.URLParam(r, "projectID")}
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetObject handles GET /projects/{projectID}/objects/{objectID}
func (h *SceneHandler) GetObject(w http.ResponseWriter, r *http.Request) {
	query := &queries.GetObjectQuery{
		ProjectID: chi.URLParam(r, "projectID"),
		ObjectID:  chi.URLParam(r, "objectID"),
	}
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetChildren handles GET /projects/{projectID}/objects/{objectID}/children
func (h *SceneHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	query := &queries.GetChildrenQuery{
		ProjectID: chi.URLParam(r, "projectID"),
		ParentID:  chi.URLParam(r, "objectID"),
	}
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// AddObject handles POST /projects/{projectID}/objects
func (h *SceneHandler) AddObject(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddObjectCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return
	}
	cmd.ProjectID = chi.URLParam(r, "projectID")
	if cmd.UserID == "" {
		cmd.UserID = userIDFrom(r)
	}

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": cmd.ObjectID})
}

// updateObjectRequest is the body for a partial object update
type updateObjectRequest struct {
	Patch      entities.Patch `json:"patch"`
	Continuous bool           `json:"continuous"`
}

// UpdateObject handles PATCH /projects/{projectID}/objects/{objectID}
func (h *SceneHandler) UpdateObject(w http.ResponseWriter, r *http.Request) {
	var req updateObjectRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return
	}

	cmd := &commands.UpdateObjectCommand{
		ProjectID:  chi.URLParam(r, "projectID"),
		ObjectID:   chi.URLParam(r, "objectID"),
		Patch:      req.Patch,
		Continuous: req.Continuous,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"applied": true})
}

// BatchUpdate handles PATCH /projects/{projectID}/objects
func (h *SceneHandler) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	var cmd commands.BatchUpdateCommand
	if err := common.ParseJSONBody(r, &cmd, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return
	}
	cmd.ProjectID = chi.URLParam(r, "projectID")

	if err := h.commandBus.Send(r.Context(), &cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"applied": true})
}

// RemoveObject handles DELETE /projects/{projectID}/objects/{objectID}
func (h *SceneHandler) RemoveObject(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.RemoveObjectCommand{
		ProjectID: chi.URLParam(r, "projectID"),
		ObjectID:  chi.URLParam(r, "objectID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"removed": true})
}
