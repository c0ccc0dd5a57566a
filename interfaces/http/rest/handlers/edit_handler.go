package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"canvas-backend/application/commands"
	"canvas-backend/application/commands/bus"
	"canvas-backend/pkg/common"
)

// EditHandler handles selection, hierarchy, z-order and clipboard operations
type EditHandler struct {
	commandBus *bus.CommandBus
	logger     *zap.Logger
}

// NewEditHandler creates a new edit handler
func NewEditHandler(commandBus *bus.CommandBus, logger *zap.Logger) *EditHandler {
	return &EditHandler{commandBus: commandBus, logger: logger}
}

// Select handles PUT /projects/{projectID}/selection
func (h *EditHandler) Select(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SelectObjectsCommand
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

// ToggleSelection handles POST /projects/{projectID}/selection/{objectID}/toggle
func (h *EditHandler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.ToggleSelectionCommand{
		ProjectID: chi.URLParam(r, "projectID"),
		ObjectID:  chi.URLParam(r, "objectID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"applied": true})
}

// SetParent handles PUT /projects/{projectID}/objects/{objectID}/parent
func (h *EditHandler) SetParent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NewParentID string `json:"new_parent_id"`
	}
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return
	}

	cmd := &commands.SetParentCommand{
		ProjectID:   chi.URLParam(r, "projectID"),
		ObjectID:    chi.URLParam(r, "objectID"),
		NewParentID: body.NewParentID,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"applied": cmd.Applied})
}

// Group handles POST /projects/{projectID}/groups
func (h *EditHandler) Group(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.GroupObjectsCommand{
		ProjectID: chi.URLParam(r, "projectID"),
		UserID:    userIDFrom(r),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	if cmd.CreatedGroupID == "" {
		common.RespondJSON(w, http.StatusOK, map[string]interface{}{"grouped": false})
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"group_id": cmd.CreatedGroupID})
}

// Ungroup handles POST /projects/{projectID}/groups/dissolve
func (h *EditHandler) Ungroup(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.UngroupObjectsCommand{ProjectID: chi.URLParam(r, "projectID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"selection": cmd.NewSelection})
}

// ToggleLock handles POST /projects/{projectID}/objects/{objectID}/lock
func (h *EditHandler) ToggleLock(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.ToggleLockCommand{
		ProjectID: chi.URLParam(r, "projectID"),
		ObjectID:  chi.URLParam(r, "objectID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"applied": true})
}

// ToggleVisibility handles POST /projects/{projectID}/objects/{objectID}/visibility
func (h *EditHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.ToggleVisibilityCommand{
		ProjectID: chi.URLParam(r, "projectID"),
		ObjectID:  chi.URLParam(r, "objectID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"applied": true})
}

// ToggleCollapse handles POST /projects/{projectID}/objects/{objectID}/collapse
func (h *EditHandler) ToggleCollapse(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.ToggleCollapseCommand{
		ProjectID: chi.URLParam(r, "projectID"),
		ObjectID:  chi.URLParam(r, "objectID"),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"applied": true})
}

// Reorder handles POST /projects/{projectID}/objects/{objectID}/reorder
func (h *EditHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Direction string `json:"direction"`
	}
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return
	}

	cmd := &commands.ReorderObjectCommand{
		ProjectID: chi.URLParam(r, "projectID"),
		ObjectID:  chi.URLParam(r, "objectID"),
		Direction: body.Direction,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"applied": true})
}

// Copy handles POST /projects/{projectID}/clipboard/copy
func (h *EditHandler) Copy(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.CopyObjectsCommand{ProjectID: chi.URLParam(r, "projectID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"copied": cmd.Copied})
}

// Paste handles POST /projects/{projectID}/clipboard/paste
func (h *EditHandler) Paste(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.PasteObjectsCommand{}
	if r.ContentLength != 0 {
		if err := common.ParseJSONBody(r, cmd, maxBodyBytes); err != nil {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
			return
		}
	}
	cmd.ProjectID = chi.URLParam(r, "projectID")
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"pasted": cmd.PastedIDs})
}

// Duplicate handles POST /projects/{projectID}/objects/duplicate
func (h *EditHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.DuplicateObjectsCommand{ProjectID: chi.URLParam(r, "projectID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"duplicated": cmd.DuplicatedIDs})
}

// userIDFrom resolves the acting user for attribution on created objects
func userIDFrom(r *http.Request) string {
	if id, ok := common.GetUserID(r.Context()); ok && id != "" {
		return id
	}
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "anonymous"
}
