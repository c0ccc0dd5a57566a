package commands

import (
	"context"

	"go.uber.org/zap"

	"canvas-backend/application/commands/bus"
	"canvas-backend/application/services"
	"canvas-backend/domain/core/entities"
	appErrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/utils"
)

// AddObjectCommand creates a new object on a project's canvas. ObjectID is
// assigned by the handler and written back for the caller.
type AddObjectCommand struct {
	ProjectID string  `json:"project_id" validate:"required"`
	UserID    string  `json:"user_id" validate:"required"`
	Type      string  `json:"type" validate:"required,oneof=rectangle circle text line image group"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width" validate:"gte=0"`
	Height    float64 `json:"height" validate:"gte=0"`
	Radius    float64 `json:"radius" validate:"gte=0"`
	Points    []float64 `json:"points"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width" validate:"gte=0"`
	Text        string  `json:"text"`
	FontSize    float64 `json:"font_size" validate:"gte=0"`
	FontFamily  string  `json:"font_family"`
	ImageURL    string  `json:"image_url"`
	AssetKey    string  `json:"asset_key"`

	ObjectID string `json:"-"`
}

// Validate implements bus.Command
func (c *AddObjectCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// AddObjectHandler handles AddObjectCommand
type AddObjectHandler struct {
	editors *services.EditorManager
	logger  *zap.Logger
}

// NewAddObjectHandler creates a new handler instance
func NewAddObjectHandler(editors *services.EditorManager, logger *zap.Logger) *AddObjectHandler {
	return &AddObjectHandler{editors: editors, logger: logger}
}

// Handle executes the add object command
func (h *AddObjectHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*AddObjectCommand)
	if !ok {
		return appErrors.NewInternalError("unexpected command type")
	}

	editor, err := h.editors.Editor(ctx, c.ProjectID)
	if err != nil {
		return err
	}

	obj := h.build(c)
	if !editor.AddObject(obj) {
		return appErrors.NewConflictError("object id already present in scene")
	}
	c.ObjectID = obj.ID

	h.logger.Debug("object added",
		zap.String("project_id", c.ProjectID),
		zap.String("object_id", obj.ID),
		zap.String("type", c.Type))
	return nil
}

func (h *AddObjectHandler) build(c *AddObjectCommand) *entities.CanvasObject {
	var obj *entities.CanvasObject
	switch entities.ObjectType(c.Type) {
	case entities.TypeCircle:
		obj = entities.NewCircle(c.UserID, c.X, c.Y, c.Radius, c.Fill)
	case entities.TypeText:
		obj = entities.NewText(c.UserID, c.X, c.Y, c.Text, c.FontSize, c.FontFamily)
		obj.Fill = c.Fill
	case entities.TypeLine:
		obj = entities.NewLine(c.UserID, c.X, c.Y, c.Points, c.Stroke, c.StrokeWidth)
	case entities.TypeImage:
		obj = entities.NewImage(c.UserID, c.X, c.Y, c.Width, c.Height, c.ImageURL, c.AssetKey)
	case entities.TypeGroup:
		obj = entities.NewGroup(c.UserID, c.X, c.Y)
	default:
		obj = entities.NewRectangle(c.UserID, c.X, c.Y, c.Width, c.Height, c.Fill)
		obj.Stroke = c.Stroke
		obj.StrokeWidth = c.StrokeWidth
	}
	return obj
}
