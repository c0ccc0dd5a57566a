package entities

import (
	"time"

	"canvas-backend/domain/core/valueobjects"

	"github.com/google/uuid"
)

// ObjectType tags the variant of a canvas object
type ObjectType string

const (
	TypeRectangle ObjectType = "rectangle"
	TypeCircle    ObjectType = "circle"
	TypeText      ObjectType = "text"
	TypeLine      ObjectType = "line"
	TypeImage     ObjectType = "image"
	TypeGroup     ObjectType = "group"
)

// IsValid reports whether the type is a known variant
func (t ObjectType) IsValid() bool {
	switch t {
	case TypeRectangle, TypeCircle, TypeText, TypeLine, TypeImage, TypeGroup:
		return true
	}
	return false
}

// CanvasObject is a single element of the scene graph. It is a tagged union
// over the shape variants: common fields apply to every variant, variant
// fields are meaningful only for the matching Type and are zero otherwise.
//
// Position semantics vary per variant: circles are center-based, everything
// else is top-left-based. Line points are relative to X,Y.
type CanvasObject struct {
	ID   string     `json:"id"`
	Type ObjectType `json:"type"`

	// Position and transform
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation,omitempty"`
	ScaleX   float64 `json:"scaleX,omitempty"`
	ScaleY   float64 `json:"scaleY,omitempty"`
	SkewX    float64 `json:"skewX,omitempty"`
	SkewY    float64 `json:"skewY,omitempty"`
	Opacity  float64 `json:"opacity,omitempty"`

	// Dimensions (rectangle, text, image)
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Circle
	Radius float64 `json:"radius,omitempty"`

	// Line: flat x1,y1,x2,y2,... relative to X,Y
	Points []float64 `json:"points,omitempty"`

	// Style
	Fill          string  `json:"fill,omitempty"`
	Stroke        string  `json:"stroke,omitempty"`
	StrokeWidth   float64 `json:"strokeWidth,omitempty"`
	ShadowColor   string  `json:"shadowColor,omitempty"`
	ShadowBlur    float64 `json:"shadowBlur,omitempty"`
	ShadowOffsetX float64 `json:"shadowOffsetX,omitempty"`
	ShadowOffsetY float64 `json:"shadowOffsetY,omitempty"`

	// Text
	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`

	// Image
	ImageURL string `json:"imageUrl,omitempty"`
	AssetKey string `json:"assetKey,omitempty"` // backing blob, cleaned up on delete

	// Hierarchy. ParentID is a weak reference: it names the owning group but
	// does not control that group's lifetime.
	ParentID    string `json:"parentId,omitempty"`
	Locked      bool   `json:"locked,omitempty"`
	Visible     bool   `json:"visible"`
	IsCollapsed bool   `json:"isCollapsed,omitempty"` // group-only, layers-list state

	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewObjectID creates a fresh opaque object id
func NewObjectID() string {
	return uuid.New().String()
}

// IsGroup reports whether the object is a group variant
func (o *CanvasObject) IsGroup() bool {
	return o.Type == TypeGroup
}

// Clone returns a deep value copy, safe to detach from the live scene
func (o *CanvasObject) Clone() *CanvasObject {
	c := *o
	if o.Points != nil {
		c.Points = make([]float64, len(o.Points))
		copy(c.Points, o.Points)
	}
	return &c
}

// Bounds computes the axis-aligned bounding box of the object itself, not
// including descendants. Groups report their stored position with zero size;
// callers needing a group extent must union its descendants.
func (o *CanvasObject) Bounds() valueobjects.Bounds {
	switch o.Type {
	case TypeCircle:
		// Center-based position
		return valueobjects.NewBounds(o.X-o.Radius, o.Y-o.Radius, o.Radius*2, o.Radius*2)
	case TypeLine:
		if len(o.Points) < 2 {
			return valueobjects.NewBounds(o.X, o.Y, 0, 0)
		}
		minX, minY := o.Points[0], o.Points[1]
		maxX, maxY := minX, minY
		for i := 2; i+1 < len(o.Points); i += 2 {
			if o.Points[i] < minX {
				minX = o.Points[i]
			}
			if o.Points[i] > maxX {
				maxX = o.Points[i]
			}
			if o.Points[i+1] < minY {
				minY = o.Points[i+1]
			}
			if o.Points[i+1] > maxY {
				maxY = o.Points[i+1]
			}
		}
		return valueobjects.NewBounds(o.X+minX, o.Y+minY, maxX-minX, maxY-minY)
	case TypeGroup:
		return valueobjects.NewBounds(o.X, o.Y, 0, 0)
	default:
		// rectangle, text, image: top-left based
		return valueobjects.NewBounds(o.X, o.Y, o.Width, o.Height)
	}
}

// Equals is a field-by-field shallow comparison: common fields first, then
// the fields of the matching variant. Timestamps participate so that a remote
// touch is observed as a change.
func (o *CanvasObject) Equals(other *CanvasObject) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.ID != other.ID || o.Type != other.Type {
		return false
	}
	if o.X != other.X || o.Y != other.Y ||
		o.Rotation != other.Rotation ||
		o.ScaleX != other.ScaleX || o.ScaleY != other.ScaleY ||
		o.SkewX != other.SkewX || o.SkewY != other.SkewY ||
		o.Opacity != other.Opacity {
		return false
	}
	if o.Fill != other.Fill || o.Stroke != other.Stroke ||
		o.StrokeWidth != other.StrokeWidth ||
		o.ShadowColor != other.ShadowColor || o.ShadowBlur != other.ShadowBlur ||
		o.ShadowOffsetX != other.ShadowOffsetX || o.ShadowOffsetY != other.ShadowOffsetY {
		return false
	}
	if o.ParentID != other.ParentID ||
		o.Locked != other.Locked || o.Visible != other.Visible ||
		o.IsCollapsed != other.IsCollapsed {
		return false
	}
	if o.CreatedBy != other.CreatedBy ||
		!o.CreatedAt.Equal(other.CreatedAt) || !o.UpdatedAt.Equal(other.UpdatedAt) {
		return false
	}
	switch o.Type {
	case TypeCircle:
		return o.Radius == other.Radius
	case TypeLine:
		if len(o.Points) != len(other.Points) {
			return false
		}
		for i := range o.Points {
			if o.Points[i] != other.Points[i] {
				return false
			}
		}
		return true
	case TypeText:
		return o.Width == other.Width && o.Height == other.Height &&
			o.Text == other.Text &&
			o.FontSize == other.FontSize && o.FontFamily == other.FontFamily
	case TypeImage:
		return o.Width == other.Width && o.Height == other.Height &&
			o.ImageURL == other.ImageURL && o.AssetKey == other.AssetKey
	case TypeGroup:
		return true
	default:
		return o.Width == other.Width && o.Height == other.Height
	}
}

// ObjectListsEqual compares two ordered object lists by value. Two distinct
// slices holding value-identical objects in identical order are equal.
func ObjectListsEqual(a, b []*CanvasObject) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

// Normalize migrates legacy-shaped records into the current schema. It is
// idempotent: normalizing a normalized object changes nothing.
func (o *CanvasObject) Normalize() {
	switch string(o.Type) {
	case "rect":
		o.Type = TypeRectangle
	case "ellipse":
		o.Type = TypeCircle
	}
	if o.ScaleX == 0 {
		o.ScaleX = 1
	}
	if o.ScaleY == 0 {
		o.ScaleY = 1
	}
	if o.Opacity == 0 {
		o.Opacity = 1
	}
	// Visible postdates the first schema; records written before it carry a
	// zero UpdatedAt and no visibility field.
	if !o.Visible && o.UpdatedAt.IsZero() {
		o.Visible = true
	}
	if o.Type != TypeGroup {
		o.IsCollapsed = false
	}
}
