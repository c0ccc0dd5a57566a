package entities

import "time"

// defaults shared by every factory
func newBase(t ObjectType, createdBy string, x, y float64) *CanvasObject {
	now := time.Now()
	return &CanvasObject{
		ID:        NewObjectID(),
		Type:      t,
		X:         x,
		Y:         y,
		ScaleX:    1,
		ScaleY:    1,
		Opacity:   1,
		Visible:   true,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewRectangle creates a rectangle at the given top-left position
func NewRectangle(createdBy string, x, y, width, height float64, fill string) *CanvasObject {
	o := newBase(TypeRectangle, createdBy, x, y)
	o.Width = width
	o.Height = height
	o.Fill = fill
	return o
}

// NewCircle creates a circle at the given center position
func NewCircle(createdBy string, cx, cy, radius float64, fill string) *CanvasObject {
	o := newBase(TypeCircle, createdBy, cx, cy)
	o.Radius = radius
	o.Fill = fill
	return o
}

// NewText creates a text object
func NewText(createdBy string, x, y float64, text string, fontSize float64, fontFamily string) *CanvasObject {
	o := newBase(TypeText, createdBy, x, y)
	o.Text = text
	o.FontSize = fontSize
	o.FontFamily = fontFamily
	return o
}

// NewLine creates a line; points are relative to x,y
func NewLine(createdBy string, x, y float64, points []float64, stroke string, strokeWidth float64) *CanvasObject {
	o := newBase(TypeLine, createdBy, x, y)
	o.Points = make([]float64, len(points))
	copy(o.Points, points)
	o.Stroke = stroke
	o.StrokeWidth = strokeWidth
	return o
}

// NewImage creates an image object backed by an uploaded asset
func NewImage(createdBy string, x, y, width, height float64, imageURL, assetKey string) *CanvasObject {
	o := newBase(TypeImage, createdBy, x, y)
	o.Width = width
	o.Height = height
	o.ImageURL = imageURL
	o.AssetKey = assetKey
	return o
}

// NewGroup creates an empty group positioned at the given point
func NewGroup(createdBy string, x, y float64) *CanvasObject {
	return newBase(TypeGroup, createdBy, x, y)
}
