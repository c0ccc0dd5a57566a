package entities

import "time"

// Patch is a partial update to a canvas object. Nil fields are left
// untouched; set fields overwrite. It is the unit the dispatcher coalesces
// and the remote store patches with.
type Patch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	ScaleX   *float64 `json:"scaleX,omitempty"`
	ScaleY   *float64 `json:"scaleY,omitempty"`
	SkewX    *float64 `json:"skewX,omitempty"`
	SkewY    *float64 `json:"skewY,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`

	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Radius *float64 `json:"radius,omitempty"`

	Points *[]float64 `json:"points,omitempty"`

	Fill          *string  `json:"fill,omitempty"`
	Stroke        *string  `json:"stroke,omitempty"`
	StrokeWidth   *float64 `json:"strokeWidth,omitempty"`
	ShadowColor   *string  `json:"shadowColor,omitempty"`
	ShadowBlur    *float64 `json:"shadowBlur,omitempty"`
	ShadowOffsetX *float64 `json:"shadowOffsetX,omitempty"`
	ShadowOffsetY *float64 `json:"shadowOffsetY,omitempty"`

	Text       *string  `json:"text,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`

	ImageURL *string `json:"imageUrl,omitempty"`
	AssetKey *string `json:"assetKey,omitempty"`

	ParentID    *string `json:"parentId,omitempty"`
	Locked      *bool   `json:"locked,omitempty"`
	Visible     *bool   `json:"visible,omitempty"`
	IsCollapsed *bool   `json:"isCollapsed,omitempty"`

	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// IsEmpty reports whether the patch carries no fields
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Apply merges the patch into the object and stamps UpdatedAt
func (p Patch) Apply(o *CanvasObject) {
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setS := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setB := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}

	setF(&o.X, p.X)
	setF(&o.Y, p.Y)
	setF(&o.Rotation, p.Rotation)
	setF(&o.ScaleX, p.ScaleX)
	setF(&o.ScaleY, p.ScaleY)
	setF(&o.SkewX, p.SkewX)
	setF(&o.SkewY, p.SkewY)
	setF(&o.Opacity, p.Opacity)
	setF(&o.Width, p.Width)
	setF(&o.Height, p.Height)
	setF(&o.Radius, p.Radius)
	setF(&o.StrokeWidth, p.StrokeWidth)
	setF(&o.ShadowBlur, p.ShadowBlur)
	setF(&o.ShadowOffsetX, p.ShadowOffsetX)
	setF(&o.ShadowOffsetY, p.ShadowOffsetY)
	setF(&o.FontSize, p.FontSize)

	setS(&o.Fill, p.Fill)
	setS(&o.Stroke, p.Stroke)
	setS(&o.ShadowColor, p.ShadowColor)
	setS(&o.Text, p.Text)
	setS(&o.FontFamily, p.FontFamily)
	setS(&o.ImageURL, p.ImageURL)
	setS(&o.AssetKey, p.AssetKey)
	setS(&o.ParentID, p.ParentID)

	setB(&o.Locked, p.Locked)
	setB(&o.Visible, p.Visible)
	setB(&o.IsCollapsed, p.IsCollapsed)

	if p.Points != nil {
		pts := make([]float64, len(*p.Points))
		copy(pts, *p.Points)
		o.Points = pts
	}

	if p.UpdatedAt != nil {
		o.UpdatedAt = *p.UpdatedAt
	} else {
		o.UpdatedAt = time.Now()
	}
}

// Merge overlays a newer patch on top of this one, returning the coalesced
// patch. Fields set in next win.
func (p Patch) Merge(next Patch) Patch {
	out := p
	if next.X != nil {
		out.X = next.X
	}
	if next.Y != nil {
		out.Y = next.Y
	}
	if next.Rotation != nil {
		out.Rotation = next.Rotation
	}
	if next.ScaleX != nil {
		out.ScaleX = next.ScaleX
	}
	if next.ScaleY != nil {
		out.ScaleY = next.ScaleY
	}
	if next.SkewX != nil {
		out.SkewX = next.SkewX
	}
	if next.SkewY != nil {
		out.SkewY = next.SkewY
	}
	if next.Opacity != nil {
		out.Opacity = next.Opacity
	}
	if next.Width != nil {
		out.Width = next.Width
	}
	if next.Height != nil {
		out.Height = next.Height
	}
	if next.Radius != nil {
		out.Radius = next.Radius
	}
	if next.Points != nil {
		out.Points = next.Points
	}
	if next.Fill != nil {
		out.Fill = next.Fill
	}
	if next.Stroke != nil {
		out.Stroke = next.Stroke
	}
	if next.StrokeWidth != nil {
		out.StrokeWidth = next.StrokeWidth
	}
	if next.ShadowColor != nil {
		out.ShadowColor = next.ShadowColor
	}
	if next.ShadowBlur != nil {
		out.ShadowBlur = next.ShadowBlur
	}
	if next.ShadowOffsetX != nil {
		out.ShadowOffsetX = next.ShadowOffsetX
	}
	if next.ShadowOffsetY != nil {
		out.ShadowOffsetY = next.ShadowOffsetY
	}
	if next.Text != nil {
		out.Text = next.Text
	}
	if next.FontSize != nil {
		out.FontSize = next.FontSize
	}
	if next.FontFamily != nil {
		out.FontFamily = next.FontFamily
	}
	if next.ImageURL != nil {
		out.ImageURL = next.ImageURL
	}
	if next.AssetKey != nil {
		out.AssetKey = next.AssetKey
	}
	if next.ParentID != nil {
		out.ParentID = next.ParentID
	}
	if next.Locked != nil {
		out.Locked = next.Locked
	}
	if next.Visible != nil {
		out.Visible = next.Visible
	}
	if next.IsCollapsed != nil {
		out.IsCollapsed = next.IsCollapsed
	}
	if next.UpdatedAt != nil {
		out.UpdatedAt = next.UpdatedAt
	}
	return out
}

// Float returns a pointer to v, for building patches inline
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for building patches inline
func String(v string) *string { return &v }

// Bool returns a pointer to v, for building patches inline
func Bool(v bool) *bool { return &v }
