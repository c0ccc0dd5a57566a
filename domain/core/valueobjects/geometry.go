package valueobjects

// Point is an immutable 2D coordinate on the canvas
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint creates a point from coordinates
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Translate returns a new point offset by dx,dy
func (p Point) Translate(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Equals checks if two points are equal
func (p Point) Equals(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Bounds is an axis-aligned bounding box
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewBounds creates a bounding box from origin and size
func NewBounds(x, y, width, height float64) Bounds {
	return Bounds{X: x, Y: y, Width: width, Height: height}
}

// Center returns the midpoint of the box
func (b Bounds) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Union returns the smallest box containing both boxes
func (b Bounds) Union(other Bounds) Bounds {
	minX := b.X
	if other.X < minX {
		minX = other.X
	}
	minY := b.Y
	if other.Y < minY {
		minY = other.Y
	}
	maxX := b.X + b.Width
	if ox := other.X + other.Width; ox > maxX {
		maxX = ox
	}
	maxY := b.Y + b.Height
	if oy := other.Y + other.Height; oy > maxY {
		maxY = oy
	}
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// IsZero checks if the bounds is the zero value
func (b Bounds) IsZero() bool {
	return b.X == 0 && b.Y == 0 && b.Width == 0 && b.Height == 0
}

// Equals checks if two bounds are equal
func (b Bounds) Equals(other Bounds) bool {
	return b.X == other.X && b.Y == other.Y && b.Width == other.Width && b.Height == other.Height
}
