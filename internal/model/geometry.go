package model

// Vec is a point in arena coordinate space.
type Vec struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is the width/height of an avatar.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Intersects reports whether two rectangles overlap. Edges are half-open:
// rectangles that only share a boundary line do not collide.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width &&
		r.Y < o.Y+o.Height &&
		r.X+r.Width > o.X &&
		r.Y+r.Height > o.Y
}
