package tree

import "math"

// Vec is a 2D point or extent in layout units (pixels on most hosts).
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v with both components multiplied by f.
func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f} }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	Pos  Vec
	Size Vec
}

// R is shorthand for building a Rect from x, y, width and height.
func R(x, y, w, h float64) Rect {
	return Rect{Pos: Vec{x, y}, Size: Vec{w, h}}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Pos.X + r.Size.X }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Pos.Y + r.Size.Y }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so adjacent tiles never both claim a point.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Pos.X && p.X < r.Right() && p.Y >= r.Pos.Y && p.Y < r.Bottom()
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Size.X <= 0 || r.Size.Y <= 0 }

// Round returns r with every component rounded to the nearest integer.
func (r Rect) Round() Rect {
	return R(math.Round(r.Pos.X), math.Round(r.Pos.Y), math.Round(r.Size.X), math.Round(r.Size.Y))
}
