// Package geom provides the discrete geometry helpers shared by the level
// validator, sanitizer, and compiler: tile coordinates, Chebyshev/Manhattan
// distance, bounding rectangles, 4-connected component extraction, and
// row/column run grouping. It has no knowledge of level semantics; callers
// pass a match predicate over tile coordinates.
package geom

// Point is a tile coordinate. X is the column, Y the row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Chebyshev returns the Chebyshev distance between two tiles: the maximum of
// the absolute column and row deltas. Neighborhoods of a fixed Chebyshev
// radius are square, which is what clearance and pocket checks want.
func Chebyshev(a, b Point) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Manhattan returns the Manhattan distance between two tiles: the sum of the
// absolute column and row deltas.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Rect is an inclusive tile-coordinate bounding rectangle.
type Rect struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Width returns the rectangle width in tiles.
func (r Rect) Width() int { return r.MaxX - r.MinX + 1 }

// Height returns the rectangle height in tiles.
func (r Rect) Height() int { return r.MaxY - r.MinY + 1 }

// Area returns the rectangle area in tiles.
func (r Rect) Area() int { return r.Width() * r.Height() }

// Contains reports whether p lies inside the rectangle (closed bounds).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func (r Rect) grow(p Point) Rect {
	if p.X < r.MinX {
		r.MinX = p.X
	}
	if p.X > r.MaxX {
		r.MaxX = p.X
	}
	if p.Y < r.MinY {
		r.MinY = p.Y
	}
	if p.Y > r.MaxY {
		r.MaxY = p.Y
	}
	return r
}
