package geom

// Component is a maximal group of matching tiles reachable from one another
// via 4-directional adjacency, together with its bounding rectangle.
type Component struct {
	Tiles  []Point
	Bounds Rect
}

// Filled reports whether the component exactly fills its bounding rectangle,
// i.e. its tile count equals the rectangle area. L-shapes and diagonals fail.
func (c Component) Filled() bool {
	return len(c.Tiles) == c.Bounds.Area()
}

// Components extracts all 4-connected components of tiles for which match
// returns true, scanning rows top to bottom. The flood fill is stack-based
// with a visited set, so arbitrarily large components cannot recurse deeply.
func Components(cols, rows int, match func(x, y int) bool) []Component {
	visited := make(map[Point]bool)
	var out []Component

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			seed := Point{X: x, Y: y}
			if visited[seed] || !match(x, y) {
				continue
			}

			comp := Component{Bounds: Rect{MinX: x, MinY: y, MaxX: x, MaxY: y}}
			stack := []Point{seed}
			visited[seed] = true

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				comp.Tiles = append(comp.Tiles, p)
				comp.Bounds = comp.Bounds.grow(p)

				for _, n := range [4]Point{
					{X: p.X - 1, Y: p.Y},
					{X: p.X + 1, Y: p.Y},
					{X: p.X, Y: p.Y - 1},
					{X: p.X, Y: p.Y + 1},
				} {
					if n.X < 0 || n.X >= cols || n.Y < 0 || n.Y >= rows {
						continue
					}
					if visited[n] || !match(n.X, n.Y) {
						continue
					}
					visited[n] = true
					stack = append(stack, n)
				}
			}

			out = append(out, comp)
		}
	}

	return out
}

// Run is a maximal straight sequence of matching tiles in a single row or
// column. Unlike a Component, tiles in adjacent rows never merge, so a run's
// length is always its extent along one axis.
type Run struct {
	Start      Point
	Length     int
	Horizontal bool
}

// Tiles returns the run's member tiles in order.
func (r Run) Tiles() []Point {
	out := make([]Point, r.Length)
	for i := 0; i < r.Length; i++ {
		if r.Horizontal {
			out[i] = Point{X: r.Start.X + i, Y: r.Start.Y}
		} else {
			out[i] = Point{X: r.Start.X, Y: r.Start.Y + i}
		}
	}
	return out
}

// Runs extracts maximal runs of matching tiles. When horizontal is true runs
// extend along rows, otherwise along columns.
func Runs(cols, rows int, horizontal bool, match func(x, y int) bool) []Run {
	var out []Run
	if horizontal {
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; {
				if !match(x, y) {
					x++
					continue
				}
				start := x
				for x < cols && match(x, y) {
					x++
				}
				out = append(out, Run{Start: Point{X: start, Y: y}, Length: x - start, Horizontal: true})
			}
		}
		return out
	}
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; {
			if !match(x, y) {
				y++
				continue
			}
			start := y
			for y < rows && match(x, y) {
				y++
			}
			out = append(out, Run{Start: Point{X: x, Y: start}, Length: y - start})
		}
	}
	return out
}
