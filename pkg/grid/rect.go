package grid

import "fmt"

// Point is an integer cell coordinate.
type Point struct {
	X, Y int
}

// Add returns p + o.
func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }

// Sub returns p - o.
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

func (p Point) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// Rect is a block of cells starting at Start (inclusive) spanning Size cells.
type Rect struct {
	Start Point
	Size  Point
}

// NewRect builds a rect from its start corner and size.
func NewRect(x, y, width, height int) Rect {
	return Rect{Start: Point{x, y}, Size: Point{width, height}}
}

// End returns the exclusive far corner.
func (r Rect) End() Point { return r.Start.Add(r.Size) }

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool { return r.Size.X <= 0 || r.Size.Y <= 0 }

// Contains reports whether the cell p is inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Start.X && p.Y >= r.Start.Y && p.X < r.Start.X+r.Size.X && p.Y < r.Start.Y+r.Size.Y
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	if o.Empty() {
		return true
	}
	end, oEnd := r.End(), o.End()
	return o.Start.X >= r.Start.X && o.Start.Y >= r.Start.Y && oEnd.X <= end.X && oEnd.Y <= end.Y
}

// Intersect returns the overlap of r and o, which may be empty.
func (r Rect) Intersect(o Rect) Rect {
	start := Point{max(r.Start.X, o.Start.X), max(r.Start.Y, o.Start.Y)}
	end := Point{min(r.End().X, o.End().X), min(r.End().Y, o.End().Y)}
	if end.X <= start.X || end.Y <= start.Y {
		return Rect{Start: start}
	}
	return Rect{Start: start, Size: end.Sub(start)}
}

// Intersects reports whether r and o share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Expand grows the rect by n cells on every side.
func (r Rect) Expand(n int) Rect {
	return Rect{
		Start: Point{r.Start.X - n, r.Start.Y - n},
		Size:  Point{r.Size.X + 2*n, r.Size.Y + 2*n},
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.Start.X, r.Start.Y, r.Size.X, r.Size.Y)
}
