// Package grid provides a row-major 2D array used for heightmaps, material
// maps, stroke maps and adjustment deltas.
package grid

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned (or wrapped by a panic) when a coordinate
// lies outside [0,LengthX)x[0,LengthY).
var ErrIndexOutOfRange = errors.New("grid index out of range")

// Grid is a fixed-size 2D array addressed by (x, y) with x varying fastest.
// It is not safe for concurrent writes.
type Grid[T any] struct {
	lengthX int
	lengthY int
	data    []T
}

// New creates a zero-filled grid. Negative lengths are treated as zero.
func New[T any](lengthX, lengthY int) *Grid[T] {
	lengthX = max(lengthX, 0)
	lengthY = max(lengthY, 0)
	return &Grid[T]{
		lengthX: lengthX,
		lengthY: lengthY,
		data:    make([]T, lengthX*lengthY),
	}
}

// FromSlice wraps data as a grid without copying.
func FromSlice[T any](lengthX, lengthY int, data []T) (*Grid[T], error) {
	if lengthX < 0 || lengthY < 0 || len(data) != lengthX*lengthY {
		return nil, fmt.Errorf("grid: %d elements do not form %dx%d", len(data), lengthX, lengthY)
	}
	return &Grid[T]{lengthX: lengthX, lengthY: lengthY, data: data}, nil
}

// LengthX returns the number of columns.
func (g *Grid[T]) LengthX() int { return g.lengthX }

// LengthY returns the number of rows.
func (g *Grid[T]) LengthY() int { return g.lengthY }

// Size returns the grid dimensions as a point.
func (g *Grid[T]) Size() Point { return Point{g.lengthX, g.lengthY} }

// Len returns the total number of cells.
func (g *Grid[T]) Len() int { return len(g.data) }

// Data exposes the backing slice in row-major order.
func (g *Grid[T]) Data() []T { return g.data }

// Bounds returns the rect covering every cell.
func (g *Grid[T]) Bounds() Rect { return Rect{Size: g.Size()} }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.lengthX && y < g.lengthY
}

// Index flattens (x, y) into a slice index.
func (g *Grid[T]) Index(x, y int) int {
	return y*g.lengthX + x
}

func (g *Grid[T]) check(x, y int) {
	if !g.InBounds(x, y) {
		panic(fmt.Errorf("%w: (%d, %d) in %dx%d", ErrIndexOutOfRange, x, y, g.lengthX, g.lengthY))
	}
}

// At returns the value at (x, y). It panics with an error wrapping
// ErrIndexOutOfRange when the coordinate is outside the grid.
func (g *Grid[T]) At(x, y int) T {
	g.check(x, y)
	return g.data[y*g.lengthX+x]
}

// Set stores v at (x, y). It panics like At on bad coordinates.
func (g *Grid[T]) Set(x, y int, v T) {
	g.check(x, y)
	g.data[y*g.lengthX+x] = v
}

// Get is the checked form of At.
func (g *Grid[T]) Get(x, y int) (T, error) {
	if !g.InBounds(x, y) {
		var zero T
		return zero, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrIndexOutOfRange, x, y, g.lengthX, g.lengthY)
	}
	return g.data[y*g.lengthX+x], nil
}

// Put is the checked form of Set.
func (g *Grid[T]) Put(x, y int, v T) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrIndexOutOfRange, x, y, g.lengthX, g.lengthY)
	}
	g.data[y*g.lengthX+x] = v
	return nil
}

// AtIndex returns the value at flat index i.
func (g *Grid[T]) AtIndex(i int) T {
	if i < 0 || i >= len(g.data) {
		panic(fmt.Errorf("%w: flat index %d of %d", ErrIndexOutOfRange, i, len(g.data)))
	}
	return g.data[i]
}

// SetIndex stores v at flat index i.
func (g *Grid[T]) SetIndex(i int, v T) {
	if i < 0 || i >= len(g.data) {
		panic(fmt.Errorf("%w: flat index %d of %d", ErrIndexOutOfRange, i, len(g.data)))
	}
	g.data[i] = v
}

// AtClamped returns the value at (x, y) with both coordinates clamped to the
// grid edges. The grid must not be empty.
func (g *Grid[T]) AtClamped(x, y int) T {
	x = min(max(x, 0), g.lengthX-1)
	y = min(max(y, 0), g.lengthY-1)
	return g.data[y*g.lengthX+x]
}

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Clone returns a deep copy.
func (g *Grid[T]) Clone() *Grid[T] {
	data := make([]T, len(g.data))
	copy(data, g.data)
	return &Grid[T]{lengthX: g.lengthX, lengthY: g.lengthY, data: data}
}

// Resize changes the dimensions in place, keeping the overlapping region
// and zero-filling any new cells.
func (g *Grid[T]) Resize(lengthX, lengthY int) {
	lengthX = max(lengthX, 0)
	lengthY = max(lengthY, 0)
	if lengthX == g.lengthX && lengthY == g.lengthY {
		return
	}

	data := make([]T, lengthX*lengthY)
	copyX := min(lengthX, g.lengthX)
	copyY := min(lengthY, g.lengthY)
	for y := range copyY {
		copy(data[y*lengthX:y*lengthX+copyX], g.data[y*g.lengthX:y*g.lengthX+copyX])
	}

	g.lengthX = lengthX
	g.lengthY = lengthY
	g.data = data
}

// Contains reports whether any cell satisfies pred, stopping at the first.
func (g *Grid[T]) Contains(pred func(T) bool) bool {
	for _, v := range g.data {
		if pred(v) {
			return true
		}
	}
	return false
}

// SubGrid copies the cells covered by r. r must lie inside the grid.
func (g *Grid[T]) SubGrid(r Rect) (*Grid[T], error) {
	if !g.Bounds().ContainsRect(r) {
		return nil, fmt.Errorf("%w: %v in %dx%d", ErrIndexOutOfRange, r, g.lengthX, g.lengthY)
	}
	out := New[T](r.Size.X, r.Size.Y)
	for y := range r.Size.Y {
		src := (r.Start.Y+y)*g.lengthX + r.Start.X
		copy(out.data[y*r.Size.X:(y+1)*r.Size.X], g.data[src:src+r.Size.X])
	}
	return out, nil
}
