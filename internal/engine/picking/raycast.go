package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// RaycastHit describes where a ray met the terrain.
type RaycastHit struct {
	Cell     grid.Point // Quad containing the hit, by its top-left vertex
	Position math.Vec3  // World position
	Distance float32    // World distance from the ray origin
}

// TryRaycast intersects a world ray with a heightmap placed at mapOrigin.
// Cells are visited in the order the ray's XZ projection crosses them and the
// first cell with a hit wins, which is not necessarily the nearest in 3D on
// overhanging paths. A miss reports false.
func TryRaycast(hm *grid.Grid[float32], hr terrain.HeightRange, quadSize math.Vec2, ray Ray, mapOrigin math.Vec3) (RaycastHit, bool) {
	if hm == nil || hm.LengthX() < 2 || hm.LengthY() < 2 || ray.Direction.LengthSquared() == 0 {
		return RaycastHit{}, false
	}

	// Heightmap-local space: one unit per quad in X/Z, world units in Y.
	o := ray.Origin.Sub(mapOrigin)
	local := Ray{
		Origin:    math.Vec3{X: o.X / quadSize.X, Y: o.Y, Z: o.Z / quadSize.Y},
		Direction: math.Vec3{X: ray.Direction.X / quadSize.X, Y: ray.Direction.Y, Z: ray.Direction.Z / quadSize.Y},
	}

	lo, hi := terrain.HeightStats(hm)
	cellsX, cellsY := hm.LengthX()-1, hm.LengthY()-1
	box := math.BoundingBox{
		Min: math.Vec3{X: 0, Y: hr.Lerp(lo), Z: 0},
		Max: math.Vec3{X: float32(cellsX), Y: hr.Lerp(hi), Z: float32(cellsY)},
	}
	tEnter, tExit, ok := local.Slab(box)
	if !ok {
		return RaycastHit{}, false
	}
	tEnter = math32.Max(tEnter, 0)
	enter, exit := local.At(tEnter), local.At(tExit)

	var (
		bestT float32
		cell  grid.Point
		found bool
	)
	scanCells(enter.X, enter.Z, exit.X, exit.Z, cellsX, cellsY, func(cx, cy int) bool {
		if t, ok := intersectCell(hm, hr, local, cx, cy); ok {
			bestT, cell, found = t, grid.Point{X: cx, Y: cy}, true
			return false
		}
		return true
	})
	if !found {
		return RaycastHit{}, false
	}

	return RaycastHit{
		Cell:     cell,
		Position: ray.At(bestT),
		Distance: bestT * ray.Direction.Length(),
	}, true
}

// intersectCell tests the two triangles of quad (cx, cy) and returns the
// nearer hit.
func intersectCell(hm *grid.Grid[float32], hr terrain.HeightRange, r Ray, cx, cy int) (float32, bool) {
	corners := [4]math.Vec3{
		{X: float32(cx), Y: hr.Lerp(hm.At(cx, cy)), Z: float32(cy)},
		{X: float32(cx + 1), Y: hr.Lerp(hm.At(cx+1, cy)), Z: float32(cy)},
		{X: float32(cx), Y: hr.Lerp(hm.At(cx, cy+1)), Z: float32(cy + 1)},
		{X: float32(cx + 1), Y: hr.Lerp(hm.At(cx+1, cy+1)), Z: float32(cy + 1)},
	}

	best, hit := math32.Inf(1), false
	for _, tri := range terrain.QuadTrianglesAt(hm, cx, cy) {
		if t, ok := r.IntersectTriangle(corners[tri[0]], corners[tri[1]], corners[tri[2]]); ok && t < best {
			best, hit = t, true
		}
	}
	return best, hit
}

// scanCells walks the grid cells crossed by the segment (x0,z0)-(x1,z1) in
// order, stopping when visit returns false or the segment leaves the grid.
func scanCells(x0, z0, x1, z1 float32, cellsX, cellsY int, visit func(cx, cy int) bool) {
	cx := clampCell(x0, cellsX)
	cy := clampCell(z0, cellsY)
	endX := clampCell(x1, cellsX)
	endY := clampCell(z1, cellsY)

	stepX, tMaxX, tDeltaX := scanAxis(x0, x1, cx)
	stepY, tMaxY, tDeltaY := scanAxis(z0, z1, cy)

	limit := abs(endX-cx) + abs(endY-cy) + 1
	for range limit {
		if !visit(cx, cy) {
			return
		}
		if cx == endX && cy == endY {
			return
		}
		if tMaxX < tMaxY {
			cx += stepX
			tMaxX += tDeltaX
		} else {
			cy += stepY
			tMaxY += tDeltaY
		}
		if cx < 0 || cy < 0 || cx >= cellsX || cy >= cellsY {
			return
		}
	}
}

// scanAxis returns the step direction, the segment parameter of the first
// cell boundary and the parameter distance between boundaries on one axis.
func scanAxis(from, to float32, cell int) (step int, tMax, tDelta float32) {
	d := to - from
	switch {
	case d > 0:
		return 1, (float32(cell+1) - from) / d, 1 / d
	case d < 0:
		return -1, (float32(cell) - from) / d, -1 / d
	default:
		return 0, math32.Inf(1), math32.Inf(1)
	}
}

func clampCell(v float32, cells int) int {
	return min(max(int(math32.Floor(v)), 0), cells-1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
