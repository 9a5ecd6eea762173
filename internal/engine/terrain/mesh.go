package terrain

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-painter/pkg/grid"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// MaxQuadsPerMeshAxis keeps a mesh addressable with 16-bit indices.
const MaxQuadsPerMeshAxis = 255

// Mesh build errors.
var (
	ErrRegionTooSmall    = errors.New("terrain: mesh region needs at least 2x2 vertices")
	ErrRegionTooLarge    = errors.New("terrain: mesh region exceeds 255 quads per axis")
	ErrRegionOutOfBounds = errors.New("terrain: region outside heightmap")
)

// Corner identifies a quad corner. Y grows south, so "top" is the lower Y.
type Corner int

const (
	CornerTL Corner = iota
	CornerTR
	CornerBL
	CornerBR
)

// cornerOffset is the (dx, dy) of each corner from the quad's top-left vertex.
var cornerOffset = [4]grid.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}

var (
	splitTopLeft  = [2][3]Corner{{CornerTL, CornerBL, CornerBR}, {CornerTL, CornerBR, CornerTR}}
	splitTopRight = [2][3]Corner{{CornerTL, CornerBL, CornerTR}, {CornerTR, CornerBL, CornerBR}}
)

// SplitsAlongTopLeft reports whether a quad is split along its TL-BR
// diagonal. The diagonal joining the closer pair of heights wins; ties go
// to TR-BL.
func SplitsAlongTopLeft(tl, tr, bl, br float32) bool {
	return math32.Abs(tl-br) < math32.Abs(tr-bl)
}

// QuadTriangles returns the two triangles of a quad as corner triples.
// Both triangles wind so that their face normal points up (+Y).
func QuadTriangles(tl, tr, bl, br float32) [2][3]Corner {
	if SplitsAlongTopLeft(tl, tr, bl, br) {
		return splitTopLeft
	}
	return splitTopRight
}

// QuadTrianglesAt returns the triangles of the quad whose top-left vertex is
// (x, y) in heightmap space.
func QuadTrianglesAt(hm *grid.Grid[float32], x, y int) [2][3]Corner {
	return QuadTriangles(hm.At(x, y), hm.At(x+1, y), hm.At(x, y+1), hm.At(x+1, y+1))
}

func validateRegion(hm *grid.Grid[float32], region grid.Rect) error {
	if region.Size.X < 2 || region.Size.Y < 2 {
		return fmt.Errorf("%w: %v", ErrRegionTooSmall, region)
	}
	if !hm.Bounds().ContainsRect(region) {
		return fmt.Errorf("%w: %v in %dx%d", ErrRegionOutOfBounds, region, hm.LengthX(), hm.LengthY())
	}
	return nil
}

// vertexPosition returns the position of heightmap vertex (gx, gy) relative
// to the vertex at origin.
func vertexPosition(hm *grid.Grid[float32], hr HeightRange, quadSize math.Vec2, origin grid.Point, gx, gy int) math.Vec3 {
	return math.Vec3{
		X: float32(gx-origin.X) * quadSize.X,
		Y: hr.Lerp(hm.At(gx, gy)),
		Z: float32(gy-origin.Y) * quadSize.Y,
	}
}

// faceBasis returns the unit face normal and tangent of a triangle. The
// tangent follows +U where U is the global heightmap X coordinate.
func faceBasis(p [3]math.Vec3, g [3]grid.Point) (normal, tangent math.Vec3) {
	e1 := p[1].Sub(p[0])
	e2 := p[2].Sub(p[0])
	normal = e1.Cross(e2).Normalize()

	du1, dv1 := float32(g[1].X-g[0].X), float32(g[1].Y-g[0].Y)
	du2, dv2 := float32(g[2].X-g[0].X), float32(g[2].Y-g[0].Y)
	r := du1*dv2 - du2*dv1
	if r == 0 {
		return normal, math.Vec3{}
	}
	tangent = e1.Scale(dv2).Sub(e2.Scale(dv1)).Scale(1 / r).Normalize()
	return normal, tangent
}

// BuildMesh builds the render mesh covering region, a rectangle of heightmap
// vertices. Vertex positions are relative to the region's first vertex.
// Normals and tangents also accumulate the faces of the one-quad ring around
// the region so that adjacent meshes agree along shared edges.
func BuildMesh(hm *grid.Grid[float32], region grid.Rect, quadSize math.Vec2, hr HeightRange) (*MeshData, error) {
	if err := validateRegion(hm, region); err != nil {
		return nil, err
	}
	w, h := region.Size.X, region.Size.Y
	if w-1 > MaxQuadsPerMeshAxis || h-1 > MaxQuadsPerMeshAxis {
		return nil, fmt.Errorf("%w: %v", ErrRegionTooLarge, region)
	}

	lengthX, lengthY := float32(hm.LengthX()), float32(hm.LengthY())
	vertices := make([]Vertex, w*h)
	bounds := math.EmptyBoundingBox()
	for y := range h {
		for x := range w {
			gx, gy := region.Start.X+x, region.Start.Y+y
			pos := vertexPosition(hm, hr, quadSize, region.Start, gx, gy)
			vertices[y*w+x] = Vertex{
				Position:  pos,
				Color:     [4]float32{1, 1, 1, 1},
				TexCoord0: math.Vec2{X: float32(x) / float32(w-1), Y: float32(y) / float32(h-1)},
				TexCoord1: math.Vec2{X: (float32(gx) + 0.5) / lengthX, Y: (float32(gy) + 0.5) / lengthY},
			}
			bounds = bounds.Merge(pos)
		}
	}

	normals := make([]math.Vec3, w*h)
	tangents := make([]math.Vec3, w*h)
	indices := make([]uint16, 0, (w-1)*(h-1)*6)

	for qy := range h - 1 {
		for qx := range w - 1 {
			tris := QuadTrianglesAt(hm, region.Start.X+qx, region.Start.Y+qy)
			for _, tri := range tris {
				var p [3]math.Vec3
				var g [3]grid.Point
				var idx [3]int
				for i, c := range tri {
					lx, ly := qx+cornerOffset[c].X, qy+cornerOffset[c].Y
					idx[i] = ly*w + lx
					p[i] = vertices[idx[i]].Position
					g[i] = grid.Point{X: region.Start.X + lx, Y: region.Start.Y + ly}
					indices = append(indices, uint16(idx[i]))
				}
				n, t := faceBasis(p, g)
				for _, i := range idx {
					normals[i] = normals[i].Add(n)
					tangents[i] = tangents[i].Add(t)
				}
			}
		}
	}

	stitchBoundary(hm, region, quadSize, hr, normals, tangents)

	for i := range vertices {
		vertices[i].Normal = finalizeDirection(normals[i], math.UnitY)
		vertices[i].Tangent = finalizeDirection(tangents[i], math.UnitX)
	}

	return &MeshData{
		Vertices: vertices,
		Indices:  indices,
		Region:   region,
		Bounds:   bounds,
	}, nil
}

// stitchBoundary adds the faces of quads just outside the region to the
// boundary vertices they touch. Ring quads beyond the heightmap are skipped.
func stitchBoundary(hm *grid.Grid[float32], region grid.Rect, quadSize math.Vec2, hr HeightRange, normals, tangents []math.Vec3) {
	w, h := region.Size.X, region.Size.Y
	for qy := -1; qy <= h-1; qy++ {
		for qx := -1; qx <= w-1; qx++ {
			if qx >= 0 && qx < w-1 && qy >= 0 && qy < h-1 {
				continue // interior
			}
			gqx, gqy := region.Start.X+qx, region.Start.Y+qy
			if gqx < 0 || gqy < 0 || gqx+1 >= hm.LengthX() || gqy+1 >= hm.LengthY() {
				continue
			}
			for _, tri := range QuadTrianglesAt(hm, gqx, gqy) {
				var p [3]math.Vec3
				var g [3]grid.Point
				for i, c := range tri {
					g[i] = grid.Point{X: gqx + cornerOffset[c].X, Y: gqy + cornerOffset[c].Y}
					p[i] = vertexPosition(hm, hr, quadSize, region.Start, g[i].X, g[i].Y)
				}
				n, t := faceBasis(p, g)
				for i := range tri {
					lx, ly := g[i].X-region.Start.X, g[i].Y-region.Start.Y
					if lx < 0 || ly < 0 || lx >= w || ly >= h {
						continue
					}
					normals[ly*w+lx] = normals[ly*w+lx].Add(n)
					tangents[ly*w+lx] = tangents[ly*w+lx].Add(t)
				}
			}
		}
	}
}

func finalizeDirection(acc, fallback math.Vec3) math.Vec3 {
	if acc.LengthSquared() < 1e-12 {
		return fallback
	}
	return acc.Normalize()
}

// BuildPhysicsMesh builds the collision mesh for region. It uses the same
// triangulation as BuildMesh but carries only positions and 32-bit indices.
func BuildPhysicsMesh(hm *grid.Grid[float32], region grid.Rect, quadSize math.Vec2, hr HeightRange) (*PhysicsMeshData, error) {
	if err := validateRegion(hm, region); err != nil {
		return nil, err
	}
	w, h := region.Size.X, region.Size.Y
	positions := make([]math.Vec3, 0, w*h)
	for y := range h {
		for x := range w {
			positions = append(positions, vertexPosition(hm, hr, quadSize, region.Start, region.Start.X+x, region.Start.Y+y))
		}
	}

	indices := make([]uint32, 0, (w-1)*(h-1)*6)
	for qy := range h - 1 {
		for qx := range w - 1 {
			for _, tri := range QuadTrianglesAt(hm, region.Start.X+qx, region.Start.Y+qy) {
				for _, c := range tri {
					indices = append(indices, uint32((qy+cornerOffset[c].Y)*w+qx+cornerOffset[c].X))
				}
			}
		}
	}

	return &PhysicsMeshData{Positions: positions, Indices: indices, Region: region}, nil
}
