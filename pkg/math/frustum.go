package math

// Plane is the set of points p where Normal·p + D = 0.
// Points with a positive distance are on the inside.
type Plane struct {
	Normal Vec3
	D      float32
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(v Vec3) float32 {
	return p.Normal.Dot(v) + p.D
}

func planeFromVec4(v Vec4) Plane {
	n := Vec3{v[0], v[1], v[2]}
	l := n.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Scale(1 / l), D: v[3] / l}
}

// Frustum is a view volume bounded by six inward-facing planes.
type Frustum struct {
	Planes [6]Plane // left, right, bottom, top, near, far
}

// NewFrustum extracts the clip planes of a view-projection matrix
// with OpenGL depth in [-1, 1].
func NewFrustum(viewProj Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)
	add := func(a, b Vec4) Vec4 { return Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]} }
	sub := func(a, b Vec4) Vec4 { return Vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]} }

	return Frustum{Planes: [6]Plane{
		planeFromVec4(add(r3, r0)),
		planeFromVec4(sub(r3, r0)),
		planeFromVec4(add(r3, r1)),
		planeFromVec4(sub(r3, r1)),
		planeFromVec4(add(r3, r2)),
		planeFromVec4(sub(r3, r2)),
	}}
}

// IntersectsBox reports whether any part of box lies inside the frustum.
// The test is conservative: boxes near a frustum corner may be reported
// visible although they are just outside.
func (f Frustum) IntersectsBox(box BoundingBox) bool {
	for _, p := range f.Planes {
		// Corner furthest along the plane normal.
		v := box.Min
		if p.Normal.X >= 0 {
			v.X = box.Max.X
		}
		if p.Normal.Y >= 0 {
			v.Y = box.Max.Y
		}
		if p.Normal.Z >= 0 {
			v.Z = box.Max.Z
		}
		if p.Distance(v) < 0 {
			return false
		}
	}
	return true
}

// FrustumBounds returns the world-space box around the frustum of viewProj,
// found by inverse-projecting the 8 clip-space corners.
func FrustumBounds(viewProj Mat4) BoundingBox {
	inv := viewProj.Inverse()
	b := EmptyBoundingBox()
	for _, x := range [2]float32{-1, 1} {
		for _, y := range [2]float32{-1, 1} {
			for _, z := range [2]float32{-1, 1} {
				c := inv.MulVec4(Vec4{x, y, z, 1})
				if c[3] != 0 {
					c[0], c[1], c[2] = c[0]/c[3], c[1]/c[3], c[2]/c[3]
				}
				b = b.Merge(Vec3{c[0], c[1], c[2]})
			}
		}
	}
	return b
}
