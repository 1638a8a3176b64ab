package scene

import "mime-engine/math"

// Plane is the set of points where Normal·p + D = 0. Normal points to the
// inside of the frustum.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo is positive on the inside.
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum is the six clip planes of a view, in the order left, right,
// bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromVP extracts the frustum planes of a view-projection matrix.
// With row vectors clip = p * vp, so clip component i is column i of vp and
// each plane is w ± that component.
func FrustumFromVP(vp math.Mat4) Frustum {
	column := func(i int) [4]float32 {
		return [4]float32{vp[0][i], vp[1][i], vp[2][i], vp[3][i]}
	}
	w := column(3)

	var f Frustum
	for axis := 0; axis < 3; axis++ {
		c := column(axis)
		for side, sign := range [2]float32{1, -1} {
			f.Planes[2*axis+side] = newPlane(
				w[0]+sign*c[0],
				w[1]+sign*c[1],
				w[2]+sign*c[2],
				w[3]+sign*c[3],
			)
		}
	}
	return f
}

// newPlane builds a plane with a unit normal. A degenerate plane keeps
// everything.
func newPlane(a, b, c, d float32) Plane {
	n := math.NewVec3(a, b, c)
	l := n.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Div(l), D: d / l}
}

type AABB struct {
	Min, Max math.Vec3
}

// Extend grows the box to contain p.
func (box AABB) Extend(p math.Vec3) AABB {
	return AABB{Min: box.Min.Min(p), Max: box.Max.Max(p)}
}

func (box AABB) Contains(p math.Vec3) bool {
	return p.Min(box.Min) == box.Min && p.Max(box.Max) == box.Max
}

// IntersectsFrustum reports false only when the box lies entirely behind
// one of the planes. It tests the corner furthest along each normal.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		corner := box.Min
		if p.Normal.X >= 0 {
			corner.X = box.Max.X
		}
		if p.Normal.Y >= 0 {
			corner.Y = box.Max.Y
		}
		if p.Normal.Z >= 0 {
			corner.Z = box.Max.Z
		}
		if p.DistanceTo(corner) < 0 {
			return false
		}
	}
	return true
}

// VisibleSectors appends to out the sectors whose bounds touch the frustum.
func (m *Map) VisibleSectors(f *Frustum, out []*Sector) []*Sector {
	for _, sector := range m.Sectors {
		if sector.Bounds.IntersectsFrustum(f) {
			out = append(out, sector)
		}
	}
	return out
}
