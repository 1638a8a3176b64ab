package physics

import (
	"github.com/chewxy/math32"

	"mime-engine/math"
)

// penetration is how far, and along which unit normal, a box must move to
// stop overlapping a static shape.
type penetration struct {
	Normal math.Vec3
	Depth  float32
}

const axisEpsilon = 1e-6

var boxAxes = [3]math.Vec3{math.Vec3Right, math.Vec3Up, math.Vec3Front}

// boxTriangle runs the separating axis test between an axis-aligned box and
// a triangle over the 13 candidate axes. When they overlap it returns the
// push-out for the box. The triangle face normal is preferred unless some
// other axis is much shallower, which keeps a box sliding over the shared
// edge of two coplanar triangles from being pushed sideways.
func boxTriangle(center, half math.Vec3, a, b, c math.Vec3) (penetration, bool) {
	v0, v1, v2 := a.Sub(center), b.Sub(center), c.Sub(center)
	edges := [3]math.Vec3{v1.Sub(v0), v2.Sub(v1), v0.Sub(v2)}

	best := penetration{Depth: math32.MaxFloat32}
	test := func(axis math.Vec3) bool {
		if axis.LengthSqr() < axisEpsilon {
			return true
		}
		axis = axis.Normalize()
		p0, p1, p2 := v0.Dot(axis), v1.Dot(axis), v2.Dot(axis)
		lo := math32.Min(p0, math32.Min(p1, p2))
		hi := math32.Max(p0, math32.Max(p1, p2))
		r := half.X*math32.Abs(axis.X) + half.Y*math32.Abs(axis.Y) + half.Z*math32.Abs(axis.Z)
		if lo > r || hi < -r {
			return false
		}

		// Move along +axis until the box clears hi, or along -axis until it clears lo.
		up, down := hi+r, r-lo
		if up < best.Depth {
			best = penetration{Normal: axis, Depth: up}
		}
		if down < best.Depth {
			best = penetration{Normal: axis.Negate(), Depth: down}
		}
		return true
	}

	for _, axis := range boxAxes {
		if !test(axis) {
			return penetration{}, false
		}
	}
	for _, axis := range boxAxes {
		for _, edge := range edges {
			if !test(axis.Cross(edge)) {
				return penetration{}, false
			}
		}
	}

	normal := edges[0].Cross(edges[1])
	if normal.LengthSqr() < axisEpsilon {
		// Degenerate triangle, the edge axes decided.
		return best, true
	}
	if !test(normal) {
		return penetration{}, false
	}

	// Face normal oriented toward the box centre, which sits at the origin.
	normal = normal.Normalize()
	plane := v0.Dot(normal)
	if plane > 0 {
		normal = normal.Negate()
		plane = -plane
	}
	r := half.X*math32.Abs(normal.X) + half.Y*math32.Abs(normal.Y) + half.Z*math32.Abs(normal.Z)
	face := penetration{Normal: normal, Depth: plane + r}
	if face.Depth <= 2*best.Depth+axisEpsilon {
		return face, true
	}
	return best, true
}

// boxBox returns the push-out of box a out of box b.
func boxBox(a, b AABB) (penetration, bool) {
	if !a.Intersects(b) {
		return penetration{}, false
	}

	best := penetration{Depth: math32.MaxFloat32}
	for i, axis := range boxAxes {
		aMin, aMax := component(a.Min, i), component(a.Max, i)
		bMin, bMax := component(b.Min, i), component(b.Max, i)
		if up := bMax - aMin; up < best.Depth {
			best = penetration{Normal: axis, Depth: up}
		}
		if down := aMax - bMin; down < best.Depth {
			best = penetration{Normal: axis.Negate(), Depth: down}
		}
	}
	return best, true
}

func component(v math.Vec3, i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}
