package physics

import (
	"github.com/chewxy/math32"

	"mime-engine/math"
)

type Ray struct {
	Origin math.Vec3
	// Dir need not be unit length; hit distances are in multiples of it.
	Dir math.Vec3
}

func (r Ray) PointAt(toi float32) math.Vec3 {
	return r.Origin.Add(r.Dir.Mul(toi))
}

type RayHit struct {
	Collider ColliderHandle
	Toi      float32
	Normal   math.Vec3
	// Triangle is the hit triangle of a TriMesh, -1 for other shapes.
	Triangle int
}

// CastRay finds the closest static collider the ray hits within maxToi.
// Colliders attached to bodies are skipped.
func (s *ColliderSet) CastRay(ray Ray, maxToi float32) (RayHit, bool) {
	best := RayHit{Toi: maxToi, Triangle: -1}
	found := false
	var candidates []int

	for i, collider := range s.colliders {
		if _, attached := collider.Parent(); attached {
			continue
		}
		local := Ray{Origin: ray.Origin.Sub(collider.Offset), Dir: ray.Dir}

		var hit RayHit
		var ok bool
		switch shape := collider.Shape.(type) {
		case *TriMesh:
			hit, ok, candidates = shape.castRay(local, best.Toi, candidates)
		case *Cuboid:
			hit, ok = castRayAABB(local, shape.AABB(math.Vec3Zero), best.Toi)
		}
		if ok {
			hit.Collider = ColliderHandle(i + 1)
			best = hit
			found = true
		}
	}
	return best, found
}

func (m *TriMesh) castRay(ray Ray, maxToi float32, candidates []int) (RayHit, bool, []int) {
	end := ray.PointAt(maxToi)
	segment := AABB{Min: ray.Origin.Min(end), Max: ray.Origin.Max(end)}

	candidates = m.Query(segment, candidates[:0])
	best := RayHit{Toi: maxToi, Triangle: -1}
	found := false
	for _, i := range candidates {
		a, b, c := m.Triangle(i)
		toi, ok := rayTriangle(ray, a, b, c)
		if !ok || toi > best.Toi {
			continue
		}
		normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if normal.Dot(ray.Dir) > 0 {
			normal = normal.Negate()
		}
		best = RayHit{Toi: toi, Normal: normal, Triangle: i}
		found = true
	}
	return best, found, candidates
}

// rayTriangle is the Möller–Trumbore test. Both windings hit.
func rayTriangle(ray Ray, v0, v1, v2 math.Vec3) (float32, bool) {
	const epsilon = 1e-7

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Dir.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, false // parallel
	}

	f := 1 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	return t, t >= 0
}

// castRayAABB is the slab test. A ray starting inside the box hits at 0.
func castRayAABB(ray Ray, box AABB, maxToi float32) (RayHit, bool) {
	tmin, tmax := float32(0), maxToi
	var normal math.Vec3

	origin, dir := ray.Origin.Array(), ray.Dir.Array()
	lo, hi := box.Min.Array(), box.Max.Array()
	for axis := 0; axis < 3; axis++ {
		if math32.Abs(dir[axis]) < 1e-12 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return RayHit{}, false
			}
			continue
		}

		inv := 1 / dir[axis]
		t1 := (lo[axis] - origin[axis]) * inv
		t2 := (hi[axis] - origin[axis]) * inv
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			normal = math.Vec3Zero
			switch axis {
			case 0:
				normal.X = sign
			case 1:
				normal.Y = sign
			case 2:
				normal.Z = sign
			}
		}
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return RayHit{}, false
		}
	}
	return RayHit{Toi: tmin, Normal: normal, Triangle: -1}, true
}
