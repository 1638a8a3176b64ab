package physics

import (
	"errors"
	"fmt"

	"mime-engine/math"
)

var ErrBadTriangle = errors.New("physics: triangle index out of range")

type AABB struct {
	Min, Max math.Vec3
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

func (a AABB) Union(b AABB) AABB {
	return AABB{Min: a.Min.Min(b.Min), Max: a.Max.Max(b.Max)}
}

type Shape interface {
	// AABB returns the bounds of the shape placed at position.
	AABB(position math.Vec3) AABB
}

// Cuboid is an axis-aligned box given by its half extents.
type Cuboid struct {
	HalfExtents math.Vec3
}

func NewCuboid(halfExtents math.Vec3) *Cuboid {
	return &Cuboid{HalfExtents: halfExtents}
}

func (c *Cuboid) AABB(position math.Vec3) AABB {
	return AABB{Min: position.Sub(c.HalfExtents), Max: position.Add(c.HalfExtents)}
}

// TriMesh is static triangle soup with a uniform grid over its triangles.
type TriMesh struct {
	Vertices  []math.Vec3
	Triangles [][3]uint32

	bounds AABB
	grid   *grid
}

func NewTriMesh(vertices []math.Vec3, triangles [][3]uint32) (*TriMesh, error) {
	n := uint32(len(vertices))
	for i, tri := range triangles {
		if tri[0] >= n || tri[1] >= n || tri[2] >= n {
			return nil, fmt.Errorf("triangle %d %v, %d vertices: %w", i, tri, n, ErrBadTriangle)
		}
	}

	mesh := &TriMesh{Vertices: vertices, Triangles: triangles}
	for i := range triangles {
		box := mesh.triangleAABB(i)
		if i == 0 {
			mesh.bounds = box
		} else {
			mesh.bounds = mesh.bounds.Union(box)
		}
	}
	mesh.grid = newGrid(mesh)
	return mesh, nil
}

func (m *TriMesh) AABB(position math.Vec3) AABB {
	return AABB{Min: m.bounds.Min.Add(position), Max: m.bounds.Max.Add(position)}
}

func (m *TriMesh) Triangle(i int) (a, b, c math.Vec3) {
	tri := m.Triangles[i]
	return m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
}

func (m *TriMesh) triangleAABB(i int) AABB {
	a, b, c := m.Triangle(i)
	return AABB{Min: a.Min(b).Min(c), Max: a.Max(b).Max(c)}
}

// Query appends to out the triangles whose bounds may touch box, given in
// the mesh's local space. Each triangle appears once.
func (m *TriMesh) Query(box AABB, out []int) []int {
	if len(m.Triangles) == 0 || !box.Intersects(m.bounds) {
		return out
	}
	return m.grid.query(box, out)
}
