package physics

import (
	"github.com/chewxy/math32"

	"mime-engine/math"
)

type cell struct {
	x, y, z int32
}

// grid buckets triangles by the cells their bounds overlap.
type grid struct {
	mesh     *TriMesh
	cellSize float32
	cells    map[cell][]int32

	// stamp dedupes triangles spanning several cells within one query.
	stamp   []uint32
	queryID uint32
}

// Upper bound on cells a single triangle is registered in. Larger
// triangles grow the cell size instead.
const maxCellsPerTriangle = 512

func newGrid(mesh *TriMesh) *grid {
	g := &grid{
		mesh:  mesh,
		cells: make(map[cell][]int32),
		stamp: make([]uint32, len(mesh.Triangles)),
	}
	if len(mesh.Triangles) == 0 {
		g.cellSize = 1
		return g
	}

	var total float32
	for i := range mesh.Triangles {
		box := mesh.triangleAABB(i)
		size := box.Max.Sub(box.Min)
		total += math32.Max(size.X, math32.Max(size.Y, size.Z))
	}
	g.cellSize = math32.Max(total/float32(len(mesh.Triangles)), 1)

	for i := 0; i < len(mesh.Triangles); i++ {
		lo, hi := g.cellRange(mesh.triangleAABB(i))
		if int64(hi.x-lo.x+1)*int64(hi.y-lo.y+1)*int64(hi.z-lo.z+1) > maxCellsPerTriangle {
			g.cellSize *= 2
			i = -1
		}
	}

	for i := range mesh.Triangles {
		lo, hi := g.cellRange(mesh.triangleAABB(i))
		g.insert(int32(i), lo, hi)
	}
	return g
}

func (g *grid) insert(tri int32, lo, hi cell) {
	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			for z := lo.z; z <= hi.z; z++ {
				key := cell{x, y, z}
				g.cells[key] = append(g.cells[key], tri)
			}
		}
	}
}

func (g *grid) cellOf(p math.Vec3) cell {
	return cell{
		x: int32(math32.Floor(p.X / g.cellSize)),
		y: int32(math32.Floor(p.Y / g.cellSize)),
		z: int32(math32.Floor(p.Z / g.cellSize)),
	}
}

func (g *grid) cellRange(box AABB) (cell, cell) {
	return g.cellOf(box.Min), g.cellOf(box.Max)
}

func (g *grid) query(box AABB, out []int) []int {
	// Clamp to the mesh so a huge query box cannot walk empty space.
	box.Min = box.Min.Max(g.mesh.bounds.Min)
	box.Max = box.Max.Min(g.mesh.bounds.Max)

	g.queryID++
	if g.queryID == 0 {
		for i := range g.stamp {
			g.stamp[i] = 0
		}
		g.queryID = 1
	}

	lo, hi := g.cellRange(box)
	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			for z := lo.z; z <= hi.z; z++ {
				for _, tri := range g.cells[cell{x, y, z}] {
					if g.stamp[tri] == g.queryID {
						continue
					}
					g.stamp[tri] = g.queryID
					if g.mesh.triangleAABB(int(tri)).Intersects(box) {
						out = append(out, int(tri))
					}
				}
			}
		}
	}
	return out
}
