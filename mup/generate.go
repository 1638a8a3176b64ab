package mup

import "mime-engine/math"

// Wall sides for boxSector.
const (
	wallNorth = 1 << iota // +Z
	wallSouth             // -Z
	wallEast              // +X
	wallWest              // -X

	allWalls = wallNorth | wallSouth | wallEast | wallWest
)

// BoxSector builds an axis-aligned room. All faces wind clockwise when seen
// from inside the box, the front-face convention used by the viewer.
func BoxSector(min, max, color math.Vec3) Sector {
	return boxSector(min, max, color, allWalls)
}

func boxSector(min, max, color math.Vec3, walls int) Sector {
	var sector Sector

	floor := color.Mul(0.6)
	addQuad(&sector.Floor, floor,
		math.NewVec3(min.X, min.Y, min.Z),
		math.NewVec3(min.X, min.Y, max.Z),
		math.NewVec3(max.X, min.Y, max.Z),
		math.NewVec3(max.X, min.Y, min.Z))

	ceiling := color.Mul(0.4)
	addQuad(&sector.Ceiling, ceiling,
		math.NewVec3(min.X, max.Y, min.Z),
		math.NewVec3(max.X, max.Y, min.Z),
		math.NewVec3(max.X, max.Y, max.Z),
		math.NewVec3(min.X, max.Y, max.Z))

	if walls&wallNorth != 0 {
		addQuad(&sector.Wall, color,
			math.NewVec3(min.X, min.Y, max.Z),
			math.NewVec3(min.X, max.Y, max.Z),
			math.NewVec3(max.X, max.Y, max.Z),
			math.NewVec3(max.X, min.Y, max.Z))
	}
	if walls&wallSouth != 0 {
		addQuad(&sector.Wall, color,
			math.NewVec3(max.X, min.Y, min.Z),
			math.NewVec3(max.X, max.Y, min.Z),
			math.NewVec3(min.X, max.Y, min.Z),
			math.NewVec3(min.X, min.Y, min.Z))
	}
	side := color.Mul(0.8)
	if walls&wallEast != 0 {
		addQuad(&sector.Wall, side,
			math.NewVec3(max.X, min.Y, max.Z),
			math.NewVec3(max.X, max.Y, max.Z),
			math.NewVec3(max.X, max.Y, min.Z),
			math.NewVec3(max.X, min.Y, min.Z))
	}
	if walls&wallWest != 0 {
		addQuad(&sector.Wall, side,
			math.NewVec3(min.X, min.Y, min.Z),
			math.NewVec3(min.X, max.Y, min.Z),
			math.NewVec3(min.X, max.Y, max.Z),
			math.NewVec3(min.X, min.Y, max.Z))
	}

	return sector
}

// addQuad appends corners a..d, given clockwise, as two triangles.
func addQuad(mesh *Mesh, color math.Vec3, a, b, c, d math.Vec3) {
	base := uint32(len(mesh.Vertices))
	for _, corner := range [4]math.Vec3{a, b, c, d} {
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position: corner.Array(),
			Color:    color.Array(),
		})
	}
	mesh.Indices = append(mesh.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

// Corridor layout in raw map units. The first room contains the default
// player spawn.
var (
	CorridorOrigin = math.NewVec3(877, 0, -3800)
	CorridorRoom   = math.NewVec3(400, 600, 400)
)

// GenerateCorridor builds n rooms joined end to end along +Z. Only the
// outer ends of the corridor are closed.
func GenerateCorridor(n int) *File {
	file := &File{Sectors: make([]Sector, 0, n)}
	colors := []math.Vec3{
		math.NewVec3(0.8, 0.3, 0.3),
		math.NewVec3(0.3, 0.8, 0.3),
		math.NewVec3(0.3, 0.3, 0.8),
	}

	for i := 0; i < n; i++ {
		min := CorridorOrigin.Add(math.NewVec3(0, 0, float32(i)*CorridorRoom.Z))
		max := min.Add(CorridorRoom)

		walls := wallEast | wallWest
		if i == 0 {
			walls |= wallSouth
		}
		if i == n-1 {
			walls |= wallNorth
		}

		file.Sectors = append(file.Sectors, boxSector(min, max, colors[i%len(colors)], walls))
	}
	return file
}
