package scene

import (
	"errors"
	"fmt"

	"mime-engine/math"
	"mime-engine/mup"
	"mime-engine/renderer"
)

var ErrUnitScale = errors.New("scene: unit scale must be positive")

// MeshUploader turns vertex and index data into a GPU mesh.
type MeshUploader interface {
	UploadMesh(label string, vertices []renderer.Vertex, indices []uint32) (renderer.Mesh, error)
}

// CollisionMesh is a sector surface in physics units.
type CollisionMesh struct {
	Label     string
	Vertices  []math.Vec3
	Triangles [][3]uint32
}

func (c *CollisionMesh) Empty() bool {
	return len(c.Triangles) == 0
}

// Sector holds the GPU meshes of one map sector and the collision meshes
// of its floor and wall. It is immutable once loaded.
type Sector struct {
	Floor   renderer.Mesh
	Ceiling renderer.Mesh
	Wall    renderer.Mesh

	FloorCollision CollisionMesh
	WallCollision  CollisionMesh

	// Bounds of the render geometry in map units.
	Bounds AABB

	vertexCount int
}

// Meshes returns the render meshes in draw order.
func (s *Sector) Meshes() [mup.SurfaceCount]renderer.Mesh {
	return [mup.SurfaceCount]renderer.Mesh{s.Floor, s.Ceiling, s.Wall}
}

func (s *Sector) setMesh(surface mup.Surface, mesh renderer.Mesh) {
	switch surface {
	case mup.Floor:
		s.Floor = mesh
	case mup.Ceiling:
		s.Ceiling = mesh
	default:
		s.Wall = mesh
	}
}

func (s *Sector) release() {
	for _, mesh := range s.Meshes() {
		if mesh != nil {
			mesh.Release()
		}
	}
	s.Floor, s.Ceiling, s.Wall = nil, nil, nil
}

type Map struct {
	Sectors   []*Sector
	UnitScale float32
}

type Stats struct {
	Sectors   int
	Vertices  int
	Triangles int
	Draws     int
	Colliders int
}

// LoadMapFile reads, decodes and loads a map file.
func LoadMapFile(path string, uploader MeshUploader, unitScale float32) (*Map, error) {
	file, err := mup.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadMap(file, uploader, unitScale)
}

// LoadMap uploads every sector surface and builds the floor and wall
// collision meshes, dividing positions by unitScale. On error every mesh
// uploaded so far is released and no map is returned.
func LoadMap(file *mup.File, uploader MeshUploader, unitScale float32) (*Map, error) {
	if unitScale <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnitScale, unitScale)
	}

	m := &Map{
		Sectors:   make([]*Sector, 0, len(file.Sectors)),
		UnitScale: unitScale,
	}
	for i := range file.Sectors {
		sector, err := loadSector(i, &file.Sectors[i], uploader, unitScale)
		if sector != nil {
			m.Sectors = append(m.Sectors, sector)
		}
		if err != nil {
			m.Release()
			return nil, err
		}
	}
	return m, nil
}

func loadSector(index int, source *mup.Sector, uploader MeshUploader, unitScale float32) (*Sector, error) {
	sector := &Sector{}
	first := true

	for surface := mup.Surface(0); surface < mup.SurfaceCount; surface++ {
		mesh := source.Mesh(surface)
		label := fmt.Sprintf("sector %d %s", index, surface)
		if err := mesh.Validate(); err != nil {
			return sector, fmt.Errorf("%s: %w", label, err)
		}

		sector.vertexCount += len(mesh.Vertices)
		vertices := make([]renderer.Vertex, len(mesh.Vertices))
		for i, v := range mesh.Vertices {
			vertices[i] = renderer.Vertex{Position: v.Position, Color: v.Color}

			p := math.Vec3FromArray(v.Position)
			if first {
				sector.Bounds = AABB{Min: p, Max: p}
				first = false
			} else {
				sector.Bounds = sector.Bounds.Extend(p)
			}
		}
		indices := append([]uint32(nil), mesh.Indices...)

		gpu, err := uploader.UploadMesh(label, vertices, indices)
		if err != nil {
			return sector, fmt.Errorf("%s: upload: %w", label, err)
		}
		sector.setMesh(surface, gpu)

		switch surface {
		case mup.Floor:
			sector.FloorCollision = collisionMesh(label, mesh, unitScale)
		case mup.Wall:
			sector.WallCollision = collisionMesh(label, mesh, unitScale)
		}
	}
	return sector, nil
}

func collisionMesh(label string, mesh *mup.Mesh, unitScale float32) CollisionMesh {
	c := CollisionMesh{
		Label:     label,
		Vertices:  make([]math.Vec3, len(mesh.Vertices)),
		Triangles: make([][3]uint32, len(mesh.Indices)/3),
	}
	for i, v := range mesh.Vertices {
		c.Vertices[i] = math.Vec3FromArray(v.Position).Div(unitScale)
	}
	for i := range c.Triangles {
		c.Triangles[i] = [3]uint32{mesh.Indices[3*i], mesh.Indices[3*i+1], mesh.Indices[3*i+2]}
	}
	return c
}

// Colliders returns the non-empty collision meshes, floor then wall for
// each sector in order.
func (m *Map) Colliders() []*CollisionMesh {
	var out []*CollisionMesh
	for _, sector := range m.Sectors {
		for _, c := range []*CollisionMesh{&sector.FloorCollision, &sector.WallCollision} {
			if !c.Empty() {
				out = append(out, c)
			}
		}
	}
	return out
}

// Release frees every GPU mesh of the map.
func (m *Map) Release() {
	for _, sector := range m.Sectors {
		sector.release()
	}
}

func (m *Map) Stats() Stats {
	stats := Stats{Sectors: len(m.Sectors)}
	for _, sector := range m.Sectors {
		for _, mesh := range sector.Meshes() {
			if mesh == nil {
				continue
			}
			stats.Draws++
			stats.Triangles += int(mesh.IndexCount()) / 3
		}
		stats.Vertices += sector.vertexCount
	}
	stats.Colliders = len(m.Colliders())
	return stats
}
