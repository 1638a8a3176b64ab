package mup

import "errors"

// Magic opens every map file.
var Magic = [4]byte{'M', 'I', 'M', 'E'}

const (
	// Version is the sector-based layout this package reads and writes.
	Version uint32 = 2
	// LegacyVersion is the flat single-mesh layout with u64 offset/count
	// pairs. It is recognised only to produce a clear error.
	LegacyVersion uint32 = 1
)

const (
	vertexSize = 6 * 4
	headerSize = 4 + 4 + 4
	// An empty mesh still carries its two counts.
	minMeshSize   = 4 + 4
	minSectorSize = SurfaceCount * minMeshSize
)

var (
	ErrBadMagic           = errors.New("mup: bad magic")
	ErrUnsupportedVersion = errors.New("mup: unsupported version")
	ErrLegacyVersion      = errors.New("mup: legacy flat layout (version 1) is not supported")
	ErrTruncated          = errors.New("mup: truncated data")
	ErrIndexOutOfRange    = errors.New("mup: index out of range")
	ErrIndexCount         = errors.New("mup: index count is not a multiple of 3")
	ErrTrailingData       = errors.New("mup: trailing data after last sector")
	ErrTooLarge           = errors.New("mup: decompressed data too large")
)

// Surface names one of the three meshes of a sector.
type Surface int

const (
	Floor Surface = iota
	Ceiling
	Wall

	SurfaceCount = 3
)

func (s Surface) String() string {
	switch s {
	case Floor:
		return "floor"
	case Ceiling:
		return "ceiling"
	case Wall:
		return "wall"
	}
	return "unknown"
}

// Collidable reports whether the surface takes part in collision.
// Ceilings are render-only.
func (s Surface) Collidable() bool {
	return s != Ceiling
}

// Vertex is one map vertex: a position in raw map units and an RGB colour.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
}

type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m *Mesh) Empty() bool {
	return len(m.Indices) == 0
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks that indices form whole triangles over existing vertices.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return ErrIndexCount
	}
	n := uint32(len(m.Vertices))
	for _, index := range m.Indices {
		if index >= n {
			return ErrIndexOutOfRange
		}
	}
	return nil
}

// Sector is one region of the map.
type Sector struct {
	Floor   Mesh
	Ceiling Mesh
	Wall    Mesh
}

// Mesh returns the mesh for a surface.
func (s *Sector) Mesh(surface Surface) *Mesh {
	switch surface {
	case Floor:
		return &s.Floor
	case Ceiling:
		return &s.Ceiling
	default:
		return &s.Wall
	}
}

type File struct {
	Sectors []Sector
}

type Stats struct {
	Sectors   int `json:"sectors" yaml:"sectors" toml:"sectors" cbor:"1,keyasint"`
	Meshes    int `json:"meshes" yaml:"meshes" toml:"meshes" cbor:"2,keyasint"`
	Vertices  int `json:"vertices" yaml:"vertices" toml:"vertices" cbor:"3,keyasint"`
	Triangles int `json:"triangles" yaml:"triangles" toml:"triangles" cbor:"4,keyasint"`
	// Colliders counts non-empty floor and wall meshes.
	Colliders int `json:"colliders" yaml:"colliders" toml:"colliders" cbor:"5,keyasint"`
}

func (f *File) Stats() Stats {
	stats := Stats{Sectors: len(f.Sectors)}
	for i := range f.Sectors {
		for surface := Surface(0); surface < SurfaceCount; surface++ {
			mesh := f.Sectors[i].Mesh(surface)
			if mesh.Empty() {
				continue
			}
			stats.Meshes++
			stats.Vertices += len(mesh.Vertices)
			stats.Triangles += mesh.TriangleCount()
			if surface.Collidable() {
				stats.Colliders++
			}
		}
	}
	return stats
}
