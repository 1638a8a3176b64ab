package io

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"mime-engine/mup"
)

// MaxSectorIndex bounds the sector number a mesh name may carry. Gaps are
// filled with empty sectors, so an unbounded index would allocate without
// limit.
const MaxSectorIndex = 1 << 16

var ErrSectorIndex = errors.New("gltf: sector index out of range")

// ExportGLTF converts a map into a glTF document with one mesh and node per
// non-empty sector surface, named "sector N surface". Maps are left-handed
// and glTF is right-handed, so Z is negated; that also turns the map's
// clockwise winding into glTF's counter-clockwise.
func ExportGLTF(f *mup.File) *gltf.Document {
	doc := gltf.NewDocument()
	for i := range f.Sectors {
		for surface := mup.Surface(0); surface < mup.SurfaceCount; surface++ {
			mesh := f.Sectors[i].Mesh(surface)
			if mesh.Empty() {
				continue
			}

			positions := make([][3]float32, len(mesh.Vertices))
			colors := make([][3]float32, len(mesh.Vertices))
			for j, v := range mesh.Vertices {
				positions[j] = [3]float32{v.Position[0], v.Position[1], -v.Position[2]}
				colors[j] = v.Color
			}

			name := meshName(i, surface)
			doc.Meshes = append(doc.Meshes, &gltf.Mesh{
				Name: name,
				Primitives: []*gltf.Primitive{{
					Indices: gltf.Index(modeler.WriteIndices(doc, mesh.Indices)),
					Attributes: gltf.PrimitiveAttributes{
						gltf.POSITION: modeler.WritePosition(doc, positions),
						gltf.COLOR_0:  modeler.WriteColor(doc, colors),
					},
				}},
			})
			doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
		}
	}
	return doc
}

// ImportGLTF builds a map from a glTF document. Meshes named the way
// ExportGLTF names them go back to their sector and surface; any other mesh
// becomes the wall of a sector of its own. Node transforms are ignored.
func ImportGLTF(doc *gltf.Document) (*mup.File, error) {
	f := &mup.File{}
	var loose []mup.Mesh

	for mi, gm := range doc.Meshes {
		mesh, err := readMesh(doc, gm)
		if err != nil {
			return nil, fmt.Errorf("gltf mesh %d %q: %w", mi, gm.Name, err)
		}

		sector, surface, ok := parseMeshName(gm.Name)
		if !ok {
			loose = append(loose, mesh)
			continue
		}
		if sector > MaxSectorIndex {
			return nil, fmt.Errorf("gltf mesh %d %q: %w", mi, gm.Name, ErrSectorIndex)
		}
		for len(f.Sectors) <= sector {
			f.Sectors = append(f.Sectors, mup.Sector{})
		}
		*f.Sectors[sector].Mesh(surface) = mesh
	}

	for _, mesh := range loose {
		f.Sectors = append(f.Sectors, mup.Sector{Wall: mesh})
	}
	return f, nil
}

// readMesh merges the triangle primitives of a glTF mesh into one map mesh.
func readMesh(doc *gltf.Document, gm *gltf.Mesh) (mup.Mesh, error) {
	var mesh mup.Mesh
	for pi, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			return mesh, fmt.Errorf("primitive %d: no POSITION attribute", pi)
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return mesh, fmt.Errorf("primitive %d positions: %w", pi, err)
		}

		var colors [][3]float32
		if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			colors, err = readColors(doc, doc.Accessors[idx])
			if err != nil {
				return mesh, fmt.Errorf("primitive %d colors: %w", pi, err)
			}
		}

		base := uint32(len(mesh.Vertices))
		for j, p := range positions {
			v := mup.Vertex{
				Position: [3]float32{p[0], p[1], -p[2]},
				Color:    [3]float32{1, 1, 1},
			}
			if j < len(colors) {
				v.Color = colors[j]
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return mesh, fmt.Errorf("primitive %d indices: %w", pi, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for j := range indices {
				indices[j] = uint32(j)
			}
		}
		for _, index := range indices {
			mesh.Indices = append(mesh.Indices, base+index)
		}
	}
	return mesh, mesh.Validate()
}

// readColors accepts the float and normalized integer COLOR_0 layouts.
func readColors(doc *gltf.Document, acr *gltf.Accessor) ([][3]float32, error) {
	data, err := modeler.ReadAccessor(doc, acr, nil)
	if err != nil {
		return nil, err
	}

	var colors [][3]float32
	switch data := data.(type) {
	case [][3]float32:
		colors = data
	case [][4]float32:
		for _, c := range data {
			colors = append(colors, [3]float32{c[0], c[1], c[2]})
		}
	case [][3]uint8:
		for _, c := range data {
			colors = append(colors, [3]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255})
		}
	case [][4]uint8:
		for _, c := range data {
			colors = append(colors, [3]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255})
		}
	default:
		return nil, fmt.Errorf("unsupported color layout %T", data)
	}
	return colors, nil
}

func meshName(sector int, surface mup.Surface) string {
	return fmt.Sprintf("sector %d %s", sector, surface)
}

func parseMeshName(name string) (int, mup.Surface, bool) {
	fields := strings.Fields(name)
	if len(fields) != 3 || fields[0] != "sector" {
		return 0, 0, false
	}
	sector, err := strconv.Atoi(fields[1])
	if err != nil || sector < 0 {
		return 0, 0, false
	}
	for surface := mup.Surface(0); surface < mup.SurfaceCount; surface++ {
		if fields[2] == surface.String() {
			return sector, surface, true
		}
	}
	return 0, 0, false
}

// SaveGLTF writes doc to path, as binary glTF when the extension is .glb.
func SaveGLTF(path string, doc *gltf.Document) error {
	var err error
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("save gltf %q: %w", path, err)
	}
	return nil
}

// LoadGLTF opens a .gltf or .glb file and converts it into a map.
func LoadGLTF(path string) (*mup.File, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	f, err := ImportGLTF(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf import %q: %w", path, err)
	}
	return f, nil
}
