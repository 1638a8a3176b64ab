package mup

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
)

// Encode serializes a map in the current layout. Meshes are validated
// first so Encode never writes a file Decode would reject.
func Encode(file *File) ([]byte, error) {
	p := Buffer{}
	if err := p.Put(Magic); err != nil {
		return nil, err
	}
	p.PutUint32(Version)
	p.PutUint32(uint32(len(file.Sectors)))

	for i := range file.Sectors {
		sector := &file.Sectors[i]
		for surface := Surface(0); surface < SurfaceCount; surface++ {
			mesh := sector.Mesh(surface)
			if err := mesh.Validate(); err != nil {
				return nil, fmt.Errorf("sector %d %s: %w", i, surface, err)
			}

			p.PutUint32(uint32(len(mesh.Vertices)))
			if err := p.Put(mesh.Vertices); err != nil {
				return nil, err
			}
			p.PutUint32(uint32(len(mesh.Indices)))
			if err := p.Put(mesh.Indices); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}

func EncodeGzip(file *File) ([]byte, error) {
	raw, err := Encode(file)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	gz := gzip.NewWriter(&buffer)
	if _, err := gz.Write(raw); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// WriteFile encodes the map to path, compressed when compress is set.
func WriteFile(path string, file *File, compress bool) error {
	encode := Encode
	if compress {
		encode = EncodeGzip
	}

	data, err := encode(file)
	if err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write map %q: %w", path, err)
	}
	return nil
}
