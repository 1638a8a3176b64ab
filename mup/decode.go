package mup

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

var gzipMagic = []byte{0x1f, 0x8b}

// maxInflated caps the size of decompressed map data.
var maxInflated int64 = 256 << 20

func IsGzip(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}

func gunzip(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(io.LimitReader(gz, maxInflated+1))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if int64(len(raw)) > maxInflated {
		return nil, fmt.Errorf("gzip: over %d bytes: %w", maxInflated, ErrTooLarge)
	}
	return raw, nil
}

// Decode parses a map. Gzip-compressed input is detected and inflated
// first. Counts are checked against the remaining input before anything is
// allocated, so a corrupt header cannot request huge buffers.
func Decode(data []byte) (*File, error) {
	if IsGzip(data) {
		raw, err := gunzip(data)
		if err != nil {
			return nil, err
		}
		data = raw
	}

	p := Buffer(data)
	if p.Remaining() < headerSize {
		return nil, fmt.Errorf("header: %w", ErrTruncated)
	}

	var magic [4]byte
	if err := p.Get(&magic); err != nil {
		return nil, fmt.Errorf("header: %w", ErrTruncated)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, magic[:])
	}

	version, _ := p.GetUint32()
	switch version {
	case Version:
	case LegacyVersion:
		return nil, ErrLegacyVersion
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	numSectors, _ := p.GetUint32()
	if uint64(numSectors)*minSectorSize > uint64(p.Remaining()) {
		return nil, fmt.Errorf("%d sectors: %w", numSectors, ErrTruncated)
	}

	file := &File{Sectors: make([]Sector, numSectors)}
	for i := range file.Sectors {
		sector := &file.Sectors[i]
		for surface := Surface(0); surface < SurfaceCount; surface++ {
			if err := decodeMesh(&p, sector.Mesh(surface)); err != nil {
				return nil, fmt.Errorf("sector %d %s: %w", i, surface, err)
			}
		}
	}

	if p.Remaining() != 0 {
		return nil, fmt.Errorf("%d bytes: %w", p.Remaining(), ErrTrailingData)
	}

	return file, nil
}

func decodeMesh(p *Buffer, mesh *Mesh) error {
	numVertices, ok := p.GetUint32()
	if !ok {
		return fmt.Errorf("vertex count: %w", ErrTruncated)
	}
	// The index count that follows the vertices needs 4 more bytes.
	if uint64(numVertices)*vertexSize+4 > uint64(p.Remaining()) {
		return fmt.Errorf("%d vertices: %w", numVertices, ErrTruncated)
	}
	mesh.Vertices = make([]Vertex, numVertices)
	if err := p.Get(mesh.Vertices); err != nil {
		return fmt.Errorf("vertices: %w", ErrTruncated)
	}

	numIndices, _ := p.GetUint32()
	if uint64(numIndices)*4 > uint64(p.Remaining()) {
		return fmt.Errorf("%d indices: %w", numIndices, ErrTruncated)
	}
	if numIndices%3 != 0 {
		return fmt.Errorf("%d indices: %w", numIndices, ErrIndexCount)
	}
	mesh.Indices = make([]uint32, numIndices)
	if err := p.Get(mesh.Indices); err != nil {
		return fmt.Errorf("indices: %w", ErrTruncated)
	}

	for i, index := range mesh.Indices {
		if index >= numVertices {
			return fmt.Errorf("index %d = %d, %d vertices: %w", i, index, numVertices, ErrIndexOutOfRange)
		}
	}
	return nil
}

func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %q: %w", path, err)
	}

	file, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode map %q: %w", path, err)
	}
	return file, nil
}
