package io

import (
	"path/filepath"
	"strings"

	"mime-engine/mup"
)

// ReadMap loads a map from a mime file, gzipped or not, or from a glTF file
// when the extension is .gltf or .glb.
func ReadMap(path string) (*mup.File, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return mup.ReadFile(path)
	}
}
