package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mime-engine/config"
	"mime-engine/mup"
)

func TestReportFailure(t *testing.T) {
	var buf bytes.Buffer
	reportFailure(zerolog.New(&buf), errors.New("no such map"))

	var entry map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "no such map", entry["error"])
	assert.Equal(t, "mupview failed", entry["message"])
}

func TestLoadMap(t *testing.T) {
	saved := CLI
	defer func() { CLI = saved }()

	CLI.Map = ""
	CLI.Corridor = 3
	cfg := config.Default()
	f, err := loadMap(cfg)
	require.NoError(t, err)
	assert.Equal(t, mup.GenerateCorridor(3), f)

	path := filepath.Join(t.TempDir(), "box.mup")
	want := mup.GenerateCorridor(1)
	require.NoError(t, mup.WriteFile(path, want, false))

	cfg.World.Map = path
	f, err = loadMap(cfg)
	require.NoError(t, err)
	assert.Equal(t, want, f)

	CLI.Map = filepath.Join(t.TempDir(), "missing.mup")
	_, err = loadMap(cfg)
	assert.Error(t, err)
}
