package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"mime-engine/mup"
)

func TestWriteStats(t *testing.T) {
	stats := mup.GenerateCorridor(3).Stats()

	decoders := map[string]func([]byte, any) error{
		"yaml": yaml.Unmarshal,
		"json": json.Unmarshal,
		"toml": toml.Unmarshal,
		"cbor": cbor.Unmarshal,
	}
	for format, unmarshal := range decoders {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeStats(&buf, stats, format))

			var got mup.Stats
			require.NoError(t, unmarshal(buf.Bytes(), &got))
			assert.Equal(t, stats, got)
		})
	}
}

func TestWriteStatsKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStats(&buf, mup.Stats{Sectors: 2, Triangles: 12}, "yaml"))
	assert.Contains(t, buf.String(), "sectors: 2\n")
	assert.Contains(t, buf.String(), "triangles: 12\n")
}

func TestWriteStatsUnknownFormat(t *testing.T) {
	assert.ErrorContains(t, writeStats(&bytes.Buffer{}, mup.Stats{}, "xml"), "unknown format")
}
