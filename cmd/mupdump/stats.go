package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mime-engine/mup"
)

// writeStats encodes stats to w in one of the supported formats.
func writeStats(w io.Writer, stats mup.Stats, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml":
		data, err = yaml.Marshal(stats)
	case "json":
		data, err = json.MarshalIndent(stats, "", "  ")
		data = append(data, '\n')
	case "toml":
		data, err = toml.Marshal(stats)
	case "cbor":
		data, err = cbor.Marshal(stats)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}
