package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mime-engine/config"
	mimeio "mime-engine/io"
	"mime-engine/mup"
)

var CLI struct {
	Debug bool `help:"Whether to enable debug logging."`

	Stats struct {
		Map    string `arg:"" help:"Map to inspect." type:"existingfile"`
		Format string `help:"Output format." enum:"yaml,json,toml,cbor" default:"yaml" short:"f"`
	} `cmd:"" help:"Print sector, mesh and triangle counts for a map."`

	Export struct {
		Map string `arg:"" help:"Map to export." type:"existingfile"`
		Out string `arg:"" help:"Output file; .glb writes binary glTF." type:"path"`
	} `cmd:"" help:"Export a map to glTF."`

	Pack struct {
		In   string `arg:"" help:"Map to convert: .mup or .gltf/.glb." type:"existingfile"`
		Out  string `arg:"" help:"Output .mup file." type:"path"`
		Gzip bool   `help:"Compress the output."`
	} `cmd:"" help:"Convert a map into the mime format."`

	Gen struct {
		Out   string `arg:"" help:"Output .mup file." type:"path"`
		Rooms int    `help:"Number of rooms in the corridor." default:"8"`
		Gzip  bool   `help:"Compress the output."`
	} `cmd:"" help:"Generate a straight corridor map."`

	Config struct {
	} `cmd:"" help:"Write the default viewer configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func statsCommand() error {
	file, err := mimeio.ReadMap(CLI.Stats.Map)
	if err != nil {
		return err
	}
	return writeStats(os.Stdout, file.Stats(), CLI.Stats.Format)
}

func exportCommand() error {
	file, err := mimeio.ReadMap(CLI.Export.Map)
	if err != nil {
		return err
	}
	if err := mimeio.SaveGLTF(CLI.Export.Out, mimeio.ExportGLTF(file)); err != nil {
		return err
	}
	log.Info().Str("path", CLI.Export.Out).Int("meshes", file.Stats().Meshes).Msg("exported")
	return nil
}

func packCommand() error {
	file, err := mimeio.ReadMap(CLI.Pack.In)
	if err != nil {
		return err
	}
	if err := mup.WriteFile(CLI.Pack.Out, file, CLI.Pack.Gzip); err != nil {
		return err
	}
	log.Info().Str("path", CLI.Pack.Out).Int("sectors", len(file.Sectors)).Msg("packed")
	return nil
}

func genCommand() error {
	if CLI.Gen.Rooms < 1 {
		return fmt.Errorf("rooms must be at least 1, got %d", CLI.Gen.Rooms)
	}
	file := mup.GenerateCorridor(CLI.Gen.Rooms)
	if err := mup.WriteFile(CLI.Gen.Out, file, CLI.Gen.Gzip); err != nil {
		return err
	}
	log.Info().Str("path", CLI.Gen.Out).Int("rooms", CLI.Gen.Rooms).Msg("generated")
	return nil
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("mupdump"),
		kong.Description("inspect, convert and generate mime maps"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	var err error
	switch ctx.Command() {
	case "stats <map>":
		err = statsCommand()
	case "export <map> <out>":
		err = exportCommand()
	case "pack <in> <out>":
		err = packCommand()
	case "gen <out>":
		err = genCommand()
	case "config":
		_, err = os.Stdout.Write(config.DEFAULT)
	}
	if err != nil {
		writeError(err)
	}
}
