package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mime-engine/config"
	"mime-engine/core"
	"mime-engine/engine"
	"mime-engine/game"
	"mime-engine/internal/opengl"
	mimeio "mime-engine/io"
	"mime-engine/mup"
	"mime-engine/scene"
)

var CLI struct {
	Debug    bool     `help:"Whether to enable debug logging."`
	Configs  []string `name:"config" short:"c" help:"Configuration files, merged over the defaults in order." type:"existingfile"`
	Corridor int      `help:"Rooms in the generated corridor used when no map is given." default:"8"`

	Wireframe   bool `help:"Start with sectors drawn as lines (F1 toggles)."`
	CullSectors bool `help:"Skip sectors outside the view frustum."`
	Lockstep    bool `help:"Run exactly one physics step per frame."`

	Map string `arg:"" optional:"" help:"Map to view: a .mup file, gzipped or not, or .gltf/.glb." type:"existingfile"`
}

// reportFailure logs the error that ends the process.
func reportFailure(logger zerolog.Logger, err error) {
	logger.Error().Err(err).Msg("mupview failed")
}

func loadMap(cfg *config.Config) (*mup.File, error) {
	path := CLI.Map
	if path == "" {
		path = cfg.World.Map
	}
	if path == "" {
		log.Info().Int("rooms", CLI.Corridor).Msg("no map given, generating corridor")
		return mup.GenerateCorridor(CLI.Corridor), nil
	}
	log.Info().Str("path", path).Msg("loading map")
	return mimeio.ReadMap(path)
}

func run(ctx context.Context) error {
	cfg, err := config.Process(CLI.Configs)
	if err != nil {
		return err
	}
	// Flags only switch things on; files can still enable them.
	cfg.Render.Wireframe = cfg.Render.Wireframe || CLI.Wireframe
	cfg.Render.CullSectors = cfg.Render.CullSectors || CLI.CullSectors
	cfg.Physics.Lockstep = cfg.Physics.Lockstep || CLI.Lockstep

	file, err := loadMap(cfg)
	if err != nil {
		return err
	}

	window, err := core.NewWindow(core.WindowConfig{
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		Title:         cfg.Window.Title,
		Resizable:     true,
		VSync:         cfg.Window.VSync,
		Fullscreen:    cfg.Window.Fullscreen,
		CaptureCursor: cfg.Window.CaptureCursor,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	device, err := opengl.NewDevice()
	if err != nil {
		return err
	}
	defer device.Destroy()

	m, err := scene.LoadMap(file, device, cfg.World.UnitScale)
	if err != nil {
		return err
	}
	defer m.Release()

	stats := m.Stats()
	log.Info().
		Int("sectors", stats.Sectors).
		Int("vertices", stats.Vertices).
		Int("triangles", stats.Triangles).
		Int("colliders", stats.Colliders).
		Msg("map loaded")

	world, err := game.NewWorld(cfg, m)
	if err != nil {
		return err
	}

	e, err := engine.New(cfg, window, device, opengl.NewSurface(window), world)
	if err != nil {
		return err
	}
	defer e.Close()

	start := time.Now()
	err = e.Run(ctx)
	log.Info().Dur("uptime", time.Since(start)).Msg("shutting down")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	kong.Parse(&CLI,
		kong.Name("mupview"),
		kong.Description("walk through a mime map"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		reportFailure(log.Logger, err)
		os.Exit(1)
	}
}
