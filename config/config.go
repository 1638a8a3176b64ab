package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DEFAULT []byte

var ErrInvalid = errors.New("invalid config")

type Window struct {
	Width         int    `yaml:"width" toml:"width"`
	Height        int    `yaml:"height" toml:"height"`
	Title         string `yaml:"title" toml:"title"`
	VSync         bool   `yaml:"vsync" toml:"vsync"`
	Fullscreen    bool   `yaml:"fullscreen" toml:"fullscreen"`
	CaptureCursor bool   `yaml:"captureCursor" toml:"captureCursor"`
}

type Camera struct {
	FOV          float32 `yaml:"fov" toml:"fov"`
	Near         float32 `yaml:"near" toml:"near"`
	Far          float32 `yaml:"far" toml:"far"`
	EyeHeight    float32 `yaml:"eyeHeight" toml:"eyeHeight"`
	Sensitivity  float32 `yaml:"sensitivity" toml:"sensitivity"`
	MaxPitch     float32 `yaml:"maxPitch" toml:"maxPitch"`
	InvertY      bool    `yaml:"invertY" toml:"invertY"`
	InitialYaw   float32 `yaml:"initialYaw" toml:"initialYaw"`
	InitialPitch float32 `yaml:"initialPitch" toml:"initialPitch"`
}

type Player struct {
	// SpawnPosition seeds the render-space position before the first
	// physics read-back. BodySpawn is in map units and divided by the unit
	// scale when the body is created.
	SpawnPosition [3]float32 `yaml:"spawnPosition" toml:"spawnPosition"`
	BodySpawn     [3]float32 `yaml:"bodySpawn" toml:"bodySpawn"`
	HalfExtents   [3]float32 `yaml:"halfExtents" toml:"halfExtents"`
	ForwardSpeed  float32    `yaml:"forwardSpeed" toml:"forwardSpeed"`
	JumpSpeed     float32    `yaml:"jumpSpeed" toml:"jumpSpeed"`
	Speed         float32    `yaml:"speed" toml:"speed"`
}

type Physics struct {
	Gravity     [3]float32 `yaml:"gravity" toml:"gravity"`
	DT          float32    `yaml:"dt" toml:"dt"`
	MaxSubsteps int        `yaml:"maxSubsteps" toml:"maxSubsteps"`
	Lockstep    bool       `yaml:"lockstep" toml:"lockstep"`
	Friction    float32    `yaml:"friction" toml:"friction"`
}

type Render struct {
	ClearColor  [3]float32 `yaml:"clearColor" toml:"clearColor"`
	ClearDepth  float32    `yaml:"clearDepth" toml:"clearDepth"`
	CullSectors bool       `yaml:"cullSectors" toml:"cullSectors"`
	Wireframe   bool       `yaml:"wireframe" toml:"wireframe"`
}

type World struct {
	UnitScale float32 `yaml:"unitScale" toml:"unitScale"`
	Map       string  `yaml:"map" toml:"map"`
}

type Config struct {
	Window  Window  `yaml:"window" toml:"window"`
	Camera  Camera  `yaml:"camera" toml:"camera"`
	Player  Player  `yaml:"player" toml:"player"`
	Physics Physics `yaml:"physics" toml:"physics"`
	Render  Render  `yaml:"render" toml:"render"`
	World   World   `yaml:"world" toml:"world"`
}

func decode(data []byte, config *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err := decoder.Decode(config)
	// An empty document leaves the config untouched.
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func decodeTOML(data []byte, config *Config) error {
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(config)
}

// Default returns the embedded default configuration.
func Default() *Config {
	config := &Config{}
	if err := decode(DEFAULT, config); err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return config
}

// Process loads the defaults and then applies each file in order. Later
// files only override the keys they set. Files ending in .toml are read as
// TOML, everything else as YAML, which covers JSON too.
func Process(paths []string) (*Config, error) {
	config := Default()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config %q: %w", path, err)
		}
		parse := decode
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			parse = decodeTOML
		}
		if err := parse(data, config); err != nil {
			return nil, fmt.Errorf("config %q: %w", path, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return invalid("camera fov %v must be in (0, 180)", c.Camera.FOV)
	case c.Camera.Near <= 0:
		return invalid("camera near %v must be positive", c.Camera.Near)
	case c.Camera.Near >= c.Camera.Far:
		return invalid("camera near %v must be less than far %v", c.Camera.Near, c.Camera.Far)
	case c.Camera.Sensitivity <= 0:
		return invalid("camera sensitivity %v must be positive", c.Camera.Sensitivity)
	case c.Camera.MaxPitch < 0 || c.Camera.MaxPitch >= 90:
		return invalid("camera maxPitch %v must be in [0, 90)", c.Camera.MaxPitch)
	case c.Player.HalfExtents[0] <= 0 || c.Player.HalfExtents[1] <= 0 || c.Player.HalfExtents[2] <= 0:
		return invalid("player halfExtents %v must be positive", c.Player.HalfExtents)
	case c.Player.ForwardSpeed < 0 || c.Player.JumpSpeed < 0:
		return invalid("player speeds must not be negative")
	case c.Physics.DT <= 0:
		return invalid("physics dt %v must be positive", c.Physics.DT)
	case c.Physics.MaxSubsteps < 1:
		return invalid("physics maxSubsteps %d must be at least 1", c.Physics.MaxSubsteps)
	case c.Physics.Friction < 0:
		return invalid("physics friction %v must not be negative", c.Physics.Friction)
	case c.World.UnitScale <= 0:
		return invalid("world unitScale %v must be positive", c.World.UnitScale)
	}
	return nil
}
