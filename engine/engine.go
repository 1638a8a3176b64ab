package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"mime-engine/config"
	"mime-engine/core"
	"mime-engine/game"
	"mime-engine/math"
	"mime-engine/mup"
	"mime-engine/renderer"
	"mime-engine/scene"
)

// Window is the part of core.Window the frame loop uses.
type Window interface {
	PollEvents() []core.Event
	GetFramebufferSize() (int, int)
}

// UniformSlot is the binding the sector shaders read the uniform block from.
const UniformSlot = 0

// Engine runs the frame loop: input, physics, camera, render.
type Engine struct {
	window  Window
	device  renderer.Device
	surface renderer.Surface
	world   *game.World

	pipeline      renderer.Pipeline
	uniforms      *renderer.UniformBlock
	uniformBuffer renderer.UniformBuffer
	clearColor    core.Color
	clearDepth    float32
	cullSectors   bool

	fov, near, far float32
	width, height  int

	sectorDraws [][mup.SurfaceCount]renderer.Draw
	pass        renderer.RenderPass

	now  func() time.Time
	last time.Time

	stats frameStats
}

type frameStats struct {
	since  time.Time
	frames int
	steps  int
	draws  int
	tris   int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(cfg *config.Config, window Window, device renderer.Device, surface renderer.Surface, world *game.World, options ...Option) (*Engine, error) {
	e := &Engine{
		window:      window,
		device:      device,
		surface:     surface,
		world:       world,
		pipeline:    renderer.DefaultPipeline(),
		clearColor:  core.ColorRGB(cfg.Render.ClearColor),
		clearDepth:  cfg.Render.ClearDepth,
		cullSectors: cfg.Render.CullSectors,
		fov:         math.Radians(cfg.Camera.FOV),
		near:        cfg.Camera.Near,
		far:         cfg.Camera.Far,
		now:         time.Now,
	}
	for _, option := range options {
		option(e)
	}
	if cfg.Render.Wireframe {
		e.pipeline.PolygonMode = renderer.PolygonLine
	}

	e.width, e.height = window.GetFramebufferSize()
	view := game.ViewMatrix(world.Player.Position, world.Camera, world.Movement.EyeHeight)
	e.uniforms = renderer.NewUniformBlock(e.projection(), view, math.Mat4Scale(math.Vec3One))

	buffer, err := device.NewUniformBuffer("uniform buffer", e.uniforms)
	if err != nil {
		return nil, fmt.Errorf("failed to create uniform buffer: %w", err)
	}
	e.uniformBuffer = buffer
	e.uniforms.MarkClean()

	if world.Map != nil {
		for i, sector := range world.Map.Sectors {
			var draws [mup.SurfaceCount]renderer.Draw
			for surface, mesh := range sector.Meshes() {
				draws[surface] = renderer.Draw{
					Label: fmt.Sprintf("sector %d %s", i, mup.Surface(surface)),
					Mesh:  mesh,
				}
			}
			e.sectorDraws = append(e.sectorDraws, draws)
		}
	}

	e.last = e.now()
	e.stats.since = e.last
	return e, nil
}

func (e *Engine) projection() math.Mat4 {
	aspect := float32(1)
	if e.width > 0 && e.height > 0 {
		aspect = float32(e.width) / float32(e.height)
	}
	return math.Mat4PerspectiveLH(e.fov, aspect, e.near, e.far)
}

// Wireframe reports whether sectors are drawn as lines.
func (e *Engine) Wireframe() bool {
	return e.pipeline.PolygonMode == renderer.PolygonLine
}

func (e *Engine) toggleWireframe() {
	if e.Wireframe() {
		e.pipeline.PolygonMode = renderer.PolygonFill
	} else {
		e.pipeline.PolygonMode = renderer.PolygonLine
	}
	log.Debug().Msgf("wireframe %v", e.Wireframe())
}

// Run calls Frame until the player quits, ctx is cancelled or a frame fails.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		running, err := e.Frame()
		if err != nil {
			return err
		}
		if !running {
			return nil
		}
	}
}

// Frame runs one iteration of the loop. It returns false once a close was
// requested, in which case nothing was simulated or drawn.
func (e *Engine) Frame() (bool, error) {
	now := e.now()
	e.world.Delta.Seconds = float32(now.Sub(e.last).Seconds())
	e.last = now

	for _, event := range e.window.PollEvents() {
		if event.Kind == core.EventKey && event.Key == core.KeyF1 && event.Action == core.Press {
			e.toggleWireframe()
		}
		e.world.State.HandleEvent(event)
	}
	if e.world.State.Close {
		return false, nil
	}

	steps := e.world.Physics.Advance(e.world.Delta.Seconds)
	game.UpdatePlayerPhysics(e.world)
	game.UpdateCamera(e.world)

	width, height := e.window.GetFramebufferSize()
	if width == 0 || height == 0 {
		// Minimized, nothing to draw into.
		return true, nil
	}

	target, err := e.acquire(width, height)
	if err != nil {
		return false, err
	}

	view := game.ViewMatrix(e.world.Player.Position, e.world.Camera, e.world.Movement.EyeHeight)
	e.uniforms.UpdateView(view)
	e.device.WriteUniforms(e.uniformBuffer, e.uniforms)

	pass := e.buildPass(view)
	if err := e.device.Submit(target, pass); err != nil {
		return false, fmt.Errorf("submit: %w", err)
	}
	if err := target.Present(); err != nil {
		return false, fmt.Errorf("present: %w", err)
	}

	e.record(now, steps, pass)
	return true, nil
}

// acquire gets the next frame, reconfiguring the surface once if it has
// gone out of date.
func (e *Engine) acquire(width, height int) (renderer.Target, error) {
	target, err := e.surface.Acquire()
	if errors.Is(err, renderer.ErrSurfaceOutdated) {
		log.Debug().Msgf("surface outdated, reconfiguring to %dx%d", width, height)
		e.surface.Reconfigure(width, height)
		if width != e.width || height != e.height {
			e.width, e.height = width, height
			e.uniforms.UpdateProjection(e.projection())
		}
		target, err = e.surface.Acquire()
	}
	if err != nil {
		return nil, fmt.Errorf("acquire surface: %w", err)
	}
	return target, nil
}

func (e *Engine) buildPass(view math.Mat4) *renderer.RenderPass {
	e.pass.Pipeline = e.pipeline
	e.pass.ClearColor = e.clearColor
	e.pass.ClearDepth = e.clearDepth
	e.pass.Bindings = append(e.pass.Bindings[:0], renderer.Binding{Slot: UniformSlot, Buffer: e.uniformBuffer})
	e.pass.Draws = e.pass.Draws[:0]

	if !e.cullSectors || e.world.Map == nil {
		for _, draws := range e.sectorDraws {
			e.pass.Draws = append(e.pass.Draws, draws[:]...)
		}
		return &e.pass
	}

	frustum := scene.FrustumFromVP(view.Mul(e.uniforms.Projection))
	for i, sector := range e.world.Map.Sectors {
		if sector.Bounds.IntersectsFrustum(&frustum) {
			e.pass.Draws = append(e.pass.Draws, e.sectorDraws[i][:]...)
		}
	}
	return &e.pass
}

func (e *Engine) record(now time.Time, steps int, pass *renderer.RenderPass) {
	stats := pass.Stats()
	e.stats.frames++
	e.stats.steps += steps
	e.stats.draws += stats.Draws
	e.stats.tris += stats.Triangles

	elapsed := now.Sub(e.stats.since)
	if elapsed < time.Second {
		return
	}
	seconds := elapsed.Seconds()
	event := log.Debug().
		Float64("fps", float64(e.stats.frames)/seconds).
		Int("steps", e.stats.steps).
		Int("draws", e.stats.draws/e.stats.frames).
		Int("triangles", e.stats.tris/e.stats.frames)
	if ground, ok := game.GroundDistance(e.world); ok {
		event = event.Float32("ground", ground)
	}
	event.Msg("frame stats")
	e.stats = frameStats{since: now}
}

// Close releases the GPU resources the engine created. The map's meshes
// belong to the caller.
func (e *Engine) Close() {
	if e.uniformBuffer != nil {
		e.uniformBuffer.Release()
		e.uniformBuffer = nil
	}
}
