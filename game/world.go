package game

import (
	"fmt"

	"mime-engine/config"
	"mime-engine/math"
	"mime-engine/physics"
	"mime-engine/scene"
)

type Player struct {
	// Position is in render units, read back from the body every frame.
	Position math.Vec3
	Body     physics.RigidBodyHandle
	Collider physics.ColliderHandle
	Speed    float32
}

type Camera struct {
	Direction math.Vec3
	Up        math.Vec3
}

// Movement holds the player controller constants.
type Movement struct {
	ForwardSpeed float32
	JumpSpeed    float32
	// UnitScale converts physics units to render units.
	UnitScale float32
	EyeHeight float32
}

// World is everything the per-frame systems read and write.
type World struct {
	Player   Player
	Camera   Camera
	State    *GameState
	Delta    DeltaTime
	Physics  *PhysicsWorld
	Map      *scene.Map
	Movement Movement
}

// NewWorld builds the physics scene for m and spawns the player. m may be
// nil for an empty world.
func NewWorld(cfg *config.Config, m *scene.Map) (*World, error) {
	params := physics.DefaultIntegrationParameters()
	params.DT = cfg.Physics.DT

	phys := NewPhysicsWorld(math.Vec3FromArray(cfg.Physics.Gravity), params)
	phys.MaxSubsteps = cfg.Physics.MaxSubsteps
	phys.Lockstep = cfg.Physics.Lockstep

	if m != nil {
		for _, mesh := range m.Colliders() {
			shape, err := physics.NewTriMesh(mesh.Vertices, mesh.Triangles)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", mesh.Label, err)
			}
			collider := physics.NewCollider(shape)
			collider.Friction = cfg.Physics.Friction
			phys.Colliders.Insert(collider)
		}
	}

	unitScale := cfg.World.UnitScale
	spawn := math.Vec3FromArray(cfg.Player.BodySpawn).Div(unitScale)
	body := phys.Bodies.Insert(physics.NewDynamicBody(spawn))

	box := physics.NewCollider(physics.NewCuboid(math.Vec3FromArray(cfg.Player.HalfExtents)))
	box.Friction = cfg.Physics.Friction
	collider := phys.Colliders.InsertWithParent(box, body, phys.Bodies)

	state := NewGameState(cfg.Camera.InitialYaw, cfg.Camera.InitialPitch, Look{
		Sensitivity: cfg.Camera.Sensitivity,
		MaxPitch:    cfg.Camera.MaxPitch,
		InvertY:     cfg.Camera.InvertY,
	})

	return &World{
		Player: Player{
			Position: math.Vec3FromArray(cfg.Player.SpawnPosition),
			Body:     body,
			Collider: collider,
			Speed:    cfg.Player.Speed,
		},
		Camera: Camera{
			Direction: LookDirection(state.Yaw, state.Pitch),
			Up:        math.Vec3Up,
		},
		State:   state,
		Physics: phys,
		Map:     m,
		Movement: Movement{
			ForwardSpeed: cfg.Player.ForwardSpeed,
			JumpSpeed:    cfg.Player.JumpSpeed,
			UnitScale:    unitScale,
			EyeHeight:    cfg.Camera.EyeHeight,
		},
	}, nil
}

func (w *World) playerBody() *physics.RigidBody {
	body := w.Physics.Bodies.Get(w.Player.Body)
	if body == nil {
		panic(fmt.Sprintf("game: player body %d missing", w.Player.Body))
	}
	return body
}

// LookDirection converts yaw and pitch in degrees to a unit view direction.
func LookDirection(yaw, pitch float32) math.Vec3 {
	return math.SphericalDirection(yaw, pitch)
}

// UpdatePlayerPhysics copies the body translation, scaled to render units,
// into the player position.
func UpdatePlayerPhysics(w *World) {
	w.Player.Position = w.playerBody().Translation().Mul(w.Movement.UnitScale)
}

// UpdateCamera derives the view direction from yaw and pitch and turns the
// movement intents into body velocity. Each active intent replaces the
// velocity outright, in the order forward, back, left, right, jump, so the
// last one applied wins.
func UpdateCamera(w *World) {
	dir := LookDirection(w.State.Yaw, w.State.Pitch)
	w.Camera.Direction = dir

	body := w.playerBody()
	speed := w.Movement.ForwardSpeed
	flat := math.NewVec3(dir.X, 0, dir.Z)
	right := w.Camera.Up.Cross(dir).Horizontal().Normalize()

	if w.State.Forward {
		body.SetLinvel(flat.Mul(speed), true)
	}
	if w.State.Back {
		body.SetLinvel(flat.Mul(-speed), true)
	}
	if w.State.Left {
		body.SetLinvel(right.Mul(-speed), true)
	}
	if w.State.Right {
		body.SetLinvel(right.Mul(speed), true)
	}
	if w.State.Jump {
		body.SetLinvel(math.NewVec3(0, w.Movement.JumpSpeed, 0), true)
	}
}

// Eye returns the camera position for a player position.
func Eye(pos math.Vec3, eyeHeight float32) math.Vec3 {
	return pos.Add(math.NewVec3(0, eyeHeight, 0))
}

// ViewMatrix looks from the eye, raised eyeHeight above pos, along the
// camera direction.
func ViewMatrix(pos math.Vec3, cam Camera, eyeHeight float32) math.Mat4 {
	eye := Eye(pos, eyeHeight)
	return math.Mat4LookAtLH(eye, eye.Add(cam.Direction), cam.Up)
}

// groundProbe is how far below the player GroundDistance looks, in physics
// units.
const groundProbe = 1000

// GroundDistance casts a ray straight down from the player body and returns
// the gap between the bottom of its collider and the first static surface,
// in render units. It reports false when nothing is below within reach.
func GroundDistance(w *World) (float32, bool) {
	body := w.playerBody()
	var half float32
	if collider := w.Physics.Colliders.Get(w.Player.Collider); collider != nil {
		if box, ok := collider.Shape.(*physics.Cuboid); ok {
			half = box.HalfExtents.Y
		}
	}

	ray := physics.Ray{Origin: body.Translation(), Dir: math.NewVec3(0, -1, 0)}
	hit, ok := w.Physics.Colliders.CastRay(ray, groundProbe)
	if !ok {
		return 0, false
	}
	return (hit.Toi - half) * w.Movement.UnitScale, true
}
