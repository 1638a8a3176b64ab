package game

import (
	"mime-engine/math"
	"mime-engine/physics"
)

// PhysicsWorld owns the rigid-body simulation and drives it at a fixed rate.
type PhysicsWorld struct {
	Bodies    *physics.RigidBodySet
	Colliders *physics.ColliderSet
	Pipeline  *physics.Pipeline
	Params    physics.IntegrationParameters
	Gravity   math.Vec3

	// MaxSubsteps bounds the steps taken for one frame. Time beyond it is
	// dropped so a stall cannot snowball.
	MaxSubsteps int
	// Lockstep runs exactly one step per frame regardless of frame time.
	Lockstep bool

	accumulator float32
}

func NewPhysicsWorld(gravity math.Vec3, params physics.IntegrationParameters) *PhysicsWorld {
	return &PhysicsWorld{
		Bodies:      physics.NewRigidBodySet(),
		Colliders:   physics.NewColliderSet(),
		Pipeline:    physics.NewPipeline(),
		Params:      params,
		Gravity:     gravity,
		MaxSubsteps: 5,
	}
}

func (p *PhysicsWorld) Step() {
	p.Pipeline.Step(p.Gravity, &p.Params, p.Bodies, p.Colliders)
}

// Advance feeds frame time into the accumulator and runs the whole steps
// it covers. It returns the number of steps taken.
func (p *PhysicsWorld) Advance(seconds float32) int {
	if p.Lockstep {
		p.Step()
		return 1
	}

	p.accumulator += seconds
	steps := 0
	for p.accumulator >= p.Params.DT {
		if steps == p.MaxSubsteps {
			p.accumulator = 0
			break
		}
		p.Step()
		p.accumulator -= p.Params.DT
		steps++
	}
	return steps
}
