package physics

import (
	"github.com/chewxy/math32"

	"mime-engine/math"
)

type IntegrationParameters struct {
	// DT is the length of one step in seconds.
	DT float32
	// Iterations bounds the contact passes per body per step.
	Iterations int
	// Penetration below Slop is left alone so resting contacts stay stable.
	Slop float32
	// Bodies slower than SleepThreshold for SleepTime seconds fall asleep.
	// A zero SleepTime disables sleeping.
	SleepThreshold float32
	SleepTime      float32
}

func DefaultIntegrationParameters() IntegrationParameters {
	return IntegrationParameters{
		DT:             1.0 / 60.0,
		Iterations:     4,
		Slop:           0.001,
		SleepThreshold: 0.01,
		SleepTime:      2,
	}
}

// Pipeline advances a world by fixed steps. It keeps scratch buffers, so
// reuse one Pipeline across steps.
type Pipeline struct {
	candidates []int
}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Step integrates every awake dynamic body by params.DT: gravity, then
// semi-implicit Euler, then contact resolution against static colliders.
func (p *Pipeline) Step(gravity math.Vec3, params *IntegrationParameters, bodies *RigidBodySet, colliders *ColliderSet) {
	dt := params.DT
	for _, body := range bodies.bodies {
		if body.bodyType != Dynamic || body.sleeping {
			continue
		}

		body.linvel = body.linvel.Add(gravity.Mul(dt))
		body.translation = body.translation.Add(body.linvel.Mul(dt))
		body.contactNormal = math.Vec3Zero

		for _, handle := range body.colliders {
			collider := colliders.Get(handle)
			if box, ok := collider.Shape.(*Cuboid); ok {
				p.resolve(body, collider, box, params, colliders)
			}
		}

		p.updateSleep(body, params)
	}
}

func (p *Pipeline) resolve(body *RigidBody, attached *Collider, box *Cuboid, params *IntegrationParameters, colliders *ColliderSet) {
	iterations := params.Iterations
	if iterations < 1 {
		iterations = 1
	}

	for pass := 0; pass < iterations; pass++ {
		pushed := false
		for _, static := range colliders.colliders {
			if _, attachedToBody := static.Parent(); attachedToBody {
				continue
			}
			center := body.translation.Add(attached.Offset)
			friction := (attached.Friction + static.Friction) / 2

			switch shape := static.Shape.(type) {
			case *TriMesh:
				local := center.Sub(static.Offset)
				p.candidates = shape.Query(box.AABB(local), p.candidates[:0])
				for _, tri := range p.candidates {
					a, b, c := shape.Triangle(tri)
					pen, ok := boxTriangle(local, box.HalfExtents, a, b, c)
					if ok && pen.Depth > params.Slop {
						applyContact(body, pen, friction, params.Slop)
						local = body.translation.Add(attached.Offset).Sub(static.Offset)
						pushed = true
					}
				}
			case *Cuboid:
				pen, ok := boxBox(box.AABB(center), shape.AABB(static.Offset))
				if ok && pen.Depth > params.Slop {
					applyContact(body, pen, friction, params.Slop)
					pushed = true
				}
			}
		}
		if !pushed {
			return
		}
	}
}

// applyContact moves the body out along the contact normal, cancels the
// approaching normal velocity and applies Coulomb friction to the rest.
func applyContact(body *RigidBody, pen penetration, friction, slop float32) {
	body.translation = body.translation.Add(pen.Normal.Mul(pen.Depth - slop))
	if pen.Normal.Y > body.contactNormal.Y {
		body.contactNormal = pen.Normal
	}

	vn := body.linvel.Dot(pen.Normal)
	if vn >= 0 {
		return
	}
	body.linvel = body.linvel.Sub(pen.Normal.Mul(vn))

	tangent := body.linvel.Sub(pen.Normal.Mul(body.linvel.Dot(pen.Normal)))
	speed := tangent.Length()
	if speed == 0 {
		return
	}
	drop := math32.Min(speed, friction*-vn)
	body.linvel = body.linvel.Sub(tangent.Mul(drop / speed))
}

func (p *Pipeline) updateSleep(body *RigidBody, params *IntegrationParameters) {
	if params.SleepTime <= 0 {
		return
	}
	if body.linvel.Length() > params.SleepThreshold {
		body.sleepTimer = 0
		return
	}
	body.sleepTimer += params.DT
	if body.sleepTimer >= params.SleepTime {
		body.sleeping = true
		body.linvel = math.Vec3Zero
	}
}
