package physics

import "mime-engine/math"

type BodyType int

const (
	Dynamic BodyType = iota
	Fixed
)

// RigidBodyHandle identifies a body inside its RigidBodySet.
type RigidBodyHandle uint32

// InvalidBody is never returned by Insert.
const InvalidBody RigidBodyHandle = 0

// RigidBody is a point mass carrying attached colliders. Rotations are
// always locked, which is all a character body needs.
type RigidBody struct {
	bodyType    BodyType
	translation math.Vec3
	linvel      math.Vec3
	colliders   []ColliderHandle

	sleeping   bool
	sleepTimer float32
	// Deepest contact normal of the last step, zero when airborne.
	contactNormal math.Vec3
}

func NewDynamicBody(translation math.Vec3) *RigidBody {
	return &RigidBody{bodyType: Dynamic, translation: translation}
}

func NewFixedBody(translation math.Vec3) *RigidBody {
	return &RigidBody{bodyType: Fixed, translation: translation}
}

func (b *RigidBody) BodyType() BodyType     { return b.bodyType }
func (b *RigidBody) Translation() math.Vec3 { return b.translation }
func (b *RigidBody) Linvel() math.Vec3      { return b.linvel }
func (b *RigidBody) IsSleeping() bool       { return b.sleeping }

func (b *RigidBody) SetTranslation(translation math.Vec3, wake bool) {
	b.translation = translation
	if wake {
		b.WakeUp()
	}
}

// SetLinvel replaces the linear velocity. Fixed bodies ignore it.
func (b *RigidBody) SetLinvel(linvel math.Vec3, wake bool) {
	if b.bodyType == Fixed {
		return
	}
	b.linvel = linvel
	if wake {
		b.WakeUp()
	}
}

func (b *RigidBody) WakeUp() {
	b.sleeping = false
	b.sleepTimer = 0
}

// Grounded reports whether the last step found a supporting contact, one
// whose normal points mostly up.
func (b *RigidBody) Grounded() bool {
	return b.contactNormal.Y > 0.7
}

func (b *RigidBody) Colliders() []ColliderHandle {
	return b.colliders
}

type RigidBodySet struct {
	bodies []*RigidBody
}

func NewRigidBodySet() *RigidBodySet {
	return &RigidBodySet{}
}

func (s *RigidBodySet) Insert(body *RigidBody) RigidBodyHandle {
	s.bodies = append(s.bodies, body)
	return RigidBodyHandle(len(s.bodies))
}

// Get returns nil for handles this set never issued.
func (s *RigidBodySet) Get(handle RigidBodyHandle) *RigidBody {
	if handle == InvalidBody || int(handle) > len(s.bodies) {
		return nil
	}
	return s.bodies[handle-1]
}

func (s *RigidBodySet) Len() int {
	return len(s.bodies)
}
