package physics

import "mime-engine/math"

// ColliderHandle identifies a collider inside its ColliderSet.
type ColliderHandle uint32

const InvalidCollider ColliderHandle = 0

// DefaultFriction matches the usual rigid-body engine default.
const DefaultFriction = 0.5

type Collider struct {
	Shape    Shape
	Friction float32
	// Offset is the world position of a static collider, or the offset
	// from its parent body's translation.
	Offset math.Vec3

	parent RigidBodyHandle
}

func NewCollider(shape Shape) *Collider {
	return &Collider{Shape: shape, Friction: DefaultFriction}
}

func (c *Collider) Parent() (RigidBodyHandle, bool) {
	return c.parent, c.parent != InvalidBody
}

type ColliderSet struct {
	colliders []*Collider
}

func NewColliderSet() *ColliderSet {
	return &ColliderSet{}
}

// Insert adds a static collider.
func (s *ColliderSet) Insert(collider *Collider) ColliderHandle {
	collider.parent = InvalidBody
	s.colliders = append(s.colliders, collider)
	return ColliderHandle(len(s.colliders))
}

// InsertWithParent attaches collider to a body. It panics when parent is
// not in bodies.
func (s *ColliderSet) InsertWithParent(collider *Collider, parent RigidBodyHandle, bodies *RigidBodySet) ColliderHandle {
	body := bodies.Get(parent)
	if body == nil {
		panic("physics: parent body not found")
	}

	collider.parent = parent
	s.colliders = append(s.colliders, collider)
	handle := ColliderHandle(len(s.colliders))
	body.colliders = append(body.colliders, handle)
	return handle
}

func (s *ColliderSet) Get(handle ColliderHandle) *Collider {
	if handle == InvalidCollider || int(handle) > len(s.colliders) {
		return nil
	}
	return s.colliders[handle-1]
}

func (s *ColliderSet) Len() int {
	return len(s.colliders)
}
