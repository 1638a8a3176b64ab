package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mime-engine/math"
)

var gravity = math.NewVec3(0, -9.81, 0)

// floorMesh is a square at height y spanning [-size, size] on X and Z.
func floorMesh(t *testing.T, y, size float32) *TriMesh {
	t.Helper()
	mesh, err := NewTriMesh([]math.Vec3{
		math.NewVec3(-size, y, -size),
		math.NewVec3(-size, y, size),
		math.NewVec3(size, y, size),
		math.NewVec3(size, y, -size),
	}, [][3]uint32{{0, 1, 2}, {0, 2, 3}})
	require.NoError(t, err)
	return mesh
}

type world struct {
	bodies    *RigidBodySet
	colliders *ColliderSet
	pipeline  *Pipeline
	params    IntegrationParameters
	player    RigidBodyHandle
}

func newWorld(t *testing.T, spawn math.Vec3, statics ...Shape) *world {
	w := &world{
		bodies:    NewRigidBodySet(),
		colliders: NewColliderSet(),
		pipeline:  NewPipeline(),
		params:    DefaultIntegrationParameters(),
	}
	for _, shape := range statics {
		w.colliders.Insert(NewCollider(shape))
	}
	w.player = w.bodies.Insert(NewDynamicBody(spawn))
	w.colliders.InsertWithParent(NewCollider(NewCuboid(math.NewVec3(1, 4, 1))), w.player, w.bodies)
	return w
}

func (w *world) step(n int) *RigidBody {
	for i := 0; i < n; i++ {
		w.pipeline.Step(gravity, &w.params, w.bodies, w.colliders)
	}
	return w.bodies.Get(w.player)
}

func TestBodyFallsWithoutColliders(t *testing.T) {
	w := newWorld(t, math.NewVec3(0, 100, 0))
	body := w.step(60)

	// One second of semi-implicit Euler under gravity.
	assert.InDelta(t, -9.81, body.Linvel().Y, 1e-3)
	assert.InDelta(t, 100-9.81*61.0/120.0, body.Translation().Y, 1e-2)
}

func TestBodyRestsOnFloor(t *testing.T) {
	w := newWorld(t, math.NewVec3(5, 20, -3), floorMesh(t, 0, 50))
	body := w.step(300)

	// The cuboid's bottom face sits on the floor.
	assert.InDelta(t, 4, body.Translation().Y, 0.05)
	assert.InDelta(t, 0, body.Linvel().Y, 0.2)
	assert.InDelta(t, 5, body.Translation().X, 1e-3)
	assert.InDelta(t, -3, body.Translation().Z, 1e-3)
	assert.True(t, body.Grounded())
}

func TestBodySlidesAcrossTriangleSeam(t *testing.T) {
	w := newWorld(t, math.NewVec3(-20, 4, -20), floorMesh(t, 0, 50))
	body := w.step(30)
	require.True(t, body.Grounded())

	// Move along the diagonal shared by the two floor triangles.
	for i := 0; i < 120; i++ {
		body.SetLinvel(math.NewVec3(10, body.Linvel().Y, 10), true)
		w.step(1)
	}
	assert.InDelta(t, 4, body.Translation().Y, 0.05)
	assert.InDelta(t, body.Translation().X, body.Translation().Z, 0.05)
}

func TestWallStopsBody(t *testing.T) {
	wall, err := NewTriMesh([]math.Vec3{
		math.NewVec3(-50, -50, 10),
		math.NewVec3(-50, 50, 10),
		math.NewVec3(50, 50, 10),
		math.NewVec3(50, -50, 10),
	}, [][3]uint32{{0, 1, 2}, {0, 2, 3}})
	require.NoError(t, err)

	w := newWorld(t, math.NewVec3(0, 4, 0), floorMesh(t, 0, 50), wall)
	body := w.bodies.Get(w.player)
	for i := 0; i < 120; i++ {
		body.SetLinvel(math.NewVec3(0, body.Linvel().Y, 20), true)
		w.step(1)
	}

	// Box half extent is 1 on Z, so it stops one unit short of the wall.
	assert.InDelta(t, 9, body.Translation().Z, 0.05)
	assert.LessOrEqual(t, body.Linvel().Z, float32(20))
}

func TestStaticCuboid(t *testing.T) {
	w := newWorld(t, math.NewVec3(0, 20, 0))
	ground := NewCollider(NewCuboid(math.NewVec3(50, 1, 50)))
	ground.Offset = math.NewVec3(0, -1, 0)
	w.colliders.Insert(ground)

	body := w.step(300)
	assert.InDelta(t, 4, body.Translation().Y, 0.05)
}

func TestSleepAndWake(t *testing.T) {
	w := newWorld(t, math.NewVec3(0, 4, 0), floorMesh(t, 0, 50))
	body := w.step(200)
	require.True(t, body.IsSleeping())

	before := body.Translation()
	w.step(10)
	assert.Equal(t, before, body.Translation())

	body.SetLinvel(math.NewVec3(0, 20, 0), true)
	assert.False(t, body.IsSleeping())
	w.step(1)
	assert.Greater(t, body.Translation().Y, before.Y)
}

func TestFixedBodyIgnoresVelocity(t *testing.T) {
	bodies := NewRigidBodySet()
	handle := bodies.Insert(NewFixedBody(math.NewVec3(1, 2, 3)))
	body := bodies.Get(handle)

	body.SetLinvel(math.NewVec3(5, 5, 5), true)
	NewPipeline().Step(gravity, &IntegrationParameters{DT: 1}, bodies, NewColliderSet())

	assert.Equal(t, math.Vec3Zero, body.Linvel())
	assert.Equal(t, math.NewVec3(1, 2, 3), body.Translation())
}

func TestHandles(t *testing.T) {
	bodies := NewRigidBodySet()
	colliders := NewColliderSet()

	assert.Nil(t, bodies.Get(InvalidBody))
	assert.Nil(t, bodies.Get(42))
	assert.Nil(t, colliders.Get(InvalidCollider))

	body := bodies.Insert(NewDynamicBody(math.Vec3Zero))
	assert.NotEqual(t, InvalidBody, body)

	handle := colliders.InsertWithParent(NewCollider(NewCuboid(math.Vec3One)), body, bodies)
	parent, ok := colliders.Get(handle).Parent()
	assert.True(t, ok)
	assert.Equal(t, body, parent)
	assert.Equal(t, []ColliderHandle{handle}, bodies.Get(body).Colliders())

	assert.Panics(t, func() {
		colliders.InsertWithParent(NewCollider(NewCuboid(math.Vec3One)), 99, bodies)
	})
}

func TestNewTriMeshRejectsBadIndex(t *testing.T) {
	_, err := NewTriMesh([]math.Vec3{math.Vec3Zero}, [][3]uint32{{0, 0, 1}})
	assert.ErrorIs(t, err, ErrBadTriangle)
}

func TestGridQuery(t *testing.T) {
	// A strip of 100 small floor quads along X.
	var vertices []math.Vec3
	var triangles [][3]uint32
	for i := 0; i < 100; i++ {
		x := float32(i)
		base := uint32(len(vertices))
		vertices = append(vertices,
			math.NewVec3(x, 0, 0), math.NewVec3(x, 0, 1),
			math.NewVec3(x+1, 0, 1), math.NewVec3(x+1, 0, 0))
		triangles = append(triangles, [3]uint32{base, base + 1, base + 2}, [3]uint32{base, base + 2, base + 3})
	}
	mesh, err := NewTriMesh(vertices, triangles)
	require.NoError(t, err)

	hits := mesh.Query(AABB{Min: math.NewVec3(10.5, -1, 0), Max: math.NewVec3(11.5, 1, 1)}, nil)
	assert.ElementsMatch(t, []int{20, 21, 22, 23}, hits)

	assert.Empty(t, mesh.Query(AABB{Min: math.NewVec3(0, 5, 0), Max: math.NewVec3(1, 6, 1)}, nil))

	all := mesh.Query(AABB{Min: math.NewVec3(-1e6, -1, -1e6), Max: math.NewVec3(1e6, 1, 1e6)}, nil)
	assert.Len(t, all, 200)
}

func TestBoxTriangle(t *testing.T) {
	a, b, c := math.NewVec3(-10, 0, -10), math.NewVec3(-10, 0, 10), math.NewVec3(10, 0, 10)
	half := math.NewVec3(1, 1, 1)

	pen, ok := boxTriangle(math.NewVec3(-2, 0.75, 2), half, a, b, c)
	require.True(t, ok)
	assert.InDelta(t, 0.25, pen.Depth, 1e-5)
	assert.InDelta(t, 1, pen.Normal.Y, 1e-5)

	// Same overlap from below pushes down.
	pen, ok = boxTriangle(math.NewVec3(-2, -0.75, 2), half, a, b, c)
	require.True(t, ok)
	assert.InDelta(t, -1, pen.Normal.Y, 1e-5)

	_, ok = boxTriangle(math.NewVec3(-2, 1.5, 2), half, a, b, c)
	assert.False(t, ok)

	// Beyond the hypotenuse: separated by an edge axis.
	_, ok = boxTriangle(math.NewVec3(5, 0, -5), half, a, b, c)
	assert.False(t, ok)
}
