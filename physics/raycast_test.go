package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mime-engine/math"
)

func TestCastRayTriMesh(t *testing.T) {
	w := newWorld(t, math.NewVec3(0, 10, 0), floorMesh(t, 0, 10))

	// The player's own cuboid sits on the ray and must not be hit.
	hit, ok := w.colliders.CastRay(Ray{Origin: math.NewVec3(3, 10, 3), Dir: math.NewVec3(0, -1, 0)}, 100)
	require.True(t, ok)
	assert.Equal(t, ColliderHandle(1), hit.Collider)
	assert.InDelta(t, 10, hit.Toi, 1e-5)
	assert.InDelta(t, 1, hit.Normal.Y, 1e-6)
	assert.GreaterOrEqual(t, hit.Triangle, 0)
}

func TestCastRayMisses(t *testing.T) {
	w := newWorld(t, math.NewVec3(0, 10, 0), floorMesh(t, 0, 10))

	cases := map[string]Ray{
		"up":      {Origin: math.NewVec3(0, 5, 0), Dir: math.NewVec3(0, 1, 0)},
		"outside": {Origin: math.NewVec3(50, 5, 0), Dir: math.NewVec3(0, -1, 0)},
		"short":   {Origin: math.NewVec3(0, 500, 0), Dir: math.NewVec3(0, -1, 0)},
	}
	for name, ray := range cases {
		_, ok := w.colliders.CastRay(ray, 100)
		assert.False(t, ok, name)
	}
}

func TestCastRayClosest(t *testing.T) {
	w := newWorld(t, math.NewVec3(100, 0, 0), floorMesh(t, 0, 10), floorMesh(t, 5, 10))

	hit, ok := w.colliders.CastRay(Ray{Origin: math.NewVec3(0, 20, 0), Dir: math.NewVec3(0, -1, 0)}, 100)
	require.True(t, ok)
	assert.Equal(t, ColliderHandle(2), hit.Collider)
	assert.InDelta(t, 15, hit.Toi, 1e-5)

	// From below, the normal faces the ray.
	hit, ok = w.colliders.CastRay(Ray{Origin: math.NewVec3(0, -5, 0), Dir: math.NewVec3(0, 1, 0)}, 100)
	require.True(t, ok)
	assert.Equal(t, ColliderHandle(1), hit.Collider)
	assert.InDelta(t, -1, hit.Normal.Y, 1e-6)
}

func TestCastRayCuboid(t *testing.T) {
	colliders := NewColliderSet()
	box := NewCollider(NewCuboid(math.NewVec3(1, 1, 1)))
	box.Offset = math.NewVec3(0, 0, 10)
	handle := colliders.Insert(box)

	hit, ok := colliders.CastRay(Ray{Origin: math.Vec3Zero, Dir: math.NewVec3(0, 0, 1)}, 100)
	require.True(t, ok)
	assert.Equal(t, handle, hit.Collider)
	assert.InDelta(t, 9, hit.Toi, 1e-5)
	assert.Equal(t, math.NewVec3(0, 0, -1), hit.Normal)
	assert.Equal(t, -1, hit.Triangle)

	_, ok = colliders.CastRay(Ray{Origin: math.NewVec3(5, 0, 0), Dir: math.NewVec3(0, 0, 1)}, 100)
	assert.False(t, ok)

	_, ok = colliders.CastRay(Ray{Origin: math.Vec3Zero, Dir: math.NewVec3(0, 0, 1)}, 5)
	assert.False(t, ok)
}

func TestRayTriangle(t *testing.T) {
	a, b, c := math.NewVec3(0, 0, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0)

	toi, ok := rayTriangle(Ray{Origin: math.NewVec3(0.25, 0.25, -2), Dir: math.NewVec3(0, 0, 1)}, a, b, c)
	assert.True(t, ok)
	assert.InDelta(t, 2, toi, 1e-6)

	_, ok = rayTriangle(Ray{Origin: math.NewVec3(0.75, 0.75, -2), Dir: math.NewVec3(0, 0, 1)}, a, b, c)
	assert.False(t, ok)

	_, ok = rayTriangle(Ray{Origin: math.NewVec3(0.25, 0.25, -2), Dir: math.NewVec3(1, 0, 0)}, a, b, c)
	assert.False(t, ok)
}
