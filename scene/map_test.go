package scene

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mime-engine/math"
	"mime-engine/mup"
	"mime-engine/renderer"
)

type fakeMesh struct {
	label    string
	vertices []renderer.Vertex
	indices  []uint32
	released *int
}

func (m *fakeMesh) IndexCount() int32 { return int32(len(m.indices)) }
func (m *fakeMesh) Release()          { *m.released++ }

type fakeUploader struct {
	meshes   []*fakeMesh
	released int
	failAt   int
}

var errUpload = errors.New("out of memory")

func (u *fakeUploader) UploadMesh(label string, vertices []renderer.Vertex, indices []uint32) (renderer.Mesh, error) {
	if u.failAt > 0 && len(u.meshes)+1 == u.failAt {
		return nil, errUpload
	}
	mesh := &fakeMesh{label: label, vertices: vertices, indices: indices, released: &u.released}
	u.meshes = append(u.meshes, mesh)
	return mesh, nil
}

const unitScale = 4.0

func TestLoadMapSectors(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		uploader := &fakeUploader{}
		m, err := LoadMap(mup.GenerateCorridor(n), uploader, unitScale)
		require.NoError(t, err)

		require.Len(t, m.Sectors, n)
		assert.Len(t, uploader.meshes, 3*n)
		for _, sector := range m.Sectors {
			assert.NotZero(t, sector.Floor.IndexCount())
			assert.NotZero(t, sector.Wall.IndexCount())
			assert.False(t, sector.FloorCollision.Empty())
			assert.False(t, sector.WallCollision.Empty())
		}
	}
}

func TestLoadMapIndicesValid(t *testing.T) {
	uploader := &fakeUploader{}
	m, err := LoadMap(mup.GenerateCorridor(4), uploader, unitScale)
	require.NoError(t, err)

	for _, mesh := range uploader.meshes {
		for _, index := range mesh.indices {
			assert.Less(t, int(index), len(mesh.vertices), mesh.label)
		}
	}
	for _, collider := range m.Colliders() {
		for _, tri := range collider.Triangles {
			for _, index := range tri {
				assert.Less(t, int(index), len(collider.Vertices), collider.Label)
			}
		}
	}
}

func TestLoadMapCopiesRenderData(t *testing.T) {
	file := mup.GenerateCorridor(2)
	uploader := &fakeUploader{}
	_, err := LoadMap(file, uploader, unitScale)
	require.NoError(t, err)

	mesh := uploader.meshes[4] // sector 1 ceiling
	assert.Equal(t, "sector 1 ceiling", mesh.label)

	source := file.Sectors[1].Ceiling
	require.Len(t, mesh.vertices, len(source.Vertices))
	for i, v := range source.Vertices {
		assert.Equal(t, v.Position, mesh.vertices[i].Position)
		assert.Equal(t, v.Color, mesh.vertices[i].Color)
	}
	assert.Equal(t, source.Indices, mesh.indices)
}

func TestLoadMapUnitConversion(t *testing.T) {
	file := mup.GenerateCorridor(3)
	m, err := LoadMap(file, &fakeUploader{}, unitScale)
	require.NoError(t, err)

	for i, sector := range m.Sectors {
		check := func(render *mup.Mesh, collision *CollisionMesh) {
			require.Len(t, collision.Vertices, len(render.Vertices))
			for j, v := range render.Vertices {
				want := math.Vec3FromArray(v.Position)
				got := collision.Vertices[j]
				assert.InDelta(t, want.X/unitScale, got.X, 1e-4)
				assert.InDelta(t, want.Y/unitScale, got.Y, 1e-4)
				assert.InDelta(t, want.Z/unitScale, got.Z, 1e-4)
			}
			require.Len(t, collision.Triangles, len(render.Indices)/3)
			for k, tri := range collision.Triangles {
				assert.Equal(t, render.Indices[3*k:3*k+3], tri[:])
			}
		}
		check(&file.Sectors[i].Floor, &sector.FloorCollision)
		check(&file.Sectors[i].Wall, &sector.WallCollision)
	}
}

func TestLoadMapColliderOrder(t *testing.T) {
	m, err := LoadMap(mup.GenerateCorridor(2), &fakeUploader{}, unitScale)
	require.NoError(t, err)

	var labels []string
	for _, c := range m.Colliders() {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"sector 0 floor", "sector 0 wall", "sector 1 floor", "sector 1 wall"}, labels)
}

func TestLoadMapUploadFailureReleases(t *testing.T) {
	uploader := &fakeUploader{failAt: 5}
	m, err := LoadMap(mup.GenerateCorridor(3), uploader, unitScale)

	assert.Nil(t, m)
	assert.ErrorIs(t, err, errUpload)
	assert.Contains(t, err.Error(), "sector 1 ceiling")
	assert.Len(t, uploader.meshes, 4)
	assert.Equal(t, 4, uploader.released)
}

func TestLoadMapInvalidMesh(t *testing.T) {
	file := mup.GenerateCorridor(2)
	file.Sectors[1].Wall.Indices[0] = 1000

	uploader := &fakeUploader{}
	m, err := LoadMap(file, uploader, unitScale)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, mup.ErrIndexOutOfRange)
	assert.Equal(t, len(uploader.meshes), uploader.released)
}

func TestLoadMapRejectsUnitScale(t *testing.T) {
	for _, scale := range []float32{0, -4} {
		_, err := LoadMap(mup.GenerateCorridor(1), &fakeUploader{}, scale)
		assert.ErrorIs(t, err, ErrUnitScale)
	}
}

func TestLoadMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.mup")
	require.NoError(t, mup.WriteFile(path, mup.GenerateCorridor(2), true))

	m, err := LoadMapFile(path, &fakeUploader{}, unitScale)
	require.NoError(t, err)
	assert.Len(t, m.Sectors, 2)

	_, err = LoadMapFile(filepath.Join(t.TempDir(), "nope.mup"), &fakeUploader{}, unitScale)
	assert.Error(t, err)
}

func TestMapReleaseAndStats(t *testing.T) {
	uploader := &fakeUploader{}
	m, err := LoadMap(mup.GenerateCorridor(3), uploader, unitScale)
	require.NoError(t, err)

	stats := m.Stats()
	fileStats := mup.GenerateCorridor(3).Stats()
	assert.Equal(t, 3, stats.Sectors)
	assert.Equal(t, 9, stats.Draws)
	assert.Equal(t, fileStats.Triangles, stats.Triangles)
	assert.Equal(t, fileStats.Vertices, stats.Vertices)
	assert.Equal(t, 6, stats.Colliders)

	m.Release()
	assert.Equal(t, 9, uploader.released)
}

func TestSectorBounds(t *testing.T) {
	m, err := LoadMap(mup.GenerateCorridor(1), &fakeUploader{}, unitScale)
	require.NoError(t, err)

	bounds := m.Sectors[0].Bounds
	assert.Equal(t, mup.CorridorOrigin, bounds.Min)
	assert.Equal(t, mup.CorridorOrigin.Add(mup.CorridorRoom), bounds.Max)
	assert.True(t, bounds.Contains(math.NewVec3(1077, 460, -3600)))
}

func TestVisibleSectors(t *testing.T) {
	m, err := LoadMap(mup.GenerateCorridor(10), &fakeUploader{}, unitScale)
	require.NoError(t, err)

	eye := math.NewVec3(1077, 300, -3600)
	view := math.Mat4LookAtLH(eye, eye.Add(math.Vec3Front), math.Vec3Up)
	projection := math.Mat4PerspectiveLH(math.Radians(90), 1, 0.1, 900)
	frustum := FrustumFromVP(view.Mul(projection))

	// Rooms are 400 deep: the far plane ends inside the third.
	visible := m.VisibleSectors(&frustum, nil)
	assert.Equal(t, m.Sectors[:3], visible)

	// Looking backwards only the room the eye stands in is visible.
	view = math.Mat4LookAtLH(eye, eye.Sub(math.Vec3Front), math.Vec3Up)
	frustum = FrustumFromVP(view.Mul(projection))
	assert.Equal(t, m.Sectors[:1], m.VisibleSectors(&frustum, nil))
}
