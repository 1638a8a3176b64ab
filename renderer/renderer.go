package renderer

import (
	"errors"

	"mime-engine/core"
	"mime-engine/math"
)

// ErrSurfaceOutdated is returned by Surface.Acquire when the surface no longer
// matches the window and must be reconfigured before it can be drawn to.
var ErrSurfaceOutdated = errors.New("renderer: surface outdated")

// Vertex is the GPU vertex layout: position followed by RGB colour.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
}

// Mesh is a GPU-resident vertex/index buffer pair.
type Mesh interface {
	IndexCount() int32
	Release()
}

// UniformBuffer is a GPU buffer holding one UniformBlock.
type UniformBuffer interface {
	Release()
}

// Target is one acquired frame.
type Target interface {
	Present() error
}

type Surface interface {
	Acquire() (Target, error)
	Reconfigure(width, height int)
}

type Device interface {
	UploadMesh(label string, vertices []Vertex, indices []uint32) (Mesh, error)
	NewUniformBuffer(label string, block *UniformBlock) (UniformBuffer, error)
	// WriteUniforms uploads the dirty parts of block and marks it clean.
	WriteUniforms(buffer UniformBuffer, block *UniformBlock)
	Submit(target Target, pass *RenderPass) error
}

type Binding struct {
	Slot   uint32
	Buffer UniformBuffer
}

type Draw struct {
	Label string
	Mesh  Mesh
}

// RenderPass is one depth-tested pass over the default target.
type RenderPass struct {
	Pipeline   Pipeline
	Bindings   []Binding
	ClearColor core.Color
	ClearDepth float32
	Draws      []Draw
}

// Stats reports what a pass will submit.
func (p *RenderPass) Stats() FrameStats {
	stats := FrameStats{Draws: len(p.Draws)}
	for _, draw := range p.Draws {
		stats.Triangles += int(draw.Mesh.IndexCount()) / 3
	}
	return stats
}

type FrameStats struct {
	Draws     int
	Triangles int
}

// UniformBlock mirrors the std140 block the shaders read:
// three column-major mat4 in the order projection, view, model.
type UniformBlock struct {
	Projection math.Mat4
	View       math.Mat4
	Model      math.Mat4

	dirty uint8
}

const (
	dirtyProjection = 1 << iota
	dirtyView
	dirtyModel

	dirtyAll = dirtyProjection | dirtyView | dirtyModel
)

// Byte size of one mat4 in the block.
const MatrixSize = 16 * 4

func NewUniformBlock(projection, view, model math.Mat4) *UniformBlock {
	return &UniformBlock{
		Projection: projection,
		View:       view,
		Model:      model,
		dirty:      dirtyAll,
	}
}

func (u *UniformBlock) UpdateProjection(projection math.Mat4) {
	u.Projection = projection
	u.dirty |= dirtyProjection
}

func (u *UniformBlock) UpdateView(view math.Mat4) {
	u.View = view
	u.dirty |= dirtyView
}

func (u *UniformBlock) UpdateModel(model math.Mat4) {
	u.Model = model
	u.dirty |= dirtyModel
}

// Range is a byte span inside the uniform block together with its data.
type Range struct {
	Offset int
	Data   [16]float32
}

// DirtyRanges lists the matrices changed since the last MarkClean.
func (u *UniformBlock) DirtyRanges() []Range {
	var ranges []Range
	for i, m := range []*math.Mat4{&u.Projection, &u.View, &u.Model} {
		if u.dirty&(1<<i) != 0 {
			ranges = append(ranges, Range{Offset: i * MatrixSize, Data: m.Floats()})
		}
	}
	return ranges
}

// Floats returns the whole block in upload order.
func (u *UniformBlock) Floats() [48]float32 {
	var out [48]float32
	for i, m := range []math.Mat4{u.Projection, u.View, u.Model} {
		f := m.Floats()
		copy(out[i*16:], f[:])
	}
	return out
}

func (u *UniformBlock) Dirty() bool {
	return u.dirty != 0
}

func (u *UniformBlock) MarkClean() {
	u.dirty = 0
}
