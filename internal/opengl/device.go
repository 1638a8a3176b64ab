package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/rs/zerolog/log"

	"mime-engine/renderer"
)

// UniformSlot is the binding point the sector program reads its block from.
const UniformSlot = 0

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO    uint32
	VBO    uint32
	EBO    uint32
	Count  int32
	Label  string
	device *Device
}

func (m *GPUMesh) IndexCount() int32 { return m.Count }

// Release frees the buffers. It is safe to call more than once.
func (m *GPUMesh) Release() {
	if m.device == nil {
		return
	}
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
		gl.DeleteBuffers(1, &m.VBO)
		gl.DeleteBuffers(1, &m.EBO)
	}
	delete(m.device.meshes, m)
	m.device = nil
}

// GPUUniforms is a uniform buffer sized for one renderer.UniformBlock.
type GPUUniforms struct {
	UBO    uint32
	Label  string
	device *Device
}

func (u *GPUUniforms) Release() {
	if u.device == nil {
		return
	}
	gl.DeleteBuffers(1, &u.UBO)
	delete(u.device.uniforms, u)
	u.device = nil
}

// Device is the OpenGL implementation of renderer.Device. It must be used
// from the thread that owns the window's context.
type Device struct {
	program  uint32
	meshes   map[*GPUMesh]struct{}
	uniforms map[*GPUUniforms]struct{}
}

// NewDevice initialises OpenGL and builds the sector program. The window's
// context must be current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info().
		Str("version", gl.GoStr(gl.GetString(gl.VERSION))).
		Str("renderer", gl.GoStr(gl.GetString(gl.RENDERER))).
		Msg("OpenGL initialized")

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("sector shader compile: %w", err)
	}

	block := gl.GetUniformBlockIndex(prog, gl.Str(uniformBlockName))
	if block == gl.INVALID_INDEX {
		gl.DeleteProgram(prog)
		return nil, errors.New("sector shader has no uniform block")
	}
	gl.UniformBlockBinding(prog, block, UniformSlot)

	return &Device{
		program:  prog,
		meshes:   make(map[*GPUMesh]struct{}),
		uniforms: make(map[*GPUUniforms]struct{}),
	}, nil
}

// UploadMesh copies vertices and indices into new static buffers. Empty
// meshes get no GL objects and are skipped at draw time.
func (d *Device) UploadMesh(label string, vertices []renderer.Vertex, indices []uint32) (renderer.Mesh, error) {
	gpu := &GPUMesh{Label: label, device: d}
	d.meshes[gpu] = struct{}{}
	if len(vertices) == 0 || len(indices) == 0 {
		return gpu, nil
	}
	gpu.Count = int32(len(indices))

	stride := int32(unsafe.Sizeof(renderer.Vertex{}))

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.GenBuffers(1, &gpu.EBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(stride), gl.Ptr(vertices), gl.STATIC_DRAW)

	var v renderer.Vertex
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Position))))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Color))))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if err := glError(); err != nil {
		gpu.Release()
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	log.Debug().Str("label", label).Int("vertices", len(vertices)).Int("indices", len(indices)).Msg("mesh uploaded")
	return gpu, nil
}

func (d *Device) NewUniformBuffer(label string, block *renderer.UniformBlock) (renderer.UniformBuffer, error) {
	u := &GPUUniforms{Label: label, device: d}
	data := block.Floats()

	gl.GenBuffers(1, &u.UBO)
	gl.BindBuffer(gl.UNIFORM_BUFFER, u.UBO)
	gl.BufferData(gl.UNIFORM_BUFFER, len(data)*4, gl.Ptr(&data[0]), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	if err := glError(); err != nil {
		gl.DeleteBuffers(1, &u.UBO)
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	d.uniforms[u] = struct{}{}
	return u, nil
}

// WriteUniforms uploads only the matrices changed since the last write.
func (d *Device) WriteUniforms(buffer renderer.UniformBuffer, block *renderer.UniformBlock) {
	u := buffer.(*GPUUniforms)
	ranges := block.DirtyRanges()
	if len(ranges) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, u.UBO)
	for i := range ranges {
		gl.BufferSubData(gl.UNIFORM_BUFFER, ranges[i].Offset, renderer.MatrixSize, gl.Ptr(&ranges[i].Data[0]))
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	block.MarkClean()
}

// Submit clears the default framebuffer and draws the pass in order.
func (d *Device) Submit(target renderer.Target, pass *renderer.RenderPass) error {
	if _, ok := target.(*Target); !ok {
		return fmt.Errorf("submit: foreign target %T", target)
	}

	// Clearing depth needs the mask on regardless of the pipeline.
	gl.DepthMask(true)
	c := pass.ClearColor
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.ClearDepth(float64(pass.ClearDepth))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	applyPipeline(&pass.Pipeline)
	mode := primitive(pass.Pipeline.Topology)

	gl.UseProgram(d.program)
	for _, binding := range pass.Bindings {
		u, ok := binding.Buffer.(*GPUUniforms)
		if !ok {
			return fmt.Errorf("submit: foreign uniform buffer %T", binding.Buffer)
		}
		gl.BindBufferBase(gl.UNIFORM_BUFFER, binding.Slot, u.UBO)
	}

	for _, draw := range pass.Draws {
		gpu, ok := draw.Mesh.(*GPUMesh)
		if !ok {
			return fmt.Errorf("submit %s: foreign mesh %T", draw.Label, draw.Mesh)
		}
		if gpu.Count == 0 {
			continue
		}
		gl.BindVertexArray(gpu.VAO)
		gl.DrawElements(mode, gpu.Count, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)

	return glError()
}

// Destroy releases every buffer the device still owns and the program.
func (d *Device) Destroy() {
	for mesh := range d.meshes {
		mesh.Release()
	}
	for u := range d.uniforms {
		u.Release()
	}
	gl.DeleteProgram(d.program)
}

func glError() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%04x", code)
	}
	return nil
}
