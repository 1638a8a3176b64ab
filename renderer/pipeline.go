package renderer

type Topology int

const (
	TriangleList Topology = iota
	LineList
)

type FrontFace int

const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

type CompareFunc int

const (
	CompareLess CompareFunc = iota
	CompareLessEqual
	CompareAlways
)

type PolygonMode int

const (
	PolygonFill PolygonMode = iota
	PolygonLine
)

// Pipeline is the fixed-function state for a render pass.
type Pipeline struct {
	Label        string
	Topology     Topology
	FrontFace    FrontFace
	CullMode     CullMode
	PolygonMode  PolygonMode
	DepthTest    bool
	DepthWrite   bool
	DepthCompare CompareFunc
}

// DefaultPipeline is the sector pipeline: clockwise front faces, back faces
// culled, depth tested with Less and written.
func DefaultPipeline() Pipeline {
	return Pipeline{
		Label:        "sector pipeline",
		Topology:     TriangleList,
		FrontFace:    FrontFaceCW,
		CullMode:     CullBack,
		PolygonMode:  PolygonFill,
		DepthTest:    true,
		DepthWrite:   true,
		DepthCompare: CompareLess,
	}
}
