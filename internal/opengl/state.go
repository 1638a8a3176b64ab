package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"mime-engine/renderer"
)

func primitive(t renderer.Topology) uint32 {
	if t == renderer.LineList {
		return gl.LINES
	}
	return gl.TRIANGLES
}

func depthFunc(c renderer.CompareFunc) uint32 {
	switch c {
	case renderer.CompareLessEqual:
		return gl.LEQUAL
	case renderer.CompareAlways:
		return gl.ALWAYS
	default:
		return gl.LESS
	}
}

// applyPipeline sets the fixed-function state a pass draws with.
func applyPipeline(p *renderer.Pipeline) {
	switch p.CullMode {
	case renderer.CullNone:
		gl.Disable(gl.CULL_FACE)
	case renderer.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	case renderer.CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	if p.FrontFace == renderer.FrontFaceCW {
		gl.FrontFace(gl.CW)
	} else {
		gl.FrontFace(gl.CCW)
	}

	if p.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(depthFunc(p.DepthCompare))
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(p.DepthWrite)

	if p.PolygonMode == renderer.PolygonLine {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}
