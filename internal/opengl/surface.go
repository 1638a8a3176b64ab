package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"mime-engine/renderer"
)

// Swapper is the window side of a surface.
type Swapper interface {
	GetFramebufferSize() (int, int)
	SwapBuffers()
}

// Surface is the window's default framebuffer. It goes out of date as soon
// as the framebuffer size differs from the one it was configured with.
type Surface struct {
	window        Swapper
	width, height int
	target        Target
}

func NewSurface(window Swapper) *Surface {
	s := &Surface{window: window}
	s.target.surface = s
	s.Reconfigure(window.GetFramebufferSize())
	return s
}

func (s *Surface) Acquire() (renderer.Target, error) {
	width, height := s.window.GetFramebufferSize()
	if width != s.width || height != s.height {
		return nil, renderer.ErrSurfaceOutdated
	}
	return &s.target, nil
}

// Reconfigure resizes the viewport to the new framebuffer size.
func (s *Surface) Reconfigure(width, height int) {
	s.width, s.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Size is the configured framebuffer size.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Target is the back buffer of one frame.
type Target struct {
	surface *Surface
}

// Present swaps the back buffer to the screen.
func (t *Target) Present() error {
	t.surface.window.SwapBuffers()
	return nil
}
