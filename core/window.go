package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog/log"
)

func init() {
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	events []Event
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
	// CaptureCursor hides the cursor and reports unbounded motion for mouse-look.
	CaptureCursor bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:         1280,
		Height:        720,
		Title:         "mime",
		Resizable:     true,
		VSync:         true,
		Fullscreen:    false,
		CaptureCursor: true,
	}
}

// NewWindow opens a window with a current OpenGL 4.1 core context.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if config.CaptureCursor {
		handle.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			handle.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}

	handle.SetSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
	})
	handle.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		window.push(Event{Kind: EventResize, X: float64(width), Y: float64(height)})
	})
	handle.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		window.push(KeyEvent(Key(key), fromGLFWAction(action)))
	})
	handle.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		window.push(CursorEvent(x, y))
	})
	handle.SetCloseCallback(func(w *glfw.Window) {
		window.push(CloseEvent())
	})

	fbWidth, fbHeight := handle.GetFramebufferSize()
	log.Info().Msgf("window %dx%d (framebuffer %dx%d)", config.Width, config.Height, fbWidth, fbHeight)
	return window, nil
}

func (w *Window) push(event Event) {
	w.events = append(w.events, event)
}

// PollEvents processes pending window events and returns them in order.
// The returned slice is only valid until the next call.
func (w *Window) PollEvents() []Event {
	w.events = w.events[:0]
	glfw.PollEvents()
	return w.events
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func fromGLFWAction(action glfw.Action) Action {
	switch action {
	case glfw.Press:
		return Press
	case glfw.Repeat:
		return Repeat
	}
	return Release
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
