package core

import "github.com/go-gl/glfw/v3.3/glfw"

// Key is a keyboard key, numbered as GLFW numbers them.
type Key int

const (
	KeyUnknown = Key(glfw.KeyUnknown)
	KeySpace   = Key(glfw.KeySpace)
	KeyA       = Key(glfw.KeyA)
	KeyD       = Key(glfw.KeyD)
	KeyS       = Key(glfw.KeyS)
	KeyW       = Key(glfw.KeyW)
	KeyEscape  = Key(glfw.KeyEscape)
	KeyRight   = Key(glfw.KeyRight)
	KeyLeft    = Key(glfw.KeyLeft)
	KeyDown    = Key(glfw.KeyDown)
	KeyUp      = Key(glfw.KeyUp)
	KeyF1      = Key(glfw.KeyF1)
)
