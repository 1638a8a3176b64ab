package game

import (
	"mime-engine/core"
	"mime-engine/math"
)

// Look configures mouse-look.
type Look struct {
	Sensitivity float32
	// MaxPitch clamps pitch to ±MaxPitch degrees. Zero leaves it unclamped.
	MaxPitch float32
	InvertY  bool
}

func DefaultLook() Look {
	return Look{Sensitivity: 0.1, MaxPitch: 89}
}

// GameState holds the player's input intents and mouse-look angles.
type GameState struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    bool
	Close   bool

	// Degrees.
	Yaw   float32
	Pitch float32

	LastX      float64
	LastY      float64
	FirstMouse bool

	Look Look
}

// NewGameState starts with no intents and mouse-look waiting for its
// first sample.
func NewGameState(yaw, pitch float32, look Look) *GameState {
	return &GameState{
		Yaw:        yaw,
		Pitch:      pitch,
		FirstMouse: true,
		Look:       look,
	}
}

// HandleEvent applies one window event. Key presses set an intent and
// releases clear it; repeats change nothing.
func (s *GameState) HandleEvent(event core.Event) {
	switch event.Kind {
	case core.EventClose:
		s.Close = true
	case core.EventCursor:
		s.HandleCursor(event.X, event.Y)
	case core.EventKey:
		if event.Action == core.Repeat {
			return
		}
		pressed := event.Action == core.Press
		switch event.Key {
		case core.KeyW, core.KeyUp:
			s.Forward = pressed
		case core.KeyS, core.KeyDown:
			s.Back = pressed
		case core.KeyA, core.KeyLeft:
			s.Left = pressed
		case core.KeyD, core.KeyRight:
			s.Right = pressed
		case core.KeySpace:
			s.Jump = pressed
		case core.KeyEscape:
			if pressed {
				s.Close = true
			}
		}
	}
}

// HandleCursor advances mouse-look. The first sample only latches the
// reference position.
func (s *GameState) HandleCursor(x, y float64) {
	if s.FirstMouse {
		s.LastX, s.LastY = x, y
		s.FirstMouse = false
		return
	}

	dx := float32(x-s.LastX) * s.Look.Sensitivity
	dy := float32(y-s.LastY) * s.Look.Sensitivity
	s.LastX, s.LastY = x, y

	if s.Look.InvertY {
		dy = -dy
	}
	s.Yaw -= dx
	s.Pitch += dy
	if s.Look.MaxPitch > 0 {
		s.Pitch = math.Clamp(s.Pitch, -s.Look.MaxPitch, s.Look.MaxPitch)
	}
}

// DeltaTime is the wall-clock time of the previous frame.
type DeltaTime struct {
	Seconds float32
}
