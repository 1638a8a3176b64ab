package core

type Color struct {
	R, G, B, A float32
}

// ColorRGB builds an opaque colour.
func ColorRGB(rgb [3]float32) Color {
	return Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 1}
}

type EventKind int

const (
	EventKey EventKind = iota
	EventCursor
	EventClose
	EventResize
)

type Action int

const (
	Release Action = iota
	Press
	Repeat
)

// Event is one input or window event, in the order the window saw it.
type Event struct {
	Kind   EventKind
	Key    Key
	Action Action
	// Cursor position for EventCursor, framebuffer size for EventResize.
	X, Y float64
}

func KeyEvent(key Key, action Action) Event {
	return Event{Kind: EventKey, Key: key, Action: action}
}

func CursorEvent(x, y float64) Event {
	return Event{Kind: EventCursor, X: x, Y: y}
}

func CloseEvent() Event {
	return Event{Kind: EventClose}
}
