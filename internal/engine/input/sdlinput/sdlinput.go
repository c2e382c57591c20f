// Package sdlinput translates SDL2 events into input events.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/gl-playground/internal/engine/input"
)

// wheelScale converts SDL wheel clicks into browser-style deltaY units.
const wheelScale = 100

var keyMap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_SPACE:  input.KeySpace,
	sdl.SCANCODE_R:      input.KeyR,
	sdl.SCANCODE_P:      input.KeyP,
	sdl.SCANCODE_F12:    input.KeyF12,
	sdl.SCANCODE_1:      input.Key1,
	sdl.SCANCODE_2:      input.Key2,
	sdl.SCANCODE_3:      input.Key3,
	sdl.SCANCODE_4:      input.Key4,
	sdl.SCANCODE_5:      input.Key5,
}

// Input polls SDL once per frame.
type Input struct {
	queue         input.Queue
	width, height float32 // touch coordinates are normalized to this
}

// New creates an input handler for a window of the given size.
func New(width, height int) *Input {
	return &Input{width: float32(width), height: float32(height)}
}

// Update drains the SDL queue. Returns true if the application should quit.
func (i *Input) Update() bool {
	i.queue.Reset()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev := i.translate(event); ev != nil {
			i.queue.Push(ev)
		}
	}

	return i.queue.QuitRequested()
}

// Events returns the events from the last Update.
func (i *Input) Events() []input.Event {
	return i.queue.Events()
}

// KeyPressed checks if a key was pressed this frame.
func (i *Input) KeyPressed(k input.Key) bool {
	return i.queue.KeyPressed(k)
}

func (i *Input) translate(event sdl.Event) input.Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Quit{}

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.width, i.height = float32(e.Data1), float32(e.Data2)
			return input.Resize{W: int(e.Data1), H: int(e.Data2)}
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			if k, ok := keyMap[e.Keysym.Scancode]; ok {
				return input.KeyDown{Key: k}
			}
		}

	case *sdl.MouseMotionEvent:
		// Touch input also arrives as synthetic mouse events.
		if e.Which == sdl.TOUCH_MOUSEID {
			return nil
		}
		return input.PointerMove{
			X:  float32(e.X),
			Y:  float32(e.Y),
			DX: float32(e.XRel),
			DY: float32(e.YRel),
		}

	case *sdl.MouseButtonEvent:
		if e.Which == sdl.TOUCH_MOUSEID {
			return nil
		}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			return input.PointerDown{Button: button(e.Button), X: float32(e.X), Y: float32(e.Y)}
		}
		return input.PointerUp{Button: button(e.Button)}

	case *sdl.MouseWheelEvent:
		dy := -float32(e.Y) * wheelScale
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		return input.Wheel{DeltaY: dy}

	case *sdl.TouchFingerEvent:
		id := int64(e.FingerID)
		x, y := e.X*i.width, e.Y*i.height
		switch e.Type {
		case sdl.FINGERDOWN:
			return input.TouchStart{ID: id, X: x, Y: y}
		case sdl.FINGERMOTION:
			return input.TouchMove{ID: id, X: x, Y: y}
		case sdl.FINGERUP:
			return input.TouchEnd{ID: id}
		}
	}

	return nil
}

func button(b uint8) input.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return input.ButtonLeft
	case sdl.BUTTON_MIDDLE:
		return input.ButtonMiddle
	default:
		return input.ButtonRight
	}
}
