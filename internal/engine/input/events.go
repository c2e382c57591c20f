// Package input defines the device-neutral events that drive the playground.
//
// Event is a closed set: only the types in this package implement it, and
// consumers switch over them by type.
package input

// Event is one input or application event.
type Event interface {
	isEvent()
}

// Button identifies a pointer button.
type Button uint8

const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
)

// Key identifies a keyboard key the playground reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyR   // reset camera
	KeyP   // toggle animation
	KeyF12 // screenshot
	Key1
	Key2
	Key3
	Key4
	Key5
)

// PointerDown is a mouse button press at window coordinates.
type PointerDown struct {
	Button Button
	X, Y   float32
}

// PointerMove is pointer motion; DX/DY are relative to the previous position.
type PointerMove struct {
	X, Y   float32
	DX, DY float32
}

// PointerUp is a mouse button release.
type PointerUp struct {
	Button Button
}

// TouchStart is a finger landing. X/Y are window pixels.
type TouchStart struct {
	ID   int64
	X, Y float32
}

// TouchMove is a finger moving.
type TouchMove struct {
	ID   int64
	X, Y float32
}

// TouchEnd is a finger lifting.
type TouchEnd struct {
	ID int64
}

// Wheel is a scroll step. Positive DeltaY scrolls down (zooms out),
// matching the browser convention.
type Wheel struct {
	DeltaY float32
}

// Quit asks the application to exit.
type Quit struct{}

// Resize reports a new drawable size.
type Resize struct {
	W, H int
}

// KeyDown is a key press.
type KeyDown struct {
	Key Key
}

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (TouchStart) isEvent()  {}
func (TouchMove) isEvent()   {}
func (TouchEnd) isEvent()    {}
func (Wheel) isEvent()       {}
func (Quit) isEvent()        {}
func (Resize) isEvent()      {}
func (KeyDown) isEvent()     {}

// Queue collects events for one frame.
type Queue struct {
	events []Event
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Events returns the events queued since the last Reset.
func (q *Queue) Events() []Event {
	return q.events
}

// Reset empties the queue, keeping its storage.
func (q *Queue) Reset() {
	q.events = q.events[:0]
}

// KeyPressed reports whether k was pressed this frame.
func (q *Queue) KeyPressed(k Key) bool {
	for _, e := range q.events {
		if kd, ok := e.(KeyDown); ok && kd.Key == k {
			return true
		}
	}
	return false
}

// QuitRequested reports whether a Quit event is queued.
func (q *Queue) QuitRequested() bool {
	for _, e := range q.events {
		if _, ok := e.(Quit); ok {
			return true
		}
	}
	return false
}
