// Package camera provides the orbit camera used to inspect scenes.
package camera

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/Faultbox/gl-playground/internal/engine/input"
	"github.com/Faultbox/gl-playground/pkg/math"
)

const (
	twoPi = 2 * math32.Pi
	// polarLimit keeps the eye strictly off the poles.
	polarLimit float32 = 3.14 / 2
)

// Config holds orbit camera settings.
type Config struct {
	InitialRadius float32
	Target        math.Vec3

	// ClampPolarToHemisphere limits polar to (-π/2, π/2). When false polar
	// wraps freely and the view can turn upside down over a pole.
	ClampPolarToHemisphere bool

	Sensitivity      float32 // radians per pixel of pointer drag
	TouchSensitivity float32 // radians per pixel of touch drag
	ZoomSpeed        float32 // radius units per wheel deltaY unit
	MinRadius        float32
}

// DefaultConfig returns the standard camera settings.
func DefaultConfig() Config {
	return Config{
		InitialRadius:          10,
		ClampPolarToHemisphere: true,
		Sensitivity:            0.005,
		TouchSensitivity:       0.01,
		ZoomSpeed:              0.01,
		MinRadius:              1,
	}
}

// State is a copy of the camera's parameters and derived eye position.
type State struct {
	Radius  float32
	Polar   float32
	Azimuth float32
	Target  math.Vec3
	Eye     math.Vec3
}

// OrbitCamera orbits a target on a sphere. It starts on +Z of the target
// looking along -Z. Input handlers and the render loop may run on different
// goroutines; all access goes through a mutex.
type OrbitCamera struct {
	mu  sync.Mutex
	cfg Config

	radius  float32
	polar   float32
	azimuth float32
	target  math.Vec3
	eye     math.Vec3

	dragging bool
	touchID  int64
	touching bool
	lastX    float32
	lastY    float32
}

// NewOrbitCamera creates a camera from cfg. Zero sensitivities and radius
// floor fall back to DefaultConfig values.
func NewOrbitCamera(cfg Config) *OrbitCamera {
	def := DefaultConfig()
	if cfg.Sensitivity == 0 {
		cfg.Sensitivity = def.Sensitivity
	}
	if cfg.TouchSensitivity == 0 {
		cfg.TouchSensitivity = def.TouchSensitivity
	}
	if cfg.ZoomSpeed == 0 {
		cfg.ZoomSpeed = def.ZoomSpeed
	}
	if cfg.MinRadius <= 0 {
		cfg.MinRadius = def.MinRadius
	}

	c := &OrbitCamera{cfg: cfg}
	c.reset()
	return c
}

func (c *OrbitCamera) reset() {
	c.radius = math32.Max(c.cfg.InitialRadius, c.cfg.MinRadius)
	c.polar = 0
	c.azimuth = 0
	c.target = c.cfg.Target
	c.dragging = false
	c.touching = false
	c.updateEye()
}

// Reset returns to the initial orientation and radius.
func (c *OrbitCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Handle applies one input event. Events the camera does not use are ignored.
func (c *OrbitCamera) Handle(ev input.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := ev.(type) {
	case input.PointerDown:
		if e.Button == input.ButtonLeft {
			c.dragging = true
			c.lastX, c.lastY = e.X, e.Y
		}

	case input.PointerMove:
		if c.dragging {
			c.rotate(e.DX, e.DY, c.cfg.Sensitivity)
		}

	case input.PointerUp:
		c.dragging = false

	case input.TouchStart:
		if !c.touching {
			c.touching = true
			c.touchID = e.ID
			c.lastX, c.lastY = e.X, e.Y
		}

	case input.TouchMove:
		if c.touching && e.ID == c.touchID {
			dx, dy := e.X-c.lastX, e.Y-c.lastY
			c.lastX, c.lastY = e.X, e.Y
			c.rotate(dx, dy, c.cfg.TouchSensitivity)
		}

	case input.TouchEnd:
		// Lifting any finger ends the drag, like a pointer-up of any button.
		c.touching = false

	case input.Wheel:
		c.radius = math32.Max(c.radius+e.DeltaY*c.cfg.ZoomSpeed, c.cfg.MinRadius)
		c.updateEye()
	}
}

func (c *OrbitCamera) rotate(dx, dy, sensitivity float32) {
	c.azimuth = wrapAngle(c.azimuth - dx*sensitivity)

	c.polar += dy * sensitivity
	if c.cfg.ClampPolarToHemisphere {
		c.polar = clamp(c.polar, -polarLimit, polarLimit)
	} else {
		c.polar = wrapAngle(c.polar)
	}

	c.updateEye()
}

func (c *OrbitCamera) updateEye() {
	sp, cp := math32.Sincos(c.polar)
	sa, ca := math32.Sincos(c.azimuth)
	c.eye = c.target.Add(math.Vec3{
		X: c.radius * cp * sa,
		Y: c.radius * sp,
		Z: c.radius * ca * cp,
	})
}

// SetTarget moves the orbit center, keeping the angles and radius.
func (c *OrbitCamera) SetTarget(target math.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
	c.updateEye()
}

// Dragging reports whether a pointer or touch drag is in progress.
func (c *OrbitCamera) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging || c.touching
}

// Snapshot returns a consistent copy of the camera state.
func (c *OrbitCamera) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Radius:  c.radius,
		Polar:   c.polar,
		Azimuth: c.azimuth,
		Target:  c.target,
		Eye:     c.eye,
	}
}

// Position returns the eye position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	return c.Snapshot().Eye
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	s := c.Snapshot()
	return math.LookAt(s.Eye, s.Target, math.Vec3{Y: 1})
}

// wrapAngle maps a into [0, 2π).
func wrapAngle(a float32) float32 {
	a = math32.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
