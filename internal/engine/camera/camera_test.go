package camera

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/gl-playground/internal/engine/input"
	"github.com/Faultbox/gl-playground/pkg/math"
)

const eps = 1e-4

func newTestCamera(clamp bool) *OrbitCamera {
	cfg := DefaultConfig()
	cfg.ClampPolarToHemisphere = clamp
	return NewOrbitCamera(cfg)
}

func drag(c *OrbitCamera, dx, dy float32) {
	c.Handle(input.PointerDown{Button: input.ButtonLeft})
	c.Handle(input.PointerMove{DX: dx, DY: dy})
	c.Handle(input.PointerUp{Button: input.ButtonLeft})
}

func TestInitialState(t *testing.T) {
	c := newTestCamera(true)
	s := c.Snapshot()

	assert.Equal(t, float32(10), s.Radius)
	assert.Equal(t, float32(0), s.Polar)
	assert.Equal(t, float32(0), s.Azimuth)
	assert.InDelta(t, 0, s.Eye.X, eps)
	assert.InDelta(t, 0, s.Eye.Y, eps)
	assert.InDelta(t, 10, s.Eye.Z, eps)
	assert.False(t, c.Dragging())
}

func TestWheelClampsRadius(t *testing.T) {
	c := newTestCamera(true)

	c.Handle(input.Wheel{DeltaY: -2000})
	assert.Equal(t, float32(1), c.Snapshot().Radius)

	c.Handle(input.Wheel{DeltaY: -1e9})
	assert.Equal(t, float32(1), c.Snapshot().Radius)

	c.Handle(input.Wheel{DeltaY: 500})
	assert.InDelta(t, 6, c.Snapshot().Radius, eps)
}

func TestWheelWhileIdleAndDragging(t *testing.T) {
	c := newTestCamera(true)
	c.Handle(input.PointerDown{Button: input.ButtonLeft})
	c.Handle(input.Wheel{DeltaY: 100})
	assert.InDelta(t, 11, c.Snapshot().Radius, eps)
}

func TestDragUpdatesAngles(t *testing.T) {
	c := newTestCamera(true)

	drag(c, -100, 50)
	s := c.Snapshot()
	assert.InDelta(t, 0.5, s.Azimuth, eps)
	assert.InDelta(t, 0.25, s.Polar, eps)

	// Eye follows the spherical formula.
	sp, cp := math32.Sincos(s.Polar)
	sa, ca := math32.Sincos(s.Azimuth)
	assert.InDelta(t, 10*cp*sa, s.Eye.X, eps)
	assert.InDelta(t, 10*sp, s.Eye.Y, eps)
	assert.InDelta(t, 10*ca*cp, s.Eye.Z, eps)
}

func TestMoveWithoutDragIgnored(t *testing.T) {
	c := newTestCamera(true)
	c.Handle(input.PointerMove{DX: 100, DY: 100})
	assert.Equal(t, float32(0), c.Snapshot().Azimuth)

	// Only the primary button starts a drag.
	c.Handle(input.PointerDown{Button: input.ButtonRight})
	c.Handle(input.PointerMove{DX: 100, DY: 100})
	assert.Equal(t, float32(0), c.Snapshot().Azimuth)
}

func TestAzimuthStaysInRange(t *testing.T) {
	c := newTestCamera(true)
	rng := rand.New(rand.NewSource(1))

	c.Handle(input.PointerDown{Button: input.ButtonLeft})
	for i := 0; i < 1000; i++ {
		c.Handle(input.PointerMove{DX: float32(rng.Intn(4001) - 2000)})
		a := c.Snapshot().Azimuth
		require.GreaterOrEqual(t, a, float32(0))
		require.Less(t, a, 2*math32.Pi)
	}
}

func TestPolarClamped(t *testing.T) {
	c := newTestCamera(true)

	drag(c, 0, 10000)
	assert.Equal(t, float32(3.14/2), c.Snapshot().Polar)

	drag(c, 0, -20000)
	assert.Equal(t, -float32(3.14/2), c.Snapshot().Polar)
	assert.Less(t, c.Snapshot().Eye.Y, float32(0))
}

func TestPolarWrapsWhenUnclamped(t *testing.T) {
	c := newTestCamera(false)

	drag(c, 0, 1000) // 5 radians
	assert.InDelta(t, 5, c.Snapshot().Polar, eps)

	drag(c, 0, 400) // 7 radians wraps
	assert.InDelta(t, 7-2*math32.Pi, c.Snapshot().Polar, eps)

	drag(c, 0, -2000) // negative wraps to non-negative
	p := c.Snapshot().Polar
	assert.GreaterOrEqual(t, p, float32(0))
	assert.Less(t, p, 2*math32.Pi)
}

func TestPointerUpIdempotent(t *testing.T) {
	c := newTestCamera(true)
	c.Handle(input.PointerUp{Button: input.ButtonLeft})
	c.Handle(input.PointerUp{Button: input.ButtonRight})
	assert.False(t, c.Dragging())

	c.Handle(input.PointerDown{Button: input.ButtonLeft})
	assert.True(t, c.Dragging())
	c.Handle(input.PointerUp{Button: input.ButtonMiddle})
	assert.False(t, c.Dragging())
}

func TestTouchDrag(t *testing.T) {
	c := newTestCamera(true)

	c.Handle(input.TouchStart{ID: 3, X: 100, Y: 100})
	c.Handle(input.TouchStart{ID: 4, X: 0, Y: 0}) // second finger ignored
	c.Handle(input.TouchMove{ID: 4, X: 500, Y: 500})
	c.Handle(input.TouchMove{ID: 3, X: 90, Y: 110})
	c.Handle(input.TouchMove{ID: 3, X: 80, Y: 120})

	s := c.Snapshot()
	assert.InDelta(t, 0.2, s.Azimuth, eps)
	assert.InDelta(t, 0.2, s.Polar, eps)

	c.Handle(input.TouchEnd{ID: 3})
	assert.False(t, c.Dragging())

	c.Handle(input.TouchMove{ID: 3, X: 0, Y: 0})
	assert.InDelta(t, 0.2, c.Snapshot().Azimuth, eps)
}

func TestTouchEndFromOtherFingerStopsDrag(t *testing.T) {
	c := newTestCamera(true)

	c.Handle(input.TouchStart{ID: 1, X: 100, Y: 100})
	c.Handle(input.TouchEnd{ID: 2})
	assert.False(t, c.Dragging())

	c.Handle(input.TouchMove{ID: 1, X: 0, Y: 100})
	assert.Equal(t, float32(0), c.Snapshot().Azimuth)

	// A new touch starts a fresh drag.
	c.Handle(input.TouchStart{ID: 2, X: 50, Y: 50})
	assert.True(t, c.Dragging())
	c.Handle(input.TouchMove{ID: 2, X: 40, Y: 50})
	assert.InDelta(t, 0.1, c.Snapshot().Azimuth, eps)
}

func TestTargetOffset(t *testing.T) {
	c := newTestCamera(true)
	c.SetTarget(math.V3(1, 2, 3))

	s := c.Snapshot()
	assert.InDelta(t, 1, s.Eye.X, eps)
	assert.InDelta(t, 2, s.Eye.Y, eps)
	assert.InDelta(t, 13, s.Eye.Z, eps)

	// The target maps to the view-space origin offset by the radius.
	p := c.ViewMatrix().TransformPoint(s.Target)
	assert.InDelta(t, -10, p.Z, eps)
}

func TestReset(t *testing.T) {
	c := newTestCamera(true)
	drag(c, 300, 100)
	c.Handle(input.Wheel{DeltaY: 300})
	c.Reset()

	s := c.Snapshot()
	assert.Equal(t, float32(10), s.Radius)
	assert.Equal(t, float32(0), s.Azimuth)
}

func TestConcurrentAccess(t *testing.T) {
	c := newTestCamera(true)
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			drag(c, 3, 1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = c.ViewMatrix()
		}
	}()
	wg.Wait()
}
