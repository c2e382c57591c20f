// Package ibl bakes image-based lighting cubemaps from HDR panoramas.
package ibl

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gl-playground/internal/engine/gpu"
	"github.com/Faultbox/gl-playground/internal/logger"
	"github.com/Faultbox/gl-playground/pkg/math"
)

// Uniform names the projection shaders must declare.
const (
	uniformProjection = "projection"
	uniformView       = "view"
	uniformEquirect   = "equirectangularMap"
	uniformCubemap    = "environmentMap"
)

// Device is the part of the graphics device a bake drives.
type Device interface {
	CreateVertexBuffer(positions []float32) (gpu.BufferID, error)
	DeleteBuffer(id gpu.BufferID)
	CreateCubemap(size int) (gpu.CubemapID, error)
	DeleteCubemap(id gpu.CubemapID)
	CreateFramebuffer(width, height int) (gpu.FramebufferID, error)
	DeleteFramebuffer(id gpu.FramebufferID)
	BindFramebuffer(id gpu.FramebufferID)
	AttachCubeFace(fb gpu.FramebufferID, cube gpu.CubemapID, face int) error

	Viewport() gpu.Viewport
	SetViewport(v gpu.Viewport)

	UseProgram(p gpu.ProgramID)
	SetUniformMat4(p gpu.ProgramID, name string, m math.Mat4)
	SetUniformInt(p gpu.ProgramID, name string, v int32)
	BindTexture2D(unit int, id gpu.TextureID)
	BindCubemap(unit int, id gpu.CubemapID)

	Clear()
	DrawArrays(buf gpu.BufferID, count int32)
	// Err returns and clears the device's pending error, if any.
	Err() error
}

// Source is the texture a bake samples from.
type Source interface {
	bind(dev Device, program gpu.ProgramID)
}

// EquirectSource samples a latitude/longitude panorama.
type EquirectSource struct {
	Texture gpu.TextureID
}

func (s EquirectSource) bind(dev Device, program gpu.ProgramID) {
	dev.BindTexture2D(0, s.Texture)
	dev.SetUniformInt(program, uniformEquirect, 0)
}

// CubemapSource samples an existing cubemap, e.g. for irradiance
// convolution.
type CubemapSource struct {
	Cubemap gpu.CubemapID
}

func (s CubemapSource) bind(dev Device, program gpu.ProgramID) {
	dev.BindCubemap(0, s.Cubemap)
	dev.SetUniformInt(program, uniformCubemap, 0)
}

// State is the baker's progress.
type State int

const (
	StateUninitialized State = iota
	StateRendering
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRendering:
		return "rendering"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// BakeError reports a failed bake and the face it failed on.
type BakeError struct {
	Face Face
	Op   string
	Err  error
}

func (e *BakeError) Error() string {
	if e.Face == FaceNone {
		return fmt.Sprintf("ibl: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ibl: face %s: %s: %v", e.Face, e.Op, e.Err)
}

func (e *BakeError) Unwrap() error {
	return e.Err
}

// Baker renders a unit cube six times, once per cubemap face, through a
// projection shader. It is not safe for concurrent use; the render loop
// must not run while a bake is in progress.
type Baker struct {
	dev  Device
	size int

	cube  gpu.BufferID // created on first bake, kept for the baker's life
	state State
	face  Face
	log   *zap.Logger
}

// NewBaker creates a baker producing size x size faces.
func NewBaker(dev Device, size int) *Baker {
	return &Baker{
		dev:  dev,
		size: size,
		face: FaceNone,
		log:  logger.Named("ibl"),
	}
}

// State returns the current state and, while rendering or after a
// failure, the face involved.
func (b *Baker) State() (State, Face) {
	return b.state, b.face
}

// Size returns the face size used by Bake.
func (b *Baker) Size() int {
	return b.size
}

// Close deletes the shared cube geometry. Baked cubemaps are unaffected.
func (b *Baker) Close() {
	if b.cube != 0 {
		b.dev.DeleteBuffer(b.cube)
		b.cube = 0
	}
}

// Bake renders src into a new cubemap with the baker's face size.
func (b *Baker) Bake(src Source, program gpu.ProgramID) (gpu.CubemapID, error) {
	return b.BakeSize(src, program, b.size)
}

// BakeSize is Bake with an explicit face size. The cube geometry is shared
// with every other bake on this baker.
//
// Any device error aborts the bake: the partial cubemap is deleted and the
// baker is left in StateFailed. The default framebuffer and the caller's
// viewport are restored either way.
func (b *Baker) BakeSize(src Source, program gpu.ProgramID, size int) (gpu.CubemapID, error) {
	if size <= 0 {
		return 0, b.fail(FaceNone, "validate", fmt.Errorf("face size %d", size))
	}
	if src == nil {
		return 0, b.fail(FaceNone, "validate", errors.New("no source"))
	}

	if b.cube == 0 {
		cube, err := b.dev.CreateVertexBuffer(unitCube)
		if err != nil {
			return 0, b.fail(FaceNone, "create cube", err)
		}
		b.cube = cube
	}

	cubemap, err := b.dev.CreateCubemap(size)
	if err != nil {
		return 0, b.fail(FaceNone, "create cubemap", err)
	}

	fb, err := b.dev.CreateFramebuffer(size, size)
	if err != nil {
		b.dev.DeleteCubemap(cubemap)
		return 0, b.fail(FaceNone, "create framebuffer", err)
	}
	defer b.dev.DeleteFramebuffer(fb)

	saved := b.dev.Viewport()
	defer func() {
		b.dev.BindFramebuffer(gpu.DefaultFramebuffer)
		b.dev.SetViewport(saved)
	}()

	b.dev.UseProgram(program)
	b.dev.SetUniformMat4(program, uniformProjection, CaptureProjection())
	src.bind(b.dev, program)
	b.dev.BindFramebuffer(fb)

	views := CaptureViews()
	face := gpu.Viewport{Width: int32(size), Height: int32(size)}

	for _, f := range Faces {
		b.state, b.face = StateRendering, f

		if err := b.dev.AttachCubeFace(fb, cubemap, int(f)); err != nil {
			b.dev.DeleteCubemap(cubemap)
			return 0, b.fail(f, "attach face", err)
		}
		b.dev.SetViewport(face)
		b.dev.SetUniformMat4(program, uniformView, views[f])
		b.dev.Clear()
		b.dev.DrawArrays(b.cube, CubeVertexCount)

		if err := b.dev.Err(); err != nil {
			b.dev.DeleteCubemap(cubemap)
			return 0, b.fail(f, "draw", err)
		}
	}

	b.state, b.face = StateComplete, FaceNone
	b.log.Debug("cubemap baked", zap.Int("size", size), zap.Uint32("cubemap", uint32(cubemap)))
	return cubemap, nil
}

func (b *Baker) fail(f Face, op string, err error) error {
	b.state, b.face = StateFailed, f
	bakeErr := &BakeError{Face: f, Op: op, Err: err}
	b.log.Error("bake failed", zap.Error(bakeErr))
	return bakeErr
}
