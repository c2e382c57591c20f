// Package gpu holds the opaque resource handles exchanged with the graphics
// device. Code outside the device implementation stores them but never
// interprets their values; zero is never a valid resource.
package gpu

// TextureID names a 2D texture.
type TextureID uint32

// CubemapID names a cubemap texture.
type CubemapID uint32

// BufferID names a vertex array with its attribute buffers.
type BufferID uint32

// FramebufferID names an off-screen render target. Zero is the window.
type FramebufferID uint32

// ProgramID names a linked shader program.
type ProgramID uint32

// DefaultFramebuffer is the window's own framebuffer.
const DefaultFramebuffer FramebufferID = 0

// Viewport is a rectangle in framebuffer pixels.
type Viewport struct {
	X, Y          int32
	Width, Height int32
}

// Wrap selects texture addressing outside [0, 1].
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClamp
)

// TextureOptions controls 2D texture creation.
type TextureOptions struct {
	Wrap    Wrap
	Mipmaps bool
}

// Mesh is an uploaded triangle list.
type Mesh struct {
	Buffer BufferID
	Count  int32 // vertices to draw
}
