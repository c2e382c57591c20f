// Package glgpu implements the graphics device on OpenGL 4.1 core.
// All methods must be called from the thread that owns the GL context.
package glgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/gl-playground/internal/engine/framebuffer"
	"github.com/Faultbox/gl-playground/internal/engine/gpu"
	"github.com/Faultbox/gl-playground/internal/engine/model"
	"github.com/Faultbox/gl-playground/internal/engine/shader"
	"github.com/Faultbox/gl-playground/internal/logger"
	"github.com/Faultbox/gl-playground/pkg/math"
)

// Device owns every GL object it creates.
type Device struct {
	log *zap.Logger

	buffers      map[gpu.BufferID][]uint32 // VAO -> VBOs
	framebuffers map[gpu.FramebufferID]*framebuffer.Framebuffer
	uniforms     map[gpu.ProgramID]map[string]int32
}

// New loads GL function pointers and sets the default pipeline state.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{
		log:          logger.Named("gpu"),
		buffers:      make(map[gpu.BufferID][]uint32),
		framebuffers: make(map[gpu.FramebufferID]*framebuffer.Framebuffer),
		uniforms:     make(map[gpu.ProgramID]map[string]int32),
	}

	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	gl.ClearDepth(1)
	gl.ClearColor(0.1, 0.1, 0.1, 1.0)

	return d, nil
}

// Close deletes buffers and framebuffers still owned by the device.
// Textures and programs are released by their owners.
func (d *Device) Close() {
	for id := range d.buffers {
		d.DeleteBuffer(id)
	}
	for id := range d.framebuffers {
		d.DeleteFramebuffer(id)
	}
	for id := range d.uniforms {
		d.DeleteProgram(id)
	}
}

// Err drains the GL error queue and reports the first error.
func (d *Device) Err() error {
	var first uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == 0 {
			first = code
		}
	}
	if first != 0 {
		return fmt.Errorf("gl error 0x%x (%s)", first, errorName(first))
	}
	return nil
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	}
	return "unknown"
}

// CreateTexture2D uploads tightly packed RGBA8 pixels.
func (d *Device) CreateTexture2D(width, height int, rgba []byte, opts gpu.TextureOptions) (gpu.TextureID, error) {
	if width <= 0 || height <= 0 || len(rgba) != width*height*4 {
		return 0, fmt.Errorf("texture %dx%d: got %d bytes", width, height, len(rgba))
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))

	wrap := int32(gl.REPEAT)
	if opts.Wrap == gpu.WrapClamp {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if opts.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := d.Err(); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, fmt.Errorf("uploading texture: %w", err)
	}
	return gpu.TextureID(tex), nil
}

// DeleteTexture releases a 2D texture.
func (d *Device) DeleteTexture(id gpu.TextureID) {
	tex := uint32(id)
	gl.DeleteTextures(1, &tex)
}

// CreateCubemap allocates six empty RGB16F faces.
func (d *Device) CreateCubemap(size int) (gpu.CubemapID, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex)
	for face := uint32(0); face < 6; face++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, gl.RGB16F,
			int32(size), int32(size), 0, gl.RGB, gl.FLOAT, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if err := d.Err(); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, err
	}
	return gpu.CubemapID(tex), nil
}

// DeleteCubemap releases a cubemap texture.
func (d *Device) DeleteCubemap(id gpu.CubemapID) {
	tex := uint32(id)
	gl.DeleteTextures(1, &tex)
}

// CreateFramebuffer creates a depth-only capture target.
func (d *Device) CreateFramebuffer(width, height int) (gpu.FramebufferID, error) {
	fb, err := framebuffer.NewCapture(int32(width), int32(height))
	if err != nil {
		return 0, err
	}
	id := gpu.FramebufferID(fb.FBO())
	d.framebuffers[id] = fb
	return id, nil
}

// DeleteFramebuffer releases a framebuffer created by CreateFramebuffer.
func (d *Device) DeleteFramebuffer(id gpu.FramebufferID) {
	if fb, ok := d.framebuffers[id]; ok {
		fb.Destroy()
		delete(d.framebuffers, id)
	}
}

// BindFramebuffer makes id the render target. Zero is the window.
func (d *Device) BindFramebuffer(id gpu.FramebufferID) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(id))
}

// AttachCubeFace renders into one face of cube through fb.
func (d *Device) AttachCubeFace(fb gpu.FramebufferID, cube gpu.CubemapID, face int) error {
	target, ok := d.framebuffers[fb]
	if !ok {
		return fmt.Errorf("unknown framebuffer %d", fb)
	}
	return target.AttachCubeFace(uint32(cube), face)
}

// ReadCubeFace reads one face of a cubemap back as RGBA, bottom row first.
func (d *Device) ReadCubeFace(cube gpu.CubemapID, face, size int) ([]byte, error) {
	fb, err := framebuffer.NewCapture(int32(size), int32(size))
	if err != nil {
		return nil, err
	}
	defer fb.Destroy()

	if err := fb.AttachCubeFace(uint32(cube), face); err != nil {
		return nil, err
	}
	pixels := fb.ReadPixels()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return pixels, d.Err()
}

// ReadPixels reads the bound framebuffer's color buffer, bottom row first.
func (d *Device) ReadPixels(v gpu.Viewport) []byte {
	pixels := make([]byte, v.Width*v.Height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(v.X, v.Y, v.Width, v.Height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Viewport returns the current viewport.
func (d *Device) Viewport() gpu.Viewport {
	var v [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &v[0])
	return gpu.Viewport{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
}

// SetViewport sets the viewport rectangle.
func (d *Device) SetViewport(v gpu.Viewport) {
	gl.Viewport(v.X, v.Y, v.Width, v.Height)
}

// Clear clears color and depth of the bound framebuffer.
func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetClearColor sets the color used by Clear.
func (d *Device) SetClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

// CreateVertexBuffer uploads a position-only triangle list at location 0.
func (d *Device) CreateVertexBuffer(positions []float32) (gpu.BufferID, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	vbo := uploadAttribute(0, 3, positions)
	gl.BindVertexArray(0)

	if err := d.Err(); err != nil {
		gl.DeleteBuffers(1, &vbo)
		gl.DeleteVertexArrays(1, &vao)
		return 0, fmt.Errorf("creating vertex buffer: %w", err)
	}
	id := gpu.BufferID(vao)
	d.buffers[id] = []uint32{vbo}
	return id, nil
}

// UploadMesh uploads mesh streams to attribute locations 0..4 in the
// order position, normal, uv, tangent, bitangent.
func (d *Device) UploadMesh(s model.Streams) (gpu.Mesh, error) {
	count := len(s.Positions) / 3
	if count == 0 {
		return gpu.Mesh{}, fmt.Errorf("uploading mesh: no vertices")
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	vbos := []uint32{
		uploadAttribute(0, 3, s.Positions),
		uploadAttribute(1, 3, s.Normals),
		uploadAttribute(2, 2, s.TexCoords),
		uploadAttribute(3, 3, s.Tangents),
		uploadAttribute(4, 3, s.Bitangents),
	}
	gl.BindVertexArray(0)

	id := gpu.BufferID(vao)
	d.buffers[id] = vbos
	if err := d.Err(); err != nil {
		d.DeleteBuffer(id)
		return gpu.Mesh{}, fmt.Errorf("uploading mesh: %w", err)
	}

	d.log.Debug("mesh uploaded", zap.Uint32("vao", vao), zap.Int("vertices", count))
	return gpu.Mesh{Buffer: id, Count: int32(count)}, nil
}

// uploadAttribute creates a VBO bound to the current VAO at loc.
func uploadAttribute(loc uint32, size int32, data []float32) uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}
	gl.VertexAttribPointer(loc, size, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(loc)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vbo
}

// DeleteBuffer releases a vertex array and its attribute buffers.
func (d *Device) DeleteBuffer(id gpu.BufferID) {
	vbos, ok := d.buffers[id]
	if !ok {
		return
	}
	gl.DeleteBuffers(int32(len(vbos)), &vbos[0])
	vao := uint32(id)
	gl.DeleteVertexArrays(1, &vao)
	delete(d.buffers, id)
}

// DrawArrays draws count vertices of buf as triangles.
func (d *Device) DrawArrays(buf gpu.BufferID, count int32) {
	gl.BindVertexArray(uint32(buf))
	gl.DrawArrays(gl.TRIANGLES, 0, count)
	gl.BindVertexArray(0)
}

// DrawMesh draws an uploaded mesh.
func (d *Device) DrawMesh(m gpu.Mesh) {
	d.DrawArrays(m.Buffer, m.Count)
}

// CompileProgram compiles and links a vertex/fragment pair.
func (d *Device) CompileProgram(name, vertexSrc, fragmentSrc string) (gpu.ProgramID, error) {
	program, err := shader.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, fmt.Errorf("compiling %s: %w", name, err)
	}
	id := gpu.ProgramID(program)
	d.uniforms[id] = make(map[string]int32)
	d.log.Debug("shader program created", zap.String("name", name), zap.Uint32("program", program))
	return id, nil
}

// DeleteProgram releases a program.
func (d *Device) DeleteProgram(p gpu.ProgramID) {
	gl.DeleteProgram(uint32(p))
	delete(d.uniforms, p)
}

// UseProgram binds p for the following draws.
func (d *Device) UseProgram(p gpu.ProgramID) {
	gl.UseProgram(uint32(p))
}

// location looks up a uniform once per program. Missing uniforms yield -1,
// which GL ignores on upload.
func (d *Device) location(p gpu.ProgramID, name string) int32 {
	cache, ok := d.uniforms[p]
	if !ok {
		cache = make(map[string]int32)
		d.uniforms[p] = cache
	}
	if loc, ok := cache[name]; ok {
		return loc
	}
	loc := shader.GetUniform(uint32(p), name)
	if loc < 0 {
		d.log.Debug("uniform not active", zap.Uint32("program", uint32(p)), zap.String("name", name))
	}
	cache[name] = loc
	return loc
}

// SetUniformMat4 uploads a column-major matrix.
func (d *Device) SetUniformMat4(p gpu.ProgramID, name string, m math.Mat4) {
	gl.UniformMatrix4fv(d.location(p, name), 1, false, m.Ptr())
}

// SetUniformVec3 uploads a vector.
func (d *Device) SetUniformVec3(p gpu.ProgramID, name string, v math.Vec3) {
	gl.Uniform3f(d.location(p, name), v.X, v.Y, v.Z)
}

// SetUniformFloat uploads a scalar.
func (d *Device) SetUniformFloat(p gpu.ProgramID, name string, v float32) {
	gl.Uniform1f(d.location(p, name), v)
}

// SetUniformInt uploads an integer, sampler unit or bool.
func (d *Device) SetUniformInt(p gpu.ProgramID, name string, v int32) {
	gl.Uniform1i(d.location(p, name), v)
}

// BindTexture2D binds a 2D texture to a texture unit.
func (d *Device) BindTexture2D(unit int, id gpu.TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
}

// BindCubemap binds a cubemap to a texture unit.
func (d *Device) BindCubemap(unit int, id gpu.CubemapID) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, uint32(id))
}
