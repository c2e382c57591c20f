package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/gl-playground/internal/engine/camera"
	"github.com/Faultbox/gl-playground/internal/engine/gpu"
	"github.com/Faultbox/gl-playground/internal/engine/model"
	"github.com/Faultbox/gl-playground/internal/engine/texture"
	"github.com/Faultbox/gl-playground/internal/logger"
	"github.com/Faultbox/gl-playground/pkg/formats"
)

// ErrUnknownScene is returned by Load for unregistered names.
var ErrUnknownScene = errors.New("unknown scene")

// FileSource reads asset files by name.
type FileSource interface {
	ReadFile(name string) ([]byte, error)
}

// MeshUploader owns uploaded geometry.
type MeshUploader interface {
	UploadMesh(s model.Streams) (gpu.Mesh, error)
	DeleteBuffer(id gpu.BufferID)
}

// Context is what a loader may use to build its scene.
type Context struct {
	Assets   FileSource
	Meshes   MeshUploader
	Textures *texture.Arena
	Camera   camera.Config // base camera settings, demos override the radius

	meshes map[string]gpu.Mesh
	solids map[[4]uint8]texture.Handle
	images map[string]texture.Handle
}

func (c *Context) init() {
	if c.meshes == nil {
		c.meshes = make(map[string]gpu.Mesh)
		c.solids = make(map[[4]uint8]texture.Handle)
		c.images = make(map[string]texture.Handle)
	}
}

// Mesh parses, builds and uploads an OBJ file once; later calls with the
// same name share the upload.
func (c *Context) Mesh(name string) (gpu.Mesh, error) {
	c.init()
	if m, ok := c.meshes[name]; ok {
		return m, nil
	}

	data, err := c.Assets.ReadFile(name)
	if err != nil {
		return gpu.Mesh{}, fmt.Errorf("loading mesh: %w", err)
	}
	obj, err := formats.ParseOBJ(string(data))
	if err != nil {
		return gpu.Mesh{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	built, err := model.BuildMesh(obj, model.BuildOptions{Name: name})
	if err != nil {
		return gpu.Mesh{}, fmt.Errorf("building %s: %w", name, err)
	}
	m, err := c.Meshes.UploadMesh(built.Streams())
	if err != nil {
		return gpu.Mesh{}, fmt.Errorf("uploading %s: %w", name, err)
	}

	c.meshes[name] = m
	logger.Named("scene").Debug("mesh loaded",
		zap.String("name", name),
		zap.Int("vertices", built.VertexCount()),
		zap.Float32s("min", built.Bounds.Min[:]),
		zap.Float32s("max", built.Bounds.Max[:]))
	return m, nil
}

// Texture decodes an image file and adds it to the arena with mipmaps.
// Rows are flipped so the first row is the bottom of the image.
func (c *Context) Texture(name string) (texture.Handle, error) {
	c.init()
	if h, ok := c.images[name]; ok {
		return h, nil
	}

	data, err := c.Assets.ReadFile(name)
	if err != nil {
		return 0, fmt.Errorf("loading texture: %w", err)
	}
	img, err := texture.Decode(data)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", name, err)
	}
	b := img.Bounds()
	texture.FlipVertical(img.Pix, b.Dx(), b.Dy(), 4)

	h, err := c.Textures.Add(name, img, gpu.TextureOptions{Mipmaps: true})
	if err != nil {
		return 0, err
	}
	c.images[name] = h
	return h, nil
}

// Solid returns a shared 1x1 opaque texture of the given color.
func (c *Context) Solid(r, g, b uint8) (texture.Handle, error) {
	c.init()
	key := [4]uint8{r, g, b, 255}
	if h, ok := c.solids[key]; ok {
		return h, nil
	}
	h, err := c.Textures.Add(fmt.Sprintf("solid(%d,%d,%d)", r, g, b), texture.SolidColor(r, g, b, 255), gpu.TextureOptions{})
	if err != nil {
		return 0, err
	}
	c.solids[key] = h
	return h, nil
}

// FlatNormal returns a shared 1x1 tangent-space normal map pointing along +Z.
func (c *Context) FlatNormal() (texture.Handle, error) {
	n := texture.FlatNormal().Pix
	return c.Solid(n[0], n[1], n[2])
}

// NewCamera returns an orbit camera from the base settings at radius.
func (c *Context) NewCamera(radius float32) *camera.OrbitCamera {
	cfg := c.Camera
	cfg.InitialRadius = radius
	return camera.NewOrbitCamera(cfg)
}

// Release deletes the meshes and textures this context created.
func (c *Context) Release() {
	for name, m := range c.meshes {
		c.Meshes.DeleteBuffer(m.Buffer)
		delete(c.meshes, name)
	}
	for key, h := range c.solids {
		c.Textures.Release(h)
		delete(c.solids, key)
	}
	for name, h := range c.images {
		c.Textures.Release(h)
		delete(c.images, name)
	}
}

// Loader builds a scene.
type Loader func(ctx *Context) (*Scene, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Loader{}
)

// Register makes a loader available by name. It panics on duplicates.
func Register(name string, l Loader) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("scene: Register called twice for " + name)
	}
	registry[name] = l
}

// Names returns the registered scene names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load builds the named scene.
func Load(name string, ctx *Context) (*Scene, error) {
	registryMu.RLock()
	l, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownScene, name, Names())
	}

	s, err := l(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading scene %s: %w", name, err)
	}
	s.Name = name
	logger.Named("scene").Info("scene loaded",
		zap.String("name", name),
		zap.Stringer("shading", s.Shading),
		zap.Int("objects", len(s.Objects)),
		zap.Int("lights", s.Lights.Len()))
	return s, nil
}
