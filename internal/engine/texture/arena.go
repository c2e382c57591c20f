package texture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/gl-playground/internal/engine/gpu"
	"github.com/Faultbox/gl-playground/internal/logger"
)

// ErrUnknownHandle is returned for handles the arena never issued or
// has already released.
var ErrUnknownHandle = errors.New("texture: unknown handle")

// Uploader creates and destroys 2D textures on the device.
type Uploader interface {
	CreateTexture2D(width, height int, rgba []byte, opts gpu.TextureOptions) (gpu.TextureID, error)
	DeleteTexture(id gpu.TextureID)
}

// Handle refers to a texture owned by an Arena. Zero is never issued.
type Handle uint32

// Arena owns GPU textures on behalf of a rendering context. Handles grow
// monotonically and are never reused, even after release.
type Arena struct {
	mu       sync.Mutex
	up       Uploader
	next     Handle
	textures map[Handle]entry
	log      *zap.Logger
}

type entry struct {
	id   gpu.TextureID
	name string
}

// NewArena creates an empty arena that uploads through up.
func NewArena(up Uploader) *Arena {
	return &Arena{
		up:       up,
		textures: make(map[Handle]entry),
		log:      logger.Named("texture"),
	}
}

// Add uploads img and returns its handle.
func (a *Arena) Add(name string, img *image.NRGBA, opts gpu.TextureOptions) (Handle, error) {
	b := img.Bounds()
	img = toNRGBA(img)
	id, err := a.up.CreateTexture2D(b.Dx(), b.Dy(), img.Pix, opts)
	if err != nil {
		return 0, fmt.Errorf("uploading %s: %w", name, err)
	}
	return a.Adopt(name, id), nil
}

// Adopt takes ownership of a texture created elsewhere.
func (a *Arena) Adopt(name string, id gpu.TextureID) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.next++
	h := a.next
	a.textures[h] = entry{id: id, name: name}
	a.log.Debug("texture added", zap.String("name", name), zap.Uint32("handle", uint32(h)))
	return h
}

// Get returns the device texture behind h.
func (a *Arena) Get(h Handle) (gpu.TextureID, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.textures[h]
	return e.id, ok
}

// Release deletes the texture behind h. The handle stays dead.
func (a *Arena) Release(h Handle) error {
	a.mu.Lock()
	e, ok := a.textures[h]
	delete(a.textures, h)
	a.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	a.up.DeleteTexture(e.id)
	return nil
}

// Len returns the number of live textures.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.textures)
}

// Close releases every texture still in the arena.
func (a *Arena) Close() {
	a.mu.Lock()
	live := a.textures
	a.textures = make(map[Handle]entry)
	a.mu.Unlock()

	for _, e := range live {
		a.up.DeleteTexture(e.id)
	}
	if len(live) > 0 {
		a.log.Debug("arena closed", zap.Int("released", len(live)))
	}
}
