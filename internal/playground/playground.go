// Package playground runs the interactive render loop: it owns the current
// scene, routes input to its camera and draws a frame per iteration.
package playground

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/gl-playground/internal/config"
	"github.com/Faultbox/gl-playground/internal/engine/debug"
	"github.com/Faultbox/gl-playground/internal/engine/gpu"
	"github.com/Faultbox/gl-playground/internal/engine/ibl"
	"github.com/Faultbox/gl-playground/internal/engine/input"
	"github.com/Faultbox/gl-playground/internal/engine/renderer"
	"github.com/Faultbox/gl-playground/internal/engine/scene"
	"github.com/Faultbox/gl-playground/internal/engine/texture"
	"github.com/Faultbox/gl-playground/internal/logger"
)

// Title prefixes the window title.
const Title = "gl-playground"

// Window is the surface frames are presented to.
type Window interface {
	SwapBuffers()
	DrawableSize() (int, int)
	SetTitle(title string)
}

// Input delivers the events of one frame.
type Input interface {
	Update() bool
	Events() []input.Event
}

// Device is everything the loop and its collaborators draw with.
type Device interface {
	renderer.Device
	ibl.EnvironmentDevice
	scene.MeshUploader
	ReadPixels(v gpu.Viewport) []byte
}

// Files reads assets by name.
type Files interface {
	ReadFile(name string) ([]byte, error)
}

// sceneKeys binds the number keys to the demos.
var sceneKeys = map[input.Key]string{
	input.Key1: scene.BoxAndBottle,
	input.Key2: scene.LotsOfBoxes,
	input.Key3: scene.Walls,
	input.Key4: scene.PBRBalls,
	input.Key5: scene.Hatch,
}

// Playground is the application instance.
type Playground struct {
	cfg   *config.Config
	win   Window
	in    Input
	dev   Device
	files Files
	log   *zap.Logger

	renderer *renderer.Renderer
	arena    *texture.Arena
	ctx      *scene.Context
	scene    *scene.Scene

	env      *ibl.Environment
	envTried bool

	shots      *debug.ScreenshotCapture
	screenshot bool
	paused     bool
	running    bool

	width, height int

	frames    int
	fpsTimer  time.Duration
	fps       int
	lastTitle string
}

// New creates the renderer and loads the configured scene. The device's
// context must be current.
func New(cfg *config.Config, win Window, in Input, dev Device, files Files) (*Playground, error) {
	p := &Playground{
		cfg:   cfg,
		win:   win,
		in:    in,
		dev:   dev,
		files: files,
		log:   logger.Named("playground"),
		arena: texture.NewArena(dev),
		shots: debug.NewScreenshotCapture("screenshots", "playground"),

		running: true,
	}
	p.width, p.height = win.DrawableSize()

	var err error
	p.renderer, err = renderer.New(dev, p.arena, p.width, p.height)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := p.SwitchScene(cfg.Scene.Name); err != nil {
		p.Close()
		return nil, err
	}

	p.log.Info("playground initialized",
		zap.String("scene", p.scene.Name),
		zap.Int("width", p.width),
		zap.Int("height", p.height))
	return p, nil
}

// Scene returns the active scene.
func (p *Playground) Scene() *scene.Scene {
	return p.scene
}

// Environment returns the baked environment, nil until a PBR scene has
// been shown or when baking failed.
func (p *Playground) Environment() *ibl.Environment {
	return p.env
}

// SwitchScene loads name and makes it current. On failure the previous
// scene stays active.
func (p *Playground) SwitchScene(name string) error {
	ctx := &scene.Context{
		Assets:   p.files,
		Meshes:   p.dev,
		Textures: p.arena,
		Camera:   p.cfg.Camera.Orbit(),
	}

	s, err := scene.Load(name, ctx)
	if err != nil {
		ctx.Release()
		return err
	}

	if p.ctx != nil {
		p.ctx.Release()
	}
	p.ctx, p.scene = ctx, s

	if s.Shading == scene.ShadingPBR {
		p.ensureEnvironment()
	}
	return nil
}

// ensureEnvironment bakes the HDR environment once. PBR scenes still
// render without it, lit by their point lights only.
func (p *Playground) ensureEnvironment() {
	if p.envTried || p.cfg.Scene.Environment == "" {
		return
	}
	p.envTried = true

	progs := p.renderer.Programs()
	env, err := ibl.LoadEnvironment(p.dev, p.files, p.cfg.Scene.Environment, ibl.EnvironmentConfig{
		CubemapSize:       p.cfg.Scene.CubemapSize,
		IrradianceSize:    p.cfg.Scene.IrradianceSize,
		ProjectProgram:    progs.Project,
		IrradianceProgram: progs.Irradiance,
	})
	if err != nil {
		p.log.Warn("environment unavailable", zap.String("hdr", p.cfg.Scene.Environment), zap.Error(err))
		return
	}
	p.env = env
}

// Running reports whether the loop should continue.
func (p *Playground) Running() bool {
	return p.running
}

// Run drives frames until quit.
func (p *Playground) Run() error {
	p.log.Info("starting render loop")

	last := time.Now()
	for p.running {
		now := time.Now()
		dt := now.Sub(last)
		last = now

		if err := p.Frame(dt); err != nil {
			return err
		}
	}
	return nil
}

// Frame handles input, advances animation by dt, draws and presents.
func (p *Playground) Frame(dt time.Duration) error {
	quit := p.in.Update()
	for _, ev := range p.in.Events() {
		p.handle(ev)
	}
	if quit || !p.running {
		p.running = false
		return nil
	}

	if !p.paused {
		p.scene.Update(dt)
	}

	p.renderer.Draw(p.scene, p.env)
	if err := p.dev.Err(); err != nil {
		return fmt.Errorf("render error: %w", err)
	}

	if p.screenshot {
		p.screenshot = false
		p.capture()
	}

	p.win.SwapBuffers()
	p.tick(dt)
	return nil
}

func (p *Playground) handle(ev input.Event) {
	switch e := ev.(type) {
	case input.Quit:
		p.running = false

	case input.Resize:
		// Event sizes are in window coordinates; the viewport needs pixels.
		p.width, p.height = p.win.DrawableSize()
		p.renderer.Resize(p.width, p.height)

	case input.KeyDown:
		p.handleKey(e.Key)

	default:
		p.scene.Camera.Handle(ev)
	}
}

func (p *Playground) handleKey(k input.Key) {
	switch k {
	case input.KeyEscape:
		p.running = false
	case input.KeyR:
		p.scene.Camera.Reset()
	case input.KeyP:
		p.paused = !p.paused
		p.log.Debug("animation", zap.Bool("paused", p.paused))
	case input.KeyF12:
		p.screenshot = true
	case input.KeySpace:
		p.switchTo(nextScene(p.scene.Name))
	default:
		if name, ok := sceneKeys[k]; ok {
			p.switchTo(name)
		}
	}
}

func (p *Playground) switchTo(name string) {
	if name == p.scene.Name {
		return
	}
	if err := p.SwitchScene(name); err != nil {
		p.log.Error("failed to switch scene", zap.String("scene", name), zap.Error(err))
	}
}

// nextScene cycles through the registered scenes in name order.
func nextScene(current string) string {
	names := scene.Names()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func (p *Playground) capture() {
	pixels := p.dev.ReadPixels(gpu.Viewport{Width: int32(p.width), Height: int32(p.height)})
	name, err := p.shots.CaptureFromPixels(pixels, p.width, p.height)
	if err != nil {
		p.log.Error("screenshot failed", zap.Error(err))
		return
	}
	p.log.Info("screenshot saved", zap.String("file", name))
}

// tick counts frames and refreshes the title when it changes.
func (p *Playground) tick(dt time.Duration) {
	p.frames++
	p.fpsTimer += dt
	if p.fpsTimer >= time.Second {
		p.fps = p.frames
		p.frames = 0
		p.fpsTimer = 0
	}

	if title := p.title(); title != p.lastTitle {
		p.win.SetTitle(title)
		p.lastTitle = title
	}
}

func (p *Playground) title() string {
	st := p.scene.Camera.Snapshot()
	t := fmt.Sprintf("%s - %s | r %.1f polar %.2f azimuth %.2f | %d fps",
		Title, p.scene.Name, st.Radius, st.Polar, st.Azimuth, p.fps)
	if p.paused {
		t += " | paused"
	}
	return t
}

// Close releases scene, environment and renderer resources.
func (p *Playground) Close() {
	p.log.Info("closing playground")

	if p.ctx != nil {
		p.ctx.Release()
		p.ctx = nil
	}
	if p.env != nil {
		p.env.Release(p.dev)
		p.env = nil
	}
	if p.renderer != nil {
		p.renderer.Close()
		p.renderer = nil
	}
	p.arena.Close()
}
