// Package renderer draws scenes with the Phong or PBR programs.
package renderer

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/gl-playground/internal/engine/gpu"
	"github.com/Faultbox/gl-playground/internal/engine/ibl"
	"github.com/Faultbox/gl-playground/internal/engine/lighting"
	"github.com/Faultbox/gl-playground/internal/engine/scene"
	"github.com/Faultbox/gl-playground/internal/engine/shader/glsl"
	"github.com/Faultbox/gl-playground/internal/engine/texture"
	"github.com/Faultbox/gl-playground/internal/logger"
	"github.com/Faultbox/gl-playground/pkg/math"
)

// Projection settings for the main view.
const (
	FieldOfView float32 = 45 * math32.Pi / 180
	Near        float32 = 0.1
	Far         float32 = 1000
)

// Light markers are unit cubes scaled down to this size.
const markerScale = 0.2

// Device is the part of the graphics device the renderer drives.
type Device interface {
	CompileProgram(name, vertexSrc, fragmentSrc string) (gpu.ProgramID, error)
	DeleteProgram(p gpu.ProgramID)
	CreateVertexBuffer(positions []float32) (gpu.BufferID, error)
	DeleteBuffer(id gpu.BufferID)

	SetViewport(v gpu.Viewport)
	SetClearColor(r, g, b, a float32)
	Clear()

	UseProgram(p gpu.ProgramID)
	SetUniformMat4(p gpu.ProgramID, name string, m math.Mat4)
	SetUniformVec3(p gpu.ProgramID, name string, v math.Vec3)
	SetUniformFloat(p gpu.ProgramID, name string, v float32)
	SetUniformInt(p gpu.ProgramID, name string, v int32)
	BindTexture2D(unit int, id gpu.TextureID)
	BindCubemap(unit int, id gpu.CubemapID)

	DrawArrays(buf gpu.BufferID, count int32)
	DrawMesh(m gpu.Mesh)
}

// Programs are the linked shader programs, exposed so the environment
// baker can reuse the capture passes.
type Programs struct {
	Phong      gpu.ProgramID
	PBR        gpu.ProgramID
	Light      gpu.ProgramID
	Skybox     gpu.ProgramID
	Project    gpu.ProgramID // equirect -> cubemap
	Irradiance gpu.ProgramID
}

// Renderer draws one scene per frame.
type Renderer struct {
	dev      Device
	textures *texture.Arena
	log      *zap.Logger

	programs Programs
	cube     gpu.BufferID

	width  int
	height int

	// Per-light uniform names, built once.
	phongLightNames [lighting.MaxPointLights]phongLightUniforms
	pbrLightNames   [lighting.MaxPointLights][2]string

	warned map[string]bool
}

type phongLightUniforms struct {
	position, ambient, diffuse, specular string
	constant, linear, quadratic          string
}

// New compiles all programs and creates the shared cube geometry.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(dev Device, textures *texture.Arena, width, height int) (*Renderer, error) {
	r := &Renderer{
		dev:      dev,
		textures: textures,
		log:      logger.Named("renderer"),
		warned:   make(map[string]bool),
	}

	sources := []struct {
		dst    *gpu.ProgramID
		name   string
		vs, fs string
	}{
		{&r.programs.Phong, "phong", glsl.MeshVertexShader, glsl.PhongFragmentShader},
		{&r.programs.PBR, "pbr", glsl.MeshVertexShader, glsl.PBRFragmentShader},
		{&r.programs.Light, "light", glsl.LightVertexShader, glsl.LightFragmentShader},
		{&r.programs.Skybox, "skybox", glsl.SkyboxVertexShader, glsl.SkyboxFragmentShader},
		{&r.programs.Project, "equirect-to-cube", glsl.CubeVertexShader, glsl.EquirectToCubeFragmentShader},
		{&r.programs.Irradiance, "irradiance", glsl.CubeVertexShader, glsl.IrradianceFragmentShader},
	}
	for _, s := range sources {
		p, err := dev.CompileProgram(s.name, s.vs, s.fs)
		if err != nil {
			r.Close()
			return nil, err
		}
		*s.dst = p
	}

	cube, err := dev.CreateVertexBuffer(ibl.UnitCube())
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("creating cube: %w", err)
	}
	r.cube = cube

	for i := range r.phongLightNames {
		base := fmt.Sprintf("pointLights[%d].", i)
		r.phongLightNames[i] = phongLightUniforms{
			position:  base + "position",
			ambient:   base + "ambient",
			diffuse:   base + "diffuse",
			specular:  base + "specular",
			constant:  base + "constant",
			linear:    base + "linear",
			quadratic: base + "quadratic",
		}
		r.pbrLightNames[i] = [2]string{
			fmt.Sprintf("lightPositions[%d]", i),
			fmt.Sprintf("lightColors[%d]", i),
		}
	}

	r.Resize(width, height)
	return r, nil
}

// Programs returns the compiled programs.
func (r *Renderer) Programs() Programs {
	return r.programs
}

// Close releases the renderer's programs and geometry.
func (r *Renderer) Close() {
	for _, p := range []gpu.ProgramID{
		r.programs.Phong, r.programs.PBR, r.programs.Light,
		r.programs.Skybox, r.programs.Project, r.programs.Irradiance,
	} {
		if p != 0 {
			r.dev.DeleteProgram(p)
		}
	}
	r.programs = Programs{}
	if r.cube != 0 {
		r.dev.DeleteBuffer(r.cube)
		r.cube = 0
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	r.width, r.height = width, height
	r.dev.SetViewport(gpu.Viewport{Width: int32(width), Height: int32(height)})
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Projection returns the main view's projection matrix.
func (r *Renderer) Projection() math.Mat4 {
	return math.Perspective(FieldOfView, float32(r.width)/float32(r.height), Near, Far)
}

// Draw renders s. env may be nil; PBR scenes then fall back to a constant
// ambient term and no skybox.
func (r *Renderer) Draw(s *scene.Scene, env *ibl.Environment) {
	r.dev.SetClearColor(0.1, 0.1, 0.1, 1.0)
	r.dev.Clear()

	view := s.Camera.ViewMatrix()
	proj := r.Projection()
	eye := s.Camera.Position()

	switch s.Shading {
	case scene.ShadingPBR:
		r.drawPBR(s, env, view, proj, eye)
		if env != nil && env.Cubemap != 0 {
			r.drawSkybox(env.Cubemap, view, proj)
		}
	default:
		r.drawPhong(s, view, proj, eye)
		r.drawLightMarkers(s.Lights, view, proj)
	}
}

func (r *Renderer) drawPhong(s *scene.Scene, view, proj math.Mat4, eye math.Vec3) {
	p := r.programs.Phong
	d := r.dev
	d.UseProgram(p)

	d.SetUniformMat4(p, "view", view)
	d.SetUniformMat4(p, "projection", proj)
	d.SetUniformVec3(p, "viewPos", eye)

	d.SetUniformVec3(p, "dirLight.direction", s.Sun.Direction)
	d.SetUniformVec3(p, "dirLight.ambient", s.Sun.Ambient)
	d.SetUniformVec3(p, "dirLight.diffuse", s.Sun.Diffuse)
	d.SetUniformVec3(p, "dirLight.specular", s.Sun.Specular)

	n := s.Lights.Len()
	for i := 0; i < n; i++ {
		l := s.Lights.Lights[i]
		names := r.phongLightNames[i]
		d.SetUniformVec3(p, names.position, l.Position)
		d.SetUniformVec3(p, names.ambient, l.Ambient)
		d.SetUniformVec3(p, names.diffuse, l.Diffuse)
		d.SetUniformVec3(p, names.specular, l.Specular)
		d.SetUniformFloat(p, names.constant, l.Constant)
		d.SetUniformFloat(p, names.linear, l.Linear)
		d.SetUniformFloat(p, names.quadratic, l.Quadratic)
	}
	d.SetUniformInt(p, "pointLightCount", int32(n))

	d.SetUniformInt(p, "material.diffuse", 0)
	d.SetUniformInt(p, "material.specular", 1)
	d.SetUniformInt(p, "material.normals", 2)

	for _, o := range s.Objects {
		m, ok := o.Material.(scene.PhongMaterial)
		if !ok {
			r.warnOnce(o.Name, s.Shading)
			continue
		}
		r.setModel(p, o.Transform)
		r.bind(0, m.Diffuse)
		r.bind(1, m.Specular)
		r.bind(2, m.Normals)
		d.SetUniformFloat(p, "material.shininess", m.Shininess)
		d.DrawMesh(o.Mesh)
	}
}

func (r *Renderer) drawPBR(s *scene.Scene, env *ibl.Environment, view, proj math.Mat4, eye math.Vec3) {
	p := r.programs.PBR
	d := r.dev
	d.UseProgram(p)

	d.SetUniformMat4(p, "view", view)
	d.SetUniformMat4(p, "projection", proj)
	d.SetUniformVec3(p, "camPos", eye)

	n := s.Lights.Len()
	for i := 0; i < n; i++ {
		l := s.Lights.Lights[i]
		d.SetUniformVec3(p, r.pbrLightNames[i][0], l.Position)
		d.SetUniformVec3(p, r.pbrLightNames[i][1], l.Color)
	}
	d.SetUniformInt(p, "lightCount", int32(n))

	d.SetUniformInt(p, "albedoMap", 0)
	d.SetUniformInt(p, "normalMap", 1)
	d.SetUniformInt(p, "metallicMap", 2)
	d.SetUniformInt(p, "roughnessMap", 3)
	d.SetUniformInt(p, "aoMap", 4)
	d.SetUniformInt(p, "irradianceMap", 5)

	if env != nil && env.Irradiance != 0 {
		d.BindCubemap(5, env.Irradiance)
		d.SetUniformInt(p, "useIrradiance", 1)
	} else {
		d.SetUniformInt(p, "useIrradiance", 0)
	}

	for _, o := range s.Objects {
		m, ok := o.Material.(scene.PBRMaterial)
		if !ok {
			r.warnOnce(o.Name, s.Shading)
			continue
		}
		r.setModel(p, o.Transform)
		r.bind(0, m.Albedo)
		r.bind(1, m.Normal)
		r.bind(2, m.Metallic)
		r.bind(3, m.Roughness)
		r.bind(4, m.AO)
		d.DrawMesh(o.Mesh)
	}
}

// drawSkybox draws the environment behind everything else. The vertex
// shader pins depth to the far plane, which passes with LEQUAL.
func (r *Renderer) drawSkybox(cube gpu.CubemapID, view, proj math.Mat4) {
	p := r.programs.Skybox
	r.dev.UseProgram(p)
	r.dev.SetUniformMat4(p, "view", view.WithoutTranslation())
	r.dev.SetUniformMat4(p, "projection", proj)
	r.dev.BindCubemap(0, cube)
	r.dev.SetUniformInt(p, "environmentMap", 0)
	r.dev.DrawArrays(r.cube, ibl.CubeVertexCount)
}

func (r *Renderer) drawLightMarkers(lights *lighting.PointLightBuffer, view, proj math.Mat4) {
	if lights.Len() == 0 {
		return
	}
	p := r.programs.Light
	r.dev.UseProgram(p)
	r.dev.SetUniformMat4(p, "view", view)
	r.dev.SetUniformMat4(p, "projection", proj)

	scale := math.Scale(markerScale, markerScale, markerScale)
	for _, pos := range lights.Positions() {
		r.dev.SetUniformMat4(p, "model", math.TranslateVec(pos).Mul(scale))
		r.dev.DrawArrays(r.cube, ibl.CubeVertexCount)
	}
}

func (r *Renderer) setModel(p gpu.ProgramID, m math.Mat4) {
	r.dev.SetUniformMat4(p, "model", m)
	r.dev.SetUniformMat4(p, "normalMatrix", m.NormalMatrix())
}

// bind resolves a texture handle; released or unknown handles bind zero.
func (r *Renderer) bind(unit int, h texture.Handle) {
	id, _ := r.textures.Get(h)
	r.dev.BindTexture2D(unit, id)
}

func (r *Renderer) warnOnce(object string, shading scene.Shading) {
	if r.warned[object] {
		return
	}
	r.warned[object] = true
	r.log.Warn("skipping object with mismatched material",
		zap.String("object", object),
		zap.Stringer("shading", shading))
}
