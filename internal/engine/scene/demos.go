package scene

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/gl-playground/internal/engine/camera"
	"github.com/Faultbox/gl-playground/internal/engine/lighting"
	"github.com/Faultbox/gl-playground/internal/engine/texture"
	"github.com/Faultbox/gl-playground/pkg/math"
)

// Built-in demo names.
const (
	BoxAndBottle = "box-and-bottle"
	LotsOfBoxes  = "lots-of-boxes"
	Walls        = "walls"
	PBRBalls     = "pbr-balls"
	Hatch        = "hatch"
)

func init() {
	Register(BoxAndBottle, loadBoxAndBottle)
	Register(LotsOfBoxes, loadLotsOfBoxes)
	Register(Walls, loadWalls)
	Register(PBRBalls, loadPBRBalls)
	Register(Hatch, loadHatch)
}

const deg90 = math32.Pi / 2

// phongMaterial builds a material from a diffuse image with a flat normal
// map and a light grey specular map.
func phongMaterial(ctx *Context, diffuse string) (PhongMaterial, error) {
	d, err := ctx.Texture(diffuse)
	if err != nil {
		return PhongMaterial{}, err
	}
	spec, err := ctx.Solid(200, 200, 200)
	if err != nil {
		return PhongMaterial{}, err
	}
	n, err := ctx.FlatNormal()
	if err != nil {
		return PhongMaterial{}, err
	}
	return PhongMaterial{Diffuse: d, Specular: spec, Normals: n, Shininess: 32}, nil
}

// loadBoxAndBottle spins a box and a bottle in front of the camera.
func loadBoxAndBottle(ctx *Context) (*Scene, error) {
	boxMesh, err := ctx.Mesh("box.obj")
	if err != nil {
		return nil, err
	}
	boxMat, err := phongMaterial(ctx, "box.png")
	if err != nil {
		return nil, err
	}
	bottleMesh, err := ctx.Mesh("bottle.obj")
	if err != nil {
		return nil, err
	}
	bottleMat, err := phongMaterial(ctx, "bottle.png")
	if err != nil {
		return nil, err
	}

	boxPos := math.V3(-30, -50, -200)
	bottlePos := math.V3(30, -35, -100)

	s := &Scene{
		Shading: ShadingPhong,
		Objects: []Object{
			{Name: "box", Mesh: boxMesh, Transform: math.TranslateVec(boxPos), Material: boxMat},
			{Name: "bottle", Mesh: bottleMesh, Transform: math.TranslateVec(bottlePos), Material: bottleMat},
		},
		Lights: lighting.NewPointLightBuffer(),
		Sun:    lighting.DefaultDirLight(),
		Camera: ctx.NewCamera(10),
	}

	var rotation float32
	s.Animate = func(dt time.Duration) {
		rotation += float32(dt.Seconds())
		s.Objects[0].Transform = math.TranslateVec(boxPos).Mul(math.Rotate(math.V3(0.5, 0.7, 0.3), rotation))
		s.Objects[1].Transform = math.TranslateVec(bottlePos).Mul(math.Rotate(math.V3(0, 1, 0), rotation))
	}
	return s, nil
}

// loadLotsOfBoxes lays out a 3x3x3 grid of boxes sharing one mesh. The
// camera may orbit over the poles.
func loadLotsOfBoxes(ctx *Context) (*Scene, error) {
	mesh, err := ctx.Mesh("smollbox.obj")
	if err != nil {
		return nil, err
	}
	mat, err := phongMaterial(ctx, "box.png")
	if err != nil {
		return nil, err
	}

	objects := make([]Object, 0, 27)
	for i := -1; i < 2; i++ {
		for j := -1; j < 2; j++ {
			for k := -1; k < 2; k++ {
				objects = append(objects, Object{
					Name:      "box",
					Mesh:      mesh,
					Transform: math.Translate(float32(i*3), float32(j*-3), float32(k*3)),
					Material:  mat,
				})
			}
		}
	}

	cfg := ctx.Camera
	cfg.InitialRadius = 10
	cfg.ClampPolarToHemisphere = false

	s := &Scene{
		Shading: ShadingPhong,
		Objects: objects,
		Lights:  lighting.NewPointLightBuffer(),
		Sun:     lighting.DefaultDirLight(),
	}
	s.Camera = camera.NewOrbitCamera(cfg)
	return s, nil
}

// loadWalls shows a normal-mapped brick plane lit by two circling lights.
func loadWalls(ctx *Context) (*Scene, error) {
	mesh, err := ctx.Mesh("grid.obj")
	if err != nil {
		return nil, err
	}
	diffuse, err := ctx.Texture("brick_diffuse.png")
	if err != nil {
		return nil, err
	}
	normals, err := ctx.Texture("brick_normals.png")
	if err != nil {
		return nil, err
	}
	spec, err := ctx.Solid(200, 200, 200)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Shading: ShadingPhong,
		Objects: []Object{{
			Name:      "wall",
			Mesh:      mesh,
			Transform: math.Rotate(math.V3(1, 0, 0), deg90),
			Material:  PhongMaterial{Diffuse: diffuse, Specular: spec, Normals: normals, Shininess: 32},
		}},
		Lights: lighting.NewPointLightBuffer(
			lighting.NewPointLight(math.V3(0, 2, 0)),
			lighting.NewPointLight(math.V3(0, 2, 0)),
		),
		Sun:    lighting.DefaultDirLight(),
		Camera: ctx.NewCamera(40),
	}

	var elapsed float32
	s.Animate = func(dt time.Duration) {
		elapsed += float32(dt.Seconds())
		sin, cos := math32.Sincos(elapsed)
		x, z := sin*5, cos*5
		s.Lights.Move(0, math.V3(x, z, 1.5))
		s.Lights.Move(1, math.V3(z, x, 1.5))
	}
	return s, nil
}

// Four lights in front of the scene, shared by the PBR demos.
func pbrLights(first math.Vec3) *lighting.PointLightBuffer {
	return lighting.NewPointLightBuffer(
		lighting.NewPointLight(first),
		lighting.NewPointLight(math.V3(10, 10, 10)),
		lighting.NewPointLight(math.V3(-10, -10, 10)),
		lighting.NewPointLight(math.V3(10, -10, 10)),
	)
}

// loadPBRBalls renders a 5x5 grid of spheres: metallic rises by row and
// roughness by column.
func loadPBRBalls(ctx *Context) (*Scene, error) {
	const (
		count   = 5
		spacing = 2.5
	)

	mesh, err := ctx.Mesh("sphere.obj")
	if err != nil {
		return nil, err
	}
	albedo, err := ctx.Solid(128, 0, 0)
	if err != nil {
		return nil, err
	}
	ao, err := ctx.Solid(255, 255, 255)
	if err != nil {
		return nil, err
	}
	normal, err := ctx.FlatNormal()
	if err != nil {
		return nil, err
	}

	objects := make([]Object, 0, count*count)
	for i := 0; i < count; i++ {
		mv := uint8(float32(i) / count * 255)
		metallic, err := ctx.Solid(mv, mv, mv)
		if err != nil {
			return nil, err
		}

		for j := 0; j < count; j++ {
			rv := uint8(math32.Max(float32(j)/count*255, 0.05))
			roughness, err := ctx.Solid(rv, rv, rv)
			if err != nil {
				return nil, err
			}

			x := (float32(j) - count/2.0) * spacing
			y := (float32(i) - count/2.0) * spacing
			objects = append(objects, Object{
				Name:      "sphere",
				Mesh:      mesh,
				Transform: math.Translate(x, y, 0),
				Material: PBRMaterial{
					Albedo:    albedo,
					Normal:    normal,
					Metallic:  metallic,
					Roughness: roughness,
					AO:        ao,
				},
			})
		}
	}

	return &Scene{
		Shading: ShadingPBR,
		Objects: objects,
		Lights:  pbrLights(math.V3(-10, 10, 10)),
		Sun:     lighting.DefaultDirLight(),
		Camera:  ctx.NewCamera(20),
	}, nil
}

// loadHatch renders a textured PBR panel.
func loadHatch(ctx *Context) (*Scene, error) {
	mesh, err := ctx.Mesh("grid.obj")
	if err != nil {
		return nil, err
	}

	var mat PBRMaterial
	for _, t := range []struct {
		dst  *texture.Handle
		name string
	}{
		{&mat.Albedo, "hatch_albedo.png"},
		{&mat.Normal, "hatch_normal.png"},
		{&mat.Metallic, "hatch_metallic.png"},
		{&mat.Roughness, "hatch_roughness.png"},
		{&mat.AO, "hatch_ao.png"},
	} {
		h, err := ctx.Texture(t.name)
		if err != nil {
			return nil, err
		}
		*t.dst = h
	}

	transform := math.Rotate(math.V3(1, 0, 0), deg90).Mul(math.Rotate(math.V3(0, -1, 0), deg90))

	return &Scene{
		Shading: ShadingPBR,
		Objects: []Object{{Name: "hatch", Mesh: mesh, Transform: transform, Material: mat}},
		Lights:  pbrLights(math.V3(-10, 10, 5)),
		Sun:     lighting.DefaultDirLight(),
		Camera:  ctx.NewCamera(30),
	}, nil
}
