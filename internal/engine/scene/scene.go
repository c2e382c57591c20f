// Package scene composes the hand-authored demo scenes: a flat list of
// objects, their materials, lights and an orbit camera.
package scene

import (
	"time"

	"github.com/Faultbox/gl-playground/internal/engine/camera"
	"github.com/Faultbox/gl-playground/internal/engine/gpu"
	"github.com/Faultbox/gl-playground/internal/engine/lighting"
	"github.com/Faultbox/gl-playground/internal/engine/texture"
	"github.com/Faultbox/gl-playground/pkg/math"
)

// Shading selects the lighting model a scene is drawn with.
type Shading int

const (
	ShadingPhong Shading = iota
	ShadingPBR
)

func (s Shading) String() string {
	if s == ShadingPBR {
		return "pbr"
	}
	return "phong"
}

// Material is one of PhongMaterial or PBRMaterial.
type Material interface {
	shading() Shading
}

// PhongMaterial is a diffuse/specular material with a tangent-space
// normal map.
type PhongMaterial struct {
	Diffuse   texture.Handle
	Specular  texture.Handle
	Normals   texture.Handle
	Shininess float32
}

func (PhongMaterial) shading() Shading { return ShadingPhong }

// PBRMaterial is a metallic/roughness material. Metallic, roughness and
// ambient occlusion are read from the red channel.
type PBRMaterial struct {
	Albedo    texture.Handle
	Normal    texture.Handle
	Metallic  texture.Handle
	Roughness texture.Handle
	AO        texture.Handle
}

func (PBRMaterial) shading() Shading { return ShadingPBR }

// Object is one drawable: geometry, world transform and material.
type Object struct {
	Name      string
	Mesh      gpu.Mesh
	Transform math.Mat4
	Material  Material
}

// Scene is everything one demo draws.
type Scene struct {
	Name    string
	Shading Shading

	Objects []Object
	Lights  *lighting.PointLightBuffer
	Sun     lighting.DirLight
	Camera  *camera.OrbitCamera

	// Animate advances scene state by dt. Optional.
	Animate func(dt time.Duration)
}

// Update runs the scene's animation hook, if any.
func (s *Scene) Update(dt time.Duration) {
	if s.Animate != nil {
		s.Animate(dt)
	}
}

// Matches reports whether m can be drawn with the scene's shading model.
func (s *Scene) Matches(m Material) bool {
	return m != nil && m.shading() == s.Shading
}
