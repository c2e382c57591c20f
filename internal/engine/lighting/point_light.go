// Package lighting provides directional and point lights for scene rendering.
package lighting

import (
	"github.com/Faultbox/gl-playground/pkg/math"
)

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 8

// Default attenuation terms, roughly a 20 unit falloff.
const (
	DefaultConstant  float32 = 1.0
	DefaultLinear    float32 = 0.22
	DefaultQuadratic float32 = 0.20
)

// DirLight is a light infinitely far away, such as the sun.
type DirLight struct {
	Direction math.Vec3 // direction the light travels
	Ambient   math.Vec3
	Diffuse   math.Vec3
	Specular  math.Vec3
}

// DefaultDirLight returns a dim white light shining down and slightly away.
func DefaultDirLight() DirLight {
	return DirLight{
		Direction: math.V3(-0.2, -1, -0.3),
		Ambient:   math.V3(0.2, 0.2, 0.2),
		Diffuse:   math.V3(0.5, 0.5, 0.5),
		Specular:  math.V3(1, 1, 1),
	}
}

// PointLight represents a point light source for GPU upload.
// The Phong terms and the PBR radiance Color are both carried so a scene
// can be drawn with either shading model.
type PointLight struct {
	Position math.Vec3
	Ambient  math.Vec3
	Diffuse  math.Vec3
	Specular math.Vec3
	Color    math.Vec3 // radiance, unbounded

	Constant  float32
	Linear    float32
	Quadratic float32
}

// NewPointLight returns a white light at pos with default attenuation.
func NewPointLight(pos math.Vec3) PointLight {
	return PointLight{
		Position:  pos,
		Ambient:   math.V3(0.2, 0.2, 0.2),
		Diffuse:   math.V3(0.5, 0.5, 0.5),
		Specular:  math.V3(1, 1, 1),
		Color:     math.V3(300, 300, 300),
		Constant:  DefaultConstant,
		Linear:    DefaultLinear,
		Quadratic: DefaultQuadratic,
	}
}

// Attenuation returns the Phong falloff factor at distance d.
func (l PointLight) Attenuation(d float32) float32 {
	return 1 / (l.Constant + l.Linear*d + l.Quadratic*d*d)
}

// PointLightBuffer holds lights for GPU upload.
type PointLightBuffer struct {
	Lights []PointLight
}

// NewPointLightBuffer creates a buffer holding lights, truncated to
// MaxPointLights.
func NewPointLightBuffer(lights ...PointLight) *PointLightBuffer {
	b := &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
	b.SetLights(lights)
	return b
}

// Len returns the number of lights.
func (b *PointLightBuffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Lights)
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if len(b.Lights) >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	return true
}

// SetLights replaces all lights in the buffer.
// Truncates to MaxPointLights if necessary.
func (b *PointLightBuffer) SetLights(lights []PointLight) {
	b.Clear()
	count := len(lights)
	if count > MaxPointLights {
		count = MaxPointLights
	}
	b.Lights = append(b.Lights, lights[:count]...)
}

// Move sets the position of light i. Out of range indices are ignored.
func (b *PointLightBuffer) Move(i int, pos math.Vec3) {
	if i >= 0 && i < len(b.Lights) {
		b.Lights[i].Position = pos
	}
}

// Positions returns light positions.
func (b *PointLightBuffer) Positions() []math.Vec3 {
	result := make([]math.Vec3, len(b.Lights))
	for i, light := range b.Lights {
		result[i] = light.Position
	}
	return result
}
