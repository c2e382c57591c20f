// Package glsl provides embedded GLSL shader sources.
package glsl

import _ "embed"

// CubeVertexShader places a unit cube for the capture and convolution passes.
//
//go:embed cube.vert
var CubeVertexShader string

// EquirectToCubeFragmentShader samples a lat/long panorama by direction.
//
//go:embed equirect_to_cube.frag
var EquirectToCubeFragmentShader string

// IrradianceFragmentShader convolves an environment cubemap over the hemisphere.
//
//go:embed irradiance.frag
var IrradianceFragmentShader string

// SkyboxVertexShader is the vertex shader for the environment background.
//
//go:embed skybox.vert
var SkyboxVertexShader string

// SkyboxFragmentShader is the fragment shader for the environment background.
//
//go:embed skybox.frag
var SkyboxFragmentShader string

// MeshVertexShader is shared by the Phong and PBR programs.
//
//go:embed mesh.vert
var MeshVertexShader string

// PhongFragmentShader is the fragment shader for normal-mapped Phong shading.
//
//go:embed phong.frag
var PhongFragmentShader string

// PBRFragmentShader is the fragment shader for metallic/roughness shading.
//
//go:embed pbr.frag
var PBRFragmentShader string

// LightVertexShader is the vertex shader for point light markers.
//
//go:embed light.vert
var LightVertexShader string

// LightFragmentShader is the fragment shader for point light markers.
//
//go:embed light.frag
var LightFragmentShader string
