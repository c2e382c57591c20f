package glsl

import (
	"strings"
	"testing"
)

func TestSourcesEmbedded(t *testing.T) {
	sources := map[string]string{
		"cube.vert":             CubeVertexShader,
		"equirect_to_cube.frag": EquirectToCubeFragmentShader,
		"irradiance.frag":       IrradianceFragmentShader,
		"skybox.vert":           SkyboxVertexShader,
		"skybox.frag":           SkyboxFragmentShader,
		"mesh.vert":             MeshVertexShader,
		"phong.frag":            PhongFragmentShader,
		"pbr.frag":              PBRFragmentShader,
		"light.vert":            LightVertexShader,
		"light.frag":            LightFragmentShader,
	}
	for name, src := range sources {
		if !strings.HasPrefix(src, "#version 410 core") {
			t.Errorf("%s: missing 410 core version line", name)
		}
	}
}

func TestCaptureUniforms(t *testing.T) {
	// Names the cubemap baker binds.
	for _, name := range []string{"projection", "view"} {
		if !strings.Contains(CubeVertexShader, "uniform mat4 "+name) {
			t.Errorf("cube.vert: missing uniform %s", name)
		}
	}
	if !strings.Contains(EquirectToCubeFragmentShader, "uniform sampler2D equirectangularMap") {
		t.Error("equirect_to_cube.frag: missing equirectangularMap")
	}
	if !strings.Contains(IrradianceFragmentShader, "uniform samplerCube environmentMap") {
		t.Error("irradiance.frag: missing environmentMap")
	}
}

func TestPointLightCapacity(t *testing.T) {
	for name, src := range map[string]string{"phong.frag": PhongFragmentShader, "pbr.frag": PBRFragmentShader} {
		if !strings.Contains(src, "#define MAX_POINT_LIGHTS 8") {
			t.Errorf("%s: point light capacity changed", name)
		}
	}
}
