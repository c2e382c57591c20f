package ibl

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/gl-playground/internal/engine/gpu"
	"github.com/Faultbox/gl-playground/internal/engine/texture"
	"github.com/Faultbox/gl-playground/internal/logger"
	"github.com/Faultbox/gl-playground/pkg/formats"
)

// EnvironmentDevice can both upload the panorama and bake from it.
type EnvironmentDevice interface {
	Device
	texture.Uploader
}

// FileSource reads asset files by name.
type FileSource interface {
	ReadFile(name string) ([]byte, error)
}

// EnvironmentConfig selects sizes and programs for LoadEnvironment.
type EnvironmentConfig struct {
	CubemapSize    int
	IrradianceSize int

	ProjectProgram    gpu.ProgramID // equirect -> cubemap
	IrradianceProgram gpu.ProgramID // cubemap -> diffuse irradiance
}

// Environment is a baked lighting environment.
type Environment struct {
	Name       string
	Width      int // panorama size
	Height     int
	Exposure   float32
	Panorama   gpu.TextureID
	Cubemap    gpu.CubemapID
	Irradiance gpu.CubemapID
}

// LoadEnvironment decodes an HDR panorama, uploads it and bakes the
// environment and irradiance cubemaps. Each step finishes before the next
// starts; the panorama is resident before the first bake.
func LoadEnvironment(dev EnvironmentDevice, files FileSource, name string, cfg EnvironmentConfig) (*Environment, error) {
	log := logger.Named("ibl")
	start := time.Now()

	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	img, err := formats.DecodeHDR(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	texture.FlipVertical(img.Pixels, img.Width, img.Height, 4)

	pano, err := dev.CreateTexture2D(img.Width, img.Height, img.Pixels, gpu.TextureOptions{Wrap: gpu.WrapClamp})
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", name, err)
	}

	env := &Environment{
		Name:     name,
		Width:    img.Width,
		Height:   img.Height,
		Exposure: img.Exposure,
		Panorama: pano,
	}

	baker := NewBaker(dev, cfg.CubemapSize)
	defer baker.Close()

	env.Cubemap, err = baker.Bake(EquirectSource{Texture: pano}, cfg.ProjectProgram)
	if err != nil {
		env.Release(dev)
		return nil, fmt.Errorf("baking %s: %w", name, err)
	}

	if cfg.IrradianceProgram != 0 && cfg.IrradianceSize > 0 {
		env.Irradiance, err = baker.BakeSize(CubemapSource{Cubemap: env.Cubemap}, cfg.IrradianceProgram, cfg.IrradianceSize)
		if err != nil {
			env.Release(dev)
			return nil, fmt.Errorf("convolving %s: %w", name, err)
		}
	}

	log.Info("environment ready",
		zap.String("name", name),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("cubemap", cfg.CubemapSize),
		zap.Duration("took", time.Since(start)))

	return env, nil
}

// Release deletes the environment's device resources.
func (e *Environment) Release(dev EnvironmentDevice) {
	if e.Irradiance != 0 {
		dev.DeleteCubemap(e.Irradiance)
		e.Irradiance = 0
	}
	if e.Cubemap != 0 {
		dev.DeleteCubemap(e.Cubemap)
		e.Cubemap = 0
	}
	if e.Panorama != 0 {
		dev.DeleteTexture(e.Panorama)
		e.Panorama = 0
	}
}
