// Package config handles playground configuration loading and management.
package config

import "github.com/Faultbox/gl-playground/internal/engine/camera"

// Config holds all playground settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Camera   CameraConfig   `yaml:"camera"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DataConfig holds asset locations.
type DataConfig struct {
	AssetDirs []string `yaml:"asset_dirs"` // later entries win
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// SceneConfig selects the startup scene and its lighting environment.
type SceneConfig struct {
	Name           string `yaml:"name"`
	Environment    string `yaml:"environment"` // HDR panorama, PBR scenes only
	CubemapSize    int    `yaml:"cubemap_size"`
	IrradianceSize int    `yaml:"irradiance_size"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	ClampPolar       bool    `yaml:"clamp_polar"`
	Sensitivity      float32 `yaml:"sensitivity"`
	TouchSensitivity float32 `yaml:"touch_sensitivity"`
	ZoomSpeed        float32 `yaml:"zoom_speed"`
	MinRadius        float32 `yaml:"min_radius"`
}

// Orbit converts the settings to a camera configuration. Scenes choose
// their own radius.
func (c CameraConfig) Orbit() camera.Config {
	cfg := camera.DefaultConfig()
	cfg.ClampPolarToHemisphere = c.ClampPolar
	cfg.Sensitivity = c.Sensitivity
	cfg.TouchSensitivity = c.TouchSensitivity
	cfg.ZoomSpeed = c.ZoomSpeed
	cfg.MinRadius = c.MinRadius
	return cfg
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	cam := camera.DefaultConfig()
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Scene: SceneConfig{
			Name:           "box-and-bottle",
			Environment:    "environment.hdr",
			CubemapSize:    512,
			IrradianceSize: 32,
		},
		Camera: CameraConfig{
			ClampPolar:       cam.ClampPolarToHemisphere,
			Sensitivity:      cam.Sensitivity,
			TouchSensitivity: cam.TouchSensitivity,
			ZoomSpeed:        cam.ZoomSpeed,
			MinRadius:        cam.MinRadius,
		},
		Data: DataConfig{
			AssetDirs: []string{"assets"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
