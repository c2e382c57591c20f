package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test scene defaults
	if cfg.Scene.Name != "box-and-bottle" {
		t.Errorf("expected scene box-and-bottle, got %s", cfg.Scene.Name)
	}
	if cfg.Scene.CubemapSize != 512 {
		t.Errorf("expected cubemap size 512, got %d", cfg.Scene.CubemapSize)
	}
	if cfg.Scene.IrradianceSize != 32 {
		t.Errorf("expected irradiance size 32, got %d", cfg.Scene.IrradianceSize)
	}

	// Test camera defaults
	if !cfg.Camera.ClampPolar {
		t.Error("expected clamp_polar to be true by default")
	}
	if cfg.Camera.Sensitivity != 0.005 {
		t.Errorf("expected sensitivity 0.005, got %f", cfg.Camera.Sensitivity)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

scene:
  name: "pbr-balls"
  environment: "sky.hdr"
  cubemap_size: 256

camera:
  clamp_polar: false
  zoom_speed: 0.05

data:
  asset_dirs: ["assets", "/opt/playground/assets"]

logging:
  level: "debug"
  log_file: "playground.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Scene.Name != "pbr-balls" {
		t.Errorf("expected scene pbr-balls, got %s", cfg.Scene.Name)
	}
	if cfg.Scene.Environment != "sky.hdr" {
		t.Errorf("expected environment sky.hdr, got %s", cfg.Scene.Environment)
	}
	if cfg.Scene.CubemapSize != 256 {
		t.Errorf("expected cubemap size 256, got %d", cfg.Scene.CubemapSize)
	}
	if cfg.Scene.IrradianceSize != 32 {
		t.Errorf("expected irradiance size to keep default 32, got %d", cfg.Scene.IrradianceSize)
	}

	if cfg.Camera.ClampPolar {
		t.Error("expected clamp_polar to be false")
	}
	if cfg.Camera.ZoomSpeed != 0.05 {
		t.Errorf("expected zoom speed 0.05, got %f", cfg.Camera.ZoomSpeed)
	}

	want := []string{filepath.Join(tmpDir, "assets"), "/opt/playground/assets"}
	if len(cfg.Data.AssetDirs) != 2 || cfg.Data.AssetDirs[0] != want[0] || cfg.Data.AssetDirs[1] != want[1] {
		t.Errorf("expected asset dirs %v, got %v", want, cfg.Data.AssetDirs)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "playground.log" {
		t.Errorf("expected log file 'playground.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileKeepsDefaultAssetDirs(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Data.AssetDirs) != 1 || cfg.Data.AssetDirs[0] != "assets" {
		t.Errorf("expected default asset dirs untouched, got %v", cfg.Data.AssetDirs)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "graphics"},
		{"empty scene", func(c *Config) { c.Scene.Name = "" }, "scene: name"},
		{"zero cubemap", func(c *Config) { c.Scene.CubemapSize = 0 }, "cubemap_size"},
		{"negative irradiance", func(c *Config) { c.Scene.IrradianceSize = -1 }, "irradiance_size"},
		{"no assets", func(c *Config) { c.Data.AssetDirs = nil }, "asset_dirs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCameraOrbit(t *testing.T) {
	cfg := Default()
	cfg.Camera.ClampPolar = false
	cfg.Camera.MinRadius = 2

	orbit := cfg.Camera.Orbit()
	if orbit.ClampPolarToHemisphere {
		t.Error("expected clamp to follow clamp_polar")
	}
	if orbit.MinRadius != 2 {
		t.Errorf("expected min radius 2, got %f", orbit.MinRadius)
	}
	if orbit.Sensitivity != cfg.Camera.Sensitivity {
		t.Errorf("expected sensitivity %f, got %f", cfg.Camera.Sensitivity, orbit.Sensitivity)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "scene flag",
			setup: func() { *flagScene = "hatch" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Name != "hatch" {
					t.Errorf("expected scene hatch, got %s", cfg.Scene.Name)
				}
			},
			teardown: func() { *flagScene = "" },
		},
		{
			name:  "hdr flag",
			setup: func() { *flagHDR = "studio.hdr" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Environment != "studio.hdr" {
					t.Errorf("expected environment studio.hdr, got %s", cfg.Scene.Environment)
				}
			},
			teardown: func() { *flagHDR = "" },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
scene:
  name: walls
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
	if cfg.Scene.Name != "walls" {
		t.Errorf("expected scene walls from file, got %s", cfg.Scene.Name)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("scene:\n  cubemap_size: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected error for zero cubemap size, got nil")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.Name = "hatch"
	cfg.Data.AssetDirs = []string{"/srv/assets"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Scene.Name != "hatch" {
		t.Errorf("expected scene hatch after reload, got %s", loaded.Scene.Name)
	}
	if len(loaded.Data.AssetDirs) != 1 || loaded.Data.AssetDirs[0] != "/srv/assets" {
		t.Errorf("expected asset dirs [/srv/assets], got %v", loaded.Data.AssetDirs)
	}
}

func TestSaveIsFoundByLoad(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir is not redirectable on this OS")
	}
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Chdir(tmpDir)

	cfg := Default()
	cfg.Scene.Name = "walls"
	path, err := cfg.Save()
	if err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if want := filepath.Join(tmpDir, "xdg", "gl-playground", "config.yaml"); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Scene.Name != "walls" {
		t.Errorf("expected scene walls, got %s", loaded.Scene.Name)
	}
}

func TestSaveRequested(t *testing.T) {
	if SaveRequested() {
		t.Error("expected no save by default")
	}
	*flagSave = true
	defer func() { *flagSave = false }()
	if !SaveRequested() {
		t.Error("expected save after --save-config")
	}
}
