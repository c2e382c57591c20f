// Package main is the entry point for the rendering playground.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/gl-playground/internal/assets"
	"github.com/Faultbox/gl-playground/internal/config"
	"github.com/Faultbox/gl-playground/internal/engine/gpu/glgpu"
	"github.com/Faultbox/gl-playground/internal/engine/input/sdlinput"
	"github.com/Faultbox/gl-playground/internal/engine/window"
	"github.com/Faultbox/gl-playground/internal/logger"
	"github.com/Faultbox/gl-playground/internal/playground"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", path)
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== GL Playground ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("playground error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("playground closed normally")
}

func run(cfg *config.Config) error {
	files := assets.NewManager()
	defer files.Close()
	for _, dir := range cfg.Data.AssetDirs {
		if err := files.AddDir(dir); err != nil {
			return fmt.Errorf("asset dir: %w", err)
		}
	}

	// The window must exist before any GL call.
	win, err := window.New(window.Config{
		Title:      playground.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	dev, err := glgpu.New()
	if err != nil {
		return fmt.Errorf("creating device: %w", err)
	}
	defer dev.Close()

	in := sdlinput.New(win.GetSize())

	p, err := playground.New(cfg, win, in, dev, files)
	if err != nil {
		return err
	}
	defer p.Close()

	return p.Run()
}
