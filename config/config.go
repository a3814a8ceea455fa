package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/drake/marquee/ui"
)

// Environment variables read by Load.
const (
	EnvFallback    = "MARQUEE_FALLBACK"     // WIDTHxHEIGHT
	EnvFPS         = "MARQUEE_FPS"          // ticks per second
	EnvMinEmit     = "MARQUEE_MIN_EMIT"     // lines drained per tick at the least
	EnvMaxBuffered = "MARQUEE_MAX_BUFFERED" // queued width that forces a full flush
	EnvDebug       = "MARQUEE_DEBUG"        // 1 enables the stats monitor
)

// Config holds settings for the marquee command.
type Config struct {
	Fallback    *ui.Dimensions
	FPS         int
	MinEmit     int
	MaxBuffered int
	Debug       bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		FPS:         10,
		MinEmit:     5,
		MaxBuffered: 1_000_000,
	}
}

// Dir returns the marquee configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "marquee")
}

// CanvasScript returns the path to the default canvas script.
func CanvasScript() string {
	return filepath.Join(Dir(), "canvas.lua")
}

// DebugLog returns the path the stats monitor writes to.
func DebugLog() string {
	return filepath.Join(Dir(), "debug.log")
}

// Load reads settings from the environment. When envFile is not empty its
// variables are loaded first; variables already set in the process win.
// A missing envFile is an error only if it was named explicitly.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(filepath.Join(Dir(), "env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()

	if v := os.Getenv(EnvFallback); v != "" {
		d, err := ui.ParseDimensions(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvFallback, err)
		}
		cfg.Fallback = &d
	}

	var err error
	if cfg.FPS, err = positiveInt(EnvFPS, cfg.FPS); err != nil {
		return Config{}, err
	}
	if cfg.MinEmit, err = positiveInt(EnvMinEmit, cfg.MinEmit); err != nil {
		return Config{}, err
	}
	if cfg.MaxBuffered, err = positiveInt(EnvMaxBuffered, cfg.MaxBuffered); err != nil {
		return Config{}, err
	}

	cfg.Debug = os.Getenv(EnvDebug) == "1"
	return cfg, nil
}

func positiveInt(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: want a positive integer, got %q", name, v)
	}
	return n, nil
}
