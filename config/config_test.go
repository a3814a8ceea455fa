package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/drake/marquee/ui"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{EnvFallback, EnvFPS, EnvMinEmit, EnvMaxBuffered, EnvDebug} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fallback != nil || cfg.FPS != 10 || cfg.MinEmit != 5 || cfg.MaxBuffered != 1_000_000 || cfg.Debug {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv(EnvFallback, "100x30")
	t.Setenv(EnvFPS, "25")
	t.Setenv(EnvDebug, "1")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fallback == nil || *cfg.Fallback != (ui.Dimensions{Width: 100, Height: 30}) {
		t.Errorf("Fallback = %v", cfg.Fallback)
	}
	if cfg.FPS != 25 || !cfg.Debug {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadEnvFile(t *testing.T) {
	isolate(t)
	// Unset so the file can provide them; t.Setenv restores afterwards.
	os.Unsetenv(EnvMinEmit)
	os.Unsetenv(EnvMaxBuffered)
	os.Unsetenv(EnvFPS)

	path := filepath.Join(t.TempDir(), "marquee.env")
	content := EnvMinEmit + "=8\n" + EnvMaxBuffered + "=500\n" + EnvFPS + "=12\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinEmit != 8 || cfg.MaxBuffered != 500 || cfg.FPS != 12 {
		t.Errorf("env file not applied: %+v", cfg)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("a named env file that does not exist should fail")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		EnvFallback: "wide",
		EnvFPS:      "0",
		EnvMinEmit:  "-2",
	}
	for k, v := range tests {
		t.Run(k, func(t *testing.T) {
			isolate(t)
			t.Setenv(k, v)
			if _, err := Load(""); err == nil {
				t.Errorf("%s=%q should be rejected", k, v)
			}
		})
	}
}

func TestDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG layout only")
	}
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	if got, want := Dir(), filepath.Join(base, "marquee"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
	if got := CanvasScript(); filepath.Base(got) != "canvas.lua" {
		t.Errorf("CanvasScript() = %q", got)
	}
}
