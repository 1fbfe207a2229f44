package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if !cfg.Audio.Enabled || cfg.Audio.Volume != 1.0 {
		t.Errorf("unexpected audio defaults: %+v", cfg.Audio)
	}

	if cfg.Engine.CollisionRadius != 0.3 {
		t.Errorf("expected collision radius 0.3, got %f", cfg.Engine.CollisionRadius)
	}
	if cfg.Engine.TransitionMs != 1200 {
		t.Errorf("expected transition 1200ms, got %d", cfg.Engine.TransitionMs)
	}
	if cfg.Engine.Easing != "smoothstep" {
		t.Errorf("expected smoothstep easing, got %s", cfg.Engine.Easing)
	}
	if cfg.Engine.DecoderPath != "" {
		t.Errorf("expected no decoder by default, got %s", cfg.Engine.DecoderPath)
	}
	if cfg.Engine.FetchTimeout != 30*time.Second {
		t.Errorf("expected fetch timeout 30s, got %v", cfg.Engine.FetchTimeout)
	}

	if cfg.Space.Path != "space.yaml" {
		t.Errorf("expected space path space.yaml, got %s", cfg.Space.Path)
	}
	if !cfg.Space.Watch {
		t.Error("expected watch to be enabled by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  title: "Show flat"
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

engine:
  fov: 90
  move_speed: 1.5
  collision_radius: 0.25
  transition_ms: 900
  easing: in-out-cubic
  decoder_path: /usr/local/bin/gltf-decode
  fetch_timeout: 5s

space:
  path: flats/a12.yaml
  watch: false
  auto_tour: true

logging:
  level: "debug"
  log_file: "walkthrough.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Title != "Show flat" {
		t.Errorf("expected title 'Show flat', got %s", cfg.Window.Title)
	}
	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Engine.FOV != 90 {
		t.Errorf("expected fov 90, got %f", cfg.Engine.FOV)
	}
	if cfg.Engine.Easing != "in-out-cubic" {
		t.Errorf("expected easing in-out-cubic, got %s", cfg.Engine.Easing)
	}
	if cfg.Engine.FetchTimeout != 5*time.Second {
		t.Errorf("expected fetch timeout 5s, got %v", cfg.Engine.FetchTimeout)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Engine.OcclusionEpsilon != 0.05 {
		t.Errorf("expected default occlusion epsilon, got %f", cfg.Engine.OcclusionEpsilon)
	}
	dir := filepath.Dir(configPath)
	if cfg.Space.Path != filepath.Join(dir, "flats", "a12.yaml") || cfg.Space.Watch || !cfg.Space.AutoTour {
		t.Errorf("unexpected space config: %+v", cfg.Space)
	}
	if cfg.Logging.LogFile != filepath.Join(dir, "walkthrough.log") {
		t.Errorf("expected log file next to the config, got %s", cfg.Logging.LogFile)
	}
	if cfg.Engine.DecoderPath != "/usr/local/bin/gltf-decode" {
		t.Errorf("absolute decoder path changed: %s", cfg.Engine.DecoderPath)
	}
}

func TestLoadFromFilePaths(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yamlContent := `
engine:
  decoder_path: gltf-decode
audio:
  volume: 3
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Engine.DecoderPath != "gltf-decode" {
		t.Errorf("bare decoder name should stay a PATH lookup, got %s", cfg.Engine.DecoderPath)
	}
	// Not set by the file, so still relative to the working directory.
	if cfg.Space.Path != "space.yaml" {
		t.Errorf("default space path rewritten: %s", cfg.Space.Path)
	}
	if cfg.Audio.Volume != 1 {
		t.Errorf("expected volume clamped to 1, got %f", cfg.Audio.Volume)
	}
}

func TestLoadFromFileRejectsBadValues(t *testing.T) {
	for _, content := range []string{
		"window:\n  width: 0\n",
		"engine:\n  near: 10\n  far: 5\n",
		"space:\n  path: \"\"\n",
	} {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if err := loadFromFile(Default(), configPath); err == nil {
			t.Errorf("expected error for %q", content)
		}
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Engine.MoveSpeed = 4
	cfg.Space.StartNode = "kitchen"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Engine.MoveSpeed != 4 || loaded.Space.StartNode != "kitchen" {
		t.Errorf("saved values not restored: %+v %+v", loaded.Engine, loaded.Space)
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
			name:  "space and node flags",
			setup: func() { *flagSpace = "other.yaml"; *flagStartNode = "hall" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Space.Path != "other.yaml" || cfg.Space.StartNode != "hall" {
					t.Errorf("unexpected space config: %+v", cfg.Space)
				}
			},
			teardown: func() { *flagSpace = ""; *flagStartNode = "" },
		},
		{
			name:  "tour and walk flags",
			setup: func() { *flagAutoTour = true; *flagFreeMove = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Space.AutoTour || !cfg.Space.FreeMove {
					t.Errorf("expected tour and walk enabled: %+v", cfg.Space)
				}
			},
			teardown: func() { *flagAutoTour = false; *flagFreeMove = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name:  "width and height flags",
			setup: func() { *flagWidth = 2560; *flagHeight = 1440 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() { *flagWidth = 0; *flagHeight = 0 },
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
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

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

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}
