// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Engine  EngineConfig  `yaml:"engine"`
	Space   SpaceConfig   `yaml:"space"`
	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// EngineConfig holds walkthrough engine tunables.
type EngineConfig struct {
	FOV              float32       `yaml:"fov"` // Vertical field of view, degrees
	Near             float32       `yaml:"near"`
	Far              float32       `yaml:"far"`
	MoveSpeed        float32       `yaml:"move_speed"`       // Metres per second
	CollisionRadius  float32       `yaml:"collision_radius"` // Metres
	OcclusionEpsilon float32       `yaml:"occlusion_epsilon"`
	TransitionMs     int           `yaml:"transition_ms"`
	Easing           string        `yaml:"easing"`
	DecoderPath      string        `yaml:"decoder_path"` // Mesh decompression tool, optional
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
}

// SpaceConfig selects the space descriptor to open.
type SpaceConfig struct {
	Path      string `yaml:"path"`
	Watch     bool   `yaml:"watch"` // Rebuild the engine when the file changes
	AutoTour  bool   `yaml:"auto_tour"`
	FreeMove  bool   `yaml:"free_move"`
	StartNode string `yaml:"start_node"`
}

// AudioConfig controls narration playback for media hotspots.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0.0 to 1.0
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Walkthrough",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Engine: EngineConfig{
			FOV:              70,
			Near:             0.05,
			Far:              500,
			MoveSpeed:        2.5,
			CollisionRadius:  0.3,
			OcclusionEpsilon: 0.05,
			TransitionMs:     1200,
			Easing:           "smoothstep",
			FetchTimeout:     30 * time.Second,
		},
		Space: SpaceConfig{
			Path:  "space.yaml",
			Watch: true,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  1.0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
