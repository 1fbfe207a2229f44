package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSpace      = flag.String("space", "", "Path to space descriptor")
	flagStartNode  = flag.String("node", "", "Node to open at instead of the default node")
	flagAutoTour   = flag.Bool("tour", false, "Start the auto-tour once loaded")
	flagFreeMove   = flag.Bool("walk", false, "Enable free movement once loaded")
	flagDecoder    = flag.String("decoder", "", "Mesh decompression tool")
	flagMute       = flag.Bool("mute", false, "Disable hotspot narration audio")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSpace != "" {
		cfg.Space.Path = *flagSpace
	}
	if *flagStartNode != "" {
		cfg.Space.StartNode = *flagStartNode
	}
	if *flagAutoTour {
		cfg.Space.AutoTour = true
	}
	if *flagFreeMove {
		cfg.Space.FreeMove = true
	}
	if *flagMute {
		cfg.Audio.Enabled = false
	}
	if *flagDecoder != "" {
		cfg.Engine.DecoderPath = *flagDecoder
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
