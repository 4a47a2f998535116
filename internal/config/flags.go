package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagAddr       = flag.String("addr", "", "Host bridge listen address")
	flagWidth      = flag.Int("width", 0, "Frame width")
	flagHeight     = flag.Int("height", 0, "Frame height")
	flagMaxSize    = flag.Int("max-size", 0, "Maximum terrain grid dimension")
	flagMaxHeight  = flag.Int("max-height", -1, "Maximum terrain height")
	flagDistortion = flag.Float64("distortion", -1, "Height curve distortion in [0,1]")
	flagFlat       = flag.Bool("flat", false, "Disable height auto-detection")
	flagExportDir  = flag.String("export-dir", "", "Directory for exported frames")
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
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagWidth > 0 {
		cfg.Viewport.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewport.Height = *flagHeight
	}
	if *flagMaxSize > 0 {
		cfg.Viewport.MaxTerrainSize = *flagMaxSize
	}
	if *flagMaxHeight >= 0 {
		cfg.Viewport.MaxHeight = *flagMaxHeight
	}
	if *flagDistortion >= 0 {
		cfg.Viewport.Distortion = *flagDistortion
	}
	if *flagFlat {
		cfg.Viewport.AutoDetectHeight = false
	}
	if *flagExportDir != "" {
		cfg.Export.Dir = *flagExportDir
	}
}
