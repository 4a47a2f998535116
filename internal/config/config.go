// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Viewport ViewportConfig `yaml:"viewport"`
	Export   ExportConfig   `yaml:"export"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ViewportConfig holds terrain synthesis and frame settings.
type ViewportConfig struct {
	Width  int `yaml:"width"`  // Captured frame width in pixels
	Height int `yaml:"height"` // Captured frame height in pixels

	MaxTerrainSize   int     `yaml:"max_terrain_size"` // Largest grid dimension
	MaxHeight        int     `yaml:"max_height"`       // Height units at full intensity
	Distortion       float64 `yaml:"distortion"`       // Cubic blend, clamped to [0,1]
	AutoDetectHeight bool    `yaml:"auto_detect_height"`
	Filter           string  `yaml:"filter"` // "nearest" or "bilinear"
	ShowTokens       bool    `yaml:"show_tokens"`

	Background  string  `yaml:"background"`   // Hex colour
	MarkerColor string  `yaml:"marker_color"` // Hex colour
	LabelColor  string  `yaml:"label_color"`  // Hex colour
	LabelSize   float64 `yaml:"label_size"`   // Glyph size in points
}

// ExportConfig controls where captured frames are written.
type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// ServerConfig holds the host bridge settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:            800,
			Height:           600,
			MaxTerrainSize:   256,
			MaxHeight:        40,
			Distortion:       0.5,
			AutoDetectHeight: true,
			Filter:           FilterNearest,
			ShowTokens:       true,
			Background:       "#1a1a26",
			MarkerColor:      "#c83232",
			LabelColor:       "#ffffff",
			LabelSize:        14,
		},
		Export: ExportConfig{
			Dir:    "exports",
			Prefix: "map",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
