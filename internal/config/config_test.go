package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Viewport.Width != 800 {
		t.Errorf("expected width 800, got %d", cfg.Viewport.Width)
	}
	if cfg.Viewport.Height != 600 {
		t.Errorf("expected height 600, got %d", cfg.Viewport.Height)
	}
	if cfg.Viewport.MaxTerrainSize != 256 {
		t.Errorf("expected max terrain size 256, got %d", cfg.Viewport.MaxTerrainSize)
	}
	if !cfg.Viewport.AutoDetectHeight {
		t.Error("expected auto-detect height to be on by default")
	}
	if cfg.Viewport.Filter != FilterNearest {
		t.Errorf("expected nearest filter by default, got %s", cfg.Viewport.Filter)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mapview.yaml")

	yamlContent := `
viewport:
  width: 1024
  height: 768
  max_terrain_size: 128
  max_height: 60
  distortion: 0.25
  auto_detect_height: false
  filter: bilinear
  marker_color: "#00ff00"

export:
  dir: "/tmp/frames"
  prefix: "session"

server:
  addr: ":9000"

logging:
  level: "debug"
  log_file: "mapview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Viewport.Width != 1024 || cfg.Viewport.Height != 768 {
		t.Errorf("expected 1024x768, got %dx%d", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	if cfg.Viewport.MaxTerrainSize != 128 {
		t.Errorf("expected max terrain size 128, got %d", cfg.Viewport.MaxTerrainSize)
	}
	if cfg.Viewport.MaxHeight != 60 {
		t.Errorf("expected max height 60, got %d", cfg.Viewport.MaxHeight)
	}
	if cfg.Viewport.Distortion != 0.25 {
		t.Errorf("expected distortion 0.25, got %f", cfg.Viewport.Distortion)
	}
	if cfg.Viewport.AutoDetectHeight {
		t.Error("expected auto-detect to be disabled")
	}
	if cfg.Viewport.Filter != FilterBilinear {
		t.Errorf("expected bilinear filter, got %s", cfg.Viewport.Filter)
	}
	// Untouched keys keep their defaults.
	if cfg.Viewport.LabelColor != "#ffffff" {
		t.Errorf("expected default label colour, got %s", cfg.Viewport.LabelColor)
	}
	if cfg.Export.Prefix != "session" {
		t.Errorf("expected export prefix 'session', got %s", cfg.Export.Prefix)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected addr :9000, got %s", cfg.Server.Addr)
	}
	if cfg.Logging.LogFile != "mapview.log" {
		t.Errorf("expected log file 'mapview.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
viewport:
  max_terrain_size: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Fatal("expected error loading invalid YAML, got nil")
	}
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/mapview.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero terrain size", func(c *Config) { c.Viewport.MaxTerrainSize = 0 }, true},
		{"negative height", func(c *Config) { c.Viewport.MaxHeight = -1 }, true},
		{"zero frame", func(c *Config) { c.Viewport.Width = 0 }, true},
		{"bad colour", func(c *Config) { c.Viewport.Background = "teal-ish" }, true},
		{"unknown filter", func(c *Config) { c.Viewport.Filter = "cubic" }, true},
		{"empty filter", func(c *Config) { c.Viewport.Filter = "" }, false},
		{"distortion above one", func(c *Config) { c.Viewport.Distortion = 3 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateClampsDistortion(t *testing.T) {
	cfg := Default()
	cfg.Viewport.Distortion = 1.7
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Viewport.Distortion != 1 {
		t.Errorf("expected distortion clamped to 1, got %f", cfg.Viewport.Distortion)
	}

	if got := ClampDistortion(-0.5); got != 0 {
		t.Errorf("ClampDistortion(-0.5) = %f, want 0", got)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.R != 255 || c.G != 128 || c.B != 0 || c.A != 255 {
		t.Errorf("ParseColor(#ff8000) = %+v", c)
	}
	if _, err := ParseColor("ff8000zz"); err == nil {
		t.Error("expected error for malformed colour")
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

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "mapview.yaml")
	if err := os.WriteFile(configPath, []byte("viewport:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find mapview.yaml in current directory")
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
			name:  "flat flag",
			setup: func() { *flagFlat = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewport.AutoDetectHeight {
					t.Error("expected auto-detect disabled with flat flag")
				}
			},
			teardown: func() { *flagFlat = false },
		},
		{
			name: "terrain flags",
			setup: func() {
				*flagMaxSize = 64
				*flagMaxHeight = 0
				*flagDistortion = 0.9
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewport.MaxTerrainSize != 64 {
					t.Errorf("expected max size 64, got %d", cfg.Viewport.MaxTerrainSize)
				}
				if cfg.Viewport.MaxHeight != 0 {
					t.Errorf("expected max height 0, got %d", cfg.Viewport.MaxHeight)
				}
				if cfg.Viewport.Distortion != 0.9 {
					t.Errorf("expected distortion 0.9, got %f", cfg.Viewport.Distortion)
				}
			},
			teardown: func() {
				*flagMaxSize = 0
				*flagMaxHeight = -1
				*flagDistortion = -1
			},
		},
		{
			name: "frame size flags",
			setup: func() {
				*flagWidth = 1920
				*flagHeight = 1080
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewport.Width != 1920 || cfg.Viewport.Height != 1080 {
					t.Errorf("expected 1920x1080, got %dx%d", cfg.Viewport.Width, cfg.Viewport.Height)
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
	configPath := filepath.Join(tmpDir, "mapview.yaml")

	yamlContent := `
viewport:
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

	if cfg.Viewport.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Viewport.Width)
	}
	if cfg.Viewport.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Viewport.Height)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mapview.yaml")
	if err := os.WriteFile(configPath, []byte("viewport:\n  max_terrain_size: -4\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mapview.yaml")
	cfg := Default()
	cfg.Viewport.MaxHeight = 77

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Viewport.MaxHeight != 77 {
		t.Errorf("expected max height 77 after reload, got %d", loaded.Viewport.MaxHeight)
	}
}

func TestSaveWritesToConfigFlagPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "viewer.yaml")
	*flagConfig = path
	defer func() { *flagConfig = "" }()

	cfg := Default()
	cfg.Viewport.Filter = FilterBilinear

	got, err := cfg.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got != path {
		t.Errorf("expected %s, got %s", path, got)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Viewport.Filter != FilterBilinear {
		t.Errorf("expected filter %q after reload, got %q", FilterBilinear, loaded.Viewport.Filter)
	}
}
