// Package main is the entry point for the map viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/mapview/internal/config"
	"github.com/Faultbox/mapview/internal/logger"
)

var (
	flagMode  = flag.String("mode", "window", "Front-end: window, panel, serve or render")
	flagScene = flag.String("scene", "", "Scene file to load at startup")
	flagOut   = flag.String("out", "", "Output PNG for -mode render (default: next file in the export dir)")
	flagBind  = flag.String("bind", "", "Extra key bindings for -mode window, e.g. \"q=zoom:-2,space=export\"")
	flagWrite = flag.Bool("write-config", false, "Write the effective config to -config (or the user config dir) and exit")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if *flagWrite {
		path, err := cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
		return
	}

	// The panel owns the terminal, so it logs to file only.
	console := *flagMode != "panel"
	var fileCfg logger.FileConfig
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, console); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Map Viewer ===", zap.String("mode", *flagMode))
	logger.Sugar.Debugf("Config: %+v", cfg)

	var run func(*config.Config) error
	switch *flagMode {
	case "window":
		run = runWindow
	case "panel":
		run = runPanel
	case "serve":
		run = runServe
	case "render":
		run = runRender
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *flagMode)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
