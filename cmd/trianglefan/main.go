package main

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/fosdem/trianglefan/lib/config"
	"github.com/fosdem/trianglefan/lib/demo"
	"github.com/fosdem/trianglefan/lib/log"
	"github.com/fosdem/trianglefan/lib/sink/windowsink"
)

// exitSetupFailed is returned when anything before the render loop fails.
const exitSetupFailed = -1

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	log.Setup(os.Stderr, slog.LevelInfo)

	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		windowsink.ReportError(err)
		return exitSetupFailed
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		windowsink.ReportError(err)
		return exitSetupFailed
	}
	log.Setup(os.Stderr, level)
	slog.Debug("configuration:\n" + cfg.String())

	err = demo.Run(cfg)
	if err != nil {
		windowsink.ReportError(err)
		return exitSetupFailed
	}
	return 0
}
