package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/mklimuk/lidarlog/config"
)

func newLogger(w io.Writer, verbose bool, profile termenv.Profile) *slog.Logger {
	charm := chlog.NewWithOptions(w, chlog.Options{
		ReportCaller:    verbose,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	charm.SetColorProfile(profile)
	charm.SetLevel(chlog.InfoLevel)
	if verbose {
		charm.SetLevel(chlog.DebugLevel)
	}
	return slog.New(charm)
}

func openLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	return f, nil
}

// logLaunch separates runs in the log file and records what was started.
func logLaunch(logFile io.Writer, logger *slog.Logger) {
	_, _ = fmt.Fprintln(logFile)
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	logger.Info("lidarlog launched", "executable", exe, "version", config.Version, "pid", os.Getpid())
}
