package main

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lidarlog/cmd/lidarlog/console"
	"github.com/mklimuk/lidarlog/recorder"
	"github.com/mklimuk/lidarlog/sink"
	"github.com/mklimuk/lidarlog/snsctx"
)

var streamCmd = cli.Command{
	Name:   "stream",
	Usage:  "record a timed session to the data file (default)",
	Action: runStream,
}

func runStream(c *cli.Context) error {
	cfg := appConfig(c)
	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		return console.Exit(1, "%s", console.Red(err))
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(io.MultiWriter(c.App.Writer, logFile), cfg.Verbose, termenv.Ascii)
	logLaunch(logFile, logger)

	if c.Bool("confirm") {
		overwrite, err := confirmOverwrite(cfg.DataFile)
		if err != nil {
			return console.Exit(1, "could not read answer: %s", console.Red(err))
		}
		if !overwrite {
			console.PInfof(console.PictoStop, "keeping existing data file %s", cfg.DataFile)
			return nil
		}
	}

	data, err := sink.CreateCSV(cfg.DataFile)
	if err != nil {
		logger.Error("could not open data file", "path", cfg.DataFile, "error", err)
		return console.Exit(1, "%s", console.Red(err))
	}
	out := sink.Multi{data}
	if cfg.MQTT != nil {
		// recording to disk goes on without the broker
		pub, err := sink.NewMQTT(mqttConfig(cfg.MQTT))
		if err != nil {
			logger.Warn("mqtt sink disabled", "server", cfg.MQTT.Server, "error", err)
		} else {
			out = append(out, pub)
		}
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Error("could not close sinks", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = snsctx.SetTracing(ctx, cfg.Verbose)

	rec := recorder.New(openerFor(cfg, logger), logger, cfg.RecorderOptions()...)
	summary, err := rec.Stream(ctx, cfg.Session(), out)
	if err != nil {
		// already logged by the recorder; a missing sensor is not a process failure
		return nil
	}
	console.PInfof(console.PictoNotebook, "%s readings written to %s", console.Green(summary.Taken), cfg.DataFile)
	return nil
}

// confirmOverwrite asks before truncating an existing data file.
func confirmOverwrite(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	answer, err := console.YesOrNo("data file " + path + " exists, overwrite?")
	if err != nil {
		return false, err
	}
	return answer == console.Yes, nil
}
