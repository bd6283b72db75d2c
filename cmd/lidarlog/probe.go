package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lidarlog/cmd/lidarlog/console"
	"github.com/mklimuk/lidarlog/recorder"
	"github.com/mklimuk/lidarlog/sink"
	"github.com/mklimuk/lidarlog/snsctx"
)

var probeCmd = cli.Command{
	Name:  "probe",
	Usage: "print a fixed number of readings to check the sensor",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "iterations",
			Aliases: []string{"n"},
			Usage:   "number of readings",
			EnvVars: []string{"LIDARLOG_ITERATIONS"},
		},
	},
	Action: func(c *cli.Context) error {
		cfg := appConfig(c)
		logger := appLogger(c)
		iterations := cfg.Iterations
		if c.IsSet("iterations") {
			iterations = c.Int("iterations")
		}
		if iterations <= 0 {
			return console.Exit(1, "iterations must be > 0, got %d", iterations)
		}

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = snsctx.SetTracing(ctx, cfg.Verbose)

		rec := recorder.New(openerFor(cfg, logger), logger, cfg.RecorderOptions()...)
		summary, err := rec.Probe(ctx, cfg.Session(), iterations, sink.NewConsole(c.App.Writer))
		if err != nil {
			return console.Exit(1, "probe failed after %d readings: %s", summary.Taken, console.Red(err))
		}
		console.PInfof(console.PictoFinish, "%d readings in %s", summary.Taken, summary.Elapsed.Round(time.Millisecond))
		return nil
	},
}
