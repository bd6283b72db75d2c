package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lidarlog/cmd/lidarlog/console"
	"github.com/mklimuk/lidarlog/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := newApp().Run(os.Args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			_, _ = fmt.Fprintln(os.Stderr, err)
			return exerr.ExitCode()
		}
		_, _ = fmt.Fprintf(os.Stderr, "unexpected error: %v\n", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "lidarlog"
	app.EnableBashCompletion = true
	app.Version = config.Version
	app.Usage = "record LIDAR-Lite distance readings to CSV"
	app.Metadata = map[string]interface{}{}
	app.Flags = append(append([]cli.Flag{}, globalFlags...), sessionFlags...)
	// exit codes are resolved in run so tests can drive the app in-process
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Before = func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Exit(1, "invalid configuration: %s", console.Red(err))
		}
		console.SetOutput(c.App.Writer)
		c.App.Metadata[metaConfig] = cfg
		c.App.Metadata[metaLogger] = newLogger(c.App.Writer, cfg.Verbose, termenv.TrueColor)
		return nil
	}
	app.Action = runStream
	app.Commands = cli.Commands{
		&streamCmd,
		&probeCmd,
		&adapterCmd,
		&usbCmd,
	}
	return app
}
