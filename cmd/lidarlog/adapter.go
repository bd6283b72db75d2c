package main

import (
	"context"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/lidarlog/adapter"
	"github.com/mklimuk/lidarlog/cmd/lidarlog/console"
	"github.com/mklimuk/lidarlog/snsctx"
)

var traceFlag = &cli.BoolFlag{
	Name:  "trace",
	Usage: "dump raw HID reports",
}

var adapterCmd = cli.Command{
	Name:  "adapter",
	Usage: "inspect the MCP2221 USB bridge",
	Subcommands: cli.Commands{
		&adapterStatusCmd,
		&adapterReleaseCmd,
	},
}

var adapterStatusCmd = cli.Command{
	Name:  "status",
	Flags: []cli.Flag{traceFlag},
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221(appLogger(c))
		status, err := a.Status(adapterContext(c))
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printYAML(c, status)
	},
}

var adapterReleaseCmd = cli.Command{
	Name:  "release",
	Flags: []cli.Flag{traceFlag},
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221(appLogger(c))
		status, err := a.ReleaseBus(adapterContext(c))
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return printYAML(c, status)
	},
}

func adapterContext(c *cli.Context) context.Context {
	return snsctx.SetTracing(c.Context, c.Bool("trace"))
}

func printYAML(c *cli.Context, v any) error {
	enc := yaml.NewEncoder(c.App.Writer)
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(v); err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}
