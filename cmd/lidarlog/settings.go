package main

import (
	"log/slog"

	"github.com/urfave/cli/v2"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/lidarlog"
	"github.com/mklimuk/lidarlog/adapter"
	"github.com/mklimuk/lidarlog/config"
	"github.com/mklimuk/lidarlog/i2c"
	"github.com/mklimuk/lidarlog/ranging"
	"github.com/mklimuk/lidarlog/sink"
)

const (
	metaConfig = "config"
	metaLogger = "logger"
)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML configuration file",
		EnvVars: []string{"LIDARLOG_CONFIG"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "enable verbose logging",
		EnvVars: []string{"LIDARLOG_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "log file the session log is appended to",
		EnvVars: []string{"LIDARLOG_LOG_FILE"},
	},
}

var sessionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Usage:   "bus adapter: periph, gobot, mcp2221 or sim",
		EnvVars: []string{"LIDARLOG_ADAPTER"},
	},
	&cli.IntFlag{
		Name:    "bus",
		Usage:   "i2c bus number",
		EnvVars: []string{"LIDARLOG_BUS"},
	},
	&cli.IntFlag{
		Name:    "address",
		Usage:   "7-bit sensor address, hex accepted (0x62)",
		EnvVars: []string{"LIDARLOG_ADDRESS"},
	},
	&cli.IntFlag{
		Name:    "speed-khz",
		Usage:   "force the i2c bus clock (periph adapter only)",
		EnvVars: []string{"LIDARLOG_SPEED_KHZ"},
	},
	&cli.IntFlag{
		Name:    "settle-delay",
		Usage:   "milliseconds to wait after each sensor transaction, 20 is the minimum",
		EnvVars: []string{"LIDARLOG_SETTLE_DELAY"},
	},
	&cli.IntFlag{
		Name:    "timeout",
		Aliases: []string{"t"},
		Usage:   "session length in seconds, -1 runs until interrupted",
		EnvVars: []string{"LIDARLOG_TIMEOUT"},
	},
	&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "CSV data file, truncated at session start",
		EnvVars: []string{"LIDARLOG_OUTPUT"},
	},
	&cli.StringFlag{
		Name:    "mqtt-server",
		Usage:   "publish readings to this MQTT broker",
		EnvVars: []string{"LIDARLOG_MQTT_SERVER"},
	},
	&cli.StringFlag{
		Name:    "mqtt-topic",
		Usage:   "MQTT topic for readings",
		EnvVars: []string{"LIDARLOG_MQTT_TOPIC"},
	},
	&cli.BoolFlag{
		Name:  "confirm",
		Usage: "ask before overwriting an existing data file",
	},
}

// loadConfig layers command line flags over the optional config file.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("verbose") {
		cfg.Verbose = c.Bool("verbose")
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("bus") {
		cfg.Bus = c.Int("bus")
	}
	if c.IsSet("address") {
		cfg.Address = c.Int("address")
	}
	if c.IsSet("speed-khz") {
		cfg.SpeedKHz = c.Int("speed-khz")
	}
	if c.IsSet("settle-delay") {
		cfg.SettleDelayMs = c.Int("settle-delay")
	}
	if c.IsSet("timeout") {
		cfg.TimeoutSeconds = c.Int("timeout")
	}
	if c.IsSet("output") {
		cfg.DataFile = c.String("output")
	}
	if c.IsSet("mqtt-server") || c.IsSet("mqtt-topic") {
		if cfg.MQTT == nil {
			cfg.MQTT = &config.MQTTConfig{}
		}
		if c.IsSet("mqtt-server") {
			cfg.MQTT.Server = c.String("mqtt-server")
		}
		if c.IsSet("mqtt-topic") {
			cfg.MQTT.Topic = c.String("mqtt-topic")
		}
	}
	return cfg, cfg.Validate()
}

func appConfig(c *cli.Context) config.Config {
	cfg, _ := c.App.Metadata[metaConfig].(config.Config)
	return cfg
}

func appLogger(c *cli.Context) *slog.Logger {
	if logger, ok := c.App.Metadata[metaLogger].(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func openerFor(cfg config.Config, logger *slog.Logger) lidarlog.Opener {
	switch cfg.Adapter {
	case config.AdapterGobot:
		return i2c.RaspiOpener()
	case config.AdapterMCP2221:
		return adapter.Opener(logger)
	case config.AdapterSim:
		return i2c.SimOpener(byte(cfg.Address), ranging.RegAcqCommand, ranging.CmdMeasure, ranging.RegDistance)
	default:
		return i2c.GenericOpener(logger, physic.Frequency(cfg.SpeedKHz)*physic.KiloHertz)
	}
}

func mqttConfig(cfg *config.MQTTConfig) sink.MQTTConfig {
	return sink.MQTTConfig{
		Server:   cfg.Server,
		ClientID: cfg.ClientID,
		Username: cfg.Username,
		Password: cfg.Password,
		Topic:    cfg.Topic,
	}
}
