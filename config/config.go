package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/lidarlog/ranging"
	"github.com/mklimuk/lidarlog/recorder"
)

// Version is injected at build time.
var Version = "dev"

const (
	AdapterPeriph  = "periph"
	AdapterGobot   = "gobot"
	AdapterMCP2221 = "mcp2221"
	AdapterSim     = "sim"
)

// Forever is the timeout_seconds value for an unbounded session.
const Forever = -1

type MQTTConfig struct {
	Server   string `yaml:"server"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
}

type Config struct {
	Adapter        string      `yaml:"adapter"`
	Bus            int         `yaml:"bus"`
	Address        int         `yaml:"address"`
	SpeedKHz       int         `yaml:"speed_khz"`
	SettleDelayMs  int         `yaml:"settle_delay_ms"`
	TimeoutSeconds int         `yaml:"timeout_seconds"`
	Iterations     int         `yaml:"iterations"`
	DataFile       string      `yaml:"data_file"`
	LogFile        string      `yaml:"log_file"`
	Verbose        bool        `yaml:"verbose"`
	MQTT           *MQTTConfig `yaml:"mqtt,omitempty"`
}

func Default() Config {
	return Config{
		Adapter:        AdapterPeriph,
		Bus:            1,
		Address:        0x62,
		TimeoutSeconds: Forever,
		Iterations:     recorder.DefaultProbeIterations,
		DataFile:       "lidar.csv",
		LogFile:        "bicycleinit.log",
	}
}

// Load reads a YAML file over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Adapter {
	case AdapterPeriph, AdapterGobot, AdapterMCP2221, AdapterSim:
	default:
		errs = append(errs, fmt.Errorf("unknown adapter %q", c.Adapter))
	}
	if c.Bus < 0 {
		errs = append(errs, fmt.Errorf("bus must be >= 0, got %d", c.Bus))
	}
	if c.Address < 0x03 || c.Address > 0x77 {
		errs = append(errs, fmt.Errorf("address %#x is not a valid 7-bit device address", c.Address))
	}
	if c.TimeoutSeconds < Forever {
		errs = append(errs, fmt.Errorf("timeout_seconds must be >= 0 or %d for forever, got %d", Forever, c.TimeoutSeconds))
	}
	if c.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("iterations must be > 0, got %d", c.Iterations))
	}
	if c.SpeedKHz < 0 {
		errs = append(errs, fmt.Errorf("speed_khz must be >= 0, got %d", c.SpeedKHz))
	}
	if c.SettleDelayMs < 0 {
		errs = append(errs, fmt.Errorf("settle_delay_ms must be >= 0, got %d", c.SettleDelayMs))
	}
	if c.MQTT != nil && c.MQTT.Server == "" {
		errs = append(errs, errors.New("mqtt.server is required when mqtt is configured"))
	}
	return errors.Join(errs...)
}

// Session converts the configuration into recorder session parameters.
func (c Config) Session() recorder.Session {
	return recorder.Session{
		Bus:     c.Bus,
		Address: byte(c.Address),
		Timeout: c.Timeout(),
	}
}

func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds < 0 {
		return recorder.Unbounded
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SettleDelay is the configured wait between sensor transactions. Zero and
// values under the hardware minimum yield ranging.SettleDelay.
func (c Config) SettleDelay() time.Duration {
	d := time.Duration(c.SettleDelayMs) * time.Millisecond
	if d < ranging.SettleDelay {
		return ranging.SettleDelay
	}
	return d
}

// RecorderOptions carries the driver tuning into a recorder.
func (c Config) RecorderOptions() []recorder.Option {
	return []recorder.Option{
		recorder.WithDriverOptions(ranging.WithSettleDelay(c.SettleDelay())),
	}
}
