package ranging

import (
	"context"
	"log/slog"
	"time"

	"github.com/mklimuk/lidarlog"
)

// LIDAR-Lite v3 register map (7-bit address 0x62). Reads of the two byte
// distance go through the high byte register with the auto-increment bit set.
const (
	DefaultAddress = 0x62

	RegAcqCommand   byte = 0x00
	CmdMeasure      byte = 0x04
	regDistanceHigh byte = 0x0f
	regDistanceLow  byte = 0x10
	autoIncrement   byte = 0x80

	RegDistance = regDistanceHigh | autoIncrement
)

// SettleDelay is the minimum wait after any transaction before the device
// accepts the next command.
const SettleDelay = 20 * time.Millisecond

// Ranger returns a single distance measurement in centimeters.
type Ranger interface {
	GetDistance(ctx context.Context) (uint16, error)
}

type LidarLiteConfig struct {
	Address     byte
	SettleDelay time.Duration
	Logger      *slog.Logger
}

type Option func(*LidarLiteConfig)

func WithAddress(address byte) Option {
	return func(c *LidarLiteConfig) {
		c.Address = address
	}
}

// WithSettleDelay lengthens the inter-transaction wait. Values below SettleDelay are ignored.
func WithSettleDelay(delay time.Duration) Option {
	return func(c *LidarLiteConfig) {
		if delay > SettleDelay {
			c.SettleDelay = delay
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *LidarLiteConfig) {
		c.Logger = logger
	}
}

// LidarLite represents Garmin LIDAR-Lite v3 optical distance sensor.
// Typical usage:
//
//	s := NewLidarLite(bus)
//	cm, err := s.GetDistance(ctx)
//
// The driver never retries; a failed transaction is returned as *lidarlog.TransactionError.
type LidarLite struct {
	transport lidarlog.RegisterBus
	config    LidarLiteConfig
	buf       []byte
}

func NewLidarLite(transport lidarlog.RegisterBus, opts ...Option) *LidarLite {
	config := LidarLiteConfig{
		Address:     DefaultAddress,
		SettleDelay: SettleDelay,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &LidarLite{
		transport: transport,
		config:    config,
		buf:       make([]byte, 2),
	}
}

func (s *LidarLite) Address() byte {
	return s.config.Address
}

// Trigger starts an acquisition and waits for the device to settle.
func (s *LidarLite) Trigger(ctx context.Context) error {
	err := s.transport.WriteRegister(ctx, s.config.Address, RegAcqCommand, CmdMeasure)
	if err != nil {
		return &lidarlog.TransactionError{Op: "trigger", Address: s.config.Address, Register: RegAcqCommand, Err: err}
	}
	return s.settle(ctx)
}

// ReadDistance reads the big-endian distance in centimeters and waits for the device to settle.
func (s *LidarLite) ReadDistance(ctx context.Context) (uint16, error) {
	err := s.transport.ReadRegisters(ctx, s.config.Address, RegDistance, s.buf)
	if err != nil {
		return 0, &lidarlog.TransactionError{Op: "read distance", Address: s.config.Address, Register: RegDistance, Err: err}
	}
	distance := uint16(s.buf[0])<<8 | uint16(s.buf[1])
	s.config.Logger.Debug("lidar-lite distance read", "high", s.buf[0], "low", s.buf[1], "cm", distance)
	if err := s.settle(ctx); err != nil {
		return 0, err
	}
	return distance, nil
}

func (s *LidarLite) GetDistance(ctx context.Context) (uint16, error) {
	if err := s.Trigger(ctx); err != nil {
		return 0, err
	}
	return s.ReadDistance(ctx)
}

func (s *LidarLite) settle(ctx context.Context) error {
	timer := time.NewTimer(s.config.SettleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
