package i2c

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/mklimuk/lidarlog"
)

var _ lidarlog.I2CBus = &GenericBus{}
var _ lidarlog.RegisterBusCloser = &GenericBus{}

// GenericBus is a Linux i2c-dev bus driven through periph.
type GenericBus struct {
	bus i2c.BusCloser
}

func NewGenericBus(dev string, logger *slog.Logger) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		logger.Debug("host driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return &GenericBus{
		bus: bus,
	}, nil
}

// GenericOpener opens numbered buses with periph, optionally forcing the bus clock.
func GenericOpener(logger *slog.Logger, speed physic.Frequency) lidarlog.Opener {
	return func(ctx context.Context, number int) (lidarlog.RegisterBusCloser, error) {
		bus, err := NewGenericBus(strconv.Itoa(number), logger)
		if err != nil {
			return nil, &lidarlog.BusOpenError{Bus: number, Err: err}
		}
		if speed > 0 {
			if err := bus.SetSpeed(speed); err != nil {
				_ = bus.Close()
				return nil, &lidarlog.BusOpenError{Bus: number, Err: err}
			}
		}
		return bus, nil
	}
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) WriteRegister(ctx context.Context, address, register, value byte) error {
	err := b.bus.Tx(uint16(address), []byte{register, value}, nil)
	if err != nil {
		return fmt.Errorf("could not write register %#x on %x: %w", register, address, err)
	}
	return nil
}

// ReadRegisters uses a combined write/read transaction (repeated start).
func (b *GenericBus) ReadRegisters(ctx context.Context, address, register byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), []byte{register}, buffer)
	if err != nil {
		return fmt.Errorf("could not read register %#x on %x: %w", register, address, err)
	}
	return nil
}

func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	return b.bus.SetSpeed(f)
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}
