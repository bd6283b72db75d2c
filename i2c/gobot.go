package i2c

import (
	"context"
	"fmt"
	"io"
	"sync"

	gobotI2C "gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/raspi"

	"github.com/mklimuk/lidarlog"
)

var _ lidarlog.I2CBus = &GobotBus{}
var _ lidarlog.RegisterBusCloser = &GobotBus{}

// registerConn is the part of a gobot i2c.Connection the bus relies on.
type registerConn interface {
	io.ReadWriteCloser
	WriteByteData(reg uint8, val uint8) error
	ReadBlockData(reg uint8, b []byte) error
}

type dialFunc func(address int, bus int) (registerConn, error)

// GobotBus talks to devices through a gobot i2c.Connector. One connection is
// kept per device address for the lifetime of the bus.
type GobotBus struct {
	mx       sync.Mutex
	number   int
	dial     dialFunc
	conns    map[byte]registerConn
	finalize func() error
}

func NewGobotBus(connector gobotI2C.Connector, number int) *GobotBus {
	return &GobotBus{
		number: number,
		dial: func(address int, bus int) (registerConn, error) {
			c, err := connector.GetI2cConnection(address, bus)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		conns: make(map[byte]registerConn),
	}
}

// RaspiOpener opens the numbered bus on a Raspberry Pi through the gobot raspi adaptor.
func RaspiOpener() lidarlog.Opener {
	return func(ctx context.Context, number int) (lidarlog.RegisterBusCloser, error) {
		adaptor := raspi.NewAdaptor()
		if err := adaptor.Connect(); err != nil {
			return nil, &lidarlog.BusOpenError{Bus: number, Err: fmt.Errorf("adaptor connect error: %w", err)}
		}
		bus := NewGobotBus(adaptor, number)
		bus.finalize = adaptor.Finalize
		// the device is addressed lazily, so probe the bus now to surface a bad bus number
		if _, err := bus.conn(0x00); err != nil {
			_ = bus.Close()
			return nil, &lidarlog.BusOpenError{Bus: number, Err: err}
		}
		return bus, nil
	}
}

func (b *GobotBus) conn(address byte) (registerConn, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	if c, ok := b.conns[address]; ok {
		return c, nil
	}
	c, err := b.dial(int(address), b.number)
	if err != nil {
		return nil, fmt.Errorf("could not get i2c connection %x on bus %d: %w", address, b.number, err)
	}
	b.conns[address] = c
	return c, nil
}

func (b *GobotBus) WriteRegister(ctx context.Context, address, register, value byte) error {
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	if err := c.WriteByteData(register, value); err != nil {
		return fmt.Errorf("could not write register %#x on %x: %w", register, address, err)
	}
	return nil
}

func (b *GobotBus) ReadRegisters(ctx context.Context, address, register byte, buffer []byte) error {
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	if err := c.ReadBlockData(register, buffer); err != nil {
		return fmt.Errorf("could not read register %#x on %x: %w", register, address, err)
	}
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	if _, err := c.Write(buffer); err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	if _, err := io.ReadFull(c, buffer); err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

// Close closes every device connection and finalizes the adaptor if the bus owns it.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for addr, c := range b.conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not close connection %x: %w", addr, err)
		}
		delete(b.conns, addr)
	}
	if b.finalize != nil {
		if err := b.finalize(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not finalize adaptor: %w", err)
		}
	}
	return firstErr
}
