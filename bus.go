package lidarlog

import (
	"context"
	"fmt"
	"io"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus moves raw bytes to and from an addressed device.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// RegisterBus is the SMBus style contract used by register mapped devices:
// a single byte written to a register and a block read starting at a register.
type RegisterBus interface {
	WriteRegister(ctx context.Context, address, register, value byte) error
	ReadRegisters(ctx context.Context, address, register byte, buffer []byte) error
}

// RegisterBusCloser is a bus handle owned by a single session.
type RegisterBusCloser interface {
	RegisterBus
	io.Closer
}

// Opener opens the numbered bus.
type Opener func(ctx context.Context, bus int) (RegisterBusCloser, error)

// Registers adapts a raw I2CBus to RegisterBus. A block read is issued as a
// register pointer write followed by a separate read.
func Registers(bus I2CBus) RegisterBus {
	return &registers{bus: bus}
}

type registers struct {
	bus I2CBus
}

func (r *registers) WriteRegister(ctx context.Context, address, register, value byte) error {
	return r.bus.WriteToAddr(ctx, address, []byte{register, value})
}

func (r *registers) ReadRegisters(ctx context.Context, address, register byte, buffer []byte) error {
	err := r.bus.WriteToAddr(ctx, address, []byte{register})
	if err != nil {
		return fmt.Errorf("could not set register pointer %#x: %w", register, err)
	}
	return r.bus.ReadFromAddr(ctx, address, buffer)
}
