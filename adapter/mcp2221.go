package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/lidarlog"
	"github.com/mklimuk/lidarlog/snsctx"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

// HID report command codes
const (
	cmdStatusSetParams byte = 0x10
	cmdI2CWriteData    byte = 0x90
	cmdI2CReadData     byte = 0x91
	cmdI2CGetData      byte = 0x40

	cancelTransfer    byte = 0x10
	i2cEngineBusy     byte = 0x01
	i2cReadError      byte = 0x41
	invalidDataLength byte = 127
	reportSize             = 64
)

var ErrDeviceNotFound = errors.New("MCP2221 device not found")

var _ lidarlog.I2CBus = &MCP2221{}

// MCP2221 is a USB to I2C bridge driven over HID reports.
type MCP2221 struct {
	mx           sync.Mutex
	logger       *slog.Logger
	request      []byte
	response     []byte
	responseWait time.Duration
}

type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

func NewMCP2221(logger *slog.Logger) *MCP2221 {
	return &MCP2221{
		logger:       logger,
		request:      make([]byte, reportSize),
		response:     make([]byte, reportSize),
		responseWait: 50 * time.Millisecond,
	}
}

// Init checks that exactly one adapter is attached.
func (d *MCP2221) Init() error {
	devs := hid.Enumerate(VendorID, ProductID)
	switch {
	case len(devs) == 0:
		return ErrDeviceNotFound
	case len(devs) > 1:
		return fmt.Errorf("ambiguous device identification: %d adapters attached", len(devs))
	}
	return nil
}

// Opener returns an opener serving the MCP2221 behind a register adapter. The
// bus number is ignored since the bridge exposes a single bus.
func Opener(logger *slog.Logger) lidarlog.Opener {
	return func(ctx context.Context, number int) (lidarlog.RegisterBusCloser, error) {
		d := NewMCP2221(logger)
		if err := d.Init(); err != nil {
			return nil, &lidarlog.BusOpenError{Bus: number, Err: err}
		}
		return &registerBus{RegisterBus: lidarlog.Registers(d), dev: d}, nil
	}
}

type registerBus struct {
	lidarlog.RegisterBus
	dev *MCP2221
}

// Close cancels any pending transfer so the next session starts from an idle engine.
func (b *registerBus) Close() error {
	return b.dev.Release(context.Background())
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CWriteData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	if len(buffer) > 0 {
		copy(d.request[4:], buffer)
	}
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("write to %x failed: %w", address, err)
	}
	if d.response[1] == i2cEngineBusy {
		d.logger.Debug("adapter busy")
		return lidarlog.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CReadData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	d.request[0] = cmdI2CGetData
	resetBuffer(d.response)
	err = d.send(ctx)
	if err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	return decodeReadData(d.response, buffer)
}

func decodeReadData(response, buffer []byte) error {
	if response[1] == i2cReadError {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine")
	}
	if response[3] == invalidDataLength || int(response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d", len(buffer), response[3])
	}
	copy(buffer, response[4:])
	return nil
}

func (d *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	/*
		9: Lower byte (16-bit value) of the requested I2C transfer length
		10: Higher byte (16-bit value) of the requested I2C transfer length
		11:	Lower byte (16-bit value) of the already transferred (through I2C) number of bytes
		12:	Higher byte (16-bit value) of the already transferred (through I2C) number of bytes
		13:	Internal I2C data buffer counter
		14: Current I2C communication speed divider value
		15: Current I2C timeout value
		16:	Lower byte (16-bit value) of the I2C address being used
		17:	Higher byte (16-bit value) of the I2C address being used
	*/
	status := &MCP2221Status{
		I2CDataBufferCounter: int(buffer[13]),
		I2CSpeedDivider:      int(buffer[14]),
		I2CTimeout:           int(buffer[15]),
		ReadPending:          int(buffer[25]),
		CurrentAddress:       hex.EncodeToString(buffer[16:18]),
	}
	status.LastWriteRequestedSize = binary.LittleEndian.Uint16(buffer[9:11])
	status.LastWriteSentSize = binary.LittleEndian.Uint16(buffer[11:13])
	return status
}

func (d *MCP2221) Release(ctx context.Context) error {
	_, err := d.ReleaseBus(ctx)
	return err
}

// ReleaseBus cancels the current transfer and frees the I2C engine.
func (d *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[2] = cancelTransfer
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("release request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func (d *MCP2221) send(ctx context.Context) error {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) == 0 {
		return ErrDeviceNotFound
	}
	if len(devs) > 1 {
		return fmt.Errorf("ambiguous device identification")
	}
	dev, err := devs[0].Open()
	if err != nil {
		return fmt.Errorf("error opening device: %w", err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			d.logger.Warn("error closing adapter", "error", err)
		}
	}()
	trace := snsctx.IsTracing(ctx)
	if trace {
		d.logger.Debug("sending message to adapter", "report", hex.EncodeToString(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short write: %d", n)
	}
	timer := time.NewTimer(d.responseWait)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	}
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short read: %d", n)
	}
	if trace {
		d.logger.Debug("read message from adapter", "report", hex.EncodeToString(d.response))
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	resetBuffer(d.request)
	resetBuffer(d.response)
}

func resetBuffer(buf []byte) {
	for i := range buf {
		buf[i] = 0x00
	}
}
