package i2c

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/mklimuk/lidarlog"
)

var ErrSimulatedFault = errors.New("simulated bus fault")

// DistanceFunc produces the next simulated distance in centimeters.
type DistanceFunc func() uint16

// SimulatedBus emulates a single register mapped ranging device: writing the
// acquisition command to the command register latches a new distance which is
// then served big-endian from the distance register.
type SimulatedBus struct {
	mu        sync.Mutex
	address   byte
	command   [2]byte
	distance  [2]byte
	next      DistanceFunc
	faultRate float64
	rnd       *rand.Rand
	latched   uint16
	closed    bool
}

type SimOption func(*SimulatedBus)

// WithDistances replaces the default random walk.
func WithDistances(next DistanceFunc) SimOption {
	return func(b *SimulatedBus) {
		b.next = next
	}
}

// WithFaultRate makes the given fraction of transactions fail.
func WithFaultRate(rate float64) SimOption {
	return func(b *SimulatedBus) {
		b.faultRate = rate
	}
}

func WithSeed(seed int64) SimOption {
	return func(b *SimulatedBus) {
		b.rnd = rand.New(rand.NewSource(seed))
	}
}

// NewSimulatedBus serves address with the trigger (register, value) pair in
// command and a distance read register at distanceReg.
func NewSimulatedBus(address, commandReg, commandValue, distanceReg byte, opts ...SimOption) *SimulatedBus {
	b := &SimulatedBus{
		address:  address,
		command:  [2]byte{commandReg, commandValue},
		distance: [2]byte{distanceReg, 2},
		rnd:      rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.next == nil {
		b.next = b.randomWalk(150)
	}
	return b
}

// SimOpener hands out simulated buses for every bus number.
func SimOpener(address, commandReg, commandValue, distanceReg byte, opts ...SimOption) lidarlog.Opener {
	return func(ctx context.Context, number int) (lidarlog.RegisterBusCloser, error) {
		return NewSimulatedBus(address, commandReg, commandValue, distanceReg, opts...), nil
	}
}

func (b *SimulatedBus) randomWalk(start int) DistanceFunc {
	current := start
	return func() uint16 {
		current += b.rnd.Intn(11) - 5
		if current < 0 {
			current = 0
		}
		return uint16(current)
	}
}

func (b *SimulatedBus) fault() bool {
	return b.faultRate > 0 && b.rnd.Float64() < b.faultRate
}

func (b *SimulatedBus) WriteRegister(ctx context.Context, address, register, value byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(address); err != nil {
		return err
	}
	if b.fault() {
		return ErrSimulatedFault
	}
	if register == b.command[0] && value == b.command[1] {
		b.latched = b.next()
	}
	return nil
}

func (b *SimulatedBus) ReadRegisters(ctx context.Context, address, register byte, buffer []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(address); err != nil {
		return err
	}
	if b.fault() {
		return ErrSimulatedFault
	}
	if register != b.distance[0] || len(buffer) != int(b.distance[1]) {
		return fmt.Errorf("simulated device has no %d byte register %#x", len(buffer), register)
	}
	buffer[0] = byte(b.latched >> 8)
	buffer[1] = byte(b.latched)
	return nil
}

func (b *SimulatedBus) check(address byte) error {
	if b.closed {
		return errors.New("simulated bus closed")
	}
	if address != b.address {
		return fmt.Errorf("no device at %#x", address)
	}
	return nil
}

func (b *SimulatedBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
