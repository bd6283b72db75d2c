package ranging

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/lidarlog"
)

// MockRegisterBus is a mock implementation of lidarlog.RegisterBus using testify/mock
type MockRegisterBus struct {
	mock.Mock
}

func (m *MockRegisterBus) WriteRegister(ctx context.Context, address, register, value byte) error {
	args := m.Called(ctx, address, register, value)
	return args.Error(0)
}

func (m *MockRegisterBus) ReadRegisters(ctx context.Context, address, register byte, buffer []byte) error {
	args := m.Called(ctx, address, register, buffer)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
		copy(buffer, data)
	}
	return args.Error(1)
}

func TestLidarLite_GetDistance(t *testing.T) {
	tests := []struct {
		given    []byte
		expected uint16
	}{
		{[]byte{0x00, 0x64}, 100},
		{[]byte{0x01, 0x2c}, 300},
		{[]byte{0x00, 0x00}, 0},
		{[]byte{0xff, 0xff}, 65535},
		{[]byte{0x12, 0x34}, 0x1234},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.given), func(t *testing.T) {
			bus := new(MockRegisterBus)
			bus.On("WriteRegister", mock.Anything, byte(0x62), byte(0x00), byte(0x04)).Return(nil).Once()
			bus.On("ReadRegisters", mock.Anything, byte(0x62), byte(0x8f), mock.Anything).Return(test.given, nil).Once()

			sensor := NewLidarLite(bus)
			cm, err := sensor.GetDistance(context.Background())
			require.NoError(t, err)
			assert.Equal(t, test.expected, cm)
			bus.AssertExpectations(t)
		})
	}
}

func TestLidarLite_TransactionOrderAndSettle(t *testing.T) {
	bus := new(MockRegisterBus)
	var triggeredAt, readAt time.Time
	bus.On("WriteRegister", mock.Anything, byte(0x62), byte(0x00), byte(0x04)).
		Run(func(mock.Arguments) { triggeredAt = time.Now() }).Return(nil).Once()
	bus.On("ReadRegisters", mock.Anything, byte(0x62), byte(0x8f), mock.Anything).
		Run(func(mock.Arguments) { readAt = time.Now() }).Return([]byte{0x00, 0x64}, nil).Once()

	sensor := NewLidarLite(bus)
	start := time.Now()
	_, err := sensor.GetDistance(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, readAt.Sub(triggeredAt), SettleDelay, "read must wait for the trigger to settle")
	assert.GreaterOrEqual(t, time.Since(start), 2*SettleDelay, "read must be followed by a settle delay")
}

func TestLidarLite_CustomAddress(t *testing.T) {
	bus := new(MockRegisterBus)
	bus.On("WriteRegister", mock.Anything, byte(0x42), byte(0x00), byte(0x04)).Return(nil).Once()
	bus.On("ReadRegisters", mock.Anything, byte(0x42), byte(0x8f), mock.Anything).Return([]byte{0x00, 0x0a}, nil).Once()

	sensor := NewLidarLite(bus, WithAddress(0x42))
	cm, err := sensor.GetDistance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint16(10), cm)
	assert.Equal(t, byte(0x42), sensor.Address())
}

func TestLidarLite_SettleDelayFloor(t *testing.T) {
	sensor := NewLidarLite(new(MockRegisterBus), WithSettleDelay(time.Millisecond))
	assert.Equal(t, SettleDelay, sensor.config.SettleDelay)

	sensor = NewLidarLite(new(MockRegisterBus), WithSettleDelay(50*time.Millisecond))
	assert.Equal(t, 50*time.Millisecond, sensor.config.SettleDelay)
}

func TestLidarLite_Errors(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockRegisterBus)
		expectedOp    string
		expectedError string
	}{
		{
			name: "trigger fails",
			setupMock: func(bus *MockRegisterBus) {
				bus.On("WriteRegister", mock.Anything, byte(0x62), byte(0x00), byte(0x04)).
					Return(errors.New("remote i/o error")).Once()
			},
			expectedOp:    "trigger",
			expectedError: "trigger at 0x62 register 0x0 failed: remote i/o error",
		},
		{
			name: "read fails",
			setupMock: func(bus *MockRegisterBus) {
				bus.On("WriteRegister", mock.Anything, byte(0x62), byte(0x00), byte(0x04)).Return(nil).Once()
				bus.On("ReadRegisters", mock.Anything, byte(0x62), byte(0x8f), mock.Anything).
					Return(nil, errors.New("nack")).Once()
			},
			expectedOp:    "read distance",
			expectedError: "read distance at 0x62 register 0x8f failed: nack",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockRegisterBus)
			tt.setupMock(bus)

			_, err := NewLidarLite(bus).GetDistance(context.Background())
			var txErr *lidarlog.TransactionError
			require.ErrorAs(t, err, &txErr)
			assert.Equal(t, tt.expectedOp, txErr.Op)
			assert.EqualError(t, err, tt.expectedError)
			bus.AssertExpectations(t)
		})
	}
}

func TestLidarLite_CancelledDuringSettle(t *testing.T) {
	bus := new(MockRegisterBus)
	ctx, cancel := context.WithCancel(context.Background())
	bus.On("WriteRegister", mock.Anything, byte(0x62), byte(0x00), byte(0x04)).
		Run(func(mock.Arguments) { cancel() }).Return(nil).Once()

	_, err := NewLidarLite(bus).GetDistance(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	bus.AssertNotCalled(t, "ReadRegisters", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMockRanger(t *testing.T) {
	calls := 0
	sensor := NewMockRanger(func(ctx context.Context) (uint16, error) {
		calls++
		if calls == 2 {
			return 0, errors.New("sensor malfunction")
		}
		return uint16(calls * 100), nil
	})
	ctx := context.Background()

	cm, err := sensor.GetDistance(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint16(100), cm)

	_, err = sensor.GetDistance(ctx)
	assert.EqualError(t, err, "sensor malfunction")

	cm, err = sensor.GetDistance(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint16(300), cm)
}
