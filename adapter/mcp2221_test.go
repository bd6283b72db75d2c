package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferToStatus(t *testing.T) {
	buf := make([]byte, reportSize)
	buf[9], buf[10] = 0x02, 0x00
	buf[11], buf[12] = 0x01, 0x00
	buf[13] = 3
	buf[14] = 0x76
	buf[15] = 9
	buf[16], buf[17] = 0xc4, 0x00
	buf[25] = 1

	status := bufferToStatus(buf)
	assert.Equal(t, &MCP2221Status{
		I2CDataBufferCounter:   3,
		I2CSpeedDivider:        0x76,
		I2CTimeout:             9,
		CurrentAddress:         "c400",
		LastWriteRequestedSize: 2,
		LastWriteSentSize:      1,
		ReadPending:            1,
	}, status)
}

func TestDecodeReadData(t *testing.T) {
	tests := []struct {
		name     string
		response func([]byte)
		size     int
		expected []byte
		errMsg   string
	}{
		{
			name: "distance bytes",
			response: func(r []byte) {
				r[3] = 2
				r[4], r[5] = 0x01, 0x2c
			},
			size:     2,
			expected: []byte{0x01, 0x2c},
		},
		{
			name:     "engine error",
			response: func(r []byte) { r[1] = i2cReadError },
			size:     2,
			errMsg:   "error reading the I2C slave data from the I2C engine",
		},
		{
			name:     "invalid length marker",
			response: func(r []byte) { r[3] = invalidDataLength },
			size:     2,
			errMsg:   "invalid data size byte; expected 2, got 127",
		},
		{
			name:     "short data",
			response: func(r []byte) { r[3] = 1 },
			size:     2,
			errMsg:   "invalid data size byte; expected 2, got 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := make([]byte, reportSize)
			tt.response(response)
			buf := make([]byte, tt.size)
			err := decodeReadData(response, buf)
			if tt.errMsg != "" {
				assert.EqualError(t, err, tt.errMsg)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, buf)
		})
	}
}

func TestResetBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	resetBuffer(buf)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}
