package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHardwareEnv(t *testing.T) {
	assert.Equal(t, map[string]string{
		"LIDARLOG_IT_ADAPTER": "mcp2221",
		"LIDARLOG_IT_BUS":     "0",
	}, hardwareEnv("mcp2221", 0))
}

func TestIntegrationTestCmdFlags(t *testing.T) {
	cmd := IntegrationTestCmd()
	adapter, err := cmd.Flags().GetString("adapter")
	assert.NoError(t, err)
	assert.Equal(t, "periph", adapter)
	bus, err := cmd.Flags().GetInt("bus")
	assert.NoError(t, err)
	assert.Equal(t, 1, bus)
}
