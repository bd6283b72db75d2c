package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

// Environment read by the hardware suites in cmd/lidarlog.
const (
	envHardwareAdapter = "LIDARLOG_IT_ADAPTER"
	envHardwareBus     = "LIDARLOG_IT_BUS"
)

func TestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run unit tests (hardware suites skip themselves)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Test(); err != nil {
				return fmt.Errorf("failed to run tests: %w", err)
			}
			return nil
		},
	}
}

func LintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Run linting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Lint(); err != nil {
				return fmt.Errorf("failed to run linting: %w", err)
			}
			return nil
		},
	}
}

// IntegrationTestCmd runs the suites against a sensor reachable through the given adapter.
// The sim adapter exercises the same path without hardware.
func IntegrationTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integration-test",
		Short: "Run sensor integration tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, _ := cmd.Flags().GetString("adapter")
			bus, _ := cmd.Flags().GetInt("bus")
			for key, value := range hardwareEnv(adapter, bus) {
				if err := os.Setenv(key, value); err != nil {
					return fmt.Errorf("could not set %s: %w", key, err)
				}
			}
			slog.Info("running integration tests", "adapter", adapter, "bus", bus)
			if err := test.Integ(); err != nil {
				return fmt.Errorf("failed to run integration testing: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("adapter", "periph", "bus adapter the sensor is attached through (periph, gobot, mcp2221, sim)")
	cmd.Flags().Int("bus", 1, "i2c bus number")
	return cmd
}

func hardwareEnv(adapter string, bus int) map[string]string {
	return map[string]string{
		envHardwareAdapter: adapter,
		envHardwareBus:     strconv.Itoa(bus),
	}
}
