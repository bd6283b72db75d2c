package cmd

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTarget(t *testing.T) {
	tests := []struct {
		name         string
		crossOs      string
		crossArch    string
		pi           bool
		expectedOs   string
		expectedArch string
	}{
		{"native", "", "", false, "darwin", "amd64"},
		{"cross", "linux", "arm", false, "linux", "arm"},
		{"half cross flags ignored", "linux", "", false, "darwin", "amd64"},
		{"pi preset", "windows", "386", true, "linux", "arm64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os, arch := target("darwin", "amd64", tt.crossOs, tt.crossArch, tt.pi)
			assert.Equal(t, tt.expectedOs, os)
			assert.Equal(t, tt.expectedArch, arch)
		})
	}
}

func TestBinaryName(t *testing.T) {
	assert.Equal(t, "dist/lidarlog", binaryName(runtime.GOOS, runtime.GOARCH))
	assert.Equal(t, "dist/lidarlog-plan9-mips", binaryName("plan9", "mips"))
}
