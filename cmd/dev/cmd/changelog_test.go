package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangelogArgs(t *testing.T) {
	assert.Equal(t, []string{"--output", "CHANGELOG.md"}, changelogArgs("", "", ""))
	assert.Equal(t, []string{"--output", "RELEASE.md", "--next-tag", "v0.3.0"}, changelogArgs("RELEASE.md", "v0.3.0", ""))
	assert.Equal(t, []string{"--output", "CHANGELOG.md", "v0.2.0"}, changelogArgs("CHANGELOG.md", "", "v0.2.0"))
}
