package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	tests := []struct {
		name     string
		info     BuildInfo
		expected string
	}{
		{"release", BuildInfo{Version: "v1.2.3", GitCommit: "abcdef1234"}, "v1.2.3 (abcdef1)"},
		{"dev with commit", BuildInfo{Version: "dev", GitCommit: "abcdef1234"}, "dev-abcdef1"},
		{"no commit", BuildInfo{Version: "v1.0.0", GitCommit: "unknown"}, "v1.0.0"},
		{"short commit", BuildInfo{Version: "dev", GitCommit: "abc"}, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.info.Short())
		})
	}
}

func TestString(t *testing.T) {
	info := &BuildInfo{
		Version:   "v1.0.0",
		GitCommit: "abcdef1234",
		BuildTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		GoVersion: "go1.24.4",
		Platform:  "linux/amd64",
		Modified:  true,
	}

	s := info.String()
	assert.Contains(t, s, "Version: v1.0.0")
	assert.Contains(t, s, "Commit: abcdef1234 (modified)")
	assert.Contains(t, s, "Built: 2024-05-01T12:00:00Z")
	assert.Contains(t, s, "Platform: linux/amd64")

	bare := (&BuildInfo{Version: "dev", GitCommit: "unknown", GoVersion: "go1.24.4", Platform: "linux/amd64"}).String()
	assert.NotContains(t, bare, "Commit")
	assert.NotContains(t, bare, "Built")
}

func TestIsRelease(t *testing.T) {
	assert.True(t, (&BuildInfo{Version: "v0.1.0"}).IsRelease())
	assert.False(t, (&BuildInfo{Version: "dev"}).IsRelease())
	assert.False(t, (&BuildInfo{Version: "dev-abc1234"}).IsRelease())
}

func TestParseTime(t *testing.T) {
	assert.True(t, parseTime("unknown").IsZero())
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("yesterday").IsZero())
	assert.Equal(t, 2024, parseTime("2024-01-02T03:04:05Z").Year())
	assert.Equal(t, 5, parseTime("2024-01-02 03:04:05").Second())
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
