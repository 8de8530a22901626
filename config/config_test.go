package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigVideoUploadDisabledByDefault(t *testing.T) {
	os.Unsetenv("VIDEO_API_URL")

	LoadConfig()

	// An empty URL keeps the video client out of the wiring entirely
	assert.Empty(t, AppConfig.VideoApiURL)
}

func TestLoadConfigReadsVideoApiURL(t *testing.T) {
	t.Setenv("VIDEO_API_URL", "https://videos.internal/v1/")

	LoadConfig()

	assert.Equal(t, "https://videos.internal/v1/", AppConfig.VideoApiURL)
}
