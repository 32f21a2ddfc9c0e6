package logger

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/config"
)

func TestSetup_LevelAndFormatter(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	Setup(&config.Config{Env: "production", LogLevel: "warn"})
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	_, isJSON := log.StandardLogger().Formatter.(*log.JSONFormatter)
	assert.True(t, isJSON)

	Setup(&config.Config{Env: "development", LogLevel: "nonsense"})
	assert.Equal(t, log.InfoLevel, log.GetLevel())
	_, isText := log.StandardLogger().Formatter.(*log.TextFormatter)
	assert.True(t, isText)
}

func TestSetup_WritesRotatingFile(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "api.log")
	Setup(&config.Config{Env: "development", LogLevel: "info", LogFile: path})

	log.WithField("worker_id", "w-1").Info("worker assigned")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "worker assigned")
	assert.Contains(t, string(data), "worker_id=w-1")
}
