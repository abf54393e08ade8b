package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QSCOPE_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.MaxQubits)
	assert.Equal(t, 100, cfg.MaxGates)
	assert.Equal(t, 2, cfg.QueueWorkers)
	assert.Equal(t, 30*time.Second, cfg.SimulationTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.DevMode)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QSCOPE_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_QUBITS", "6")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://app.example.com")
	t.Setenv("QCHAT_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 6, cfg.MaxQubits)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.QChatTimeout)
}

func TestValidateRejectsBadLimits(t *testing.T) {
	cfg := &Config{MaxQubits: 0, QueueWorkers: 1}
	assert.Error(t, cfg.Validate())

	cfg = &Config{MaxQubits: 17, QueueWorkers: 1}
	assert.Error(t, cfg.Validate())

	cfg = &Config{MaxQubits: 10, QueueWorkers: 0}
	assert.Error(t, cfg.Validate())

	cfg = &Config{MaxQubits: 10, QueueWorkers: 2}
	assert.NoError(t, cfg.Validate())
}
