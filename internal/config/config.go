// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/aristath/qscope/internal/utils"
)

// Config holds application configuration
type Config struct {
	DataDir           string // Base directory for the cache database (always absolute)
	LogLevel          string
	Port              int
	DevMode           bool
	MaxQubits         int           // Hard cap on register width (state vector is 2^n amplitudes)
	MaxGates          int           // Hard cap on gates per circuit
	SimulationTimeout time.Duration // Per-request simulation budget
	QueueWorkers      int           // Background simulation worker count
	JobRetention      time.Duration // How long finished jobs stay queryable
	OpenRouterAPIKey  string        // Empty disables the live chat client (fallback answers only)
	OpenRouterModel   string
	QChatTimeout      time.Duration
	CORSOrigins       []string // Allowed browser origins; "*" allows any
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory:
	// 1. Check QSCOPE_DATA_DIR environment variable
	// 2. If not set, default to ./data
	// 3. Always resolve to absolute path and ensure it exists
	dataDir := getEnv("QSCOPE_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:           absDataDir,
		Port:              getEnvAsInt("PORT", 8000),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		MaxQubits:         getEnvAsInt("MAX_QUBITS", 10),
		MaxGates:          getEnvAsInt("MAX_GATES_PER_CIRCUIT", 100),
		SimulationTimeout: getEnvAsDuration("SIMULATION_TIMEOUT", 30*time.Second),
		QueueWorkers:      getEnvAsInt("QUEUE_WORKERS", 2),
		JobRetention:      getEnvAsDuration("JOB_RETENTION", time.Hour),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "anthropic/claude-3-haiku"),
		QChatTimeout:      getEnvAsDuration("QCHAT_TIMEOUT", 20*time.Second),
		CORSOrigins:       utils.ParseCSV(getEnv("CORS_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.MaxQubits < 1 {
		return fmt.Errorf("MAX_QUBITS must be at least 1, got %d", c.MaxQubits)
	}
	if c.MaxQubits > 16 {
		// 2^16 amplitudes with dense full-system operators is already
		// gigabytes of matrix; refuse misconfiguration outright.
		return fmt.Errorf("MAX_QUBITS must not exceed 16, got %d", c.MaxQubits)
	}
	if c.QueueWorkers < 1 {
		return fmt.Errorf("QUEUE_WORKERS must be at least 1, got %d", c.QueueWorkers)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
