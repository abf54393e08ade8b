package server

import (
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/qscope/internal/cache"
	"github.com/aristath/qscope/internal/queue"
)

// SystemHandlers serves system monitoring endpoints.
type SystemHandlers struct {
	log          zerolog.Logger
	dataDir      string
	queueManager *queue.Manager
	cacheRepo    *cache.Repository
	startedAt    time.Time
}

// NewSystemHandlers creates system monitoring handlers.
func NewSystemHandlers(log zerolog.Logger, dataDir string, qm *queue.Manager, repo *cache.Repository) *SystemHandlers {
	return &SystemHandlers{
		log:          log.With().Str("handler", "system").Logger(),
		dataDir:      dataDir,
		queueManager: qm,
		cacheRepo:    repo,
		startedAt:    time.Now(),
	}
}

// HandleStatus returns CPU/memory usage, queue statistics and cache
// statistics.
// GET /api/system/status
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, ramPct := h.getSystemStats()

	response := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"system": map[string]interface{}{
			"cpu_percent": cpuPct,
			"ram_percent": ramPct,
			"data_dir_mb": h.getDirSize(h.dataDir),
		},
	}

	if h.queueManager != nil {
		response["queue"] = h.queueManager.Stats()
	}
	if h.cacheRepo != nil {
		stats, err := h.cacheRepo.Stats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to read cache statistics")
		} else {
			response["cache"] = stats
		}
	}

	writeJSON(w, http.StatusOK, response, h.log)
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a 100ms sampling interval so the status endpoint stays fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
