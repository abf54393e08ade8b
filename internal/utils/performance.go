package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Timer measures the duration of a single operation, typically a
// simulation run or an analytics pass.
type Timer struct {
	start time.Time
	name  string
	log   zerolog.Logger
}

// NewTimer starts a timer for the named operation.
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
		log:   log,
	}
}

// Stop logs the elapsed time and returns it. Circuit runs at the
// supported qubit counts should complete in well under a second, so
// anything above ten seconds is flagged.
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)

	t.log.Debug().
		Str("operation", t.name).
		Dur("duration_ms", duration).
		Msg("Operation timed")

	if duration > 10*time.Second {
		t.log.Warn().
			Str("operation", t.name).
			Dur("duration", duration).
			Msg("Slow operation detected")
	}

	return duration
}

// StopWithFields logs the elapsed time with extra context fields.
func (t *Timer) StopWithFields(fields map[string]interface{}) time.Duration {
	duration := time.Since(t.start)

	event := t.log.Debug().
		Str("operation", t.name).
		Dur("duration_ms", duration)

	for key, value := range fields {
		switch v := value.(type) {
		case string:
			event = event.Str(key, v)
		case int:
			event = event.Int(key, v)
		case int64:
			event = event.Int64(key, v)
		case float64:
			event = event.Float64(key, v)
		case bool:
			event = event.Bool(key, v)
		default:
			event = event.Interface(key, v)
		}
	}

	event.Msg("Operation timed")
	return duration
}

// OperationTimer provides a defer-friendly way to measure duration.
//
// Usage:
//
//	defer utils.OperationTimer("cache_cleanup", log)()
func OperationTimer(operation string, log zerolog.Logger) func() {
	start := time.Now()

	return func() {
		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", time.Since(start)).
			Msg("Operation completed")
	}
}
