// Package simulation coordinates circuit runs: request validation,
// cache-first execution, and asynchronous jobs on the background queue.
package simulation

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/qscope/internal/cache"
	"github.com/aristath/qscope/internal/quantum"
	"github.com/aristath/qscope/internal/queue"
	"github.com/aristath/qscope/internal/utils"
)

// multiQubitTokens are gate names the request validator recognizes but
// the engine does not simulate. They pass validation with a warning so
// clients get a clear message before submitting.
var multiQubitTokens = map[string]bool{
	"CNOT": true,
	"CX":   true,
	"CZ":   true,
	"SWAP": true,
}

// ValidationReport is the outcome of boundary validation of a circuit
// request.
type ValidationReport struct {
	Valid      bool                `json:"valid"`
	Errors     []string            `json:"errors,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
	Statistics *quantum.Statistics `json:"statistics,omitempty"`
}

// Service runs circuits with caching and queuing on top of the raw
// simulator. The cache repository and queue manager may be nil, which
// disables caching and async submission respectively.
type Service struct {
	sim       *quantum.Simulator
	cache     *cache.Repository
	queue     *queue.Manager
	maxQubits int
	maxGates  int
	log       zerolog.Logger
}

// NewService creates a simulation service.
func NewService(sim *quantum.Simulator, repo *cache.Repository, qm *queue.Manager, maxQubits, maxGates int, log zerolog.Logger) *Service {
	if maxQubits <= 0 {
		maxQubits = quantum.DefaultMaxQubits
	}
	if maxGates <= 0 {
		maxGates = quantum.DefaultMaxGates
	}
	return &Service{
		sim:       sim,
		cache:     repo,
		queue:     qm,
		maxQubits: maxQubits,
		maxGates:  maxGates,
		log:       log.With().Str("component", "simulation").Logger(),
	}
}

// Validate checks a circuit request without running it. Unlike the
// engine, it tolerates known multi-qubit gate names: they produce a
// warning instead of an error, since the report is meant for circuit
// editors that want early feedback.
func (s *Service) Validate(circuit quantum.Circuit) ValidationReport {
	report := ValidationReport{Valid: true}

	if len(circuit.Gates) > s.maxGates {
		report.Valid = false
		report.Errors = append(report.Errors,
			fmt.Sprintf("circuit has %d gates, limit is %d", len(circuit.Gates), s.maxGates))
	}

	simulable := quantum.Circuit{}
	for i, gate := range circuit.Gates {
		token := strings.ToUpper(strings.TrimSpace(string(gate.Kind)))

		if gate.Qubit < 0 {
			report.Valid = false
			report.Errors = append(report.Errors,
				fmt.Sprintf("gate %d: qubit index must be non-negative, got %d", i, gate.Qubit))
			continue
		}
		if gate.Qubit >= s.maxQubits {
			report.Valid = false
			report.Errors = append(report.Errors,
				fmt.Sprintf("gate %d: qubit %d exceeds the %d-qubit limit", i, gate.Qubit, s.maxQubits))
			continue
		}
		if gate.Position < 0 {
			report.Valid = false
			report.Errors = append(report.Errors,
				fmt.Sprintf("gate %d: position must be non-negative, got %d", i, gate.Position))
			continue
		}

		if multiQubitTokens[token] {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("gate %d: %s is a multi-qubit gate and is not simulated; remove it before running", i, token))
			continue
		}

		kind, err := quantum.ParseGateKind(string(gate.Kind))
		if err != nil {
			report.Valid = false
			report.Errors = append(report.Errors, fmt.Sprintf("gate %d: %v", i, err))
			continue
		}
		simulable.Gates = append(simulable.Gates, quantum.Gate{
			Kind: kind, Qubit: gate.Qubit, Position: gate.Position,
		})
	}

	if report.Valid {
		stats := simulable.Statistics()
		report.Statistics = &stats
	}
	return report
}

// cacheKeyInput fixes what identifies a simulation in the cache: the
// normalized gate sequence and whether steps were requested.
type cacheKeyInput struct {
	Gates     []quantum.Gate `json:"gates"`
	WithSteps bool           `json:"with_steps"`
}

// Run executes a circuit, cache-first. The returned bool reports a
// cache hit.
func (s *Service) Run(circuit quantum.Circuit, withSteps bool) (*quantum.Result, bool, error) {
	normalized := circuit.Normalized()

	var key string
	if s.cache != nil {
		var err error
		key, err = cache.Key(cacheKeyInput{Gates: normalized.Gates, WithSteps: withSteps})
		if err != nil {
			return nil, false, err
		}

		var cached quantum.Result
		hit, err := s.cache.GetIfFresh(cache.TableSimulations, key, &cached)
		if err != nil {
			// A broken cache never blocks a simulation.
			s.log.Warn().Err(err).Msg("Cache lookup failed, running simulation")
		} else if hit {
			s.log.Debug().Str("key", key).Msg("Simulation cache hit")
			return &cached, true, nil
		}
	}

	timer := utils.NewTimer("simulate", s.log)
	var result *quantum.Result
	var err error
	if withSteps {
		result, err = s.sim.Simulate(circuit)
	} else {
		result, err = s.sim.SimulateFinal(circuit)
	}
	if err != nil {
		return nil, false, err
	}
	timer.StopWithFields(map[string]interface{}{
		"num_qubits": result.NumQubits,
		"num_gates":  result.CircuitStatistics.TotalGates,
		"with_steps": withSteps,
	})

	if s.cache != nil {
		if err := s.cache.Store(cache.TableSimulations, key, result, cache.TTLSimulation); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache simulation result")
		}
	}
	return result, false, nil
}

// SubmitAsync queues a step-by-step simulation and returns the job ID.
func (s *Service) SubmitAsync(circuit quantum.Circuit, priority queue.Priority) (string, error) {
	if s.queue == nil {
		return "", fmt.Errorf("background queue is not available")
	}

	// Reject obviously bad circuits before queuing so the client gets
	// an immediate error instead of a failed job.
	if err := circuit.Validate(s.maxQubits, s.maxGates); err != nil {
		return "", err
	}

	return s.queue.Submit(queue.JobTypeSimulation, priority, func() (interface{}, error) {
		result, _, err := s.Run(circuit, true)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}

// Job returns the state of a queued simulation.
func (s *Service) Job(id string) (queue.Job, error) {
	if s.queue == nil {
		return queue.Job{}, queue.ErrJobNotFound
	}
	return s.queue.Get(id)
}

// CancelJob cancels a pending simulation job.
func (s *Service) CancelJob(id string) error {
	if s.queue == nil {
		return queue.ErrJobNotFound
	}
	return s.queue.Cancel(id)
}
