package qchat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qscope/internal/cache"
)

// Breaker defaults. Five consecutive provider failures open the
// breaker for a minute.
const (
	defaultFailureThreshold = 5
	defaultRecoveryTimeout  = time.Minute
)

const systemPrompt = "You are a quantum computing tutor. Answer concisely and " +
	"ground every explanation in the state vector and Bloch sphere picture. " +
	"The simulator supports the single-qubit gates H, X, Y, Z and I on up to 10 qubits."

// Service answers tutoring questions, caching replies and degrading to
// canned answers when the provider is unreachable.
type Service struct {
	client  *Client
	breaker *CircuitBreaker
	repo    *cache.Repository
	timeout time.Duration
	log     zerolog.Logger
}

// NewService creates the qchat service. repo may be nil to disable
// caching (used in tests).
func NewService(client *Client, repo *cache.Repository, timeout time.Duration, log zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Service{
		client:  client,
		breaker: NewCircuitBreaker(defaultFailureThreshold, defaultRecoveryTimeout),
		repo:    repo,
		timeout: timeout,
		log:     log.With().Str("component", "qchat").Logger(),
	}
}

// Answer is a reply plus provenance.
type Answer struct {
	Reply    string `json:"reply"`
	Source   string `json:"source"` // "llm", "cache" or "fallback"
	Model    string `json:"model,omitempty"`
	Fallback bool   `json:"fallback"`
}

// Status describes the provider path health.
type Status struct {
	Configured   bool         `json:"configured"`
	BreakerState BreakerState `json:"breaker_state"`
	Model        string       `json:"model"`
}

// Status returns the current provider health.
func (s *Service) Status() Status {
	return Status{
		Configured:   s.client.Configured(),
		BreakerState: s.breaker.State(),
		Model:        s.client.Model(),
	}
}

// Query answers a question, optionally with circuit context rendered
// by the caller. Cache lookup happens before the provider call.
func (s *Service) Query(ctx context.Context, question, circuitContext string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, fmt.Errorf("question must not be empty")
	}

	key, err := cache.Key(map[string]string{"q": question, "ctx": circuitContext})
	if err != nil {
		return Answer{}, err
	}

	if s.repo != nil {
		var cached Answer
		found, err := s.repo.GetIfFresh(cache.TableQChat, key, &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("Chat cache lookup failed")
		} else if found {
			cached.Source = "cache"
			return cached, nil
		}
	}

	if !s.client.Configured() || !s.breaker.Allow() {
		return s.fallback(question), nil
	}

	messages := []Message{{Role: "system", Content: systemPrompt}}
	if circuitContext != "" {
		messages = append(messages, Message{Role: "system", Content: "Current circuit context: " + circuitContext})
	}
	messages = append(messages, Message{Role: "user", Content: question})

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.client.Chat(callCtx, messages)
	if err != nil {
		s.breaker.RecordFailure()
		s.log.Warn().Err(err).Str("breaker", string(s.breaker.State())).Msg("Chat provider call failed")
		return s.fallback(question), nil
	}
	s.breaker.RecordSuccess()

	answer := Answer{Reply: reply, Source: "llm", Model: s.client.Model()}
	if s.repo != nil {
		if err := s.repo.Store(cache.TableQChat, key, answer, cache.TTLQChat); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache chat reply")
		}
	}
	return answer, nil
}

// fallback picks a canned answer by keyword.
func (s *Service) fallback(question string) Answer {
	text := strings.ToLower(question)

	reply := "I can't reach the tutoring model right now. Try simulating a small circuit " +
		"and inspecting the state vector and Bloch spheres step by step."
	switch {
	case strings.Contains(text, "superposition"):
		reply = "Superposition means a qubit holds amplitudes for both |0⟩ and |1⟩ at once. " +
			"Apply an H gate to a qubit in |0⟩ and both basis states get probability 0.5."
	case strings.Contains(text, "entangle"):
		reply = "Entanglement is correlation that single-qubit descriptions can't capture: " +
			"an entangled qubit's Bloch vector shrinks toward the center because its reduced state is mixed."
	case strings.Contains(text, "measure"):
		reply = "Measurement probabilities come from the Born rule: the chance of each basis " +
			"outcome is the squared magnitude of its amplitude."
	case strings.Contains(text, "bloch"):
		reply = "The Bloch sphere maps a single qubit's state to a point: |0⟩ at the north pole, " +
			"|1⟩ at the south pole, and superpositions on the equator."
	case strings.Contains(text, "gate"):
		reply = "The available gates are H (superposition), X (bit flip), Y (bit+phase flip), " +
			"Z (phase flip) and I (identity). Each is its own inverse."
	}

	return Answer{Reply: reply, Source: "fallback", Fallback: true}
}
