package simulation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/qscope/internal/quantum"
	"github.com/aristath/qscope/internal/queue"
)

// Handler handles simulation HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new simulation handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "simulation").Logger(),
	}
}

// circuitRequest is the common request body: a list of gate
// placements.
type circuitRequest struct {
	Circuit []quantum.Gate `json:"circuit"`
}

func (h *Handler) decodeCircuit(w http.ResponseWriter, r *http.Request) (quantum.Circuit, bool) {
	var req circuitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return quantum.Circuit{}, false
	}
	return quantum.Circuit{Gates: req.Circuit}, true
}

// HandleSimulate runs a circuit and returns final state and metrics
// without per-step data.
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	circuit, ok := h.decodeCircuit(w, r)
	if !ok {
		return
	}

	result, cached, err := h.service.Run(circuit, false)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"cached": cached,
	})
}

// HandleSimulateSteps runs a circuit with full step-by-step output.
func (h *Handler) HandleSimulateSteps(w http.ResponseWriter, r *http.Request) {
	circuit, ok := h.decodeCircuit(w, r)
	if !ok {
		return
	}

	result, cached, err := h.service.Run(circuit, true)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"cached": cached,
	})
}

type asyncRequest struct {
	Circuit  []quantum.Gate `json:"circuit"`
	Priority string         `json:"priority,omitempty"`
}

func parsePriority(s string) queue.Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return queue.PriorityHigh
	case "low":
		return queue.PriorityLow
	default:
		return queue.PriorityMedium
	}
}

// HandleSimulateStepsAsync enqueues a step-by-step simulation job.
func (h *Handler) HandleSimulateStepsAsync(w http.ResponseWriter, r *http.Request) {
	var req asyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	jobID, err := h.service.SubmitAsync(quantum.Circuit{Gates: req.Circuit}, parsePriority(req.Priority))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": jobID,
		"status": queue.StatusPending,
	})
}

// HandleSimulationResult returns the status or result of a queued job.
func (h *Handler) HandleSimulationResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := h.service.Job(jobID)
	if errors.Is(err, queue.ErrJobNotFound) {
		h.writeError(w, http.StatusNotFound, "job not found: "+jobID)
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, job)
}

// HandleCancelJob cancels a pending simulation job.
func (h *Handler) HandleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	err := h.service.CancelJob(jobID)
	switch {
	case errors.Is(err, queue.ErrJobNotFound):
		h.writeError(w, http.StatusNotFound, "job not found: "+jobID)
		return
	case errors.Is(err, queue.ErrNotCancellable):
		h.writeError(w, http.StatusConflict, "job is no longer pending")
		return
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id": jobID,
		"status": queue.StatusCancelled,
	})
}

// HandleValidateCircuit validates a circuit without running it.
func (h *Handler) HandleValidateCircuit(w http.ResponseWriter, r *http.Request) {
	circuit, ok := h.decodeCircuit(w, r)
	if !ok {
		return
	}

	// Validation problems are reported in the body, not the status.
	h.writeJSON(w, http.StatusOK, h.service.Validate(circuit))
}

// HandleGates returns the gate catalog.
func (h *Handler) HandleGates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"gates": quantum.AllGateInfos(),
	})
}

// writeEngineError maps engine error types to HTTP statuses.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	var malformed *quantum.MalformedCircuitError
	var limit *quantum.ResourceLimitError

	switch {
	case errors.As(err, &malformed):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &limit):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Simulation failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
