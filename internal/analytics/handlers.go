package analytics

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/qscope/internal/quantum"
)

// Handler handles analytics HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new analytics handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "analytics").Logger(),
	}
}

type metricsRequest struct {
	Circuit []quantum.Gate `json:"circuit"`
	// ReferenceState is an optional state vector, given as [re, im]
	// pairs, compared against the circuit's final state.
	ReferenceState [][2]float64 `json:"reference_state,omitempty"`
}

// HandleMetrics returns the comprehensive metrics bundle for a circuit.
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	var req metricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	var reference quantum.StateVector
	if len(req.ReferenceState) > 0 {
		reference = make(quantum.StateVector, len(req.ReferenceState))
		for i, pair := range req.ReferenceState {
			reference[i] = complex(pair[0], pair[1])
		}
	}

	bundle, err := h.service.ComprehensiveMetrics(quantum.Circuit{Gates: req.Circuit}, reference)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, bundle)
}

type circuitRequest struct {
	Circuit []quantum.Gate `json:"circuit"`
}

// HandleComplexity returns the complexity report for a circuit.
func (h *Handler) HandleComplexity(w http.ResponseWriter, r *http.Request) {
	var req circuitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	report, err := h.service.Complexity(quantum.Circuit{Gates: req.Circuit})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// HandleSuggestions returns optimization suggestions for a circuit.
func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req circuitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	suggestions, err := h.service.Suggestions(quantum.Circuit{Gates: req.Circuit})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

type exportRequest struct {
	Circuit         []quantum.Gate `json:"circuit"`
	Format          string         `json:"format"`
	IncludeMetadata bool           `json:"include_metadata"`
}

// HandleExport renders the metrics bundle in a portable format.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	export, err := h.service.ExportMetrics(quantum.Circuit{Gates: req.Circuit}, req.Format, req.IncludeMetadata)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, export)
}

func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	var malformed *quantum.MalformedCircuitError
	var limit *quantum.ResourceLimitError

	switch {
	case errors.As(err, &malformed), errors.As(err, &limit):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Analytics computation failed")
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
