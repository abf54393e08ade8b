package qchat

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler handles qchat HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new qchat handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "qchat").Logger(),
	}
}

type queryRequest struct {
	Question string `json:"question"`
	// Context is an optional textual rendering of the circuit the
	// question is about.
	Context string `json:"context,omitempty"`
}

// HandleQuery answers a tutoring question. Provider failures never
// surface as errors: the service falls back to canned answers.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	answer, err := h.service.Query(r.Context(), req.Question, req.Context)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, answer)
}

// HandleStatus returns provider and breaker health.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Status())
}

type generateRequest struct {
	Description string `json:"description"`
}

// HandleGenerateCircuit builds a circuit from a text description using
// keyword rules.
func (h *Handler) HandleGenerateCircuit(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Description == "" {
		h.writeError(w, http.StatusBadRequest, "description must not be empty")
		return
	}

	h.writeJSON(w, http.StatusOK, GenerateCircuit(req.Description))
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
