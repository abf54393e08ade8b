package education

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/qscope/internal/quantum"
)

// Handler handles education HTTP requests.
type Handler struct {
	engine *Engine
	log    zerolog.Logger
}

// NewHandler creates a new education handler.
func NewHandler(engine *Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "education").Logger(),
	}
}

// HandleConcepts returns the concept library.
func (h *Handler) HandleConcepts(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"concepts": Concepts(),
	})
}

// HandleConcept returns a single concept by ID.
func (h *Handler) HandleConcept(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	concept, ok := ConceptByID(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown concept: "+id)
		return
	}
	h.writeJSON(w, http.StatusOK, concept)
}

type explainRequest struct {
	Circuit []quantum.Gate `json:"circuit"`
	Level   string         `json:"level,omitempty"`
}

// HandleExplain returns a narrative explanation of a circuit at the
// requested difficulty level.
func (h *Handler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	explanation, err := h.engine.ExplainCircuit(quantum.Circuit{Gates: req.Circuit}, ParseLevel(req.Level))
	if err != nil {
		var malformed *quantum.MalformedCircuitError
		var limit *quantum.ResourceLimitError
		if errors.As(err, &malformed) || errors.As(err, &limit) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Explanation failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, explanation)
}

// HandleAlgorithms returns the example algorithm library.
func (h *Handler) HandleAlgorithms(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"algorithms": Algorithms(),
	})
}

// HandleAlgorithm returns a single example algorithm by name.
func (h *Handler) HandleAlgorithm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	algorithm, ok := AlgorithmByName(name)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown algorithm: "+name)
		return
	}
	h.writeJSON(w, http.StatusOK, algorithm)
}

// HandleTutorial returns the guided tutorial for a difficulty level.
func (h *Handler) HandleTutorial(w http.ResponseWriter, r *http.Request) {
	level := chi.URLParam(r, "level")

	tutorial, ok := TutorialForLevel(level)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "unknown tutorial level: "+level)
		return
	}
	h.writeJSON(w, http.StatusOK, tutorial)
}

type learningPathRequest struct {
	CompletedConcepts []string `json:"completed_concepts"`
	Difficulty        string   `json:"difficulty,omitempty"`
}

// HandleLearningPath recommends the concepts still to study.
func (h *Handler) HandleLearningPath(w http.ResponseWriter, r *http.Request) {
	var req learningPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	path := h.engine.LearningPath(req.CompletedConcepts, ParseLevel(req.Difficulty))
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"path":  path,
		"count": len(path),
	})
}

type questionsRequest struct {
	Concept string `json:"concept"`
	Type    string `json:"type,omitempty"`
}

// HandleQuestions returns practice questions for a concept.
func (h *Handler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	var req questionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	qtype, err := ParseQuestionType(req.Type)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	questions, ok := Questions(req.Concept, qtype)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown concept: "+req.Concept)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"concept":   strings.ToLower(strings.TrimSpace(req.Concept)),
		"type":      qtype,
		"questions": questions,
	})
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
