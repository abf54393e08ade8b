// Package education serves the concept library, example algorithms,
// and contextual explanations of simulated circuits.
package education

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/qscope/internal/quantum"
)

// Level selects how much detail an explanation carries.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ParseLevel maps a string to a difficulty level, defaulting to
// beginner.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelIntermediate:
		return LevelIntermediate
	case LevelAdvanced:
		return LevelAdvanced
	default:
		return LevelBeginner
	}
}

// Concept is one entry of the concept library.
type Concept struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Summary      string             `json:"summary"`
	Detail       string             `json:"detail"`
	RelatedGates []quantum.GateKind `json:"related_gates,omitempty"`
}

var concepts = []Concept{
	{
		ID:      "superposition",
		Title:   "Superposition",
		Summary: "A qubit can hold amplitudes for |0⟩ and |1⟩ simultaneously.",
		Detail: "The state of a qubit is a complex-weighted combination α|0⟩ + β|1⟩ with " +
			"|α|² + |β|² = 1. The Hadamard gate turns |0⟩ into the equal superposition " +
			"(|0⟩ + |1⟩)/√2, where both measurement outcomes have probability 0.5.",
		RelatedGates: []quantum.GateKind{quantum.GateH},
	},
	{
		ID:      "measurement",
		Title:   "Measurement and the Born rule",
		Summary: "Outcome probabilities are squared amplitude magnitudes.",
		Detail: "Measuring in the computational basis yields basis state |i⟩ with probability " +
			"|amplitude_i|². The probabilities across all basis states always sum to 1, which is " +
			"why the simulator checks normalization after every gate.",
	},
	{
		ID:      "phase",
		Title:   "Relative phase",
		Summary: "Phases are invisible to a single measurement but drive interference.",
		Detail: "The Z gate flips the sign of the |1⟩ amplitude without changing any measurement " +
			"probability. Sandwiched between two H gates it becomes visible: H·Z·H maps |0⟩ to |1⟩.",
		RelatedGates: []quantum.GateKind{quantum.GateZ, quantum.GateH},
	},
	{
		ID:      "interference",
		Title:   "Interference",
		Summary: "Amplitudes add like waves and can cancel.",
		Detail: "When two computation paths reach the same basis state, their complex amplitudes " +
			"add. Equal and opposite amplitudes cancel completely, concentrating probability on the " +
			"surviving outcomes. This is the working principle behind most quantum algorithms.",
		RelatedGates: []quantum.GateKind{quantum.GateH, quantum.GateZ},
	},
	{
		ID:      "entanglement",
		Title:   "Entanglement",
		Summary: "Correlations that no per-qubit description can reproduce.",
		Detail: "An entangled qubit has a mixed reduced state: its Bloch vector shrinks toward the " +
			"center of the sphere and its subsystem entropy rises above zero. Creating entanglement " +
			"requires a multi-qubit gate, which is outside this simulator's single-qubit gate set, " +
			"but the analytics still detect and quantify it for any supplied state.",
	},
	{
		ID:      "bloch-sphere",
		Title:   "The Bloch sphere",
		Summary: "Every single-qubit state is a point in a unit ball.",
		Detail: "|0⟩ sits at the north pole (z = +1), |1⟩ at the south pole (z = -1), and equal " +
			"superpositions on the equator. Catalog gates act as 180° rotations: X about the x axis, " +
			"Z about the z axis, and H about the diagonal x+z axis.",
		RelatedGates: []quantum.GateKind{quantum.GateX, quantum.GateY, quantum.GateZ, quantum.GateH},
	},
}

// Concepts returns the concept library.
func Concepts() []Concept {
	return concepts
}

// ConceptByID looks up a concept.
func ConceptByID(id string) (Concept, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, c := range concepts {
		if c.ID == id {
			return c, true
		}
	}
	return Concept{}, false
}

// Algorithm is a named, runnable example circuit.
type Algorithm struct {
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Circuit     quantum.Circuit `json:"circuit"`
	Concepts    []string        `json:"concepts"`
}

var algorithms = []Algorithm{
	{
		Name:        "superposition-ladder",
		Title:       "Superposition ladder",
		Description: "Hadamard on every qubit produces the uniform superposition over all basis states.",
		Circuit: quantum.Circuit{Gates: []quantum.Gate{
			{Kind: quantum.GateH, Qubit: 0, Position: 0},
			{Kind: quantum.GateH, Qubit: 1, Position: 0},
			{Kind: quantum.GateH, Qubit: 2, Position: 0},
		}},
		Concepts: []string{"superposition", "measurement"},
	},
	{
		Name:        "phase-visibility",
		Title:       "Making phase visible",
		Description: "H·Z·H shows how an invisible phase flip becomes a measurable bit flip.",
		Circuit: quantum.Circuit{Gates: []quantum.Gate{
			{Kind: quantum.GateH, Qubit: 0, Position: 0},
			{Kind: quantum.GateZ, Qubit: 0, Position: 1},
			{Kind: quantum.GateH, Qubit: 0, Position: 2},
		}},
		Concepts: []string{"phase", "interference"},
	},
	{
		Name:        "bit-flip",
		Title:       "Bit flip",
		Description: "X deterministically maps the ground state to the excited state.",
		Circuit: quantum.Circuit{Gates: []quantum.Gate{
			{Kind: quantum.GateX, Qubit: 0, Position: 0},
		}},
		Concepts: []string{"bloch-sphere"},
	},
	{
		Name:        "self-inverse",
		Title:       "Self-inverse gates",
		Description: "Applying the same catalog gate twice always restores the previous state.",
		Circuit: quantum.Circuit{Gates: []quantum.Gate{
			{Kind: quantum.GateH, Qubit: 0, Position: 0},
			{Kind: quantum.GateH, Qubit: 0, Position: 1},
			{Kind: quantum.GateY, Qubit: 1, Position: 0},
			{Kind: quantum.GateY, Qubit: 1, Position: 1},
		}},
		Concepts: []string{"bloch-sphere", "measurement"},
	},
}

// Algorithms returns the example algorithm library.
func Algorithms() []Algorithm {
	return algorithms
}

// AlgorithmByName looks up an example algorithm.
func AlgorithmByName(name string) (Algorithm, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, a := range algorithms {
		if a.Name == name {
			return a, true
		}
	}
	return Algorithm{}, false
}

// Engine produces contextual explanations by simulating circuits.
type Engine struct {
	sim *quantum.Simulator
	log zerolog.Logger
}

// NewEngine creates an education engine backed by the simulator.
func NewEngine(sim *quantum.Simulator, log zerolog.Logger) *Engine {
	return &Engine{
		sim: sim,
		log: log.With().Str("component", "education").Logger(),
	}
}

// CircuitExplanation is a narrative description of what a circuit does.
type CircuitExplanation struct {
	Level      Level    `json:"level"`
	Headline   string   `json:"headline"`
	Narrative  []string `json:"narrative"`
	ConceptIDs []string `json:"concepts"`
}

// ExplainCircuit simulates the circuit and assembles a narrative at
// the requested difficulty level.
func (e *Engine) ExplainCircuit(circuit quantum.Circuit, level Level) (*CircuitExplanation, error) {
	result, err := e.sim.SimulateFinal(circuit)
	if err != nil {
		return nil, err
	}

	stats := result.CircuitStatistics
	metrics := result.FinalMetrics

	explanation := &CircuitExplanation{
		Level:    level,
		Headline: fmt.Sprintf("A %d-qubit circuit with %d gates", result.NumQubits, stats.TotalGates),
	}
	conceptSet := map[string]bool{"measurement": true}

	if stats.TotalGates == 0 {
		explanation.Narrative = append(explanation.Narrative,
			"No gates are applied, so the register stays in the ground state |0...0⟩ and a "+
				"measurement returns all zeros with certainty.")
	}

	if stats.GateCounts[quantum.GateH] > 0 {
		conceptSet["superposition"] = true
		explanation.Narrative = append(explanation.Narrative,
			fmt.Sprintf("%d Hadamard gate(s) spread probability across multiple basis states.",
				stats.GateCounts[quantum.GateH]))
	}
	if stats.GateCounts[quantum.GateX] > 0 || stats.GateCounts[quantum.GateY] > 0 {
		conceptSet["bloch-sphere"] = true
		explanation.Narrative = append(explanation.Narrative,
			"Pauli flips move qubits between the poles of the Bloch sphere.")
	}
	if stats.GateCounts[quantum.GateZ] > 0 {
		conceptSet["phase"] = true
		explanation.Narrative = append(explanation.Narrative,
			"Z gates change relative phase without changing any measurement probability on their own.")
	}

	if metrics.VonNeumannEntropy > 0.01 {
		explanation.Narrative = append(explanation.Narrative,
			fmt.Sprintf("The final measurement distribution carries %.2f bits of entropy, spread over "+
				"about %.1f basis states.", metrics.VonNeumannEntropy, metrics.ParticipationRatio))
	} else {
		explanation.Narrative = append(explanation.Narrative,
			"The final state is deterministic: one basis outcome has probability 1.")
	}

	if level != LevelBeginner {
		explanation.Narrative = append(explanation.Narrative,
			fmt.Sprintf("Purity is %.3f and the participation ratio is %.2f.",
				metrics.Purity, metrics.ParticipationRatio))
	}
	if level == LevelAdvanced {
		explanation.Narrative = append(explanation.Narrative,
			fmt.Sprintf("Mean per-qubit subsystem entropy is %.3f, classifying the state as %s.",
				result.EntanglementAnalysis.Overall, result.EntanglementAnalysis.Classification))
	}

	for id := range conceptSet {
		explanation.ConceptIDs = append(explanation.ConceptIDs, id)
	}
	sort.Strings(explanation.ConceptIDs)
	return explanation, nil
}
