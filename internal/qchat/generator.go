package qchat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aristath/qscope/internal/quantum"
)

var qubitCountPattern = regexp.MustCompile(`(\d+)\s*[- ]?qubit`)

// GeneratedCircuit is the result of rule-based circuit generation.
type GeneratedCircuit struct {
	Circuit     quantum.Circuit `json:"circuit"`
	Description string          `json:"description"`
	Notes       []string        `json:"notes,omitempty"`
}

// GenerateCircuit builds a circuit from a free-text description using
// keyword rules. The output is restricted to the single-qubit catalog;
// requests for entangling circuits get the closest single-qubit
// preparation plus an explanatory note.
func GenerateCircuit(description string) GeneratedCircuit {
	text := strings.ToLower(description)

	numQubits := 2
	if m := qubitCountPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= quantum.DefaultMaxQubits {
			numQubits = n
		}
	}

	var gates []quantum.Gate
	var notes []string

	switch {
	case strings.Contains(text, "bell") || strings.Contains(text, "entangle"):
		gates = append(gates, quantum.Gate{Kind: quantum.GateH, Qubit: 0, Position: 0})
		notes = append(notes,
			"Entangling gates are outside the single-qubit gate set; generated the Hadamard preparation half of the requested state.")

	case strings.Contains(text, "superposition") || strings.Contains(text, "hadamard"):
		for q := 0; q < numQubits; q++ {
			gates = append(gates, quantum.Gate{Kind: quantum.GateH, Qubit: q, Position: 0})
		}

	case strings.Contains(text, "flip") || strings.Contains(text, "not gate") || strings.Contains(text, "excite"):
		for q := 0; q < numQubits; q++ {
			gates = append(gates, quantum.Gate{Kind: quantum.GateX, Qubit: q, Position: 0})
		}

	case strings.Contains(text, "phase"):
		gates = append(gates,
			quantum.Gate{Kind: quantum.GateH, Qubit: 0, Position: 0},
			quantum.Gate{Kind: quantum.GateZ, Qubit: 0, Position: 1},
		)

	case strings.Contains(text, "interference"):
		gates = append(gates,
			quantum.Gate{Kind: quantum.GateH, Qubit: 0, Position: 0},
			quantum.Gate{Kind: quantum.GateZ, Qubit: 0, Position: 1},
			quantum.Gate{Kind: quantum.GateH, Qubit: 0, Position: 2},
		)

	case strings.Contains(text, "random") || strings.Contains(text, "coin"):
		gates = append(gates, quantum.Gate{Kind: quantum.GateH, Qubit: 0, Position: 0})

	default:
		// Unrecognized request: a single Hadamard is the least
		// surprising demonstration circuit.
		gates = append(gates, quantum.Gate{Kind: quantum.GateH, Qubit: 0, Position: 0})
		notes = append(notes, "No pattern matched the description; generated a default superposition circuit.")
	}

	return GeneratedCircuit{
		Circuit:     quantum.Circuit{Gates: gates},
		Description: description,
		Notes:       notes,
	}
}
