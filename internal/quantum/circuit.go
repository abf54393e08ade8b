package quantum

import "sort"

// Default limits. The qubit cap keeps the dense state vector and
// full-system operators within a few megabytes.
const (
	DefaultMaxQubits = 10
	DefaultMaxGates  = 100
)

// Gate is a single-qubit operation placed at a position in a circuit.
type Gate struct {
	Kind     GateKind `json:"gate"`
	Qubit    int      `json:"qubit"`
	Position int      `json:"position"`
}

// Circuit is an ordered list of gates. The zero value is the empty
// circuit, which simulates as a bare 2-qubit ground state.
type Circuit struct {
	Gates []Gate `json:"gates"`
}

// Normalized returns a copy with gates stably sorted by position.
// Gates that share a position keep their relative input order.
func (c Circuit) Normalized() Circuit {
	gates := make([]Gate, len(c.Gates))
	copy(gates, c.Gates)
	sort.SliceStable(gates, func(i, j int) bool {
		return gates[i].Position < gates[j].Position
	})
	return Circuit{Gates: gates}
}

// NumQubits derives the register width from the highest target qubit.
// Only the empty circuit gets a 2-qubit register, so downstream
// analytics (pairwise entropies, Bloch vectors) have something to work
// on; a circuit touching only qubit 0 is a genuine 1-qubit system.
func (c Circuit) NumQubits() int {
	if len(c.Gates) == 0 {
		return 2
	}
	n := 1
	for _, g := range c.Gates {
		if g.Qubit+1 > n {
			n = g.Qubit + 1
		}
	}
	return n
}

// Validate checks structure and resource caps. It is the single place
// where malformed and over-limit circuits are rejected.
func (c Circuit) Validate(maxQubits, maxGates int) error {
	if maxQubits <= 0 {
		maxQubits = DefaultMaxQubits
	}
	if maxGates <= 0 {
		maxGates = DefaultMaxGates
	}

	if len(c.Gates) > maxGates {
		return &ResourceLimitError{Resource: "gates", Actual: len(c.Gates), Limit: maxGates}
	}

	for i, g := range c.Gates {
		if _, err := GateMatrix(g.Kind); err != nil {
			return err
		}
		if g.Qubit < 0 {
			return malformed("gate %d targets negative qubit %d", i, g.Qubit)
		}
		if g.Position < 0 {
			return malformed("gate %d has negative position %d", i, g.Position)
		}
	}

	if n := c.NumQubits(); n > maxQubits {
		return &ResourceLimitError{Resource: "qubits", Actual: n, Limit: maxQubits}
	}

	return nil
}

// Statistics summarizes circuit shape for the analytics endpoints and
// the final simulation payload.
type Statistics struct {
	TotalGates int              `json:"total_gates"`
	GateCounts map[GateKind]int `json:"gate_counts"`
	NumQubits  int              `json:"num_qubits"`
	Depth      int              `json:"circuit_depth"`
	Density    float64          `json:"gate_density"`
}

// Statistics computes gate counts, depth (highest position + 1) and
// gate density over the qubits x depth grid.
func (c Circuit) Statistics() Statistics {
	stats := Statistics{
		TotalGates: len(c.Gates),
		GateCounts: make(map[GateKind]int),
		NumQubits:  c.NumQubits(),
	}

	if len(c.Gates) == 0 {
		return stats
	}

	maxPos := 0
	for _, g := range c.Gates {
		stats.GateCounts[g.Kind]++
		if g.Position > maxPos {
			maxPos = g.Position
		}
	}
	stats.Depth = maxPos + 1

	if cells := stats.NumQubits * stats.Depth; cells > 0 {
		stats.Density = float64(stats.TotalGates) / float64(cells)
	}

	return stats
}
