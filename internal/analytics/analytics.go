// Package analytics derives higher-level reports from simulated
// circuits: comprehensive metric bundles, complexity analysis, and
// optimization suggestions.
package analytics

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/qscope/internal/quantum"
)

// Per-gate execution cost estimates in arbitrary time units, used by
// the complexity report.
var gateCosts = map[quantum.GateKind]float64{
	quantum.GateH: 1.0,
	quantum.GateX: 0.8,
	quantum.GateY: 0.8,
	quantum.GateZ: 0.5,
	quantum.GateI: 0.1,
}

// Complexity class thresholds on total gate count.
const (
	complexityTrivialMax  = 5
	complexitySimpleMax   = 15
	complexityModerateMax = 40
)

// Service computes analytics over circuits by re-simulating them.
type Service struct {
	sim *quantum.Simulator
	log zerolog.Logger
}

// New creates an analytics service backed by the given simulator.
func New(sim *quantum.Simulator, log zerolog.Logger) *Service {
	return &Service{
		sim: sim,
		log: log.With().Str("component", "analytics").Logger(),
	}
}

// MetricsBundle is the comprehensive metrics report.
type MetricsBundle struct {
	Basic        BasicMetrics                     `json:"basic"`
	Entanglement quantum.EntanglementAnalysis     `json:"entanglement"`
	Coherence    quantum.CoherenceMeasures        `json:"coherence"`
	Distance     DistanceReport                   `json:"distance"`
	Geometric    map[string]quantum.BlochVector   `json:"geometric"`
	Statistics   quantum.Statistics               `json:"circuit_statistics"`
}

// BasicMetrics mirrors the final-metrics naming, including the
// historical "von Neumann entropy" label for the distribution entropy.
type BasicMetrics struct {
	Purity             float64 `json:"purity"`
	VonNeumannEntropy  float64 `json:"von_neumann_entropy"`
	LinearEntropy      float64 `json:"linear_entropy"`
	ParticipationRatio float64 `json:"participation_ratio"`
}

// DistanceReport compares the final state against standard references
// and an optional caller-provided one.
type DistanceReport struct {
	GroundState          quantum.DistanceMetrics  `json:"ground_state"`
	UniformSuperposition quantum.DistanceMetrics  `json:"uniform_superposition"`
	Reference            *quantum.DistanceMetrics `json:"reference,omitempty"`
}

// ComprehensiveMetrics simulates the circuit and assembles the full
// metrics bundle. reference may be nil.
func (s *Service) ComprehensiveMetrics(circuit quantum.Circuit, reference quantum.StateVector) (*MetricsBundle, error) {
	state, err := s.sim.FinalState(circuit)
	if err != nil {
		return nil, err
	}

	entanglement, err := state.AnalyzeEntanglement()
	if err != nil {
		return nil, err
	}

	bloch, err := state.BlochVectors()
	if err != nil {
		return nil, err
	}

	ground, err := state.DistanceFrom(quantum.GroundState(state.NumQubits()))
	if err != nil {
		return nil, err
	}
	uniform, err := state.DistanceFrom(quantum.UniformSuperposition(state.NumQubits()))
	if err != nil {
		return nil, err
	}

	bundle := &MetricsBundle{
		Basic: BasicMetrics{
			Purity:             state.Purity(),
			VonNeumannEntropy:  state.DistributionEntropy(),
			LinearEntropy:      state.LinearEntropy(),
			ParticipationRatio: state.ParticipationRatio(),
		},
		Entanglement: entanglement,
		Coherence:    state.Coherence(),
		Distance: DistanceReport{
			GroundState:          ground,
			UniformSuperposition: uniform,
		},
		Geometric:  bloch,
		Statistics: circuit.Normalized().Statistics(),
	}

	if reference != nil {
		ref, err := state.DistanceFrom(reference)
		if err != nil {
			return nil, err
		}
		bundle.Distance.Reference = &ref
	}

	return bundle, nil
}

// ComplexityReport estimates the cost of running a circuit.
type ComplexityReport struct {
	Class                 string  `json:"complexity_class"`
	TotalGates            int     `json:"total_gates"`
	Depth                 int     `json:"circuit_depth"`
	NumQubits             int     `json:"num_qubits"`
	ParallelizationFactor float64 `json:"parallelization_factor"`
	EstimatedTime         float64 `json:"estimated_execution_time"`
	MemoryScaling         string  `json:"memory_scaling"`
}

// Complexity analyzes circuit cost without simulating it.
func (s *Service) Complexity(circuit quantum.Circuit) (*ComplexityReport, error) {
	if err := circuit.Validate(0, 0); err != nil {
		return nil, err
	}

	stats := circuit.Normalized().Statistics()

	estimated := 0.0
	for kind, count := range stats.GateCounts {
		estimated += gateCosts[kind] * float64(count)
	}

	parallelization := 0.0
	if stats.Depth > 0 {
		parallelization = float64(stats.TotalGates) / float64(stats.Depth)
	}

	return &ComplexityReport{
		Class:                 classifyComplexity(stats.TotalGates),
		TotalGates:            stats.TotalGates,
		Depth:                 stats.Depth,
		NumQubits:             stats.NumQubits,
		ParallelizationFactor: parallelization,
		EstimatedTime:         estimated,
		MemoryScaling:         fmt.Sprintf("O(2^%d)", stats.NumQubits),
	}, nil
}

func classifyComplexity(totalGates int) string {
	switch {
	case totalGates <= complexityTrivialMax:
		return "trivial"
	case totalGates <= complexitySimpleMax:
		return "simple"
	case totalGates <= complexityModerateMax:
		return "moderate"
	default:
		return "complex"
	}
}

// Suggestion is one optimization hint.
type Suggestion struct {
	Kind    string `json:"type"`
	Message string `json:"message"`
}

// Suggestions inspects circuit structure for easy wins: adjacent
// self-inverse pairs, identity padding, and excessive depth.
func (s *Service) Suggestions(circuit quantum.Circuit) ([]Suggestion, error) {
	if err := circuit.Validate(0, 0); err != nil {
		return nil, err
	}

	normalized := circuit.Normalized()
	suggestions := []Suggestion{}

	// Adjacent identical gates on the same qubit cancel, since every
	// catalog gate is self-inverse.
	byQubit := make(map[int][]quantum.Gate)
	for _, g := range normalized.Gates {
		byQubit[g.Qubit] = append(byQubit[g.Qubit], g)
	}
	qubits := make([]int, 0, len(byQubit))
	for q := range byQubit {
		qubits = append(qubits, q)
	}
	sort.Ints(qubits)
	for _, q := range qubits {
		gates := byQubit[q]
		for i := 1; i < len(gates); i++ {
			if gates[i].Kind == gates[i-1].Kind && gates[i].Kind != quantum.GateI {
				suggestions = append(suggestions, Suggestion{
					Kind: "redundant_pair",
					Message: fmt.Sprintf(
						"consecutive %s gates on qubit %d cancel out and can be removed",
						gates[i].Kind, q),
				})
			}
		}
	}

	identityCount := 0
	for _, g := range normalized.Gates {
		if g.Kind == quantum.GateI {
			identityCount++
		}
	}
	if identityCount > 0 {
		suggestions = append(suggestions, Suggestion{
			Kind:    "identity_padding",
			Message: fmt.Sprintf("%d identity gates have no effect and can be removed", identityCount),
		})
	}

	stats := normalized.Statistics()
	if stats.Depth > 20 {
		suggestions = append(suggestions, Suggestion{
			Kind:    "deep_circuit",
			Message: fmt.Sprintf("circuit depth %d is high; consider compressing sequential gates", stats.Depth),
		})
	}
	if stats.Density < 0.25 && stats.TotalGates > 0 {
		suggestions = append(suggestions, Suggestion{
			Kind:    "sparse_layout",
			Message: "most grid cells are empty; gates on different qubits can share positions",
		})
	}

	return suggestions, nil
}
