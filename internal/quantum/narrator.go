package quantum

import (
	"fmt"
	"math"
)

// Explanation is the narrator bundle attached to a simulation step.
type Explanation struct {
	Summary       string `json:"summary"`
	MatrixLiteral string `json:"matrix,omitempty"`
	BasisAction   string `json:"basis_action,omitempty"`
	BlochAction   string `json:"bloch_action,omitempty"`
	Effect        string `json:"effect,omitempty"`
}

// StateChanges is the diff between consecutive steps.
type StateChanges struct {
	Fidelity               float64           `json:"fidelity"`
	AmplitudeChanges       []AmplitudeChange `json:"amplitude_changes"`
	TotalProbabilityChange float64           `json:"total_probability_change"`
}

// AmplitudeChange tracks how one basis component moved across a step.
type AmplitudeChange struct {
	BasisState        string  `json:"basis_state"`
	BeforeProbability float64 `json:"before_probability"`
	AfterProbability  float64 `json:"after_probability"`
	ProbabilityChange float64 `json:"probability_change"`
	PhaseChange       float64 `json:"phase_change"`
}

// ExplainInitialization narrates step zero.
func ExplainInitialization(numQubits int) Explanation {
	return Explanation{
		Summary: fmt.Sprintf("Initialize %d-qubit system in |0...0⟩ state", numQubits),
		Effect:  "All qubits start in the ground state with probability 1",
	}
}

// ExplainGate narrates a gate application using the catalog metadata.
func ExplainGate(kind GateKind, qubit int) Explanation {
	info, ok := LookupGateInfo(kind)
	if !ok {
		return Explanation{Summary: fmt.Sprintf("Apply %s gate to qubit %d", kind, qubit)}
	}
	return Explanation{
		Summary:       fmt.Sprintf("Apply %s (%s) gate to qubit %d", info.Kind, info.FullName, qubit),
		MatrixLiteral: info.MatrixLiteral,
		BasisAction:   info.BasisAction,
		BlochAction:   info.BlochAction,
		Effect:        info.Description,
	}
}

// DiffStates computes the per-basis change analysis between the state
// before and after a gate. Components whose probability moved less
// than probEpsilon and whose phase is unchanged are still reported, so
// the diff always covers the full basis.
func DiffStates(before, after StateVector) (StateChanges, error) {
	if len(before) != len(after) {
		return StateChanges{}, malformed("state diff over mismatched dimensions %d and %d", len(before), len(after))
	}

	fidelity, err := after.FidelityWith(before)
	if err != nil {
		return StateChanges{}, err
	}

	n := after.NumQubits()
	beforeProbs := before.Probabilities()
	afterProbs := after.Probabilities()

	changes := make([]AmplitudeChange, len(after))
	total := 0.0
	for i := range after {
		delta := afterProbs[i] - beforeProbs[i]
		changes[i] = AmplitudeChange{
			BasisState:        BasisLabel(i, n),
			BeforeProbability: beforeProbs[i],
			AfterProbability:  afterProbs[i],
			ProbabilityChange: delta,
			PhaseChange:       phaseDelta(before[i], after[i]),
		}
		total += math.Abs(delta)
	}

	return StateChanges{
		Fidelity:               fidelity,
		AmplitudeChanges:       changes,
		TotalProbabilityChange: total,
	}, nil
}

// phaseDelta returns the phase difference in (-pi, pi], treating
// near-zero amplitudes as phase 0 to avoid noise-driven jumps.
func phaseDelta(before, after complex128) float64 {
	pb := safePhase(before)
	pa := safePhase(after)
	d := pa - pb
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

func safePhase(a complex128) float64 {
	if real(a)*real(a)+imag(a)*imag(a) < probEpsilon {
		return 0
	}
	return math.Atan2(imag(a), real(a))
}
