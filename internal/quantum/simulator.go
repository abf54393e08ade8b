package quantum

import (
	"github.com/rs/zerolog"
)

// Step is one record of a step-by-step simulation. Step zero is
// initialization and carries no gate fields.
type Step struct {
	Index                    int                    `json:"step"`
	Operation                string                 `json:"operation"`
	Qubit                    *int                   `json:"qubit,omitempty"`
	Position                 *int                   `json:"position,omitempty"`
	StateVector              []StateEntry           `json:"state_vector"`
	BlochVectors             map[string]BlochVector `json:"bloch_vectors"`
	GateMatrix               [][]Amplitude          `json:"gate_matrix,omitempty"`
	ProbabilityAmplitudes    []ProbabilityAmplitude `json:"probability_amplitudes"`
	MeasurementProbabilities []float64              `json:"measurement_probabilities"`
	Explanation              Explanation            `json:"explanation"`
	StateChanges             *StateChanges          `json:"state_changes,omitempty"`
	Metrics                  StepMetrics            `json:"metrics"`
}

// StepMetrics is the lightweight metrics snapshot carried by each step.
type StepMetrics struct {
	Purity  float64 `json:"purity"`
	Entropy float64 `json:"entropy"`
}

// Result is the full outcome of a simulation. Steps is nil for
// final-state-only runs.
type Result struct {
	Steps                    []Step                 `json:"steps,omitempty"`
	FinalState               []StateEntry           `json:"final_state"`
	BlochVectors             map[string]BlochVector `json:"bloch_vectors"`
	MeasurementProbabilities []float64              `json:"measurement_probabilities"`
	FinalMetrics             FinalMetrics           `json:"final_metrics"`
	EntanglementAnalysis     EntanglementAnalysis   `json:"entanglement_analysis"`
	CoherenceMeasures        CoherenceMeasures      `json:"coherence_measures"`
	CircuitStatistics        Statistics             `json:"circuit_statistics"`
	NumQubits                int                    `json:"num_qubits"`
}

// Simulator evolves circuits through the full-system unitary pipeline.
type Simulator struct {
	maxQubits int
	maxGates  int
	log       zerolog.Logger
}

// NewSimulator creates a simulator with the given caps; non-positive
// caps fall back to the defaults.
func NewSimulator(maxQubits, maxGates int, log zerolog.Logger) *Simulator {
	if maxQubits <= 0 {
		maxQubits = DefaultMaxQubits
	}
	if maxGates <= 0 {
		maxGates = DefaultMaxGates
	}
	return &Simulator{
		maxQubits: maxQubits,
		maxGates:  maxGates,
		log:       log.With().Str("component", "simulator").Logger(),
	}
}

// Simulate runs the circuit and retains a step record for the
// initialization and every gate.
func (s *Simulator) Simulate(circuit Circuit) (*Result, error) {
	return s.run(circuit, true)
}

// SimulateFinal runs the circuit without step retention.
func (s *Simulator) SimulateFinal(circuit Circuit) (*Result, error) {
	return s.run(circuit, false)
}

func (s *Simulator) run(circuit Circuit, withSteps bool) (*Result, error) {
	if err := circuit.Validate(s.maxQubits, s.maxGates); err != nil {
		return nil, err
	}

	normalized := circuit.Normalized()
	numQubits := normalized.NumQubits()
	state := GroundState(numQubits)

	s.log.Debug().
		Int("num_qubits", numQubits).
		Int("num_gates", len(normalized.Gates)).
		Bool("with_steps", withSteps).
		Msg("Starting simulation")

	var steps []Step
	if withSteps {
		steps = make([]Step, 0, len(normalized.Gates)+1)
		initStep, err := s.buildStep(0, state, nil, nil, nil)
		if err != nil {
			return nil, err
		}
		initStep.Operation = "initialization"
		initStep.Explanation = ExplainInitialization(numQubits)
		steps = append(steps, initStep)
	}

	for i, gate := range normalized.Gates {
		op, err := FullOperator(gate.Kind, gate.Qubit, numQubits)
		if err != nil {
			return nil, err
		}

		previous := state
		state = op.Apply(state)

		if err := state.CheckNormalization(); err != nil {
			s.log.Error().Err(err).
				Str("gate", string(gate.Kind)).
				Int("qubit", gate.Qubit).
				Int("step", i+1).
				Msg("State lost normalization")
			return nil, err
		}

		if !withSteps {
			continue
		}

		step, err := s.buildStep(i+1, state, &gate, op, previous)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	result, err := s.buildResult(state, normalized)
	if err != nil {
		return nil, err
	}
	result.Steps = steps
	return result, nil
}

// buildStep assembles a step record. gate, op and previous are nil for
// the initialization step.
func (s *Simulator) buildStep(index int, state StateVector, gate *Gate, op Operator, previous StateVector) (Step, error) {
	bloch, err := state.BlochVectors()
	if err != nil {
		return Step{}, err
	}

	step := Step{
		Index:                    index,
		StateVector:              state.Entries(),
		BlochVectors:             bloch,
		ProbabilityAmplitudes:    state.ProbabilityAmplitudes(),
		MeasurementProbabilities: state.Probabilities(),
		Metrics: StepMetrics{
			Purity:  state.Purity(),
			Entropy: state.DistributionEntropy(),
		},
	}

	if gate == nil {
		return step, nil
	}

	qubit := gate.Qubit
	position := gate.Position
	step.Operation = string(gate.Kind)
	step.Qubit = &qubit
	step.Position = &position
	step.GateMatrix = op.Entries()
	step.Explanation = ExplainGate(gate.Kind, gate.Qubit)

	changes, err := DiffStates(previous, state)
	if err != nil {
		return Step{}, err
	}
	step.StateChanges = &changes

	return step, nil
}

func (s *Simulator) buildResult(state StateVector, circuit Circuit) (*Result, error) {
	metrics, err := state.FinalMetricsFor()
	if err != nil {
		return nil, err
	}
	analysis, err := state.AnalyzeEntanglement()
	if err != nil {
		return nil, err
	}
	bloch, err := state.BlochVectors()
	if err != nil {
		return nil, err
	}

	return &Result{
		FinalState:               state.Entries(),
		BlochVectors:             bloch,
		MeasurementProbabilities: state.Probabilities(),
		FinalMetrics:             metrics,
		EntanglementAnalysis:     analysis,
		CoherenceMeasures:        state.Coherence(),
		CircuitStatistics:        circuit.Statistics(),
		NumQubits:                state.NumQubits(),
	}, nil
}

// FinalState re-evolves the circuit and returns the raw amplitude
// vector. Used by analytics paths that need the state itself rather
// than the serialized result.
func (s *Simulator) FinalState(circuit Circuit) (StateVector, error) {
	if err := circuit.Validate(s.maxQubits, s.maxGates); err != nil {
		return nil, err
	}
	normalized := circuit.Normalized()
	state := GroundState(normalized.NumQubits())
	for _, gate := range normalized.Gates {
		op, err := FullOperator(gate.Kind, gate.Qubit, normalized.NumQubits())
		if err != nil {
			return nil, err
		}
		state = op.Apply(state)
		if err := state.CheckNormalization(); err != nil {
			return nil, err
		}
	}
	return state, nil
}
