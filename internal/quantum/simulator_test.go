package quantum

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSimulator() *Simulator {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewSimulator(DefaultMaxQubits, DefaultMaxGates, log)
}

func TestSimulateEmptyCircuit(t *testing.T) {
	sim := testSimulator()

	result, err := sim.Simulate(Circuit{})
	require.NoError(t, err)

	// Single initialization step on a 2-qubit register
	require.Len(t, result.Steps, 1)
	step := result.Steps[0]
	assert.Equal(t, "initialization", step.Operation)
	assert.Nil(t, step.Qubit)
	require.Len(t, step.StateVector, 4)
	assert.InDelta(t, 1.0, step.StateVector[0].Probability, 1e-12)
	assert.InDelta(t, 0.0, step.StateVector[1].Probability, 1e-12)
	assert.Contains(t, step.Explanation.Summary, "Initialize 2-qubit system")

	assert.InDelta(t, 1.0, result.FinalMetrics.Purity, 1e-12)
	assert.InDelta(t, 0.0, result.FinalMetrics.VonNeumannEntropy, 1e-12)
	assert.Equal(t, "separable", result.EntanglementAnalysis.Classification)
}

func TestSimulateHadamardSuperposition(t *testing.T) {
	sim := testSimulator()

	result, err := sim.Simulate(Circuit{Gates: []Gate{
		{Kind: GateH, Qubit: 0, Position: 0},
	}})
	require.NoError(t, err)
	require.Len(t, result.Steps, 2)

	// A circuit touching only qubit 0 is a 1-qubit system with two
	// amplitudes, not a padded 2-qubit register.
	assert.Equal(t, 1, result.NumQubits)

	final := result.Steps[1]
	require.Len(t, final.MeasurementProbabilities, 2)
	assert.InDelta(t, 0.5, final.MeasurementProbabilities[0], 1e-9)
	assert.InDelta(t, 0.5, final.MeasurementProbabilities[1], 1e-9)

	// Bloch vector of the rotated qubit moves to (1, 0, 0)
	bloch := final.BlochVectors["qubit_0"]
	assert.InDelta(t, 1.0, bloch.X, 1e-9)
	assert.InDelta(t, 0.0, bloch.Y, 1e-9)
	assert.InDelta(t, 0.0, bloch.Z, 1e-9)
	assert.NotContains(t, final.BlochVectors, "qubit_1")

	// Step fidelity between |0⟩ and |+⟩ is 0.5
	require.NotNil(t, final.StateChanges)
	assert.InDelta(t, 0.5, final.StateChanges.Fidelity, 1e-9)
}

func TestRegisterWidthFloorOnlyForEmptyCircuit(t *testing.T) {
	assert.Equal(t, 2, Circuit{}.NumQubits())
	assert.Equal(t, 1, Circuit{Gates: []Gate{
		{Kind: GateH, Qubit: 0, Position: 0},
	}}.NumQubits())
	assert.Equal(t, 3, Circuit{Gates: []Gate{
		{Kind: GateX, Qubit: 2, Position: 0},
	}}.NumQubits())
}

func TestSingleQubitSuperpositionCoherence(t *testing.T) {
	sim := testSimulator()

	// On a genuine 1-qubit register the relative-entropy coherence of
	// |+⟩ is log2(2) - 1 = 0; a padded register would report 1.
	result, err := sim.SimulateFinal(Circuit{Gates: []Gate{
		{Kind: GateH, Qubit: 0, Position: 0},
	}})
	require.NoError(t, err)

	assert.Equal(t, 1, result.NumQubits)
	assert.Len(t, result.FinalState, 2)
	assert.InDelta(t, 0.0, result.CoherenceMeasures.RelativeEntropy, 1e-9)
}

func TestSimulateXTargetsCorrectBasisIndex(t *testing.T) {
	sim := testSimulator()

	// X on qubit 0 of a 2-qubit register flips basis index 0 -> 1
	// (bit 0 is qubit 0), not 0 -> 2.
	result, err := sim.Simulate(Circuit{Gates: []Gate{
		{Kind: GateX, Qubit: 0, Position: 0},
		{Kind: GateI, Qubit: 1, Position: 1},
	}})
	require.NoError(t, err)

	final := result.Steps[len(result.Steps)-1]
	assert.InDelta(t, 1.0, final.MeasurementProbabilities[1], 1e-9)
	assert.InDelta(t, 0.0, final.MeasurementProbabilities[2], 1e-9)
	assert.Equal(t, "|01⟩", final.StateVector[1].BasisState)
}

func TestGateAppliedTwiceRestoresState(t *testing.T) {
	sim := testSimulator()

	for _, kind := range []GateKind{GateH, GateX, GateY, GateZ} {
		result, err := sim.SimulateFinal(Circuit{Gates: []Gate{
			{Kind: kind, Qubit: 0, Position: 0},
			{Kind: kind, Qubit: 0, Position: 1},
		}})
		require.NoError(t, err, "gate %s", kind)
		assert.InDelta(t, 1.0, result.FinalState[0].Probability, 1e-9, "gate %s", kind)
	}
}

func TestIdentityIsIdempotent(t *testing.T) {
	sim := testSimulator()

	withI, err := sim.SimulateFinal(Circuit{Gates: []Gate{
		{Kind: GateH, Qubit: 0, Position: 0},
		{Kind: GateI, Qubit: 0, Position: 1},
		{Kind: GateI, Qubit: 1, Position: 2},
	}})
	require.NoError(t, err)

	withoutI, err := sim.SimulateFinal(Circuit{Gates: []Gate{
		{Kind: GateH, Qubit: 0, Position: 0},
		{Kind: GateI, Qubit: 1, Position: 1},
	}})
	require.NoError(t, err)

	for i := range withI.FinalState {
		assert.InDelta(t, withoutI.FinalState[i].Amplitude.Re, withI.FinalState[i].Amplitude.Re, 1e-12)
		assert.InDelta(t, withoutI.FinalState[i].Amplitude.Im, withI.FinalState[i].Amplitude.Im, 1e-12)
	}
}

func TestSingleQubitCircuitsStaySeparable(t *testing.T) {
	sim := testSimulator()

	result, err := sim.SimulateFinal(Circuit{Gates: []Gate{
		{Kind: GateH, Qubit: 0, Position: 0},
		{Kind: GateX, Qubit: 1, Position: 1},
		{Kind: GateY, Qubit: 2, Position: 2},
		{Kind: GateZ, Qubit: 0, Position: 3},
	}})
	require.NoError(t, err)

	assert.InDelta(t, 0.0, result.EntanglementAnalysis.Overall, 1e-9)
	assert.Equal(t, "separable", result.EntanglementAnalysis.Classification)
	for pair, mi := range result.EntanglementAnalysis.MutualInformation {
		assert.InDelta(t, 0.0, mi, 1e-9, "pair %s", pair)
	}
}

func TestSimulateGatesOrderedByPosition(t *testing.T) {
	sim := testSimulator()

	// X then H (by position) leaves qubit 0 at Bloch (-1, 0, 0); the
	// input list order is the reverse.
	result, err := sim.Simulate(Circuit{Gates: []Gate{
		{Kind: GateH, Qubit: 0, Position: 1},
		{Kind: GateX, Qubit: 0, Position: 0},
	}})
	require.NoError(t, err)
	require.Len(t, result.Steps, 3)
	assert.Equal(t, "X", result.Steps[1].Operation)
	assert.Equal(t, "H", result.Steps[2].Operation)

	bloch := result.Steps[2].BlochVectors["qubit_0"]
	assert.InDelta(t, -1.0, bloch.X, 1e-9)
}

func TestSimulateRejectsOversizedCircuit(t *testing.T) {
	sim := testSimulator()

	_, err := sim.Simulate(Circuit{Gates: []Gate{
		{Kind: GateH, Qubit: 11, Position: 0},
	}})
	require.Error(t, err)

	var limitErr *ResourceLimitError
	assert.ErrorAs(t, err, &limitErr)
}

func TestSimulateRejectsMalformedCircuit(t *testing.T) {
	sim := testSimulator()

	_, err := sim.Simulate(Circuit{Gates: []Gate{
		{Kind: "CNOT", Qubit: 0, Position: 0},
	}})
	require.Error(t, err)

	var malformedErr *MalformedCircuitError
	assert.ErrorAs(t, err, &malformedErr)
}

func TestSimulateFinalOmitsSteps(t *testing.T) {
	sim := testSimulator()

	result, err := sim.SimulateFinal(Circuit{Gates: []Gate{
		{Kind: GateH, Qubit: 0, Position: 0},
	}})
	require.NoError(t, err)
	assert.Nil(t, result.Steps)
	assert.NotEmpty(t, result.FinalState)
}

func TestSimulateFinalCarriesBlochAndProbabilities(t *testing.T) {
	sim := testSimulator()

	result, err := sim.SimulateFinal(Circuit{Gates: []Gate{
		{Kind: GateH, Qubit: 0, Position: 0},
		{Kind: GateX, Qubit: 1, Position: 1},
	}})
	require.NoError(t, err)

	require.Len(t, result.MeasurementProbabilities, 4)
	assert.InDelta(t, 0.5, result.MeasurementProbabilities[2], 1e-9)
	assert.InDelta(t, 0.5, result.MeasurementProbabilities[3], 1e-9)

	require.Len(t, result.BlochVectors, 2)
	assert.InDelta(t, 1.0, result.BlochVectors["qubit_0"].X, 1e-9)
	assert.InDelta(t, -1.0, result.BlochVectors["qubit_1"].Z, 1e-9)
	assert.InDelta(t, 1.0, result.FinalMetrics.Fidelity, 1e-9)
}

func TestSimulationNormalizationHolds(t *testing.T) {
	sim := testSimulator()

	result, err := sim.Simulate(Circuit{Gates: []Gate{
		{Kind: GateH, Qubit: 0, Position: 0},
		{Kind: GateH, Qubit: 1, Position: 1},
		{Kind: GateY, Qubit: 2, Position: 2},
		{Kind: GateH, Qubit: 3, Position: 3},
		{Kind: GateZ, Qubit: 0, Position: 4},
	}})
	require.NoError(t, err)

	for _, step := range result.Steps {
		sum := 0.0
		for _, p := range step.MeasurementProbabilities {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "step %d", step.Index)
	}
}
