package quantum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainInitialization(t *testing.T) {
	e := ExplainInitialization(3)
	assert.Equal(t, "Initialize 3-qubit system in |0...0⟩ state", e.Summary)
}

func TestExplainGate(t *testing.T) {
	e := ExplainGate(GateH, 1)
	assert.Contains(t, e.Summary, "Hadamard")
	assert.Contains(t, e.Summary, "qubit 1")
	assert.Equal(t, "(1/√2)[[1, 1], [1, -1]]", e.MatrixLiteral)
	assert.NotEmpty(t, e.BlochAction)
}

func TestDiffStatesHadamard(t *testing.T) {
	before := GroundState(1)
	s := complex(1/math.Sqrt2, 0)
	after := StateVector{s, s}

	diff, err := DiffStates(before, after)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, diff.Fidelity, 1e-9)
	require.Len(t, diff.AmplitudeChanges, 2)
	assert.Equal(t, "|0⟩", diff.AmplitudeChanges[0].BasisState)
	assert.InDelta(t, -0.5, diff.AmplitudeChanges[0].ProbabilityChange, 1e-9)
	assert.InDelta(t, 0.5, diff.AmplitudeChanges[1].ProbabilityChange, 1e-9)
	assert.InDelta(t, 1.0, diff.TotalProbabilityChange, 1e-9)
}

func TestDiffStatesPhaseChange(t *testing.T) {
	s := complex(1/math.Sqrt2, 0)
	before := StateVector{s, s}
	after := StateVector{s, -s} // Z gate applied

	diff, err := DiffStates(before, after)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, diff.TotalProbabilityChange, 1e-9)
	assert.InDelta(t, 0.0, diff.AmplitudeChanges[0].PhaseChange, 1e-9)
	assert.InDelta(t, math.Pi, diff.AmplitudeChanges[1].PhaseChange, 1e-9)
}

func TestDiffStatesRejectsDimensionMismatch(t *testing.T) {
	_, err := DiffStates(GroundState(1), GroundState(2))
	require.Error(t, err)
}
