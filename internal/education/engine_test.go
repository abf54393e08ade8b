package education

import (
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qscope/internal/quantum"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewEngine(quantum.NewSimulator(0, 0, log), log)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelBeginner, ParseLevel(""))
	assert.Equal(t, LevelBeginner, ParseLevel("novice"))
	assert.Equal(t, LevelIntermediate, ParseLevel("Intermediate"))
	assert.Equal(t, LevelAdvanced, ParseLevel("  advanced "))
}

func TestConceptLookup(t *testing.T) {
	c, ok := ConceptByID("superposition")
	require.True(t, ok)
	assert.Equal(t, "Superposition", c.Title)
	assert.Contains(t, c.RelatedGates, quantum.GateH)

	c, ok = ConceptByID("  ENTANGLEMENT ")
	require.True(t, ok)
	assert.Equal(t, "entanglement", c.ID)

	_, ok = ConceptByID("teleportation")
	assert.False(t, ok)
}

func TestConceptLibraryIsComplete(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Concepts() {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Summary)
		assert.NotEmpty(t, c.Detail)
		assert.False(t, seen[c.ID], "duplicate concept %q", c.ID)
		seen[c.ID] = true
	}
	assert.GreaterOrEqual(t, len(Concepts()), 5)
}

func TestAlgorithmsAreRunnable(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	sim := quantum.NewSimulator(0, 0, log)

	for _, a := range Algorithms() {
		result, err := sim.Simulate(a.Circuit)
		require.NoError(t, err, "algorithm %q", a.Name)
		assert.NotEmpty(t, result.Steps)

		for _, id := range a.Concepts {
			_, ok := ConceptByID(id)
			assert.True(t, ok, "algorithm %q references unknown concept %q", a.Name, id)
		}
	}
}

func TestAlgorithmLookup(t *testing.T) {
	a, ok := AlgorithmByName("phase-visibility")
	require.True(t, ok)
	assert.Len(t, a.Circuit.Gates, 3)

	_, ok = AlgorithmByName("grover")
	assert.False(t, ok)
}

func TestExplainEmptyCircuit(t *testing.T) {
	e := testEngine(t)

	exp, err := e.ExplainCircuit(quantum.Circuit{}, LevelBeginner)
	require.NoError(t, err)
	assert.Contains(t, exp.Headline, "0 gates")
	require.NotEmpty(t, exp.Narrative)
	assert.Contains(t, exp.Narrative[0], "ground state")
	assert.Contains(t, exp.ConceptIDs, "measurement")
}

func TestExplainSuperpositionCircuit(t *testing.T) {
	e := testEngine(t)
	circuit := quantum.Circuit{Gates: []quantum.Gate{
		{Kind: quantum.GateH, Qubit: 0, Position: 0},
	}}

	exp, err := e.ExplainCircuit(circuit, LevelBeginner)
	require.NoError(t, err)
	assert.Contains(t, exp.ConceptIDs, "superposition")

	var mentionsEntropy bool
	for _, line := range exp.Narrative {
		if strings.Contains(line, "entropy") {
			mentionsEntropy = true
		}
	}
	assert.True(t, mentionsEntropy)
}

func TestExplainLevelsAddDetail(t *testing.T) {
	e := testEngine(t)
	circuit := quantum.Circuit{Gates: []quantum.Gate{
		{Kind: quantum.GateH, Qubit: 0, Position: 0},
		{Kind: quantum.GateZ, Qubit: 0, Position: 1},
	}}

	beginner, err := e.ExplainCircuit(circuit, LevelBeginner)
	require.NoError(t, err)
	advanced, err := e.ExplainCircuit(circuit, LevelAdvanced)
	require.NoError(t, err)

	assert.Greater(t, len(advanced.Narrative), len(beginner.Narrative))
	assert.Contains(t, advanced.ConceptIDs, "phase")
}

func TestExplainConceptOrderIsStable(t *testing.T) {
	e := testEngine(t)
	circuit := quantum.Circuit{Gates: []quantum.Gate{
		{Kind: quantum.GateH, Qubit: 0, Position: 0},
		{Kind: quantum.GateX, Qubit: 1, Position: 1},
		{Kind: quantum.GateZ, Qubit: 0, Position: 2},
	}}

	first, err := e.ExplainCircuit(circuit, LevelBeginner)
	require.NoError(t, err)
	assert.True(t, sort.StringsAreSorted(first.ConceptIDs))

	for i := 0; i < 5; i++ {
		next, err := e.ExplainCircuit(circuit, LevelBeginner)
		require.NoError(t, err)
		assert.Equal(t, first.ConceptIDs, next.ConceptIDs)
	}
}

func TestExplainRejectsMalformedCircuit(t *testing.T) {
	e := testEngine(t)
	circuit := quantum.Circuit{Gates: []quantum.Gate{
		{Kind: "CNOT", Qubit: 0, Position: 0},
	}}

	_, err := e.ExplainCircuit(circuit, LevelBeginner)
	require.Error(t, err)
	var malformed *quantum.MalformedCircuitError
	assert.ErrorAs(t, err, &malformed)
}
