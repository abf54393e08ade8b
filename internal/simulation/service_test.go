package simulation

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qscope/internal/cache"
	"github.com/aristath/qscope/internal/database"
	"github.com/aristath/qscope/internal/quantum"
	"github.com/aristath/qscope/internal/queue"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func testRepo(t *testing.T) *cache.Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "cache.db"),
		Profile: database.ProfileCache,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := cache.NewRepository(db.Conn())
	require.NoError(t, repo.InitSchema())
	return repo
}

func testService(t *testing.T, repo *cache.Repository, qm *queue.Manager) *Service {
	t.Helper()
	sim := quantum.NewSimulator(0, 0, testLogger())
	return NewService(sim, repo, qm, 0, 0, testLogger())
}

func hCircuit() quantum.Circuit {
	return quantum.Circuit{Gates: []quantum.Gate{
		{Kind: quantum.GateH, Qubit: 0, Position: 0},
	}}
}

func TestRunWithoutCache(t *testing.T) {
	svc := testService(t, nil, nil)

	result, hit, err := svc.Run(hCircuit(), true)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, result.Steps, 2)
	assert.Equal(t, 1, result.NumQubits)
}

func TestRunCachesResult(t *testing.T) {
	svc := testService(t, testRepo(t), nil)

	first, hit, err := svc.Run(hCircuit(), true)
	require.NoError(t, err)
	require.False(t, hit)

	second, hit, err := svc.Run(hCircuit(), true)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, first.NumQubits, second.NumQubits)
	assert.Len(t, second.Steps, len(first.Steps))
	assert.InDelta(t, first.FinalMetrics.Purity, second.FinalMetrics.Purity, 1e-12)
}

func TestRunCacheKeyDependsOnSteps(t *testing.T) {
	svc := testService(t, testRepo(t), nil)

	_, hit, err := svc.Run(hCircuit(), true)
	require.NoError(t, err)
	require.False(t, hit)

	// Same circuit without steps is a different cache entry.
	result, hit, err := svc.Run(hCircuit(), false)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, result.Steps)
}

func TestRunCacheNormalizesGateOrder(t *testing.T) {
	svc := testService(t, testRepo(t), nil)

	a := quantum.Circuit{Gates: []quantum.Gate{
		{Kind: quantum.GateX, Qubit: 0, Position: 1},
		{Kind: quantum.GateH, Qubit: 0, Position: 0},
	}}
	b := quantum.Circuit{Gates: []quantum.Gate{
		{Kind: quantum.GateH, Qubit: 0, Position: 0},
		{Kind: quantum.GateX, Qubit: 0, Position: 1},
	}}

	_, hit, err := svc.Run(a, false)
	require.NoError(t, err)
	require.False(t, hit)

	_, hit, err = svc.Run(b, false)
	require.NoError(t, err)
	assert.True(t, hit, "position-sorted circuits should share a cache entry")
}

func TestRunPropagatesEngineErrors(t *testing.T) {
	svc := testService(t, nil, nil)
	bad := quantum.Circuit{Gates: []quantum.Gate{
		{Kind: "CNOT", Qubit: 0, Position: 0},
	}}

	_, _, err := svc.Run(bad, true)
	require.Error(t, err)
	var malformed *quantum.MalformedCircuitError
	assert.ErrorAs(t, err, &malformed)
}

func TestValidateAcceptsCatalogCircuit(t *testing.T) {
	svc := testService(t, nil, nil)

	report := svc.Validate(quantum.Circuit{Gates: []quantum.Gate{
		{Kind: quantum.GateH, Qubit: 0, Position: 0},
		{Kind: quantum.GateX, Qubit: 1, Position: 1},
	}})

	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
	require.NotNil(t, report.Statistics)
	assert.Equal(t, 2, report.Statistics.TotalGates)
}

func TestValidateWarnsOnMultiQubitGates(t *testing.T) {
	svc := testService(t, nil, nil)

	report := svc.Validate(quantum.Circuit{Gates: []quantum.Gate{
		{Kind: quantum.GateH, Qubit: 0, Position: 0},
		{Kind: "cnot", Qubit: 0, Position: 1},
	}})

	assert.True(t, report.Valid, "known multi-qubit tokens warn instead of failing")
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "CNOT")
	// Statistics cover only the simulable gates.
	require.NotNil(t, report.Statistics)
	assert.Equal(t, 1, report.Statistics.TotalGates)
}

func TestValidateRejectsUnknownGate(t *testing.T) {
	svc := testService(t, nil, nil)

	report := svc.Validate(quantum.Circuit{Gates: []quantum.Gate{
		{Kind: "TOFFOLI", Qubit: 0, Position: 0},
	}})

	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Nil(t, report.Statistics)
}

func TestValidateRejectsOutOfRangeIndices(t *testing.T) {
	svc := testService(t, nil, nil)

	report := svc.Validate(quantum.Circuit{Gates: []quantum.Gate{
		{Kind: quantum.GateH, Qubit: -1, Position: 0},
		{Kind: quantum.GateH, Qubit: 99, Position: 0},
		{Kind: quantum.GateH, Qubit: 0, Position: -5},
	}})

	assert.False(t, report.Valid)
	assert.Len(t, report.Errors, 3)
}

func TestSubmitAsyncCompletes(t *testing.T) {
	qm := queue.NewManager(1, testLogger())
	qm.Start()
	t.Cleanup(qm.Stop)

	svc := testService(t, nil, qm)

	id, err := svc.SubmitAsync(hCircuit(), queue.PriorityMedium)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	deadline := time.Now().Add(5 * time.Second)
	for {
		job, err := svc.Job(id)
		require.NoError(t, err)
		if job.Status == queue.StatusCompleted {
			result, ok := job.Result.(*quantum.Result)
			require.True(t, ok)
			assert.Len(t, result.Steps, 2)
			break
		}
		require.True(t, time.Now().Before(deadline), "job did not complete in time")
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSubmitAsyncRejectsBadCircuitEagerly(t *testing.T) {
	qm := queue.NewManager(1, testLogger())
	qm.Start()
	t.Cleanup(qm.Stop)

	svc := testService(t, nil, qm)
	bad := quantum.Circuit{Gates: []quantum.Gate{
		{Kind: "CNOT", Qubit: 0, Position: 0},
	}}

	_, err := svc.SubmitAsync(bad, queue.PriorityMedium)
	require.Error(t, err)
	assert.Zero(t, qm.Stats().Total)
}

func TestJobWithoutQueue(t *testing.T) {
	svc := testService(t, nil, nil)

	_, err := svc.Job("missing")
	assert.ErrorIs(t, err, queue.ErrJobNotFound)
	assert.ErrorIs(t, svc.CancelJob("missing"), queue.ErrJobNotFound)
}
