package queue

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(workers int) *Manager {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewManager(workers, log)
}

func waitForStatus(t *testing.T, m *Manager, id string, want Status) Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := m.Get(id)
		require.NoError(t, err)
		if job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", id, want)
	return Job{}
}

func TestSubmitAndComplete(t *testing.T) {
	m := testManager(1)
	m.Start()
	defer m.Stop()

	id, err := m.Submit(JobTypeSimulation, PriorityMedium, func() (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	job := waitForStatus(t, m, id, StatusCompleted)
	assert.Equal(t, 42, job.Result)
	assert.Equal(t, GetJobDescription(JobTypeSimulation), job.Description)
	assert.NotNil(t, job.StartedAt)
	assert.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.Error)
}

func TestFailedJob(t *testing.T) {
	m := testManager(1)
	m.Start()
	defer m.Stop()

	id, err := m.Submit(JobTypeSimulation, PriorityMedium, func() (interface{}, error) {
		return nil, errors.New("boom")
	})
	require.NoError(t, err)

	job := waitForStatus(t, m, id, StatusFailed)
	assert.Equal(t, "boom", job.Error)
	assert.Nil(t, job.Result)
}

func TestGetUnknownJob(t *testing.T) {
	m := testManager(1)

	_, err := m.Get("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestCancelPendingJob(t *testing.T) {
	// Not started: submitted jobs stay pending and can be cancelled.
	m := testManager(1)

	id, err := m.Submit(JobTypeSimulation, PriorityLow, func() (interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)

	require.NoError(t, m.Cancel(id))

	job, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, job.Status)

	// A cancelled job is not executed once workers start.
	m.Start()
	defer m.Stop()
	time.Sleep(50 * time.Millisecond)

	job, err = m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, job.Status)
	assert.Nil(t, job.StartedAt)
}

func TestCancelCompletedJobFails(t *testing.T) {
	m := testManager(1)
	m.Start()
	defer m.Stop()

	id, err := m.Submit(JobTypeSimulation, PriorityMedium, func() (interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)
	waitForStatus(t, m, id, StatusCompleted)

	assert.ErrorIs(t, m.Cancel(id), ErrNotCancellable)
}

func TestCancelUnknownJob(t *testing.T) {
	m := testManager(1)
	assert.ErrorIs(t, m.Cancel("missing"), ErrJobNotFound)
}

func TestHighPriorityRunsFirst(t *testing.T) {
	m := testManager(1)

	var order []string
	done := make(chan struct{}, 2)
	record := func(name string) Task {
		return func() (interface{}, error) {
			order = append(order, name)
			done <- struct{}{}
			return nil, nil
		}
	}

	// Enqueue before starting so dispatch order is deterministic.
	_, err := m.Submit(JobTypeSimulation, PriorityLow, record("low"))
	require.NoError(t, err)
	_, err = m.Submit(JobTypeSimulation, PriorityHigh, record("high"))
	require.NoError(t, err)

	m.Start()
	defer m.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("jobs did not finish")
		}
	}

	require.Len(t, order, 2)
	assert.Equal(t, "high", order[0])
}

func TestStats(t *testing.T) {
	m := testManager(2)
	m.Start()
	defer m.Stop()

	var running atomic.Int32
	release := make(chan struct{})

	id1, err := m.Submit(JobTypeSimulation, PriorityMedium, func() (interface{}, error) {
		running.Add(1)
		<-release
		return nil, nil
	})
	require.NoError(t, err)

	waitForStatus(t, m, id1, StatusProcessing)

	stats := m.Stats()
	assert.Equal(t, 1, stats.Processing)
	assert.Equal(t, 2, stats.Workers)
	assert.Equal(t, 1, stats.Total)

	close(release)
	waitForStatus(t, m, id1, StatusCompleted)

	stats = m.Stats()
	assert.Equal(t, 1, stats.Completed)
}

func TestDeleteFinished(t *testing.T) {
	m := testManager(1)
	m.Start()
	defer m.Stop()

	id, err := m.Submit(JobTypeSimulation, PriorityMedium, func() (interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)
	waitForStatus(t, m, id, StatusCompleted)

	// Zero retention removes everything that has finished.
	removed := m.DeleteFinished(0)
	assert.Equal(t, 1, removed)

	_, err = m.Get(id)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStopWaitsForWorkers(t *testing.T) {
	m := testManager(1)
	m.Start()

	id, err := m.Submit(JobTypeSimulation, PriorityMedium, func() (interface{}, error) {
		time.Sleep(20 * time.Millisecond)
		return "done", nil
	})
	require.NoError(t, err)
	waitForStatus(t, m, id, StatusProcessing)

	m.Stop()

	job, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, job.Status)
}
