package qchat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func fakeProvider(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Client{
		apiKey:     "test-key",
		model:      "test-model",
		url:        srv.URL,
		httpClient: srv.Client(),
		log:        testLogger(),
	}
}

func TestQueryUnconfiguredFallsBack(t *testing.T) {
	client := NewClient("", "test-model", nil, testLogger())
	svc := NewService(client, nil, time.Second, testLogger())

	answer, err := svc.Query(context.Background(), "What is superposition?", "")
	require.NoError(t, err)
	assert.True(t, answer.Fallback)
	assert.Equal(t, "fallback", answer.Source)
	assert.Contains(t, answer.Reply, "Superposition")
}

func TestQueryEmptyQuestion(t *testing.T) {
	client := NewClient("", "test-model", nil, testLogger())
	svc := NewService(client, nil, time.Second, testLogger())

	_, err := svc.Query(context.Background(), "   ", "")
	require.Error(t, err)
}

func TestQueryUsesProvider(t *testing.T) {
	client := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "An answer."}},
			},
		})
	})
	svc := NewService(client, nil, time.Second, testLogger())

	answer, err := svc.Query(context.Background(), "Explain the H gate", "H on qubit 0")
	require.NoError(t, err)
	assert.False(t, answer.Fallback)
	assert.Equal(t, "llm", answer.Source)
	assert.Equal(t, "An answer.", answer.Reply)
	assert.Equal(t, "test-model", answer.Model)
}

func TestQueryProviderFailureFallsBackAndTripsBreaker(t *testing.T) {
	client := fakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})
	svc := NewService(client, nil, time.Second, testLogger())

	for i := 0; i < defaultFailureThreshold; i++ {
		answer, err := svc.Query(context.Background(), "What is a gate?", "")
		require.NoError(t, err)
		assert.True(t, answer.Fallback)
	}

	assert.Equal(t, StateOpen, svc.Status().BreakerState)
}

func TestStatus(t *testing.T) {
	client := NewClient("", "test-model", nil, testLogger())
	svc := NewService(client, nil, time.Second, testLogger())

	status := svc.Status()
	assert.False(t, status.Configured)
	assert.Equal(t, StateClosed, status.BreakerState)
	assert.Equal(t, "test-model", status.Model)
}
