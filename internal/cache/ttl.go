package cache

import "time"

// TTL constants for the cached response types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// Simulation results are deterministic for a given circuit, but
	// short TTLs keep the cache small and bound staleness after
	// deployments change payload shapes.
	TTLSimulation = 5 * time.Minute

	// Chat responses are expensive to produce and tolerant of reuse.
	TTLQChat = 10 * time.Minute
)
