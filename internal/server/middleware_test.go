package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiters_EvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	cl := newClientLimiters(1, 2)
	cl.now = func() time.Time { return now }
	assert.Equal(t, minLimiterIdle, cl.idleTTL)

	a := cl.get("10.0.0.1")
	cl.get("10.0.0.2")
	assert.Equal(t, 2, cl.size())
	assert.Same(t, a, cl.get("10.0.0.1"), "active client keeps its bucket")

	now = now.Add(minLimiterIdle / 2)
	cl.get("10.0.0.1")

	now = now.Add(minLimiterIdle/2 + time.Minute)
	cl.get("10.0.0.3")
	assert.Equal(t, 2, cl.size(), "10.0.0.2 idle past the TTL is gone")

	now = now.Add(2 * minLimiterIdle)
	cl.get("10.0.0.4")
	assert.Equal(t, 1, cl.size())
}

func TestClientLimiters_TTLCoversRefill(t *testing.T) {
	cl := newClientLimiters(0.001, 2)
	assert.Equal(t, 2000*time.Second, cl.idleTTL)
}
