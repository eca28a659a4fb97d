package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/todos", "GET", 200, time.Millisecond)
	m.RecordRequest("/todos", "GET", 200, time.Millisecond)
	m.RecordError("/todos", "GET", "UNAUTHORIZED")
	m.RecordTokenRejection("expired")
	m.RecordTokenRejection("expired")
	m.RecordTokenRejection("malformed")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/todos|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/todos|GET|UNAUTHORIZED"])
	assert.Equal(t, map[string]int64{"expired": 2, "malformed": 1}, snap.TokenRejections)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, 0)
		m.RecordError("/", "GET", "X")
		m.RecordTokenRejection("malformed")
	})
}
