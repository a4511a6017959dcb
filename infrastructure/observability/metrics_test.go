package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector("devdash")

	c.ObserveHTTP("GET", "/api/v1/snippets", 200, 10*time.Millisecond)
	c.ObserveHTTP("GET", "/api/v1/snippets", 200, 20*time.Millisecond)
	c.ObserveStore("ideamap.update", time.Millisecond, errors.New("boom"))
	c.ObserveSave(nil)
	c.SetSessions(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/v1/snippets", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StoreOperations.WithLabelValues("ideamap.update", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.IdeaMapSaves.WithLabelValues("success")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.EditorSessions))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("devdash")
	b := NewCollector("devdash")
	a.ObserveSave(nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.IdeaMapSaves.WithLabelValues("success")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector("devdash")
	c.ObserveHTTP("POST", "/api/v1/notes", 201, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `devdash_http_requests_total{method="POST",route="/api/v1/notes",status="201"} 1`)
}

func TestDisabledTracing(t *testing.T) {
	tp := DisabledTracing()
	assert.False(t, tp.Enabled())
	_, span := tp.Tracer().Start(context.Background(), "noop")
	span.End()
	assert.NoError(t, tp.Shutdown(context.Background()))
}
