package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devdash-backend/pkg/auth"
)

type stubVerifier map[string]*auth.User

func (s stubVerifier) Verify(_ context.Context, token string) (*auth.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, auth.ErrInvalidToken
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.UserFrom(r.Context()); ok {
		_, _ = w.Write([]byte(u.ID))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
}

func TestOptionalAuth(t *testing.T) {
	h := OptionalAuth(stubVerifier{"good": {ID: "u1"}}, zap.NewNop())(http.HandlerFunc(whoAmI))

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"bearer token", "Bearer good", http.StatusOK, "u1"},
		{"lowercase scheme", "bearer good", http.StatusOK, "u1"},
		{"bad token", "Bearer bad", http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestOptionalAuthWithoutVerifier(t *testing.T) {
	h := OptionalAuth(nil, zap.NewNop())(http.HandlerFunc(whoAmI))
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewIPRateLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("2.2.2.2"), "buckets are per address")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.1.1.1"))

	now = now.Add(10 * time.Minute)
	l.Allow("3.3.3.3")
	assert.Len(t, l.visitors, 1, "idle buckets are swept")
}

func TestRateLimitMiddleware(t *testing.T) {
	l := NewIPRateLimiter(0.001, 1)
	h := RateLimit(l)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

type observed struct {
	method, route string
	status        int
}

type recordingObserver struct{ got []observed }

func (r *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	r.got = append(r.got, observed{method, route, status})
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	obs := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(Metrics(obs))
	r.Delete("/snippets/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("DELETE", "/snippets/abc", nil))
	require.Len(t, obs.got, 1)
	assert.Equal(t, observed{"DELETE", "/snippets/{id}", http.StatusNoContent}, obs.got[0])
}

func TestOrigins(t *testing.T) {
	o := NewOrigins([]string{"http://localhost:3000", "https://*.devdash.app"})
	assert.True(t, o.Allowed("http://localhost:3000"))
	assert.True(t, o.Allowed("https://preview.devdash.app"))
	assert.False(t, o.Allowed("https://devdash.app.evil.com"))
	assert.False(t, o.Allowed("http://localhost:4000"))

	o.Set([]string{"*"})
	assert.True(t, o.Allowed("http://localhost:4000"))
}

func TestCORSPreflight(t *testing.T) {
	h := CORS(NewOrigins([]string{"http://localhost:3000"}))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest("OPTIONS", "/api/v1/snippets", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	req.Header.Set("Access-Control-Request-Headers", "X-Confirm")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
