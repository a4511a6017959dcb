package middleware

import (
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/cors"
)

// Origins is the CORS allow-list. It can be swapped while serving, which the
// config watcher does in development.
type Origins struct {
	list atomic.Pointer[[]string]
}

func NewOrigins(origins []string) *Origins {
	o := &Origins{}
	o.Set(origins)
	return o
}

func (o *Origins) Set(origins []string) {
	cp := append([]string(nil), origins...)
	o.list.Store(&cp)
}

// Allowed matches exact origins, "*" and single-wildcard patterns such as
// "https://*.example.com".
func (o *Origins) Allowed(origin string) bool {
	for _, pattern := range *o.list.Load() {
		if pattern == "*" || pattern == origin {
			return true
		}
		if prefix, suffix, ok := strings.Cut(pattern, "*"); ok &&
			len(origin) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

func CORS(o *Origins) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc:  func(_ *http.Request, origin string) bool { return o.Allowed(origin) },
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Confirm"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
