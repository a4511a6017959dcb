package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"devdash-backend/pkg/auth"
	"devdash-backend/pkg/common"
)

// OptionalAuth resolves a bearer token when one is sent. Requests without an
// Authorization header continue anonymously; a token that does not verify
// is rejected. A nil verifier lets every request through anonymously.
func OptionalAuth(verifier auth.Verifier, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if verifier == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			user, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Warn("invalid token", zap.Error(err), zap.String("path", r.URL.Path))
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", unauthorizedMessage(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

func unauthorizedMessage(err error) string {
	switch err {
	case auth.ErrExpiredToken:
		return "Token has expired"
	case auth.ErrInvalidSignature:
		return "Invalid token signature"
	}
	return "Invalid token"
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}
