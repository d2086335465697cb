package middleware

import (
	"net/http"
	"strings"

	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/contextkeys"
	"github.com/openshelf/openshelf/pkg/httputil"
	"github.com/openshelf/openshelf/pkg/observability"
)

// AuthMiddleware verifies bearer tokens and attaches the principal ID to
// the request context. It performs no store lookup; downstream checks
// that need full principal state fetch it themselves.
type AuthMiddleware struct {
	tokens  *auth.TokenService
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewAuthMiddleware creates the authentication middleware. metrics may be
// nil.
func NewAuthMiddleware(tokens *auth.TokenService, logger *observability.Logger, metrics *observability.Metrics) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger, metrics: metrics}
}

// Handler wraps an HTTP handler with authentication.
// The Authorization header must be exactly "Bearer <token>"; anything
// else is rejected with 401 before the token service is consulted.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.reject(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.reject(w, "invalid authorization header format")
			return
		}

		info, err := m.tokens.Verify(parts[1])
		if err != nil {
			// The cause (signature vs expiry vs malformed) stays in the
			// logs; the client sees one opaque message.
			m.logger.WithError(err).Debug("token verification failed")
			m.reject(w, "invalid or expired token")
			return
		}

		if m.metrics != nil {
			m.metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
		}

		ctx := contextkeys.WithPrincipalID(r.Context(), info.PrincipalID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, message string) {
	if m.metrics != nil {
		m.metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
	}
	httputil.WriteUnauthorized(w, message)
}
