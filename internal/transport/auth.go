package transport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ganot/tasktrack/internal/auth"
)

// AuthMiddleware enforces bearer token authentication and stores the
// resolved principal in the request context. Resolver failures other than an
// unknown key are logged and answered with 500.
func AuthMiddleware(resolver auth.Resolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if auth.BearerToken(header) == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			p, err := auth.Authenticate(r.Context(), resolver, header)
			if errors.Is(err, auth.ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "invalid bearer token")
				return
			}
			if err != nil {
				if logger != nil {
					logger.Error("authentication failed", "path", r.URL.Path, "error", err)
				}
				writeError(w, http.StatusInternalServerError, "authentication unavailable")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// DefaultPrincipalMiddleware stands in for auth when it is disabled: every
// request acts for the default tenant, with no bound user.
func DefaultPrincipalMiddleware(tenantID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithPrincipal(r.Context(), auth.Principal{TenantID: tenantID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
