package middleware

import (
	"net/http"

	"movie-galaxy/internal/usecase"
	"movie-galaxy/pkg/utils"

	"go.uber.org/zap"
)

// Session resolves the bearer token, if any, into a fresh SessionGate for
// the request. A token that does not resolve leaves the request anonymous.
func Session(newGate func(*zap.Logger) *usecase.SessionGate, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := utils.BearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			gate := newGate(logger)
			if err := gate.Restore(r.Context(), token); err != nil {
				logger.Warn("Session restore failed, continuing anonymous",
					zap.Error(err),
					zap.String("path", r.URL.Path))
			}

			ctx := usecase.WithGate(r.Context(), gate)
			ctx = utils.SetClientContext(ctx, utils.ClientFromRequest(r))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without a signed-in session
func RequireAuth(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gate, ok := usecase.GateFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if _, signedIn := gate.Identity(); !signedIn {
				logger.Warn("Unauthenticated access attempt", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Admin rejects signed-in users the admin policy does not accept
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gate, ok := usecase.GateFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			identity, signedIn := gate.Identity()
			if !signedIn {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !gate.IsAdmin() {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", identity.UserID),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
