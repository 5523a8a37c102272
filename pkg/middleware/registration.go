package middleware

import (
	"net/http"
	"strings"

	"otp-registration/internal/data/entity"
	"otp-registration/pkg/utils"

	"go.uber.org/zap"
)

// SessionAuthorizer resolves a registration session token to its identity pair.
type SessionAuthorizer interface {
	Authorize(token string) (entity.IdentityPair, error)
}

// RegistrationSession admits only requests carrying a valid registration session token
// and puts the verified identity in the request context.
func RegistrationSession(gate SessionAuthorizer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			identity, err := gate.Authorize(strings.TrimSpace(token))
			if err != nil {
				logger.Warn("Registration session rejected",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetIdentityContext(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
