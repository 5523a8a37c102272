package utils

import (
	"context"

	"otp-registration/internal/data/entity"
)

type contextKey string

const (
	IdentityKey contextKey = "registration_identity"
)

// SetIdentityContext stores the identity recovered from a verified registration session token.
func SetIdentityContext(ctx context.Context, identity entity.IdentityPair) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentityFromContext returns the identity set by the registration session middleware.
func GetIdentityFromContext(ctx context.Context) (entity.IdentityPair, bool) {
	identity, ok := ctx.Value(IdentityKey).(entity.IdentityPair)
	if !ok || identity.Email == "" || identity.Mobile == "" {
		return entity.IdentityPair{}, false
	}
	return identity, true
}
