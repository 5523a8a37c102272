package usecase

import (
	"testing"
	"time"

	"otp-registration/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionService_Authorize(t *testing.T) {
	clock := newFakeClock()
	tokens := token.NewManager(testSecret, "otp-registration", 15*time.Minute, token.WithClock(clock.Now))
	svc := NewSessionService(tokens, zap.NewNop())

	issued, err := svc.Issue(testPair)
	require.NoError(t, err)

	t.Run("valid token yields the verified pair", func(t *testing.T) {
		identity, err := svc.Authorize(issued.Token)
		require.NoError(t, err)
		assert.Equal(t, testPair, identity)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.Authorize("")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := svc.Authorize("not.a.jwt")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := token.NewManager("another-secret-another-secret-xx", "otp-registration", 15*time.Minute, token.WithClock(clock.Now))
		forged, _, err := other.Issue(testPair.Email, testPair.Mobile)
		require.NoError(t, err)

		_, err = svc.Authorize(forged)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token from another issuer", func(t *testing.T) {
		other := token.NewManager(testSecret, "someone-else", 15*time.Minute, token.WithClock(clock.Now))
		foreign, _, err := other.Issue(testPair.Email, testPair.Mobile)
		require.NoError(t, err)

		_, err = svc.Authorize(foreign)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired token is rejected although well formed", func(t *testing.T) {
		clock.Advance(15*time.Minute + time.Second)

		_, err := svc.Authorize(issued.Token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
