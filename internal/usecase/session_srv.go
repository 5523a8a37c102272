package usecase

import (
	"fmt"

	"otp-registration/internal/data/entity"
	"otp-registration/internal/dto/response"
	"otp-registration/pkg/token"

	"go.uber.org/zap"
)

// SessionService mints and checks registration session tokens.
// Issue is only called by OTPService.Verify after both codes matched.
type SessionService interface {
	Issue(pair entity.IdentityPair) (*response.SessionResponse, error)
	Authorize(tokenString string) (entity.IdentityPair, error)
}

type sessionService struct {
	tokens *token.Manager
	log    *zap.Logger
}

func NewSessionService(tokens *token.Manager, log *zap.Logger) SessionService {
	return &sessionService{
		tokens: tokens,
		log:    log,
	}
}

func (s *sessionService) Issue(pair entity.IdentityPair) (*response.SessionResponse, error) {
	signed, expiresAt, err := s.tokens.Issue(pair.Email, pair.Mobile)
	if err != nil {
		s.log.Error("Failed to issue registration token", zap.Error(err), zap.String("email", pair.Email))
		return nil, fmt.Errorf("issue registration token: %w", err)
	}

	return &response.SessionResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *sessionService) Authorize(tokenString string) (entity.IdentityPair, error) {
	if tokenString == "" {
		return entity.IdentityPair{}, ErrUnauthorized
	}

	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		s.log.Debug("Registration token rejected", zap.Error(err))
		return entity.IdentityPair{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	return entity.IdentityPair{Email: claims.Email, Mobile: claims.Mobile}, nil
}
