package usecase

import (
	"otp-registration/internal/data/repository"
	"otp-registration/pkg/metrics"
	"otp-registration/pkg/token"
	"otp-registration/pkg/utils"

	"go.uber.org/zap"
)

// Collaborators are the process-scoped dependencies built once at boot.
type Collaborators struct {
	Cooldown *CooldownTracker
	Email    EmailTransport
	SMS      SMSTransport
	Tokens   *token.Manager
	Metrics  metrics.Recorder
}

type Service struct {
	OTP          OTPService
	Session      SessionService
	Registration RegistrationService
}

func NewService(repo *repository.Repository, deps Collaborators, config *utils.Config, log *zap.Logger) *Service {
	session := NewSessionService(deps.Tokens, log)

	return &Service{
		OTP:          NewOTPService(repo, deps.Cooldown, deps.Email, deps.SMS, session, deps.Metrics, config.OTP, log),
		Session:      session,
		Registration: NewRegistrationService(repo, deps.Metrics, log),
	}
}
