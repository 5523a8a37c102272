package messaging

import (
	"context"

	"go.uber.org/zap"
)

// Echo writes codes to the operator log instead of delivering them.
// Only for local and staging environments.
type Echo struct {
	log *zap.Logger
}

func NewEcho(log *zap.Logger) *Echo {
	return &Echo{log: log.With(zap.String("transport", "echo"))}
}

func (e *Echo) SendEmailOTP(_ context.Context, address, code string) error {
	e.log.Info("DEV EMAIL OTP", zap.String("email", address), zap.String("otp", code))
	return nil
}

func (e *Echo) SendSMSOTP(_ context.Context, number, code string) error {
	e.log.Info("DEV MOBILE OTP", zap.String("mobile", number), zap.String("otp", code))
	return nil
}
