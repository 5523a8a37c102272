package adaptor

import (
	"otp-registration/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	OTP          *OTPHandler
	Registration *RegistrationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		OTP:          NewOTPHandler(service.OTP, log),
		Registration: NewRegistrationHandler(service.Registration, log),
	}
}
