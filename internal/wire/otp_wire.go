package wire

import (
	"otp-registration/internal/adaptor"
	"otp-registration/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

// OTP routes are public but rate limited per client IP.
func wireOTP(r chi.Router, otpHandler *adaptor.OTPHandler, limiter *middleware.IPRateLimiter) {
	r.Route("/api/otp", func(r chi.Router) {
		r.Use(limiter.Middleware())

		r.Post("/send-email", otpHandler.SendEmailOTP)
		r.Post("/send-phone", otpHandler.SendPhoneOTP)
		r.Post("/verify", otpHandler.Verify)
	})
}
