package wire

import (
	"otp-registration/internal/adaptor"
	"otp-registration/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Everything here requires a registration session token.
func wireRegister(
	r chi.Router,
	registrationHandler *adaptor.RegistrationHandler,
	gate middleware.SessionAuthorizer,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RegistrationSession(gate, log))

		r.Get("/api/form", registrationHandler.GetForm)
		r.Get("/api/register/draft", registrationHandler.GetDraft)
		r.Post("/api/register/draft", registrationHandler.SaveDraft)
		r.Post("/api/register", registrationHandler.Submit)
	})
}
