package adaptor

import (
	"errors"
	"fmt"
	"net/http"

	"otp-registration/internal/data/entity"
	"otp-registration/internal/usecase"
	"otp-registration/pkg/utils"

	"go.uber.org/zap"
)

// Machine-readable codes carried in errors.code.
const (
	CodeAlreadyRegistered = "already_registered"
	CodeOTPExpired        = "otp_expired"
	CodeIncomplete        = "otp_incomplete"
	CodeInvalidMobileOTP  = "invalid_mobile_otp"
	CodeInvalidEmailOTP   = "invalid_email_otp"
	CodeUnknownField      = "unknown_field"
	CodeDispatchFailed    = "dispatch_failed"
	CodePersistence       = "persistence_unavailable"
	CodeValidation        = "validation_failed"
)

// handleServiceError maps usecase errors onto the response envelope.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var throttled *usecase.ThrottledError

	switch {
	case errors.As(err, &throttled):
		utils.ResponseTooManyRequests(w, throttledMessage(throttled), throttled.RemainingSeconds)

	case errors.Is(err, usecase.ErrAlreadyRegistered):
		utils.ResponseConflict(w, "User already registered.", CodeAlreadyRegistered)

	case errors.Is(err, usecase.ErrChallengeNotFound):
		utils.ResponseBadRequest(w, "OTP expired. Please resend.", utils.ErrorDetail{Code: CodeOTPExpired})

	case errors.Is(err, usecase.ErrIncompleteRequest):
		utils.ResponseBadRequest(w, "Please send both OTPs first.", utils.ErrorDetail{Code: CodeIncomplete})

	case errors.Is(err, usecase.ErrInvalidMobileOTP):
		utils.ResponseBadRequest(w, "Invalid mobile OTP.", utils.ErrorDetail{Code: CodeInvalidMobileOTP})

	case errors.Is(err, usecase.ErrInvalidEmailOTP):
		utils.ResponseBadRequest(w, "Invalid email OTP.", utils.ErrorDetail{Code: CodeInvalidEmailOTP})

	case errors.Is(err, usecase.ErrUnknownField):
		utils.ResponseBadRequest(w, err.Error(), utils.ErrorDetail{Code: CodeUnknownField})

	case errors.Is(err, usecase.ErrUnauthorized):
		utils.ResponseUnauthorized(w, "Invalid or expired session")

	case errors.Is(err, usecase.ErrDispatchFailure):
		log.Error(operation+" failed - dispatch", zap.Error(err))
		utils.ResponseBadGateway(w, "Could not deliver OTP. Please try again.", CodeDispatchFailed)

	case errors.Is(err, usecase.ErrPersistence):
		log.Error(operation+" failed - persistence", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Service temporarily unavailable. Please try again.", CodePersistence)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func throttledMessage(e *usecase.ThrottledError) string {
	what := "SMS"
	if e.Channel == entity.ChannelEmail {
		what = "email OTP"
	}
	return fmt.Sprintf("Please wait %d seconds before resending %s.", e.RemainingSeconds, what)
}
