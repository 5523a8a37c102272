package adaptor

import (
	"encoding/json"
	"net/http"

	"otp-registration/internal/dto/request"
	"otp-registration/internal/usecase"
	"otp-registration/pkg/utils"

	"go.uber.org/zap"
)

type OTPHandler struct {
	service usecase.OTPService
	log     *zap.Logger
}

func NewOTPHandler(service usecase.OTPService, log *zap.Logger) *OTPHandler {
	return &OTPHandler{
		service: service,
		log:     log,
	}
}

// SendEmailOTP handles POST /api/otp/send-email
func (h *OTPHandler) SendEmailOTP(w http.ResponseWriter, r *http.Request) {
	var req request.SendOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.SendEmailOTP(r.Context(), req.Pair()); err != nil {
		handleServiceError(w, h.log, err, "send email otp")
		return
	}

	utils.ResponseSuccess(w, "Email OTP sent successfully.", nil)
}

// SendPhoneOTP handles POST /api/otp/send-phone
func (h *OTPHandler) SendPhoneOTP(w http.ResponseWriter, r *http.Request) {
	var req request.SendOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.SendPhoneOTP(r.Context(), req.Pair()); err != nil {
		handleServiceError(w, h.log, err, "send phone otp")
		return
	}

	utils.ResponseSuccess(w, "Phone OTP sent successfully.", nil)
}

// Verify handles POST /api/otp/verify
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.service.Verify(r.Context(), req.Pair(), req.EmailOTP, req.MobileOTP)
	if err != nil {
		handleServiceError(w, h.log, err, "verify otp")
		return
	}

	utils.ResponseSuccess(w, "Verification successful.", session)
}

// decodeAndValidate writes a 400 and returns false when the body is unusable.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", utils.ErrorDetail{Code: CodeValidation})
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", map[string]any{
			"code":   CodeValidation,
			"fields": validationErrors,
		})
		return false
	}

	return true
}
