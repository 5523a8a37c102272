package adaptor

import (
	"net/http"

	"otp-registration/internal/data/entity"
	"otp-registration/internal/dto/request"
	"otp-registration/internal/dto/response"
	"otp-registration/internal/usecase"
	"otp-registration/pkg/utils"

	"go.uber.org/zap"
)

// RegistrationHandler serves the token-gated routes. Identity always comes
// from the request context set by middleware.RegistrationSession.
type RegistrationHandler struct {
	service usecase.RegistrationService
	log     *zap.Logger
}

func NewRegistrationHandler(service usecase.RegistrationService, log *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
		log:     log,
	}
}

// GetForm handles GET /api/form
func (h *RegistrationHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetIdentityFromContext(r.Context()); !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	fields, err := h.service.GetFormSchema(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get form schema")
		return
	}

	utils.ResponseSuccess(w, "Form schema retrieved", response.FormSchemaResponse{Fields: fields})
}

// GetDraft handles GET /api/register/draft
func (h *RegistrationHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	draft, err := h.service.GetDraft(r.Context(), identity)
	if err != nil {
		handleServiceError(w, h.log, err, "get draft")
		return
	}

	utils.ResponseSuccess(w, "Draft retrieved", response.DraftResponse{Draft: draft})
}

// SaveDraft handles POST /api/register/draft
func (h *RegistrationHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	identity, req, ok := h.parse(w, r)
	if !ok {
		return
	}

	reg, err := h.service.SaveDraft(r.Context(), identity, entity.FormFields(req.FormData), req.Static())
	if err != nil {
		handleServiceError(w, h.log, err, "save draft")
		return
	}

	utils.ResponseSuccess(w, "Draft saved successfully.", response.RegistrationResponse{
		RegistrationID: reg.RegistrationID,
		IsDraft:        reg.IsDraft,
	})
}

// Submit handles POST /api/register
func (h *RegistrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, req, ok := h.parse(w, r)
	if !ok {
		return
	}

	reg, err := h.service.SubmitFinal(r.Context(), identity, entity.FormFields(req.FormData), req.Static())
	if err != nil {
		handleServiceError(w, h.log, err, "submit registration")
		return
	}

	utils.ResponseCreated(w, "Registration successful.", response.RegistrationResponse{
		RegistrationID: reg.RegistrationID,
		IsDraft:        reg.IsDraft,
	})
}

func (h *RegistrationHandler) parse(w http.ResponseWriter, r *http.Request) (entity.IdentityPair, *request.RegistrationRequest, bool) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return entity.IdentityPair{}, nil, false
	}

	var req request.RegistrationRequest
	if !decodeAndValidate(w, r, &req) {
		return entity.IdentityPair{}, nil, false
	}

	return identity, &req, true
}
