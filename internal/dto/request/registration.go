package request

import "otp-registration/internal/data/entity"

type SendOTPRequest struct {
	Email  string `json:"email" validate:"required,email,max=254"`
	Mobile string `json:"mobile" validate:"required,mobile"`
}

func (r SendOTPRequest) Pair() entity.IdentityPair {
	return entity.IdentityPair{Email: r.Email, Mobile: r.Mobile}
}

type VerifyOTPRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Mobile    string `json:"mobile" validate:"required,mobile"`
	EmailOTP  string `json:"emailOtp" validate:"required,numeric,max=10"`
	MobileOTP string `json:"mobileOtp" validate:"required,numeric,max=10"`
}

func (r VerifyOTPRequest) Pair() entity.IdentityPair {
	return entity.IdentityPair{Email: r.Email, Mobile: r.Mobile}
}

// RegistrationRequest is the body of both draft saves and final submissions.
// Field values are opaque; only the formData keys are checked against the schema.
type RegistrationRequest struct {
	FormData    map[string]any `json:"formData"`
	FullName    string         `json:"fullName" validate:"max=200"`
	Gender      string         `json:"gender" validate:"max=50"`
	DateOfBirth string         `json:"dateOfBirth" validate:"max=50"`
}

func (r RegistrationRequest) Static() entity.StaticFields {
	return entity.StaticFields{
		FullName:    r.FullName,
		Gender:      r.Gender,
		DateOfBirth: r.DateOfBirth,
	}
}
