package entity

import "time"

// FormFields holds schema-defined answers keyed by field name.
type FormFields map[string]any

// StaticFields are the fixed profile fields every registration carries.
type StaticFields struct {
	FullName    string `json:"fullName"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"`
}

type Registration struct {
	BaseNoDelete
	RegistrationID   string     `db:"registration_id" json:"registrationId"`
	Email            string     `db:"email" json:"email"`
	Mobile           string     `db:"mobile" json:"mobile"`
	FullName         string     `db:"full_name" json:"fullName"`
	Gender           string     `db:"gender" json:"gender"`
	DateOfBirth      string     `db:"date_of_birth" json:"dateOfBirth"`
	FormData         FormFields `db:"form_data" json:"formData"`
	IsDraft          bool       `db:"is_draft" json:"isDraft"`
	IsInactive       bool       `db:"is_inactive" json:"isInactive"`
	OTPVerifiedEmail bool       `db:"otp_verified_email" json:"otpVerifiedEmail"`
	OTPVerifiedPhone bool       `db:"otp_verified_phone" json:"otpVerifiedPhone"`
}

// RegistrationUpsert is the full field set written by a draft save or final submit.
type RegistrationUpsert struct {
	Identity       IdentityPair
	Static         StaticFields
	FormData       FormFields
	IsDraft        bool
	RegistrationID string // used only when the record is created
	Now            time.Time
}
