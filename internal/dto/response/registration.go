package response

import (
	"time"

	"otp-registration/internal/data/entity"
)

// SessionResponse carries the registration session token minted after verification.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type FormSchemaResponse struct {
	Fields []entity.SchemaField `json:"fields"`
}

type DraftResponse struct {
	Draft *entity.Registration `json:"draft"`
}

type RegistrationResponse struct {
	RegistrationID string `json:"registrationId"`
	IsDraft        bool   `json:"isDraft"`
}
