package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Mobile string `json:"mobile" validate:"required,mobile"`
	Code   string `json:"code" validate:"omitempty,numeric"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		errs := ValidateStruct(sampleRequest{Email: "a@x.com", Mobile: "+919800000000", Code: "123456"})
		assert.Empty(t, errs)
	})

	t.Run("reports json field names", func(t *testing.T) {
		errs := ValidateStruct(&sampleRequest{Email: "nope", Mobile: "12ab", Code: "12a"})
		assert.Equal(t, map[string]string{
			"email":  "Invalid email format",
			"mobile": "Invalid mobile number",
			"code":   "Must contain digits only",
		}, errs)
	})

	t.Run("required", func(t *testing.T) {
		errs := ValidateStruct(sampleRequest{})
		assert.Equal(t, "This field is required", errs["email"])
		assert.Equal(t, "This field is required", errs["mobile"])
	})
}
