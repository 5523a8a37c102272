package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseTooManyRequests(t *testing.T) {
	rr := httptest.NewRecorder()

	ResponseTooManyRequests(rr, "slow down", 7)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "7", rr.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"message":"slow down","errors":{"code":"throttled"}}`, rr.Body.String())
}

func TestResponseSuccess_OmitsEmptyErrors(t *testing.T) {
	rr := httptest.NewRecorder()

	ResponseSuccess(rr, "ok", map[string]string{"token": "t"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"ok","data":{"token":"t"}}`, rr.Body.String())
}

func TestResponseConflict(t *testing.T) {
	rr := httptest.NewRecorder()

	ResponseConflict(rr, "taken", "already_registered")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"taken","errors":{"code":"already_registered"}}`, rr.Body.String())
}
