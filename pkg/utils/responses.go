package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// ErrorDetail is the machine-readable part of an error response.
type ErrorDetail struct {
	Code string `json:"code"`
}

// ResponseJSON writes JSON response with custom status code
func ResponseJSON(w http.ResponseWriter, code int, success bool, message string, data, errors any) {
	response := Response{
		Success: success,
		Message: message,
		Data:    data,
		Errors:  errors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, true, message, data, nil)
}

// ------------- Error responses -------------

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseJSON(w, http.StatusBadRequest, false, message, nil, errors)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusUnauthorized, false, message, nil, ErrorDetail{Code: "unauthorized"})
}

// returns 409 Conflict
func ResponseConflict(w http.ResponseWriter, message, code string) {
	ResponseJSON(w, http.StatusConflict, false, message, nil, ErrorDetail{Code: code})
}

// returns 429 Too Many Requests with Retry-After in whole seconds
func ResponseTooManyRequests(w http.ResponseWriter, message string, retryAfterSeconds int) {
	if retryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	ResponseJSON(w, http.StatusTooManyRequests, false, message, nil, ErrorDetail{Code: "throttled"})
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusInternalServerError, false, message, nil, nil)
}

// returns 502 Bad Gateway
func ResponseBadGateway(w http.ResponseWriter, message, code string) {
	ResponseJSON(w, http.StatusBadGateway, false, message, nil, ErrorDetail{Code: code})
}

// returns 503 Service Unavailable
func ResponseServiceUnavailable(w http.ResponseWriter, message, code string) {
	ResponseJSON(w, http.StatusServiceUnavailable, false, message, nil, ErrorDetail{Code: code})
}
