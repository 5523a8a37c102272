package usecase

import (
	"errors"
	"fmt"

	"otp-registration/internal/data/entity"
)

var (
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrThrottled         = errors.New("otp requested too soon")
	ErrChallengeNotFound = errors.New("otp challenge not found or expired")
	ErrIncompleteRequest = errors.New("both otps must be sent before verification")
	ErrInvalidMobileOTP  = errors.New("invalid mobile otp")
	ErrInvalidEmailOTP   = errors.New("invalid email otp")
	ErrUnauthorized      = errors.New("invalid or expired registration session")
	ErrDispatchFailure   = errors.New("otp dispatch failed")
	ErrPersistence       = errors.New("persistence failure")
	ErrUnknownField      = errors.New("unknown form field")
)

// ThrottledError reports how long the caller must wait before asking again.
type ThrottledError struct {
	Channel          entity.Channel
	RemainingSeconds int
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("%s: retry %s otp in %ds", ErrThrottled, e.Channel, e.RemainingSeconds)
}

func (e *ThrottledError) Is(target error) bool {
	return target == ErrThrottled
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
