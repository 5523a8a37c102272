package usecase

import "context"

//go:generate mockgen -source=transport.go -destination=mocks/transport_mock.go -package=mocks

// EmailTransport delivers an email OTP to an address.
type EmailTransport interface {
	SendEmailOTP(ctx context.Context, address, code string) error
}

// SMSTransport delivers an SMS OTP to a mobile number.
type SMSTransport interface {
	SendSMSOTP(ctx context.Context, number, code string) error
}
