package adaptor

import (
	"context"

	"otp-registration/internal/data/entity"
	"otp-registration/internal/dto/response"
)

type fakeOTPService struct {
	sendEmailFn func(ctx context.Context, pair entity.IdentityPair) error
	sendPhoneFn func(ctx context.Context, pair entity.IdentityPair) error
	verifyFn    func(ctx context.Context, pair entity.IdentityPair, emailCode, mobileCode string) (*response.SessionResponse, error)
}

func (f *fakeOTPService) SendEmailOTP(ctx context.Context, pair entity.IdentityPair) error {
	return f.sendEmailFn(ctx, pair)
}

func (f *fakeOTPService) SendPhoneOTP(ctx context.Context, pair entity.IdentityPair) error {
	return f.sendPhoneFn(ctx, pair)
}

func (f *fakeOTPService) Issue(ctx context.Context, pair entity.IdentityPair, ch entity.Channel) error {
	if ch == entity.ChannelEmail {
		return f.SendEmailOTP(ctx, pair)
	}
	return f.SendPhoneOTP(ctx, pair)
}

func (f *fakeOTPService) Verify(ctx context.Context, pair entity.IdentityPair, emailCode, mobileCode string) (*response.SessionResponse, error) {
	return f.verifyFn(ctx, pair, emailCode, mobileCode)
}

type fakeRegistrationService struct {
	schemaFn   func(ctx context.Context) ([]entity.SchemaField, error)
	saveDraft  func(ctx context.Context, identity entity.IdentityPair, form entity.FormFields, static entity.StaticFields) (*entity.Registration, error)
	getDraftFn func(ctx context.Context, identity entity.IdentityPair) (*entity.Registration, error)
	submitFn   func(ctx context.Context, identity entity.IdentityPair, form entity.FormFields, static entity.StaticFields) (*entity.Registration, error)
}

func (f *fakeRegistrationService) GetFormSchema(ctx context.Context) ([]entity.SchemaField, error) {
	return f.schemaFn(ctx)
}

func (f *fakeRegistrationService) SaveDraft(ctx context.Context, identity entity.IdentityPair, form entity.FormFields, static entity.StaticFields) (*entity.Registration, error) {
	return f.saveDraft(ctx, identity, form, static)
}

func (f *fakeRegistrationService) GetDraft(ctx context.Context, identity entity.IdentityPair) (*entity.Registration, error) {
	return f.getDraftFn(ctx, identity)
}

func (f *fakeRegistrationService) SubmitFinal(ctx context.Context, identity entity.IdentityPair, form entity.FormFields, static entity.StaticFields) (*entity.Registration, error) {
	return f.submitFn(ctx, identity, form, static)
}
