package usecase

import (
	"context"
	"fmt"
	"time"

	"otp-registration/internal/data/entity"
	"otp-registration/internal/data/repository"
	"otp-registration/internal/dto/response"
	"otp-registration/pkg/metrics"
	"otp-registration/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type OTPService interface {
	SendEmailOTP(ctx context.Context, pair entity.IdentityPair) error
	SendPhoneOTP(ctx context.Context, pair entity.IdentityPair) error
	Issue(ctx context.Context, pair entity.IdentityPair, ch entity.Channel) error
	// Verify consumes the challenge for pair when both codes match and returns a session token.
	Verify(ctx context.Context, pair entity.IdentityPair, emailCode, mobileCode string) (*response.SessionResponse, error)
}

type otpService struct {
	repo     *repository.Repository
	cooldown *CooldownTracker
	email    EmailTransport
	sms      SMSTransport
	session  SessionService
	metrics  metrics.Recorder
	config   utils.OTPConfig
	log      *zap.Logger
	now      func() time.Time
}

func NewOTPService(
	repo *repository.Repository,
	cooldown *CooldownTracker,
	email EmailTransport,
	sms SMSTransport,
	session SessionService,
	recorder metrics.Recorder,
	config utils.OTPConfig,
	log *zap.Logger,
) OTPService {
	return &otpService{
		repo:     repo,
		cooldown: cooldown,
		email:    email,
		sms:      sms,
		session:  session,
		metrics:  recorder,
		config:   config,
		log:      log,
		now:      time.Now,
	}
}

func (s *otpService) SendEmailOTP(ctx context.Context, pair entity.IdentityPair) error {
	return s.Issue(ctx, pair, entity.ChannelEmail)
}

func (s *otpService) SendPhoneOTP(ctx context.Context, pair entity.IdentityPair) error {
	return s.Issue(ctx, pair, entity.ChannelMobile)
}

func (s *otpService) Issue(ctx context.Context, pair entity.IdentityPair, ch entity.Channel) error {
	log := s.log.With(
		zap.String("channel", string(ch)),
		zap.String("email", pair.Email),
		zap.String("mobile", pair.Mobile),
	)

	// 1. A finalized registration for either identifier blocks new codes
	for _, identifier := range []string{pair.Email, pair.Mobile} {
		exists, err := s.repo.Registration.ExistsFinalized(ctx, identifier)
		if err != nil {
			return persistenceError("check existing registration", err)
		}
		if exists {
			log.Warn("OTP requested for registered identity")
			s.metrics.RecordOTPRejected(string(ch), "already_registered")
			return ErrAlreadyRegistered
		}
	}

	// 2. Cooldown per channel identifier
	identifier := pair.Identifier(ch)
	if allowed, remaining := s.cooldown.CheckAndRecord(identifier); !allowed {
		log.Warn("OTP requested during cooldown", zap.Int("remaining_seconds", remaining))
		s.metrics.RecordOTPRejected(string(ch), "throttled")
		return &ThrottledError{Channel: ch, RemainingSeconds: remaining}
	}

	// 3. Generate, hash and store
	code := utils.GenerateOTP(s.config.Length)
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.config.HashCost)
	if err != nil {
		s.cooldown.Clear(identifier)
		log.Error("Failed to hash OTP", zap.Error(err))
		return fmt.Errorf("hash otp: %w", err)
	}

	now := s.now()
	update := &entity.ChallengeUpdate{
		Pair:      pair,
		Channel:   ch,
		CodeHash:  string(hash),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.config.Expiry()),
	}
	if err := s.repo.Challenge.Upsert(ctx, update); err != nil {
		s.cooldown.Clear(identifier)
		s.metrics.RecordOTPRejected(string(ch), "persistence")
		return persistenceError("store otp challenge", err)
	}

	// 4. Dispatch
	if err := s.dispatch(ctx, pair, ch, code); err != nil {
		if s.config.DispatchMode == utils.DispatchModeLive {
			s.cooldown.Clear(identifier)
			log.Error("Failed to dispatch OTP", zap.Error(err))
			s.metrics.RecordOTPRejected(string(ch), "dispatch")
			return fmt.Errorf("%w: %w", ErrDispatchFailure, err)
		}
		log.Warn("OTP dispatch failed in echo mode", zap.Error(err))
	}

	log.Info("OTP issued", zap.Time("expires_at", update.ExpiresAt))
	s.metrics.RecordOTPIssued(string(ch))
	return nil
}

func (s *otpService) dispatch(ctx context.Context, pair entity.IdentityPair, ch entity.Channel, code string) error {
	if ch == entity.ChannelEmail {
		return s.email.SendEmailOTP(ctx, pair.Email, code)
	}
	return s.sms.SendSMSOTP(ctx, pair.Mobile, code)
}

func (s *otpService) Verify(ctx context.Context, pair entity.IdentityPair, emailCode, mobileCode string) (*response.SessionResponse, error) {
	log := s.log.With(zap.String("email", pair.Email), zap.String("mobile", pair.Mobile))

	challenge, err := s.repo.Challenge.FindActive(ctx, pair)
	if err != nil {
		s.metrics.RecordVerify("error")
		return nil, persistenceError("load otp challenge", err)
	}
	if challenge == nil {
		s.metrics.RecordVerify("not_found")
		return nil, ErrChallengeNotFound
	}
	if !challenge.Ready() {
		s.metrics.RecordVerify("incomplete")
		return nil, ErrIncompleteRequest
	}

	// Mobile is always checked first
	if !codeMatches(challenge.MobileCodeHash, mobileCode) {
		log.Warn("Mobile OTP mismatch")
		s.metrics.RecordVerify("invalid_mobile")
		return nil, ErrInvalidMobileOTP
	}
	if !codeMatches(challenge.EmailCodeHash, emailCode) {
		log.Warn("Email OTP mismatch")
		s.metrics.RecordVerify("invalid_email")
		return nil, ErrInvalidEmailOTP
	}

	// Minted before the delete so a signing failure leaves the challenge usable.
	// Only the caller whose delete succeeds gets to keep it.
	session, err := s.session.Issue(pair)
	if err != nil {
		s.metrics.RecordVerify("error")
		return nil, err
	}

	deleted, err := s.repo.Challenge.Delete(ctx, challenge)
	if err != nil {
		s.metrics.RecordVerify("error")
		return nil, persistenceError("consume otp challenge", err)
	}
	if !deleted {
		log.Warn("OTP challenge consumed concurrently")
		s.metrics.RecordVerify("not_found")
		return nil, ErrChallengeNotFound
	}

	s.cooldown.Clear(pair.Email, pair.Mobile)

	log.Info("Identity pair verified")
	s.metrics.RecordVerify("success")
	return session, nil
}

func codeMatches(hash *string, code string) bool {
	if hash == nil || code == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(code)) == nil
}
