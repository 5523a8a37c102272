package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"otp-registration/internal/data/entity"
	"otp-registration/internal/dto/response"
	"otp-registration/internal/usecase/mocks"
	"otp-registration/pkg/metrics"
	"otp-registration/pkg/testutil"
	"otp-registration/pkg/token"
	"otp-registration/pkg/utils"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-test-secret-test-secret"

var testPair = entity.IdentityPair{Email: "a@x.com", Mobile: "+1555"}

type OTPServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	email    *mocks.MockEmailTransport
	sms      *mocks.MockSMSTransport
	repo     *testutil.MemoryRepository
	clock    *fakeClock
	cooldown *CooldownTracker
	tokens   *token.Manager
	config   utils.OTPConfig
	service  *otpService
}

func TestOTPServiceSuite(t *testing.T) {
	suite.Run(t, new(OTPServiceSuite))
}

func (s *OTPServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.email = mocks.NewMockEmailTransport(s.ctrl)
	s.sms = mocks.NewMockSMSTransport(s.ctrl)
	s.clock = newFakeClock()
	s.repo = testutil.NewMemoryRepository()
	s.repo.Challenges.Now = s.clock.Now
	s.cooldown = NewCooldownTracker(15*time.Second, WithClock(s.clock.Now))
	s.tokens = token.NewManager(testSecret, "otp-registration", 15*time.Minute, token.WithClock(s.clock.Now))
	s.config = utils.OTPConfig{
		ExpiryMinutes:   10,
		Length:          6,
		CooldownSeconds: 15,
		HashCost:        bcrypt.MinCost,
		DispatchMode:    utils.DispatchModeEcho,
	}
	s.service = s.newService(s.config)
}

func (s *OTPServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OTPServiceSuite) newService(config utils.OTPConfig) *otpService {
	log := zap.NewNop()
	svc := NewOTPService(
		s.repo.Repository,
		s.cooldown,
		s.email,
		s.sms,
		NewSessionService(s.tokens, log),
		metrics.Nop{},
		config,
		log,
	).(*otpService)
	svc.now = s.clock.Now
	return svc
}

// expectEmail captures the next email code sent to pair.Email.
func (s *OTPServiceSuite) expectEmail(pair entity.IdentityPair, code *string) {
	s.email.EXPECT().
		SendEmailOTP(gomock.Any(), pair.Email, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, c string) error {
			*code = c
			return nil
		})
}

func (s *OTPServiceSuite) expectSMS(pair entity.IdentityPair, code *string) {
	s.sms.EXPECT().
		SendSMSOTP(gomock.Any(), pair.Mobile, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, c string) error {
			*code = c
			return nil
		})
}

func (s *OTPServiceSuite) issueBoth(pair entity.IdentityPair) (emailCode, mobileCode string) {
	ctx := context.Background()
	s.expectEmail(pair, &emailCode)
	s.expectSMS(pair, &mobileCode)
	s.Require().NoError(s.service.SendEmailOTP(ctx, pair))
	s.Require().NoError(s.service.SendPhoneOTP(ctx, pair))
	return emailCode, mobileCode
}

func (s *OTPServiceSuite) TestIssue() {
	ctx := context.Background()

	s.Run("stores only a hash of the dispatched code", func() {
		s.SetupTest()
		var code string
		s.expectEmail(testPair, &code)

		s.Require().NoError(s.service.SendEmailOTP(ctx, testPair))

		s.Len(code, 6)
		challenge, err := s.repo.Challenges.FindActive(ctx, testPair)
		s.Require().NoError(err)
		s.Require().NotNil(challenge)
		s.True(challenge.EmailSent)
		s.False(challenge.MobileSent)
		s.Nil(challenge.MobileCodeHash)
		s.Require().NotNil(challenge.EmailCodeHash)
		s.NotEqual(code, *challenge.EmailCodeHash)
		s.NoError(bcrypt.CompareHashAndPassword([]byte(*challenge.EmailCodeHash), []byte(code)))
		s.Equal(s.clock.Now().Add(10*time.Minute), challenge.ExpiresAt)
	})

	s.Run("finalized registration blocks regardless of cooldown", func() {
		s.SetupTest()
		s.repo.Registrations.Seed(entity.Registration{Email: testPair.Email, Mobile: "+1999", IsDraft: false})

		err := s.service.SendEmailOTP(ctx, testPair)
		s.ErrorIs(err, ErrAlreadyRegistered)

		err = s.service.SendPhoneOTP(ctx, entity.IdentityPair{Email: "other@x.com", Mobile: "+1999"})
		s.ErrorIs(err, ErrAlreadyRegistered, "mobile match also blocks")
		s.Zero(s.cooldown.Len(), "rejected requests do not start a cooldown")
	})

	s.Run("draft and inactive records do not block", func() {
		s.SetupTest()
		s.repo.Registrations.Seed(entity.Registration{Email: testPair.Email, Mobile: testPair.Mobile, IsDraft: true})
		s.repo.Registrations.Seed(entity.Registration{Email: "b@x.com", Mobile: "+1666", IsInactive: true})

		var code string
		s.expectEmail(testPair, &code)
		s.NoError(s.service.SendEmailOTP(ctx, testPair))

		other := entity.IdentityPair{Email: "b@x.com", Mobile: "+1666"}
		s.expectSMS(other, &code)
		s.NoError(s.service.SendPhoneOTP(ctx, other))
	})

	s.Run("second request inside the cooldown is throttled", func() {
		s.SetupTest()
		var first, second string
		s.expectEmail(testPair, &first)
		s.Require().NoError(s.service.SendEmailOTP(ctx, testPair))

		s.clock.Advance(4 * time.Second)
		err := s.service.SendEmailOTP(ctx, testPair)
		s.Require().ErrorIs(err, ErrThrottled)
		var throttled *ThrottledError
		s.Require().True(errors.As(err, &throttled))
		s.Equal(11, throttled.RemainingSeconds)
		s.Equal(entity.ChannelEmail, throttled.Channel)

		s.clock.Advance(11 * time.Second)
		s.expectEmail(testPair, &second)
		s.NoError(s.service.SendEmailOTP(ctx, testPair))
	})

	s.Run("email and mobile cooldowns are independent", func() {
		s.SetupTest()
		s.issueBoth(testPair)
	})

	s.Run("persistence failure releases the cooldown", func() {
		s.SetupTest()
		s.repo.Challenges.UpsertErr = errors.New("connection reset")

		err := s.service.SendEmailOTP(ctx, testPair)
		s.ErrorIs(err, ErrPersistence)
		s.Zero(s.cooldown.Len())

		s.repo.Challenges.UpsertErr = nil
		var code string
		s.expectEmail(testPair, &code)
		s.NoError(s.service.SendEmailOTP(ctx, testPair), "retry is not throttled")
	})

	s.Run("registry lookup failure is a persistence error", func() {
		s.SetupTest()
		s.repo.Registrations.Err = errors.New("timeout")

		err := s.service.SendPhoneOTP(ctx, testPair)
		s.ErrorIs(err, ErrPersistence)
	})

	s.Run("live dispatch failure is reported and releases the cooldown", func() {
		s.SetupTest()
		live := s.config
		live.DispatchMode = utils.DispatchModeLive
		svc := s.newService(live)
		s.sms.EXPECT().SendSMSOTP(gomock.Any(), testPair.Mobile, gomock.Any()).Return(errors.New("provider down"))

		err := svc.SendPhoneOTP(ctx, testPair)
		s.ErrorIs(err, ErrDispatchFailure)
		s.Zero(s.cooldown.Len())
	})

	s.Run("echo dispatch failure is only logged", func() {
		s.SetupTest()
		s.email.EXPECT().SendEmailOTP(gomock.Any(), testPair.Email, gomock.Any()).Return(errors.New("log sink closed"))

		s.NoError(s.service.SendEmailOTP(ctx, testPair))
	})
}

func (s *OTPServiceSuite) TestVerify() {
	ctx := context.Background()

	s.Run("matching codes consume the challenge and mint a session", func() {
		s.SetupTest()
		emailCode, mobileCode := s.issueBoth(testPair)

		session, err := s.service.Verify(ctx, testPair, emailCode, mobileCode)
		s.Require().NoError(err)
		s.NotEmpty(session.Token)
		s.Equal(s.clock.Now().Add(15*time.Minute), session.ExpiresAt)

		claims, err := s.tokens.Parse(session.Token)
		s.Require().NoError(err)
		s.Equal(testPair.Email, claims.Email)
		s.Equal(testPair.Mobile, claims.Mobile)

		s.Zero(s.repo.Challenges.Len())
		s.Zero(s.cooldown.Len(), "cooldowns for both identifiers are cleared")
	})

	s.Run("missing challenge", func() {
		s.SetupTest()
		_, err := s.service.Verify(ctx, testPair, "123456", "123456")
		s.ErrorIs(err, ErrChallengeNotFound)
	})

	s.Run("only one channel sent", func() {
		s.SetupTest()
		var code string
		s.expectEmail(testPair, &code)
		s.Require().NoError(s.service.SendEmailOTP(ctx, testPair))

		_, err := s.service.Verify(ctx, testPair, code, "000000")
		s.ErrorIs(err, ErrIncompleteRequest)
	})

	s.Run("mobile code is checked before email code", func() {
		s.SetupTest()
		emailCode, mobileCode := s.issueBoth(testPair)

		_, err := s.service.Verify(ctx, testPair, wrong(emailCode), wrong(mobileCode))
		s.ErrorIs(err, ErrInvalidMobileOTP)

		_, err = s.service.Verify(ctx, testPair, wrong(emailCode), mobileCode)
		s.ErrorIs(err, ErrInvalidEmailOTP)

		_, err = s.service.Verify(ctx, testPair, emailCode, mobileCode)
		s.NoError(err, "a failed attempt leaves the challenge usable")
	})

	s.Run("a successful verification is single use", func() {
		s.SetupTest()
		emailCode, mobileCode := s.issueBoth(testPair)

		_, err := s.service.Verify(ctx, testPair, emailCode, mobileCode)
		s.Require().NoError(err)

		_, err = s.service.Verify(ctx, testPair, emailCode, mobileCode)
		s.ErrorIs(err, ErrChallengeNotFound)
	})

	s.Run("expired challenge is not found", func() {
		s.SetupTest()
		emailCode, mobileCode := s.issueBoth(testPair)

		s.clock.Advance(10 * time.Minute)
		_, err := s.service.Verify(ctx, testPair, emailCode, mobileCode)
		s.ErrorIs(err, ErrChallengeNotFound)
	})

	s.Run("issuing over an expired challenge resets the other channel", func() {
		s.SetupTest()
		var emailCode, mobileCode string
		s.expectEmail(testPair, &emailCode)
		s.Require().NoError(s.service.SendEmailOTP(ctx, testPair))

		s.clock.Advance(11 * time.Minute)
		s.expectSMS(testPair, &mobileCode)
		s.Require().NoError(s.service.SendPhoneOTP(ctx, testPair))

		_, err := s.service.Verify(ctx, testPair, emailCode, mobileCode)
		s.ErrorIs(err, ErrIncompleteRequest)
	})

	s.Run("a resent code supersedes the previous one", func() {
		s.SetupTest()
		oldEmail, mobileCode := s.issueBoth(testPair)

		s.clock.Advance(15 * time.Second)
		var newEmail string
		s.expectEmail(testPair, &newEmail)
		s.Require().NoError(s.service.SendEmailOTP(ctx, testPair))

		if oldEmail != newEmail {
			_, err := s.service.Verify(ctx, testPair, oldEmail, mobileCode)
			s.ErrorIs(err, ErrInvalidEmailOTP)
		}
		_, err := s.service.Verify(ctx, testPair, newEmail, mobileCode)
		s.NoError(err)
	})

	s.Run("store failure is a persistence error", func() {
		s.SetupTest()
		s.repo.Challenges.FindErr = errors.New("connection refused")

		_, err := s.service.Verify(ctx, testPair, "123456", "123456")
		s.ErrorIs(err, ErrPersistence)
	})

	s.Run("concurrent verifications succeed exactly once", func() {
		s.SetupTest()
		emailCode, mobileCode := s.issueBoth(testPair)

		const workers = 16
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			success  int
			notFound int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.service.Verify(ctx, testPair, emailCode, mobileCode)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					success++
				case errors.Is(err, ErrChallengeNotFound):
					notFound++
				}
			}()
		}
		wg.Wait()

		s.Equal(1, success)
		s.Equal(workers-1, notFound)
	})
}

type failingSession struct{ SessionService }

func (failingSession) Issue(entity.IdentityPair) (*response.SessionResponse, error) {
	return nil, errors.New("signing unavailable")
}

func (s *OTPServiceSuite) TestVerify_SigningFailureKeepsChallenge() {
	ctx := context.Background()
	emailCode, mobileCode := s.issueBoth(testPair)

	issuer := s.service.session
	s.service.session = failingSession{}

	_, err := s.service.Verify(ctx, testPair, emailCode, mobileCode)
	s.Require().ErrorContains(err, "signing unavailable")
	s.Equal(1, s.repo.Challenges.Len(), "challenge must survive a failed mint")

	s.service.session = issuer
	session, err := s.service.Verify(ctx, testPair, emailCode, mobileCode)
	s.Require().NoError(err)
	s.NotEmpty(session.Token)
	s.Equal(0, s.repo.Challenges.Len())
}

// wrong returns a different code of the same length.
func wrong(code string) string {
	b := []byte(code)
	if b[0] == '9' {
		b[0] = '0'
	} else {
		b[0]++
	}
	return string(b)
}
