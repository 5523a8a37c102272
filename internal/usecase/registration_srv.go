package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"otp-registration/internal/data/entity"
	"otp-registration/internal/data/repository"
	"otp-registration/pkg/metrics"
	"otp-registration/pkg/utils"

	"go.uber.org/zap"
)

// RegistrationService manages the single registration record of a verified identity.
// Callers pass the identity recovered from the session token, never one taken from a request body.
type RegistrationService interface {
	GetFormSchema(ctx context.Context) ([]entity.SchemaField, error)
	SaveDraft(ctx context.Context, identity entity.IdentityPair, form entity.FormFields, static entity.StaticFields) (*entity.Registration, error)
	GetDraft(ctx context.Context, identity entity.IdentityPair) (*entity.Registration, error)
	SubmitFinal(ctx context.Context, identity entity.IdentityPair, form entity.FormFields, static entity.StaticFields) (*entity.Registration, error)
}

type registrationService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
	log     *zap.Logger
	now     func() time.Time
}

func NewRegistrationService(repo *repository.Repository, recorder metrics.Recorder, log *zap.Logger) RegistrationService {
	return &registrationService{
		repo:    repo,
		metrics: recorder,
		log:     log,
		now:     time.Now,
	}
}

func (s *registrationService) GetFormSchema(ctx context.Context) ([]entity.SchemaField, error) {
	fields, err := s.repo.Schema.GetFields(ctx)
	if err != nil {
		return nil, persistenceError("load form schema", err)
	}
	return fields, nil
}

func (s *registrationService) SaveDraft(ctx context.Context, identity entity.IdentityPair, form entity.FormFields, static entity.StaticFields) (*entity.Registration, error) {
	return s.save(ctx, identity, form, static, true)
}

func (s *registrationService) SubmitFinal(ctx context.Context, identity entity.IdentityPair, form entity.FormFields, static entity.StaticFields) (*entity.Registration, error) {
	return s.save(ctx, identity, form, static, false)
}

func (s *registrationService) GetDraft(ctx context.Context, identity entity.IdentityPair) (*entity.Registration, error) {
	reg, err := s.repo.Registration.FindByIdentity(ctx, identity)
	if err != nil {
		return nil, persistenceError("load draft", err)
	}
	if reg == nil || !reg.IsDraft {
		return nil, nil
	}
	return reg, nil
}

func (s *registrationService) save(ctx context.Context, identity entity.IdentityPair, form entity.FormFields, static entity.StaticFields, isDraft bool) (*entity.Registration, error) {
	kind := "final"
	if isDraft {
		kind = "draft"
	}
	log := s.log.With(
		zap.String("kind", kind),
		zap.String("email", identity.Email),
		zap.String("mobile", identity.Mobile),
	)

	if err := s.checkFormKeys(ctx, form); err != nil {
		log.Warn("Registration rejected", zap.Error(err))
		return nil, err
	}

	now := s.now()
	reg, err := s.repo.Registration.Upsert(ctx, &entity.RegistrationUpsert{
		Identity:       identity,
		Static:         static,
		FormData:       form,
		IsDraft:        isDraft,
		RegistrationID: utils.GenerateRegistrationID(now),
		Now:            now,
	})
	if err != nil {
		return nil, persistenceError("save registration", err)
	}
	if reg == nil {
		log.Warn("Registration already finalized")
		return nil, ErrAlreadyRegistered
	}

	log.Info("Registration saved", zap.String("registration_id", reg.RegistrationID))
	s.metrics.RecordRegistrationSaved(kind)
	return reg, nil
}

// checkFormKeys rejects keys the schema does not define. An empty schema accepts anything.
func (s *registrationService) checkFormKeys(ctx context.Context, form entity.FormFields) error {
	if len(form) == 0 {
		return nil
	}

	fields, err := s.repo.Schema.GetFields(ctx)
	if err != nil {
		return persistenceError("load form schema", err)
	}
	if len(fields) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.Name] = struct{}{}
	}

	var unknown []string
	for key := range form {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s", ErrUnknownField, strings.Join(unknown, ", "))
	}

	return nil
}
