package testutil

import (
	"context"
	"sync"
	"time"

	"otp-registration/internal/data/entity"
	"otp-registration/internal/data/repository"

	"github.com/google/uuid"
)

// ChallengeStore is an in-memory repository.ChallengeRepository with the same
// expiry and version-guarded delete semantics as the Postgres store.
type ChallengeStore struct {
	mu   sync.Mutex
	rows map[entity.IdentityPair]*entity.Challenge

	Now       func() time.Time
	UpsertErr error
	FindErr   error
	DeleteErr error
}

func NewChallengeStore() *ChallengeStore {
	return &ChallengeStore{
		rows: make(map[entity.IdentityPair]*entity.Challenge),
		Now:  time.Now,
	}
}

func (s *ChallengeStore) Upsert(_ context.Context, u *entity.ChallengeUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UpsertErr != nil {
		return s.UpsertErr
	}

	c, ok := s.rows[u.Pair]
	if !ok || !c.ExpiresAt.After(s.Now()) {
		c = &entity.Challenge{IdentityPair: u.Pair}
		c.ID = uuid.New()
		c.CreatedAt = u.IssuedAt
		s.rows[u.Pair] = c
	}

	hash := u.CodeHash
	if u.Channel == entity.ChannelEmail {
		c.EmailCodeHash, c.EmailSent = &hash, true
	} else {
		c.MobileCodeHash, c.MobileSent = &hash, true
	}
	c.UpdatedAt = u.IssuedAt
	c.ExpiresAt = u.ExpiresAt
	return nil
}

func (s *ChallengeStore) FindActive(_ context.Context, pair entity.IdentityPair) (*entity.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FindErr != nil {
		return nil, s.FindErr
	}

	c, ok := s.rows[pair]
	if !ok || !c.ExpiresAt.After(s.Now()) {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *ChallengeStore) Delete(_ context.Context, c *entity.Challenge) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DeleteErr != nil {
		return false, s.DeleteErr
	}

	cur, ok := s.rows[c.IdentityPair]
	if !ok || cur.ID != c.ID || !cur.UpdatedAt.Equal(c.UpdatedAt) || !cur.ExpiresAt.After(s.Now()) {
		return false, nil
	}
	delete(s.rows, c.IdentityPair)
	return true, nil
}

func (s *ChallengeStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for pair, c := range s.rows {
		if !c.ExpiresAt.After(s.Now()) {
			delete(s.rows, pair)
			n++
		}
	}
	return n, nil
}

// Len counts stored rows, expired ones included.
func (s *ChallengeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// RegistrationStore is an in-memory repository.RegistrationRepository.
type RegistrationStore struct {
	mu   sync.Mutex
	rows map[entity.IdentityPair]*entity.Registration

	Err error
}

func NewRegistrationStore() *RegistrationStore {
	return &RegistrationStore{rows: make(map[entity.IdentityPair]*entity.Registration)}
}

// Seed stores reg as-is, keyed by its email and mobile.
func (s *RegistrationStore) Seed(reg entity.Registration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[entity.IdentityPair{Email: reg.Email, Mobile: reg.Mobile}] = &reg
}

func (s *RegistrationStore) Upsert(_ context.Context, u *entity.RegistrationUpsert) (*entity.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	reg, ok := s.rows[u.Identity]
	if ok && !reg.IsDraft && !reg.IsInactive {
		return nil, nil
	}
	if !ok {
		reg = &entity.Registration{
			RegistrationID: u.RegistrationID,
			Email:          u.Identity.Email,
			Mobile:         u.Identity.Mobile,
		}
		reg.ID = uuid.New()
		reg.CreatedAt = u.Now
		s.rows[u.Identity] = reg
	}

	form := make(entity.FormFields, len(u.FormData))
	for k, v := range u.FormData {
		form[k] = v
	}

	reg.FullName = u.Static.FullName
	reg.Gender = u.Static.Gender
	reg.DateOfBirth = u.Static.DateOfBirth
	reg.FormData = form
	reg.IsDraft = u.IsDraft
	reg.IsInactive = false
	reg.OTPVerifiedEmail = true
	reg.OTPVerifiedPhone = true
	reg.UpdatedAt = u.Now

	cp := *reg
	return &cp, nil
}

func (s *RegistrationStore) FindByIdentity(_ context.Context, pair entity.IdentityPair) (*entity.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	reg, ok := s.rows[pair]
	if !ok {
		return nil, nil
	}
	cp := *reg
	return &cp, nil
}

func (s *RegistrationStore) ExistsFinalized(_ context.Context, identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return false, s.Err
	}

	for _, reg := range s.rows {
		if (reg.Email == identifier || reg.Mobile == identifier) && !reg.IsDraft && !reg.IsInactive {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of stored registrations.
func (s *RegistrationStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// SchemaStore serves a fixed field list.
type SchemaStore struct {
	Fields []entity.SchemaField
	Err    error
}

func (s *SchemaStore) GetFields(_ context.Context) ([]entity.SchemaField, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Fields == nil {
		return []entity.SchemaField{}, nil
	}
	return s.Fields, nil
}

// MemoryRepository bundles the in-memory stores behind a repository.Repository.
type MemoryRepository struct {
	*repository.Repository
	Challenges    *ChallengeStore
	Registrations *RegistrationStore
	Schema        *SchemaStore
}

func NewMemoryRepository() *MemoryRepository {
	challenges := NewChallengeStore()
	registrations := NewRegistrationStore()
	schema := &SchemaStore{}

	return &MemoryRepository{
		Repository: &repository.Repository{
			Challenge:    challenges,
			Registration: registrations,
			Schema:       schema,
		},
		Challenges:    challenges,
		Registrations: registrations,
		Schema:        schema,
	}
}
