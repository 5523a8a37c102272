package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"otp-registration/internal/data/entity"
	"otp-registration/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RegistrationRepository interface {
	// Upsert writes the full field set keyed by (email, mobile) in one statement.
	// It returns (nil, nil) when the existing record is finalized and active, which
	// this path never reopens.
	Upsert(ctx context.Context, u *entity.RegistrationUpsert) (*entity.Registration, error)
	FindByIdentity(ctx context.Context, pair entity.IdentityPair) (*entity.Registration, error)
	// ExistsFinalized reports whether identifier (an email or a mobile) belongs to a
	// non-draft, active registration.
	ExistsFinalized(ctx context.Context, identifier string) (bool, error)
}

type registrationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRegistrationRepository(db database.PgxIface, log *zap.Logger) RegistrationRepository {
	return &registrationRepository{
		db:  db,
		log: log.With(zap.String("repository", "registration")),
	}
}

const registrationColumns = `
	id, registration_id, email, mobile, full_name, gender, date_of_birth,
	form_data, is_draft, is_inactive, otp_verified_email, otp_verified_phone,
	created_at, updated_at`

func (r *registrationRepository) Upsert(ctx context.Context, u *entity.RegistrationUpsert) (*entity.Registration, error) {
	formData, err := json.Marshal(u.FormData)
	if err != nil {
		return nil, fmt.Errorf("encode form data: %w", err)
	}
	if u.FormData == nil {
		formData = []byte("{}")
	}

	query := `
		INSERT INTO registrations (id, registration_id, email, mobile, full_name, gender,
		                           date_of_birth, form_data, is_draft, is_inactive,
		                           otp_verified_email, otp_verified_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, TRUE, TRUE, $10, $10)
		ON CONFLICT (email, mobile) DO UPDATE SET
			full_name          = EXCLUDED.full_name,
			gender             = EXCLUDED.gender,
			date_of_birth      = EXCLUDED.date_of_birth,
			form_data          = EXCLUDED.form_data,
			is_draft           = EXCLUDED.is_draft,
			is_inactive        = FALSE,
			otp_verified_email = TRUE,
			otp_verified_phone = TRUE,
			updated_at         = EXCLUDED.updated_at
		WHERE registrations.is_draft OR registrations.is_inactive
		RETURNING ` + registrationColumns

	row := r.db.QueryRow(ctx, query,
		uuid.New(),
		u.RegistrationID,
		u.Identity.Email,
		u.Identity.Mobile,
		u.Static.FullName,
		u.Static.Gender,
		u.Static.DateOfBirth,
		formData,
		u.IsDraft,
		u.Now,
	)

	reg, err := scanRegistration(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to upsert registration",
			zap.Error(err),
			zap.String("email", u.Identity.Email),
			zap.String("mobile", u.Identity.Mobile),
			zap.Bool("is_draft", u.IsDraft),
		)
		return nil, fmt.Errorf("upsert registration for %s/%s: %w", u.Identity.Email, u.Identity.Mobile, err)
	}

	return reg, nil
}

func (r *registrationRepository) FindByIdentity(ctx context.Context, pair entity.IdentityPair) (*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + `
		FROM registrations
		WHERE email = $1 AND mobile = $2
	`

	reg, err := scanRegistration(r.db.QueryRow(ctx, query, pair.Email, pair.Mobile))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find registration",
			zap.Error(err),
			zap.String("email", pair.Email),
			zap.String("mobile", pair.Mobile),
		)
		return nil, fmt.Errorf("find registration for %s/%s: %w", pair.Email, pair.Mobile, err)
	}

	return reg, nil
}

func (r *registrationRepository) ExistsFinalized(ctx context.Context, identifier string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE (email = $1 OR mobile = $1)
			  AND is_draft = FALSE
			  AND is_inactive = FALSE
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, identifier).Scan(&exists); err != nil {
		r.log.Error("Failed to check finalized registration",
			zap.Error(err),
			zap.String("identifier", identifier),
		)
		return false, fmt.Errorf("check finalized registration for %s: %w", identifier, err)
	}

	return exists, nil
}

func scanRegistration(row pgx.Row) (*entity.Registration, error) {
	var (
		reg      entity.Registration
		formData []byte
	)

	err := row.Scan(
		&reg.ID,
		&reg.RegistrationID,
		&reg.Email,
		&reg.Mobile,
		&reg.FullName,
		&reg.Gender,
		&reg.DateOfBirth,
		&formData,
		&reg.IsDraft,
		&reg.IsInactive,
		&reg.OTPVerifiedEmail,
		&reg.OTPVerifiedPhone,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(formData) > 0 {
		if err := json.Unmarshal(formData, &reg.FormData); err != nil {
			return nil, fmt.Errorf("decode form data: %w", err)
		}
	}

	return &reg, nil
}
