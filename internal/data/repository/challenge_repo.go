package repository

import (
	"context"
	"errors"
	"fmt"

	"otp-registration/internal/data/entity"
	"otp-registration/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ChallengeRepository stores per-IdentityPair OTP challenges with an absolute expiry.
// An expired challenge is indistinguishable from a missing one.
type ChallengeRepository interface {
	// Upsert sets one channel's code hash and sent flag, leaving the other channel intact,
	// and moves the expiry to u.ExpiresAt.
	Upsert(ctx context.Context, u *entity.ChallengeUpdate) error
	FindActive(ctx context.Context, pair entity.IdentityPair) (*entity.Challenge, error)
	// Delete removes the challenge only if it is still the version that was read.
	// It reports false when another caller deleted or replaced it first.
	Delete(ctx context.Context, c *entity.Challenge) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type challengeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewChallengeRepository(db database.PgxIface, log *zap.Logger) ChallengeRepository {
	return &challengeRepository{
		db:  db,
		log: log.With(zap.String("repository", "challenge")),
	}
}

type channelColumns struct {
	code, sent, otherCode, otherSent string
}

func columnsFor(ch entity.Channel) channelColumns {
	if ch == entity.ChannelEmail {
		return channelColumns{"email_code_hash", "email_sent", "mobile_code_hash", "mobile_sent"}
	}
	return channelColumns{"mobile_code_hash", "mobile_sent", "email_code_hash", "email_sent"}
}

func (r *challengeRepository) Upsert(ctx context.Context, u *entity.ChallengeUpdate) error {
	c := columnsFor(u.Channel)

	// A row past its expiry counts as absent: it restarts with only this channel set.
	query := fmt.Sprintf(`
		INSERT INTO otp_challenges (id, email, mobile, %[1]s, %[2]s,
		                            created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $5, $6)
		ON CONFLICT (email, mobile) DO UPDATE SET
			%[1]s = EXCLUDED.%[1]s,
			%[2]s = TRUE,
			%[3]s = CASE WHEN otp_challenges.expires_at <= NOW() THEN NULL ELSE otp_challenges.%[3]s END,
			%[4]s = CASE WHEN otp_challenges.expires_at <= NOW() THEN FALSE ELSE otp_challenges.%[4]s END,
			created_at = CASE WHEN otp_challenges.expires_at <= NOW() THEN EXCLUDED.created_at ELSE otp_challenges.created_at END,
			updated_at = EXCLUDED.updated_at,
			expires_at = EXCLUDED.expires_at
	`, c.code, c.sent, c.otherCode, c.otherSent)

	_, err := r.db.Exec(ctx, query,
		uuid.New(),
		u.Pair.Email,
		u.Pair.Mobile,
		u.CodeHash,
		u.IssuedAt,
		u.ExpiresAt,
	)
	if err != nil {
		r.log.Error("Failed to upsert challenge",
			zap.Error(err),
			zap.String("email", u.Pair.Email),
			zap.String("mobile", u.Pair.Mobile),
			zap.String("channel", string(u.Channel)),
		)
		return fmt.Errorf("upsert %s challenge for %s/%s: %w", u.Channel, u.Pair.Email, u.Pair.Mobile, err)
	}

	return nil
}

func (r *challengeRepository) FindActive(ctx context.Context, pair entity.IdentityPair) (*entity.Challenge, error) {
	query := `
		SELECT id, email, mobile, email_code_hash, mobile_code_hash,
		       email_sent, mobile_sent, created_at, updated_at, expires_at
		FROM otp_challenges
		WHERE email = $1
		  AND mobile = $2
		  AND expires_at > NOW()
	`

	var c entity.Challenge
	err := r.db.QueryRow(ctx, query, pair.Email, pair.Mobile).Scan(
		&c.ID,
		&c.Email,
		&c.Mobile,
		&c.EmailCodeHash,
		&c.MobileCodeHash,
		&c.EmailSent,
		&c.MobileSent,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.ExpiresAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find challenge",
			zap.Error(err),
			zap.String("email", pair.Email),
			zap.String("mobile", pair.Mobile),
		)
		return nil, fmt.Errorf("find challenge for %s/%s: %w", pair.Email, pair.Mobile, err)
	}

	return &c, nil
}

func (r *challengeRepository) Delete(ctx context.Context, c *entity.Challenge) (bool, error) {
	query := `
		DELETE FROM otp_challenges
		WHERE id = $1
		  AND updated_at = $2
		  AND expires_at > NOW()
	`

	result, err := r.db.Exec(ctx, query, c.ID, c.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to delete challenge",
			zap.Error(err),
			zap.String("challenge_id", c.ID.String()),
		)
		return false, fmt.Errorf("delete challenge %s: %w", c.ID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *challengeRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM otp_challenges WHERE expires_at <= NOW()`)
	if err != nil {
		r.log.Error("Failed to delete expired challenges", zap.Error(err))
		return 0, fmt.Errorf("delete expired challenges: %w", err)
	}

	return result.RowsAffected(), nil
}
