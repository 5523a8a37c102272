package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"otp-registration/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const challengeKeyPrefix = "otp:challenge:"

// redisChallengeRepository keeps each challenge in a hash whose key TTL is the challenge expiry,
// so Redis itself plays the role of the TTL index.
type redisChallengeRepository struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisChallengeRepository(client *redis.Client, log *zap.Logger) ChallengeRepository {
	return &redisChallengeRepository{
		client: client,
		log:    log.With(zap.String("repository", "challenge_redis")),
	}
}

func challengeKey(pair entity.IdentityPair) string {
	return challengeKeyPrefix + pair.Email + ":" + pair.Mobile
}

func unixNano(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

func (r *redisChallengeRepository) Upsert(ctx context.Context, u *entity.ChallengeUpdate) error {
	key := challengeKey(u.Pair)
	codeField, sentField := "mobile_code_hash", "mobile_sent"
	if u.Channel == entity.ChannelEmail {
		codeField, sentField = "email_code_hash", "email_sent"
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// Only set on creation; an expired key is already gone.
		pipe.HSetNX(ctx, key, "id", uuid.NewString())
		pipe.HSetNX(ctx, key, "created_at", unixNano(u.IssuedAt))
		pipe.HSet(ctx, key,
			"email", u.Pair.Email,
			"mobile", u.Pair.Mobile,
			codeField, u.CodeHash,
			sentField, "1",
			"updated_at", unixNano(u.IssuedAt),
			"expires_at", unixNano(u.ExpiresAt),
		)
		pipe.ExpireAt(ctx, key, u.ExpiresAt)
		return nil
	})
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

func (r *redisChallengeRepository) FindActive(ctx context.Context, pair entity.IdentityPair) (*entity.Challenge, error) {
	fields, err := r.client.HGetAll(ctx, challengeKey(pair)).Result()
	if err != nil {
		r.log.Error("Failed to find challenge",
			zap.Error(err),
			zap.String("email", pair.Email),
			zap.String("mobile", pair.Mobile),
		)
		return nil, fmt.Errorf("find challenge for %s/%s: %w", pair.Email, pair.Mobile, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	c, err := decodeChallenge(fields)
	if err != nil {
		return nil, fmt.Errorf("decode challenge for %s/%s: %w", pair.Email, pair.Mobile, err)
	}
	if !c.ExpiresAt.After(time.Now()) {
		return nil, nil
	}

	return c, nil
}

func (r *redisChallengeRepository) Delete(ctx context.Context, c *entity.Challenge) (bool, error) {
	key := challengeKey(c.IdentityPair)
	deleted := false

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, "updated_at").Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		if current != unixNano(c.UpdatedAt) {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		if err == nil {
			deleted = true
		}
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		r.log.Error("Failed to delete challenge",
			zap.Error(err),
			zap.String("email", c.Email),
			zap.String("mobile", c.Mobile),
		)
		return false, fmt.Errorf("delete challenge for %s/%s: %w", c.Email, c.Mobile, err)
	}

	return deleted, nil
}

// DeleteExpired is a no-op: key TTLs already evict expired challenges.
func (r *redisChallengeRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func decodeChallenge(fields map[string]string) (*entity.Challenge, error) {
	id, err := uuid.Parse(fields["id"])
	if err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}

	c := &entity.Challenge{
		IdentityPair: entity.IdentityPair{
			Email:  fields["email"],
			Mobile: fields["mobile"],
		},
		EmailSent:  fields["email_sent"] == "1",
		MobileSent: fields["mobile_sent"] == "1",
	}
	c.ID = id

	if v, ok := fields["email_code_hash"]; ok {
		c.EmailCodeHash = &v
	}
	if v, ok := fields["mobile_code_hash"]; ok {
		c.MobileCodeHash = &v
	}

	for name, dst := range map[string]*time.Time{
		"created_at": &c.CreatedAt,
		"updated_at": &c.UpdatedAt,
		"expires_at": &c.ExpiresAt,
	} {
		nanos, err := strconv.ParseInt(fields[name], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		*dst = time.Unix(0, nanos)
	}

	return c, nil
}
