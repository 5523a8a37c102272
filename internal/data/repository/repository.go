package repository

import (
	"otp-registration/pkg/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Repository struct {
	Challenge    ChallengeRepository
	Registration RegistrationRepository
	Schema       SchemaRepository
}

// NewRepository builds every store on the Postgres pool. When rdb is non-nil,
// challenges live in Redis instead.
func NewRepository(db database.PgxIface, rdb *redis.Client, log *zap.Logger) *Repository {
	challenge := NewChallengeRepository(db, log)
	if rdb != nil {
		challenge = NewRedisChallengeRepository(rdb, log)
	}

	return &Repository{
		Challenge:    challenge,
		Registration: NewRegistrationRepository(db, log),
		Schema:       NewSchemaRepository(db, log),
	}
}
