package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"otp-registration/internal/data/entity"
	"otp-registration/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const mainSchemaIdentifier = "main"

// SchemaRepository reads the admin-configured registration form.
type SchemaRepository interface {
	GetFields(ctx context.Context) ([]entity.SchemaField, error)
}

type schemaRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSchemaRepository(db database.PgxIface, log *zap.Logger) SchemaRepository {
	return &schemaRepository{
		db:  db,
		log: log.With(zap.String("repository", "schema")),
	}
}

// GetFields returns an empty list when no schema has been configured.
func (r *schemaRepository) GetFields(ctx context.Context) ([]entity.SchemaField, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT fields FROM form_schemas WHERE schema_identifier = $1`,
		mainSchemaIdentifier,
	).Scan(&raw)

	if errors.Is(err, pgx.ErrNoRows) {
		return []entity.SchemaField{}, nil
	}
	if err != nil {
		r.log.Error("Failed to load form schema", zap.Error(err))
		return nil, fmt.Errorf("load form schema: %w", err)
	}

	fields := []entity.SchemaField{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		r.log.Error("Failed to decode form schema", zap.Error(err))
		return nil, fmt.Errorf("decode form schema: %w", err)
	}

	return fields, nil
}
