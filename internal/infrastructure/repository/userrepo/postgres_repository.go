package userrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/infrastructure/database"
	"jan-server/services/pairing-api/internal/infrastructure/database/dbschema"
)

// PostgresRepository stores profiles in the users table.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a new Postgres-backed profile directory.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// UpsertProfile inserts the profile or refreshes the stored one.
func (r *PostgresRepository) UpsertProfile(ctx context.Context, profile identity.Profile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "avatar_url", "updated_at"}),
		}).
		Create(dbschema.NewSchemaUser(profile)).Error
	if err != nil {
		return database.ClassifyError(ctx, err, "failed to upsert user")
	}
	return nil
}
