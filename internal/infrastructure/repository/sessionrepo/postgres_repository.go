package sessionrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jan-server/services/pairing-api/internal/domain/session"
	"jan-server/services/pairing-api/internal/infrastructure/database"
	"jan-server/services/pairing-api/internal/infrastructure/database/dbschema"
	"jan-server/services/pairing-api/internal/utils/platformerrors"
)

// PostgresRepository stores sessions in Postgres through GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a new Postgres-backed repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, in *session.NewSession) (*session.Session, error) {
	row := dbschema.NewSchemaSession(in)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return nil, database.ClassifyError(ctx, err, "failed to create session")
	}
	return row.EtoD(), nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*session.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound(ctx, id)
	}
	return r.take(ctx, "failed to find session", "id = ?", id)
}

func (r *PostgresRepository) FindByCallID(ctx context.Context, callID string) (*session.Session, error) {
	return r.take(ctx, "failed to find session by call id", "call_id = ?", callID)
}

func (r *PostgresRepository) FindActive(ctx context.Context, limit int) ([]*session.Session, error) {
	return r.list(ctx, limit, "status = ?", string(session.StatusActive))
}

func (r *PostgresRepository) FindRecentFor(ctx context.Context, userID string, limit int) ([]*session.Session, error) {
	return r.list(ctx, limit, "host_id = ? OR participant_id = ?", userID, userID)
}

// SetParticipant is a single UPDATE guarded on the row's current state, so two
// concurrent joins cannot both match.
func (r *PostgresRepository) SetParticipant(ctx context.Context, id, participantID string) (*session.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound(ctx, id)
	}

	res := r.db.WithContext(ctx).
		Model(&dbschema.Session{}).
		Where("id = ? AND status = ? AND participant_id IS NULL AND host_id <> ?", id, string(session.StatusActive), participantID).
		Updates(map[string]any{
			"participant_id": participantID,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, database.ClassifyError(ctx, res.Error, "failed to set participant")
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			"session is no longer open for joining", nil, "", map[string]any{"session_id": id})
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status session.Status) (*session.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound(ctx, id)
	}

	res := r.db.WithContext(ctx).
		Model(&dbschema.Session{}).
		Where("id = ? AND status = ? AND participant_id IS NULL", id, string(session.StatusActive)).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, database.ClassifyError(ctx, res.Error, "failed to set status")
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInvalidState,
			"session can no longer change status", nil, "", map[string]any{"session_id": id})
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound(ctx, id)
	}
	res := r.db.WithContext(ctx).Delete(&dbschema.Session{}, "id = ?", id)
	if res.Error != nil {
		return database.ClassifyError(ctx, res.Error, "failed to delete session")
	}
	if res.RowsAffected == 0 {
		return notFound(ctx, id)
	}
	return nil
}

func (r *PostgresRepository) take(ctx context.Context, message string, query string, args ...any) (*session.Session, error) {
	var row dbschema.Session
	err := r.db.WithContext(ctx).
		Preload("Host").
		Preload("Participant").
		Where(query, args...).
		Take(&row).Error
	if err != nil {
		return nil, database.ClassifyError(ctx, err, message)
	}
	return row.EtoD(), nil
}

func (r *PostgresRepository) list(ctx context.Context, limit int, query string, args ...any) ([]*session.Session, error) {
	var rows []dbschema.Session
	err := r.db.WithContext(ctx).
		Preload("Host").
		Preload("Participant").
		Where(query, args...).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, database.ClassifyError(ctx, err, "failed to list sessions")
	}

	result := make([]*session.Session, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].EtoD())
	}
	return result, nil
}
