package database

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"jan-server/services/pairing-api/internal/utils/platformerrors"
)

// ClassifyError converts a gorm or driver error into a repository-layer
// PlatformError. Missing rows become NOT_FOUND; everything else is a
// DATABASE_ERROR annotated with the Postgres code and constraint.
func ClassifyError(ctx context.Context, err error, message string) *platformerrors.PlatformError {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, message, err, "")
	}

	fields := map[string]any{}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fields["pg_code"] = pgErr.Code
		if pgErr.ConstraintName != "" {
			fields["constraint"] = pgErr.ConstraintName
		}

		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			message += ": unique constraint violated"
		case pgErr.Code == pgerrcode.CheckViolation:
			message += ": check constraint violated"
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgErr.Code == pgerrcode.AdminShutdown,
			pgErr.Code == pgerrcode.CannotConnectNow,
			pgErr.Code == pgerrcode.TooManyConnections:
			message += ": database unavailable"
		case pgErr.Code == pgerrcode.QueryCanceled:
			message += ": query canceled"
		}
	}

	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, message, err, "", fields)
}

// IsUniqueViolation reports whether err is a Postgres unique violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
