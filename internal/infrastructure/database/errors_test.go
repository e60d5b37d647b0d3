package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jan-server/services/pairing-api/internal/utils/platformerrors"
)

func TestClassifyError(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		err         error
		wantType    platformerrors.ErrorType
		wantMessage string
		wantUnique  bool
	}{
		{
			name:        "record not found",
			err:         fmt.Errorf("query: %w", gorm.ErrRecordNotFound),
			wantType:    platformerrors.ErrorTypeNotFound,
			wantMessage: "lookup",
		},
		{
			name:        "unique violation",
			err:         &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "sessions_call_id_key"},
			wantType:    platformerrors.ErrorTypeDatabaseError,
			wantMessage: "lookup: unique constraint violated",
			wantUnique:  true,
		},
		{
			name:        "connection failure",
			err:         &pgconn.PgError{Code: pgerrcode.ConnectionFailure},
			wantType:    platformerrors.ErrorTypeDatabaseError,
			wantMessage: "lookup: database unavailable",
		},
		{
			name:        "plain error",
			err:         errors.New("driver: bad connection"),
			wantType:    platformerrors.ErrorTypeDatabaseError,
			wantMessage: "lookup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(ctx, tt.err, "lookup")
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, platformerrors.LayerRepository, got.Layer)
			assert.Equal(t, tt.wantUnique, IsUniqueViolation(tt.err))
		})
	}

	assert.Nil(t, ClassifyError(ctx, nil, "noop"))
}
