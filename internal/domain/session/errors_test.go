package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"jan-server/services/pairing-api/internal/domain/session"
	"jan-server/services/pairing-api/internal/utils/platformerrors"
)

func TestErrorPredicates(t *testing.T) {
	predicates := map[platformerrors.ErrorType]func(error) bool{
		platformerrors.ErrorTypeNotFound:      session.IsNotFound,
		platformerrors.ErrorTypeConflict:      session.IsConflict,
		platformerrors.ErrorTypeForbidden:     session.IsForbidden,
		platformerrors.ErrorTypeInvalidState:  session.IsInvalidState,
		platformerrors.ErrorTypeValidation:    session.IsValidation,
		platformerrors.ErrorTypeDatabaseError: session.IsStoreError,
		platformerrors.ErrorTypeExternal:      session.IsProvisionError,
	}

	for errorType := range predicates {
		err := platformerrors.NewError(context.Background(), platformerrors.LayerDomain, errorType, "boom", nil, "")
		for other, is := range predicates {
			assert.Equal(t, other == errorType, is(err), "%s against %s", errorType, other)
		}
	}

	for _, is := range predicates {
		assert.False(t, is(errors.New("plain")))
		assert.False(t, is(nil))
	}
}
