package session

import (
	"context"

	"jan-server/services/pairing-api/internal/utils/platformerrors"
)

// IsNotFound reports whether err is a NOT_FOUND failure.
func IsNotFound(err error) bool {
	return platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound)
}

// IsConflict reports whether err lost a join race or hit a duplicate.
func IsConflict(err error) bool {
	return platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict)
}

// IsForbidden reports whether the principal may not act on the session.
func IsForbidden(err error) bool {
	return platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden)
}

// IsInvalidState reports whether the session status forbids the operation.
func IsInvalidState(err error) bool {
	return platformerrors.IsErrorType(err, platformerrors.ErrorTypeInvalidState)
}

// IsValidation reports whether the request input was rejected.
func IsValidation(err error) bool {
	return platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation)
}

// IsStoreError reports whether the session store failed.
func IsStoreError(err error) bool {
	return platformerrors.IsErrorType(err, platformerrors.ErrorTypeDatabaseError)
}

// IsProvisionError reports whether a video or chat provider call failed or timed out.
func IsProvisionError(err error) bool {
	return platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal)
}

func domainError(ctx context.Context, errorType platformerrors.ErrorType, message, sessionID string) error {
	var fields map[string]any
	if sessionID != "" {
		fields = map[string]any{"session_id": sessionID}
	}
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, errorType, message, nil, "", fields)
}
