package server

import "kanban/internal/service"

// Transport-level codes. Service failures carry their own codes from the
// same ranges, see the service package.
const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = service.CodeInvalidArgument
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidID       = 1004
	ErrCodeInvalidStatus   = service.CodeInvalidStatus
	ErrCodeMissingRequired = service.CodeMissingRequired
	ErrCodeInvalidDate     = 1010

	// Domain state (2xxx)
	ErrCodeNotFound = 2000
	ErrCodeConflict = service.CodeConflict

	// Auth & limits (3xxx)
	ErrCodeUnauthorized      = 3001
	ErrCodeForbidden         = service.CodeForbidden
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal     = service.CodeInternal
	ErrCodeStoreFailure = service.CodeStoreFailure
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 403:
		return ErrCodeForbidden
	case 404:
		return ErrCodeNotFound
	case 409:
		return ErrCodeConflict
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
