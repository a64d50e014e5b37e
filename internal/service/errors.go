// errors.go — business logic errors of the service layer.
package service

import "errors"

var (
	// ErrNotFound — resource not found.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict — conflict (duplicate resource).
	ErrConflict = errors.New("conflict — resource already exists")
	// ErrValidation — input validation failure.
	ErrValidation = errors.New("validation error")
	// ErrStoreUnavailable — blob store not configured or unreachable.
	ErrStoreUnavailable = errors.New("blob store unavailable")
)
