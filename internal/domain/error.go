package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound            = errors.New("entity not found")
	ErrAlreadyExists       = errors.New("entity already exists")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidCode         = errors.New("activation code is malformed")
	ErrCodeNotFound        = errors.New("activation code not found")
	ErrCodeAlreadyUsed     = errors.New("activation code already used")
	ErrGenerationExhausted = errors.New("could not generate enough unique codes")
	ErrTooManyAttempts     = errors.New("too many redemption attempts")

	// Infrastructure-facing errors surfaced through the ports
	ErrStoreUnavailable   = errors.New("store temporarily unavailable")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrOperationFailed    = errors.New("operation failed")
)
