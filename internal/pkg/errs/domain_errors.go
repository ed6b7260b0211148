package errs

import "errors"

// Sentinel errors shared by the command and query layers
var (
	// Lookup errors
	ErrRentalNotFound = errors.New("rental not found")

	// Business rule errors
	ErrValidationFailed = errors.New("validation failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
