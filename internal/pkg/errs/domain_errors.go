package errs

import "errors"

// Sentinel errors shared by the usecase layers
var (
	// Validation errors
	ErrInvalidArgument = errors.New("invalid argument")

	// Lookup errors
	ErrNotFound = errors.New("not found")

	// Issuance errors
	ErrIssuanceFailed = errors.New("issuance failed")
	ErrRenderSkipped  = errors.New("render skipped")
)
