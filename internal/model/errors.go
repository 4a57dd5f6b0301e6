package model

import "errors"

// Error taxonomy shared by the store, the claim workflow and the API layer.
// Errors are wrapped with detail, so callers match them with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid claim transition")
)
