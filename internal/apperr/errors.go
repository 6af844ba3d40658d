package apperr

import "errors"

// Sentinel errors shared between the service layer and the HTTP handlers.
// Services wrap these with context; handlers match with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrDuplicate    = errors.New("duplicate question")
	ErrInvalidCode  = errors.New("testcode not found")
	ErrAuth         = errors.New("authentication failed")
	ErrExpiredToken = errors.New("token has expired")
	ErrNotFound     = errors.New("not found")
)
