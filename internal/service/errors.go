package service

import "errors"

// Sentinel errors handlers translate into HTTP status codes.
var (
	ErrEmailInUse          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrStationNotFound     = errors.New("station not found")
	ErrSessionNotFound     = errors.New("no active charging session")
	ErrOwnStation          = errors.New("station belongs to the caller")
	ErrStationUnavailable  = errors.New("station is not available")
	ErrInsufficientMinutes = errors.New("minute balance is empty")
	ErrValidation          = errors.New("invalid input")
)
