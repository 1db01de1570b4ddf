package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrApplicationNotFound = errors.New("application not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrScreeningNotFound   = errors.New("screening call not found")
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrLockHeld            = errors.New("submission is already being processed")
	ErrNoPendingWork       = errors.New("no application matched the booking")
)
