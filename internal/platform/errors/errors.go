package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrPersistence  = errors.New("persistence failure")
	ErrPublication  = errors.New("publication failure")

	ErrNoActiveTimer       = errors.New("no active timer")
	ErrTimerAlreadyRunning = errors.New("timer already running")
	ErrTimerBusy           = errors.New("timer is tracking another book")
)
