package secevent

import "errors"

var (
	// ErrEventValidation indicates an event is missing required fields.
	ErrEventValidation = errors.New("secevent: event validation failed")

	// ErrStorageUnavailable indicates the backing storage rejected the
	// operation.
	ErrStorageUnavailable = errors.New("secevent: storage unavailable")
)
