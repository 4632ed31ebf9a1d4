package sessionstore

import "errors"

var (
	// ErrSessionNotFound indicates no session resolves for the token.
	ErrSessionNotFound = errors.New("sessionstore: session not found")

	// ErrSessionExists indicates a create collided with a live token.
	ErrSessionExists = errors.New("sessionstore: session already exists")

	// ErrInvalidSession indicates a nil session or an empty token.
	ErrInvalidSession = errors.New("sessionstore: invalid session")

	// ErrTokenGeneration indicates token generation failed.
	ErrTokenGeneration = errors.New("sessionstore: token generation failed")
)
