package domain

import "errors"

var (
	ErrKeyNotFound      = errors.New("key not found")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidIdentity  = errors.New("invalid identity")

	// ErrUnauthorized marks a call the backend rejected with 401.
	ErrUnauthorized = errors.New("unauthorized")
)
