package domain

import "errors"

var (
	// ErrKeyNotFound is returned when no active API key matches the presented
	// value. Malformed, unknown and revoked keys all resolve to this error.
	ErrKeyNotFound = errors.New("api key not found")

	// ErrKeyExists is returned when provisioning collides with an existing key value
	ErrKeyExists = errors.New("api key already exists")

	// ErrUserNotAttributed is returned when a payment arrives for an end user
	// with no recorded app-open. The caller violated the tracking contract;
	// no payment row is written.
	ErrUserNotAttributed = errors.New("user has no attribution record")

	// ErrDuplicate is returned on uniqueness violations outside the
	// upsert conflict targets.
	ErrDuplicate = errors.New("duplicate record")
)
