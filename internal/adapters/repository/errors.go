package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidRecord = errors.New("invalid record")
	ErrEmailTaken    = errors.New("email already registered")
)
