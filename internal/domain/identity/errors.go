package identity

import "errors"

var (
	// ErrEmptyPlayer is returned when creating an identity for a player without an ID.
	ErrEmptyPlayer = errors.New("identity: player has no id")
	// ErrTokenCollision is returned when the token generator repeats itself.
	ErrTokenCollision = errors.New("identity: token already issued")
)
