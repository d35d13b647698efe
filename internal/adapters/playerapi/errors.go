package playerapi

import "errors"

var (
	// ErrNotFound is returned when the player API has no such player or session.
	ErrNotFound = errors.New("playerapi: not found")
	// ErrUpstream covers transport failures, unexpected statuses and undecodable bodies.
	ErrUpstream = errors.New("playerapi: upstream failure")
	// ErrInvalidArgument is returned for an empty email or id.
	ErrInvalidArgument = errors.New("playerapi: invalid argument")
)
