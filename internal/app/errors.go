package service

import "errors"

var (
	// ErrNotStarted is returned when the service is used before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrNoPlayerAPI is returned by Start when no player API was configured.
	ErrNoPlayerAPI = errors.New("no player api configured")
	// ErrInvalidEmail is returned for a blank sign-in email.
	ErrInvalidEmail = errors.New("email is required")
	// ErrPlayerNotFound is returned when a sign-in email is not registered.
	ErrPlayerNotFound = errors.New("email not registered")
	// ErrNotSignedIn is returned for an unknown or revoked identity token.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrSessionNotFound is returned for a session that does not exist or belongs to another player.
	ErrSessionNotFound = errors.New("session not found")
)
