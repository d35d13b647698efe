package site

import "errors"

// Error constants
var (
	ErrTemplate = errors.New("site template failed")
	ErrCSRFKey  = errors.New("csrf key must be 32 bytes")
	ErrService  = errors.New("site service is nil")
)

// Messages shown to players. They never carry internal detail.
const (
	msgNotRegistered = "Email not registered. Please check and try again."
	msgWentWrong     = "Something went wrong. Please try again."
	msgThrottled     = "Too many sign-in attempts. Please wait a minute and try again."
	msgFormExpired   = "Your form expired. Please try again."
)
