// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Player is a registered portal user as returned by the player API.
type Player struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Gender     string    `json:"gender"`
	DOB        Date      `json:"dob"`
	CenterName string    `json:"centerName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FullName joins first and last name.
func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Initials returns the upper-cased first letters of first and last name.
func (p Player) Initials() string {
	return strings.ToUpper(firstRune(p.FirstName) + firstRune(p.LastName))
}

func firstRune(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}
