// Package repository holds the player API's data for the development stand-in
// server: players, their session histories and their appointments.
package repository

import (
	"context"

	"github.com/okian/portal/internal/domain/model"
)

// Store provides read/write access to player data.
type Store interface {
	// PutPlayer inserts or replaces a player. Emails must be unique.
	PutPlayer(ctx context.Context, p model.Player) error
	// PutSession inserts or replaces a session of an existing player.
	PutSession(ctx context.Context, s model.TrainingSession) error
	// PutAppointment inserts or replaces an appointment of an existing player.
	PutAppointment(ctx context.Context, a model.Appointment) error

	// Player returns the player with the given id.
	// Returns ErrNotFound if the player is unknown.
	Player(ctx context.Context, id string) (model.Player, error)
	// PlayerByEmail returns the player registered with email, compared case-insensitively.
	PlayerByEmail(ctx context.Context, email string) (model.Player, error)

	// Sessions returns a player's sessions ordered by start time, most recent first.
	Sessions(ctx context.Context, playerID string) ([]model.TrainingSession, error)
	// Appointments returns a player's appointments, soonest first.
	Appointments(ctx context.Context, playerID string) ([]model.Appointment, error)
	// Session returns a single session by id.
	Session(ctx context.Context, id string) (model.TrainingSession, error)

	// Count returns the number of players.
	Count(ctx context.Context) int
}
