package identity

import (
	"context"

	"github.com/okian/portal/internal/domain/model"
)

type contextKey struct{}

// WithPlayer returns a copy of ctx carrying the signed-in player.
func WithPlayer(ctx context.Context, p model.Player) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PlayerFromContext returns the signed-in player stored by WithPlayer.
func PlayerFromContext(ctx context.Context) (model.Player, bool) {
	p, ok := ctx.Value(contextKey{}).(model.Player)
	return p, ok
}
