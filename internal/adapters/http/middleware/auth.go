package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/portal/internal/domain/identity"
	"github.com/okian/portal/internal/domain/model"
)

// SessionCookieName is the cookie carrying the identity token.
const SessionCookieName = "portal_session"

// Identifier resolves identity tokens.
type Identifier interface {
	Identify(ctx context.Context, token string) (model.Player, error)
}

type tokenKey struct{}

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// TokenFromContext returns the token Authenticate resolved.
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

// Authenticate resolves the request's token and stores the player in the
// context. It never blocks; use RequireAuth or RequireAPIAuth for that.
func Authenticate(id Identifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := TokenFromRequest(r); token != "" {
				if p, err := id.Identify(r.Context(), token); err == nil {
					ctx := identity.WithPlayer(r.Context(), p)
					ctx = context.WithValue(ctx, tokenKey{}, token)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects requests without a signed-in player to the sign-in page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identity.PlayerFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPIAuth answers requests without a signed-in player with 401.
func RequireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identity.PlayerFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("WWW-Authenticate", `Bearer realm="portal"`)
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"code":    "unauthorized",
				"message": "not signed in",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetSessionCookie sets the session cookie on the response. It lives for the
// browser session.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
