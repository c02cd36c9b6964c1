package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/auth"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/config"
)

type ctxKey string

const (
	CtxUserID ctxKey = "uid"
	CtxEmail  ctxKey = "email"
	CtxRole   ctxKey = "role"
)

// WithAuth resolves the session credential and stores the identity in the
// request context. Requests without a valid credential pass through
// unauthenticated; the per-route gates decide what that means.
func WithAuth(log zerolog.Logger, cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := auth.Resolve(cfg.SessionSecret, r)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					log.Debug().Str("path", r.URL.Path).Msg("rejecting session token")
					// Clear the broken/expired cookie so it stops being sent.
					http.SetCookie(w, &http.Cookie{
						Name:     auth.SessionCookie,
						Value:    "",
						Path:     "/",
						Domain:   cfg.CookieDomain,
						HttpOnly: true,
						MaxAge:   -1,
					})
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), CtxUserID, id.UserID)
			ctx = context.WithValue(ctx, CtxEmail, id.Email)
			ctx = context.WithValue(ctx, CtxRole, id.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
