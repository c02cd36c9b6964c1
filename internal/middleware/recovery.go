package middleware

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/config"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/utils"
)

func Recoverer(l zerolog.Logger, cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("panic")
					detail := ""
					if !cfg.Production() {
						detail = fmt.Sprint(rec)
					}
					utils.ErrorDetail(w, http.StatusInternalServerError, "Internal server error", detail)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
