package middleware

import (
	"net/http"

	"github.com/cineshelf/cineshelf/pkg/logger"
	"github.com/cineshelf/cineshelf/pkg/response"
)

// Recover is the global fallback handler: anything uncaught is logged
// and surfaced as a 500 envelope.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(r.Context()).
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Msg("panic recovered in handler")
				response.Fail(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
