package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

var panicBody = []byte(`{"error":"internal server error"}`)

// Recovery middleware recovers from panics and logs them with the request logger.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				zerolog.Ctx(r.Context()).Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write(panicBody)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
