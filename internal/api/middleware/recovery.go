package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hugh/lawconnect/internal/api/dto"
)

// Recovery turns a panic into a 500 envelope. With exposeDetails the panic
// value and stack are included in the body.
func Recovery(logger *slog.Logger, exposeDetails bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := debug.Stack()
				logger.Error("panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(stack),
				)

				resp := dto.Fail("Internal server error")
				if exposeDetails {
					resp.Error = fmt.Sprint(rec)
					resp.Stack = string(stack)
				}
				writeJSON(w, http.StatusInternalServerError, resp)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
