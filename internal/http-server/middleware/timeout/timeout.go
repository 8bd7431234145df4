package timeout

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds the request context; calls to the school API made with it
// are cancelled once the limit is reached.
func Timeout(limit time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
