package api

import (
	"net/http"

	"github.com/newthinker/traderstats/internal/api/response"
	"github.com/newthinker/traderstats/internal/core"
	"golang.org/x/time/rate"
)

// importLimit allows perMinute requests per minute with a burst of the same
// size. Excess requests get 429. A non-positive perMinute disables the limit.
func importLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	// rate.Limit is events per second.
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				response.Fail(w, core.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
