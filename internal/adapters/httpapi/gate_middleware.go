package httpapi

import (
	"net/http"
	"strings"

	"github.com/avril-atelier/storefront-api/internal/app/access"
)

// NewGateMiddleware runs the access gate in front of every page render.
// API routes are skipped: they enforce their own session checks and return
// status codes instead of redirects.
func NewGateMiddleware(gate *access.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			subject, _ := SubjectFromContext(r.Context())
			d := gate.Evaluate(r.Context(), subject, r.URL)
			if !d.Allow {
				http.Redirect(w, r, d.RedirectTo, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
