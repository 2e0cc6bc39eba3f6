package httpapi

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/avril-atelier/storefront-api/internal/domain"
	"github.com/avril-atelier/storefront-api/internal/platform/auth/sessionverifier"
)

const sessionCookieName = "__session"

// NewSessionMiddleware resolves the caller's identity from the `__session`
// cookie or an Authorization bearer token and stores the subject in request
// context. It never rejects by itself: page routes get redirected by the
// gate, API routes return their own 401, so an invalid token just means an
// anonymous request.
func NewSessionMiddleware(v *sessionverifier.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := rawSessionToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			sub, err := v.Verify(r.Context(), raw)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("session token rejected")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), domain.SubjectID(sub))))
		})
	}
}

// NewDevSessionMiddleware is a local/dev-only auth shim.
//
// It accepts an explicit subject via X-Debug-Subject and stores it in
// request context, falling back to defaultSubject. Standing up the identity
// provider's JWKS for local Docker workflows is overkill. Do NOT use this in
// production deployments.
func NewDevSessionMiddleware(defaultSubject string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := strings.TrimSpace(r.Header.Get("X-Debug-Subject"))
			if sub == "" {
				sub = strings.TrimSpace(defaultSubject)
			}
			if sub == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), domain.SubjectID(sub))))
		})
	}
}

func rawSessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authz := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(authz, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(authz, prefix))
	}
	return ""
}

// requireSubject is the per-route session check for the API surface.
func requireSubject(w http.ResponseWriter, r *http.Request) (domain.SubjectID, bool) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Not signed in", nil)
		return "", false
	}
	return sub, true
}
