package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/avril-atelier/storefront-api/internal/app/access"
)

// NewRouter constructs the HTTP router.
//
// Middleware order matters: request id and logging first, then session
// resolution (so the gate and every handler see the subject), then the gate
// in front of the page routes.
func NewRouter(s *Server, gate *access.Gate, session func(http.Handler) http.Handler, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(logger))
	r.Use(requestLogger)
	r.Use(session)
	r.Use(NewGateMiddleware(gate))

	// Health endpoint is deliberately out-of-spec (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Account API.
	r.Post("/api/init-user", s.handleInitUser)
	r.Patch("/api/email-opt-in", s.handleEmailOptIn)
	r.Get("/api/wishlist", s.handleGetWishlist)
	r.Patch("/api/wishlist", s.handlePatchWishlist)
	r.Post("/api/redeem-code", s.handleRedeemCode)
	r.Delete("/api/delete-account", s.handleDeleteAccount)

	// Cart API.
	r.Get("/api/cart", s.handleGetCart)
	r.Post("/api/cart/lines", s.handleAddCartLine)
	r.Patch("/api/cart/lines", s.handleUpdateCartLine)
	r.Delete("/api/cart/lines", s.handleRemoveCartLine)
	r.Post("/api/cart/checkout", s.handleCheckout)

	// Page data routes (behind the gate).
	r.Get("/", s.handleHomePage)
	r.Get("/products/{handle}", s.handleProductPage)
	r.Get("/lookbook", s.handleLookbookPage)
	r.Get("/enter-code", s.handleEnterCodePage)
	r.Get("/sign-in", s.handleSignInPage)
	r.Get("/sign-up", s.handleSignInPage)
	r.Get("/sign-out", s.handleSignOut)

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
