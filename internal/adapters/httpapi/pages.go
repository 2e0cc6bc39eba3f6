package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Page routes return the data a renderer consumes; HTML is out of scope.
// They sit behind the gate middleware, so a handler running here already
// means the caller may see the page.

// GET /
func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	products, err := s.Storefront.HomeProducts(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]productPayload, 0, len(products))
	for _, p := range products {
		out = append(out, productFromDomain(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": out})
}

// GET /products/{handle}
func (s *Server) handleProductPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.Storefront.Product(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": productFromDomain(p)})
}

// GET /lookbook
func (s *Server) handleLookbookPage(w http.ResponseWriter, r *http.Request) {
	products, err := s.Storefront.HomeProducts(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	images := make([]imagePayload, 0, len(products))
	for _, p := range products {
		for _, img := range p.Images {
			images = append(images, imageFromDomain(img))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"images": images})
}

// GET /enter-code
//
// An unapproved caller lands here; the gate redirects everyone else away.
func (s *Server) handleEnterCodePage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"next": r.URL.Query().Get("next"),
	})
}

// GET /sign-in, /sign-up
//
// Authentication itself lives at the identity provider; these stubs exist so
// the gate has somewhere to send the browser.
func (s *Server) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"returnTo": r.URL.Query().Get("return_to"),
	})
}

// GET /sign-out clears the session cookie and returns to sign-in.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/sign-in", http.StatusFound)
}
