package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/avril-atelier/storefront-api/internal/domain"
)

// handleInitUser materializes the caller's profile with defaults.
// POST /api/init-user
func (s *Server) handleInitUser(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	if !requireSameOrigin(w, r, s.PublicOrigin) {
		return
	}

	p, err := s.Access.InitUser(r.Context(), sub)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"approved":   p.Approved,
		"emailOptIn": p.EffectiveEmailOptIn(),
	})
}

// handleEmailOptIn sets the marketing opt-in flag.
// PATCH /api/email-opt-in {"value": bool}
func (s *Server) handleEmailOptIn(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	if !requireSameOrigin(w, r, s.PublicOrigin) {
		return
	}

	var body struct {
		Value *bool `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "value must be a boolean", nil)
		return
	}

	if err := s.Access.SetEmailOptIn(r.Context(), sub, *body.Value); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"emailOptIn": *body.Value,
	})
}

// handleGetWishlist returns the caller's wishlist mapping.
// GET /api/wishlist
func (s *Server) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}

	wl, err := s.Access.GetWishlist(r.Context(), sub)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"wishlist": wishlistPayload(wl),
	})
}

// handlePatchWishlist adds or removes a single product title.
// PATCH /api/wishlist {"productTitle": string, "inWishlist": bool}
func (s *Server) handlePatchWishlist(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	if !requireSameOrigin(w, r, s.PublicOrigin) {
		return
	}

	var body struct {
		ProductTitle *string `json:"productTitle"`
		InWishlist   *bool   `json:"inWishlist"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductTitle == nil || body.InWishlist == nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "productTitle must be a string and inWishlist a boolean", nil)
		return
	}

	wl, err := s.Access.SetWishlistItem(r.Context(), sub, *body.ProductTitle, *body.InWishlist)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"productTitle": *body.ProductTitle,
		"inWishlist":   *body.InWishlist,
		"wishlist":     wishlistPayload(wl),
	})
}

// handleRedeemCode checks an access code and approves the caller.
// POST /api/redeem-code {"code": string}
//
// No origin check here: the enter-code page posts from a state where the
// caller has nothing to protect yet, and the route stays reachable for
// non-browser clients.
func (s *Server) handleRedeemCode(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}

	var body struct {
		Code *string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Code == nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "code must be a string", nil)
		return
	}

	if err := s.Access.RedeemCode(r.Context(), sub, *body.Code); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleDeleteAccount removes the caller at the identity provider and
// locally. Confirmation is the client's problem.
// DELETE /api/delete-account
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if !requireSameOrigin(w, r, s.PublicOrigin) {
		return
	}
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}

	if err := s.Access.DeleteAccount(r.Context(), sub); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// wishlistPayload keeps an empty wishlist encoding as {} rather than null.
func wishlistPayload(wl domain.Wishlist) map[string]bool {
	if wl == nil {
		return map[string]bool{}
	}
	return wl
}
