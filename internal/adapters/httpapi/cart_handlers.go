package httpapi

import (
	"encoding/json"
	"net/http"
)

const cartCookieName = "cartId"

func cartIDFromRequest(r *http.Request) string {
	if c, err := r.Cookie(cartCookieName); err == nil {
		return c.Value
	}
	return ""
}

func setCartCookie(w http.ResponseWriter, cartID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    cartID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// handleGetCart returns the caller's cart, or an empty one.
// GET /api/cart
func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSubject(w, r); !ok {
		return
	}

	cart, err := s.Storefront.Cart(r.Context(), cartIDFromRequest(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cartFromDomain(cart)})
}

// handleAddCartLine adds a variant, creating a cart as needed. The cart id
// comes back in the cookie as well as the payload.
// POST /api/cart/lines {"merchandiseId": string, "quantity": int}
func (s *Server) handleAddCartLine(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSubject(w, r); !ok {
		return
	}
	if !requireSameOrigin(w, r, s.PublicOrigin) {
		return
	}

	var body struct {
		MerchandiseID *string `json:"merchandiseId"`
		Quantity      int     `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MerchandiseID == nil || *body.MerchandiseID == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "merchandiseId must be a non-empty string", nil)
		return
	}

	cart, err := s.Storefront.AddToCart(r.Context(), cartIDFromRequest(r), *body.MerchandiseID, body.Quantity)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	setCartCookie(w, cart.ID)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "cart": cartFromDomain(cart)})
}

// handleUpdateCartLine sets the quantity for a variant's line; zero removes.
// PATCH /api/cart/lines {"merchandiseId": string, "quantity": int}
func (s *Server) handleUpdateCartLine(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSubject(w, r); !ok {
		return
	}
	if !requireSameOrigin(w, r, s.PublicOrigin) {
		return
	}

	var body struct {
		MerchandiseID *string `json:"merchandiseId"`
		Quantity      *int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MerchandiseID == nil || body.Quantity == nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "merchandiseId must be a string and quantity an integer", nil)
		return
	}

	cart, err := s.Storefront.UpdateLine(r.Context(), cartIDFromRequest(r), *body.MerchandiseID, *body.Quantity)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "cart": cartFromDomain(cart)})
}

// handleRemoveCartLine removes a variant's line.
// DELETE /api/cart/lines {"merchandiseId": string}
func (s *Server) handleRemoveCartLine(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSubject(w, r); !ok {
		return
	}
	if !requireSameOrigin(w, r, s.PublicOrigin) {
		return
	}

	var body struct {
		MerchandiseID *string `json:"merchandiseId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MerchandiseID == nil || *body.MerchandiseID == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "merchandiseId must be a non-empty string", nil)
		return
	}

	cart, err := s.Storefront.RemoveLine(r.Context(), cartIDFromRequest(r), *body.MerchandiseID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "cart": cartFromDomain(cart)})
}

// handleCheckout hands back the backend's hosted checkout URL.
// POST /api/cart/checkout
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSubject(w, r); !ok {
		return
	}
	if !requireSameOrigin(w, r, s.PublicOrigin) {
		return
	}

	u, err := s.Storefront.CheckoutURL(r.Context(), cartIDFromRequest(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "url": u})
}
